package call

import "strings"

// Phrases a callee uses while checking something. A pure hold gets a single
// acknowledgment instead of a generation cycle.
var holdPhrases = []string{
	"one sec",
	"just a sec",
	"checking",
	"hold on",
	"moment",
	"let me check",
	"give me a second",
	"one moment",
	"just a moment",
	"hang on",
	"bear with me",
}

const holdAcknowledgement = "No worries—take your time."

// Words that mean the speech carries substantive information rather than
// just a hold phrase.
var infoIndicators = []string{
	// numbers
	"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	"eleven", "twelve", "twenty", "thirty", "forty", "fifty", "hundred",
	// yes/no
	"yes", "yeah", "yep", "yup", "no", "nope", "nah",
	// stock
	"in stock", "out of stock", "got", "have", "don't have", "available", "unavailable",
	"sold out", "left", "remaining",
	// price
	"dollar", "dollars", "$", "price", "cost", "costs", "each", "per",
	// confirmation
	"correct", "right", "confirmed", "booked", "reserved",
}

// ContainsInfo reports whether speech carries real information: digits,
// prices, yes/no answers, or stock vocabulary.
func ContainsInfo(speech string) bool {
	for _, r := range speech {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	lower := strings.ToLower(speech)
	for _, indicator := range infoIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// IsPureHoldPhrase reports whether speech is only a hold phrase. "Yeah one
// sec, we have eight" carries an answer and must not be eaten.
func IsPureHoldPhrase(speech string) bool {
	lower := strings.ToLower(strings.TrimSpace(speech))
	if ContainsInfo(speech) {
		return false
	}
	hasHold := false
	for _, phrase := range holdPhrases {
		if strings.Contains(lower, phrase) {
			hasHold = true
			break
		}
	}
	if !hasHold {
		return false
	}
	return len(strings.Fields(lower)) < 8
}
