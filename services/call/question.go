package call

import (
	"regexp"
	"strings"
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// extractQuestion pulls the last question sentence out of a reply, or ""
// when the reply asks nothing.
func extractQuestion(text string) string {
	if !strings.Contains(text, "?") {
		return ""
	}
	normalized := strings.ReplaceAll(text, "!", ".")
	normalized = strings.ReplaceAll(normalized, "?", "?.")
	sentences := strings.Split(normalized, ".")
	for i := len(sentences) - 1; i >= 0; i-- {
		sentence := strings.TrimSpace(sentences[i])
		if strings.HasSuffix(sentence, "?") {
			return sentence
		}
	}
	return ""
}

func normalizeQuestion(q string) string {
	q = strings.ToLower(q)
	q = nonWordPattern.ReplaceAllString(q, "")
	return strings.Join(strings.Fields(q), " ")
}

// isSameQuestion compares two questions after normalization. Exact match or
// word overlap of 80% or more counts as the same question.
func isSameQuestion(q1, q2 string) bool {
	n1 := normalizeQuestion(q1)
	n2 := normalizeQuestion(q2)
	if n1 == n2 {
		return true
	}
	words1 := map[string]bool{}
	for _, w := range strings.Fields(n1) {
		words1[w] = true
	}
	words2 := map[string]bool{}
	for _, w := range strings.Fields(n2) {
		words2[w] = true
	}
	if len(words1) == 0 || len(words2) == 0 {
		return false
	}
	intersection := 0
	union := len(words2)
	for w := range words1 {
		if words2[w] {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection)/float64(union) >= 0.8
}
