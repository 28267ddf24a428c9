package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"calleroo/models"
	"calleroo/utils"
)

// Deterministic slot parsers. These run before any model call; a model is
// consulted only when a non-TEXT slot cannot be parsed locally.

// ExtractChoiceValue matches a message against a CHOICE slot's options:
// exact value, exact label, then partial label, all case-insensitive.
func ExtractChoiceValue(message string, slot models.SlotSpec) (string, bool) {
	m := strings.ToLower(strings.TrimSpace(message))
	if m == "" {
		return "", false
	}
	for _, c := range slot.Choices {
		if m == strings.ToLower(c.Value) || m == strings.ToLower(c.Label) {
			return c.Value, true
		}
	}
	for _, c := range slot.Choices {
		label := strings.ToLower(c.Label)
		if strings.Contains(label, m) || strings.Contains(m, label) {
			return c.Value, true
		}
	}
	return "", false
}

var yesTokens = map[string]struct{}{
	"yes": {}, "yeah": {}, "yep": {}, "yup": {}, "sure": {}, "ok": {}, "okay": {}, "y": {},
}

var noTokens = map[string]struct{}{
	"no": {}, "nope": {}, "nah": {}, "n": {},
}

// ExtractYesNoValue maps affirmative and negative tokens to YES/NO.
// Ambiguous input does not extract.
func ExtractYesNoValue(message string) (string, bool) {
	m := strings.ToLower(strings.TrimSpace(message))
	m = strings.Trim(m, ".!,")
	if _, ok := yesTokens[m]; ok {
		return "YES", true
	}
	if _, ok := noTokens[m]; ok {
		return "NO", true
	}
	fields := strings.Fields(m)
	if len(fields) > 0 {
		if _, ok := yesTokens[fields[0]]; ok {
			return "YES", true
		}
		if _, ok := noTokens[fields[0]]; ok {
			return "NO", true
		}
	}
	return "", false
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate normalizes a spoken or typed date to ISO yyyy-mm-dd. Relative
// words resolve against now; numeric dates read day-first.
func ParseDate(message string, now time.Time) (string, bool) {
	m := strings.TrimSpace(message)
	switch strings.ToLower(m) {
	case "today":
		return now.Format("2006-01-02"), true
	case "tomorrow", "tmrw":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, m); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

var (
	clockPattern    = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(am|pm)?$`)
	hourAmPmPattern = regexp.MustCompile(`(?i)^(\d{1,2})\s*(am|pm)$`)
	bareHourPattern = regexp.MustCompile(`^(\d{1,2})$`)
)

// ParseTime normalizes a time expression to 24-hour HH:MM. Accepts 24-hour
// clock, 12-hour with am/pm, and a bare hour.
func ParseTime(message string) (string, bool) {
	m := strings.TrimSpace(message)

	if match := clockPattern.FindStringSubmatch(m); match != nil {
		hour, _ := strconv.Atoi(match[1])
		minute, _ := strconv.Atoi(match[2])
		hour, ok := applyMeridiem(hour, match[3])
		if !ok || minute > 59 {
			return "", false
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), true
	}

	if match := hourAmPmPattern.FindStringSubmatch(m); match != nil {
		hour, _ := strconv.Atoi(match[1])
		hour, ok := applyMeridiem(hour, match[2])
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%02d:00", hour), true
	}

	if match := bareHourPattern.FindStringSubmatch(m); match != nil {
		hour, _ := strconv.Atoi(match[1])
		if hour > 23 {
			return "", false
		}
		return fmt.Sprintf("%02d:00", hour), true
	}

	return "", false
}

func applyMeridiem(hour int, meridiem string) (int, bool) {
	switch strings.ToLower(meridiem) {
	case "":
		if hour > 23 {
			return 0, false
		}
		return hour, true
	case "am":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			return 0, true
		}
		return hour, true
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			return 12, true
		}
		return hour + 12, true
	}
	return 0, false
}

var digitsPattern = regexp.MustCompile(`\d+`)

var writtenNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90, "hundred": 100,
}

// ParseNumber pulls the first number out of a phrase, digits or written.
func ParseNumber(message string) (int, bool) {
	m := strings.ToLower(strings.TrimSpace(message))
	if m == "" {
		return 0, false
	}
	if digits := digitsPattern.FindString(m); digits != "" {
		n, err := strconv.Atoi(digits)
		if err == nil {
			return n, true
		}
	}
	for _, word := range strings.Fields(m) {
		if n, ok := writtenNumbers[strings.Trim(word, ".,!?")]; ok {
			return n, true
		}
	}
	return 0, false
}

// ExtractSlotDeterministic parses a message for one slot without any model
// call. TEXT slots take the trimmed message as-is.
func ExtractSlotDeterministic(message string, slot models.SlotSpec) (string, bool) {
	m := strings.TrimSpace(message)
	if m == "" {
		return "", false
	}

	switch slot.InputType {
	case models.InputText:
		return m, true
	case models.InputChoice:
		return ExtractChoiceValue(m, slot)
	case models.InputYesNo:
		return ExtractYesNoValue(m)
	case models.InputPhone:
		if normalized := utils.NormalizeE164(m); normalized != "" {
			return normalized, true
		}
		return "", false
	case models.InputDate:
		return ParseDate(m, time.Now())
	case models.InputTime:
		return ParseTime(m)
	case models.InputNumber:
		if n, ok := ParseNumber(m); ok {
			return strconv.Itoa(n), true
		}
		return "", false
	}
	return "", false
}
