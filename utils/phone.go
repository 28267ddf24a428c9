package utils

import (
	"regexp"
	"strings"
)

var (
	phoneSeparators = regexp.MustCompile(`[\s\-().]`)
	e164Pattern     = regexp.MustCompile(`^\+\d{7,15}$`)
	nonDigits       = regexp.MustCompile(`\D`)
)

// NormalizeE164 normalizes a raw phone number to E.164, e.g. +61412345678.
// Numbers without a country code are resolved with the Australian rules:
// a 10-digit national number with a leading zero, or a 9-digit mobile or
// landline without one. 8-digit local numbers have no recoverable area code
// and return "".
func NormalizeE164(raw string) string {
	cleaned := phoneSeparators.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return ""
	}

	if strings.HasPrefix(cleaned, "+") {
		if e164Pattern.MatchString(cleaned) {
			return cleaned
		}
		return ""
	}

	digits := nonDigits.ReplaceAllString(cleaned, "")

	switch {
	case strings.HasPrefix(digits, "61") && len(digits) == 11:
		return "+" + digits
	case strings.HasPrefix(digits, "0") && len(digits) == 10:
		return "+61" + digits[1:]
	case len(digits) == 9 && strings.ContainsRune("234789", rune(digits[0])):
		return "+61" + digits
	default:
		// 8-digit local numbers need an area code we can't guess.
		return ""
	}
}
