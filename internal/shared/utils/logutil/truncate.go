// Package logutil prepares client-supplied strings for log fields.
package logutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TruncateForLog keeps at most maxLen runes of s and appends "..." when
// anything was cut. Control characters are dropped so a device string cannot
// forge extra log lines.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}

	clean := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	if utf8.RuneCountInString(clean) <= maxLen {
		return clean
	}
	return string([]rune(clean)[:maxLen]) + "..."
}
