package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RemoveControlCharacters strips non-printable runes that some engines leak
// into segment text. Newlines and tabs collapse to plain spaces.
func RemoveControlCharacters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// drop
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TruncateForLog shortens long text for log lines. The cut lands on a rune
// boundary so multi-byte text never logs as mangled UTF-8.
func TruncateForLog(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
