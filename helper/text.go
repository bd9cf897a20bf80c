package helper

import "unicode/utf8"

// Truncate shortens s to at most max bytes without splitting a multibyte
// rune, backing off to the previous rune boundary if needed
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
