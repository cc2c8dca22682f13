package util

import (
	"strings"
)

// Trunc truncates the input string to maxRunes runes. If maxRunes is not positive, s is returned trimmed.
// It is UTF8-safe, but does not care for HTML.
func Trunc(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	if maxRunes <= 0 {
		return s
	}
	var runes = 0
	for i := range s {
		if runes == maxRunes {
			return strings.TrimSpace(s[:i]) // trim spaces again
		}
		runes++
	}
	return s
}
