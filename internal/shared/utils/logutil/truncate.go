package logutil

import "unicode/utf8"

// TruncateForLog shortens s to at most maxLen runes and appends "..." when it was cut.
// Rune based so Vietnamese text is never split inside a character.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}
