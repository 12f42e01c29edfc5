package utils

import (
	"strings"
)

// EscapeSQLWildcards escapes LIKE wildcards. Queries using it must declare
// ESCAPE '\'.
func EscapeSQLWildcards(input string) string {
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

const maxSearchRunes = 100

// SanitizeSearchQuery prepares a search term for a contains-style LIKE. Terms
// are cut to 100 runes.
func SanitizeSearchQuery(input string) string {
	input = strings.TrimSpace(input)
	if r := []rune(input); len(r) > maxSearchRunes {
		input = string(r[:maxSearchRunes])
	}
	return "%" + EscapeSQLWildcards(input) + "%"
}

// TruncateString shortens s to at most maxLen runes, marking the cut with "..."
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
