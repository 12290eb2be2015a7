package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds text for case- and diacritic-insensitive comparison:
// "María" and "maria" normalize identically.
//
// The text is lowercased, decomposed to NFD and stripped of combining marks.
// Recomposition to NFC keeps the result stable under repeated application.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return result
}

// ContainsFolded reports whether needle occurs in haystack after both are normalized.
func ContainsFolded(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}
