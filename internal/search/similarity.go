package search

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity scores two strings between 0, totally unrelated, and 1,
// identical or both empty. Lengths are counted in runes to match the edit
// distance, which operates on runes.
func Similarity(a, b string) float64 {
	longer, shorter := a, b
	if utf8.RuneCountInString(a) < utf8.RuneCountInString(b) {
		longer, shorter = b, a
	}
	n := utf8.RuneCountInString(longer)
	if n == 0 {
		return 1.0
	}
	return float64(n-levenshtein.ComputeDistance(longer, shorter)) / float64(n)
}
