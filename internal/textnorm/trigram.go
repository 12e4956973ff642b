package textnorm

import (
	"strings"
	"unicode"
)

// Similarity scores two strings in [0,1] by shared trigrams, following the
// pg_trgm rules: case-folded, split into alphanumeric words, every word padded
// with two leading blanks and one trailing blank.
func Similarity(a, b string) float64 {
	ta := Trigrams(a)
	tb := Trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	common := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			common++
		}
	}
	return float64(common) / float64(len(ta)+len(tb)-common)
}

// Trigrams returns the trigram set of s.
func Trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range words(s) {
		padded := []rune("  " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
