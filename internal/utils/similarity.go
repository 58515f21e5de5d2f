package utils

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the SequenceMatcher similarity in [0,1] between the
// case-folded forms of a and b, compared rune by rune. Two empty strings are
// identical.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runeTokens(a), runeTokens(b)).Ratio()
}

func runeTokens(s string) []string {
	lower := strings.ToLower(s)
	out := make([]string, 0, len(lower))
	for _, r := range lower {
		out = append(out, string(r))
	}
	return out
}
