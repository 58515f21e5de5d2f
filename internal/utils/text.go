package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// TruncateWithMarker cuts s to n runes and appends marker when it was cut.
func TruncateWithMarker(s string, n int, marker string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return Truncate(s, n) + marker
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// TitleCase capitalizes every whitespace separated word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	return strings.Join(words, " ")
}

// ContainsAny reports whether text contains any of the given substrings.
func ContainsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// ContainsWord reports whether phrase occurs in text on word boundaries.
func ContainsWord(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(phrase)
		if boundaryBefore(text, idx) && boundaryAfter(text, end) {
			return true
		}
		start = idx + 1
		if start >= len(text) {
			return false
		}
	}
}

func boundaryBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, idx int) bool {
	if idx >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[idx:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
