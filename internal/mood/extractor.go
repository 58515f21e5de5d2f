package mood

import (
	"strings"
	"unicode"
)

// Extract returns the moods found in text, in rule order, followed by up to
// five generic tags in order of first appearance. Values are unique.
func Extract(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var out []string

	for _, r := range Rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				if !seen[string(r.Mood)] {
					seen[string(r.Mood)] = true
					out = append(out, string(r.Mood))
				}
				break
			}
		}
	}

	for _, tag := range extractTags(lower) {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

func extractTags(lower string) []string {
	known := make(map[string]bool, len(GenericTags))
	for _, t := range GenericTags {
		known[t] = true
	}
	found := make(map[string]bool)
	var tags []string
	for _, word := range strings.Fields(lower) {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
				return r
			}
			return -1
		}, word)
		if known[clean] && !found[clean] {
			found[clean] = true
			tags = append(tags, clean)
			if len(tags) == maxGenericTags {
				break
			}
		}
	}
	return tags
}
