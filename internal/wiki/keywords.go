package wiki

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var stopWords = map[string]bool{
	"chi": true, "cosa": true, "che": true, "quale": true, "quando": true, "dove": true,
	"come": true, "perché": true, "è": true, "sono": true, "ha": true, "hanno": true,
	"era": true, "erano": true, "sarà": true, "saranno": true, "il": true, "la": true,
	"lo": true, "gli": true, "le": true, "un": true, "una": true, "uno": true, "di": true,
	"a": true, "da": true, "in": true, "su": true, "per": true, "con": true, "tra": true,
	"fra": true, "del": true, "della": true, "dei": true, "delle": true,
}

var (
	punctRe       = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	capitalizedRe = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
)

// ExtractKeywords returns the distinct non-stop-words of question longer
// than two characters, in order of appearance.
func ExtractKeywords(question string) []string {
	words := strings.Fields(punctRe.ReplaceAllString(strings.ToLower(question), " "))
	for _, w := range capitalizedRe.FindAllString(question, -1) {
		words = append(words, strings.ToLower(w))
	}

	seen := make(map[string]bool)
	var keywords []string
	for _, w := range words {
		if stopWords[w] || utf8.RuneCountInString(w) <= 2 || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}

func longestFirst(keywords []string) []string {
	sorted := append([]string(nil), keywords...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	return sorted
}

// RelevantSection returns the title of the section whose text contains the
// most keywords, or "" when no section contains any.
func RelevantSection(text string, keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	matches := sectionRe.FindAllStringSubmatchIndex(text, -1)
	best, bestScore := "", 0
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := strings.ToLower(text[m[0]:end])
		score := 0
		for _, kw := range keywords {
			if strings.Contains(content, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = strings.TrimSpace(text[m[2]:m[3]]), score
		}
	}
	return best
}
