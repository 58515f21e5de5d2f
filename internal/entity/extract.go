// Package entity pulls entity names out of free-text queries and maps them to
// franchise identifiers used by the web lookup.
package entity

import (
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/utils"
)

// RequestPhrases are stripped from a query; the remainder after the first
// phrase found (in table order) is the entity. Longer phrases come first so
// that "che cos'è" wins over "cos'è".
var RequestPhrases = []string{
	"raccontami di più su", "dimmi di più su", "approfondisci su",
	"che cos'è", "che cosa è", "informazioni su", "informazioni di",
	"mi parli di", "parlami di", "parlarmi di", "raccontami di",
	"dimmi di", "dimmi chi è", "info su", "approfondisci",
	"chi è", "chi e", "cos'è", "cosa è", "cos e", "cosa e",
	"who is", "tell me about",
}

// separators end the entity so trailing clauses ("in ace attorney") are
// not swallowed.
var separators = []string{"in", "della", "da", "di"}

var leadingArticles = []string{"il ", "lo ", "la ", "l'", "gli ", "le ", "un ", "una ", "uno "}

const trailingPunct = "?!.,;:\"' "

// ExtractEntity returns the clean, lower-cased entity name of query. It never
// returns an empty string for non-empty input.
func ExtractEntity(query string) string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)

	name := ""
	matched := false
	for _, phrase := range RequestPhrases {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			name = strings.TrimSpace(lower[idx+len(phrase):])
			matched = true
			break
		}
	}

	if matched {
		name = cutAtSeparator(stripArticle(name))
	} else {
		words := strings.Fields(lower)
		if len(words) > 3 {
			words = words[:3]
		}
		name = strings.Join(words, " ")
	}

	name = strings.TrimRight(name, trailingPunct)
	name = strings.TrimLeft(name, trailingPunct)
	if name == "" {
		return trimmed
	}
	return name
}

func stripArticle(name string) string {
	for _, a := range leadingArticles {
		if strings.HasPrefix(name, a) && len(name) > len(a) {
			return strings.TrimSpace(name[len(a):])
		}
	}
	return name
}

func cutAtSeparator(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if i == 0 {
			continue
		}
		for _, sep := range separators {
			if w == sep {
				return strings.Join(words[:i], " ")
			}
		}
	}
	return strings.Join(words, " ")
}

// Resolve extracts the entity of query and detects its series.
func Resolve(query string) types.ResolvedEntity {
	name := ExtractEntity(query)
	return types.ResolvedEntity{
		RawQuery:  query,
		CleanName: name,
		Series:    DetectSeries(name, query),
	}
}

// DisplayName is the entity as shown on an info card.
func DisplayName(query string) string {
	return utils.TitleCase(ExtractEntity(query))
}
