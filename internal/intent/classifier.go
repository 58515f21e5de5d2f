// Package intent classifies a user turn by ordered keyword tables.
package intent

import (
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/types"
)

// Rule maps a case-folded keyword to an intent.
type Rule struct {
	Keyword string
	Intent  types.Intent
}

// InfoRules are checked before RecommendationRules; the first match wins.
var InfoRules = rules(types.IntentInfo,
	"chi è", "cos'è", "cosa è", "come funziona", "che modalità", "trama",
	"gameplay", "difficoltà", "spiegami", "dimmi", "raccontami",
	"parlami di", "mi parli di", "parlarmi di", "info su", "informazioni", "caratteristiche",
	"meccaniche", "storia", "plot", "modalità di gioco", "come si gioca",
	"approfondisci", "espandi",
)

var RecommendationRules = rules(types.IntentRecommendation,
	"consigliami", "voglio giocare", "cosa mi consigli", "suggeriscimi",
	"raccomandami", "cosa dovrei", "quale gioco", "che gioco",
	"mi serve", "cerco", "vorrei", "mi piace",
)

func rules(intent types.Intent, keywords ...string) []Rule {
	out := make([]Rule, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, Rule{Keyword: kw, Intent: intent})
	}
	return out
}

// Classify returns the intent of text. Info keywords take priority over
// recommendation keywords; anything else is small talk.
func Classify(text string) types.Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return types.IntentSmallTalk
	}
	if r, ok := firstMatch(lower, InfoRules); ok {
		return r.Intent
	}
	if r, ok := firstMatch(lower, RecommendationRules); ok {
		return r.Intent
	}
	return types.IntentSmallTalk
}

// HasRoutingKeyword reports whether text carries any info or recommendation
// keyword.
func HasRoutingKeyword(text string) bool {
	lower := strings.ToLower(text)
	if _, ok := firstMatch(lower, InfoRules); ok {
		return true
	}
	_, ok := firstMatch(lower, RecommendationRules)
	return ok
}

func firstMatch(lower string, table []Rule) (Rule, bool) {
	for _, r := range table {
		if strings.Contains(lower, r.Keyword) {
			return r, true
		}
	}
	return Rule{}, false
}
