package memory

import (
	"regexp"
	"sort"
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/utils"
)

// SavePhrases mark a request to store a game among the favorites.
var SavePhrases = []string{
	"salva nei preferiti", "salva tra i preferiti", "salvalo nei preferiti",
	"aggiungi ai preferiti", "aggiungi nei preferiti", "aggiungi tra i preferiti",
	"aggiungilo ai preferiti", "metti nei preferiti", "mettilo nei preferiti",
	"segna tra i preferiti", "segna nei preferiti",
	"salva questo", "metti questo", "segna questo",
	"save to favorites", "add to favorites", "add to my favorites",
}

// DetectSaveIntent reports whether message asks to save a favorite.
func DetectSaveIntent(message string) bool {
	return utils.ContainsAny(strings.ToLower(message), SavePhrases)
}

type knownTitle struct {
	display string
	re      *regexp.Regexp
}

// knownTitles is sorted longest phrase first so multi-word titles win over
// the franchise names they contain.
var knownTitles = buildKnownTitles(map[string]string{
	"zelda":            "Zelda",
	"mario":            "Mario",
	"pokemon":          "Pokemon",
	"metroid":          "Metroid",
	"kirby":            "Kirby",
	"donkey kong":      "Donkey Kong",
	"animal crossing":  "Animal Crossing",
	"splatoon":         "Splatoon",
	"fire emblem":      "Fire Emblem",
	"xenoblade":        "Xenoblade",
	"super smash bros": "Super Smash Bros",
	"mario kart":       "Mario Kart",
	"luigi's mansion":  "Luigi's Mansion",
	"paper mario":      "Paper Mario",
	"pikmin":           "Pikmin",
	"star fox":         "Star Fox",
	"f-zero":           "F-Zero",
	"earthbound":       "EarthBound",
	"mother":           "Mother",
})

func buildKnownTitles(lexicon map[string]string) []knownTitle {
	phrases := make([]string, 0, len(lexicon))
	for p := range lexicon {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	titles := make([]knownTitle, 0, len(phrases))
	for _, p := range phrases {
		titles = append(titles, knownTitle{
			display: lexicon[p],
			re:      regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p) + `\b`),
		})
	}
	return titles
}

var (
	favoritePhraseRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:salva|aggiungi|metti|segna)\s+(.+?)\s+(?:nei|ai|tra i|fra i)\s+preferiti`),
		regexp.MustCompile(`(?i)\b(?:save|add)\s+(.+?)\s+to\s+(?:my\s+)?favorites`),
	}
	namedGameRe = regexp.MustCompile(`(?:gioco|game|titolo)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

	pronounTargets = map[string]bool{
		"questo": true, "questo gioco": true, "quello": true, "quel gioco": true,
		"lo": true, "il gioco": true, "this": true, "it": true, "this game": true,
	}
)

// ExtractGameNames returns the game names in text: known titles in order of
// appearance, then names from "save X to favorites" and "gioco X" phrasing.
func ExtractGameNames(text string) []string {
	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	var claimed [][2]int
	overlaps := func(start, end int) bool {
		for _, c := range claimed {
			if start < c[1] && c[0] < end {
				return true
			}
		}
		return false
	}

	for _, t := range knownTitles {
		first := -1
		for _, loc := range t.re.FindAllStringIndex(text, -1) {
			if overlaps(loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, [2]int{loc[0], loc[1]})
			if first < 0 {
				first = loc[0]
			}
		}
		if first >= 0 {
			hits = append(hits, hit{pos: first, name: t.display})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	names := make([]string, 0, len(hits))
	for _, h := range hits {
		names = appendUnique(names, h.name)
	}
	for _, re := range favoritePhraseRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			target := strings.TrimSpace(m[1])
			if pronounTargets[strings.ToLower(target)] || len(target) <= 2 {
				continue
			}
			names = appendUnique(names, utils.TitleCase(target))
		}
	}
	for _, m := range namedGameRe.FindAllStringSubmatch(text, -1) {
		if len(m[1]) > 2 {
			names = appendUnique(names, m[1])
		}
	}
	return names
}

type preferenceRule struct {
	value    string
	keywords []string
}

var (
	genreRules = []preferenceRule{
		{"avventura", []string{"avventura", "adventure", "avventuroso"}},
		{"azione", []string{"azione", "action"}},
		{"rpg", []string{"rpg", "ruolo", "role playing"}},
		{"platform", []string{"platform", "platformer", "saltare"}},
		{"puzzle", []string{"puzzle", "rompicapo"}},
		{"racing", []string{"racing", "corse", "correre"}},
		{"strategia", []string{"strategia", "strategy", "tattico"}},
	}
	platformRules = []preferenceRule{
		{"switch", []string{"nintendo switch", "switch"}},
		{"3ds", []string{"3ds", "3d s"}},
		{"wii u", []string{"wii u", "wiiu"}},
		{"wii", []string{"wii"}},
		{"ds", []string{"nintendo ds", "ds"}},
	}
	difficultyRules = []preferenceRule{
		{"facile", []string{"facile", "easy", "semplice", "principiante"}},
		{"difficile", []string{"difficile", "hard", "sfida", "challenging"}},
		{"medio", []string{"medio", "medium", "normale"}},
	}
	moodRules = []preferenceRule{
		{"rilassante", []string{"rilassante", "relax", "tranquillo", "calm"}},
		{"energico", []string{"energico", "energetic", "attivo"}},
		{"competitivo", []string{"competitivo", "competitive", "sfida"}},
		{"sociale", []string{"sociale", "social", "amici", "multiplayer"}},
	}
)

var platformRes = compileWordRules(platformRules)

func compileWordRules(rules []preferenceRule) [][]*regexp.Regexp {
	compiled := make([][]*regexp.Regexp, len(rules))
	for i, r := range rules {
		for _, kw := range r.keywords {
			compiled[i] = append(compiled[i], regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
	}
	return compiled
}

// ExtractPreferences reads declared genres, platforms, difficulty and moods
// from a user message.
func ExtractPreferences(text string) types.Preferences {
	lower := strings.ToLower(text)
	return types.Preferences{
		FavoriteGenres:      matchRules(lower, genreRules),
		FavoritePlatforms:   matchPlatforms(lower),
		PreferredDifficulty: matchRules(lower, difficultyRules),
		MoodPreferences:     matchRules(lower, moodRules),
	}
}

func matchRules(lower string, rules []preferenceRule) []string {
	var out []string
	for _, r := range rules {
		if utils.ContainsAny(lower, r.keywords) {
			out = append(out, r.value)
		}
	}
	return out
}

// matchPlatforms matches whole words and consumes each match, so "wii u"
// does not also count as "wii" and "3ds" never counts as "ds".
func matchPlatforms(lower string) []string {
	var out []string
	for i, r := range platformRules {
		found := false
		for _, re := range platformRes[i] {
			if re.MatchString(lower) {
				found = true
				lower = re.ReplaceAllString(lower, " ")
			}
		}
		if found {
			out = append(out, r.value)
		}
	}
	return out
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, item) {
			return list
		}
	}
	return append(list, item)
}
