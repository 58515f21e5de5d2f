package entity

import (
	"regexp"
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/types"
)

// GameTitle maps a normalized, lower-cased title phrase to the series wiki
// that documents it.
type GameTitle struct {
	Phrase   string
	SeriesID string
}

// GameTable is scanned in order; specific titles precede generic ones.
var GameTable = []GameTitle{
	{"phoenix wright: ace attorney", "aceattorney"},
	{"ace attorney", "aceattorney"},
	{"breath of the wild", "zelda"},
	{"tears of the kingdom", "zelda"},
	{"ocarina of time", "zelda"},
	{"majora's mask", "zelda"},
	{"link's awakening", "zelda"},
	{"wind waker", "zelda"},
	{"twilight princess", "zelda"},
	{"skyward sword", "zelda"},
	{"a link to the past", "zelda"},
	{"the legend of zelda", "zelda"},
	{"luigi's mansion", "mario"},
	{"yoshi's island", "mario"},
	{"yoshi's crafted world", "mario"},
	{"mario & luigi", "mario"},
	{"mario & sonic", "mario"},
	{"super mario odyssey", "mario"},
	{"super mario galaxy", "mario"},
	{"super mario wonder", "mario"},
	{"super mario 64", "mario"},
	{"super mario bros.", "mario"},
	{"mario kart", "mario"},
	{"mario party", "mario"},
	{"paper mario", "mario"},
	{"super smash bros.", "supersmashbros"},
	{"smash bros.", "supersmashbros"},
	{"smash", "supersmashbros"},
	{"pokemon legends", "pokemon"},
	{"leggende pokemon", "pokemon"},
	{"pokemon scarlet", "pokemon"},
	{"pokemon scarlatto", "pokemon"},
	{"pokemon sword", "pokemon"},
	{"pokemon spada", "pokemon"},
	{"pokemon let's go", "pokemon"},
	{"kirby's dream land", "kirby"},
	{"kirby and the forgotten land", "kirby"},
	{"kirby e la terra perduta", "kirby"},
	{"kirby star allies", "kirby"},
	{"metroid dread", "metroid"},
	{"metroid prime", "metroid"},
	{"super metroid", "metroid"},
	{"fire emblem", "fireemblem"},
	{"xenoblade chronicles", "xenoblade"},
	{"splatoon", "splatoon"},
	{"animal crossing", "animalcrossing"},
	{"donkey kong country", "donkeykong"},
	{"pikmin", "pikmin"},
}

// DetectGame matches name (after normalization) and query against the title
// table and returns the series wiki plus the normalized title.
func DetectGame(name, query string) *types.SeriesMatch {
	normalized := NormalizeGameName(name)
	if normalized == "" {
		return nil
	}
	haystack := strings.ToLower(normalized) + " " + strings.ToLower(NormalizeGameName(query))
	for _, g := range GameTable {
		if strings.Contains(haystack, g.Phrase) {
			return &types.SeriesMatch{ID: g.SeriesID, Name: normalized}
		}
	}
	return nil
}

var (
	possessiveNouns = []string{"luigi", "link", "yoshi", "kirby", "majora"}
	possessiveRes   = buildPossessiveRes()
	ampersandRe     = regexp.MustCompile(`\bmario(?:\s*&\s*|\s+(?:and|e)\s+)(luigi|sonic)\b`)
	brosRe          = regexp.MustCompile(`\bbros\b\.?`)
	spacesRe        = regexp.MustCompile(`\s+`)

	lowerWords = map[string]bool{
		"of": true, "the": true, "and": true, "a": true, "to": true, "in": true,
		"e": true, "di": true, "del": true, "della": true, "la": true, "il": true,
	}
	romanNumerals = map[string]bool{
		"ii": true, "iii": true, "iv": true, "vi": true, "vii": true,
		"viii": true, "ix": true, "xi": true, "xii": true,
	}
)

func buildPossessiveRes() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(possessiveNouns))
	for _, noun := range possessiveNouns {
		out[noun] = regexp.MustCompile(`\b` + noun + `(?:'s|’s|\s+s|s)\b`)
	}
	return out
}

// NormalizeGameName repairs common spelling variants of a game title and
// title-cases it. Applying it twice yields the same result.
func NormalizeGameName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = spacesRe.ReplaceAllString(s, " ")
	if s == "" {
		return ""
	}
	for _, noun := range possessiveNouns {
		s = possessiveRes[noun].ReplaceAllString(s, noun+"'s")
	}
	s = ampersandRe.ReplaceAllString(s, "mario & $1")
	s = brosRe.ReplaceAllString(s, "bros.")

	words := strings.Split(s, " ")
	for i, w := range words {
		switch {
		case romanNumerals[w]:
			words[i] = strings.ToUpper(w)
		case i > 0 && lowerWords[w]:
		default:
			words[i] = capitalizeWord(w)
		}
	}
	return strings.Join(words, " ")
}

func capitalizeWord(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
