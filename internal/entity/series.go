package entity

import (
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/utils"
)

// Series describes one franchise: the phrases that name it, the characters
// that belong to it and canonical names for short lexicon entries.
type Series struct {
	ID         string
	Keywords   []string
	Characters []string
	Canonical  map[string]string
	// Hint disambiguates generic web searches about its characters.
	Hint string
}

// SeriesTable is scanned in order. Narrow franchises come before broad ones
// so a name collision resolves to the more specific series; Mario is last.
var SeriesTable = []Series{
	{
		ID:         "aceattorney",
		Keywords:   []string{"ace attorney", "phoenix wright", "gyakuten saiban", "apollo justice"},
		Characters: []string{"phoenix", "edgeworth", "godot", "gumshoe", "franziska", "maya fey", "mia fey", "larry butz", "trucy", "athena cykes", "manfred von karma"},
		Canonical: map[string]string{
			"phoenix":           "Phoenix Wright",
			"edgeworth":         "Miles Edgeworth",
			"gumshoe":           "Dick Gumshoe",
			"franziska":         "Franziska von Karma",
			"maya fey":          "Maya Fey",
			"mia fey":           "Mia Fey",
			"larry butz":        "Larry Butz",
			"trucy":             "Trucy Wright",
			"athena cykes":      "Athena Cykes",
			"manfred von karma": "Manfred von Karma",
		},
		Hint: "Ace Attorney character Capcom Nintendo",
	},
	{
		ID:         "zelda",
		Keywords:   []string{"zelda", "hyrule", "triforza", "triforce"},
		Characters: []string{"ganondorf", "ganon", "skull kid", "link", "impa", "midna", "sheik", "navi", "tingle", "epona", "sidon", "mipha", "urbosa", "revali", "daruk", "purah"},
		Canonical: map[string]string{
			"skull kid": "Skull Kid",
		},
		Hint: "Zelda character Nintendo",
	},
	{
		ID:         "pokemon",
		Keywords:   []string{"pokemon", "pokémon", "pokedex", "pokédex"},
		Characters: []string{"pikachu", "charizard", "mewtwo", "eevee", "lucario", "jigglypuff", "bulbasaur", "squirtle", "charmander", "greninja", "snorlax", "gengar", "ash ketchum", "ash"},
		Canonical: map[string]string{
			"ash":         "Ash Ketchum",
			"ash ketchum": "Ash Ketchum",
		},
		Hint: "Pokemon character Nintendo",
	},
	{
		ID:         "kirby",
		Keywords:   []string{"kirby", "dream land", "terra dei sogni"},
		Characters: []string{"meta knight", "king dedede", "dedede", "waddle dee", "magolor", "marx"},
		Canonical: map[string]string{
			"meta knight": "Meta Knight",
			"king dedede": "King Dedede",
			"dedede":      "King Dedede",
			"waddle dee":  "Waddle Dee",
		},
		Hint: "Kirby character Nintendo",
	},
	{
		ID:         "metroid",
		Keywords:   []string{"metroid"},
		Characters: []string{"dark samus", "samus", "ridley", "kraid", "mother brain", "sylux"},
		Canonical: map[string]string{
			"samus":        "Samus Aran",
			"dark samus":   "Dark Samus",
			"mother brain": "Mother Brain",
		},
		Hint: "Metroid character Nintendo",
	},
	{
		ID:         "fireemblem",
		Keywords:   []string{"fire emblem"},
		Characters: []string{"marth", "ike", "lucina", "chrom", "byleth", "corrin", "edelgard", "dimitri", "celica", "alear"},
		Hint:       "Fire Emblem character Nintendo",
	},
	{
		ID:         "xenoblade",
		Keywords:   []string{"xenoblade"},
		Characters: []string{"shulk", "pyra", "mythra", "dunban", "melia", "reyn", "noah", "mio"},
		Hint:       "Xenoblade character Nintendo",
	},
	{
		ID:         "splatoon",
		Keywords:   []string{"splatoon", "inkling", "octoling"},
		Characters: []string{"callie", "marie", "pearl", "marina", "agent 3", "captain cuttlefish"},
		Canonical: map[string]string{
			"agent 3":            "Agent 3",
			"captain cuttlefish": "Captain Cuttlefish",
		},
		Hint: "Splatoon character Nintendo",
	},
	{
		ID:         "animalcrossing",
		Keywords:   []string{"animal crossing"},
		Characters: []string{"tom nook", "isabelle", "fuffi", "k.k. slider", "blathers", "mr. resetti", "resetti"},
		Canonical: map[string]string{
			"tom nook":    "Tom Nook",
			"fuffi":       "Isabelle",
			"k.k. slider": "K.K. Slider",
			"mr. resetti": "Mr. Resetti",
			"resetti":     "Mr. Resetti",
		},
		Hint: "Animal Crossing character Nintendo",
	},
	{
		ID:         "donkeykong",
		Keywords:   []string{"donkey kong"},
		Characters: []string{"diddy kong", "diddy", "dixie kong", "cranky kong", "funky kong", "king k. rool", "k. rool"},
		Canonical: map[string]string{
			"diddy kong":   "Diddy Kong",
			"diddy":        "Diddy Kong",
			"dixie kong":   "Dixie Kong",
			"cranky kong":  "Cranky Kong",
			"funky kong":   "Funky Kong",
			"king k. rool": "King K. Rool",
			"k. rool":      "King K. Rool",
		},
		Hint: "Donkey Kong character Nintendo",
	},
	{
		ID:         "mario",
		Keywords:   []string{"super mario", "mushroom kingdom", "regno dei funghi"},
		Characters: []string{"bowser jr", "waluigi", "mario", "luigi", "peach", "bowser", "yoshi", "toadette", "toad", "wario", "daisy", "rosalina", "goomba", "kamek"},
		Canonical: map[string]string{
			"bowser jr": "Bowser Jr.",
		},
		Hint: "Super Mario character Nintendo",
	},
}

// DetectSeries returns the first series, in table order, whose keyword occurs
// in query or whose character name occurs as a whole word in entity+query.
func DetectSeries(entity, query string) *types.SeriesMatch {
	lowerQuery := strings.ToLower(query)
	lowerEntity := strings.ToLower(strings.TrimSpace(entity))
	combined := lowerEntity + " " + lowerQuery

	for _, s := range SeriesTable {
		if name, ok := s.character(combined); ok {
			return &types.SeriesMatch{ID: s.ID, Name: s.canonicalName(name)}
		}
		if utils.ContainsAny(lowerQuery, s.Keywords) {
			name := lowerEntity
			if name == "" {
				name = ExtractEntity(query)
			}
			return &types.SeriesMatch{ID: s.ID, Name: s.canonicalName(name)}
		}
	}
	return nil
}

// CharacterHint returns the disambiguation words for a generic web search.
func CharacterHint(entity string) string {
	lower := strings.ToLower(entity)
	for _, s := range SeriesTable {
		if _, ok := s.character(lower); ok {
			return s.Hint
		}
	}
	return "Nintendo"
}

func (s Series) character(text string) (string, bool) {
	for _, c := range s.Characters {
		if utils.ContainsWord(text, c) {
			return c, true
		}
	}
	return "", false
}

func (s Series) canonicalName(name string) string {
	if canon, ok := s.Canonical[name]; ok {
		return canon
	}
	return utils.Capitalize(name)
}
