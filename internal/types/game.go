package types

// GameRecord is one entry of the local game catalogue. Records are loaded once
// and never mutated afterwards.
type GameRecord struct {
	Title       string   `json:"title"`
	Platform    string   `json:"platform"`
	Description string   `json:"description"`
	Gameplay    string   `json:"gameplay"`
	Difficulty  string   `json:"difficulty"`
	Modes       []string `json:"modes"`
	Keywords    []string `json:"keywords"`
	Tags        []string `json:"tags"`
	// Mood entries may be bilingual, encoded as "english/italiano".
	Mood []string `json:"mood"`
}

// HasDetails reports whether the record carries descriptive text.
func (g GameRecord) HasDetails() bool {
	return g.Description != "" || g.Gameplay != ""
}

// Intent is the classified purpose of a user turn.
type Intent string

const (
	IntentInfo           Intent = "info_request"
	IntentRecommendation Intent = "recommendation_request"
	IntentSmallTalk      Intent = "small_talk"
)

// SeriesMatch identifies a franchise and the canonical page name inside it.
type SeriesMatch struct {
	ID   string `json:"series_id"`
	Name string `json:"canonical_name"`
}

// ResolvedEntity is the entity extracted from one request.
type ResolvedEntity struct {
	RawQuery    string
	CleanName   string
	IsCharacter bool
	Series      *SeriesMatch
}

// InfoCard is the structured summary shown next to a reply.
type InfoCard struct {
	Title       string   `json:"title"`
	Platform    string   `json:"platform"`
	Description string   `json:"description"`
	Gameplay    string   `json:"gameplay"`
	Difficulty  string   `json:"difficulty"`
	Modes       []string `json:"modes"`
	Keywords    []string `json:"keywords"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// CardFromRecord builds an info card out of a catalogue record.
func CardFromRecord(g GameRecord) *InfoCard {
	return &InfoCard{
		Title:       g.Title,
		Platform:    g.Platform,
		Description: g.Description,
		Gameplay:    g.Gameplay,
		Difficulty:  g.Difficulty,
		Modes:       g.Modes,
		Keywords:    g.Keywords,
	}
}

// RecommendedGame is the recommendation side channel of a chat response.
type RecommendedGame struct {
	Title    string   `json:"title"`
	Platform string   `json:"platform"`
	Tags     []string `json:"tags"`
	Mood     []string `json:"mood"`
}
