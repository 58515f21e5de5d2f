// Package mood extracts mood and genre signals from user text.
package mood

// Mood is a normalized Italian mood label.
type Mood string

const (
	Happy       Mood = "felice"
	Energetic   Mood = "energico"
	Tired       Mood = "stanco"
	Relaxing    Mood = "rilassante"
	Adventurous Mood = "avventuroso"
	Competitive Mood = "competitivo"
	Social      Mood = "sociale"
	Nostalgic   Mood = "nostalgico"
	Emotional   Mood = "emotivo"
	Epic        Mood = "epico"
	Sad         Mood = "triste"
	Stressed    Mood = "stressato"
	Bored       Mood = "annoiato"
)

// Rule lists the substrings that signal a mood.
type Rule struct {
	Mood     Mood
	Keywords []string
}

// Rules are evaluated in order and every matching mood is reported.
var Rules = []Rule{
	{Happy, []string{"felice", "happy", "contento", "gioioso", "allegro", "euforico"}},
	{Energetic, []string{"energico", "energetic", "attivo", "vivace", "dinamico"}},
	{Tired, []string{"stanco", "tired", "affaticato", "spossato", "esausto"}},
	{Relaxing, []string{"rilassante", "relax", "tranquillo", "calm", "pacifico", "sereno"}},
	{Adventurous, []string{"avventura", "adventure", "esplorare", "explore", "scoprire"}},
	{Competitive, []string{"competitivo", "competitive", "sfida", "challenge", "gara"}},
	{Social, []string{"sociale", "social", "amici", "friends", "multiplayer", "insieme"}},
	{Nostalgic, []string{"nostalgico", "nostalgic", "retro", "classico", "vintage"}},
	{Emotional, []string{"emotivo", "emotional", "sentimentale", "storia", "story"}},
	{Epic, []string{"epico", "epic", "grandioso", "imponente", "spettacolare"}},
	{Sad, []string{"triste", "sad", "depresso", "giù", "down"}},
	{Stressed, []string{"stressato", "stressed", "ansioso", "nervoso", "preoccupato"}},
	{Bored, []string{"annoiato", "bored", "noioso", "tedioso"}},
}

// GenericTags are genre and style words matched as whole words.
var GenericTags = []string{
	"adventure", "action", "rpg", "platform", "puzzle", "racing",
	"fighting", "strategy", "simulation", "relaxing", "competitive",
	"multiplayer", "single-player", "open-world", "exploration",
	"story", "casual", "challenging", "fun", "colorful", "cute",
	"epic", "nostalgic", "retro", "modern", "social", "party",
}

const maxGenericTags = 5
