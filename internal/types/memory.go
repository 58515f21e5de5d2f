package types

import (
	"strings"
	"time"
)

// Preferences holds the declared tastes of a user.
type Preferences struct {
	FavoriteGenres      []string `json:"favorite_genres"`
	FavoritePlatforms   []string `json:"favorite_platforms"`
	PreferredDifficulty []string `json:"preferred_difficulty"`
	MoodPreferences     []string `json:"mood_preferences"`
}

// IsEmpty reports whether no preference was recorded.
func (p Preferences) IsEmpty() bool {
	return len(p.FavoriteGenres) == 0 && len(p.FavoritePlatforms) == 0 &&
		len(p.PreferredDifficulty) == 0 && len(p.MoodPreferences) == 0
}

// GameNote is a favorite or a provided info entry.
type GameNote struct {
	Title       string    `json:"title"`
	Platform    string    `json:"platform"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Exchange is one stored user/ai pair.
type Exchange struct {
	User      string    `json:"user"`
	AI        string    `json:"ai"`
	Timestamp time.Time `json:"timestamp"`
}

// UserMemory is the persisted per-user state.
type UserMemory struct {
	UserName            string      `json:"user_name"`
	Preferences         Preferences `json:"preferences"`
	Favorites           []GameNote  `json:"favorites"`
	MentionedGames      []string    `json:"mentioned_games"`
	ProvidedInfo        []GameNote  `json:"provided_info"`
	ConversationHistory []Exchange  `json:"conversation_history"`
	LastUpdated         time.Time   `json:"last_updated"`
}

// NewUserMemory returns an empty memory with non-nil collections.
func NewUserMemory() *UserMemory {
	m := &UserMemory{}
	m.Normalize()
	return m
}

// Normalize replaces nil collections with empty ones so the JSON form never
// carries nulls.
func (m *UserMemory) Normalize() {
	if m.Preferences.FavoriteGenres == nil {
		m.Preferences.FavoriteGenres = []string{}
	}
	if m.Preferences.FavoritePlatforms == nil {
		m.Preferences.FavoritePlatforms = []string{}
	}
	if m.Preferences.PreferredDifficulty == nil {
		m.Preferences.PreferredDifficulty = []string{}
	}
	if m.Preferences.MoodPreferences == nil {
		m.Preferences.MoodPreferences = []string{}
	}
	if m.Favorites == nil {
		m.Favorites = []GameNote{}
	}
	if m.MentionedGames == nil {
		m.MentionedGames = []string{}
	}
	if m.ProvidedInfo == nil {
		m.ProvidedInfo = []GameNote{}
	}
	if m.ConversationHistory == nil {
		m.ConversationHistory = []Exchange{}
	}
}

// HasFavorite reports a case-insensitive title match among favorites.
func (m *UserMemory) HasFavorite(title string) bool {
	for _, f := range m.Favorites {
		if strings.EqualFold(f.Title, title) {
			return true
		}
	}
	return false
}
