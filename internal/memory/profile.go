package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/easeaico/nintendo-advisor/internal/types"
)

// Profile is the user-facing view of a memory.
type Profile struct {
	UserName       string            `json:"user_name"`
	Favorites      []types.GameNote  `json:"favorites"`
	MentionedGames []string          `json:"mentioned_games"`
	Preferences    types.Preferences `json:"preferences"`
	Stats          ProfileStats      `json:"stats"`
	LastUpdated    *time.Time        `json:"last_updated,omitempty"`
}

// ProfileStats counts what memory holds.
type ProfileStats struct {
	Favorites     int `json:"favorites"`
	Mentioned     int `json:"mentioned_games"`
	ProvidedInfo  int `json:"provided_info"`
	Conversations int `json:"conversations"`
}

// Profile summarizes the memory of userID.
func (s *Service) Profile(ctx context.Context, userID string) Profile {
	mem := s.Load(ctx, userID)
	p := Profile{
		UserName:       mem.UserName,
		Favorites:      mem.Favorites,
		MentionedGames: mem.MentionedGames,
		Preferences:    mem.Preferences,
		Stats: ProfileStats{
			Favorites:     len(mem.Favorites),
			Mentioned:     len(mem.MentionedGames),
			ProvidedInfo:  len(mem.ProvidedInfo),
			Conversations: len(mem.ConversationHistory),
		},
	}
	if !mem.LastUpdated.IsZero() {
		t := mem.LastUpdated
		p.LastUpdated = &t
	}
	return p
}

// EmptyReport is returned while memory holds too little to describe the user.
const EmptyReport = "Non ho ancora abbastanza informazioni per tracciare il tuo profilo da giocatore. Parliamo ancora un po' di giochi!"

// PersonalityReport describes the player profile of userID. With a narrator
// the digest is rewritten by the model; any narrator failure falls back to
// the digest itself.
func (s *Service) PersonalityReport(ctx context.Context, userID string) string {
	mem := s.Load(ctx, userID)
	digest := DescribePlayer(mem)
	if digest == "" {
		return EmptyReport
	}
	if s.narrator == nil {
		return digest
	}
	story, err := s.narrator.Narrate(ctx, digest)
	if err != nil {
		slog.Warn("failed to narrate personality report", "user_id", userID, "error", err.Error())
		return digest
	}
	return story
}

type archetype struct {
	name  string
	match func(types.Preferences) bool
}

var archetypes = []archetype{
	{"lo Stratega", func(p types.Preferences) bool { return hasAny(p.FavoriteGenres, "strategia", "rpg") }},
	{"il Campione Competitivo", func(p types.Preferences) bool {
		return hasAny(p.MoodPreferences, "competitivo") || hasAny(p.PreferredDifficulty, "difficile")
	}},
	{"l'Anima della Festa", func(p types.Preferences) bool { return hasAny(p.MoodPreferences, "sociale") }},
	{"l'Esploratore", func(p types.Preferences) bool { return hasAny(p.FavoriteGenres, "avventura") }},
	{"il Giocatore Rilassato", func(p types.Preferences) bool {
		return hasAny(p.MoodPreferences, "rilassante") || hasAny(p.PreferredDifficulty, "facile")
	}},
	{"il Fulmine d'Azione", func(p types.Preferences) bool {
		return hasAny(p.FavoriteGenres, "azione", "platform", "racing") || hasAny(p.MoodPreferences, "energico")
	}},
}

// DescribePlayer renders a deterministic profile digest, or "" for an empty
// memory.
func DescribePlayer(mem *types.UserMemory) string {
	if len(mem.MentionedGames) == 0 && len(mem.Favorites) == 0 && mem.Preferences.IsEmpty() {
		return ""
	}

	name := mem.UserName
	if name == "" {
		name = "Giocatore"
	}
	kind := "il Curioso del mondo Nintendo"
	for _, a := range archetypes {
		if a.match(mem.Preferences) {
			kind = a.name
			break
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎮 %s, il tuo profilo da giocatore è %s.\n", name, kind)
	if len(mem.Favorites) > 0 {
		titles := make([]string, 0, len(mem.Favorites))
		for _, f := range mem.Favorites {
			titles = append(titles, f.Title)
		}
		fmt.Fprintf(&sb, "⭐ Preferiti: %s\n", strings.Join(titles, ", "))
	}
	if len(mem.MentionedGames) > 0 {
		fmt.Fprintf(&sb, "💬 Hai parlato di %d giochi, tra cui %s\n", len(mem.MentionedGames), strings.Join(head(mem.MentionedGames, personalizedGames), ", "))
	}
	writeList(&sb, "📚 Generi preferiti", mem.Preferences.FavoriteGenres)
	writeList(&sb, "🎯 Piattaforme", mem.Preferences.FavoritePlatforms)
	writeList(&sb, "⚙️ Difficoltà", mem.Preferences.PreferredDifficulty)
	writeList(&sb, "💭 Mood", mem.Preferences.MoodPreferences)
	return strings.TrimSpace(sb.String())
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) > 0 {
		fmt.Fprintf(sb, "%s: %s\n", label, strings.Join(items, ", "))
	}
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func hasAny(items []string, wanted ...string) bool {
	for _, it := range items {
		for _, w := range wanted {
			if it == w {
				return true
			}
		}
	}
	return false
}
