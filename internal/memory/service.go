package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/easeaico/nintendo-advisor/internal/prompt"
	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/utils"
)

const (
	HistoryLimit        = 10
	maxExchangeChars    = 500
	maxDescriptionChars = 200
	personalizedGames   = 5
)

// TurnUpdate is what one chat turn contributes to memory.
type TurnUpdate struct {
	UserMessage string
	Reply       string
	Info        *types.InfoCard
	Recommended *types.RecommendedGame
}

// Service serializes the read-modify-write cycles on each user's memory.
type Service struct {
	store    Store
	narrator Narrator
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*userLock
}

// userLock is dropped from the map once nobody holds or waits for it.
type userLock struct {
	mu   sync.Mutex
	refs int
}

// Option configures a Service.
type Option func(*Service)

// WithNarrator enables model-written personality reports.
func WithNarrator(n Narrator) Option {
	return func(s *Service) { s.narrator = n }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		locks: make(map[string]*userLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) lock(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

// Load returns the memory of userID. Missing or unreadable state yields an
// empty memory.
func (s *Service) Load(ctx context.Context, userID string) *types.UserMemory {
	mem, err := s.store.Load(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("failed to load memory, starting empty", "user_id", userID, "error", err.Error())
		}
		return types.NewUserMemory()
	}
	mem.Normalize()
	return mem
}

// Save overwrites the memory of userID and stamps last_updated.
func (s *Service) Save(ctx context.Context, userID string, mem *types.UserMemory) error {
	unlock := s.lock(userID)
	defer unlock()
	return s.save(ctx, userID, mem)
}

func (s *Service) save(ctx context.Context, userID string, mem *types.UserMemory) error {
	mem.Normalize()
	mem.LastUpdated = s.now()
	if err := s.store.Save(ctx, userID, mem); err != nil {
		return fmt.Errorf("failed to save memory: %w", err)
	}
	return nil
}

// Clear drops everything remembered about userID.
func (s *Service) Clear(ctx context.Context, userID string) error {
	unlock := s.lock(userID)
	defer unlock()
	if err := s.store.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear memory: %w", err)
	}
	return nil
}

// modify runs fn on the current memory under the user's lock and persists
// the result when fn reports a change.
func (s *Service) modify(ctx context.Context, userID string, fn func(*types.UserMemory) bool) error {
	unlock := s.lock(userID)
	defer unlock()
	mem := s.Load(ctx, userID)
	if !fn(mem) {
		return nil
	}
	return s.save(ctx, userID, mem)
}

// UpdateFromTurn merges mentioned games, declared preferences, the info
// card and the exchange itself into memory.
func (s *Service) UpdateFromTurn(ctx context.Context, userID string, turn TurnUpdate) error {
	return s.modify(ctx, userID, func(mem *types.UserMemory) bool {
		for _, name := range ExtractGameNames(turn.UserMessage + " " + turn.Reply) {
			mem.MentionedGames = appendUnique(mem.MentionedGames, name)
		}
		if turn.Recommended != nil && turn.Recommended.Title != "" {
			mem.MentionedGames = appendUnique(mem.MentionedGames, turn.Recommended.Title)
		}

		prefs := ExtractPreferences(turn.UserMessage)
		mergeInto(&mem.Preferences.FavoriteGenres, prefs.FavoriteGenres)
		mergeInto(&mem.Preferences.FavoritePlatforms, prefs.FavoritePlatforms)
		mergeInto(&mem.Preferences.PreferredDifficulty, prefs.PreferredDifficulty)
		mergeInto(&mem.Preferences.MoodPreferences, prefs.MoodPreferences)

		if turn.Info != nil && turn.Info.Title != "" && !hasNote(mem.ProvidedInfo, turn.Info.Title) {
			mem.ProvidedInfo = append(mem.ProvidedInfo, s.note(turn.Info.Title, turn.Info))
		}

		mem.ConversationHistory = append(mem.ConversationHistory, types.Exchange{
			User:      utils.Truncate(turn.UserMessage, maxExchangeChars),
			AI:        utils.Truncate(turn.Reply, maxExchangeChars),
			Timestamp: s.now(),
		})
		if n := len(mem.ConversationHistory); n > HistoryLimit {
			mem.ConversationHistory = append([]types.Exchange(nil), mem.ConversationHistory[n-HistoryLimit:]...)
		}
		return true
	})
}

// PersonalizationBlock renders the memory digest for the prompt, or "" when
// nothing is remembered.
func (s *Service) PersonalizationBlock(ctx context.Context, userID string) string {
	mem := s.Load(ctx, userID)
	games := mem.MentionedGames
	if len(games) > personalizedGames {
		games = games[:personalizedGames]
	}
	favorites := make([]string, 0, len(mem.Favorites))
	for _, f := range mem.Favorites {
		favorites = append(favorites, f.Title)
	}
	return prompt.PersonalizationBlock(prompt.PersonalizationData{
		UserName:    mem.UserName,
		Games:       games,
		Favorites:   favorites,
		Preferences: mem.Preferences,
	})
}

// SaveToFavorites appends title to the favorites. Without info the details of
// a matching provided info entry are copied. It returns false when the title
// is already a favorite or cannot be stored.
func (s *Service) SaveToFavorites(ctx context.Context, userID, title string, info *types.InfoCard) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	saved := false
	err := s.modify(ctx, userID, func(mem *types.UserMemory) bool {
		if mem.HasFavorite(title) {
			return false
		}
		n := s.note(title, info)
		if info == nil {
			// reuse what was shown earlier about the same game
			for _, p := range mem.ProvidedInfo {
				if strings.EqualFold(p.Title, title) {
					n.Platform, n.Description = p.Platform, p.Description
					break
				}
			}
		}
		mem.Favorites = append(mem.Favorites, n)
		saved = true
		return true
	})
	if err != nil {
		slog.Warn("failed to save favorite", "user_id", userID, "title", title, "error", err.Error())
		return false
	}
	return saved
}

// SetUserName records the name the user wants to be called by.
func (s *Service) SetUserName(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return s.modify(ctx, userID, func(mem *types.UserMemory) bool {
		mem.UserName = name
		return true
	})
}

// LastProvidedTitle is the title of the most recent info card shown to the
// user, or "".
func (s *Service) LastProvidedTitle(ctx context.Context, userID string) string {
	mem := s.Load(ctx, userID)
	if n := len(mem.ProvidedInfo); n > 0 {
		return mem.ProvidedInfo[n-1].Title
	}
	return ""
}

// LastReply is the most recent stored advisor reply, or "".
func (s *Service) LastReply(ctx context.Context, userID string) string {
	mem := s.Load(ctx, userID)
	if n := len(mem.ConversationHistory); n > 0 {
		return mem.ConversationHistory[n-1].AI
	}
	return ""
}

func (s *Service) note(title string, info *types.InfoCard) types.GameNote {
	n := types.GameNote{Title: title, Timestamp: s.now()}
	if info != nil {
		n.Platform = info.Platform
		n.Description = utils.Truncate(info.Description, maxDescriptionChars)
	}
	return n
}

func hasNote(notes []types.GameNote, title string) bool {
	for _, n := range notes {
		if strings.EqualFold(n.Title, title) {
			return true
		}
	}
	return false
}

func mergeInto(dst *[]string, values []string) {
	for _, v := range values {
		*dst = appendUnique(*dst, v)
	}
}
