package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/easeaico/nintendo-advisor/internal/types"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileStore(dir, "default")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return NewService(store, WithClock(func() time.Time { return clock })), dir
}

func TestLoadMissingAndCorruptState(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	mem := svc.Load(ctx, "default")
	if mem == nil || len(mem.MentionedGames) != 0 || mem.MentionedGames == nil {
		t.Fatalf("expected empty normalized memory, got %+v", mem)
	}

	if err := os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if mem := svc.Load(ctx, "default"); len(mem.Favorites) != 0 {
		t.Fatalf("corrupt state must load empty")
	}

	if err := os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(`{"mentioned_games": "zelda"}`), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if mem := svc.Load(ctx, "default"); len(mem.MentionedGames) != 0 {
		t.Fatalf("schema violation must load empty, got %v", mem.MentionedGames)
	}
}

func TestFileStoreRoundTripAndPaths(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	if err := svc.SetUserName(ctx, "alice", "Alice"); err != nil {
		t.Fatalf("SetUserName failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "user_alice.json")); err != nil {
		t.Fatalf("expected per-user file: %v", err)
	}
	if got := svc.Load(ctx, "alice").UserName; got != "Alice" {
		t.Fatalf("expected Alice, got %q", got)
	}
	if got := svc.Load(ctx, "default").UserName; got != "" {
		t.Fatalf("users must not share memory, got %q", got)
	}

	if err := svc.SetUserName(ctx, "../etc", "x"); !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
	if err := svc.SetUserName(ctx, "alice", "  "); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestUpdateFromTurnDedupAndHistoryBound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	turn := TurnUpdate{
		UserMessage: "Parlami di Zelda, mi piacciono i giochi di avventura su Switch",
		Reply:       "Zelda è una saga fantastica!",
		Info:        &types.InfoCard{Title: "The Legend of Zelda", Platform: "Switch", Description: strings.Repeat("d", 300)},
		Recommended: &types.RecommendedGame{Title: "Pikmin 4"},
	}
	for i := 0; i < 12; i++ {
		if err := svc.UpdateFromTurn(ctx, "default", turn); err != nil {
			t.Fatalf("UpdateFromTurn failed: %v", err)
		}
	}

	mem := svc.Load(ctx, "default")
	if got := mem.MentionedGames; len(got) != 2 || got[0] != "Zelda" || got[1] != "Pikmin 4" {
		t.Fatalf("unexpected mentioned games %v", got)
	}
	if len(mem.ConversationHistory) != HistoryLimit {
		t.Fatalf("expected %d exchanges, got %d", HistoryLimit, len(mem.ConversationHistory))
	}
	if len(mem.ProvidedInfo) != 1 || len(mem.ProvidedInfo[0].Description) != maxDescriptionChars {
		t.Fatalf("unexpected provided info %+v", mem.ProvidedInfo)
	}
	if got := mem.Preferences.FavoriteGenres; len(got) != 1 || got[0] != "avventura" {
		t.Fatalf("unexpected genres %v", got)
	}
	if got := mem.Preferences.FavoritePlatforms; len(got) != 1 || got[0] != "switch" {
		t.Fatalf("unexpected platforms %v", got)
	}
	if mem.LastUpdated.IsZero() {
		t.Fatalf("expected last_updated to be stamped")
	}
	if got := svc.LastProvidedTitle(ctx, "default"); got != "The Legend of Zelda" {
		t.Fatalf("unexpected last provided title %q", got)
	}
	if got := svc.LastReply(ctx, "default"); got != turn.Reply {
		t.Fatalf("unexpected last reply %q", got)
	}
}

func TestProvidedInfoDedupIgnoresCase(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"Zelda", "zelda", "ZELDA"} {
		turn := TurnUpdate{UserMessage: "ciao", Reply: "ok", Info: &types.InfoCard{Title: title}}
		if err := svc.UpdateFromTurn(ctx, "default", turn); err != nil {
			t.Fatalf("UpdateFromTurn failed: %v", err)
		}
	}
	info := svc.Load(ctx, "default").ProvidedInfo
	if len(info) != 1 || info[0].Title != "Zelda" {
		t.Fatalf("expected a single provided info entry, got %+v", info)
	}
}

func TestExchangeTrimmed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if err := svc.UpdateFromTurn(ctx, "default", TurnUpdate{UserMessage: strings.Repeat("u", 700), Reply: strings.Repeat("a", 600)}); err != nil {
		t.Fatalf("UpdateFromTurn failed: %v", err)
	}
	ex := svc.Load(ctx, "default").ConversationHistory[0]
	if len(ex.User) != maxExchangeChars || len(ex.AI) != maxExchangeChars {
		t.Fatalf("expected exchanges trimmed to %d, got %d/%d", maxExchangeChars, len(ex.User), len(ex.AI))
	}
}

func TestSaveToFavorites(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if !svc.SaveToFavorites(ctx, "default", "Kirby e la terra perduta", &types.InfoCard{Platform: "Switch"}) {
		t.Fatalf("expected first save to succeed")
	}
	if svc.SaveToFavorites(ctx, "default", "KIRBY E LA TERRA PERDUTA", nil) {
		t.Fatalf("case-insensitive duplicate must not be saved")
	}
	if svc.SaveToFavorites(ctx, "default", " ", nil) {
		t.Fatalf("empty title must not be saved")
	}
	favs := svc.Load(ctx, "default").Favorites
	if len(favs) != 1 || favs[0].Platform != "Switch" {
		t.Fatalf("unexpected favorites %+v", favs)
	}
}

func TestPersonalizationBlock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if got := svc.PersonalizationBlock(ctx, "default"); got != "" {
		t.Fatalf("fresh memory must produce no block, got %q", got)
	}

	if err := svc.SetUserName(ctx, "default", "Alice"); err != nil {
		t.Fatalf("SetUserName failed: %v", err)
	}
	if !svc.SaveToFavorites(ctx, "default", "Animal Crossing", nil) {
		t.Fatalf("expected favorite to be saved")
	}
	if got := svc.PersonalizationBlock(ctx, "default"); got != "" {
		t.Fatalf("name and favorites alone must produce no block, got %q", got)
	}

	games := []string{"zelda", "mario kart", "kirby", "metroid", "splatoon", "pikmin"}
	for _, g := range games {
		if err := svc.UpdateFromTurn(ctx, "default", TurnUpdate{UserMessage: "parlami di " + g, Reply: "ok"}); err != nil {
			t.Fatalf("UpdateFromTurn failed: %v", err)
		}
	}
	block := svc.PersonalizationBlock(ctx, "default")
	if !strings.Contains(block, "Zelda, Mario Kart, Kirby, Metroid, Splatoon") || strings.Contains(block, "Pikmin") {
		t.Fatalf("expected first five games only:\n%s", block)
	}

	if err := svc.Clear(ctx, "default"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := svc.PersonalizationBlock(ctx, "default"); got != "" {
		t.Fatalf("cleared memory must produce no block, got %q", got)
	}
	if err := svc.Clear(ctx, "default"); err != nil {
		t.Fatalf("clearing twice must not fail: %v", err)
	}
}

func TestConcurrentUpdatesAreSerializedPerUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			title := fmt.Sprintf("Gioco %d", i)
			if !svc.SaveToFavorites(ctx, "default", title, nil) {
				t.Errorf("save of %s failed", title)
			}
		}(i)
	}
	wg.Wait()

	if got := len(svc.Load(ctx, "default").Favorites); got != 8 {
		t.Fatalf("expected 8 favorites, got %d", got)
	}

	svc.mu.Lock()
	pending := len(svc.locks)
	svc.mu.Unlock()
	if pending != 0 {
		t.Fatalf("expected released user locks to be dropped, %d left", pending)
	}
}

func TestProfileAndReport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if got := svc.PersonalityReport(ctx, "default"); got != EmptyReport {
		t.Fatalf("expected empty report, got %q", got)
	}

	if err := svc.UpdateFromTurn(ctx, "default", TurnUpdate{UserMessage: "mi piacciono gli rpg e giocare con gli amici a zelda", Reply: "ok"}); err != nil {
		t.Fatalf("UpdateFromTurn failed: %v", err)
	}
	svc.SaveToFavorites(ctx, "default", "Xenoblade Chronicles 3", nil)

	p := svc.Profile(ctx, "default")
	if p.Stats.Favorites != 1 || p.Stats.Conversations != 1 || p.LastUpdated == nil {
		t.Fatalf("unexpected profile %+v", p)
	}

	report := svc.PersonalityReport(ctx, "default")
	for _, want := range []string{"lo Stratega", "Xenoblade Chronicles 3", "Generi preferiti: rpg", "Mood: sociale"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

type stubNarrator struct {
	out string
	err error
}

func (n stubNarrator) Narrate(context.Context, string) (string, error) { return n.out, n.err }

func TestReportUsesNarratorWithFallback(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "default")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	svc := NewService(store, WithNarrator(stubNarrator{out: "Sei un esploratore nato."}))
	svc.SaveToFavorites(ctx, "default", "Zelda", nil)
	if got := svc.PersonalityReport(ctx, "default"); got != "Sei un esploratore nato." {
		t.Fatalf("expected narrated report, got %q", got)
	}

	svc = NewService(store, WithNarrator(stubNarrator{err: errors.New("offline")}))
	if got := svc.PersonalityReport(ctx, "default"); !strings.Contains(got, "Preferiti: Zelda") {
		t.Fatalf("expected digest fallback, got %q", got)
	}
}
