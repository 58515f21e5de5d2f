package wiki

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

type fakeGetter struct {
	search map[string]string
	pages  map[string]string
	calls  []url.Values
}

func (f *fakeGetter) Get(_ context.Context, raw string) (int, []byte, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return 0, nil, err
	}
	q := u.Query()
	f.calls = append(f.calls, q)
	if q.Get("list") == "search" {
		if body, ok := f.search[q.Get("srsearch")]; ok {
			return 200, []byte(body), nil
		}
		return 200, []byte(`{"query":{"search":[]}}`), nil
	}
	if body, ok := f.pages[q.Get("titles")]; ok {
		return 200, []byte(body), nil
	}
	return 200, []byte(`{"query":{"pages":[{"title":"x","missing":true}]}}`), nil
}

const marioExtract = "Mario è un personaggio dei videogiochi creato da Shigeru Miyamoto.\n\nSeconda parte.\n\n== Storia ==\nApparso per la prima volta in Donkey Kong nel 1981.\n\n== Caratteristiche ==\nIndossa un cappello rosso e salta."

func marioPage() string {
	return `{"query":{"pages":[{"title":"Mario","extract":` + jsonString(marioExtract) + `}]}}`
}

func jsonString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func TestGetPage(t *testing.T) {
	g := &fakeGetter{pages: map[string]string{"Mario": marioPage()}}
	c := NewClient(g, "http://wiki.test/api.php", "it")

	page, err := c.GetPage(context.Background(), "Mario")
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if page.Summary != "Mario è un personaggio dei videogiochi creato da Shigeru Miyamoto." {
		t.Fatalf("unexpected summary %q", page.Summary)
	}
	if !reflect.DeepEqual(page.Sections, []string{"Storia", "Caratteristiche"}) {
		t.Fatalf("unexpected sections %v", page.Sections)
	}
	if got := g.calls[0].Get("formatversion"); got != "2" {
		t.Fatalf("expected formatversion 2, got %q", got)
	}

	if _, err := c.GetPage(context.Background(), "Nessuno"); !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestGetPageEmpty(t *testing.T) {
	g := &fakeGetter{pages: map[string]string{"Vuota": `{"query":{"pages":[{"title":"Vuota","extract":""}]}}`}}
	c := NewClient(g, "http://wiki.test/api.php", "it")
	if _, err := c.GetPage(context.Background(), "Vuota"); !errors.Is(err, ErrEmptyPage) {
		t.Fatalf("expected ErrEmptyPage, got %v", err)
	}
}

func TestSummaryTruncated(t *testing.T) {
	got := summarize(strings.Repeat("a", 600) + "\n\nresto")
	if len(got) != 503 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected summary length %d", len(got))
	}
}

func TestAnswerFallsBackToKeywords(t *testing.T) {
	g := &fakeGetter{
		search: map[string]string{"miyamoto": `{"query":{"search":[{"title":"Mario"},{"title":"Luigi"}]}}`},
		pages:  map[string]string{"Mario": marioPage()},
	}
	c := NewClient(g, "http://wiki.test/api.php", "it")

	ans, err := c.Answer(context.Background(), "Chi ha creato Miyamoto?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if ans.MatchedPage != "Mario" || ans.Language != "it" {
		t.Fatalf("unexpected answer %+v", ans)
	}
	// "creato" occurs in the intro only, "miyamoto" in no section.
	if ans.RelevantSection != "" {
		t.Fatalf("expected no relevant section, got %q", ans.RelevantSection)
	}

	if _, err := c.Answer(context.Background(), "qualcosa di ignoto"); !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("Chi è il creatore di Zelda, e quando è uscito?")
	want := []string{"creatore", "zelda", "uscito"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := longestFirst(want); got[0] != "creatore" || got[1] != "uscito" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestRelevantSection(t *testing.T) {
	if got := RelevantSection(marioExtract, []string{"cappello", "rosso"}); got != "Caratteristiche" {
		t.Fatalf("expected Caratteristiche, got %q", got)
	}
	if got := RelevantSection(marioExtract, []string{"donkey"}); got != "Storia" {
		t.Fatalf("expected Storia, got %q", got)
	}
	if got := RelevantSection(marioExtract, nil); got != "" {
		t.Fatalf("expected empty section, got %q", got)
	}
}

func TestMultiCombinesEditions(t *testing.T) {
	it := &fakeGetter{
		search: map[string]string{"mario": `{"query":{"search":[{"title":"Mario"}]}}`},
		pages:  map[string]string{"Mario": marioPage()},
	}
	en := &fakeGetter{
		search: map[string]string{"mario": `{"query":{"search":[{"title":"Mario"}]}}`},
		pages:  map[string]string{"Mario": `{"query":{"pages":[{"title":"Mario","extract":"Mario is a character."}]}}`},
	}
	m := Multi{
		Primary:   NewClient(it, "http://it.test", "it"),
		Secondary: NewClient(en, "http://en.test", "en"),
	}

	ans, err := m.Answer(context.Background(), "mario")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if ans.Language != "it+en" {
		t.Fatalf("expected it+en, got %q", ans.Language)
	}
	if !strings.Contains(ans.FullText, "Mario is a character.") {
		t.Fatalf("secondary text missing: %q", ans.FullText)
	}

	m.Primary = NewClient(&fakeGetter{}, "http://it.test", "it")
	ans, err = m.Answer(context.Background(), "mario")
	if err != nil || ans.Language != "en" {
		t.Fatalf("expected english fallback, got %+v, %v", ans, err)
	}
}
