package entity

import (
	"testing"

	"github.com/easeaico/nintendo-advisor/internal/types"
)

func TestExtractEntity(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"mi parli di Godot in Ace Attorney", "godot"},
		{"Chi è Samus Aran?", "samus aran"},
		{"parlami di Link della saga di Zelda", "link"},
		{"che cos'è la Triforza?", "triforza"},
		{"Kirby", "kirby"},
		{"Super Mario Odyssey trama completa", "super mario odyssey"},
		{"chi è?", "chi è?"},
	}
	for _, tc := range cases {
		if got := ExtractEntity(tc.query); got != tc.want {
			t.Fatalf("ExtractEntity(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestExtractEntityDeterministic(t *testing.T) {
	q := "mi parli di Godot in Ace Attorney"
	first := ExtractEntity(q)
	for i := 0; i < 5; i++ {
		if got := ExtractEntity(q); got != first {
			t.Fatalf("non-deterministic extraction: %q vs %q", got, first)
		}
	}
}

func TestDetectSeries(t *testing.T) {
	cases := []struct {
		entity, query string
		want          *types.SeriesMatch
	}{
		{"godot", "mi parli di godot in ace attorney", &types.SeriesMatch{ID: "aceattorney", Name: "Godot"}},
		{"gumshoe", "chi è gumshoe", &types.SeriesMatch{ID: "aceattorney", Name: "Dick Gumshoe"}},
		{"samus", "chi è samus", &types.SeriesMatch{ID: "metroid", Name: "Samus Aran"}},
		{"kirby", "parlami di kirby", &types.SeriesMatch{ID: "kirby", Name: "Kirby"}},
		{"link", "chi è link", &types.SeriesMatch{ID: "zelda", Name: "Link"}},
		{"peach", "chi è peach", &types.SeriesMatch{ID: "mario", Name: "Peach"}},
		{"qualcuno", "chi è qualcuno", nil},
	}
	for _, tc := range cases {
		got := DetectSeries(tc.entity, tc.query)
		if tc.want == nil {
			if got != nil {
				t.Fatalf("DetectSeries(%q) = %#v, want nil", tc.entity, got)
			}
			continue
		}
		if got == nil || *got != *tc.want {
			t.Fatalf("DetectSeries(%q, %q) = %#v, want %#v", tc.entity, tc.query, got, tc.want)
		}
	}
}

func TestDetectSeriesPriority(t *testing.T) {
	// "luigi" is a Mario character, but the Ace Attorney keyword is checked first.
	got := DetectSeries("luigi", "chi è luigi in ace attorney")
	if got == nil || got.ID != "aceattorney" {
		t.Fatalf("expected ace attorney to win, got %#v", got)
	}
	if got.Name != "Luigi" {
		t.Fatalf("expected capitalized entity, got %q", got.Name)
	}
	if SeriesTable[0].ID != "aceattorney" || SeriesTable[len(SeriesTable)-1].ID != "mario" {
		t.Fatalf("unexpected series priority order")
	}
}

func TestDetectGame(t *testing.T) {
	got := DetectGame("luigis mansion 3", "")
	if got == nil || got.ID != "mario" || got.Name != "Luigi's Mansion 3" {
		t.Fatalf("unexpected game match: %#v", got)
	}
	got = DetectGame("smash bros ultimate", "")
	if got == nil || got.ID != "supersmashbros" || got.Name != "Smash Bros. Ultimate" {
		t.Fatalf("unexpected game match: %#v", got)
	}
	if got := DetectGame("un gioco qualsiasi", ""); got != nil {
		t.Fatalf("expected no match, got %#v", got)
	}
}

func TestNormalizeGameName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"luigis mansion", "Luigi's Mansion"},
		{"luigi s mansion", "Luigi's Mansion"},
		{"Luigi's Mansion", "Luigi's Mansion"},
		{"mario and luigi superstar saga", "Mario & Luigi Superstar Saga"},
		{"mario e sonic", "Mario & Sonic"},
		{"super smash bros ultimate", "Super Smash Bros. Ultimate"},
		{"the legend of zelda majoras mask", "The Legend of Zelda Majora's Mask"},
		{"xenoblade chronicles ii", "Xenoblade Chronicles II"},
	}
	for _, tc := range cases {
		if got := NormalizeGameName(tc.in); got != tc.want {
			t.Fatalf("NormalizeGameName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeGameNameIdempotent(t *testing.T) {
	samples := []string{
		"luigis mansion", "Luigi's Mansion 3", "mario&luigi", "super smash bros.",
		"kirbys dream land", "links awakening", "yoshi s island", "A Link to the Past",
		"  animal   crossing new horizons ", "fire emblem three houses",
	}
	for _, s := range samples {
		once := NormalizeGameName(s)
		if twice := NormalizeGameName(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", s, once, twice)
		}
	}
	if NormalizeGameName("luigis mansion") != NormalizeGameName("Luigi's Mansion") {
		t.Fatalf("variant spellings should normalize to the same title")
	}
}

func TestCharacterHint(t *testing.T) {
	if got := CharacterHint("link"); got != "Zelda character Nintendo" {
		t.Fatalf("unexpected hint: %q", got)
	}
	if got := CharacterHint("sconosciuto"); got != "Nintendo" {
		t.Fatalf("unexpected hint: %q", got)
	}
}
