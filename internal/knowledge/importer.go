package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/utils"
)

const (
	maxImportedKeywords = 10
	maxImportedTags     = 5
	importedGameplayMax = 300

	defaultDifficulty = "Media"
	defaultMode       = "Single Player"
	unknownGameplay   = "Gameplay da definire"
)

// GenreTerms maps a genre keyword to the description terms that imply it.
// Entries are checked in order.
var GenreTerms = []struct {
	Genre string
	Terms []string
}{
	{"action", []string{"azione", "action", "combat", "combattimento"}},
	{"adventure", []string{"avventura", "adventure", "explore", "esplorazione"}},
	{"rpg", []string{"rpg", "ruolo", "role"}},
	{"platform", []string{"platform", "platforming", "saltare", "jump"}},
	{"puzzle", []string{"puzzle", "rompicapo"}},
	{"racing", []string{"racing", "corse", "kart"}},
	{"strategy", []string{"strategia", "strategy", "tattico", "tactical"}},
}

var titleWordRe = regexp.MustCompile(`[\pL\pN]+`)

// NewImportedRecord completes a scraped title, platform and description into
// a catalogue record: gameplay from the description, default difficulty and
// mode, generated keywords and tags.
func NewImportedRecord(title, platform, description string) types.GameRecord {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	gameplay := utils.Truncate(description, importedGameplayMax)
	if gameplay == "" {
		gameplay = unknownGameplay
	}
	keywords := GenerateKeywords(title, description, platform)
	tags := keywords
	if len(tags) > maxImportedTags {
		tags = tags[:maxImportedTags]
	}
	return types.GameRecord{
		Title:       title,
		Platform:    strings.TrimSpace(platform),
		Description: description,
		Gameplay:    gameplay,
		Difficulty:  defaultDifficulty,
		Modes:       []string{defaultMode},
		Keywords:    keywords,
		Tags:        append([]string(nil), tags...),
		Mood:        []string{},
	}
}

// GenerateKeywords derives up to ten distinct keywords: title words longer
// than three runes, a platform keyword, then genres implied by description.
func GenerateKeywords(title, description, platform string) []string {
	var out []string
	add := func(kw string) {
		for _, existing := range out {
			if existing == kw {
				return
			}
		}
		out = append(out, kw)
	}

	for _, w := range titleWordRe.FindAllString(strings.ToLower(title), -1) {
		if len([]rune(w)) > 3 {
			add(w)
		}
	}

	p := strings.ToLower(platform)
	switch {
	case strings.Contains(p, "switch"):
		add("switch")
	case strings.Contains(p, "wii u"):
		add("wiiu")
	case strings.Contains(p, "3ds"):
		add("3ds")
	case strings.Contains(p, "ds"):
		add("ds")
	}

	desc := strings.ToLower(description)
	for _, g := range GenreTerms {
		if utils.ContainsAny(desc, g.Terms) {
			add(g.Genre)
		}
	}

	if len(out) > maxImportedKeywords {
		out = out[:maxImportedKeywords]
	}
	return out
}

// Merge returns games with record added. A record whose title matches an
// existing one case-insensitively replaces it in place; replaced reports
// that case.
func Merge(games []types.GameRecord, record types.GameRecord) (merged []types.GameRecord, replaced bool) {
	merged = make([]types.GameRecord, 0, len(games)+1)
	for _, g := range games {
		if !replaced && strings.EqualFold(g.Title, record.Title) {
			merged = append(merged, record)
			replaced = true
			continue
		}
		merged = append(merged, g)
	}
	if !replaced {
		merged = append(merged, record)
	}
	return merged, replaced
}

// Save writes games to path in the {"games": [...]} layout read by Load,
// replacing the file atomically.
func Save(path string, games []types.GameRecord) error {
	data, err := json.MarshalIndent(catalogue{Games: games}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode games: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create games directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".games-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write games: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write games: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace games file: %w", err)
	}
	return nil
}
