// Package knowledge is the local game catalogue: a read-only repository and
// the helpers that build its file from imported pages.
package knowledge

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/utils"
)

//go:embed data/games.json
var bundledGames []byte

const (
	exactTitleScore  = 10.0
	wordOverlapScore = 5.0
	titleSimWeight   = 8.0
	keywordScore     = 3.0
	keywordWordScore = 1.5
	minSearchScore   = 2.0
	getSimThreshold  = 0.8
	searchSimFloor   = 0.5
)

// Repository holds the catalogue loaded at startup. It is never mutated after
// construction and is safe for concurrent readers.
type Repository struct {
	games []types.GameRecord
}

type catalogue struct {
	Games []types.GameRecord `json:"games"`
}

// NewRepository wraps an in-memory record list.
func NewRepository(games []types.GameRecord) *Repository {
	out := make([]types.GameRecord, len(games))
	copy(out, games)
	return &Repository{games: out}
}

// Load reads the catalogue from path, or the bundled dataset when path is
// empty. On failure it returns an empty repository together with the error so
// lookups keep working.
func Load(path string) (*Repository, error) {
	data := bundledGames
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return NewRepository(nil), fmt.Errorf("failed to read games file: %w", err)
		}
		data = raw
	}
	games, err := parse(data)
	if err != nil {
		return NewRepository(nil), err
	}
	return &Repository{games: games}, nil
}

func parse(data []byte) ([]types.GameRecord, error) {
	var cat catalogue
	if err := json.Unmarshal(data, &cat); err == nil && cat.Games != nil {
		return cat.Games, nil
	}
	// a bare array is accepted as well
	var games []types.GameRecord
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("failed to parse games file: %w", err)
	}
	return games, nil
}

// All returns every record in store order.
func (r *Repository) All() []types.GameRecord {
	out := make([]types.GameRecord, len(r.games))
	copy(out, r.games)
	return out
}

// Len is the number of records.
func (r *Repository) Len() int {
	return len(r.games)
}

// Get finds the record best matching title: exact match, then containment in
// either direction, then similarity above 0.8, then the top search result.
func (r *Repository) Get(title string) (types.GameRecord, bool) {
	query := strings.ToLower(strings.TrimSpace(title))
	if query == "" || len(r.games) == 0 {
		return types.GameRecord{}, false
	}
	for _, g := range r.games {
		if strings.ToLower(g.Title) == query {
			return g, true
		}
	}
	for _, g := range r.games {
		t := strings.ToLower(g.Title)
		if t == "" {
			continue
		}
		if strings.Contains(t, query) || strings.Contains(query, t) {
			return g, true
		}
	}
	for _, g := range r.games {
		if utils.Ratio(query, g.Title) > getSimThreshold {
			return g, true
		}
	}
	if results := r.Search(title, 1); len(results) > 0 {
		return results[0], true
	}
	return types.GameRecord{}, false
}

type scored struct {
	score float64
	game  types.GameRecord
}

// Search ranks records against query by title and keyword overlap. Records
// scoring 2.0 or less are dropped; ties keep store order.
func (r *Repository) Search(query string, topK int) []types.GameRecord {
	lower := strings.ToLower(strings.TrimSpace(query))
	if lower == "" || topK <= 0 {
		return nil
	}
	var queryWords []string
	for _, w := range strings.Fields(lower) {
		if len([]rune(w)) > 2 {
			queryWords = append(queryWords, w)
		}
	}

	var results []scored
	for _, g := range r.games {
		title := strings.ToLower(g.Title)
		if strings.Contains(title, lower) {
			results = append(results, scored{exactTitleScore, g})
			continue
		}

		score := 0.0
		if utils.ContainsAny(title, queryWords) {
			score += wordOverlapScore
		}
		if sim := utils.Ratio(lower, title); sim > searchSimFloor {
			score += sim * titleSimWeight
		}
		for _, kw := range g.Keywords {
			kw = strings.ToLower(kw)
			if strings.Contains(kw, lower) || strings.Contains(lower, kw) {
				score += keywordScore
				break
			}
			if utils.ContainsAny(kw, queryWords) {
				score += keywordWordScore
			}
		}
		if score > minSearchScore {
			results = append(results, scored{score, g})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	out := make([]types.GameRecord, len(results))
	for i, s := range results {
		out[i] = s.game
	}
	return out
}

// Similar returns up to n records sharing tags (weighted double) or moods with
// game, excluding game itself.
func (r *Repository) Similar(game types.GameRecord, n int) []types.GameRecord {
	if game.Title == "" || n <= 0 {
		return nil
	}
	tags := lowerSet(game.Tags)
	moods := lowerSet(game.Mood)

	var results []scored
	for _, g := range r.games {
		if g.Title == game.Title {
			continue
		}
		score := 2*overlap(tags, g.Tags) + overlap(moods, g.Mood)
		if score > 0 {
			results = append(results, scored{float64(score), g})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > n {
		results = results[:n]
	}
	out := make([]types.GameRecord, len(results))
	for i, s := range results {
		out[i] = s.game
	}
	return out
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func overlap(set map[string]struct{}, values []string) int {
	seen := make(map[string]struct{}, len(values))
	count := 0
	for _, v := range values {
		v = strings.ToLower(v)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := set[v]; ok {
			count++
		}
	}
	return count
}
