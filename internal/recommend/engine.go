// Package recommend picks a catalogue record matching mood and tag signals.
package recommend

import (
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/utils"
)

const (
	tagExactWeight     = 2.0
	tagContainsWeight  = 1.5
	moodExactWeight    = 1.5
	moodContainsWeight = 1.0
	moodFuzzyWeight    = 0.5
	minScore           = 0.1
)

// PlatformAlias maps a lower-case text fragment to a platform name.
type PlatformAlias struct {
	Alias    string
	Platform string
}

// Platforms is checked in order; "wii u" must precede "wii" and "3ds" must
// precede "ds".
var Platforms = []PlatformAlias{
	{"switch", "Nintendo Switch"},
	{"wii u", "Nintendo Wii U"},
	{"wiiu", "Nintendo Wii U"},
	{"wii", "Nintendo Wii"},
	{"3ds", "Nintendo 3DS"},
	{"ds", "Nintendo DS"},
}

// ExtractPlatform returns the platform named in text, or "".
func ExtractPlatform(text string) string {
	lower := strings.ToLower(text)
	for _, p := range Platforms {
		if strings.Contains(lower, p.Alias) {
			return p.Platform
		}
	}
	return ""
}

// FilterByPlatform keeps records whose platform contains platform
// (case-insensitive). An empty platform keeps everything.
func FilterByPlatform(records []types.GameRecord, platform string) []types.GameRecord {
	if platform == "" {
		return records
	}
	lower := strings.ToLower(platform)
	var out []types.GameRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Platform), lower) {
			out = append(out, r)
		}
	}
	return out
}

// Recommend returns the record best matching tags, restricted to the platform
// named in freeText when that leaves any candidate. Without a match above the
// floor it falls back to the first candidate; it reports false only for an
// empty catalogue.
func Recommend(records []types.GameRecord, tags []string, freeText string) (types.GameRecord, bool) {
	candidates := records
	if platform := ExtractPlatform(freeText); platform != "" {
		if filtered := FilterByPlatform(records, platform); len(filtered) > 0 {
			candidates = filtered
		}
	}

	if best, ok := bestMatch(candidates, tags); ok {
		return best, true
	}
	if len(candidates) > 0 {
		return candidates[0], true
	}
	return types.GameRecord{}, false
}

func bestMatch(candidates []types.GameRecord, tags []string) (types.GameRecord, bool) {
	if len(tags) == 0 || len(candidates) == 0 {
		return types.GameRecord{}, false
	}
	bestIdx := -1
	bestScore := 0.0
	for i, g := range candidates {
		s := Score(g, tags)
		// strict comparison keeps the first record on ties
		if s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore <= minScore {
		return types.GameRecord{}, false
	}
	return candidates[bestIdx], true
}

// Score accumulates the match strength of every tag against the record's
// tags and bilingual moods.
func Score(g types.GameRecord, tags []string) float64 {
	score := 0.0
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		for _, gt := range g.Tags {
			gt = strings.ToLower(gt)
			switch {
			case t == gt:
				score += tagExactWeight
			case strings.Contains(gt, t) || strings.Contains(t, gt):
				score += tagContainsWeight
			default:
				score += utils.Ratio(t, gt)
			}
		}
		for _, m := range g.Mood {
			score += moodScore(t, strings.ToLower(m))
		}
	}
	return score
}

func moodScore(tag, mood string) float64 {
	eng, ita, _ := strings.Cut(mood, "/")
	if eng == "" && ita == "" {
		return 0
	}
	switch {
	case tag == eng || (ita != "" && tag == ita):
		return moodExactWeight
	case eng != "" && (strings.Contains(eng, tag) || strings.Contains(tag, eng)):
		return moodContainsWeight
	case ita != "" && (strings.Contains(ita, tag) || strings.Contains(tag, ita)):
		return moodContainsWeight
	case strings.Contains(mood, tag) || strings.Contains(tag, mood):
		return moodContainsWeight
	}
	sim := utils.Ratio(tag, eng)
	if ita != "" {
		sim = max(sim, utils.Ratio(tag, ita))
	}
	return sim * moodFuzzyWeight
}
