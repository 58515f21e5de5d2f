// Package prompt renders the context blocks and the system prompt handed to
// the generation backend. Every block is a text template; callers only supply
// data.
package prompt

import (
	"bytes"
	"log/slog"
	"strings"
	"text/template"

	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/utils"
)

// TruncatedMarker is appended to content cut to fit a block.
const TruncatedMarker = "\n\n[... contenuto troncato ...]"

// Encyclopedia limits: small talk and deep supplements keep less text than a
// primary answer.
const (
	WikiShortLimit = 1500
	WikiLongLimit  = 2000
)

// WikiEntry is an encyclopedia answer as shown to the generator.
type WikiEntry struct {
	Page     string
	Summary  string
	Section  string
	FullText string
}

// RecommendationData feeds the recommendation block.
type RecommendationData struct {
	Game    types.RecommendedGame
	Details *types.GameRecord
	WebText string
	Moods   []string
	// MoodGuidance holds extra per-mood guidelines, one per line.
	MoodGuidance []string
}

// PersonalizationData is the digest of a user memory.
type PersonalizationData struct {
	UserName    string
	Games       []string
	Favorites   []string
	Preferences types.Preferences
}

// empty reports a memory with neither mentioned games nor preferences; a
// name or favorites alone are not enough to personalize.
func (p PersonalizationData) empty() bool {
	return len(p.Games) == 0 && p.Preferences.IsEmpty()
}

// SystemPrompt returns the advisor instructions, with the verified-sources
// section when context is non-empty.
func SystemPrompt(context string) string {
	return render(systemTemplate, struct{ Context string }{Context: strings.TrimSpace(context)})
}

// WebBlock wraps web lookup text. source is "fandom" for wiki pages and
// anything else for generic search results.
func WebBlock(title, text, source string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return render(webTemplate, struct{ Title, Text, Source string }{title, strings.TrimSpace(text), source})
}

// WikiBlock renders an encyclopedia answer with its text cut to limit.
// complement marks a supplement to another primary source.
func WikiBlock(e WikiEntry, limit int, complement bool) string {
	label := "Contenuto"
	switch {
	case complement:
		label = "Contenuto aggiuntivo"
	case limit > WikiShortLimit:
		label = "Contenuto completo"
	}
	return render(wikiTemplate, struct {
		Page, Summary, Section, ContentLabel, Content string
		Complement                                    bool
	}{
		Page:         e.Page,
		Summary:      e.Summary,
		Section:      e.Section,
		ContentLabel: label,
		Content:      utils.TruncateWithMarker(e.FullText, limit, TruncatedMarker),
		Complement:   complement,
	})
}

// LocalBlock renders a catalogue record.
func LocalBlock(g types.GameRecord) string {
	return render(localTemplate, g)
}

// DeepInstruction asks the generator for content complementary to
// previousReply. combined notes that wiki and encyclopedia text are both present.
func DeepInstruction(previousReply string, combined bool) string {
	return render(deepTemplate, struct {
		PreviousReply string
		Combined      bool
	}{strings.TrimSpace(previousReply), combined})
}

// RecommendationBlock renders the recommended game with its mandatory
// instructions.
func RecommendationBlock(d RecommendationData) string {
	return render(recommendationTemplate, d)
}

// PersonalizationBlock renders the memory digest, or "" when there is nothing
// to personalize with.
func PersonalizationBlock(p PersonalizationData) string {
	if p.empty() {
		return ""
	}
	return render(personalizationTemplate, p)
}

// Join concatenates the non-empty parts separated by blank lines.
func Join(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// Bound cuts an assembled context to max characters. A non-positive max
// leaves it untouched.
func Bound(context string, max int) string {
	if max <= 0 {
		return context
	}
	return utils.TruncateWithMarker(context, max, TruncatedMarker)
}

func truncate(s string, n int) string {
	return utils.Truncate(s, n)
}

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		slog.Error("failed to render prompt block", "template", t.Name(), "error", err.Error())
		return ""
	}
	return strings.TrimSpace(buf.String())
}
