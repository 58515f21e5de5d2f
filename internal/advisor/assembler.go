// Package advisor turns one chat turn into a reply: it classifies the
// message, gathers context from the catalogue, the web and the encyclopedia,
// asks the generator and keeps the user's memory current.
package advisor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/entity"
	"github.com/easeaico/nintendo-advisor/internal/mood"
	"github.com/easeaico/nintendo-advisor/internal/prompt"
	"github.com/easeaico/nintendo-advisor/internal/recommend"
	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/utils"
	"github.com/easeaico/nintendo-advisor/internal/web"
	"github.com/easeaico/nintendo-advisor/internal/wiki"
)

const (
	cardPlatform       = "Nintendo"
	cardDifficulty     = "N/A"
	cardDescriptionMax = 400
	cardGameplayMax    = 1000
	minImageURLLength  = 20
)

// WebSource resolves a query against fan wikis and web search.
type WebSource interface {
	Lookup(ctx context.Context, rawQuery, contextQuery string, deep bool) (*web.Result, bool)
}

// Encyclopedia answers free-form questions.
type Encyclopedia interface {
	Answer(ctx context.Context, question string) (wiki.Answer, error)
}

// Catalogue is the local game store.
type Catalogue interface {
	All() []types.GameRecord
	Get(title string) (types.GameRecord, bool)
	Search(query string, topK int) []types.GameRecord
}

// MemoryView is the part of the user memory the assembler reads.
type MemoryView interface {
	PersonalizationBlock(ctx context.Context, userID string) string
	LastReply(ctx context.Context, userID string) string
}

// Resolution is the context gathered for one turn.
type Resolution struct {
	Context     string
	Info        *types.InfoCard
	Recommended *types.RecommendedGame
	Moods       []string
}

// Assembler gathers the generation context for a turn. Any source may be nil.
type Assembler struct {
	web       WebSource
	wiki      Encyclopedia
	catalogue Catalogue
	memory    MemoryView
}

// NewAssembler creates an Assembler.
func NewAssembler(webSource WebSource, encyclopedia Encyclopedia, catalogue Catalogue, memory MemoryView) *Assembler {
	return &Assembler{
		web:       webSource,
		wiki:      encyclopedia,
		catalogue: catalogue,
		memory:    memory,
	}
}

// Resolve builds the context for message, the last user message of history,
// according to its intent. Personalization from memory is appended last.
func (a *Assembler) Resolve(ctx context.Context, userID string, history []types.ChatMessage, message string, in types.Intent) Resolution {
	var res Resolution
	switch in {
	case types.IntentSmallTalk:
		guard("small_talk", func() { a.resolveSmallTalk(ctx, message, &res) })
	case types.IntentInfo:
		if isCharacterQuery(message) {
			guard("character_info", func() { a.resolveCharacter(ctx, userID, message, &res) })
		} else {
			guard("game_info", func() { a.resolveGame(ctx, userID, message, &res) })
		}
	case types.IntentRecommendation:
		guard("recommendation", func() { a.resolveRecommendation(ctx, history, &res) })
	}

	if a.memory != nil {
		guard("personalization", func() {
			res.Context = prompt.Join(res.Context, a.memory.PersonalizationBlock(ctx, userID))
		})
	}
	return res
}

func (a *Assembler) resolveSmallTalk(ctx context.Context, message string, res *Resolution) {
	lower := strings.ToLower(message)
	if !utils.ContainsAny(lower, GeneralInfoKeywords) || len(strings.Fields(message)) <= generalInfoMinWords {
		return
	}
	if answer, ok := a.askWiki(ctx, message); ok {
		res.Context = prompt.WikiBlock(wikiEntry(answer), prompt.WikiShortLimit, false)
	}
}

func (a *Assembler) resolveCharacter(ctx context.Context, userID, message string, res *Resolution) {
	deep := isDeepRequest(message)
	if found, ok := a.lookupWeb(ctx, message, message, deep); ok {
		res.Context = webBlock(found)
		if deep {
			res.Context = prompt.Join(res.Context, prompt.DeepInstruction(a.lastReply(ctx, userID), false))
		}
		res.Info = characterCard(entity.DisplayName(message), found.ImageURL)
	}

	if res.Context == "" {
		if answer, ok := a.askWiki(ctx, message); ok {
			res.Context = prompt.WikiBlock(wikiEntry(answer), prompt.WikiLongLimit, false)
			res.Info = wikiCard(answer)
		}
	}
}

func (a *Assembler) resolveGame(ctx context.Context, userID, message string, res *Resolution) {
	deep := isDeepRequest(message)
	found, ok := a.lookupWeb(ctx, message, "", deep)
	if ok {
		res.Context = webBlock(found)
		if deep {
			if answer, ok := a.askWiki(ctx, message); ok {
				res.Context = prompt.Join(res.Context, prompt.WikiBlock(wikiEntry(answer), prompt.WikiShortLimit, true))
			}
			res.Context = prompt.Join(res.Context, prompt.DeepInstruction(a.lastReply(ctx, userID), true))
		}
	} else {
		a.resolveGameOffline(ctx, message, res)
		if res.Context == "" {
			found, ok = a.lookupWeb(ctx, message, "", false)
			if ok {
				res.Context = webBlock(found)
			}
		}
	}

	if res.Info != nil || found == nil {
		return
	}
	name := entity.ExtractEntity(message)
	if entity.DetectSeries(name, message) != nil {
		res.Info = characterCard(utils.TitleCase(name), found.ImageURL)
		return
	}
	res.Info = webCard(found, entity.NormalizeGameName(name), "")
}

// resolveGameOffline tries the catalogue, then the encyclopedia.
func (a *Assembler) resolveGameOffline(ctx context.Context, message string, res *Resolution) {
	if a.catalogue != nil {
		if matches := a.catalogue.Search(message, 1); len(matches) > 0 {
			res.Context = prompt.LocalBlock(matches[0])
			res.Info = types.CardFromRecord(matches[0])
			return
		}
	}
	if answer, ok := a.askWiki(ctx, message); ok {
		res.Context = prompt.WikiBlock(wikiEntry(answer), prompt.WikiLongLimit, false)
		res.Info = wikiCard(answer)
	}
}

func (a *Assembler) resolveRecommendation(ctx context.Context, history []types.ChatMessage, res *Resolution) {
	if a.catalogue == nil {
		return
	}
	allText := conversationText(history)
	res.Moods = mood.Extract(allText)

	game, ok := recommend.Recommend(a.catalogue.All(), res.Moods, allText)
	if !ok {
		return
	}
	recommended := types.RecommendedGame{
		Title:    game.Title,
		Platform: game.Platform,
		Tags:     game.Tags,
		Mood:     game.Mood,
	}
	res.Recommended = &recommended

	data := prompt.RecommendationData{
		Game:         recommended,
		Moods:        res.Moods,
		MoodGuidance: mood.Instructions(res.Moods),
	}
	if details, ok := a.catalogue.Get(game.Title); ok && details.HasDetails() {
		data.Details = &details
	} else if found, ok := a.lookupWeb(ctx, game.Title, "", false); ok {
		data.WebText = webBlock(found)
		res.Info = webCard(found, game.Title, game.Platform)
	}
	res.Context = prompt.RecommendationBlock(data)
}

func (a *Assembler) lookupWeb(ctx context.Context, rawQuery, contextQuery string, deep bool) (*web.Result, bool) {
	if a.web == nil {
		return nil, false
	}
	found, ok := a.web.Lookup(ctx, rawQuery, contextQuery, deep)
	if !ok || found == nil || strings.TrimSpace(found.Text) == "" {
		return nil, false
	}
	return found, true
}

func (a *Assembler) askWiki(ctx context.Context, question string) (wiki.Answer, bool) {
	if a.wiki == nil {
		return wiki.Answer{}, false
	}
	answer, err := a.wiki.Answer(ctx, question)
	if err != nil {
		slog.Debug("encyclopedia miss", "question", question, "error", err.Error())
		return wiki.Answer{}, false
	}
	return answer, true
}

func (a *Assembler) lastReply(ctx context.Context, userID string) string {
	if a.memory == nil {
		return ""
	}
	return a.memory.LastReply(ctx, userID)
}

func isCharacterQuery(message string) bool {
	return utils.ContainsAny(strings.ToLower(message), CharacterPhrases)
}

func isDeepRequest(message string) bool {
	return utils.ContainsAny(strings.ToLower(message), DeepKeywords)
}

func conversationText(history []types.ChatMessage) string {
	parts := make([]string, 0, len(history))
	for _, msg := range history {
		parts = append(parts, msg.Content)
	}
	return strings.Join(parts, " ")
}

func webBlock(r *web.Result) string {
	return prompt.WebBlock(r.Title, r.Text, string(r.Source))
}

func wikiEntry(a wiki.Answer) prompt.WikiEntry {
	return prompt.WikiEntry{
		Page:     a.MatchedPage,
		Summary:  a.Summary,
		Section:  a.RelevantSection,
		FullText: a.FullText,
	}
}

// cleanImageURL strips whitespace and rejects inline or implausibly short
// URLs.
func cleanImageURL(raw string) string {
	url := strings.Join(strings.Fields(raw), "")
	if strings.HasPrefix(url, "data:image") || len(url) <= minImageURLLength {
		return ""
	}
	return url
}

// characterCard is a picture-only card; without an image there is none.
func characterCard(name, imageURL string) *types.InfoCard {
	image := cleanImageURL(imageURL)
	if image == "" {
		return nil
	}
	return &types.InfoCard{
		Title:      name,
		Platform:   cardPlatform,
		Difficulty: cardDifficulty,
		Modes:      []string{},
		Keywords:   []string{},
		ImageURL:   image,
	}
}

// webCard describes a game from web text. platform overrides the generic
// platform when known.
func webCard(r *web.Result, fallbackTitle, platform string) *types.InfoCard {
	title := r.Title
	if title == "" {
		title = fallbackTitle
	}
	if platform == "" {
		platform = cardPlatform
	}
	text := []rune(strings.TrimSpace(r.Text))
	description := utils.Truncate(string(text), cardDescriptionMax)
	gameplay := ""
	if len(text) > cardDescriptionMax {
		gameplay = strings.TrimSpace(utils.Truncate(string(text[cardDescriptionMax:]), cardGameplayMax))
	}
	return &types.InfoCard{
		Title:       title,
		Platform:    platform,
		Description: description,
		Gameplay:    gameplay,
		Difficulty:  cardDifficulty,
		Modes:       []string{},
		Keywords:    []string{},
		ImageURL:    cleanImageURL(r.ImageURL),
	}
}

func wikiCard(a wiki.Answer) *types.InfoCard {
	return &types.InfoCard{
		Title:       a.MatchedPage,
		Platform:    cardPlatform,
		Description: utils.Truncate(a.Summary, cardDescriptionMax),
		Gameplay:    utils.Truncate(a.FullText, cardGameplayMax),
		Difficulty:  cardDifficulty,
		Modes:       []string{},
		Keywords:    []string{},
	}
}
