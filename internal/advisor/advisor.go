package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/generation"
	"github.com/easeaico/nintendo-advisor/internal/intent"
	"github.com/easeaico/nintendo-advisor/internal/memory"
	"github.com/easeaico/nintendo-advisor/internal/types"
)

// Generator produces the reply text for an assembled turn.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) string
}

// Advisor handles chat turns.
type Advisor struct {
	assembler *Assembler
	generator Generator
	memory    *memory.Service
}

// New creates an Advisor.
func New(assembler *Assembler, generator Generator, mem *memory.Service) *Advisor {
	return &Advisor{
		assembler: assembler,
		generator: generator,
		memory:    mem,
	}
}

// Chat answers the last user message of history for userID. It never fails:
// every problem ends in a canned reply.
func (a *Advisor) Chat(ctx context.Context, userID string, history []types.ChatMessage) (resp types.ChatResponse) {
	defer func() {
		if err := recover(); err != nil {
			slog.Error("chat turn panic", "user_id", userID, "error", err)
			resp = types.ChatResponse{Reply: ErrorFallback}
		}
	}()

	validated := ValidateHistory(history)
	message := types.LastUserMessage(validated)
	in := intent.Classify(message)
	slog.Info("chat turn", "user_id", userID, "intent", string(in), "history", len(validated))

	wantsSave := memory.DetectSaveIntent(message)
	if wantsSave && !intent.HasRoutingKeyword(message) {
		reply := a.saveOnly(ctx, userID, message)
		a.remember(ctx, userID, message, reply, nil, nil)
		return types.ChatResponse{Reply: reply}
	}

	res := a.assembler.Resolve(ctx, userID, validated, message, in)

	reply := a.generator.Generate(ctx, generation.Request{
		History: validated,
		Context: res.Context,
		Fast:    in == types.IntentSmallTalk,
	})
	if strings.TrimSpace(reply) == "" {
		slog.Warn("empty reply, using fallback", "intent", string(in))
		reply = fallbackReply(in)
	}

	if wantsSave {
		reply = a.saveAfterTurn(ctx, userID, message, reply, res)
	}

	a.remember(ctx, userID, message, reply, res.Info, res.Recommended)
	return types.ChatResponse{
		Reply:           reply,
		RecommendedGame: res.Recommended,
		Info:            res.Info,
	}
}

func fallbackReply(in types.Intent) string {
	switch in {
	case types.IntentSmallTalk:
		return SmallTalkFallback
	case types.IntentRecommendation:
		return RecommendationFallback
	case types.IntentInfo:
		return InfoFallback
	default:
		return GenericFallback
	}
}

// saveOnly handles a message that only asks to store a favorite. The
// generator is not involved.
func (a *Advisor) saveOnly(ctx context.Context, userID, message string) string {
	title := a.saveCandidate(ctx, userID, message)
	if title == "" {
		return nothingToSave
	}
	if a.memory.SaveToFavorites(ctx, userID, title, nil) {
		return fmt.Sprintf(savedReplyFormat, title)
	}
	return fmt.Sprintf(alreadySavedFormat, title)
}

// saveAfterTurn stores the game discussed in this turn and puts a notice in
// front of reply.
func (a *Advisor) saveAfterTurn(ctx context.Context, userID, message, reply string, res Resolution) string {
	var (
		title string
		info  *types.InfoCard
	)
	switch {
	case res.Info != nil && res.Info.Title != "":
		title, info = res.Info.Title, res.Info
	case res.Recommended != nil && res.Recommended.Title != "":
		title = res.Recommended.Title
		info = &types.InfoCard{Title: title, Platform: res.Recommended.Platform}
	default:
		title = a.saveCandidate(ctx, userID, message)
	}

	notice := nothingToSaveAfter
	if title != "" {
		switch {
		case a.memory.SaveToFavorites(ctx, userID, title, info):
			notice = fmt.Sprintf(savedReplyFormat, title)
		case a.memory.Load(ctx, userID).HasFavorite(title):
			notice = fmt.Sprintf(alreadySavedFormat, title)
		}
	}
	return prependNotice(notice, reply)
}

// saveCandidate is the first game named in message, else the last game the
// user was told about.
func (a *Advisor) saveCandidate(ctx context.Context, userID, message string) string {
	if names := memory.ExtractGameNames(message); len(names) > 0 {
		return names[0]
	}
	return a.memory.LastProvidedTitle(ctx, userID)
}

func prependNotice(notice, reply string) string {
	if reply == "" || strings.Contains(strings.ToLower(reply), failureMarker) {
		return notice
	}
	return notice + "\n\n" + reply
}

func (a *Advisor) remember(ctx context.Context, userID, message, reply string, info *types.InfoCard, recommended *types.RecommendedGame) {
	if message == "" {
		return
	}
	err := a.memory.UpdateFromTurn(ctx, userID, memory.TurnUpdate{
		UserMessage: message,
		Reply:       reply,
		Info:        info,
		Recommended: recommended,
	})
	if err != nil {
		slog.Warn("failed to update memory", "user_id", userID, "error", err.Error())
	}
}
