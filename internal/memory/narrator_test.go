package memory

import (
	"context"
	"iter"
	"testing"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

type fakeRunner struct {
	sessionService session.Service
	response       string
}

func (r *fakeRunner) Run(ctx context.Context, userID, sessionID string, msg *genai.Content, cfg agent.RunConfig) iter.Seq2[*session.Event, error] {
	return func(yield func(*session.Event, error) bool) {
		if _, err := r.sessionService.Get(ctx, &session.GetRequest{
			AppName:   narratorAppName,
			UserID:    userID,
			SessionID: sessionID,
		}); err != nil {
			yield(nil, err)
			return
		}

		event := session.NewEvent("narrator-test")
		event.Author = "profile_narrator"
		event.LLMResponse.Content = genai.NewContentFromText(r.response, genai.RoleModel)
		_ = yield(event, nil)
	}
}

func TestNarrateParsesJSON(t *testing.T) {
	sessionService := session.InMemoryService()
	n := &agentNarrator{
		runner: &fakeRunner{
			sessionService: sessionService,
			response:       "```json\n{\"report\":\"Sei uno stratega paziente.\",\"traits\":[\"riflessivo\",\"curioso\"]}\n```",
		},
		sessionService: sessionService,
	}

	got, err := n.Narrate(context.Background(), "digest")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "Sei uno stratega paziente.\n\n✨ riflessivo · curioso" {
		t.Fatalf("unexpected report %q", got)
	}
}

func TestNarrateEmptyResponse(t *testing.T) {
	sessionService := session.InMemoryService()
	n := &agentNarrator{
		runner:         &fakeRunner{sessionService: sessionService, response: "  "},
		sessionService: sessionService,
	}
	if _, err := n.Narrate(context.Background(), "digest"); err == nil {
		t.Fatalf("expected error for empty response")
	}
}

func TestParseNarrativeFallsBackToText(t *testing.T) {
	if got := parseNarrative("<think>hmm</think>Sei un **esploratore**."); got != "Sei un esploratore." {
		t.Fatalf("unexpected plain report %q", got)
	}
}

var _ Narrator = (*agentNarrator)(nil)
