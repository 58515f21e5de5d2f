package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync/atomic"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/easeaico/nintendo-advisor/internal/utils"
)

const (
	narratorAppName = "nintendo_advisor_profile"
	narratorUserID  = "profile_narrator"
)

// narratorInstruction asks the model for a JSON object only.
const narratorInstruction = `Sei un esperto di videogiochi Nintendo che scrive profili dei giocatori.
Ricevi un riassunto delle preferenze di un utente e lo trasformi in un breve ritratto.

Requisiti:
- Scrivi in italiano, in seconda persona, con tono caloroso e giocoso
- Resta tra 80 e 150 parole
- Usa solo le informazioni ricevute, senza inventare giochi o preferenze
- Restituisci un oggetto JSON valido con le chiavi "report" e "traits"
- Non aggiungere testo fuori dall'oggetto JSON`

// Narrator rewrites a profile digest into prose.
type Narrator interface {
	Narrate(ctx context.Context, digest string) (string, error)
}

type narratorRunner interface {
	Run(ctx context.Context, userID, sessionID string, msg *genai.Content, cfg agent.RunConfig) iter.Seq2[*session.Event, error]
}

// agentNarrator runs a single-turn ADK agent per report.
type agentNarrator struct {
	runner         narratorRunner
	sessionService session.Service
	counter        uint64
}

// NewNarrator builds a narrator agent on top of llm.
func NewNarrator(llm model.LLM) (Narrator, error) {
	llmAgent, err := llmagent.New(llmagent.Config{
		Name:            "profile_narrator",
		Description:     "Ritratto del profilo da giocatore",
		Model:           llm,
		Instruction:     narratorInstruction,
		OutputSchema:    narrativeOutputSchema(),
		IncludeContents: llmagent.IncludeContentsNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create narrator agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        narratorAppName,
		Agent:          llmAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create narrator runner: %w", err)
	}
	return &agentNarrator{runner: r, sessionService: sessionService}, nil
}

func (n *agentNarrator) Narrate(ctx context.Context, digest string) (string, error) {
	sessionID := fmt.Sprintf("report-%d", atomic.AddUint64(&n.counter, 1))
	if _, err := n.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   narratorAppName,
		UserID:    narratorUserID,
		SessionID: sessionID,
	}); err != nil {
		return "", fmt.Errorf("failed to create narrator session: %w", err)
	}
	defer func() {
		if err := n.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   narratorAppName,
			UserID:    narratorUserID,
			SessionID: sessionID,
		}); err != nil {
			slog.Debug("failed to delete narrator session", "session_id", sessionID, "error", err.Error())
		}
	}()

	events := n.runner.Run(ctx, narratorUserID, sessionID, genai.NewContentFromText(digest, genai.RoleUser), agent.RunConfig{
		StreamingMode: agent.StreamingModeNone,
	})

	var last string
	for event, err := range events {
		if err != nil {
			return "", err
		}
		if event == nil || event.Content == nil || event.Author == "user" {
			continue
		}
		text := strings.TrimSpace(utils.ExtractContentText(event.Content))
		if text == "" {
			continue
		}
		last = text
		if event.IsFinalResponse() {
			break
		}
	}
	if last == "" {
		return "", fmt.Errorf("empty narrator response")
	}
	return parseNarrative(last), nil
}

func narrativeOutputSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"report": {Type: genai.TypeString},
			"traits": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"report"},
	}
}

type narrative struct {
	Report string   `json:"report"`
	Traits []string `json:"traits"`
}

// parseNarrative extracts the report from the model output. Output that is
// not the expected JSON object is used as plain text.
func parseNarrative(raw string) string {
	clean := strings.TrimSpace(raw)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start < 0 || end <= start {
		return stripReply(clean)
	}
	var n narrative
	if err := json.Unmarshal([]byte(clean[start:end+1]), &n); err != nil || strings.TrimSpace(n.Report) == "" {
		return stripReply(clean)
	}
	report := strings.TrimSpace(n.Report)
	if len(n.Traits) > 0 {
		report += "\n\n✨ " + strings.Join(n.Traits, " · ")
	}
	return report
}

func stripReply(raw string) string {
	if text, err := utils.ParseModelReply(raw); err == nil {
		return text
	}
	return raw
}
