// Package generation sends assembled conversations to the language model and
// normalizes what comes back.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/nintendo-advisor/internal/models"
	"github.com/easeaico/nintendo-advisor/internal/prompt"
	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/utils"
)

// Replies used when the backend fails. Both are shown to the user verbatim.
const (
	ConnectionFailureReply = "Errore: Ollama non è in esecuzione. Avvia Ollama e assicurati che il modello sia installato."
	GenericFailureReply    = "Errore nella comunicazione con Ollama."
)

// DefaultContextMaxChars bounds the context blob placed in the system prompt.
const DefaultContextMaxChars = 12000

// Options are the sampling parameters of one generation call.
type Options struct {
	Temperature      float32
	TopP             float32
	MaxTokens        int32
	FrequencyPenalty float32
}

var (
	NormalOptions = Options{Temperature: 0.7, TopP: 0.9, MaxTokens: 200, FrequencyPenalty: 0.1}
	FastOptions   = Options{Temperature: 0.6, TopP: 0.85, MaxTokens: 120, FrequencyPenalty: 0.1}
	// RetryOptions apply to the single retry after an empty reply.
	RetryOptions = Options{Temperature: 0.9, TopP: 0.95, MaxTokens: 300}
)

func (o Options) config() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(o.Temperature),
		TopP:            genai.Ptr(o.TopP),
		MaxOutputTokens: o.MaxTokens,
	}
	if o.FrequencyPenalty > 0 {
		cfg.FrequencyPenalty = genai.Ptr(o.FrequencyPenalty)
	}
	return cfg
}

// Request is one generation turn.
type Request struct {
	History []types.ChatMessage
	Context string
	// Fast selects the short, cheaper sampling profile used for small talk.
	Fast bool
}

// Gateway wraps a model.LLM with prompt assembly, retry and cleanup.
type Gateway struct {
	llm        model.LLM
	builder    *prompt.Builder
	contextMax int
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithContextLimit bounds the context blob to n characters.
func WithContextLimit(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.contextMax = n
		}
	}
}

// NewGateway creates a Gateway around llm.
func NewGateway(llm model.LLM, builder *prompt.Builder, opts ...Option) *Gateway {
	if builder == nil {
		builder = prompt.NewBuilder(0)
	}
	g := &Gateway{
		llm:        llm,
		builder:    builder,
		contextMax: DefaultContextMaxChars,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the cleaned reply for req. An empty string means the model
// produced nothing usable even after one retry; backend failures come back as
// ConnectionFailureReply or GenericFailureReply.
func (g *Gateway) Generate(ctx context.Context, req Request) string {
	contents, err := g.builder.Build(prompt.BuildContext{
		Context: prompt.Bound(req.Context, g.contextMax),
		History: req.History,
	})
	if err != nil {
		slog.Warn("failed to build prompt", "error", err.Error())
		return ""
	}

	opts := NormalOptions
	if req.Fast {
		opts = FastOptions
	}

	raw, err := g.generate(ctx, contents, opts)
	if err != nil {
		return failureReply(err)
	}
	if reply, err := utils.ParseModelReply(raw); err == nil {
		return reply
	}

	slog.Warn("empty generation, retrying with relaxed sampling", "model", g.llm.Name())
	raw, err = g.generate(ctx, contents, RetryOptions)
	if err != nil {
		return failureReply(err)
	}
	reply, err := utils.ParseModelReply(raw)
	if err != nil {
		slog.Warn("empty generation after retry", "model", g.llm.Name())
		return ""
	}
	return reply
}

func (g *Gateway) generate(ctx context.Context, contents []*genai.Content, opts Options) (string, error) {
	cfg := opts.config()
	if len(contents) > 0 && contents[0].Role == types.RoleSystem {
		cfg.SystemInstruction = contents[0]
		contents = contents[1:]
	}
	req := &model.LLMRequest{
		Model:    g.llm.Name(),
		Contents: contents,
		Config:   cfg,
	}

	var sb strings.Builder
	for resp, err := range g.llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", err
		}
		if resp == nil {
			continue
		}
		if resp.ErrorCode != "" {
			return "", fmt.Errorf("model returned %s: %s", resp.ErrorCode, resp.ErrorMessage)
		}
		sb.WriteString(utils.ExtractContentText(resp.Content))
	}
	return sb.String(), nil
}

func failureReply(err error) string {
	if models.IsConnectionError(err) || errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("generation backend unreachable", "error", err.Error())
		return ConnectionFailureReply
	}
	slog.Warn("generation failed", "error", err.Error())
	return GenericFailureReply
}
