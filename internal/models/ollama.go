package models

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/adk/model"
)

// DefaultOllamaURL is the local Ollama server.
const DefaultOllamaURL = "http://localhost:11434"

// PreferredModels are tried in order when no model is configured.
var PreferredModels = []string{"qwen3:8b", "qwen3", "gpt-oss:120b", "gpt-oss"}

// familyMarkers pick a model of a known family when no preferred name matches.
var familyMarkers = []string{"qwen3", "gpt-oss"}

// NewOllamaModel talks to Ollama through its OpenAI compatible API. Requests
// are never retried and fail after timeout.
func NewOllamaModel(ctx context.Context, baseURL, modelName string, timeout time.Duration) (model.LLM, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	return NewOpenAIModel(ctx, modelName, apiBase(baseURL), "ollama", timeout)
}

// DiscoverModel lists the models installed on the Ollama server and selects
// one with SelectModel.
func DiscoverModel(ctx context.Context, baseURL string, preferred []string, timeout time.Duration) (string, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	client := openai.NewClient(
		option.WithBaseURL(apiBase(baseURL)),
		option.WithAPIKey("ollama"),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	)

	page, err := client.Models.List(ctx)
	if err != nil {
		if IsConnectionError(err) {
			return "", fmt.Errorf("failed to list models: %w", ErrConnection)
		}
		return "", fmt.Errorf("failed to list models: %w", err)
	}

	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	name, ok := SelectModel(names, preferred)
	if !ok {
		return "", fmt.Errorf("no models installed at %s", baseURL)
	}
	slog.Info("selected generation model", "model", name, "available", len(names))
	return name, nil
}

// SelectModel returns the first preferred name that matches an available
// model (substring either way), then any model of a known family, then the
// first available one.
func SelectModel(available, preferred []string) (string, bool) {
	if len(available) == 0 {
		return "", false
	}
	for _, want := range preferred {
		want = strings.ToLower(want)
		for _, name := range available {
			lower := strings.ToLower(name)
			if strings.Contains(lower, want) || strings.Contains(want, lower) {
				return name, true
			}
		}
	}
	for _, name := range available {
		for _, marker := range familyMarkers {
			if strings.Contains(strings.ToLower(name), marker) {
				return name, true
			}
		}
	}
	return available[0], true
}

// apiBase returns the OpenAI compatible root of an Ollama server.
func apiBase(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/v1/"
}
