package models

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when the gemini backend has no model configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// NewGeminiModel creates a Gemini backed model.LLM.
func NewGeminiModel(ctx context.Context, apiKey, modelName string) (model.LLM, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	llm, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini model: %w", err)
	}
	return llm, nil
}
