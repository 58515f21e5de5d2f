// Package models adapts generation backends to the ADK model.LLM interface.
package models

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

type openaiModel struct {
	client             *openai.Client
	name               string
	versionHeaderValue string
}

// NewOpenAIModel creates a client for any OpenAI compatible endpoint. An
// empty baseURL targets the OpenAI API.
func NewOpenAIModel(ctx context.Context, modelName, baseURL, apiKey string, timeout time.Duration) (model.LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	client := openai.NewClient(opts...)

	headerValue := fmt.Sprintf("nintendo-advisor/%s go/%s",
		"1.0.0", strings.TrimPrefix(runtime.Version(), "go"))

	return &openaiModel{
		name:               modelName,
		client:             &client,
		versionHeaderValue: headerValue,
	}, nil
}

func (m *openaiModel) Name() string {
	return m.name
}

// GenerateContent yields a single complete response; stream is ignored.
func (m *openaiModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	m.maybeAppendUserContent(req)

	if req.Config == nil {
		req.Config = &genai.GenerateContentConfig{}
	}
	if req.Config.HTTPOptions == nil {
		req.Config.HTTPOptions = &genai.HTTPOptions{}
	}
	if req.Config.HTTPOptions.Headers == nil {
		req.Config.HTTPOptions.Headers = make(http.Header)
	}
	m.addHeaders(req.Config.HTTPOptions.Headers)

	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

func (m *openaiModel) addHeaders(headers http.Header) {
	headers.Set("user-agent", m.versionHeaderValue)
}

func (m *openaiModel) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	params := buildOpenAIParams(req, m.name)

	resp, err := m.client.Chat.Completions.New(ctx, *params,
		option.WithHeader("User-Agent", req.Config.HTTPOptions.Headers.Get("user-agent")))
	if err != nil {
		slog.Error("failed to call llm API", "model", m.name, "error", err.Error())
		return nil, fmt.Errorf("failed to call chat completions: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return &model.LLMResponse{TurnComplete: true}, nil
	}

	message := resp.Choices[0].Message
	content := &genai.Content{
		Role:  "model",
		Parts: []*genai.Part{},
	}
	if message.Content != "" {
		content.Parts = append(content.Parts, &genai.Part{Text: message.Content})
	}

	return &model.LLMResponse{
		Content:      content,
		TurnComplete: true,
	}, nil
}

func (m *openaiModel) maybeAppendUserContent(req *model.LLMRequest) {
	if len(req.Contents) == 0 {
		req.Contents = append(req.Contents, genai.NewContentFromText("Handle the requests as specified in the System Instruction.", genai.RoleUser))
	}

	if last := req.Contents[len(req.Contents)-1]; last != nil && last.Role != "user" {
		req.Contents = append(req.Contents, genai.NewContentFromText("Continue processing previous requests as instructed.", genai.RoleUser))
	}
}
