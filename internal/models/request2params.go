package models

import (
	"github.com/openai/openai-go/v3"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/nintendo-advisor/internal/utils"
)

// buildOpenAIParams converts ADK request to OpenAI parameters
func buildOpenAIParams(req *model.LLMRequest, model string) *openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: req.Model,
	}
	if req.Model == "" {
		params.Model = model
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.Config != nil && req.Config.SystemInstruction != nil {
		if text := utils.ExtractContentText(req.Config.SystemInstruction); text != "" {
			messages = append(messages, openai.SystemMessage(text))
		}
	}
	messages = append(messages, convertContentsToMessages(req.Contents)...)
	if len(messages) > 0 {
		params.Messages = messages
	}

	if req.Config != nil {
		if req.Config.Temperature != nil {
			params.Temperature = openai.Float(float64(*req.Config.Temperature))
		}
		if req.Config.MaxOutputTokens > 0 {
			params.MaxTokens = openai.Int(int64(req.Config.MaxOutputTokens))
		}
		if req.Config.TopP != nil {
			params.TopP = openai.Float(float64(*req.Config.TopP))
		}
		if req.Config.FrequencyPenalty != nil {
			params.FrequencyPenalty = openai.Float(float64(*req.Config.FrequencyPenalty))
		}
		if len(req.Config.StopSequences) > 0 {
			params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: req.Config.StopSequences}
		}
	}

	return &params
}

// convertContentsToMessages converts genai.Content to OpenAI messages
func convertContentsToMessages(contents []*genai.Content) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	for _, content := range contents {
		if content == nil {
			continue
		}
		textContent := utils.ExtractContentText(content)

		switch content.Role {
		case "user":
			messages = append(messages, openai.UserMessage(textContent))
		case "model", "assistant":
			messages = append(messages, openai.AssistantMessage(textContent))
		case "system":
			messages = append(messages, openai.SystemMessage(textContent))
		default:
			messages = append(messages, openai.UserMessage(textContent))
		}
	}

	return messages
}
