package prompt

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/easeaico/nintendo-advisor/internal/types"
)

// BuildContext contains all inputs for prompt assembly.
type BuildContext struct {
	Context string
	History []types.ChatMessage
}

// Builder turns a conversation and its context into generation contents.
type Builder struct {
	historyLimit int
}

// NewBuilder creates a prompt Builder keeping at most historyLimit messages.
func NewBuilder(historyLimit int) *Builder {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &Builder{historyLimit: historyLimit}
}

// Build returns the system prompt followed by the role-tagged history.
// Messages with unknown roles or empty content are dropped.
func (b *Builder) Build(ctx BuildContext) ([]*genai.Content, error) {
	history := ctx.History
	if len(history) > b.historyLimit {
		history = history[len(history)-b.historyLimit:]
	}

	contents := []*genai.Content{genai.NewContentFromText(SystemPrompt(ctx.Context), "system")}
	for _, msg := range history {
		text := strings.TrimSpace(msg.Content)
		if text == "" {
			continue
		}
		switch msg.Role {
		case types.RoleUser:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		case types.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleModel))
		}
	}
	if len(contents) == 1 {
		return nil, fmt.Errorf("conversation has no usable messages")
	}
	return contents, nil
}
