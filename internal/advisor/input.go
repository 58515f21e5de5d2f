package advisor

import (
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/types"
)

// SanitizeInput replaces messages that try to rewrite the advisor's
// instructions with a harmless prompt.
func SanitizeInput(text string) string {
	lower := strings.ToLower(text)
	for _, phrase := range injectionPhrases {
		if strings.Contains(lower, phrase) {
			return injectionReplacement
		}
	}
	return text
}

// ValidateHistory trims every message, drops empty ones, maps unknown roles
// to user and sanitizes user content.
func ValidateHistory(history []types.ChatMessage) []types.ChatMessage {
	out := make([]types.ChatMessage, 0, len(history))
	for _, msg := range history {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		role := strings.ToLower(strings.TrimSpace(msg.Role))
		switch role {
		case types.RoleUser, types.RoleAssistant, types.RoleSystem:
		default:
			role = types.RoleUser
		}
		if role == types.RoleUser {
			content = SanitizeInput(content)
		}
		out = append(out, types.ChatMessage{Role: role, Content: content})
	}
	return out
}
