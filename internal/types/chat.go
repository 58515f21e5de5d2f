package types

// ChatMessage is one role-tagged message of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatResponse is the result of a single chat turn.
type ChatResponse struct {
	Reply           string           `json:"reply"`
	RecommendedGame *RecommendedGame `json:"recommended_game,omitempty"`
	Info            *InfoCard        `json:"info,omitempty"`
}

// LastUserMessage returns the content of the most recent user message.
func LastUserMessage(history []ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i].Content
		}
	}
	return ""
}
