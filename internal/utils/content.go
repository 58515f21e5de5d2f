package utils

import (
	"strings"

	"google.golang.org/genai"
)

func ExtractContentText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// NormalizeLineBreaks turns escaped line breaks coming from model output or
// scraped text into real ones.
func NormalizeLineBreaks(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\\r\\n", "\n")
	text = strings.ReplaceAll(text, "\\n", "\n")
	text = strings.ReplaceAll(text, "\\\"", "\"")
	return text
}
