package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	thinkBlock   = regexp.MustCompile(`(?s)<think>.*?</think>`)
	speakerLabel = regexp.MustCompile(`^(?i)(assistant|assistente)\s*:\s*`)
)

// ParseModelReply cleans raw model output into the reply shown to the user.
// Reasoning blocks, a leading speaker label and markdown are removed.
func ParseModelReply(raw string) (string, error) {
	clean := thinkBlock.ReplaceAllString(raw, "")
	// an unterminated reasoning block swallows the whole output
	if idx := strings.Index(clean, "<think>"); idx >= 0 {
		clean = clean[:idx]
	}
	clean = NormalizeLineBreaks(strings.TrimSpace(clean))
	clean = speakerLabel.ReplaceAllString(clean, "")
	clean = StripMarkdown(clean)
	if clean == "" {
		return "", fmt.Errorf("empty reply")
	}
	return clean, nil
}
