package wiki

import (
	"context"
	"log/slog"

	"github.com/easeaico/nintendo-advisor/internal/utils"
)

const maxSecondaryChars = 2000

// Multi answers from a primary edition and enriches the result with a
// secondary one. With a nil Secondary it behaves like Primary.
type Multi struct {
	Primary   *Client
	Secondary *Client
}

// Answer prefers the primary result and appends up to 2000 characters of the
// secondary page when both editions match.
func (m Multi) Answer(ctx context.Context, question string) (Answer, error) {
	if m.Secondary == nil {
		return m.Primary.Answer(ctx, question)
	}

	primary, perr := m.Primary.Answer(ctx, question)
	secondary, serr := m.Secondary.Answer(ctx, question)

	switch {
	case perr == nil && serr == nil:
		primary.Language = m.Primary.Lang() + "+" + m.Secondary.Lang()
		if secondary.FullText != "" {
			primary.FullText += "\n\n--- INFORMAZIONI AGGIUNTIVE DA WIKIPEDIA (" + m.Secondary.Lang() + ") ---\n\n" +
				utils.Truncate(secondary.FullText, maxSecondaryChars)
			if secondary.Summary != "" {
				primary.Summary += "\n\n(Informazioni aggiuntive disponibili anche in " + m.Secondary.Lang() + ")"
			}
		}
		return primary, nil
	case perr == nil:
		return primary, nil
	case serr == nil:
		return secondary, nil
	default:
		slog.Debug("wiki miss in both editions", "question", question, "error", perr.Error())
		return Answer{}, perr
	}
}
