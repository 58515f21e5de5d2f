package advisor

import (
	"log/slog"
)

// guard runs step and turns a panic into a logged miss so one failing
// lookup never aborts the turn.
func guard(name string, step func()) {
	defer func() {
		if err := recover(); err != nil {
			slog.Error("advisor step panic", "name", name, "error", err)
		}
	}()
	step()
}
