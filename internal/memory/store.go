// Package memory keeps the per-user conversational memory: preferences,
// mentioned and favorite games, and a short window of past exchanges.
package memory

import (
	"context"
	"errors"

	"github.com/easeaico/nintendo-advisor/internal/types"
)

var (
	// ErrNotFound reports that no memory was stored for a user.
	ErrNotFound = errors.New("memory: not found")
	// ErrInvalidUser reports a user id that cannot key a memory document.
	ErrInvalidUser = errors.New("memory: invalid user id")
)

// Store persists one memory document per user. Save always rewrites the
// whole document.
type Store interface {
	Load(ctx context.Context, userID string) (*types.UserMemory, error)
	Save(ctx context.Context, userID string, mem *types.UserMemory) error
	Clear(ctx context.Context, userID string) error
}
