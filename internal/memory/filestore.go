package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/easeaico/nintendo-advisor/internal/types"
)

// DefaultFileName holds the memory of the default user.
const DefaultFileName = "user_memory.json"

var userIDRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// FileStore keeps one JSON document per user in a directory.
type FileStore struct {
	dir         string
	defaultUser string
	schema      *jsonschema.Resolved
}

// NewFileStore stores documents under dir. defaultUser maps to
// user_memory.json, every other user to user_<id>.json.
func NewFileStore(dir, defaultUser string) (*FileStore, error) {
	schema, err := resolveSchema()
	if err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, defaultUser: defaultUser, schema: schema}, nil
}

func (s *FileStore) path(userID string) (string, error) {
	if userID == "" || userID == s.defaultUser {
		return filepath.Join(s.dir, DefaultFileName), nil
	}
	if !userIDRe.MatchString(userID) || userID == "." || userID == ".." {
		return "", fmt.Errorf("%q: %w", userID, ErrInvalidUser)
	}
	return filepath.Join(s.dir, "user_"+userID+".json"), nil
}

// Load reads and validates the document of userID.
func (s *FileStore) Load(_ context.Context, userID string) (*types.UserMemory, error) {
	path, err := s.path(userID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read memory: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode memory: %w", err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid memory document: %w", err)
	}

	mem := &types.UserMemory{}
	if err := json.Unmarshal(data, mem); err != nil {
		return nil, fmt.Errorf("failed to decode memory: %w", err)
	}
	mem.Normalize()
	return mem, nil
}

// Save rewrites the whole document through a temp file and rename.
func (s *FileStore) Save(_ context.Context, userID string, mem *types.UserMemory) error {
	path, err := s.path(userID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create memory dir: %w", err)
	}
	data, err := json.MarshalIndent(mem, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode memory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".memory-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write memory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write memory: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace memory: %w", err)
	}
	return nil
}

// Clear removes the document; a missing document is not an error.
func (s *FileStore) Clear(_ context.Context, userID string) error {
	path, err := s.path(userID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear memory: %w", err)
	}
	return nil
}
