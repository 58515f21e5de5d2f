package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/easeaico/nintendo-advisor/internal/memory"
	"github.com/easeaico/nintendo-advisor/internal/types"
)

// userMemoryModel maps to the user_memories table; the whole memory is one
// jsonb document per user.
type userMemoryModel struct {
	UserID    string `gorm:"primaryKey;size:64"`
	Document  string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (userMemoryModel) TableName() string {
	return "user_memories"
}

// MemoryStore implements memory.Store on PostgreSQL.
type MemoryStore struct {
	db *gorm.DB
}

var _ memory.Store = (*MemoryStore)(nil)

func NewMemoryStore(db *gorm.DB) *MemoryStore {
	return &MemoryStore{db: db}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) (*types.UserMemory, error) {
	var record userMemoryModel
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, memory.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user memory: %w", err)
	}
	return memoryFromModel(record)
}

func (s *MemoryStore) Save(ctx context.Context, userID string, mem *types.UserMemory) error {
	record, err := memoryToModel(userID, mem)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to upsert user memory: %w", err)
	}
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userMemoryModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete user memory: %w", err)
	}
	return nil
}

func memoryToModel(userID string, mem *types.UserMemory) (userMemoryModel, error) {
	if userID == "" {
		return userMemoryModel{}, fmt.Errorf("user id: %w", memory.ErrInvalidUser)
	}
	mem.Normalize()
	doc, err := json.Marshal(mem)
	if err != nil {
		return userMemoryModel{}, fmt.Errorf("failed to encode user memory: %w", err)
	}
	return userMemoryModel{UserID: userID, Document: string(doc), UpdatedAt: mem.LastUpdated}, nil
}

func memoryFromModel(record userMemoryModel) (*types.UserMemory, error) {
	mem := &types.UserMemory{}
	if err := json.Unmarshal([]byte(record.Document), mem); err != nil {
		return nil, fmt.Errorf("failed to decode user memory: %w", err)
	}
	mem.Normalize()
	return mem, nil
}
