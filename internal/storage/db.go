// Package storage persists advisor state in PostgreSQL through gorm.
package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store holds the DB handle and repositories.
type Store struct {
	db       *gorm.DB
	Memories *MemoryStore
}

// NewStore opens the database, checks connectivity and migrates the schema.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&userMemoryModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{
		db:       db,
		Memories: NewMemoryStore(db),
	}, nil
}

func (s *Store) Close() {
	if s.db == nil {
		return
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
