// Package store is the typed persistence layer over a single sqlite
// database. Concurrency safety across overlapping jobs leans on the
// store's unique constraints: insert races are surfaced as
// gorm.ErrDuplicatedKey and swallowed by callers.
package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hn-gems/internal/model"
)

// Store wraps the database handle and exposes repository methods.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// migrates the schema. Pass "file::memory:?cache=shared" for tests.
func Open(path string) (*Store, error) {
	if !strings.HasPrefix(path, "file:") && !strings.HasPrefix(path, ":memory:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&model.Post{},
		&model.User{},
		&model.QualityScore{},
		&model.HallOfFame{},
	); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

// IsDuplicateKey reports whether err is a unique-constraint violation,
// the expected outcome of two paths inserting the same hn_id.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
