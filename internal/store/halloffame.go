package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"hn-gems/internal/model"
)

// HallOfFameByPostID returns the hall-of-fame entry for a post, or nil.
func (s *Store) HallOfFameByPostID(ctx context.Context, postID uint) (*model.HallOfFame, error) {
	var h model.HallOfFame
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// CreateHallOfFame inserts a new entry. The post_id unique index makes
// a concurrent double-create surface as gorm.ErrDuplicatedKey.
func (s *Store) CreateHallOfFame(ctx context.Context, h *model.HallOfFame) error {
	return s.db.WithContext(ctx).Create(h).Error
}

// SaveHallOfFame writes back a mutated entry.
func (s *Store) SaveHallOfFame(ctx context.Context, h *model.HallOfFame) error {
	return s.db.WithContext(ctx).Save(h).Error
}

// FameFilter narrows the hall-of-fame listing.
type FameFilter struct {
	VerifiedOnly bool
	Since        time.Time
	Limit        int
}

// HallOfFameEntries lists entries, most recent success first.
func (s *Store) HallOfFameEntries(ctx context.Context, f FameFilter) ([]model.HallOfFame, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	q := s.db.WithContext(ctx).Model(&model.HallOfFame{})
	if f.VerifiedOnly {
		q = q.Where("success_verified = ?", true)
	}
	if !f.Since.IsZero() {
		q = q.Where("success_at >= ?", f.Since)
	}
	var entries []model.HallOfFame
	err := q.Order("success_at DESC").Limit(f.Limit).Find(&entries).Error
	return entries, err
}
