package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hn-gems/internal/model"
)

// UpsertUser creates or refreshes a user row from freshly fetched
// profile data, then recomputes the aggregate counts from the posts
// and hall_of_fame tables. Counting instead of incrementing keeps the
// aggregates drift-free across races and rescans.
func (s *Store) UpsertUser(ctx context.Context, username string, karma int, joinedAt *time.Time, checkedAt time.Time) (*model.User, error) {
	u := model.User{
		Username:      username,
		Karma:         karma,
		HNCreatedAt:   joinedAt,
		LastCheckedAt: &checkedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"karma", "hn_created_at", "last_checked_at", "updated_at",
		}),
	}).Create(&u).Error
	if err != nil {
		return nil, err
	}
	return s.RecomputeUserStats(ctx, username)
}

// RecomputeUserStats refreshes a user's aggregate counts from queries.
func (s *Store) RecomputeUserStats(ctx context.Context, username string) (*model.User, error) {
	db := s.db.WithContext(ctx)

	var u model.User
	if err := db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var total, gems, fame int64
	if err := db.Model(&model.Post{}).Where("author = ?", username).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Post{}).Where("author = ? AND is_hidden_gem = ?", username, true).Count(&gems).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.HallOfFame{}).
		Joins("JOIN posts ON posts.id = hall_of_fame.post_id").
		Where("posts.author = ?", username).
		Count(&fame).Error; err != nil {
		return nil, err
	}

	u.TotalPosts = int(total)
	u.HiddenGemsCount = int(gems)
	u.HallOfFameCount = int(fame)
	if err := db.Save(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUser returns a user by name, or nil if never seen.
func (s *Store) FindUser(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
