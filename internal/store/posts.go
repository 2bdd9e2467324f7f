package store

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"hn-gems/internal/model"
)

// FindPostByHNID returns the post with the given HN id, or nil if it
// has not been discovered yet.
func (s *Store) FindPostByHNID(ctx context.Context, hnID int) (*model.Post, error) {
	var p model.Post
	err := s.db.WithContext(ctx).Where("hn_id = ?", hnID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostExists is a cheaper existence probe than FindPostByHNID.
func (s *Store) PostExists(ctx context.Context, hnID int) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Where("hn_id = ?", hnID).Count(&count).Error
	return count > 0, err
}

// CreatePostWithScore persists a post and its quality score in one
// item-scoped transaction. A unique-constraint violation (concurrent
// insert of the same hn_id) is returned as gorm.ErrDuplicatedKey for
// the caller to swallow.
func (s *Store) CreatePostWithScore(ctx context.Context, post *model.Post, score *model.QualityScore) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		score.PostID = post.ID
		return tx.Create(score).Error
	})
}

// SavePost writes back mutated post fields.
func (s *Store) SavePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Save(post).Error
}

// MarkPostSpam overrides a post's classification after a duplicate hit:
// spam on, gem off, regardless of what the scorer said.
func (s *Store) MarkPostSpam(ctx context.Context, hnID int) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("hn_id = ?", hnID).
		Updates(map[string]any{"is_spam": true, "is_hidden_gem": false}).Error
}

// RefreshPostPoll records the monitor's latest observation of a post.
func (s *Store) RefreshPostPoll(ctx context.Context, hnID, currentScore, descendants int, checkedAt time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("hn_id = ?", hnID).
		Updates(map[string]any{
			"current_score":   currentScore,
			"descendants":     descendants,
			"last_checked_at": checkedAt,
		}).Error
}

// DuplicateCandidates returns recently discovered posts that could be
// duplicates of the given one: same author, or same URL host, observed
// since the cutoff. The post itself is excluded.
func (s *Store) DuplicateCandidates(ctx context.Context, author, rawURL string, since time.Time, excludeHNID int) ([]model.Post, error) {
	q := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("hn_id <> ?", excludeHNID).
		Where("created_at >= ?", since)

	host := urlHost(rawURL)
	switch {
	case author != "" && host != "":
		q = q.Where("author = ? OR url LIKE ?", author, "%"+host+"%")
	case author != "":
		q = q.Where("author = ?", author)
	case host != "":
		q = q.Where("url LIKE ?", "%"+host+"%")
	default:
		return nil, nil
	}

	var posts []model.Post
	if err := q.Order("created_at DESC").Limit(200).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GemFilter narrows the current-gems query.
type GemFilter struct {
	KarmaCeiling int
	MinScore     float64
	Since        time.Time
	Limit        int
}

// Gems returns current hidden gems ordered by overall interest.
func (s *Store) Gems(ctx context.Context, f GemFilter) ([]model.Post, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	var posts []model.Post
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Joins("JOIN quality_scores ON quality_scores.post_id = posts.id").
		Where("posts.is_hidden_gem = ?", true).
		Where("posts.is_spam = ?", false).
		Where("posts.author_karma < ?", f.KarmaCeiling).
		Where("posts.created_at >= ?", f.Since).
		Where("quality_scores.overall_interest >= ?", f.MinScore).
		Order("quality_scores.overall_interest DESC").
		Limit(f.Limit).
		Find(&posts).Error
	return posts, err
}

// GemsToMonitor returns every post still eligible for success tracking.
func (s *Store) GemsToMonitor(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	err := s.db.WithContext(ctx).
		Where("is_hidden_gem = ? AND is_spam = ?", true, false).
		Order("hn_id").
		Find(&posts).Error
	return posts, err
}

// ScoreForPost returns the quality score row for a post id, or nil.
func (s *Store) ScoreForPost(ctx context.Context, postID uint) (*model.QualityScore, error) {
	var qs model.QualityScore
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).First(&qs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &qs, nil
}

// ReplaceScore overwrites a post's quality score wholesale; rescoring
// never patches individual dimensions.
func (s *Store) ReplaceScore(ctx context.Context, score *model.QualityScore) error {
	existing, err := s.ScoreForPost(ctx, score.PostID)
	if err != nil {
		return err
	}
	if existing != nil {
		score.ID = existing.ID
	}
	return s.db.WithContext(ctx).Save(score).Error
}

func urlHost(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
