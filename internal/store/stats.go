package store

import (
	"context"
	"time"

	"hn-gems/internal/model"
)

// Stats is the aggregate view exposed to the presentation layer.
type Stats struct {
	TotalPosts      int64   `json:"total_posts"`
	HiddenGems      int64   `json:"hidden_gems"`
	SpamPosts       int64   `json:"spam_posts"`
	HallOfFameCount int64   `json:"hall_of_fame_count"`
	VerifiedFame    int64   `json:"verified_successes"`
	SuccessRate     float64 `json:"success_rate"`

	AvgInterestScore  float64 `json:"avg_interest_score"`
	AvgSpamLikelihood float64 `json:"avg_spam_likelihood"`
	AvgLeadTimeHours  float64 `json:"avg_lead_time_hours"`

	RecentPosts24h int64 `json:"recent_posts_24h"`
	RecentGems24h  int64 `json:"recent_gems_24h"`
}

// Stats computes counts, averages and recent-activity windows.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	db := s.db.WithContext(ctx)
	out := &Stats{}

	counts := []struct {
		dst   *int64
		model any
		where []any
	}{
		{&out.TotalPosts, &model.Post{}, nil},
		{&out.HiddenGems, &model.Post{}, []any{"is_hidden_gem = ?", true}},
		{&out.SpamPosts, &model.Post{}, []any{"is_spam = ?", true}},
		{&out.HallOfFameCount, &model.HallOfFame{}, nil},
		{&out.VerifiedFame, &model.HallOfFame{}, []any{"success_verified = ?", true}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != nil {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	if out.HiddenGems > 0 {
		out.SuccessRate = float64(out.HallOfFameCount) / float64(out.HiddenGems) * 100
	}

	avgs := []struct {
		dst   *float64
		query string
	}{
		{&out.AvgInterestScore, "SELECT COALESCE(AVG(overall_interest), 0) FROM quality_scores"},
		{&out.AvgSpamLikelihood, "SELECT COALESCE(AVG(spam_likelihood), 0) FROM quality_scores"},
		{&out.AvgLeadTimeHours, "SELECT COALESCE(AVG(lead_time_hours), 0) FROM hall_of_fame WHERE success_verified = 1"},
	}
	for _, a := range avgs {
		if err := db.Raw(a.query).Scan(a.dst).Error; err != nil {
			return nil, err
		}
	}

	cutoff := now.Add(-24 * time.Hour)
	if err := db.Model(&model.Post{}).Where("created_at >= ?", cutoff).Count(&out.RecentPosts24h).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Post{}).
		Where("created_at >= ? AND is_hidden_gem = ?", cutoff, true).
		Count(&out.RecentGems24h).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// TopAuthors returns the users with the most discovered gems.
func (s *Store) TopAuthors(ctx context.Context, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = 20
	}
	var users []model.User
	err := s.db.WithContext(ctx).
		Where("hidden_gems_count > 0").
		Order("hidden_gems_count DESC, hall_of_fame_count DESC, karma ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
