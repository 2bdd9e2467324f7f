package model

import (
	"fmt"
	"time"
)

// Post is a Hacker News story as first observed by a sweep.
// Identity is the HN item id; a post is created once and its
// classification flags are the only routinely mutated fields.
type Post struct {
	ID uint `gorm:"primaryKey"`

	HNID           int    `gorm:"column:hn_id;uniqueIndex;not null"`
	Title          string `gorm:"not null"`
	URL            string
	Text           string
	Author         string `gorm:"size:50;index;not null"`
	AuthorKarma    int    `gorm:"index"`
	AccountAgeDays int
	Score          int
	Descendants    int

	HNCreatedAt time.Time `gorm:"column:hn_created_at;not null"` // posted to HN
	CreatedAt   time.Time `gorm:"index"`                         // discovered by us
	UpdatedAt   time.Time

	IsHiddenGem bool `gorm:"index"`
	IsSpam      bool

	CurrentScore  int // latest score seen by the monitor
	LastCheckedAt *time.Time
}

func (Post) TableName() string {
	return "posts"
}

// HNURL returns the news.ycombinator.com permalink for the post.
func (p *Post) HNURL() string {
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", p.HNID)
}

// AgeHours is the post's age on HN, measured from now.
func (p *Post) AgeHours(now time.Time) float64 {
	if p.HNCreatedAt.IsZero() {
		return 0
	}
	return now.Sub(p.HNCreatedAt).Hours()
}

// DiscoveryAgeHours is how old the post was on HN when we first saw it.
func (p *Post) DiscoveryAgeHours() float64 {
	if p.HNCreatedAt.IsZero() || p.CreatedAt.IsZero() {
		return 0
	}
	return p.CreatedAt.Sub(p.HNCreatedAt).Hours()
}

// BestScore returns the freshest known HN score for the post.
func (p *Post) BestScore() int {
	if p.CurrentScore > 0 {
		return p.CurrentScore
	}
	return p.Score
}
