package model

import "time"

// User is a Hacker News account we have seen as an author. Aggregate
// counts are recomputed from the posts table on every upsert rather
// than incremented, so they cannot drift.
type User struct {
	ID uint `gorm:"primaryKey"`

	Username    string     `gorm:"size:50;uniqueIndex;not null"`
	Karma       int        `gorm:"index"`
	HNCreatedAt *time.Time `gorm:"column:hn_created_at"` // joined HN
	CreatedAt   time.Time  // first seen by us
	UpdatedAt   time.Time

	TotalPosts      int
	HiddenGemsCount int
	HallOfFameCount int

	LastCheckedAt *time.Time
}

func (User) TableName() string {
	return "users"
}

// AccountAgeDays is the account's age on HN in whole days.
func (u *User) AccountAgeDays(now time.Time) int {
	if u.HNCreatedAt == nil {
		return 0
	}
	return int(now.Sub(*u.HNCreatedAt).Hours() / 24)
}

// SuccessRate is the share of the user's gems that reached the hall of
// fame, in percent.
func (u *User) SuccessRate() float64 {
	if u.HiddenGemsCount == 0 {
		return 0
	}
	return float64(u.HallOfFameCount) / float64(u.HiddenGemsCount) * 100
}
