package model

import "time"

// Success tiers, by the HN score a gem reached when it crossed the
// success threshold.
const (
	SuccessTierTop100    = "top_100"
	SuccessTierFrontPage = "front_page"
	SuccessTierViral     = "viral"
)

// HallOfFame is the permanent record of a gem that was later verified
// to exceed the success threshold. Success fields are written exactly
// once, on the first crossing; only the peak score keeps moving.
type HallOfFame struct {
	ID     uint `gorm:"primaryKey"`
	PostID uint `gorm:"uniqueIndex;not null"`

	DiscoveredAt     time.Time `gorm:"not null;index"`
	DiscoveryScore   float64   `gorm:"not null"` // analyzer score at discovery
	DiscoveryHNScore int       `gorm:"column:discovery_hn_score"`
	DiscoveryKarma   int

	SuccessAt        *time.Time `gorm:"index"`
	SuccessHNScore   *int       `gorm:"column:success_hn_score"`
	PeakHNScore      int        `gorm:"column:peak_hn_score"`
	SuccessThreshold int        `gorm:"default:100"`

	LeadTimeHours     *float64
	DiscoveryAgeHours float64 // HN age of the post when discovered
	SuccessType       string  `gorm:"size:20"`
	SuccessVerified   bool

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (HallOfFame) TableName() string {
	return "hall_of_fame"
}

// UpdateSuccess applies a freshly observed HN score. The success
// fields are set on the first threshold crossing and never touched
// again; the peak score is monotonically non-decreasing.
func (h *HallOfFame) UpdateSuccess(currentScore, threshold int, now time.Time) {
	if h.SuccessAt == nil && currentScore >= threshold {
		at := now
		score := currentScore
		h.SuccessAt = &at
		h.SuccessHNScore = &score
		h.SuccessThreshold = threshold
		h.SuccessVerified = true
		h.SuccessType = SuccessTier(currentScore)
		if !h.DiscoveredAt.IsZero() {
			lead := at.Sub(h.DiscoveredAt).Hours()
			h.LeadTimeHours = &lead
		}
	}
	if currentScore > h.PeakHNScore {
		h.PeakHNScore = currentScore
	}
}

// SuccessTier maps an HN score to its coarse success band.
func SuccessTier(score int) string {
	switch {
	case score >= 500:
		return SuccessTierViral
	case score >= 200:
		return SuccessTierFrontPage
	default:
		return SuccessTierTop100
	}
}

// ScoreImprovement is the raw point gain from discovery to success.
func (h *HallOfFame) ScoreImprovement() int {
	if h.SuccessHNScore == nil {
		return 0
	}
	return *h.SuccessHNScore - h.DiscoveryHNScore
}

// ScoreMultiplier is the success score relative to the discovery score.
func (h *HallOfFame) ScoreMultiplier() float64 {
	if h.SuccessHNScore == nil {
		return 0
	}
	base := h.DiscoveryHNScore
	if base < 1 {
		base = 1
	}
	return float64(*h.SuccessHNScore) / float64(base)
}

// DiscoveryQuality rates how early the gem was caught.
func (h *HallOfFame) DiscoveryQuality() string {
	switch {
	case h.DiscoveryAgeHours <= 0:
		return "unknown"
	case h.DiscoveryAgeHours < 2:
		return "excellent"
	case h.DiscoveryAgeHours < 6:
		return "very_good"
	case h.DiscoveryAgeHours < 12:
		return "good"
	default:
		return "late"
	}
}
