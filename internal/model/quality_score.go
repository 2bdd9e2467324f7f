package model

import "time"

// QualityScore holds the analyzer's dimension vector for one post.
// It is created in the same transaction as its post and overwritten
// wholesale on rescoring; there are no partial updates.
type QualityScore struct {
	ID     uint `gorm:"primaryKey"`
	PostID uint `gorm:"uniqueIndex;not null"`

	TechnicalDepth   float64
	Originality      float64
	ProblemSolving   float64
	SpamLikelihood   float64 `gorm:"index"`
	OverallInterest  float64 `gorm:"index"`
	GithubQuality    float64
	DomainReputation float64

	AnalyzerVersion string    `gorm:"size:20;default:1.0"`
	AnalyzedAt      time.Time `gorm:"not null"`

	// Manual override short-circuits the computed score when set.
	ManualOverride  bool
	ManualScore     *float64
	ManualNotes     string
	ManualUpdatedBy string `gorm:"size:50"`
	ManualUpdatedAt *time.Time
}

func (QualityScore) TableName() string {
	return "quality_scores"
}

// EffectiveScore returns the manual override when present, otherwise
// the computed overall interest.
func (q *QualityScore) EffectiveScore() float64 {
	if q.ManualOverride && q.ManualScore != nil {
		return *q.ManualScore
	}
	return q.OverallInterest
}

// Override records a manual score correction.
func (q *QualityScore) Override(score float64, notes, by string, at time.Time) {
	q.ManualOverride = true
	q.ManualScore = &score
	q.ManualNotes = notes
	q.ManualUpdatedBy = by
	q.ManualUpdatedAt = &at
}
