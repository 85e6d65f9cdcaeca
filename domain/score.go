package domain

import (
	"time"
)

// Score is one evaluated submission. Rows are immutable once written.
type Score struct {
	ID           uint    `gorm:"primaryKey"`
	SubmissionID string  `gorm:"column:submission_id;uniqueIndex;not null"`
	UserID       uint    `gorm:"column:user_id;index;not null"`
	F1           float64 `gorm:"column:f1_score;not null"`
	Accuracy     float64 `gorm:"column:accuracy;not null"`
	CreatedAt    time.Time
}

func (Score) TableName() string {
	return "scores"
}
