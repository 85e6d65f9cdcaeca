package domain

import (
	"time"
)

// QuotaRecord tracks daily uploads per user. One row per user; the date
// column rolls in place when a new day starts instead of inserting a new row.
type QuotaRecord struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex;not null"`
	Count     int       `gorm:"column:count;not null;default:0"`
	Date      time.Time `gorm:"column:date;type:date;not null"`
	UpdatedAt time.Time
}

func (QuotaRecord) TableName() string {
	return "upload_quotas"
}
