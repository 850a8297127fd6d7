package models

import (
	"time"
)

// AlertDailyStat is the alerts-over-time rollup, rebuilt by the nightly job.
type AlertDailyStat struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	Day           time.Time `gorm:"type:date;uniqueIndex;not null" json:"day"`
	AlertCount    int64     `gorm:"not null;default:0" json:"alert_count"`
	ReviewedCount int64     `gorm:"not null;default:0" json:"reviewed_count"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"-"`
}

func (AlertDailyStat) TableName() string {
	return "alert_daily_stats"
}
