package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Regulation is identified by its section reference rather than a name.
type Regulation struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Section     string `gorm:"type:varchar(255);not null;index" json:"section"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Regulation) TableName() string {
	return "regulations"
}

func (r *Regulation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
