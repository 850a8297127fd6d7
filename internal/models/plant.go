package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plant hierarchy: PlantType -> PlantMake -> PlantModel. Selecting a type
// narrows the available makes; selecting a make narrows the available models.

type PlantType struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (PlantType) TableName() string {
	return "plant_types"
}

func (p *PlantType) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type PlantMake struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	PlantTypeID string `gorm:"type:uuid;not null;index" json:"plant_type_id"`
	Name        string `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`

	PlantType *PlantType `gorm:"foreignKey:PlantTypeID" json:"plant_type,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (PlantMake) TableName() string {
	return "plant_makes"
}

func (p *PlantMake) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type PlantModel struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	PlantMakeID string `gorm:"type:uuid;not null;index" json:"plant_make_id"`
	Name        string `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`

	PlantMake *PlantMake `gorm:"foreignKey:PlantMakeID" json:"plant_make,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (PlantModel) TableName() string {
	return "plant_models"
}

func (p *PlantModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
