package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Alert statuses derived from review flags and association completeness.
// Never persisted; see Alert.Status.
const (
	StatusNew        = "new"
	StatusIncomplete = "incomplete"
	StatusReviewed   = "reviewed"
	StatusComplete   = "complete"
)

// Alert is the central incident record. It denormalizes one link per reference
// entity plus many-to-many regulation and hazard associations.
type Alert struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null;index" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	SourceID       *string `gorm:"type:uuid;index" json:"source_id"`
	OrganizationID *string `gorm:"type:uuid;index" json:"organization_id"`
	SiteID         *string `gorm:"type:uuid;index" json:"site_id"`
	PlantTypeID    *string `gorm:"type:uuid;index" json:"plant_type_id"`
	PlantMakeID    *string `gorm:"type:uuid;index" json:"plant_make_id"`
	PlantModelID   *string `gorm:"type:uuid;index" json:"plant_model_id"`

	Source       *Source       `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Site         *Site         `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	PlantType    *PlantType    `gorm:"foreignKey:PlantTypeID" json:"plant_type,omitempty"`
	PlantMake    *PlantMake    `gorm:"foreignKey:PlantMakeID" json:"plant_make,omitempty"`
	PlantModel   *PlantModel   `gorm:"foreignKey:PlantModelID" json:"plant_model,omitempty"`

	Regulations []Regulation `gorm:"many2many:alert_regulations" json:"regulations"`
	Hazards     []Hazard     `gorm:"many2many:alert_hazards" json:"hazards"`

	IsNew      bool       `gorm:"default:true;index" json:"is_new"`
	IsReviewed bool       `gorm:"default:false;index" json:"is_reviewed"`
	ReviewedBy string     `gorm:"type:varchar(255)" json:"reviewed_by"`
	ReviewedAt *time.Time `gorm:"type:timestamptz" json:"reviewed_at"`

	OccurredAt *time.Time     `gorm:"type:timestamptz;index" json:"occurred_at"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Alert) TableName() string {
	return "alerts"
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Status classifies the alert. Priority order matters: a brand-new alert is
// "new" even if reviewed; missing associations make it "incomplete" regardless
// of the review flag.
func (a *Alert) Status() string {
	if a.IsNew {
		return StatusNew
	}
	if len(a.Regulations) == 0 || len(a.Hazards) == 0 {
		return StatusIncomplete
	}
	if a.IsReviewed {
		return StatusReviewed
	}
	return StatusComplete
}
