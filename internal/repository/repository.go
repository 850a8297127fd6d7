package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"alertdesk/internal/models"
)

// Repository is the persistence surface for the admin service. The gorm
// implementation lives in repository/gorm.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Reference data: sources
	ListSources(ctx context.Context, params ListRefParams) ([]models.Source, error)
	CountSources(ctx context.Context, params ListRefParams) (int64, error)
	GetSource(ctx context.Context, id string) (*models.Source, error)
	CreateSource(ctx context.Context, item *models.Source) error
	UpdateSource(ctx context.Context, item *models.Source) error
	DeleteSource(ctx context.Context, id string) error

	// Reference data: regulations
	ListRegulations(ctx context.Context, params ListRefParams) ([]models.Regulation, error)
	CountRegulations(ctx context.Context, params ListRefParams) (int64, error)
	GetRegulation(ctx context.Context, id string) (*models.Regulation, error)
	CreateRegulation(ctx context.Context, item *models.Regulation) error
	UpdateRegulation(ctx context.Context, item *models.Regulation) error
	DeleteRegulation(ctx context.Context, id string) error

	// Reference data: organizations
	ListOrganizations(ctx context.Context, params ListRefParams) ([]models.Organization, error)
	CountOrganizations(ctx context.Context, params ListRefParams) (int64, error)
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	CreateOrganization(ctx context.Context, item *models.Organization) error
	UpdateOrganization(ctx context.Context, item *models.Organization) error
	DeleteOrganization(ctx context.Context, id string) error

	// Reference data: sites
	ListSites(ctx context.Context, params ListRefParams) ([]models.Site, error)
	CountSites(ctx context.Context, params ListRefParams) (int64, error)
	GetSite(ctx context.Context, id string) (*models.Site, error)
	CreateSite(ctx context.Context, item *models.Site) error
	UpdateSite(ctx context.Context, item *models.Site) error
	DeleteSite(ctx context.Context, id string) error

	// Reference data: hazards
	ListHazards(ctx context.Context, params ListRefParams) ([]models.Hazard, error)
	CountHazards(ctx context.Context, params ListRefParams) (int64, error)
	GetHazard(ctx context.Context, id string) (*models.Hazard, error)
	CreateHazard(ctx context.Context, item *models.Hazard) error
	UpdateHazard(ctx context.Context, item *models.Hazard) error
	DeleteHazard(ctx context.Context, id string) error

	// Plant hierarchy
	ListPlantTypes(ctx context.Context, params ListRefParams) ([]models.PlantType, error)
	CountPlantTypes(ctx context.Context, params ListRefParams) (int64, error)
	GetPlantType(ctx context.Context, id string) (*models.PlantType, error)
	CreatePlantType(ctx context.Context, item *models.PlantType) error
	UpdatePlantType(ctx context.Context, item *models.PlantType) error
	DeletePlantType(ctx context.Context, id string) error

	ListPlantMakes(ctx context.Context, params ListPlantMakesParams) ([]models.PlantMake, error)
	CountPlantMakes(ctx context.Context, params ListPlantMakesParams) (int64, error)
	GetPlantMake(ctx context.Context, id string) (*models.PlantMake, error)
	CreatePlantMake(ctx context.Context, item *models.PlantMake) error
	UpdatePlantMake(ctx context.Context, item *models.PlantMake) error
	DeletePlantMake(ctx context.Context, id string) error

	ListPlantModels(ctx context.Context, params ListPlantModelsParams) ([]models.PlantModel, error)
	CountPlantModels(ctx context.Context, params ListPlantModelsParams) (int64, error)
	GetPlantModel(ctx context.Context, id string) (*models.PlantModel, error)
	CreatePlantModel(ctx context.Context, item *models.PlantModel) error
	UpdatePlantModel(ctx context.Context, item *models.PlantModel) error
	DeletePlantModel(ctx context.Context, id string) error

	// Alerts
	ListAlerts(ctx context.Context, params ListAlertsParams) ([]models.Alert, error)
	CountAlerts(ctx context.Context, params ListAlertsParams) (int64, error)
	ListAlertsByIDs(ctx context.Context, ids []string) ([]models.Alert, error)
	GetAlert(ctx context.Context, id string) (*models.Alert, error)
	CreateAlert(ctx context.Context, item *models.Alert, regulationIDs, hazardIDs []string) error
	UpdateAlert(ctx context.Context, item *models.Alert, regulationIDs, hazardIDs []string) error
	UpdateAlertTx(ctx context.Context, tx *gorm.DB, item *models.Alert, regulationIDs, hazardIDs []string) error
	DeleteAlert(ctx context.Context, id string) error
	BulkDeleteAlerts(ctx context.Context, ids []string) (int64, error)

	// Dashboard aggregates (server-computed, unfiltered path)
	DashboardMetrics(ctx context.Context, since, until *time.Time) (DashboardMetrics, error)
	AlertCountsByDay(ctx context.Context, since time.Time) ([]models.AlertDailyStat, error)
	RecentAlerts(ctx context.Context, limit int) ([]models.Alert, error)
	AlertCountsBy(ctx context.Context, dimension string) ([]CategoryCount, error)
	ListFilteredAlerts(ctx context.Context, params FilteredAlertsParams) ([]models.Alert, error)
	RebuildAlertDailyStats(ctx context.Context, since, until *time.Time) (int, error)

	// Users
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, item *models.User) error
	SetUserPassword(ctx context.Context, id string, hash string) error
}

// ListRefParams filters a reference-entity listing. Query matches the label
// and description columns, case-insensitive.
type ListRefParams struct {
	Limit   int
	Offset  int
	Active  *bool
	Query   *string
	OrderBy string
	Asc     *bool
}

type ListPlantMakesParams struct {
	ListRefParams
	PlantTypeID *string
}

type ListPlantModelsParams struct {
	ListRefParams
	PlantMakeID *string
}

type ListAlertsParams struct {
	Limit  int
	Offset int

	SourceID       *string
	OrganizationID *string
	SiteID         *string
	PlantTypeID    *string
	PlantMakeID    *string
	PlantModelID   *string
	RegulationID   *string
	HazardID       *string

	IsNew      *bool
	IsReviewed *bool
	Since      *time.Time
	Until      *time.Time
	Query      *string

	OrderBy string
	Asc     *bool
}

// FilteredAlertsParams is the dashboard filter sidebar query: a date range
// plus up to six category ids.
type FilteredAlertsParams struct {
	Since          *time.Time
	Until          *time.Time
	SourceID       *string
	RegulationID   *string
	OrganizationID *string
	SiteID         *string
	HazardID       *string
	PlantTypeID    *string
}

type DashboardMetrics struct {
	TotalAlerts     int64 `json:"total_alerts"`
	NewCount        int64 `json:"new_count"`
	ReviewedCount   int64 `json:"reviewed_count"`
	IncompleteCount int64 `json:"incomplete_count"`
}

type CategoryCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}
