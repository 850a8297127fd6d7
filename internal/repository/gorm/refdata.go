package gormrepository

import (
	"context"

	"alertdesk/internal/models"
	"alertdesk/internal/repository"
)

// --- Sources ----------------------------------------------------------------

func (s *Store) ListSources(ctx context.Context, params repository.ListRefParams) ([]models.Source, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return listRef[models.Source](ctx, s.db, params, "name")
}

func (s *Store) CountSources(ctx context.Context, params repository.ListRefParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	return countRef[models.Source](ctx, s.db, params, "name")
}

func (s *Store) GetSource(ctx context.Context, id string) (*models.Source, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return getByID[models.Source](ctx, s.db, id)
}

func (s *Store) CreateSource(ctx context.Context, item *models.Source) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateSource(ctx context.Context, item *models.Source) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteSource(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return deleteByID[models.Source](ctx, s.db, id)
}

// --- Regulations ------------------------------------------------------------

func (s *Store) ListRegulations(ctx context.Context, params repository.ListRefParams) ([]models.Regulation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return listRef[models.Regulation](ctx, s.db, params, "section")
}

func (s *Store) CountRegulations(ctx context.Context, params repository.ListRefParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	return countRef[models.Regulation](ctx, s.db, params, "section")
}

func (s *Store) GetRegulation(ctx context.Context, id string) (*models.Regulation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return getByID[models.Regulation](ctx, s.db, id)
}

func (s *Store) CreateRegulation(ctx context.Context, item *models.Regulation) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateRegulation(ctx context.Context, item *models.Regulation) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteRegulation(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return deleteByID[models.Regulation](ctx, s.db, id)
}

// --- Organizations ----------------------------------------------------------

func (s *Store) ListOrganizations(ctx context.Context, params repository.ListRefParams) ([]models.Organization, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return listRef[models.Organization](ctx, s.db, params, "name")
}

func (s *Store) CountOrganizations(ctx context.Context, params repository.ListRefParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	return countRef[models.Organization](ctx, s.db, params, "name")
}

func (s *Store) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return getByID[models.Organization](ctx, s.db, id)
}

func (s *Store) CreateOrganization(ctx context.Context, item *models.Organization) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateOrganization(ctx context.Context, item *models.Organization) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteOrganization(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return deleteByID[models.Organization](ctx, s.db, id)
}

// --- Sites ------------------------------------------------------------------

func (s *Store) ListSites(ctx context.Context, params repository.ListRefParams) ([]models.Site, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return listRef[models.Site](ctx, s.db, params, "name")
}

func (s *Store) CountSites(ctx context.Context, params repository.ListRefParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	return countRef[models.Site](ctx, s.db, params, "name")
}

func (s *Store) GetSite(ctx context.Context, id string) (*models.Site, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return getByID[models.Site](ctx, s.db, id)
}

func (s *Store) CreateSite(ctx context.Context, item *models.Site) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateSite(ctx context.Context, item *models.Site) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteSite(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return deleteByID[models.Site](ctx, s.db, id)
}

// --- Hazards ----------------------------------------------------------------

func (s *Store) ListHazards(ctx context.Context, params repository.ListRefParams) ([]models.Hazard, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return listRef[models.Hazard](ctx, s.db, params, "name")
}

func (s *Store) CountHazards(ctx context.Context, params repository.ListRefParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	return countRef[models.Hazard](ctx, s.db, params, "name")
}

func (s *Store) GetHazard(ctx context.Context, id string) (*models.Hazard, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return getByID[models.Hazard](ctx, s.db, id)
}

func (s *Store) CreateHazard(ctx context.Context, item *models.Hazard) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateHazard(ctx context.Context, item *models.Hazard) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteHazard(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return deleteByID[models.Hazard](ctx, s.db, id)
}

// --- Plant types ------------------------------------------------------------

func (s *Store) ListPlantTypes(ctx context.Context, params repository.ListRefParams) ([]models.PlantType, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return listRef[models.PlantType](ctx, s.db, params, "name")
}

func (s *Store) CountPlantTypes(ctx context.Context, params repository.ListRefParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	return countRef[models.PlantType](ctx, s.db, params, "name")
}

func (s *Store) GetPlantType(ctx context.Context, id string) (*models.PlantType, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return getByID[models.PlantType](ctx, s.db, id)
}

func (s *Store) CreatePlantType(ctx context.Context, item *models.PlantType) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdatePlantType(ctx context.Context, item *models.PlantType) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeletePlantType(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return deleteByID[models.PlantType](ctx, s.db, id)
}

// --- Plant makes ------------------------------------------------------------

func (s *Store) ListPlantMakes(ctx context.Context, params repository.ListPlantMakesParams) ([]models.PlantMake, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := refQuery[models.PlantMake](ctx, s.db, params.ListRefParams, "name")
	if params.PlantTypeID != nil && *params.PlantTypeID != "" {
		query = query.Where("plant_type_id = ?", *params.PlantTypeID)
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "name asc").Preload("PlantType")
	var items []models.PlantMake
	if err := query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountPlantMakes(ctx context.Context, params repository.ListPlantMakesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := refQuery[models.PlantMake](ctx, s.db, params.ListRefParams, "name")
	if params.PlantTypeID != nil && *params.PlantTypeID != "" {
		query = query.Where("plant_type_id = ?", *params.PlantTypeID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) GetPlantMake(ctx context.Context, id string) (*models.PlantMake, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return getByID[models.PlantMake](ctx, s.db, id)
}

func (s *Store) CreatePlantMake(ctx context.Context, item *models.PlantMake) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdatePlantMake(ctx context.Context, item *models.PlantMake) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeletePlantMake(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return deleteByID[models.PlantMake](ctx, s.db, id)
}

// --- Plant models -----------------------------------------------------------

func (s *Store) ListPlantModels(ctx context.Context, params repository.ListPlantModelsParams) ([]models.PlantModel, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := refQuery[models.PlantModel](ctx, s.db, params.ListRefParams, "name")
	if params.PlantMakeID != nil && *params.PlantMakeID != "" {
		query = query.Where("plant_make_id = ?", *params.PlantMakeID)
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "name asc").Preload("PlantMake")
	var items []models.PlantModel
	if err := query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountPlantModels(ctx context.Context, params repository.ListPlantModelsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := refQuery[models.PlantModel](ctx, s.db, params.ListRefParams, "name")
	if params.PlantMakeID != nil && *params.PlantMakeID != "" {
		query = query.Where("plant_make_id = ?", *params.PlantMakeID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) GetPlantModel(ctx context.Context, id string) (*models.PlantModel, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return getByID[models.PlantModel](ctx, s.db, id)
}

func (s *Store) CreatePlantModel(ctx context.Context, item *models.PlantModel) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdatePlantModel(ctx context.Context, item *models.PlantModel) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeletePlantModel(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return deleteByID[models.PlantModel](ctx, s.db, id)
}
