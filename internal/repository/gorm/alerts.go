package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"alertdesk/internal/models"
	"alertdesk/internal/repository"
)

func alertPreloads(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Source").
		Preload("Organization").
		Preload("Site").
		Preload("PlantType").
		Preload("PlantMake").
		Preload("PlantModel").
		Preload("Regulations").
		Preload("Hazards")
}

func (s *Store) alertQuery(ctx context.Context, params repository.ListAlertsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Alert{})
	if params.SourceID != nil {
		query = query.Where("source_id = ?", *params.SourceID)
	}
	if params.OrganizationID != nil {
		query = query.Where("organization_id = ?", *params.OrganizationID)
	}
	if params.SiteID != nil {
		query = query.Where("site_id = ?", *params.SiteID)
	}
	if params.PlantTypeID != nil {
		query = query.Where("plant_type_id = ?", *params.PlantTypeID)
	}
	if params.PlantMakeID != nil {
		query = query.Where("plant_make_id = ?", *params.PlantMakeID)
	}
	if params.PlantModelID != nil {
		query = query.Where("plant_model_id = ?", *params.PlantModelID)
	}
	if params.RegulationID != nil {
		query = query.Where("EXISTS (SELECT 1 FROM alert_regulations ar WHERE ar.alert_id = alerts.id AND ar.regulation_id = ?)", *params.RegulationID)
	}
	if params.HazardID != nil {
		query = query.Where("EXISTS (SELECT 1 FROM alert_hazards ah WHERE ah.alert_id = alerts.id AND ah.hazard_id = ?)", *params.HazardID)
	}
	if params.IsNew != nil {
		query = query.Where("is_new = ?", *params.IsNew)
	}
	if params.IsReviewed != nil {
		query = query.Where("is_reviewed = ?", *params.IsReviewed)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("created_at <= ?", *params.Until)
	}
	if params.Query != nil {
		if q := strings.TrimSpace(*params.Query); q != "" {
			like := "%" + q + "%"
			query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
		}
	}
	return query
}

func (s *Store) ListAlerts(ctx context.Context, params repository.ListAlertsParams) ([]models.Alert, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.alertQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at desc")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Alert
	if err := alertPreloads(query).Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountAlerts(ctx context.Context, params repository.ListAlertsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.alertQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListAlertsByIDs(ctx context.Context, ids []string) ([]models.Alert, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	ids = cleanStrings(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Alert
	query := s.db.WithContext(ctx).Model(&models.Alert{}).Where("id IN ?", ids)
	if err := alertPreloads(query).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item models.Alert
	err := alertPreloads(s.db.WithContext(ctx)).Where("id = ?", id).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateAlert(ctx context.Context, item *models.Alert, regulationIDs, hazardIDs []string) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Regulations", "Hazards").Create(item).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, item, regulationIDs, hazardIDs)
	})
}

func (s *Store) UpdateAlert(ctx context.Context, item *models.Alert, regulationIDs, hazardIDs []string) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.UpdateAlertTx(ctx, tx, item, regulationIDs, hazardIDs)
	})
}

// UpdateAlertTx saves the alert row and replaces its association lists inside
// the caller's transaction. Bulk update uses this to keep the whole batch
// all-or-nothing.
func (s *Store) UpdateAlertTx(ctx context.Context, tx *gorm.DB, item *models.Alert, regulationIDs, hazardIDs []string) error {
	if tx == nil || item == nil {
		return nil
	}
	if err := tx.WithContext(ctx).Omit("Regulations", "Hazards").Save(item).Error; err != nil {
		return err
	}
	return replaceAssociations(tx.WithContext(ctx), item, regulationIDs, hazardIDs)
}

func replaceAssociations(tx *gorm.DB, item *models.Alert, regulationIDs, hazardIDs []string) error {
	regulationIDs = cleanStrings(regulationIDs)
	hazardIDs = cleanStrings(hazardIDs)

	regs := make([]models.Regulation, 0, len(regulationIDs))
	for _, id := range regulationIDs {
		regs = append(regs, models.Regulation{ID: id})
	}
	if err := tx.Model(item).Association("Regulations").Replace(regs); err != nil {
		return err
	}

	hazards := make([]models.Hazard, 0, len(hazardIDs))
	for _, id := range hazardIDs {
		hazards = append(hazards, models.Hazard{ID: id})
	}
	return tx.Model(item).Association("Hazards").Replace(hazards)
}

func (s *Store) DeleteAlert(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item := &models.Alert{ID: id}
		if err := tx.Model(item).Association("Regulations").Clear(); err != nil {
			return err
		}
		if err := tx.Model(item).Association("Hazards").Clear(); err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
}

func (s *Store) BulkDeleteAlerts(ctx context.Context, ids []string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	ids = cleanStrings(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM alert_regulations WHERE alert_id IN ?", ids).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM alert_hazards WHERE alert_id IN ?", ids).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Alert{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
