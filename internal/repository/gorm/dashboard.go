package gormrepository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alertdesk/internal/models"
	"alertdesk/internal/repository"
)

// dimensionJoins maps a breakdown dimension to the join that yields its label.
// Allow-listed here so the handler can never inject arbitrary SQL.
var dimensionJoins = map[string]struct {
	join  string
	label string
}{
	"source": {
		join:  "JOIN sources d ON d.id = alerts.source_id",
		label: "d.name",
	},
	"organization": {
		join:  "JOIN organizations d ON d.id = alerts.organization_id",
		label: "d.name",
	},
	"site": {
		join:  "JOIN sites d ON d.id = alerts.site_id",
		label: "d.name",
	},
	"plant-type": {
		join:  "JOIN plant_types d ON d.id = alerts.plant_type_id",
		label: "d.name",
	},
	"regulation": {
		join:  "JOIN alert_regulations ar ON ar.alert_id = alerts.id JOIN regulations d ON d.id = ar.regulation_id",
		label: "d.section",
	},
	"hazard": {
		join:  "JOIN alert_hazards ah ON ah.alert_id = alerts.id JOIN hazards d ON d.id = ah.hazard_id",
		label: "d.name",
	},
}

func (s *Store) DashboardMetrics(ctx context.Context, since, until *time.Time) (repository.DashboardMetrics, error) {
	var out repository.DashboardMetrics
	if s == nil || s.db == nil {
		return out, nil
	}
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Alert{})
		if since != nil && !since.IsZero() {
			q = q.Where("created_at >= ?", *since)
		}
		if until != nil && !until.IsZero() {
			q = q.Where("created_at <= ?", *until)
		}
		return q
	}
	if err := base().Count(&out.TotalAlerts).Error; err != nil {
		return out, err
	}
	if err := base().Where("is_new = ?", true).Count(&out.NewCount).Error; err != nil {
		return out, err
	}
	if err := base().Where("is_reviewed = ?", true).Count(&out.ReviewedCount).Error; err != nil {
		return out, err
	}
	err := base().
		Where("is_new = ?", false).
		Where(`NOT EXISTS (SELECT 1 FROM alert_regulations ar WHERE ar.alert_id = alerts.id)
			OR NOT EXISTS (SELECT 1 FROM alert_hazards ah WHERE ah.alert_id = alerts.id)`).
		Count(&out.IncompleteCount).Error
	return out, err
}

func (s *Store) AlertCountsByDay(ctx context.Context, since time.Time) ([]models.AlertDailyStat, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.AlertDailyStat
	query := s.db.WithContext(ctx).Model(&models.AlertDailyStat{})
	if !since.IsZero() {
		query = query.Where("day >= ?", since)
	}
	if err := query.Order("day asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) RecentAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 5)
	var items []models.Alert
	query := s.db.WithContext(ctx).Model(&models.Alert{}).Order("created_at desc").Limit(limit)
	if err := alertPreloads(query).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) AlertCountsBy(ctx context.Context, dimension string) ([]repository.CategoryCount, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	dim, ok := dimensionJoins[dimension]
	if !ok {
		return nil, nil
	}
	var rows []repository.CategoryCount
	// Ties break by the category's earliest alert, the same rule GroupCount
	// applies on the filtered path.
	err := s.db.WithContext(ctx).
		Table("alerts").
		Select(dim.label + " AS label, COUNT(*) AS count").
		Joins(dim.join).
		Group(dim.label).
		Order("count DESC, MIN(alerts.created_at) ASC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) ListFilteredAlerts(ctx context.Context, params repository.FilteredAlertsParams) ([]models.Alert, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	listParams := repository.ListAlertsParams{
		SourceID:       params.SourceID,
		OrganizationID: params.OrganizationID,
		SiteID:         params.SiteID,
		PlantTypeID:    params.PlantTypeID,
		RegulationID:   params.RegulationID,
		HazardID:       params.HazardID,
		Since:          params.Since,
		Until:          params.Until,
	}
	query := s.alertQuery(ctx, listParams)
	// The filtered path hands the full flat list to the in-process aggregator;
	// ordering by creation time keeps first-seen tie-breaking deterministic.
	query = query.Order("created_at asc")
	var items []models.Alert
	if err := alertPreloads(query).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) RebuildAlertDailyStats(ctx context.Context, since, until *time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	type dayRow struct {
		Day           time.Time
		AlertCount    int64
		ReviewedCount int64
	}
	query := s.db.WithContext(ctx).
		Table("alerts").
		Select(`DATE(created_at) AS day,
			COUNT(*) AS alert_count,
			COUNT(*) FILTER (WHERE is_reviewed) AS reviewed_count`).
		Group("DATE(created_at)")
	if since != nil && !since.IsZero() {
		query = query.Where("created_at >= ?", *since)
	}
	if until != nil && !until.IsZero() {
		query = query.Where("created_at <= ?", *until)
	}
	var rows []dayRow
	if err := query.Scan(&rows).Error; err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	for _, row := range rows {
		stat := models.AlertDailyStat{
			Day:           row.Day,
			AlertCount:    row.AlertCount,
			ReviewedCount: row.ReviewedCount,
			UpdatedAt:     now,
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"alert_count", "reviewed_count", "updated_at"}),
		}).Create(&stat).Error
		if err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}
