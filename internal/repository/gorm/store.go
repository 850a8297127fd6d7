package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"alertdesk/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// listRef applies the shared reference-entity filters. labelColumn is the
// entity's human-readable column ("name" or "section").
func listRef[T any](ctx context.Context, db *gorm.DB, params repository.ListRefParams, labelColumn string) ([]T, error) {
	var items []T
	query := refQuery[T](ctx, db, params, labelColumn)
	query = applyOrder(query, params.OrderBy, params.Asc, labelColumn+" asc")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func countRef[T any](ctx context.Context, db *gorm.DB, params repository.ListRefParams, labelColumn string) (int64, error) {
	var total int64
	if err := refQuery[T](ctx, db, params, labelColumn).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func refQuery[T any](ctx context.Context, db *gorm.DB, params repository.ListRefParams, labelColumn string) *gorm.DB {
	query := db.WithContext(ctx).Model(new(T))
	if params.Active != nil {
		query = query.Where("is_active = ?", *params.Active)
	}
	if params.Query != nil {
		if q := strings.TrimSpace(*params.Query); q != "" {
			like := "%" + q + "%"
			query = query.Where(labelColumn+" ILIKE ? OR description ILIKE ?", like, like)
		}
	}
	return query
}

func getByID[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item T
	err := db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		return query.Order(fallback)
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, raw := range items {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}
