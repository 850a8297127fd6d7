package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"alertdesk/internal/models"
)

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return getByID[models.User](ctx, s.db, id)
}

func (s *Store) CreateUser(ctx context.Context, item *models.User) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Email = strings.ToLower(strings.TrimSpace(item.Email))
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) SetUserPassword(ctx context.Context, id string, hash string) error {
	if s == nil || s.db == nil {
		return nil
	}
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": hash,
			"password_set":  true,
			"updated_at":    time.Now().UTC(),
		}).Error
}
