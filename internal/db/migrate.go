package db

import (
	"alertdesk/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Source{},
		&models.Regulation{},
		&models.Organization{},
		&models.Site{},
		&models.PlantType{},
		&models.PlantMake{},
		&models.PlantModel{},
		&models.Hazard{},
		&models.Alert{},
		&models.AlertDailyStat{},
		&models.User{},
	)
}
