package database

import (
	"adlaan-backend/internal/models"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the pipeline uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Client{},
		&models.Case{},
		&models.Document{},
		&models.Task{},
	)
}
