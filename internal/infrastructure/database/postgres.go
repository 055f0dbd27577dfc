package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/portalauth/internal/infrastructure/repositories"
)

// Open creates a new database connection. TranslateError is required so
// unique-constraint violations surface as gorm.ErrDuplicatedKey, which the
// repositories map to domain conflicts
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate creates the portal_clients and portal_sessions tables
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBPortalClient{}, &repositories.DBPortalSession{}); err != nil {
		return fmt.Errorf("failed to migrate portal tables: %w", err)
	}
	return nil
}
