package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abordodesign/habitofit/internal/models"
)

// InitPostgres opens the relational catalog database and migrates the
// schema. The catalog (series, episodes), comments and notifications live
// here; per-user documents stay in Firestore.
func InitPostgres(appDatabaseURL string, verbose bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if verbose {
		logLevel = logger.Info
	}

	gdb, err := gorm.Open(postgres.Open(appDatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}

	if err := gdb.AutoMigrate(
		&models.Series{},
		&models.Episode{},
		&models.Comment{},
		&models.Notification{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return gdb, nil
}
