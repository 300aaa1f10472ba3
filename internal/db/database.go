package db

import (
	"fmt"

	"github.com/eberechi/shopsync-backend/config"
	appLogger "github.com/eberechi/shopsync-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the database connection. Local shop installs run on a
// SQLite file; the central deployment runs on Postgres. The driver is picked
// from configuration so the rest of the code never cares which one it got.
func Initialize(cfg *config.DatabaseConfig) error {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // we log through pkg/logger
	}

	var err error
	switch cfg.Driver {
	case "postgres":
		appLogger.Info("Connecting to postgres database", map[string]interface{}{
			"host":     cfg.Host,
			"port":     cfg.Port,
			"database": cfg.DBName,
		})
		DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	case "sqlite", "":
		appLogger.Info("Opening sqlite database", map[string]interface{}{
			"path": cfg.Path,
		})
		DB, err = gorm.Open(sqlite.Open(cfg.Path), gormCfg)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == "postgres" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	} else {
		// SQLite handles one writer; keep the pool small so the sync worker
		// and request handlers queue instead of fighting for the file lock.
		sqlDB.SetMaxOpenConns(1)
	}

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"driver": cfg.Driver,
	})
	return nil
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
