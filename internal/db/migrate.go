package db

import (
	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Business{},
		&model.User{},
		&model.InventoryItem{},
		&model.SalesRecord{},
		&model.SoldItem{},
		&model.Company{},
		&model.CompanyTransaction{},
		&model.FutureOrder{},
		&model.HirableItem{},
		&model.RentalRecord{},
		&model.ReturnRecord{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
