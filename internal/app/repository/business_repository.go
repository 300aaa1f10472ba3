package repository

import (
	"time"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/pkg/logger"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(business *model.Business) error
	FindByID(id uint) (*model.Business, error)
	FindByName(name string) (*model.Business, error)
	FindByRemoteID(remoteID string) (*model.Business, error)
	// FindPrimary returns the first business row. A local desktop install
	// holds exactly one tenant; the central deployment holds many and never
	// calls this.
	FindPrimary() (*model.Business, error)
	Update(business *model.Business) error
	// SetRemoteID persists the canonical id assigned by the central server.
	// Committed as a single transaction so a crash cannot leave a half
	// registered business.
	SetRemoteID(id uint, remoteID string) error
	TouchLastSynced(id uint, at time.Time) error
	Deactivate(id uint) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *model.Business) error {
	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business", err, map[string]interface{}{
			"name": business.Name,
		})
		return err
	}

	logger.Info("Business created", map[string]interface{}{
		"business_id": business.ID,
		"name":        business.Name,
		"type":        business.Type,
	})
	return nil
}

func (r *businessRepository) FindByID(id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByName(name string) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("name = ?", name).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByRemoteID(remoteID string) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("remote_id = ?", remoteID).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindPrimary() (*model.Business, error) {
	var business model.Business
	if err := r.db.Order("id ASC").First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) Update(business *model.Business) error {
	if err := r.db.Save(business).Error; err != nil {
		logger.Error("Failed to update business", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

func (r *businessRepository) SetRemoteID(id uint, remoteID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Business{}).
			Where("id = ? AND (remote_id IS NULL OR remote_id = '')", id).
			Update("remote_id", remoteID)
		if result.Error != nil {
			logger.Error("Failed to set business remote id", result.Error, map[string]interface{}{
				"business_id": id,
				"remote_id":   remoteID,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already registered; verify it is the same id.
			var existing model.Business
			if err := tx.First(&existing, id).Error; err != nil {
				return err
			}
			if existing.RemoteID == nil || *existing.RemoteID != remoteID {
				return gorm.ErrInvalidData
			}
		}
		return nil
	})
}

func (r *businessRepository) TouchLastSynced(id uint, at time.Time) error {
	return r.db.Model(&model.Business{}).
		Where("id = ?", id).
		Update("last_synced_at", at).Error
}

func (r *businessRepository) Deactivate(id uint) error {
	return r.db.Model(&model.Business{}).
		Where("id = ?", id).
		Update("active", false).Error
}
