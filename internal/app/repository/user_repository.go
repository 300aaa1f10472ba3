package repository

import (
	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(businessID uint, username string) (*model.User, error)
	FindByBusiness(businessID uint) ([]model.User, error)
	Update(user *model.User) error
	// ReplaceForBusiness drops every user row for the business and inserts
	// the given set, all inside one transaction. This is the pull policy for
	// users: the central server owns them wholesale, so local edits do not
	// survive a sync.
	ReplaceForBusiness(businessID uint, users []model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"business_id": user.BusinessID,
			"username":    user.Username,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(businessID uint, username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("business_id = ? AND username = ?", businessID, username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByBusiness(businessID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("business_id = ?", businessID).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) ReplaceForBusiness(businessID uint, users []model.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("business_id = ?", businessID).
			Delete(&model.User{}).Error; err != nil {
			return err
		}
		for i := range users {
			users[i].BusinessID = businessID
			if err := tx.Create(&users[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to replace users for business", err, map[string]interface{}{
			"business_id": businessID,
			"count":       len(users),
		})
		return err
	}

	logger.Info("Users replaced from remote", map[string]interface{}{
		"business_id": businessID,
		"count":       len(users),
	})
	return nil
}
