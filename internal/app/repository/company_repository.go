package repository

import (
	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/pkg/logger"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(company *model.Company) error
	FindByID(id uint) (*model.Company, error)
	FindByBusiness(businessID uint) ([]model.Company, error)
	// AddTransaction records a purchase or payment and moves the running
	// balance in the same transaction. Purchases raise what the business owes,
	// payments lower it.
	AddTransaction(companyID uint, txn *model.CompanyTransaction) error
	FindTransactions(companyID uint) ([]model.CompanyTransaction, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(company *model.Company) error {
	if err := r.db.Create(company).Error; err != nil {
		logger.Error("Failed to create company", err, map[string]interface{}{
			"business_id": company.BusinessID,
			"name":        company.Name,
		})
		return err
	}
	return nil
}

func (r *companyRepository) FindByID(id uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) FindByBusiness(businessID uint) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *companyRepository) AddTransaction(companyID uint, txn *model.CompanyTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var company model.Company
		if err := tx.First(&company, companyID).Error; err != nil {
			return err
		}

		txn.CompanyID = companyID
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		delta := txn.Amount
		if txn.Kind == model.CompanyPayment {
			delta = -delta
		}
		return tx.Model(&model.Company{}).
			Where("id = ?", companyID).
			Update("balance", gorm.Expr("balance + ?", delta)).Error
	})
}

func (r *companyRepository) FindTransactions(companyID uint) ([]model.CompanyTransaction, error) {
	var txns []model.CompanyTransaction
	err := r.db.Where("company_id = ?", companyID).
		Order("occurred_at DESC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
