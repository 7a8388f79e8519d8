package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "finflow/internal/errors"
	"finflow/internal/models"
	"finflow/internal/uuid"
)

// GormRepository stores transactions in the transactions table.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GormRepository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Insert(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := r.db.WithContext(ctx).Create(&tx).Error; err != nil {
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperrors.ErrTransactionNotFound
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("delete transaction %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

func (r *GormRepository) List(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := r.db.WithContext(ctx).Order("date DESC").Order("id DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// GormCategoryStore stores the category list in the categories table.
type GormCategoryStore struct {
	db *gorm.DB
}

// NewGormCategoryStore creates a new GormCategoryStore.
func NewGormCategoryStore(db *gorm.DB) *GormCategoryStore {
	return &GormCategoryStore{db: db}
}

// LoadCategories reports found=false while the table is empty.
func (s *GormCategoryStore) LoadCategories(ctx context.Context) ([]models.Category, bool, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrStorageFailed, err)
	}
	return categories, len(categories) > 0, nil
}

// SaveCategories replaces the stored list inside one database transaction.
func (s *GormCategoryStore) SaveCategories(ctx context.Context, categories []models.Category) error {
	rows := make([]models.Category, len(categories))
	copy(rows, categories)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageFailed, err)
	}
	return nil
}
