package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finflow/internal/models"
	"finflow/internal/uuid"
)

var fixtureCounter atomic.Int64

func nextID() int64 {
	return fixtureCounter.Add(1)
}

// NewTransaction builds an unsaved transaction with a fresh id.
func NewTransaction(description, amount string, txType models.TransactionType, category string, date time.Time) models.Transaction {
	tx := models.Transaction{
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Type:        txType,
		Category:    category,
		Date:        date,
	}
	tx.ID = uuid.New()
	return tx
}

// CreateTestTransaction inserts a transaction of the given type and amount dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, txType models.TransactionType, amount, category string) *models.Transaction {
	t.Helper()

	tx := NewTransaction(fmt.Sprintf("Test Transaction %d", nextID()), amount, txType, category, time.Now())
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return &tx
}

// CreateTestCategory inserts a category of the given type with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:  fmt.Sprintf("Test Category %d", nextID()),
		Type:  categoryType,
		Color: models.DefaultCategoryColor,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}
