package testutil_test

import (
	"testing"
	"time"

	"finflow/internal/errors"
	"finflow/internal/models"
	"finflow/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"transactions", "categories", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	testutil.CreateTestCategory(t, first, models.CategoryTypeExpense)

	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	var count int64
	if err := second.Model(&models.Category{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected a fresh database, found %d categories", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}
	if category.ID == "" {
		t.Error("category should have an id")
	}

	tx := testutil.CreateTestTransaction(t, db, models.TransactionTypeIncome, "1000", category.Name)
	testutil.AssertDecimal(t, tx.Amount, "1000")
	if tx.ID == "" {
		t.Error("transaction should have an id")
	}

	built := testutil.NewTransaction("Coffee", "3.50", models.TransactionTypeExpense, "Food", time.Now())
	testutil.AssertDecimal(t, built.Amount, "3.5")
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCategoryNotFound, "custom message")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
