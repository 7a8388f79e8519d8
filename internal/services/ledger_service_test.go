package services

import (
	"context"
	"testing"
	"time"

	"finflow/internal/cache"
	"finflow/internal/models"
	"finflow/internal/security"
	"finflow/internal/storage"
	"finflow/internal/testutil"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds_default_categories", func(t *testing.T) {
		l := newTestLedger(t)

		cats := l.svc.GetCategories()
		if len(cats) != len(models.DefaultCategories()) {
			t.Fatalf("expected %d default categories, got %d", len(models.DefaultCategories()), len(cats))
		}
		if _, found, _ := l.store.Get(ctx, storage.CategoriesKey); !found {
			t.Error("expected seeded categories to be persisted")
		}
		if len(l.svc.GetTransactions()) != 0 {
			t.Error("expected an empty ledger")
		}
	})

	t.Run("restores_persisted_state", func(t *testing.T) {
		l := newTestLedger(t)
		l.add(t, "Salary", "1000", models.TransactionTypeIncome, "Salary", day(2024, 3, 1))
		l.add(t, "Groceries", "300", models.TransactionTypeExpense, "Food", day(2024, 3, 2))
		_, err := l.svc.AddCategory(ctx, "Pets", models.CategoryTypeExpense, "")
		testutil.AssertNoError(t, err)

		cb := storage.NewCacheBackend(l.store, nil)
		reloaded := NewLedgerService(cb, cb, nil, LedgerSettings{Location: time.UTC})
		testutil.AssertNoError(t, reloaded.Load(ctx))

		if got := descriptions(reloaded.GetTransactions()); len(got) != 2 || got[0] != "Salary" || got[1] != "Groceries" {
			t.Errorf("expected persisted ledger in order, got %v", got)
		}
		if len(reloaded.GetCategories()) != len(models.DefaultCategories())+1 {
			t.Errorf("expected added category to be persisted")
		}
		testutil.AssertDecimal(t, reloaded.GetTotal(), "700")
	})

	t.Run("undecryptable_ledger_starts_empty", func(t *testing.T) {
		store := cache.NewMemoryStore()
		right, err := security.NewCipher("right", security.Options{Salt: "s", Iterations: 1000})
		testutil.AssertNoError(t, err)
		wrong, err := security.NewCipher("wrong", security.Options{Salt: "s", Iterations: 1000})
		testutil.AssertNoError(t, err)

		writer := storage.NewCacheBackend(store, right)
		_, _, err = writer.Append(ctx, nil, testutil.NewTransaction("Salary", "10", models.TransactionTypeIncome, "Salary", fixedNow))
		testutil.AssertNoError(t, err)

		reader := storage.NewCacheBackend(store, wrong)
		svc := NewLedgerService(reader, reader, nil, LedgerSettings{})
		testutil.AssertNoError(t, svc.Load(ctx))
		if len(svc.GetTransactions()) != 0 {
			t.Errorf("expected empty ledger after decrypt failure, got %d", len(svc.GetTransactions()))
		}
	})

	t.Run("storage_error_propagates", func(t *testing.T) {
		cb := storage.NewCacheBackend(cache.NewMemoryStore(), nil)
		svc := NewLedgerService(&failingBackend{Backend: cb, loadErr: errDisk}, cb, nil, LedgerSettings{})
		testutil.AssertAppError(t, svc.Load(ctx), "STORAGE_FAILED")
	})
}
