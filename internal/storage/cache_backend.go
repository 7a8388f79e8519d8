package storage

import (
	"context"
	"encoding/json"

	"finflow/internal/cache"
	apperrors "finflow/internal/errors"
	"finflow/internal/models"
)

// Cache keys.
const (
	TransactionsKey = "transactions"
	CategoriesKey   = "categories"
)

// CacheBackend stores the whole ledger under one cache key, encrypted when a
// Cipher is configured. Categories are always stored as plain JSON.
type CacheBackend struct {
	store  cache.Store
	cipher Cipher
}

// NewCacheBackend creates a snapshot backend. cipher may be nil.
func NewCacheBackend(store cache.Store, cipher Cipher) *CacheBackend {
	return &CacheBackend{store: store, cipher: cipher}
}

// Load reads the stored snapshot. A missing key is an empty ledger.
func (b *CacheBackend) Load(ctx context.Context) ([]models.Transaction, error) {
	raw, found, err := b.store.Get(ctx, TransactionsKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageFailed, err)
	}
	if !found || raw == "" {
		return []models.Transaction{}, nil
	}

	if b.cipher != nil {
		if raw, err = b.cipher.Decrypt(raw); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDecryptFailed, err)
		}
	}

	var ledger []models.Transaction
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		if b.cipher != nil {
			return nil, apperrors.Wrap(apperrors.ErrDecryptFailed, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageFailed, err)
	}
	if ledger == nil {
		ledger = []models.Transaction{}
	}
	return ledger, nil
}

// Append stores ledger plus tx and returns the stored snapshot.
func (b *CacheBackend) Append(ctx context.Context, ledger []models.Transaction, tx models.Transaction) ([]models.Transaction, models.Transaction, error) {
	next := make([]models.Transaction, 0, len(ledger)+1)
	next = append(next, ledger...)
	next = append(next, tx)

	if err := b.save(ctx, next); err != nil {
		return nil, models.Transaction{}, err
	}
	return next, tx, nil
}

// Remove stores ledger without the transaction identified by id.
func (b *CacheBackend) Remove(ctx context.Context, ledger []models.Transaction, id string) ([]models.Transaction, error) {
	idx := -1
	for i := range ledger {
		if ledger[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrTransactionNotFound
	}

	next := make([]models.Transaction, 0, len(ledger)-1)
	next = append(next, ledger[:idx]...)
	next = append(next, ledger[idx+1:]...)

	if err := b.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (b *CacheBackend) save(ctx context.Context, ledger []models.Transaction) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageFailed, err)
	}

	payload := string(data)
	if b.cipher != nil {
		if payload, err = b.cipher.Encrypt(payload); err != nil {
			return apperrors.Wrap(apperrors.ErrEncryptFailed, err)
		}
	}

	if err := b.store.Set(ctx, TransactionsKey, payload); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageFailed, err)
	}
	return nil
}

func (b *CacheBackend) LoadCategories(ctx context.Context) ([]models.Category, bool, error) {
	raw, found, err := b.store.Get(ctx, CategoriesKey)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrStorageFailed, err)
	}
	if !found {
		return nil, false, nil
	}

	var categories []models.Category
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrStorageFailed, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, true, nil
}

func (b *CacheBackend) SaveCategories(ctx context.Context, categories []models.Category) error {
	if categories == nil {
		categories = []models.Category{}
	}
	data, err := json.Marshal(categories)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageFailed, err)
	}
	if err := b.store.Set(ctx, CategoriesKey, string(data)); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageFailed, err)
	}
	return nil
}
