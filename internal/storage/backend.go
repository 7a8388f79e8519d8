// Package storage persists the ledger either as a snapshot in a key/value
// cache or as individual records in a database or hosted table.
package storage

import (
	"context"

	"finflow/internal/models"
)

// Backend persists transactions. Mutations receive the current in-memory
// ledger and return the ledger as it stands after the write, which callers
// adopt as their new snapshot.
type Backend interface {
	Load(ctx context.Context) ([]models.Transaction, error)
	// Append also returns tx as stored, carrying the id the store kept or assigned.
	Append(ctx context.Context, ledger []models.Transaction, tx models.Transaction) ([]models.Transaction, models.Transaction, error)
	Remove(ctx context.Context, ledger []models.Transaction, id string) ([]models.Transaction, error)
}

// CategoryStore persists the category list as a whole.
type CategoryStore interface {
	// LoadCategories returns the stored list and whether one was ever saved.
	LoadCategories(ctx context.Context) ([]models.Category, bool, error)
	SaveCategories(ctx context.Context, categories []models.Category) error
}

// Cipher encrypts serialized snapshots.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(blob string) (string, error)
}
