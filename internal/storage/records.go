package storage

import (
	"context"
	"errors"

	apperrors "finflow/internal/errors"
	"finflow/internal/models"
)

// RecordRepository stores transactions one record at a time.
type RecordRepository interface {
	Insert(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	Delete(ctx context.Context, id string) error
	// List returns every record ordered by date, newest first.
	List(ctx context.Context) ([]models.Transaction, error)
}

// RecordBackend adapts a RecordRepository to Backend. Every mutation is
// followed by a full reload so the caller sees the store's ordering and ids.
type RecordBackend struct {
	repo    RecordRepository
	failure *apperrors.AppError
}

// NewRecordBackend creates a record backend. Repository errors that are not
// already AppErrors are wrapped in failure.
func NewRecordBackend(repo RecordRepository, failure *apperrors.AppError) *RecordBackend {
	return &RecordBackend{repo: repo, failure: failure}
}

func (b *RecordBackend) wrap(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(b.failure, err)
}

func (b *RecordBackend) Load(ctx context.Context) ([]models.Transaction, error) {
	ledger, err := b.repo.List(ctx)
	if err != nil {
		return nil, b.wrap(err)
	}
	if ledger == nil {
		ledger = []models.Transaction{}
	}
	return ledger, nil
}

func (b *RecordBackend) Append(ctx context.Context, _ []models.Transaction, tx models.Transaction) ([]models.Transaction, models.Transaction, error) {
	stored, err := b.repo.Insert(ctx, tx)
	if err != nil {
		return nil, models.Transaction{}, b.wrap(err)
	}
	ledger, err := b.Load(ctx)
	if err != nil {
		return nil, models.Transaction{}, err
	}
	return ledger, stored, nil
}

func (b *RecordBackend) Remove(ctx context.Context, _ []models.Transaction, id string) ([]models.Transaction, error) {
	if err := b.repo.Delete(ctx, id); err != nil {
		return nil, b.wrap(err)
	}
	return b.Load(ctx)
}
