package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finflow/internal/cache"
	apperrors "finflow/internal/errors"
	"finflow/internal/events"
	"finflow/internal/models"
	"finflow/internal/storage"
	"finflow/internal/testutil"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// recordingPublisher keeps every event it is given.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// failingBackend wraps a backend and fails selected operations.
type failingBackend struct {
	storage.Backend
	loadErr   error
	appendErr error
	removeErr error
}

func (b *failingBackend) Load(ctx context.Context) ([]models.Transaction, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.Backend.Load(ctx)
}

func (b *failingBackend) Append(ctx context.Context, ledger []models.Transaction, tx models.Transaction) ([]models.Transaction, models.Transaction, error) {
	if b.appendErr != nil {
		return nil, models.Transaction{}, b.appendErr
	}
	return b.Backend.Append(ctx, ledger, tx)
}

func (b *failingBackend) Remove(ctx context.Context, ledger []models.Transaction, id string) ([]models.Transaction, error) {
	if b.removeErr != nil {
		return nil, b.removeErr
	}
	return b.Backend.Remove(ctx, ledger, id)
}

var errDisk = apperrors.Wrap(apperrors.ErrStorageFailed, errors.New("disk full"))

type testLedger struct {
	svc     LedgerServicer
	store   *cache.MemoryStore
	backend *failingBackend
	pub     *recordingPublisher
}

func newTestLedgerIn(t *testing.T, loc *time.Location) *testLedger {
	t.Helper()

	store := cache.NewMemoryStore()
	cb := storage.NewCacheBackend(store, nil)
	backend := &failingBackend{Backend: cb}
	pub := &recordingPublisher{}

	svc := NewLedgerService(backend, cb, pub, LedgerSettings{
		Location: loc,
		Now:      func() time.Time { return fixedNow },
	})
	testutil.AssertNoError(t, svc.Load(context.Background()))
	return &testLedger{svc: svc, store: store, backend: backend, pub: pub}
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()
	return newTestLedgerIn(t, time.UTC)
}

func (l *testLedger) add(t *testing.T, description, amount string, txType models.TransactionType, category string, date time.Time) *models.Transaction {
	t.Helper()
	tx, err := l.svc.AddTransaction(context.Background(), TransactionInput{
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Type:        txType,
		Category:    category,
		Date:        date,
	})
	testutil.AssertNoError(t, err)
	return tx
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func descriptions(txs []models.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Description
	}
	return out
}
