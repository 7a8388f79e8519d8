package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "finflow/internal/errors"
	"finflow/internal/events"
	"finflow/internal/logger"
	"finflow/internal/models"
	"finflow/internal/storage"
)

// LedgerSettings configures a ledger service. Zero values get defaults.
type LedgerSettings struct {
	// Location decides which calendar day and month a transaction falls in.
	Location    *time.Location
	Now         func() time.Time
	ReportTitle string
}

// ledgerService owns the transaction snapshot and the category list.
type ledgerService struct {
	backend    storage.Backend
	categories storage.CategoryStore
	publisher  events.Publisher
	loc        *time.Location
	now        func() time.Time
	title      string
	log        *zap.SugaredLogger

	mu     sync.RWMutex
	ledger []models.Transaction
	cats   []models.Category
}

// NewLedgerService creates a new LedgerServicer. Call Load before use to
// pick up persisted state.
func NewLedgerService(backend storage.Backend, categories storage.CategoryStore, publisher events.Publisher, settings LedgerSettings) LedgerServicer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.ReportTitle == "" {
		settings.ReportTitle = "FinFlow Transactions Report"
	}

	return &ledgerService{
		backend:    backend,
		categories: categories,
		publisher:  publisher,
		loc:        settings.Location,
		now:        settings.Now,
		title:      settings.ReportTitle,
		log:        logger.Named("ledger"),
		ledger:     []models.Transaction{},
		cats:       []models.Category{},
	}
}

// Load reads transactions and categories from storage. A ledger that cannot
// be decrypted is discarded and replaced by an empty one. A missing category
// list is seeded with the defaults.
func (s *ledgerService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrDecryptFailed) {
			return err
		}
		s.log.Warnw("stored ledger could not be decrypted, starting empty", "error", err)
		ledger = []models.Transaction{}
	}

	cats, found, err := s.categories.LoadCategories(ctx)
	if err != nil {
		return err
	}
	if !found {
		cats = models.DefaultCategories()
		if err := s.categories.SaveCategories(ctx, cats); err != nil {
			return err
		}
		s.log.Infow("seeded default categories", "count", len(cats))
	}

	s.ledger = ledger
	s.cats = cats
	s.log.Infow("ledger loaded", "transactions", len(ledger), "categories", len(cats))
	return nil
}

// snapshot returns a copy of the ledger. Callers must hold s.mu.
func (s *ledgerService) snapshot() []models.Transaction {
	out := make([]models.Transaction, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// publish sends e and logs failures. Events never fail the operation that produced them.
func (s *ledgerService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warnw("failed to publish ledger event", "type", e.Type, "error", err)
	}
}
