package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "finflow/internal/errors"
	"finflow/internal/events"
	"finflow/internal/models"
	"finflow/internal/uuid"
)

// AddTransaction validates input, persists a new transaction and returns it
// as stored.
func (s *ledgerService) AddTransaction(ctx context.Context, input TransactionInput) (*models.Transaction, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if input.Amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if !input.Amount.Equal(input.Amount.Round(2)) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must have at most two decimal places")
	}
	if !input.Type.IsValid() {
		return nil, apperrors.ErrInvalidTransactionType
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	stored, err := func() (models.Transaction, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		category, ok := s.findCategory(input.Category)
		if !ok {
			return models.Transaction{}, apperrors.WithMessage(apperrors.ErrCategoryNotFound,
				fmt.Sprintf("category %q does not exist", input.Category))
		}
		if !category.Type.Accepts(input.Type) {
			return models.Transaction{}, apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("category %q only accepts %s transactions", category.Name, category.Type))
		}

		tx := models.Transaction{
			Description: description,
			Amount:      input.Amount,
			Type:        input.Type,
			Category:    category.Name,
			Date:        date,
		}
		tx.ID = uuid.New()

		next, stored, err := s.backend.Append(ctx, s.ledger, tx)
		if err != nil {
			return models.Transaction{}, err
		}
		s.ledger = next
		return stored, nil
	}()
	if err != nil {
		return nil, err
	}

	s.log.Infow("transaction added", "id", stored.ID, "type", stored.Type, "category", stored.Category)
	s.publish(ctx, events.NewTransactionEvent(events.TypeTransactionCreated, stored, s.now()))
	return &stored, nil
}

// RemoveTransaction deletes the transaction with the given id.
func (s *ledgerService) RemoveTransaction(ctx context.Context, id string) error {
	removed, err := func() (models.Transaction, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.removeLocked(ctx, id)
	}()
	if err != nil {
		return err
	}

	s.log.Infow("transaction removed", "id", id)
	s.publish(ctx, events.NewTransactionEvent(events.TypeTransactionDeleted, removed, s.now()))
	return nil
}

// RemoveTransactionAt deletes the transaction at index in the current
// snapshot, as returned by GetTransactions.
func (s *ledgerService) RemoveTransactionAt(ctx context.Context, index int) error {
	removed, err := func() (models.Transaction, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if index < 0 || index >= len(s.ledger) {
			return models.Transaction{}, apperrors.WithMessage(apperrors.ErrTransactionNotFound,
				fmt.Sprintf("no transaction at position %d", index))
		}
		return s.removeLocked(ctx, s.ledger[index].ID)
	}()
	if err != nil {
		return err
	}

	s.log.Infow("transaction removed", "id", removed.ID, "index", index)
	s.publish(ctx, events.NewTransactionEvent(events.TypeTransactionDeleted, removed, s.now()))
	return nil
}

// removeLocked deletes id and adopts the resulting ledger. Callers must hold s.mu.
func (s *ledgerService) removeLocked(ctx context.Context, id string) (models.Transaction, error) {
	var removed models.Transaction
	found := false
	for _, tx := range s.ledger {
		if tx.ID == id {
			removed, found = tx, true
			break
		}
	}
	if !found {
		return models.Transaction{}, apperrors.ErrTransactionNotFound
	}

	next, err := s.backend.Remove(ctx, s.ledger, id)
	if err != nil {
		return models.Transaction{}, err
	}
	s.ledger = next
	return removed, nil
}

// GetTransactions returns a copy of the ledger in storage order.
func (s *ledgerService) GetTransactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// GetTransaction returns the transaction with the given id.
func (s *ledgerService) GetTransaction(id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.ledger {
		if tx.ID == id {
			found := tx
			return &found, nil
		}
	}
	return nil, apperrors.ErrTransactionNotFound
}

// SearchTransactions returns the transactions matching every set filter, in
// ledger order.
func (s *ledgerService) SearchTransactions(filters SearchFilters) ([]models.Transaction, error) {
	m, err := s.newMatcher(filters)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0, len(s.ledger))
	for _, tx := range s.ledger {
		if m.matches(tx) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// FilterByCategory returns the transactions filed under exactly category.
func (s *ledgerService) FilterByCategory(category string) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0)
	for _, tx := range s.ledger {
		if tx.Category == category {
			out = append(out, tx)
		}
	}
	return out
}

type matcher struct {
	filters    SearchFilters
	query      string
	txType     models.TransactionType
	categories map[string]struct{}
	dateTo     time.Time
}

func (s *ledgerService) newMatcher(f SearchFilters) (*matcher, error) {
	m := &matcher{filters: f, query: strings.ToLower(strings.TrimSpace(f.Query))}

	switch f.Type {
	case "", "all":
	default:
		m.txType = models.TransactionType(f.Type)
		if !m.txType.IsValid() {
			return nil, apperrors.ErrInvalidTransactionType
		}
	}

	if len(f.Categories) > 0 {
		m.categories = make(map[string]struct{}, len(f.Categories))
		for _, c := range f.Categories {
			m.categories[c] = struct{}{}
		}
	}

	// the upper bound covers the whole day it falls on
	if f.DateTo != nil {
		y, mo, d := f.DateTo.In(s.loc).Date()
		m.dateTo = time.Date(y, mo, d, 23, 59, 59, int(time.Second-time.Nanosecond), s.loc)
	}
	return m, nil
}

func (m *matcher) matches(tx models.Transaction) bool {
	if m.query != "" &&
		!strings.Contains(strings.ToLower(tx.Description), m.query) &&
		!strings.Contains(strings.ToLower(tx.Category), m.query) {
		return false
	}
	if m.txType != "" && tx.Type != m.txType {
		return false
	}
	if m.categories != nil {
		if _, ok := m.categories[tx.Category]; !ok {
			return false
		}
	}
	if m.filters.DateFrom != nil && tx.Date.Before(*m.filters.DateFrom) {
		return false
	}
	if m.filters.DateTo != nil && tx.Date.After(m.dateTo) {
		return false
	}
	if m.filters.MinAmount != nil && tx.Amount.LessThan(*m.filters.MinAmount) {
		return false
	}
	if m.filters.MaxAmount != nil && tx.Amount.GreaterThan(*m.filters.MaxAmount) {
		return false
	}
	return true
}
