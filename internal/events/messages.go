// Package events publishes ledger change notifications.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"finflow/internal/models"
)

// Event types, also used as AMQP routing keys.
const (
	TypeTransactionCreated = "transaction.created"
	TypeTransactionDeleted = "transaction.deleted"
	TypeCategoryCreated    = "category.created"
	TypeCategoryDeleted    = "category.deleted"
)

// Event describes one change to the ledger.
type Event struct {
	Type          string              `json:"type"`
	TransactionID string              `json:"transaction_id,omitempty"`
	Transaction   *models.Transaction `json:"transaction,omitempty"`
	Category      *models.Category    `json:"category,omitempty"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

// NewTransactionEvent creates an event about tx.
func NewTransactionEvent(eventType string, tx models.Transaction, at time.Time) Event {
	return Event{
		Type:          eventType,
		TransactionID: tx.ID,
		Transaction:   &tx,
		OccurredAt:    at.UTC(),
	}
}

// NewCategoryEvent creates an event about c.
func NewCategoryEvent(eventType string, c models.Category, at time.Time) Event {
	return Event{
		Type:       eventType,
		Category:   &c,
		OccurredAt: at.UTC(),
	}
}

// ToJSON encodes the event.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event and checks that it carries a type.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if e.Type == "" {
		return nil, fmt.Errorf("event has no type")
	}
	return &e, nil
}
