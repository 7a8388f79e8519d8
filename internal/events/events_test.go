package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"finflow/internal/models"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	deadline bool
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	_, f.deadline = ctx.Deadline()
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func sampleTransaction() models.Transaction {
	tx := models.Transaction{
		Description: "Groceries",
		Amount:      decimal.RequireFromString("42.10"),
		Type:        models.TransactionTypeExpense,
		Category:    "Food",
		Date:        time.Date(2024, 5, 2, 18, 30, 0, 0, time.UTC),
	}
	tx.ID = "0190a3c4-0000-7000-8000-000000000001"
	return tx
}

func TestEventJSON(t *testing.T) {
	at := time.Date(2024, 5, 2, 18, 31, 0, 0, time.UTC)
	e := NewTransactionEvent(TypeTransactionCreated, sampleTransaction(), at)

	data, err := e.ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := EventFromJSON(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Type != TypeTransactionCreated || decoded.TransactionID != e.TransactionID {
		t.Errorf("unexpected event %+v", decoded)
	}
	if decoded.Transaction == nil || !decoded.Transaction.Amount.Equal(decimal.RequireFromString("42.1")) {
		t.Errorf("expected transaction payload, got %+v", decoded.Transaction)
	}
	if !decoded.OccurredAt.Equal(at) {
		t.Errorf("expected %s, got %s", at, decoded.OccurredAt)
	}

	if _, err := EventFromJSON([]byte(`{"transaction_id":"x"}`)); err == nil {
		t.Error("expected error for event without a type")
	}
	if _, err := EventFromJSON([]byte(`nope`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch, exchange: "finflow.ledger"}

	e := NewTransactionEvent(TypeTransactionDeleted, sampleTransaction(), time.Now())
	if err := p.Publish(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ch.exchange != "finflow.ledger" || ch.key != TypeTransactionDeleted {
		t.Errorf("expected exchange finflow.ledger key %s, got %s %s", TypeTransactionDeleted, ch.exchange, ch.key)
	}
	if ch.msg.DeliveryMode != amqp091.Persistent || ch.msg.ContentType != "application/json" {
		t.Errorf("expected persistent JSON message, got %+v", ch.msg)
	}
	if !ch.deadline {
		t.Error("expected publish to run with a deadline")
	}
	if _, err := EventFromJSON(ch.msg.Body); err != nil {
		t.Errorf("body should be a valid event: %v", err)
	}

	if err := p.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if !ch.closed {
		t.Error("expected channel to be closed")
	}
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	p := &AMQPPublisher{channel: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}
	err := p.Publish(context.Background(), NewCategoryEvent(TypeCategoryCreated, models.Category{Name: "Pets"}, time.Now()))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), Event{Type: TypeTransactionCreated}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
