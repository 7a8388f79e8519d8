package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is one of the supported transaction types.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is one ledger entry. Amount is never negative; Type carries the sign.
type Transaction struct {
	Base
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Category    string          `gorm:"index" json:"category"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
}

// SignedAmount returns the amount as it contributes to the balance:
// positive for income, negative for expense.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}
