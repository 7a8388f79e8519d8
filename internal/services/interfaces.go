package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"finflow/internal/models"
)

// TransactionInput carries the fields of a new transaction. A zero Date means now.
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        models.TransactionType
	Category    string
	Date        time.Time
}

// SearchFilters holds optional predicates combined with AND. Zero values
// disable a predicate.
type SearchFilters struct {
	Query      string
	Type       string // "", "all", "income" or "expense"
	Categories []string
	DateFrom   *time.Time
	DateTo     *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// Summary contains aggregate figures over the whole ledger.
type Summary struct {
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
}

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// TransactionServicer defines the contract for ledger entry operations.
type TransactionServicer interface {
	AddTransaction(ctx context.Context, input TransactionInput) (*models.Transaction, error)
	RemoveTransaction(ctx context.Context, id string) error
	RemoveTransactionAt(ctx context.Context, index int) error
	GetTransactions() []models.Transaction
	GetTransaction(id string) (*models.Transaction, error)
	SearchTransactions(filters SearchFilters) ([]models.Transaction, error)
	FilterByCategory(category string) []models.Transaction
}

// ReportServicer defines the contract for aggregation and export.
type ReportServicer interface {
	GetTotal() decimal.Decimal
	GetMonthlyTotal(month time.Month, year int) (decimal.Decimal, error)
	GetSummary() Summary
	GetCategoryTotals(txType models.TransactionType) ([]CategoryTotal, error)
	ExportToPDF(ctx context.Context, w io.Writer) error
	ExportToExcel(ctx context.Context, w io.Writer) error
}

// CategoryServicer defines the contract for category management.
type CategoryServicer interface {
	GetCategories() []models.Category
	GetCategoriesByType(categoryType models.CategoryType) ([]models.Category, error)
	GetUsedCategories() []string
	AddCategory(ctx context.Context, name string, categoryType models.CategoryType, color string) (*models.Category, error)
	RemoveCategory(ctx context.Context, name string) error
}

// LedgerServicer is the full ledger: entries, reports and categories.
type LedgerServicer interface {
	TransactionServicer
	ReportServicer
	CategoryServicer

	// Load replaces the in-memory state with what storage holds.
	Load(ctx context.Context) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
