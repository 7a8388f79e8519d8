// Package export renders a ledger snapshot as PDF or spreadsheet reports.
package export

import (
	"time"

	"github.com/shopspring/decimal"

	"finflow/internal/models"
)

const dateLayout = "2006-01-02"

// Report is the data every export format renders.
type Report struct {
	Title        string
	GeneratedAt  time.Time
	Location     *time.Location
	Transactions []models.Transaction
}

// NewReport builds a report over txs. A nil location means UTC.
func NewReport(title string, generatedAt time.Time, loc *time.Location, txs []models.Transaction) Report {
	if loc == nil {
		loc = time.UTC
	}
	return Report{Title: title, GeneratedAt: generatedAt, Location: loc, Transactions: txs}
}

// Totals returns income, expense and balance over the report's transactions.
func (r Report) Totals() (income, expense, balance decimal.Decimal) {
	for _, tx := range r.Transactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			income = income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return income, expense, income.Sub(expense)
}

func (r Report) date(t time.Time) string {
	return t.In(r.Location).Format(dateLayout)
}

var columns = []string{"Date", "Description", "Category", "Type", "Amount"}
