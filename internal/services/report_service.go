package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	apperrors "finflow/internal/errors"
	"finflow/internal/export"
	"finflow/internal/models"
)

// total sums txs with income positive and expense negative.
func total(txs []models.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.SignedAmount())
	}
	return sum
}

// GetTotal returns the ledger balance.
func (s *ledgerService) GetTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return total(s.ledger)
}

// GetMonthlyTotal returns the balance of the transactions dated in the
// given calendar month, in the ledger's location.
func (s *ledgerService) GetMonthlyTotal(month time.Month, year int) (decimal.Decimal, error) {
	if month < time.January || month > time.December {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for _, tx := range s.ledger {
		y, m, _ := tx.Date.In(s.loc).Date()
		if y == year && m == month {
			sum = sum.Add(tx.SignedAmount())
		}
	}
	return sum, nil
}

// GetSummary returns income, expense, balance and count over the ledger.
func (s *ledgerService) GetSummary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := Summary{Income: decimal.Zero, Expense: decimal.Zero, TransactionCount: len(s.ledger)}
	for _, tx := range s.ledger {
		if tx.Type == models.TransactionTypeIncome {
			summary.Income = summary.Income.Add(tx.Amount)
		} else {
			summary.Expense = summary.Expense.Add(tx.Amount)
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return summary
}

// GetCategoryTotals sums the transactions of one type per category, in the
// order each category first appears in the ledger.
func (s *ledgerService) GetCategoryTotals(txType models.TransactionType) ([]CategoryTotal, error) {
	if !txType.IsValid() {
		return nil, apperrors.ErrInvalidTransactionType
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[string]int)
	totals := make([]CategoryTotal, 0)
	for _, tx := range s.ledger {
		if tx.Type != txType {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(totals)
			index[tx.Category] = i
			totals = append(totals, CategoryTotal{Category: tx.Category, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(tx.Amount)
		totals[i].Count++
	}
	return totals, nil
}

func (s *ledgerService) report() export.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return export.NewReport(s.title, s.now(), s.loc, s.snapshot())
}

// ExportToPDF writes the whole ledger as a PDF report.
func (s *ledgerService) ExportToPDF(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r := s.report()
	if err := export.WritePDF(w, r); err != nil {
		return apperrors.Wrap(apperrors.ErrExportFailed, fmt.Errorf("pdf: %w", err))
	}
	s.log.Infow("exported pdf report", "transactions", len(r.Transactions))
	return nil
}

// ExportToExcel writes the whole ledger as an xlsx workbook.
func (s *ledgerService) ExportToExcel(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r := s.report()
	if err := export.WriteExcel(w, r); err != nil {
		return apperrors.Wrap(apperrors.ErrExportFailed, fmt.Errorf("excel: %w", err))
	}
	s.log.Infow("exported excel report", "transactions", len(r.Transactions))
	return nil
}
