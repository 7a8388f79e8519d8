package services

import (
	"bytes"
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"finflow/internal/export"
	"finflow/internal/models"
	"finflow/internal/testutil"
)

func TestTotals_Scenario(t *testing.T) {
	l := newTestLedger(t)
	l.add(t, "Salary", "1000", models.TransactionTypeIncome, "Salary", day(2024, 3, 1))
	l.add(t, "Groceries", "300", models.TransactionTypeExpense, "Food", day(2024, 3, 20))

	testutil.AssertDecimal(t, l.svc.GetTotal(), "700")

	march, err := l.svc.GetMonthlyTotal(time.March, 2024)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, march, "700")

	april, err := l.svc.GetMonthlyTotal(time.April, 2024)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, april, "0")

	lastYear, err := l.svc.GetMonthlyTotal(time.March, 2023)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, lastYear, "0")
}

func TestGetMonthlyTotal_InvalidMonth(t *testing.T) {
	l := newTestLedger(t)
	for _, m := range []time.Month{0, 13} {
		_, err := l.svc.GetMonthlyTotal(m, 2024)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	}
}

func TestGetMonthlyTotal_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	l := newTestLedgerIn(t, loc)
	// 23:30 UTC on March 31st is already April 1st at UTC+2
	l.add(t, "Bonus", "50", models.TransactionTypeIncome, "Salary", time.Date(2024, 3, 31, 23, 30, 0, 0, time.UTC))

	march, err := l.svc.GetMonthlyTotal(time.March, 2024)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, march, "0")

	april, err := l.svc.GetMonthlyTotal(time.April, 2024)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, april, "50")
}

// Randomised ledgers: the total is income minus expense and the monthly total
// equals the total of the transactions in that month.
func TestTotals_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	categories := map[models.TransactionType]string{
		models.TransactionTypeIncome:  "Salary",
		models.TransactionTypeExpense: "Food",
	}

	for round := 0; round < 5; round++ {
		l := newTestLedger(t)
		income, expense := decimal.Zero, decimal.Zero
		perMonth := map[time.Month]decimal.Decimal{}

		for i := 0; i < 30; i++ {
			txType := models.TransactionTypeExpense
			if rng.Intn(2) == 0 {
				txType = models.TransactionTypeIncome
			}
			amount := decimal.New(rng.Int63n(100000), -2)
			month := time.Month(rng.Intn(12) + 1)

			l.add(t, "generated", amount.String(), txType, categories[txType], time.Date(2024, month, rng.Intn(28)+1, 10, 0, 0, 0, time.UTC))

			signed := amount
			if txType == models.TransactionTypeIncome {
				income = income.Add(amount)
			} else {
				expense = expense.Add(amount)
				signed = amount.Neg()
			}
			perMonth[month] = perMonth[month].Add(signed)
		}

		if got, want := l.svc.GetTotal(), income.Sub(expense); !got.Equal(want) {
			t.Errorf("round %d: expected total %s, got %s", round, want, got)
		}
		for m := time.January; m <= time.December; m++ {
			got, err := l.svc.GetMonthlyTotal(m, 2024)
			testutil.AssertNoError(t, err)
			if !got.Equal(perMonth[m]) {
				t.Errorf("round %d month %d: expected %s, got %s", round, m, perMonth[m], got)
			}
		}

		all, err := l.svc.SearchTransactions(SearchFilters{})
		testutil.AssertNoError(t, err)
		if len(all) != 30 {
			t.Errorf("round %d: expected unfiltered search to return all 30, got %d", round, len(all))
		}
	}
}

func TestGetSummary(t *testing.T) {
	l := newTestLedger(t)
	summary := l.svc.GetSummary()
	testutil.AssertDecimal(t, summary.Balance, "0")
	if summary.TransactionCount != 0 {
		t.Errorf("expected 0 transactions, got %d", summary.TransactionCount)
	}

	l.add(t, "Salary", "2500", models.TransactionTypeIncome, "Salary", fixedNow)
	l.add(t, "Freelance", "500", models.TransactionTypeIncome, "Freelance", fixedNow)
	l.add(t, "Rent", "1200.40", models.TransactionTypeExpense, "Housing", fixedNow)

	summary = l.svc.GetSummary()
	testutil.AssertDecimal(t, summary.Income, "3000")
	testutil.AssertDecimal(t, summary.Expense, "1200.40")
	testutil.AssertDecimal(t, summary.Balance, "1799.60")
	if summary.TransactionCount != 3 {
		t.Errorf("expected 3 transactions, got %d", summary.TransactionCount)
	}
}

func TestGetCategoryTotals(t *testing.T) {
	l := newTestLedger(t)
	l.add(t, "Bus", "5", models.TransactionTypeExpense, "Transport", fixedNow)
	l.add(t, "Lunch", "20", models.TransactionTypeExpense, "Food", fixedNow)
	l.add(t, "Salary", "1000", models.TransactionTypeIncome, "Salary", fixedNow)
	l.add(t, "Dinner", "30", models.TransactionTypeExpense, "Food", fixedNow)

	totals, err := l.svc.GetCategoryTotals(models.TransactionTypeExpense)
	testutil.AssertNoError(t, err)
	if len(totals) != 2 {
		t.Fatalf("expected 2 categories, got %+v", totals)
	}
	if totals[0].Category != "Transport" || totals[1].Category != "Food" {
		t.Errorf("expected first-appearance order, got %s, %s", totals[0].Category, totals[1].Category)
	}
	testutil.AssertDecimal(t, totals[1].Total, "50")
	if totals[1].Count != 2 {
		t.Errorf("expected 2 food transactions, got %d", totals[1].Count)
	}

	income, err := l.svc.GetCategoryTotals(models.TransactionTypeIncome)
	testutil.AssertNoError(t, err)
	if len(income) != 1 || income[0].Category != "Salary" {
		t.Errorf("unexpected income totals %+v", income)
	}

	_, err = l.svc.GetCategoryTotals("transfer")
	testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
}

func TestExports(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	l.add(t, "Salary", "1000", models.TransactionTypeIncome, "Salary", fixedNow)
	l.add(t, "Groceries", "300", models.TransactionTypeExpense, "Food", fixedNow)

	t.Run("pdf", func(t *testing.T) {
		var buf bytes.Buffer
		testutil.AssertNoError(t, l.svc.ExportToPDF(ctx, &buf))
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
			t.Error("expected a PDF document")
		}
	})

	t.Run("excel", func(t *testing.T) {
		var buf bytes.Buffer
		testutil.AssertNoError(t, l.svc.ExportToExcel(ctx, &buf))

		f, err := excelize.OpenReader(&buf)
		testutil.AssertNoError(t, err)
		defer func() { _ = f.Close() }()

		rows, err := f.GetRows(export.SheetName)
		testutil.AssertNoError(t, err)
		if len(rows) < 3 || rows[1][1] != "Salary" || rows[2][1] != "Groceries" {
			t.Errorf("unexpected rows %v", rows)
		}
	})

	t.Run("cancelled_context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		var buf bytes.Buffer
		if err := l.svc.ExportToPDF(cctx, &buf); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
