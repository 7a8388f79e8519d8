package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet transactions are written to.
const SheetName = "Transactions"

var excelWidths = []float64{12, 40, 20, 10, 14}

// WriteExcel renders r as an xlsx workbook with one row per transaction
// followed by a totals block.
func WriteExcel(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	amountFmt := "#,##0.00"
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, tx := range r.Transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.date(tx.Date),
			tx.Description,
			tx.Category,
			string(tx.Type),
			tx.SignedAmount().InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	last := len(r.Transactions) + 1
	if last > 1 {
		if err := f.SetCellStyle(SheetName, "E2", fmt.Sprintf("E%d", last), money); err != nil {
			return fmt.Errorf("style amounts: %w", err)
		}
	}

	income, expense, balance := r.Totals()
	totals := []struct {
		label string
		value float64
	}{
		{"Income", income.InexactFloat64()},
		{"Expenses", expense.InexactFloat64()},
		{"Balance", balance.InexactFloat64()},
	}
	for i, t := range totals {
		row := last + 2 + i
		if err := f.SetCellValue(SheetName, fmt.Sprintf("D%d", row), t.label); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, fmt.Sprintf("E%d", row), t.value); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), bold); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), money); err != nil {
			return err
		}
	}

	for i, width := range excelWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	return nil
}
