package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

var pdfWidths = []float64{25, 75, 35, 22, 33}

const (
	pdfRowHeight = 7.0
	pdfMargin    = 10.0
)

// WritePDF renders r as an A4 PDF document.
func WritePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("FinFlow", true)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetModificationDate(r.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+r.GeneratedAt.In(r.Location).Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")

	income, expense, balance := r.Totals()
	pdf.CellFormat(0, 6, fmt.Sprintf("Income: %s   Expenses: %s   Balance: %s   Transactions: %d",
		income.StringFixed(2), expense.StringFixed(2), balance.StringFixed(2), len(r.Transactions)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range columns {
			align := "L"
			if i == len(columns)-1 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, col, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	for _, tx := range r.Transactions {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			header()
		}

		cells := []string{
			r.date(tx.Date),
			fit(pdf, tr(tx.Description), pdfWidths[1]),
			fit(pdf, tr(tx.Category), pdfWidths[2]),
			string(tx.Type),
			tx.SignedAmount().StringFixed(2),
		}
		for i, text := range cells {
			align := "L"
			if i == len(cells)-1 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, text, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// fit shortens s with an ellipsis until it fits a cell of the given width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
