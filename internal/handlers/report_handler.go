package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finflow/internal/errors"
	"finflow/internal/models"
	"finflow/internal/services"
)

const (
	pdfContentType   = "application/pdf"
	excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler serves totals, summaries and exported reports.
type ReportHandler struct {
	reportService services.ReportServicer
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, now: time.Now}
}

// TotalResponse carries a signed balance.
type TotalResponse struct {
	Total float64 `json:"total"`
}

// MonthlyTotalResponse carries the balance of one calendar month.
type MonthlyTotalResponse struct {
	Month int     `json:"month"`
	Year  int     `json:"year"`
	Total float64 `json:"total"`
}

// GetTotal returns the ledger balance
// @Summary     Get total balance
// @Description Sum of all income minus all expenses
// @Tags        reports
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} TotalResponse "Total"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/total [get]
func (h *ReportHandler) GetTotal(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"total": h.reportService.GetTotal()})
}

// GetMonthlyTotal returns the balance of one month
// @Summary     Get monthly total
// @Description Balance of the transactions dated in the given month (1-12) and year
// @Tags        reports
// @Produce     json
// @Security    ApiKeyAuth
// @Param       month query int true "Month (1-12)"
// @Param       year  query int true "Year"
// @Success     200 {object} MonthlyTotalResponse "Monthly total"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/monthly [get]
func (h *ReportHandler) GetMonthlyTotal(c *gin.Context) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month"))
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year"))
		return
	}

	total, err := h.reportService.GetMonthlyTotal(time.Month(month), year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": month, "year": year, "total": total})
}

// GetSummary returns income, expense and balance
// @Summary     Get ledger summary
// @Tags        reports
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.Summary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"summary": h.reportService.GetSummary()})
}

// GetCategoryTotals returns per-category sums for one transaction type
// @Summary     Get totals by category
// @Tags        reports
// @Produce     json
// @Security    ApiKeyAuth
// @Param       type query string false "Transaction type (income, expense), default expense"
// @Success     200 {array} services.CategoryTotal "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategoryTotals(c *gin.Context) {
	txType := models.TransactionType(c.DefaultQuery("type", string(models.TransactionTypeExpense)))

	totals, err := h.reportService.GetCategoryTotals(txType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": totals})
}

// ExportPDF downloads the ledger as a PDF report
// @Summary     Export PDF
// @Tags        reports
// @Produce     application/pdf
// @Security    ApiKeyAuth
// @Success     200 {file} file "PDF report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Export failed"
// @Router      /reports/export/pdf [get]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	h.sendExport(c, h.reportService.ExportToPDF, "pdf", pdfContentType)
}

// ExportExcel downloads the ledger as a spreadsheet
// @Summary     Export spreadsheet
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    ApiKeyAuth
// @Success     200 {file} file "xlsx workbook"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Export failed"
// @Router      /reports/export/excel [get]
func (h *ReportHandler) ExportExcel(c *gin.Context) {
	h.sendExport(c, h.reportService.ExportToExcel, "xlsx", excelContentType)
}

// sendExport renders into memory first so a failed export still gets a JSON error.
func (h *ReportHandler) sendExport(c *gin.Context, render func(context.Context, io.Writer) error, ext, contentType string) {
	var buf bytes.Buffer
	if err := render(c.Request.Context(), &buf); err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions_%s.%s", h.now().Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
