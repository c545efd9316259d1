package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	portssvc "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/middleware"
)

// reportHandler handles HTTP requests for period reports.
type reportHandler struct {
	reportingService portssvc.ReportingService
}

func newReportHandler(reportingService portssvc.ReportingService) *reportHandler {
	return &reportHandler{
		reportingService: reportingService,
	}
}

func periodFromQuery(c *gin.Context) (int, int, error) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month")
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year")
	}
	return month, year, nil
}

// periodSummary godoc
// @Summary Period summary
// @Description Aggregates transaction totals per direction for one month
// @Tags reports
// @Produce  json
// @Param   month query int true "Month (1-12)"
// @Param   year query int true "Year"
// @Success 200 {object} dto.PeriodSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Router /reports/summary [get]
func (h *reportHandler) periodSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	month, year, err := periodFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.reportingService.PeriodSummary(c.Request.Context(), month, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to build period summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build period summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// recapWorkbook godoc
// @Summary Monthly recap workbook
// @Description Downloads the monthly transaction recap as an XLSX file
// @Tags reports
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   month query int true "Month (1-12)"
// @Param   year query int true "Year"
// @Success 200 {file} file "XLSX workbook"
// @Failure 400 {object} ErrorResponse
// @Router /reports/recap [get]
func (h *reportHandler) recapWorkbook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	month, year, err := periodFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	content, filename, err := h.reportingService.RecapWorkbook(c.Request.Context(), month, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to render recap workbook", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to render recap workbook"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// invoiceDocument godoc
// @Summary Invoice PDF
// @Description Downloads one transaction rendered as a printable PDF invoice
// @Tags reports
// @Produce  application/pdf
// @Param   transactionID path string true "Transaction ID (URL-encoded, e.g. INV-00001%2F25)"
// @Success 200 {file} file "PDF invoice"
// @Failure 404 {object} ErrorResponse
// @Router /reports/invoice/{transactionID} [get]
func (h *reportHandler) invoiceDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	content, filename, err := h.reportingService.InvoiceDocument(c.Request.Context(), transactionID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to render invoice PDF", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to render invoice PDF"})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", content)
}

// registerReportRoutes registers period report routes.
func registerReportRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/summary", h.periodSummary)
		reports.GET("/recap", h.recapWorkbook)
		reports.GET("/invoice/:transactionID", h.invoiceDocument)
	}
}
