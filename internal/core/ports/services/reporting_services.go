package services

import (
	"context"

	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
)

// ReportingService defines operations for generating period reports
type ReportingService interface {
	// PeriodSummary aggregates totals per direction for a month of a year
	PeriodSummary(ctx context.Context, month, year int) (*dto.PeriodSummaryResponse, error)

	// RecapWorkbook renders the monthly transaction recap as an XLSX workbook
	RecapWorkbook(ctx context.Context, month, year int) ([]byte, string, error)

	// InvoiceDocument renders one transaction as a printable PDF invoice
	InvoiceDocument(ctx context.Context, transactionID string) ([]byte, string, error)
}
