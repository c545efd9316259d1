package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	portsrepo "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
	"github.com/mitrapajak/tax-ledger-backend/internal/middleware"
)

// reportingService produces period summaries, the monthly recap workbook, and
// per-transaction PDF invoices.
type reportingService struct {
	txnRepo   portsrepo.TaxTransactionReader
	partners  portsrepo.PartnerRepositoryFacade
	companies portsrepo.CompanyRepositoryFacade
}

// NewReportingService creates a new ReportingService. Partner and company
// repositories are consulted to resolve display names on the PDF invoice.
func NewReportingService(
	txnRepo portsrepo.TaxTransactionReader,
	partners portsrepo.PartnerRepositoryFacade,
	companies portsrepo.CompanyRepositoryFacade,
) portssvc.ReportingService {
	return &reportingService{
		txnRepo:   txnRepo,
		partners:  partners,
		companies: companies,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", apperrors.ErrValidation)
	}
	if year < 2000 || year > 2099 {
		return fmt.Errorf("%w: year must be between 2000 and 2099", apperrors.ErrValidation)
	}
	return nil
}

// PeriodSummary aggregates counts and totals per direction for one month.
func (s *reportingService) PeriodSummary(ctx context.Context, month, year int) (*dto.PeriodSummaryResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	summaries, err := s.txnRepo.SummarizeByPeriod(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize period %d-%02d: %w", year, month, err)
	}

	resp := &dto.PeriodSummaryResponse{
		Month:     month,
		Year:      year,
		Summaries: make([]dto.DirectionSummary, len(summaries)),
	}
	for i, sum := range summaries {
		resp.Summaries[i] = dto.ToDirectionSummary(sum)
	}
	return resp, nil
}

var recapHeaders = []string{
	"No", "Transaction ID", "Tax Invoice No", "Booking Date", "Direction",
	"Partner", "Base Amount", "VAT", "Withholding", "Grand Total",
}

// RecapWorkbook renders the monthly transaction recap as an XLSX workbook and
// returns the serialized bytes plus a suggested file name.
func (s *reportingService) RecapWorkbook(ctx context.Context, month, year int) ([]byte, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePeriod(month, year); err != nil {
		return nil, "", err
	}

	rows, err := s.txnRepo.ListTransactionsForRecap(ctx, month, year)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load recap rows for %d-%02d: %w", year, month, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Recap"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create recap sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range recapHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	lastHeaderCell, _ := excelize.CoordinatesToCellName(len(recapHeaders), 1)
	f.SetCellStyle(sheet, "A1", lastHeaderCell, headerStyle)

	for i, row := range rows {
		rowNum := i + 2
		values := []interface{}{
			i + 1,
			row.TransactionID,
			row.TaxInvoiceNo,
			row.BookingDate.Format("2006-01-02"),
			string(row.Direction),
			row.PartnerName,
			row.BaseAmount.InexactFloat64(),
			row.VatAmount.InexactFloat64(),
			row.WithholdingAmount.InexactFloat64(),
			row.GrandTotal.InexactFloat64(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			f.SetCellValue(sheet, cell, v)
		}
	}

	// Totals row below the data.
	if len(rows) > 0 {
		totalRow := len(rows) + 2
		labelCell, _ := excelize.CoordinatesToCellName(6, totalRow)
		f.SetCellValue(sheet, labelCell, "TOTAL")
		for col := 7; col <= 10; col++ {
			colName, _ := excelize.ColumnNumberToName(col)
			cell := fmt.Sprintf("%s%d", colName, totalRow)
			f.SetCellFormula(sheet, cell, fmt.Sprintf("SUM(%s2:%s%d)", colName, colName, totalRow-1))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to serialize recap workbook", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to serialize recap workbook: %w", err)
	}

	fileName := fmt.Sprintf("recap-%d-%02d.xlsx", year, month)
	return buf.Bytes(), fileName, nil
}

// InvoiceDocument renders a stored transaction as a printable PDF invoice:
// issuer block, counterparty block, line item table, and the tax breakdown
// down to the grand total.
func (s *reportingService) InvoiceDocument(ctx context.Context, transactionID string) ([]byte, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	company, err := s.resolveCompany(ctx, txn.CompanyID)
	if err != nil {
		return nil, "", err
	}
	partner, err := s.resolvePartner(ctx, txn.PartnerID)
	if err != nil {
		return nil, "", err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+txn.TransactionID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, txn.TransactionID, "", 1, "L", false, 0, "")
	if txn.TaxInvoiceNo != "" {
		pdf.CellFormat(0, 5, "Tax invoice no: "+txn.TaxInvoiceNo, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(95, 5, "From", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 5, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	writeParty(pdf, company.Name, company.NPWP, company.Address)
	pdf.SetXY(pdf.GetX()+95, pdf.GetY()-partyBlockHeight)
	writeParty(pdf, partner.Name, partner.NPWP, "")
	pdf.Ln(4)

	pdf.CellFormat(0, 5, "Invoice date: "+txn.InvoiceDate.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Booking date: "+txn.BookingDate.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Due date: "+txn.DueDate.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(221, 235, 247)
	pdf.CellFormat(80, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 7, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(45, 7, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, li := range txn.LineItems {
		name := li.Name
		if li.Description != "" {
			name += " - " + li.Description
		}
		pdf.CellFormat(80, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, li.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, li.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, li.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	writeTotal(pdf, "Base amount (DPP)", txn.BaseAmount.StringFixed(2), false)
	if !txn.VatAmount.IsZero() {
		writeTotal(pdf, "VAT (PPN)", txn.VatAmount.StringFixed(2), false)
	}
	if !txn.WithholdingAmount.IsZero() {
		writeTotal(pdf, "Withholding (PPh)", "-"+txn.WithholdingAmount.StringFixed(2), false)
	}
	writeTotal(pdf, "Grand total", txn.GrandTotal.StringFixed(2), true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		logger.Error("Failed to render invoice PDF", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, "", fmt.Errorf("failed to render invoice PDF for %s: %w", transactionID, err)
	}

	fileName := "invoice-" + strings.ReplaceAll(txn.TransactionID, "/", "-") + ".pdf"
	return buf.Bytes(), fileName, nil
}

// partyBlockHeight is the fixed height of a party block written by writeParty,
// used to place the two blocks side by side.
const partyBlockHeight = 15.0

func writeParty(pdf *fpdf.Fpdf, name, npwp, address string) {
	if name == "" {
		name = "-"
	}
	pdf.CellFormat(95, 5, name, "", 1, "L", false, 0, "")
	if npwp != "" {
		pdf.CellFormat(95, 5, "NPWP: "+npwp, "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(95, 5, "", "", 1, "L", false, 0, "")
	}
	if address != "" {
		pdf.CellFormat(95, 5, address, "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(95, 5, "", "", 1, "L", false, 0, "")
	}
}

func writeTotal(pdf *fpdf.Fpdf, label, amount string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	pdf.CellFormat(145, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(45, 6, amount, "", 1, "R", false, 0, "")
}

func (s *reportingService) resolveCompany(ctx context.Context, companyID *string) (domain.Company, error) {
	if companyID == nil {
		return domain.Company{}, nil
	}
	company, err := s.companies.FindCompanyByID(ctx, *companyID)
	if err != nil {
		return domain.Company{}, fmt.Errorf("failed to resolve company %s: %w", *companyID, err)
	}
	return *company, nil
}

func (s *reportingService) resolvePartner(ctx context.Context, partnerID *string) (domain.Partner, error) {
	if partnerID == nil {
		return domain.Partner{}, nil
	}
	partner, err := s.partners.FindPartnerByID(ctx, *partnerID)
	if err != nil {
		return domain.Partner{}, fmt.Errorf("failed to resolve partner %s: %w", *partnerID, err)
	}
	return *partner, nil
}
