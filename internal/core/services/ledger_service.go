package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	portsrepo "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
	"github.com/mitrapajak/tax-ledger-backend/internal/middleware"
	"github.com/mitrapajak/tax-ledger-backend/internal/utils/accounting"
	"github.com/mitrapajak/tax-ledger-backend/internal/utils/invoice"
)

// ledgerService orchestrates the ledger engine: line aggregation, tax
// resolution, journal construction, identifier allocation, and atomic
// persistence of the whole unit.
type ledgerService struct {
	txnRepo portsrepo.TaxTransactionRepositoryWithTx
	taxes   portsrepo.TaxRegistryReader
	clock   clockFunc
}

// NewLedgerService creates a new LedgerService. The clock is injectable so
// identifier allocation around a year boundary is testable; nil defaults to
// time.Now in UTC.
func NewLedgerService(txnRepo portsrepo.TaxTransactionRepositoryWithTx, taxes portsrepo.TaxRegistryReader, clock clockFunc) portssvc.LedgerSvcFacade {
	return &ledgerService{
		txnRepo: txnRepo,
		taxes:   taxes,
		clock:   normalizeClock(clock),
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// derived holds everything the engine computes from a create/revise input
// before persistence.
type derived struct {
	baseAmount        decimal.Decimal
	vatAmount         decimal.Decimal
	withholdingAmount decimal.Decimal
	grandTotal        decimal.Decimal
	lineItems         []domain.LineItem
	postings          []domain.JournalPosting
}

// resolveVat looks up a VAT component reference and computes the amount plus
// the posting account for the direction. A nil reference means no VAT.
func (s *ledgerService) resolveVat(ctx context.Context, vatID *string, direction domain.TransactionDirection, base decimal.Decimal) (*accounting.ResolvedTax, error) {
	if vatID == nil {
		return nil, nil
	}
	vat, err := s.taxes.GetVatComponent(ctx, *vatID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: VAT component %s does not exist", apperrors.ErrNotFound, *vatID)
		}
		return nil, fmt.Errorf("failed to resolve VAT component %s: %w", *vatID, err)
	}
	accountID := vat.OutputAccountID
	if direction == domain.Purchase {
		accountID = vat.InputAccountID
	}
	return &accounting.ResolvedTax{
		Amount:    base.Mul(vat.Rate),
		AccountID: accountID,
	}, nil
}

// resolveWithholding mirrors resolveVat for withholding components.
func (s *ledgerService) resolveWithholding(ctx context.Context, withholdingID *string, direction domain.TransactionDirection, base decimal.Decimal) (*accounting.ResolvedTax, error) {
	if withholdingID == nil {
		return nil, nil
	}
	wht, err := s.taxes.GetWithholdingComponent(ctx, *withholdingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: withholding component %s does not exist", apperrors.ErrNotFound, *withholdingID)
		}
		return nil, fmt.Errorf("failed to resolve withholding component %s: %w", *withholdingID, err)
	}
	accountID := wht.SaleAccountID
	if direction == domain.Purchase {
		accountID = wht.PurchaseAccountID
	}
	return &accounting.ResolvedTax{
		Amount:    base.Mul(wht.Rate),
		AccountID: accountID,
	}, nil
}

// derive runs the pure computation pipeline: aggregate lines, resolve taxes,
// build the balanced journal. No identifiers are assigned here.
func (s *ledgerService) derive(
	ctx context.Context,
	direction domain.TransactionDirection,
	lineReqs []dto.LineItemRequest,
	vatID, withholdingID *string,
	debitAccountID, kreditAccountID string,
) (*derived, error) {
	if debitAccountID == kreditAccountID {
		return nil, fmt.Errorf("%w: debit and kredit accounts must differ", apperrors.ErrValidation)
	}

	lineInputs := make([]accounting.LineInput, len(lineReqs))
	for i, lr := range lineReqs {
		lineInputs[i] = accounting.LineInput{
			Name:        lr.Name,
			Description: lr.Description,
			Quantity:    lr.Quantity,
			UnitPrice:   lr.UnitPrice,
		}
	}

	base, lineItems, err := accounting.AggregateLineItems(lineInputs)
	if err != nil {
		return nil, err
	}
	// A zero base cannot yield a journal of positive posting amounts.
	if base.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: line items must aggregate to a positive base amount", apperrors.ErrValidation)
	}

	vat, err := s.resolveVat(ctx, vatID, direction, base)
	if err != nil {
		return nil, err
	}
	wht, err := s.resolveWithholding(ctx, withholdingID, direction, base)
	if err != nil {
		return nil, err
	}

	postings, grandTotal, err := accounting.BuildPostings(direction, base, vat, wht, debitAccountID, kreditAccountID)
	if err != nil {
		return nil, err
	}

	d := &derived{
		baseAmount:        base,
		vatAmount:         decimal.Zero,
		withholdingAmount: decimal.Zero,
		grandTotal:        grandTotal,
		lineItems:         lineItems,
		postings:          postings,
	}
	if vat != nil {
		d.vatAmount = vat.Amount
	}
	if wht != nil {
		d.withholdingAmount = wht.Amount
	}
	return d, nil
}

// allocateTransactionID looks up the last identifier for the current year
// suffix and formats its successor. The repository serializes the lookup
// against concurrent creates of the same suffix.
func (s *ledgerService) allocateTransactionID(ctx context.Context) (string, error) {
	suffix := invoice.YearSuffix(s.clock())
	last, err := s.txnRepo.FindLastTransactionIDBySuffix(ctx, suffix)
	if err != nil {
		return "", fmt.Errorf("failed to look up last transaction ID for suffix %s: %w", suffix, err)
	}
	next, err := invoice.Next(last, suffix)
	if err != nil {
		// A stored identifier that fails to parse is a data-integrity defect.
		return "", fmt.Errorf("%w: %s", apperrors.ErrInternal, err.Error())
	}
	return next, nil
}

// RecordTransaction derives totals and a balanced journal from the request,
// allocates the next invoice identifier for the current year, and persists the
// header with its children atomically. A lost allocation race is retried once
// before giving up with ErrConflict.
func (s *ledgerService) RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.TaxTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	d, err := s.derive(ctx, req.Direction, req.LineItems, req.VatID, req.WithholdingID, req.DebitAccountID, req.KreditAccountID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	audit := newAuditFields(now, creatorUserID)

	const maxAttempts = 2
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		transactionID, err := s.allocateTransactionID(ctx)
		if err != nil {
			return nil, err
		}

		txn := domain.TaxTransaction{
			TransactionID:     transactionID,
			Direction:         req.Direction,
			BookingDate:       req.BookingDate,
			InvoiceDate:       req.InvoiceDate,
			DueDate:           req.DueDate,
			TaxInvoiceNo:      req.TaxInvoiceNo,
			CompanyID:         req.CompanyID,
			PartnerID:         req.PartnerID,
			DebitAccountID:    req.DebitAccountID,
			KreditAccountID:   req.KreditAccountID,
			VatID:             req.VatID,
			WithholdingID:     req.WithholdingID,
			BaseAmount:        d.baseAmount,
			VatAmount:         d.vatAmount,
			WithholdingAmount: d.withholdingAmount,
			GrandTotal:        d.grandTotal,
			PaymentStatus:     domain.Unpaid,
			AuditFields:       audit,
		}
		attachChildren(&txn, d)

		err = s.txnRepo.CreateTransaction(ctx, txn)
		if err == nil {
			logger.Info("Transaction recorded",
				slog.String("transaction_id", txn.TransactionID),
				slog.String("direction", string(txn.Direction)),
				slog.String("grand_total", txn.GrandTotal.String()))
			return &txn, nil
		}
		if errors.Is(err, apperrors.ErrDuplicate) && attempt < maxAttempts {
			logger.Warn("Transaction ID allocation raced, retrying",
				slog.String("transaction_id", transactionID))
			continue
		}
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: transaction ID allocation lost the race twice", apperrors.ErrConflict)
		}
		logger.Error("Failed to save transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	// Unreachable: the loop always returns.
	return nil, apperrors.ErrInternal
}

// ReviseTransaction recomputes the transaction from a complete new input and
// atomically replaces the header fields and every derived child. The invoice
// identifier is never reallocated.
func (s *ledgerService) ReviseTransaction(ctx context.Context, transactionID string, req dto.ReviseTransactionRequest, userID string) (*domain.TaxTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction for revision", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	d, err := s.derive(ctx, req.Direction, req.LineItems, req.VatID, req.WithholdingID, req.DebitAccountID, req.KreditAccountID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	paymentStatus := existing.PaymentStatus
	if req.PaymentStatus != nil {
		paymentStatus = *req.PaymentStatus
	}

	txn := domain.TaxTransaction{
		TransactionID:     existing.TransactionID,
		Direction:         req.Direction,
		BookingDate:       req.BookingDate,
		InvoiceDate:       req.InvoiceDate,
		DueDate:           req.DueDate,
		TaxInvoiceNo:      req.TaxInvoiceNo,
		CompanyID:         req.CompanyID,
		PartnerID:         req.PartnerID,
		DebitAccountID:    req.DebitAccountID,
		KreditAccountID:   req.KreditAccountID,
		VatID:             req.VatID,
		WithholdingID:     req.WithholdingID,
		BaseAmount:        d.baseAmount,
		VatAmount:         d.vatAmount,
		WithholdingAmount: d.withholdingAmount,
		GrandTotal:        d.grandTotal,
		PaymentStatus:     paymentStatus,
		AuditFields: domain.AuditFields{
			CreatedAt:     existing.CreatedAt,
			CreatedBy:     existing.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	attachChildren(&txn, d)

	if err := s.txnRepo.ReplaceTransaction(ctx, txn); err != nil {
		logger.Error("Failed to replace transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to replace transaction %s: %w", transactionID, err)
	}

	logger.Info("Transaction revised",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("grand_total", txn.GrandTotal.String()))
	return &txn, nil
}

// RemoveTransaction deletes the header and everything it owns.
func (s *ledgerService) RemoveTransaction(ctx context.Context, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// SetPaymentStatus marks a transaction paid or unpaid.
func (s *ledgerService) SetPaymentStatus(ctx context.Context, transactionID string, status domain.PaymentStatus, userID string) error {
	if status != domain.Unpaid && status != domain.Paid {
		return fmt.Errorf("%w: invalid payment status %d", apperrors.ErrValidation, status)
	}
	if err := s.txnRepo.UpdatePaymentStatus(ctx, transactionID, status, userID); err != nil {
		return fmt.Errorf("failed to update payment status for %s: %w", transactionID, err)
	}
	return nil
}

// GetTransaction retrieves a transaction with its line items and postings.
func (s *ledgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.TaxTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a filtered, token-paginated page of headers.
func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if params.Month != 0 && params.Year == 0 {
		return nil, fmt.Errorf("%w: month filter requires a year", apperrors.ErrValidation)
	}
	if params.Month < 0 || params.Month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", apperrors.ErrValidation)
	}
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	filter := portsrepo.ListTransactionsFilter{
		Month:     params.Month,
		Year:      params.Year,
		Direction: domain.TransactionDirection(params.Direction),
		Search:    params.Search,
		Limit:     limit,
		NextToken: params.NextToken,
	}
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	resp := &dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i := range txns {
		resp.Transactions[i] = dto.ToTransactionResponse(&txns[i])
	}
	return resp, nil
}

// attachChildren stamps identities onto freshly derived line items and
// postings and links them to the header.
func attachChildren(txn *domain.TaxTransaction, d *derived) {
	txn.LineItems = make([]domain.LineItem, len(d.lineItems))
	copy(txn.LineItems, d.lineItems)
	for i := range txn.LineItems {
		txn.LineItems[i].LineItemID = uuid.NewString()
		txn.LineItems[i].TransactionID = txn.TransactionID
	}
	txn.Postings = make([]domain.JournalPosting, len(d.postings))
	copy(txn.Postings, d.postings)
	for i := range txn.Postings {
		txn.Postings[i].PostingID = uuid.NewString()
		txn.Postings[i].TransactionID = txn.TransactionID
	}
}
