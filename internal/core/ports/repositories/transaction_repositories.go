package repositories

import (
	"context"

	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
)

// ListTransactionsFilter narrows and paginates transaction listings.
// Month/Year of zero mean "no period filter"; empty Direction means both.
type ListTransactionsFilter struct {
	Month     int
	Year      int
	Direction domain.TransactionDirection
	Search    string // matches transaction ID or tax invoice number
	Limit     int
	NextToken *string
}

// TaxTransactionReader defines read operations for transaction data.
type TaxTransactionReader interface {
	// FindTransactionByID retrieves a header together with its line items and
	// journal postings. Returns apperrors.ErrNotFound when absent.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.TaxTransaction, error)

	// FindLastTransactionIDBySuffix returns the highest allocated transaction
	// ID whose year suffix matches, or nil when the sequence is empty. The
	// implementation must serialize this lookup against concurrent creates for
	// the same suffix.
	FindLastTransactionIDBySuffix(ctx context.Context, yearSuffix string) (*string, error)

	// ListTransactions retrieves a filtered, token-paginated page of headers
	// (children not loaded). Returns the page and a token for the next one.
	ListTransactions(ctx context.Context, filter ListTransactionsFilter) ([]domain.TaxTransaction, *string, error)

	// SummarizeByPeriod aggregates counts and totals per direction for a
	// calendar month, based on the booking date.
	SummarizeByPeriod(ctx context.Context, month, year int) ([]domain.PeriodSummary, error)

	// ListTransactionsForRecap streams all headers with partner names resolved,
	// ordered by booking date, for spreadsheet export.
	ListTransactionsForRecap(ctx context.Context, month, year int) ([]domain.RecapRow, error)
}

// TaxTransactionWriter defines write operations for transaction data. Every
// method is atomic: either all rows of the header/lines/postings unit are
// written (or removed), or none are.
type TaxTransactionWriter interface {
	// CreateTransaction inserts the header, its line items, and its journal
	// postings in one database transaction. A duplicate transaction ID is
	// reported as apperrors.ErrDuplicate so the caller can re-allocate.
	CreateTransaction(ctx context.Context, txn domain.TaxTransaction) error

	// ReplaceTransaction updates the header row in place, deletes all existing
	// line items and postings, and inserts the recomputed ones, all in one
	// database transaction. Returns apperrors.ErrNotFound when the header
	// does not exist.
	ReplaceTransaction(ctx context.Context, txn domain.TaxTransaction) error

	// DeleteTransaction removes the children and then the header in one
	// database transaction.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// UpdatePaymentStatus flips the settled flag on a header.
	UpdatePaymentStatus(ctx context.Context, transactionID string, status domain.PaymentStatus, updatedBy string) error
}

// TaxTransactionRepositoryFacade combines all transaction repository interfaces.
type TaxTransactionRepositoryFacade interface {
	TaxTransactionReader
	TaxTransactionWriter
}

// TaxTransactionRepositoryWithTx extends the facade with transaction control.
type TaxTransactionRepositoryWithTx interface {
	TaxTransactionRepositoryFacade
	TransactionManager
}
