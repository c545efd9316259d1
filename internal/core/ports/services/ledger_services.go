package services

import (
	"context"

	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
)

// LedgerReaderSvc defines read operations on recorded transactions.
type LedgerReaderSvc interface {
	// GetTransaction retrieves a transaction with its line items and postings.
	GetTransaction(ctx context.Context, transactionID string) (*domain.TaxTransaction, error)

	// ListTransactions retrieves a filtered, paginated page of transactions.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines the mutating operations of the ledger engine.
type LedgerWriterSvc interface {
	// RecordTransaction allocates an invoice identifier, derives totals and a
	// balanced journal, and persists the whole unit atomically.
	RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.TaxTransaction, error)

	// ReviseTransaction recomputes a transaction from a complete new input,
	// keeping the identifier and atomically replacing all derived children.
	ReviseTransaction(ctx context.Context, transactionID string, req dto.ReviseTransactionRequest, userID string) (*domain.TaxTransaction, error)

	// RemoveTransaction deletes the transaction and everything it owns.
	RemoveTransaction(ctx context.Context, transactionID string) error

	// SetPaymentStatus marks a transaction paid or unpaid.
	SetPaymentStatus(ctx context.Context, transactionID string, status domain.PaymentStatus, userID string) error
}

// LedgerSvcFacade combines all ledger engine interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
