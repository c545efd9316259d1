package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	portsrepo "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/repositories"
	"github.com/mitrapajak/tax-ledger-backend/internal/models"
	"github.com/mitrapajak/tax-ledger-backend/internal/utils/mapping"
	"github.com/mitrapajak/tax-ledger-backend/internal/utils/pagination"
)

type PgxTaxTransactionRepository struct {
	BaseRepository
}

// newPgxTaxTransactionRepository creates a new repository for transaction data.
func newPgxTaxTransactionRepository(pool *pgxpool.Pool) portsrepo.TaxTransactionRepositoryWithTx {
	return &PgxTaxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTaxTransactionRepository implements portsrepo.TaxTransactionRepositoryWithTx
var _ portsrepo.TaxTransactionRepositoryWithTx = (*PgxTaxTransactionRepository)(nil)

const headerColumns = `transaction_id, direction, booking_date, invoice_date, due_date,
	tax_invoice_no, company_id, partner_id, debit_account_id, kredit_account_id,
	vat_id, withholding_id, base_amount, vat_amount, withholding_amount, grand_total,
	payment_status, created_at, created_by, last_updated_at, last_updated_by`

func scanHeader(row pgx.Row) (*models.TaxTransaction, error) {
	var m models.TaxTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.Direction,
		&m.BookingDate,
		&m.InvoiceDate,
		&m.DueDate,
		&m.TaxInvoiceNo,
		&m.CompanyID,
		&m.PartnerID,
		&m.DebitAccountID,
		&m.KreditAccountID,
		&m.VatID,
		&m.WithholdingID,
		&m.BaseAmount,
		&m.VatAmount,
		&m.WithholdingAmount,
		&m.GrandTotal,
		&m.PaymentStatus,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateTransaction inserts the header, line items, and postings in one DB
// transaction. An advisory lock keyed on the year suffix serializes inserts
// within one allocation window; a lost race still surfaces as ErrDuplicate via
// the primary key so the caller can re-allocate.
func (r *PgxTaxTransactionRepository) CreateTransaction(ctx context.Context, txn domain.TaxTransaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	suffix := yearSuffixOf(txn.TransactionID)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('tax_txn_seq_' || $1::text));`, suffix); err != nil {
		return apperrors.NewAppError(500, "failed to acquire allocation lock", err)
	}

	modelTxn := mapping.ToModelTaxTransaction(txn)
	headerQuery := `
		INSERT INTO tax_transactions (` + headerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err = tx.Exec(ctx, headerQuery,
		modelTxn.TransactionID,
		modelTxn.Direction,
		modelTxn.BookingDate,
		modelTxn.InvoiceDate,
		modelTxn.DueDate,
		modelTxn.TaxInvoiceNo,
		modelTxn.CompanyID,
		modelTxn.PartnerID,
		modelTxn.DebitAccountID,
		modelTxn.KreditAccountID,
		modelTxn.VatID,
		modelTxn.WithholdingID,
		modelTxn.BaseAmount,
		modelTxn.VatAmount,
		modelTxn.WithholdingAmount,
		modelTxn.GrandTotal,
		modelTxn.PaymentStatus,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: transaction ID %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}

	if err := insertChildren(ctx, tx, txn); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ReplaceTransaction updates the header in place and swaps all children
// atomically so a concurrent reader never observes a partial journal.
func (r *PgxTaxTransactionRepository) ReplaceTransaction(ctx context.Context, txn domain.TaxTransaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelTxn := mapping.ToModelTaxTransaction(txn)
	headerQuery := `
		UPDATE tax_transactions SET
			direction = $2, booking_date = $3, invoice_date = $4, due_date = $5,
			tax_invoice_no = $6, company_id = $7, partner_id = $8,
			debit_account_id = $9, kredit_account_id = $10, vat_id = $11, withholding_id = $12,
			base_amount = $13, vat_amount = $14, withholding_amount = $15, grand_total = $16,
			payment_status = $17, last_updated_at = $18, last_updated_by = $19
		WHERE transaction_id = $1;
	`
	tag, err := tx.Exec(ctx, headerQuery,
		modelTxn.TransactionID,
		modelTxn.Direction,
		modelTxn.BookingDate,
		modelTxn.InvoiceDate,
		modelTxn.DueDate,
		modelTxn.TaxInvoiceNo,
		modelTxn.CompanyID,
		modelTxn.PartnerID,
		modelTxn.DebitAccountID,
		modelTxn.KreditAccountID,
		modelTxn.VatID,
		modelTxn.WithholdingID,
		modelTxn.BaseAmount,
		modelTxn.VatAmount,
		modelTxn.WithholdingAmount,
		modelTxn.GrandTotal,
		modelTxn.PaymentStatus,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction "+txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE transaction_id = $1;`, txn.TransactionID); err != nil {
		return apperrors.NewAppError(500, "failed to delete line items for "+txn.TransactionID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM journal_postings WHERE transaction_id = $1;`, txn.TransactionID); err != nil {
		return apperrors.NewAppError(500, "failed to delete postings for "+txn.TransactionID, err)
	}

	if err := insertChildren(ctx, tx, txn); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteTransaction removes the children and then the header in one DB transaction.
func (r *PgxTaxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE transaction_id = $1;`, transactionID); err != nil {
		return apperrors.NewAppError(500, "failed to delete line items for "+transactionID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM journal_postings WHERE transaction_id = $1;`, transactionID); err != nil {
		return apperrors.NewAppError(500, "failed to delete postings for "+transactionID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM tax_transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// UpdatePaymentStatus flips the settled flag on a header.
func (r *PgxTaxTransactionRepository) UpdatePaymentStatus(ctx context.Context, transactionID string, status domain.PaymentStatus, updatedBy string) error {
	query := `
		UPDATE tax_transactions
		SET payment_status = $2, last_updated_at = now(), last_updated_by = $3
		WHERE transaction_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, int(status), updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment status for "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindTransactionByID retrieves a header together with its children.
func (r *PgxTaxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TaxTransaction, error) {
	query := `SELECT ` + headerColumns + ` FROM tax_transactions WHERE transaction_id = $1;`
	modelTxn, err := scanHeader(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}

	domainTxn := mapping.ToDomainTaxTransaction(*modelTxn)

	lineItems, err := r.findLineItems(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	domainTxn.LineItems = lineItems

	postings, err := r.findPostings(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	domainTxn.Postings = postings

	return &domainTxn, nil
}

func (r *PgxTaxTransactionRepository) findLineItems(ctx context.Context, transactionID string) ([]domain.LineItem, error) {
	query := `
		SELECT line_item_id, transaction_id, name, description, quantity, unit_price, subtotal
		FROM line_items
		WHERE transaction_id = $1
		ORDER BY line_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for "+transactionID, err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var m models.LineItem
		if err := rows.Scan(&m.LineItemID, &m.TransactionID, &m.Name, &m.Description, &m.Quantity, &m.UnitPrice, &m.Subtotal); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row for "+transactionID, err)
		}
		items = append(items, mapping.ToDomainLineItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows for "+transactionID, err)
	}
	return items, nil
}

func (r *PgxTaxTransactionRepository) findPostings(ctx context.Context, transactionID string) ([]domain.JournalPosting, error) {
	query := `
		SELECT posting_id, transaction_id, account_id, side, amount, memo
		FROM journal_postings
		WHERE transaction_id = $1
		ORDER BY posting_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query postings for "+transactionID, err)
	}
	defer rows.Close()

	var postings []domain.JournalPosting
	for rows.Next() {
		var m models.JournalPosting
		if err := rows.Scan(&m.PostingID, &m.TransactionID, &m.AccountID, &m.Side, &m.Amount, &m.Memo); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan posting row for "+transactionID, err)
		}
		postings = append(postings, mapping.ToDomainJournalPosting(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating posting rows for "+transactionID, err)
	}
	return postings, nil
}

// FindLastTransactionIDBySuffix returns the highest allocated transaction ID
// for a year suffix, or nil when the window is empty. Sequences past 99999
// widen beyond the 5-digit padding, so a plain lexicographic maximum would
// rank INV-99999/YY above INV-100000/YY; ordering by length first keeps the
// maximum numeric.
func (r *PgxTaxTransactionRepository) FindLastTransactionIDBySuffix(ctx context.Context, yearSuffix string) (*string, error) {
	query := `
		SELECT transaction_id
		FROM tax_transactions
		WHERE transaction_id LIKE 'INV-%/' || $1
		ORDER BY length(transaction_id) DESC, transaction_id DESC
		LIMIT 1;
	`
	var transactionID string
	err := r.Pool.QueryRow(ctx, query, yearSuffix).Scan(&transactionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to find last transaction ID for suffix "+yearSuffix, err)
	}
	return &transactionID, nil
}

// ListTransactions retrieves a filtered, token-paginated page of headers.
func (r *PgxTaxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter) ([]domain.TaxTransaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + headerColumns + ` FROM tax_transactions WHERE 1=1`
	args := []interface{}{}

	// Year-only filtering is supported; a month without a year is rejected
	// upstream before the query is built.
	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += fmt.Sprintf(" AND EXTRACT(YEAR FROM booking_date) = $%d", len(args))
		if filter.Month != 0 {
			args = append(args, filter.Month)
			query += fmt.Sprintf(" AND EXTRACT(MONTH FROM booking_date) = $%d", len(args))
		}
	}
	if filter.Direction != "" {
		args = append(args, string(filter.Direction))
		query += " AND direction = $" + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		query += " AND (transaction_id ILIKE $" + n + " OR tax_invoice_no ILIKE $" + n + ")"
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastBookingDate, lastTransactionID, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastBookingDate, lastTransactionID)
		query += fmt.Sprintf(" AND (booking_date, transaction_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query += " ORDER BY booking_date DESC, transaction_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	var txns []domain.TaxTransaction
	for rows.Next() {
		modelTxn, err := scanHeader(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, mapping.ToDomainTaxTransaction(*modelTxn))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.BookingDate, last.TransactionID)
		nextToken = &token
	}

	return txns, nextToken, nil
}

// SummarizeByPeriod aggregates counts and totals per direction for a calendar month.
func (r *PgxTaxTransactionRepository) SummarizeByPeriod(ctx context.Context, month, year int) ([]domain.PeriodSummary, error) {
	query := `
		SELECT direction, COUNT(*),
		       COALESCE(SUM(base_amount), 0), COALESCE(SUM(vat_amount), 0),
		       COALESCE(SUM(withholding_amount), 0), COALESCE(SUM(grand_total), 0)
		FROM tax_transactions
		WHERE EXTRACT(MONTH FROM booking_date) = $1 AND EXTRACT(YEAR FROM booking_date) = $2
		GROUP BY direction
		ORDER BY direction;
	`
	rows, err := r.Pool.Query(ctx, query, month, year)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query period summary", err)
	}
	defer rows.Close()

	var summaries []domain.PeriodSummary
	for rows.Next() {
		var s domain.PeriodSummary
		var direction string
		if err := rows.Scan(&direction, &s.Count, &s.BaseTotal, &s.VatTotal, &s.WithholdingTotal, &s.GrandTotal); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period summary row", err)
		}
		s.Direction = domain.TransactionDirection(direction)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period summary rows", err)
	}
	return summaries, nil
}

// ListTransactionsForRecap streams all headers of a month with partner names
// resolved, ordered by booking date, for spreadsheet export.
func (r *PgxTaxTransactionRepository) ListTransactionsForRecap(ctx context.Context, month, year int) ([]domain.RecapRow, error) {
	query := `
		SELECT t.transaction_id, t.tax_invoice_no, t.booking_date, t.direction,
		       COALESCE(p.name, '-'),
		       t.base_amount, t.vat_amount, t.withholding_amount, t.grand_total
		FROM tax_transactions t
		LEFT JOIN partners p ON t.partner_id = p.partner_id
		WHERE EXTRACT(MONTH FROM t.booking_date) = $1 AND EXTRACT(YEAR FROM t.booking_date) = $2
		ORDER BY t.booking_date, t.transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, month, year)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recap rows", err)
	}
	defer rows.Close()

	var recap []domain.RecapRow
	for rows.Next() {
		var row domain.RecapRow
		var direction string
		if err := rows.Scan(&row.TransactionID, &row.TaxInvoiceNo, &row.BookingDate, &direction,
			&row.PartnerName, &row.BaseAmount, &row.VatAmount, &row.WithholdingAmount, &row.GrandTotal); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan recap row", err)
		}
		row.Direction = domain.TransactionDirection(direction)
		recap = append(recap, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating recap rows", err)
	}
	return recap, nil
}

// insertChildren batch-inserts line items and postings inside an open DB transaction.
func insertChildren(ctx context.Context, tx pgx.Tx, txn domain.TaxTransaction) error {
	batch := &pgx.Batch{}

	lineQuery := `
		INSERT INTO line_items (line_item_id, transaction_id, name, description, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, li := range txn.LineItems {
		m := mapping.ToModelLineItem(li)
		batch.Queue(lineQuery, m.LineItemID, m.TransactionID, m.Name, m.Description, m.Quantity, m.UnitPrice, m.Subtotal)
	}

	postingQuery := `
		INSERT INTO journal_postings (posting_id, transaction_id, account_id, side, amount, memo)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, p := range txn.Postings {
		m := mapping.ToModelJournalPosting(p)
		batch.Queue(postingQuery, m.PostingID, m.TransactionID, m.AccountID, m.Side, m.Amount, m.Memo)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert children for transaction "+txn.TransactionID, err)
	}
	return nil
}

// yearSuffixOf extracts the year suffix from an allocated transaction ID.
// The ID was just formatted by the caller, so a missing separator is treated
// as an empty suffix rather than an error.
func yearSuffixOf(transactionID string) string {
	for i := len(transactionID) - 1; i >= 0; i-- {
		if transactionID[i] == '/' {
			return transactionID[i+1:]
		}
	}
	return ""
}
