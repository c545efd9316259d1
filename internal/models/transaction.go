package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxTransaction is the persistence shape of a transaction header.
type TaxTransaction struct {
	TransactionID     string          `db:"transaction_id"`
	Direction         string          `db:"direction"`
	BookingDate       time.Time       `db:"booking_date"`
	InvoiceDate       time.Time       `db:"invoice_date"`
	DueDate           time.Time       `db:"due_date"`
	TaxInvoiceNo      string          `db:"tax_invoice_no"`
	CompanyID         *string         `db:"company_id"`
	PartnerID         *string         `db:"partner_id"`
	DebitAccountID    string          `db:"debit_account_id"`
	KreditAccountID   string          `db:"kredit_account_id"`
	VatID             *string         `db:"vat_id"`
	WithholdingID     *string         `db:"withholding_id"`
	BaseAmount        decimal.Decimal `db:"base_amount"`
	VatAmount         decimal.Decimal `db:"vat_amount"`
	WithholdingAmount decimal.Decimal `db:"withholding_amount"`
	GrandTotal        decimal.Decimal `db:"grand_total"`
	PaymentStatus     int             `db:"payment_status"`
	AuditFields
}

// LineItem is the persistence shape of one transaction line.
type LineItem struct {
	LineItemID    string          `db:"line_item_id"`
	TransactionID string          `db:"transaction_id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Quantity      decimal.Decimal `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Subtotal      decimal.Decimal `db:"subtotal"`
}

// JournalPosting is the persistence shape of one journal posting.
type JournalPosting struct {
	PostingID     string          `db:"posting_id"`
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Side          string          `db:"side"`
	Amount        decimal.Decimal `db:"amount"`
	Memo          string          `db:"memo"`
}
