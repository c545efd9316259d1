package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionDirection indicates whether a tax transaction records a sale or a purchase.
type TransactionDirection string

const (
	Sale     TransactionDirection = "SALE"
	Purchase TransactionDirection = "PURCHASE"
)

// PostingSide indicates whether a journal posting debits or credits its account.
// The side is resolved at construction time; no posting is ever stored with an
// undetermined side, so the journal balance can be checked by summation alone.
type PostingSide string

const (
	Debit  PostingSide = "DEBIT"
	Credit PostingSide = "CREDIT"
)

// PaymentStatus marks whether a transaction has been settled.
type PaymentStatus int

const (
	Unpaid PaymentStatus = 0
	Paid   PaymentStatus = 1
)

// TaxTransaction is the header of a recorded sale/purchase transaction.
// It owns its line items and journal postings exclusively: they are created,
// replaced, and deleted together with the header, never independently.
type TaxTransaction struct {
	TransactionID   string               `json:"transactionID"` // e.g. INV-00001/25, immutable once assigned
	Direction       TransactionDirection `json:"direction"`
	BookingDate     time.Time            `json:"bookingDate"`
	InvoiceDate     time.Time            `json:"invoiceDate"`
	DueDate         time.Time            `json:"dueDate"`
	TaxInvoiceNo    string               `json:"taxInvoiceNo"`    // serial of the official tax invoice (faktur), free text
	CompanyID       *string              `json:"companyID"`       // optional FK -> companies
	PartnerID       *string              `json:"partnerID"`       // optional FK -> partners
	DebitAccountID  string               `json:"debitAccountID"`  // mandatory FK -> accounts, caller-chosen
	KreditAccountID string               `json:"kreditAccountID"` // mandatory FK -> accounts, caller-chosen
	VatID           *string              `json:"vatID"`           // optional FK -> vat_components
	WithholdingID   *string              `json:"withholdingID"`   // optional FK -> withholding_components

	// Derived totals, recomputed in full on every revision.
	BaseAmount        decimal.Decimal `json:"baseAmount"`
	VatAmount         decimal.Decimal `json:"vatAmount"`
	WithholdingAmount decimal.Decimal `json:"withholdingAmount"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`

	PaymentStatus PaymentStatus `json:"paymentStatus"`
	AuditFields

	// Children, loaded together with the header.
	LineItems []LineItem       `json:"lineItems,omitempty"`
	Postings  []JournalPosting `json:"postings,omitempty"`
}

// LineItem is one product/service line belonging to a TaxTransaction.
type LineItem struct {
	LineItemID    string          `json:"lineItemID"` // UUID
	TransactionID string          `json:"transactionID"`
	Name          string          `json:"name"`
	Description   string          `json:"description"` // optional
	Quantity      decimal.Decimal `json:"quantity"`    // > 0
	UnitPrice     decimal.Decimal `json:"unitPrice"`   // >= 0
	Subtotal      decimal.Decimal `json:"subtotal"`    // quantity * unitPrice
}

// JournalPosting is one line of the double-entry record derived for a
// transaction: an account, a resolved side, and a positive amount.
type JournalPosting struct {
	PostingID     string          `json:"postingID"` // UUID
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	Side          PostingSide     `json:"side"`
	Amount        decimal.Decimal `json:"amount"` // > 0
	Memo          string          `json:"memo"`
}
