package dto

import (
	"time"

	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one product/service line of a create/revise request.
type LineItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"dgte0"`
}

// CreateTransactionRequest carries everything the ledger engine needs to
// record a transaction. The invoice identifier is allocated by the engine,
// never supplied by the caller.
type CreateTransactionRequest struct {
	Direction       domain.TransactionDirection `json:"direction" binding:"required,oneof=SALE PURCHASE"`
	BookingDate     time.Time                   `json:"bookingDate" binding:"required"`
	InvoiceDate     time.Time                   `json:"invoiceDate" binding:"required"`
	DueDate         time.Time                   `json:"dueDate" binding:"required"`
	TaxInvoiceNo    string                      `json:"taxInvoiceNo"`
	CompanyID       *string                     `json:"companyID"`
	PartnerID       *string                     `json:"partnerID"`
	DebitAccountID  string                      `json:"debitAccountID" binding:"required"`
	KreditAccountID string                      `json:"kreditAccountID" binding:"required"`
	VatID           *string                     `json:"vatID"`
	WithholdingID   *string                     `json:"withholdingID"`
	LineItems       []LineItemRequest           `json:"lineItems" binding:"required,min=1,dive"`
}

// ReviseTransactionRequest is a complete recomputation input: the revision
// replaces every derived child of the transaction. An omitted (nil) tax ref
// disconnects that tax; there is no "leave unchanged".
type ReviseTransactionRequest struct {
	Direction       domain.TransactionDirection `json:"direction" binding:"required,oneof=SALE PURCHASE"`
	BookingDate     time.Time                   `json:"bookingDate" binding:"required"`
	InvoiceDate     time.Time                   `json:"invoiceDate" binding:"required"`
	DueDate         time.Time                   `json:"dueDate" binding:"required"`
	TaxInvoiceNo    string                      `json:"taxInvoiceNo"`
	CompanyID       *string                     `json:"companyID"`
	PartnerID       *string                     `json:"partnerID"`
	DebitAccountID  string                      `json:"debitAccountID" binding:"required"`
	KreditAccountID string                      `json:"kreditAccountID" binding:"required"`
	VatID           *string                     `json:"vatID"`
	WithholdingID   *string                     `json:"withholdingID"`
	PaymentStatus   *domain.PaymentStatus       `json:"paymentStatus"`
	LineItems       []LineItemRequest           `json:"lineItems" binding:"required,min=1,dive"`
}

// UpdatePaymentStatusRequest marks a transaction paid (1) or unpaid (0).
type UpdatePaymentStatusRequest struct {
	PaymentStatus int `json:"paymentStatus" binding:"oneof=0 1"`
}

// LineItemResponse mirrors a stored line item.
type LineItemResponse struct {
	LineItemID  string          `json:"lineItemID"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// JournalPostingResponse mirrors a stored journal posting.
type JournalPostingResponse struct {
	PostingID string          `json:"postingID"`
	AccountID string          `json:"accountID"`
	Side      string          `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo,omitempty"`
}

// TransactionResponse is the full view of a recorded transaction.
type TransactionResponse struct {
	TransactionID     string                   `json:"transactionID"`
	Direction         string                   `json:"direction"`
	BookingDate       time.Time                `json:"bookingDate"`
	InvoiceDate       time.Time                `json:"invoiceDate"`
	DueDate           time.Time                `json:"dueDate"`
	TaxInvoiceNo      string                   `json:"taxInvoiceNo,omitempty"`
	CompanyID         *string                  `json:"companyID,omitempty"`
	PartnerID         *string                  `json:"partnerID,omitempty"`
	DebitAccountID    string                   `json:"debitAccountID"`
	KreditAccountID   string                   `json:"kreditAccountID"`
	VatID             *string                  `json:"vatID,omitempty"`
	WithholdingID     *string                  `json:"withholdingID,omitempty"`
	BaseAmount        decimal.Decimal          `json:"baseAmount"`
	VatAmount         decimal.Decimal          `json:"vatAmount"`
	WithholdingAmount decimal.Decimal          `json:"withholdingAmount"`
	GrandTotal        decimal.Decimal          `json:"grandTotal"`
	PaymentStatus     int                      `json:"paymentStatus"`
	CreatedAt         time.Time                `json:"createdAt"`
	CreatedBy         string                   `json:"createdBy"`
	LineItems         []LineItemResponse       `json:"lineItems"`
	Postings          []JournalPostingResponse `json:"postings"`
}

// ListTransactionsParams carries listing filters from the handler layer.
type ListTransactionsParams struct {
	Month     int
	Year      int
	Direction string
	Search    string
	Limit     int
	NextToken *string
}

// ListTransactionsResponse is one page of transaction headers.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain transaction (with children) to its DTO.
func ToTransactionResponse(t *domain.TaxTransaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:     t.TransactionID,
		Direction:         string(t.Direction),
		BookingDate:       t.BookingDate,
		InvoiceDate:       t.InvoiceDate,
		DueDate:           t.DueDate,
		TaxInvoiceNo:      t.TaxInvoiceNo,
		CompanyID:         t.CompanyID,
		PartnerID:         t.PartnerID,
		DebitAccountID:    t.DebitAccountID,
		KreditAccountID:   t.KreditAccountID,
		VatID:             t.VatID,
		WithholdingID:     t.WithholdingID,
		BaseAmount:        t.BaseAmount,
		VatAmount:         t.VatAmount,
		WithholdingAmount: t.WithholdingAmount,
		GrandTotal:        t.GrandTotal,
		PaymentStatus:     int(t.PaymentStatus),
		CreatedAt:         t.CreatedAt,
		CreatedBy:         t.CreatedBy,
		LineItems:         make([]LineItemResponse, len(t.LineItems)),
		Postings:          make([]JournalPostingResponse, len(t.Postings)),
	}
	for i, li := range t.LineItems {
		resp.LineItems[i] = LineItemResponse{
			LineItemID:  li.LineItemID,
			Name:        li.Name,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Subtotal:    li.Subtotal,
		}
	}
	for i, p := range t.Postings {
		resp.Postings[i] = JournalPostingResponse{
			PostingID: p.PostingID,
			AccountID: p.AccountID,
			Side:      string(p.Side),
			Amount:    p.Amount,
			Memo:      p.Memo,
		}
	}
	return resp
}
