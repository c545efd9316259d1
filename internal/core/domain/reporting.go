package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodSummary aggregates one direction's transactions over a calendar month.
type PeriodSummary struct {
	Direction        TransactionDirection `json:"direction"`
	Count            int64                `json:"count"`
	BaseTotal        decimal.Decimal      `json:"baseTotal"`
	VatTotal         decimal.Decimal      `json:"vatTotal"`
	WithholdingTotal decimal.Decimal      `json:"withholdingTotal"`
	GrandTotal       decimal.Decimal      `json:"grandTotal"`
}

/// RecapRow is one line of the tax recap export: a transaction header joined
// with its partner's display name.
type RecapRow struct {
	TransactionID     string
	TaxInvoiceNo      string
	BookingDate       time.Time
	Direction         TransactionDirection
	PartnerName       string // "-" when no partner is linked
	BaseAmount        decimal.Decimal
	VatAmount         decimal.Decimal
	WithholdingAmount decimal.Decimal
	GrandTotal        decimal.Decimal
}
