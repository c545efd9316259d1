package domain

import "github.com/shopspring/decimal"

// Account is one entry of the chart of accounts. Account IDs are the
// caller-assigned COA codes (e.g. "1-10001"), not generated UUIDs.
type Account struct {
	AccountID string `json:"accountID"`
	Name      string `json:"name"`
	AuditFields
}

// PartnerType distinguishes customers from vendors.
type PartnerType string

const (
	Customer PartnerType = "CUSTOMER"
	Vendor   PartnerType = "VENDOR"
)

// Partner is a counterparty referenced by transactions.
type Partner struct {
	PartnerID string      `json:"partnerID"`
	Name      string      `json:"name"`
	NPWP      string      `json:"npwp"` // taxpayer identification number, optional
	Type      PartnerType `json:"type"` // optional
	AuditFields
}

// Company is a legal entity transactions can be booked under.
type Company struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	NPWP      string `json:"npwp"`    // optional
	Address   string `json:"address"` // optional
	AuditFields
}

// VatComponent is a VAT-equivalent (PPN) master record. The output account
// receives the tax posting on sales, the input account on purchases.
type VatComponent struct {
	VatID           string          `json:"vatID"`
	Label           string          `json:"label"` // e.g. "PPN 11%"
	Rate            decimal.Decimal `json:"rate"`  // decimal fraction, e.g. 0.11
	OutputAccountID string          `json:"outputAccountID"`
	InputAccountID  string          `json:"inputAccountID"`
	AuditFields
}

// WithholdingComponent is a withholding-tax-equivalent (PPh) master record.
// The sale account holds the prepaid-tax asset when the counterparty withholds
// from us; the purchase account holds the payable when we withhold from them.
type WithholdingComponent struct {
	WithholdingID     string          `json:"withholdingID"`
	Label             string          `json:"label"` // e.g. "PPh 23"
	Kind              string          `json:"kind"`  // e.g. "23", "4(2)", optional
	Rate              decimal.Decimal `json:"rate"`  // decimal fraction, e.g. 0.02
	SaleAccountID     string          `json:"saleAccountID"`
	PurchaseAccountID string          `json:"purchaseAccountID"`
	AuditFields
}
