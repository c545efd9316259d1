package models

import "github.com/shopspring/decimal"

// Account is the persistence shape of one chart-of-accounts entry.
type Account struct {
	AccountID string `db:"account_id"`
	Name      string `db:"name"`
	AuditFields
}

// Partner is the persistence shape of a counterparty.
type Partner struct {
	PartnerID string `db:"partner_id"`
	Name      string `db:"name"`
	NPWP      string `db:"npwp"`
	Type      string `db:"type"`
	AuditFields
}

// Company is the persistence shape of an issuing company.
type Company struct {
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	NPWP      string `db:"npwp"`
	Address   string `db:"address"`
	AuditFields
}

// VatComponent is the persistence shape of a VAT master record.
type VatComponent struct {
	VatID           string          `db:"vat_id"`
	Label           string          `db:"label"`
	Rate            decimal.Decimal `db:"rate"`
	OutputAccountID string          `db:"output_account_id"`
	InputAccountID  string          `db:"input_account_id"`
	AuditFields
}

// WithholdingComponent is the persistence shape of a withholding master record.
type WithholdingComponent struct {
	WithholdingID     string          `db:"withholding_id"`
	Label             string          `db:"label"`
	Kind              string          `db:"kind"`
	Rate              decimal.Decimal `db:"rate"`
	SaleAccountID     string          `db:"sale_account_id"`
	PurchaseAccountID string          `db:"purchase_account_id"`
	AuditFields
}
