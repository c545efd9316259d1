package dto

import (
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest creates one chart-of-accounts entry. The account code
// is caller-assigned, matching how accountants reference COA entries.
type CreateAccountRequest struct {
	AccountID string `json:"accountID" binding:"required,max=20"`
	Name      string `json:"name" binding:"required,max=100"`
}

// UpdateAccountRequest renames an account.
type UpdateAccountRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreatePartnerRequest struct {
	PartnerID string `json:"partnerID" binding:"required,max=50"`
	Name      string `json:"name" binding:"required,max=100"`
	NPWP      string `json:"npwp" binding:"max=20"`
	Type      string `json:"type" binding:"omitempty,oneof=CUSTOMER VENDOR"`
}

type UpdatePartnerRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	NPWP string `json:"npwp" binding:"max=20"`
	Type string `json:"type" binding:"omitempty,oneof=CUSTOMER VENDOR"`
}

type CreateCompanyRequest struct {
	CompanyID string `json:"companyID" binding:"required,max=50"`
	Name      string `json:"name" binding:"required,max=100"`
	NPWP      string `json:"npwp" binding:"max=20"`
	Address   string `json:"address"`
}

type UpdateCompanyRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	NPWP    string `json:"npwp" binding:"max=20"`
	Address string `json:"address"`
}

// CreateVatComponentRequest defines a VAT-equivalent component. Rate is a
// decimal fraction (0.11 for 11%). Both posting accounts are mandatory so a
// component can always be resolved regardless of transaction direction.
type CreateVatComponentRequest struct {
	Label           string          `json:"label" binding:"required"`
	Rate            decimal.Decimal `json:"rate" binding:"required,dgte0"`
	OutputAccountID string          `json:"outputAccountID" binding:"required"`
	InputAccountID  string          `json:"inputAccountID" binding:"required"`
}

type UpdateVatComponentRequest struct {
	Label           string          `json:"label" binding:"required"`
	Rate            decimal.Decimal `json:"rate" binding:"required,dgte0"`
	OutputAccountID string          `json:"outputAccountID" binding:"required"`
	InputAccountID  string          `json:"inputAccountID" binding:"required"`
}

type CreateWithholdingComponentRequest struct {
	Label             string          `json:"label" binding:"required"`
	Kind              string          `json:"kind"`
	Rate              decimal.Decimal `json:"rate" binding:"required,dgte0"`
	SaleAccountID     string          `json:"saleAccountID" binding:"required"`
	PurchaseAccountID string          `json:"purchaseAccountID" binding:"required"`
}

type UpdateWithholdingComponentRequest struct {
	Label             string          `json:"label" binding:"required"`
	Kind              string          `json:"kind"`
	Rate              decimal.Decimal `json:"rate" binding:"required,dgte0"`
	SaleAccountID     string          `json:"saleAccountID" binding:"required"`
	PurchaseAccountID string          `json:"purchaseAccountID" binding:"required"`
}

// AccountResponse mirrors a chart-of-accounts entry.
type AccountResponse struct {
	AccountID string `json:"accountID"`
	Name      string `json:"name"`
}

func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{AccountID: a.AccountID, Name: a.Name}
}

type PartnerResponse struct {
	PartnerID string `json:"partnerID"`
	Name      string `json:"name"`
	NPWP      string `json:"npwp,omitempty"`
	Type      string `json:"type,omitempty"`
}

func ToPartnerResponse(p *domain.Partner) PartnerResponse {
	return PartnerResponse{PartnerID: p.PartnerID, Name: p.Name, NPWP: p.NPWP, Type: string(p.Type)}
}

type CompanyResponse struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	NPWP      string `json:"npwp,omitempty"`
	Address   string `json:"address,omitempty"`
}

func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{CompanyID: c.CompanyID, Name: c.Name, NPWP: c.NPWP, Address: c.Address}
}

type VatComponentResponse struct {
	VatID           string          `json:"vatID"`
	Label           string          `json:"label"`
	Rate            decimal.Decimal `json:"rate"`
	OutputAccountID string          `json:"outputAccountID"`
	InputAccountID  string          `json:"inputAccountID"`
}

func ToVatComponentResponse(v *domain.VatComponent) VatComponentResponse {
	return VatComponentResponse{
		VatID:           v.VatID,
		Label:           v.Label,
		Rate:            v.Rate,
		OutputAccountID: v.OutputAccountID,
		InputAccountID:  v.InputAccountID,
	}
}

type WithholdingComponentResponse struct {
	WithholdingID     string          `json:"withholdingID"`
	Label             string          `json:"label"`
	Kind              string          `json:"kind,omitempty"`
	Rate              decimal.Decimal `json:"rate"`
	SaleAccountID     string          `json:"saleAccountID"`
	PurchaseAccountID string          `json:"purchaseAccountID"`
}

func ToWithholdingComponentResponse(w *domain.WithholdingComponent) WithholdingComponentResponse {
	return WithholdingComponentResponse{
		WithholdingID:     w.WithholdingID,
		Label:             w.Label,
		Kind:              w.Kind,
		Rate:              w.Rate,
		SaleAccountID:     w.SaleAccountID,
		PurchaseAccountID: w.PurchaseAccountID,
	}
}
