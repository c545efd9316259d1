package mapping

import (
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	"github.com/mitrapajak/tax-ledger-backend/internal/models"
)

// ToModelAccount converts a domain account to its model shape
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		Name:        d.Name,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model account to its domain shape
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		Name:        m.Name,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPartner converts a domain partner to its model shape
func ToModelPartner(d domain.Partner) models.Partner {
	return models.Partner{
		PartnerID:   d.PartnerID,
		Name:        d.Name,
		NPWP:        d.NPWP,
		Type:        string(d.Type),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPartner converts a model partner to its domain shape
func ToDomainPartner(m models.Partner) domain.Partner {
	return domain.Partner{
		PartnerID:   m.PartnerID,
		Name:        m.Name,
		NPWP:        m.NPWP,
		Type:        domain.PartnerType(m.Type),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCompany converts a domain company to its model shape
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		NPWP:        d.NPWP,
		Address:     d.Address,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model company to its domain shape
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		NPWP:        m.NPWP,
		Address:     m.Address,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelVatComponent converts a domain VAT component to its model shape
func ToModelVatComponent(d domain.VatComponent) models.VatComponent {
	return models.VatComponent{
		VatID:           d.VatID,
		Label:           d.Label,
		Rate:            d.Rate,
		OutputAccountID: d.OutputAccountID,
		InputAccountID:  d.InputAccountID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVatComponent converts a model VAT component to its domain shape
func ToDomainVatComponent(m models.VatComponent) domain.VatComponent {
	return domain.VatComponent{
		VatID:           m.VatID,
		Label:           m.Label,
		Rate:            m.Rate,
		OutputAccountID: m.OutputAccountID,
		InputAccountID:  m.InputAccountID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelWithholdingComponent converts a domain withholding component to its model shape
func ToModelWithholdingComponent(d domain.WithholdingComponent) models.WithholdingComponent {
	return models.WithholdingComponent{
		WithholdingID:     d.WithholdingID,
		Label:             d.Label,
		Kind:              d.Kind,
		Rate:              d.Rate,
		SaleAccountID:     d.SaleAccountID,
		PurchaseAccountID: d.PurchaseAccountID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWithholdingComponent converts a model withholding component to its domain shape
func ToDomainWithholdingComponent(m models.WithholdingComponent) domain.WithholdingComponent {
	return domain.WithholdingComponent{
		WithholdingID:     m.WithholdingID,
		Label:             m.Label,
		Kind:              m.Kind,
		Rate:              m.Rate,
		SaleAccountID:     m.SaleAccountID,
		PurchaseAccountID: m.PurchaseAccountID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
