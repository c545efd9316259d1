package repositories

import (
	"context"

	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
)

// AccountRepositoryFacade provides access to the chart of accounts.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeleteAccount(ctx context.Context, accountID string) error
}

// PartnerRepositoryFacade provides access to counterparty master data.
type PartnerRepositoryFacade interface {
	SavePartner(ctx context.Context, partner domain.Partner) error
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)
	ListPartners(ctx context.Context) ([]domain.Partner, error)
	UpdatePartner(ctx context.Context, partner domain.Partner) error
	DeletePartner(ctx context.Context, partnerID string) error
}

// CompanyRepositoryFacade provides access to company master data.
type CompanyRepositoryFacade interface {
	SaveCompany(ctx context.Context, company domain.Company) error
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	UpdateCompany(ctx context.Context, company domain.Company) error
	DeleteCompany(ctx context.Context, companyID string) error
}

// TaxRegistryReader is the lookup interface the ledger engine consumes: it
// resolves tax component references into rates and posting accounts.
type TaxRegistryReader interface {
	// GetVatComponent returns apperrors.ErrNotFound for an unknown reference.
	GetVatComponent(ctx context.Context, vatID string) (*domain.VatComponent, error)

	// GetWithholdingComponent returns apperrors.ErrNotFound for an unknown reference.
	GetWithholdingComponent(ctx context.Context, withholdingID string) (*domain.WithholdingComponent, error)
}

// TaxRegistryFacade extends the lookup interface with master maintenance.
type TaxRegistryFacade interface {
	TaxRegistryReader

	SaveVatComponent(ctx context.Context, vat domain.VatComponent) error
	ListVatComponents(ctx context.Context) ([]domain.VatComponent, error)
	UpdateVatComponent(ctx context.Context, vat domain.VatComponent) error
	DeleteVatComponent(ctx context.Context, vatID string) error

	SaveWithholdingComponent(ctx context.Context, wht domain.WithholdingComponent) error
	ListWithholdingComponents(ctx context.Context) ([]domain.WithholdingComponent, error)
	UpdateWithholdingComponent(ctx context.Context, wht domain.WithholdingComponent) error
	DeleteWithholdingComponent(ctx context.Context, withholdingID string) error
}
