package services

import (
	"context"

	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
)

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
}

// PartnerSvcFacade manages customers and vendors.
type PartnerSvcFacade interface {
	CreatePartner(ctx context.Context, req dto.CreatePartnerRequest, creatorUserID string) (*domain.Partner, error)
	GetPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)
	ListPartners(ctx context.Context) ([]domain.Partner, error)
	UpdatePartner(ctx context.Context, partnerID string, req dto.UpdatePartnerRequest, userID string) (*domain.Partner, error)
	DeletePartner(ctx context.Context, partnerID string) error
}

// CompanySvcFacade manages the issuing company profiles.
type CompanySvcFacade interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, userID string) (*domain.Company, error)
	DeleteCompany(ctx context.Context, companyID string) error
}

// TaxRegistrySvcFacade manages VAT and withholding component definitions.
type TaxRegistrySvcFacade interface {
	CreateVatComponent(ctx context.Context, req dto.CreateVatComponentRequest, creatorUserID string) (*domain.VatComponent, error)
	GetVatComponentByID(ctx context.Context, vatID string) (*domain.VatComponent, error)
	ListVatComponents(ctx context.Context) ([]domain.VatComponent, error)
	UpdateVatComponent(ctx context.Context, vatID string, req dto.UpdateVatComponentRequest, userID string) (*domain.VatComponent, error)
	DeleteVatComponent(ctx context.Context, vatID string) error

	CreateWithholdingComponent(ctx context.Context, req dto.CreateWithholdingComponentRequest, creatorUserID string) (*domain.WithholdingComponent, error)
	GetWithholdingComponentByID(ctx context.Context, withholdingID string) (*domain.WithholdingComponent, error)
	ListWithholdingComponents(ctx context.Context) ([]domain.WithholdingComponent, error)
	UpdateWithholdingComponent(ctx context.Context, withholdingID string, req dto.UpdateWithholdingComponentRequest, userID string) (*domain.WithholdingComponent, error)
	DeleteWithholdingComponent(ctx context.Context, withholdingID string) error
}
