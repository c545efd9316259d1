package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	portsrepo "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
	"github.com/mitrapajak/tax-ledger-backend/internal/middleware"
)

// accountService manages the chart of accounts.
type accountService struct {
	repo  portsrepo.AccountRepositoryFacade
	clock clockFunc
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, clock clockFunc) portssvc.AccountSvcFacade {
	return &accountService{repo: repo, clock: normalizeClock(clock)}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account := domain.Account{
		AccountID:   req.AccountID,
		Name:        req.Name,
		AuditFields: newAuditFields(s.clock(), creatorUserID),
	}
	if err := s.repo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, req.AccountID)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	account.Name = req.Name
	touchAuditFields(&account.AuditFields, s.clock(), userID)
	if err := s.repo.UpdateAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.repo.DeleteAccount(ctx, accountID); err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	return nil
}

// partnerService manages customers and vendors.
type partnerService struct {
	repo  portsrepo.PartnerRepositoryFacade
	clock clockFunc
}

// NewPartnerService creates a new PartnerService.
func NewPartnerService(repo portsrepo.PartnerRepositoryFacade, clock clockFunc) portssvc.PartnerSvcFacade {
	return &partnerService{repo: repo, clock: normalizeClock(clock)}
}

var _ portssvc.PartnerSvcFacade = (*partnerService)(nil)

func (s *partnerService) CreatePartner(ctx context.Context, req dto.CreatePartnerRequest, creatorUserID string) (*domain.Partner, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	partner := domain.Partner{
		PartnerID:   req.PartnerID,
		Name:        req.Name,
		NPWP:        req.NPWP,
		Type:        domain.PartnerType(req.Type),
		AuditFields: newAuditFields(s.clock(), creatorUserID),
	}
	if err := s.repo.SavePartner(ctx, partner); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: partner %s already exists", apperrors.ErrDuplicate, req.PartnerID)
		}
		logger.Error("Failed to save partner", slog.String("error", err.Error()), slog.String("partner_id", req.PartnerID))
		return nil, fmt.Errorf("failed to save partner: %w", err)
	}
	return &partner, nil
}

func (s *partnerService) GetPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	partner, err := s.repo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find partner %s: %w", partnerID, err)
	}
	return partner, nil
}

func (s *partnerService) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	partners, err := s.repo.ListPartners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}

func (s *partnerService) UpdatePartner(ctx context.Context, partnerID string, req dto.UpdatePartnerRequest, userID string) (*domain.Partner, error) {
	partner, err := s.repo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find partner %s: %w", partnerID, err)
	}
	partner.Name = req.Name
	partner.NPWP = req.NPWP
	if req.Type != "" {
		partner.Type = domain.PartnerType(req.Type)
	}
	touchAuditFields(&partner.AuditFields, s.clock(), userID)
	if err := s.repo.UpdatePartner(ctx, *partner); err != nil {
		return nil, fmt.Errorf("failed to update partner %s: %w", partnerID, err)
	}
	return partner, nil
}

func (s *partnerService) DeletePartner(ctx context.Context, partnerID string) error {
	if err := s.repo.DeletePartner(ctx, partnerID); err != nil {
		return fmt.Errorf("failed to delete partner %s: %w", partnerID, err)
	}
	return nil
}

// companyService manages the issuing company profiles.
type companyService struct {
	repo  portsrepo.CompanyRepositoryFacade
	clock clockFunc
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(repo portsrepo.CompanyRepositoryFacade, clock clockFunc) portssvc.CompanySvcFacade {
	return &companyService{repo: repo, clock: normalizeClock(clock)}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company := domain.Company{
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		NPWP:        req.NPWP,
		Address:     req.Address,
		AuditFields: newAuditFields(s.clock(), creatorUserID),
	}
	if err := s.repo.SaveCompany(ctx, company); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: company %s already exists", apperrors.ErrDuplicate, req.CompanyID)
		}
		logger.Error("Failed to save company", slog.String("error", err.Error()), slog.String("company_id", req.CompanyID))
		return nil, fmt.Errorf("failed to save company: %w", err)
	}
	return &company, nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.repo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, userID string) (*domain.Company, error) {
	company, err := s.repo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	company.Name = req.Name
	company.NPWP = req.NPWP
	company.Address = req.Address
	touchAuditFields(&company.AuditFields, s.clock(), userID)
	if err := s.repo.UpdateCompany(ctx, *company); err != nil {
		return nil, fmt.Errorf("failed to update company %s: %w", companyID, err)
	}
	return company, nil
}

func (s *companyService) DeleteCompany(ctx context.Context, companyID string) error {
	if err := s.repo.DeleteCompany(ctx, companyID); err != nil {
		return fmt.Errorf("failed to delete company %s: %w", companyID, err)
	}
	return nil
}

// taxRegistryService manages VAT and withholding component definitions.
type taxRegistryService struct {
	repo  portsrepo.TaxRegistryFacade
	clock clockFunc
}

// NewTaxRegistryService creates a new TaxRegistryService.
func NewTaxRegistryService(repo portsrepo.TaxRegistryFacade, clock clockFunc) portssvc.TaxRegistrySvcFacade {
	return &taxRegistryService{repo: repo, clock: normalizeClock(clock)}
}

var _ portssvc.TaxRegistrySvcFacade = (*taxRegistryService)(nil)

func (s *taxRegistryService) CreateVatComponent(ctx context.Context, req dto.CreateVatComponentRequest, creatorUserID string) (*domain.VatComponent, error) {
	if req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", apperrors.ErrValidation)
	}
	vat := domain.VatComponent{
		VatID:           uuid.NewString(),
		Label:           req.Label,
		Rate:            req.Rate,
		OutputAccountID: req.OutputAccountID,
		InputAccountID:  req.InputAccountID,
		AuditFields:     newAuditFields(s.clock(), creatorUserID),
	}
	if err := s.repo.SaveVatComponent(ctx, vat); err != nil {
		return nil, fmt.Errorf("failed to save VAT component: %w", err)
	}
	return &vat, nil
}

func (s *taxRegistryService) GetVatComponentByID(ctx context.Context, vatID string) (*domain.VatComponent, error) {
	vat, err := s.repo.GetVatComponent(ctx, vatID)
	if err != nil {
		return nil, fmt.Errorf("failed to find VAT component %s: %w", vatID, err)
	}
	return vat, nil
}

func (s *taxRegistryService) ListVatComponents(ctx context.Context) ([]domain.VatComponent, error) {
	vats, err := s.repo.ListVatComponents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list VAT components: %w", err)
	}
	return vats, nil
}

func (s *taxRegistryService) UpdateVatComponent(ctx context.Context, vatID string, req dto.UpdateVatComponentRequest, userID string) (*domain.VatComponent, error) {
	if req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", apperrors.ErrValidation)
	}
	vat, err := s.repo.GetVatComponent(ctx, vatID)
	if err != nil {
		return nil, fmt.Errorf("failed to find VAT component %s: %w", vatID, err)
	}
	vat.Label = req.Label
	vat.Rate = req.Rate
	vat.OutputAccountID = req.OutputAccountID
	vat.InputAccountID = req.InputAccountID
	touchAuditFields(&vat.AuditFields, s.clock(), userID)
	if err := s.repo.UpdateVatComponent(ctx, *vat); err != nil {
		return nil, fmt.Errorf("failed to update VAT component %s: %w", vatID, err)
	}
	return vat, nil
}

func (s *taxRegistryService) DeleteVatComponent(ctx context.Context, vatID string) error {
	if err := s.repo.DeleteVatComponent(ctx, vatID); err != nil {
		return fmt.Errorf("failed to delete VAT component %s: %w", vatID, err)
	}
	return nil
}

func (s *taxRegistryService) CreateWithholdingComponent(ctx context.Context, req dto.CreateWithholdingComponentRequest, creatorUserID string) (*domain.WithholdingComponent, error) {
	if req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", apperrors.ErrValidation)
	}
	wht := domain.WithholdingComponent{
		WithholdingID:     uuid.NewString(),
		Label:             req.Label,
		Kind:              req.Kind,
		Rate:              req.Rate,
		SaleAccountID:     req.SaleAccountID,
		PurchaseAccountID: req.PurchaseAccountID,
		AuditFields:       newAuditFields(s.clock(), creatorUserID),
	}
	if err := s.repo.SaveWithholdingComponent(ctx, wht); err != nil {
		return nil, fmt.Errorf("failed to save withholding component: %w", err)
	}
	return &wht, nil
}

func (s *taxRegistryService) GetWithholdingComponentByID(ctx context.Context, withholdingID string) (*domain.WithholdingComponent, error) {
	wht, err := s.repo.GetWithholdingComponent(ctx, withholdingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find withholding component %s: %w", withholdingID, err)
	}
	return wht, nil
}

func (s *taxRegistryService) ListWithholdingComponents(ctx context.Context) ([]domain.WithholdingComponent, error) {
	whts, err := s.repo.ListWithholdingComponents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list withholding components: %w", err)
	}
	return whts, nil
}

func (s *taxRegistryService) UpdateWithholdingComponent(ctx context.Context, withholdingID string, req dto.UpdateWithholdingComponentRequest, userID string) (*domain.WithholdingComponent, error) {
	if req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", apperrors.ErrValidation)
	}
	wht, err := s.repo.GetWithholdingComponent(ctx, withholdingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find withholding component %s: %w", withholdingID, err)
	}
	wht.Label = req.Label
	wht.Kind = req.Kind
	wht.Rate = req.Rate
	wht.SaleAccountID = req.SaleAccountID
	wht.PurchaseAccountID = req.PurchaseAccountID
	touchAuditFields(&wht.AuditFields, s.clock(), userID)
	if err := s.repo.UpdateWithholdingComponent(ctx, *wht); err != nil {
		return nil, fmt.Errorf("failed to update withholding component %s: %w", withholdingID, err)
	}
	return wht, nil
}

func (s *taxRegistryService) DeleteWithholdingComponent(ctx context.Context, withholdingID string) error {
	if err := s.repo.DeleteWithholdingComponent(ctx, withholdingID); err != nil {
		return fmt.Errorf("failed to delete withholding component %s: %w", withholdingID, err)
	}
	return nil
}
