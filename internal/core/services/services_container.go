package services

import (
	portsrepo "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, nil)
	container.Partner = NewPartnerService(repos.PartnerRepo, nil)
	container.Company = NewCompanyService(repos.CompanyRepo, nil)
	container.TaxRegistry = NewTaxRegistryService(repos.TaxRegistry, nil)
	container.User = NewUserService(repos.UserRepo, nil)

	// The ledger engine consumes the tax registry through its read side only.
	container.Ledger = NewLedgerService(repos.TransactionRepo, repos.TaxRegistry, nil)
	container.Reporting = NewReportingService(repos.TransactionRepo, repos.PartnerRepo, repos.CompanyRepo)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
