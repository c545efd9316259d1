package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	transactionRepo := newPgxTaxTransactionRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	partnerRepo := newPgxPartnerRepository(dbPool)
	companyRepo := newPgxCompanyRepository(dbPool)
	taxRegistryRepo := newPgxTaxRegistryRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TransactionRepo: transactionRepo,
		AccountRepo:     accountRepo,
		PartnerRepo:     partnerRepo,
		CompanyRepo:     companyRepo,
		TaxRegistry:     taxRegistryRepo,
		UserRepo:        userRepo,
	}
}
