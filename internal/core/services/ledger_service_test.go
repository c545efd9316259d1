package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	portsrepo "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
)

// MockTaxTransactionRepository is a mock implementation of portsrepo.TaxTransactionRepositoryWithTx
type MockTaxTransactionRepository struct {
	mock.Mock
}

func (m *MockTaxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TaxTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxTransaction), args.Error(1)
}

func (m *MockTaxTransactionRepository) FindLastTransactionIDBySuffix(ctx context.Context, yearSuffix string) (*string, error) {
	args := m.Called(ctx, yearSuffix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockTaxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter) ([]domain.TaxTransaction, *string, error) {
	args := m.Called(ctx, filter)
	var txns []domain.TaxTransaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.TaxTransaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTaxTransactionRepository) SummarizeByPeriod(ctx context.Context, month, year int) ([]domain.PeriodSummary, error) {
	args := m.Called(ctx, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodSummary), args.Error(1)
}

func (m *MockTaxTransactionRepository) ListTransactionsForRecap(ctx context.Context, month, year int) ([]domain.RecapRow, error) {
	args := m.Called(ctx, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecapRow), args.Error(1)
}

func (m *MockTaxTransactionRepository) CreateTransaction(ctx context.Context, txn domain.TaxTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTaxTransactionRepository) ReplaceTransaction(ctx context.Context, txn domain.TaxTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTaxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockTaxTransactionRepository) UpdatePaymentStatus(ctx context.Context, transactionID string, status domain.PaymentStatus, updatedBy string) error {
	args := m.Called(ctx, transactionID, status, updatedBy)
	return args.Error(0)
}

func (m *MockTaxTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTaxTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTaxTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockTaxRegistry is a mock implementation of portsrepo.TaxRegistryReader
type MockTaxRegistry struct {
	mock.Mock
}

func (m *MockTaxRegistry) GetVatComponent(ctx context.Context, vatID string) (*domain.VatComponent, error) {
	args := m.Called(ctx, vatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VatComponent), args.Error(1)
}

func (m *MockTaxRegistry) GetWithholdingComponent(ctx context.Context, withholdingID string) (*domain.WithholdingComponent, error) {
	args := m.Called(ctx, withholdingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithholdingComponent), args.Error(1)
}

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockTaxTransactionRepository
	mockTaxes *MockTaxRegistry
	service   portssvc.LedgerSvcFacade
	ctx       context.Context
	now       time.Time
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockTaxTransactionRepository)
	s.mockTaxes = new(MockTaxRegistry)
	s.now = time.Date(2025, 5, 10, 8, 30, 0, 0, time.UTC)
	s.service = services.NewLedgerService(s.mockRepo, s.mockTaxes, func() time.Time { return s.now })
	s.ctx = context.Background()
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// createRequest returns a sale with two lines summing to a 200000 base.
func (s *LedgerServiceTestSuite) createRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Direction:       domain.Sale,
		BookingDate:     time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
		InvoiceDate:     time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		DebitAccountID:  "1201",
		KreditAccountID: "4101",
		LineItems: []dto.LineItemRequest{
			{Name: "Consulting", Quantity: dec("1"), UnitPrice: dec("150000")},
			{Name: "Travel", Quantity: dec("2"), UnitPrice: dec("25000")},
		},
	}
}

func (s *LedgerServiceTestSuite) vatComponent() *domain.VatComponent {
	return &domain.VatComponent{
		VatID:           "ppn-11",
		Label:           "PPN 11%",
		Rate:            dec("0.11"),
		OutputAccountID: "2401",
		InputAccountID:  "1401",
	}
}

func (s *LedgerServiceTestSuite) withholdingComponent() *domain.WithholdingComponent {
	return &domain.WithholdingComponent{
		WithholdingID:     "pph-23",
		Label:             "PPh 23",
		Kind:              "23",
		Rate:              dec("0.02"),
		SaleAccountID:     "1501",
		PurchaseAccountID: "2501",
	}
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_Success() {
	req := s.createRequest()
	s.mockRepo.On("FindLastTransactionIDBySuffix", s.ctx, "25").Return(nil, nil).Once()

	var saved domain.TaxTransaction
	s.mockRepo.On("CreateTransaction", s.ctx, mock.AnythingOfType("domain.TaxTransaction")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.TaxTransaction) }).
		Return(nil).Once()

	txn, err := s.service.RecordTransaction(s.ctx, req, "user-1")

	s.Require().NoError(err)
	s.Equal("INV-00001/25", txn.TransactionID)
	s.True(dec("200000").Equal(txn.BaseAmount))
	s.True(txn.VatAmount.IsZero())
	s.True(txn.WithholdingAmount.IsZero())
	s.True(dec("200000").Equal(txn.GrandTotal))
	s.Equal(domain.Unpaid, txn.PaymentStatus)
	s.Equal("user-1", txn.CreatedBy)
	s.True(txn.CreatedAt.Equal(s.now))

	s.Require().Len(saved.LineItems, 2)
	s.Require().Len(saved.Postings, 2)
	for _, li := range saved.LineItems {
		s.NotEmpty(li.LineItemID)
		s.Equal("INV-00001/25", li.TransactionID)
	}
	for _, p := range saved.Postings {
		s.NotEmpty(p.PostingID)
		s.Equal("INV-00001/25", p.TransactionID)
	}
	s.mockRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_WithVatAndWithholding() {
	req := s.createRequest()
	req.VatID = strPtr("ppn-11")
	req.WithholdingID = strPtr("pph-23")

	s.mockTaxes.On("GetVatComponent", s.ctx, "ppn-11").Return(s.vatComponent(), nil).Once()
	s.mockTaxes.On("GetWithholdingComponent", s.ctx, "pph-23").Return(s.withholdingComponent(), nil).Once()
	s.mockRepo.On("FindLastTransactionIDBySuffix", s.ctx, "25").Return(strPtr("INV-00041/25"), nil).Once()

	var saved domain.TaxTransaction
	s.mockRepo.On("CreateTransaction", s.ctx, mock.AnythingOfType("domain.TaxTransaction")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.TaxTransaction) }).
		Return(nil).Once()

	txn, err := s.service.RecordTransaction(s.ctx, req, "user-1")

	s.Require().NoError(err)
	s.Equal("INV-00042/25", txn.TransactionID)
	s.True(dec("22000").Equal(txn.VatAmount))
	s.True(dec("4000").Equal(txn.WithholdingAmount))
	s.True(dec("218000").Equal(txn.GrandTotal))

	s.Require().Len(saved.Postings, 4)
	debits := decimal.Zero
	credits := decimal.Zero
	for _, p := range saved.Postings {
		if p.Side == domain.Debit {
			debits = debits.Add(p.Amount)
		} else {
			credits = credits.Add(p.Amount)
		}
	}
	s.True(debits.Equal(credits))
	s.mockRepo.AssertExpectations(s.T())
	s.mockTaxes.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_ZeroRateVat() {
	req := s.createRequest()
	req.VatID = strPtr("ppn-0")

	zeroRated := &domain.VatComponent{
		VatID:           "ppn-0",
		Label:           "PPN 0% ekspor",
		Rate:            dec("0"),
		OutputAccountID: "2401",
		InputAccountID:  "1401",
	}
	s.mockTaxes.On("GetVatComponent", s.ctx, "ppn-0").Return(zeroRated, nil).Once()
	s.mockRepo.On("FindLastTransactionIDBySuffix", s.ctx, "25").Return(nil, nil).Once()

	var saved domain.TaxTransaction
	s.mockRepo.On("CreateTransaction", s.ctx, mock.AnythingOfType("domain.TaxTransaction")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.TaxTransaction) }).
		Return(nil).Once()

	txn, err := s.service.RecordTransaction(s.ctx, req, "user-1")

	s.Require().NoError(err)
	s.Equal(strPtr("ppn-0"), txn.VatID)
	s.True(txn.VatAmount.IsZero())
	s.True(dec("200000").Equal(txn.GrandTotal))
	s.Require().Len(saved.Postings, 2)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_UnknownVatComponent() {
	req := s.createRequest()
	req.VatID = strPtr("ghost")

	s.mockTaxes.On("GetVatComponent", s.ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	txn, err := s.service.RecordTransaction(s.ctx, req, "user-1")

	s.Nil(txn)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.mockRepo.AssertNotCalled(s.T(), "CreateTransaction", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_SameDebitAndKreditAccount() {
	req := s.createRequest()
	req.KreditAccountID = req.DebitAccountID

	txn, err := s.service.RecordTransaction(s.ctx, req, "user-1")

	s.Nil(txn)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "FindLastTransactionIDBySuffix", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_RetriesOnceOnDuplicate() {
	req := s.createRequest()

	s.mockRepo.On("FindLastTransactionIDBySuffix", s.ctx, "25").Return(nil, nil).Once()
	s.mockRepo.On("CreateTransaction", s.ctx, mock.MatchedBy(func(t domain.TaxTransaction) bool {
		return t.TransactionID == "INV-00001/25"
	})).Return(apperrors.ErrDuplicate).Once()

	s.mockRepo.On("FindLastTransactionIDBySuffix", s.ctx, "25").Return(strPtr("INV-00001/25"), nil).Once()
	s.mockRepo.On("CreateTransaction", s.ctx, mock.MatchedBy(func(t domain.TaxTransaction) bool {
		return t.TransactionID == "INV-00002/25"
	})).Return(nil).Once()

	txn, err := s.service.RecordTransaction(s.ctx, req, "user-1")

	s.Require().NoError(err)
	s.Equal("INV-00002/25", txn.TransactionID)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_ConflictAfterTwoDuplicates() {
	req := s.createRequest()

	s.mockRepo.On("FindLastTransactionIDBySuffix", s.ctx, "25").Return(nil, nil).Twice()
	s.mockRepo.On("CreateTransaction", s.ctx, mock.AnythingOfType("domain.TaxTransaction")).
		Return(apperrors.ErrDuplicate).Twice()

	txn, err := s.service.RecordTransaction(s.ctx, req, "user-1")

	s.Nil(txn)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_MalformedStoredID() {
	req := s.createRequest()
	s.mockRepo.On("FindLastTransactionIDBySuffix", s.ctx, "25").Return(strPtr("garbage"), nil).Once()

	txn, err := s.service.RecordTransaction(s.ctx, req, "user-1")

	s.Nil(txn)
	s.ErrorIs(err, apperrors.ErrInternal)
}

func (s *LedgerServiceTestSuite) TestReviseTransaction_Success() {
	createdAt := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	existing := &domain.TaxTransaction{
		TransactionID:   "INV-00007/25",
		Direction:       domain.Sale,
		DebitAccountID:  "1201",
		KreditAccountID: "4101",
		VatID:           strPtr("ppn-11"),
		PaymentStatus:   domain.Paid,
		AuditFields: domain.AuditFields{
			CreatedAt:     createdAt,
			CreatedBy:     "user-1",
			LastUpdatedAt: createdAt,
			LastUpdatedBy: "user-1",
		},
	}
	s.mockRepo.On("FindTransactionByID", s.ctx, "INV-00007/25").Return(existing, nil).Once()

	// The revision drops the VAT reference entirely.
	req := dto.ReviseTransactionRequest{
		Direction:       domain.Sale,
		BookingDate:     time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
		InvoiceDate:     time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		DebitAccountID:  "1201",
		KreditAccountID: "4101",
		LineItems: []dto.LineItemRequest{
			{Name: "Consulting", Quantity: dec("3"), UnitPrice: dec("100000")},
		},
	}

	var saved domain.TaxTransaction
	s.mockRepo.On("ReplaceTransaction", s.ctx, mock.AnythingOfType("domain.TaxTransaction")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.TaxTransaction) }).
		Return(nil).Once()

	txn, err := s.service.ReviseTransaction(s.ctx, "INV-00007/25", req, "user-2")

	s.Require().NoError(err)
	s.Equal("INV-00007/25", txn.TransactionID)
	s.Nil(txn.VatID)
	s.True(txn.VatAmount.IsZero())
	s.True(dec("300000").Equal(txn.BaseAmount))
	s.True(dec("300000").Equal(txn.GrandTotal))
	s.Equal(domain.Paid, txn.PaymentStatus)
	s.True(txn.CreatedAt.Equal(createdAt))
	s.Equal("user-1", txn.CreatedBy)
	s.True(txn.LastUpdatedAt.Equal(s.now))
	s.Equal("user-2", txn.LastUpdatedBy)

	s.Require().Len(saved.LineItems, 1)
	s.Equal("INV-00007/25", saved.LineItems[0].TransactionID)
	s.Require().Len(saved.Postings, 2)
	s.mockRepo.AssertExpectations(s.T())
	s.mockTaxes.AssertNotCalled(s.T(), "GetVatComponent", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestReviseTransaction_NotFound() {
	s.mockRepo.On("FindTransactionByID", s.ctx, "INV-00099/25").Return(nil, apperrors.ErrNotFound).Once()

	req := dto.ReviseTransactionRequest{
		Direction:       domain.Sale,
		DebitAccountID:  "1201",
		KreditAccountID: "4101",
		LineItems: []dto.LineItemRequest{
			{Name: "X", Quantity: dec("1"), UnitPrice: dec("1")},
		},
	}

	txn, err := s.service.ReviseTransaction(s.ctx, "INV-00099/25", req, "user-2")

	s.Nil(txn)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.mockRepo.AssertNotCalled(s.T(), "ReplaceTransaction", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestRemoveTransaction() {
	s.mockRepo.On("DeleteTransaction", s.ctx, "INV-00003/25").Return(nil).Once()
	s.NoError(s.service.RemoveTransaction(s.ctx, "INV-00003/25"))

	s.mockRepo.On("DeleteTransaction", s.ctx, "INV-00004/25").Return(apperrors.ErrNotFound).Once()
	err := s.service.RemoveTransaction(s.ctx, "INV-00004/25")
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestSetPaymentStatus() {
	s.mockRepo.On("UpdatePaymentStatus", s.ctx, "INV-00005/25", domain.Paid, "user-1").Return(nil).Once()
	s.NoError(s.service.SetPaymentStatus(s.ctx, "INV-00005/25", domain.Paid, "user-1"))

	err := s.service.SetPaymentStatus(s.ctx, "INV-00005/25", domain.PaymentStatus(7), "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestListTransactions_MonthWithoutYear() {
	_, err := s.service.ListTransactions(s.ctx, dto.ListTransactionsParams{Month: 5})
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "ListTransactions", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestListTransactions_YearOnly() {
	s.mockRepo.On("ListTransactions", s.ctx, mock.MatchedBy(func(f portsrepo.ListTransactionsFilter) bool {
		return f.Month == 0 && f.Year == 2025
	})).Return([]domain.TaxTransaction{}, nil, nil).Once()

	_, err := s.service.ListTransactions(s.ctx, dto.ListTransactionsParams{Year: 2025})
	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestListTransactions_DefaultsLimit() {
	s.mockRepo.On("ListTransactions", s.ctx, mock.MatchedBy(func(f portsrepo.ListTransactionsFilter) bool {
		return f.Limit == 20 && f.Month == 5 && f.Year == 2025
	})).Return([]domain.TaxTransaction{}, nil, nil).Once()

	resp, err := s.service.ListTransactions(s.ctx, dto.ListTransactionsParams{Month: 5, Year: 2025})

	s.Require().NoError(err)
	s.Empty(resp.Transactions)
	s.Nil(resp.NextToken)
	s.mockRepo.AssertExpectations(s.T())
}

func TestNewLedgerServiceDefaultClock(t *testing.T) {
	repo := new(MockTaxTransactionRepository)
	taxes := new(MockTaxRegistry)

	svc := services.NewLedgerService(repo, taxes, nil)
	require.NotNil(t, svc)

	repo.On("DeleteTransaction", mock.Anything, "INV-00001/25").Return(nil).Once()
	assert.NoError(t, svc.RemoveTransaction(context.Background(), "INV-00001/25"))
}
