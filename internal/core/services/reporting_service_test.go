package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	portssvc "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/services"
)

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) SavePartner(ctx context.Context, partner domain.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *MockPartnerRepository) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Partner), args.Error(1)
}

func (m *MockPartnerRepository) UpdatePartner(ctx context.Context, partner domain.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) DeletePartner(ctx context.Context, partnerID string) error {
	args := m.Called(ctx, partnerID)
	return args.Error(0)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) DeleteCompany(ctx context.Context, companyID string) error {
	args := m.Called(ctx, companyID)
	return args.Error(0)
}

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockTaxTransactionRepository
	mockPartners  *MockPartnerRepository
	mockCompanies *MockCompanyRepository
	service       portssvc.ReportingService
	ctx           context.Context
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockTaxTransactionRepository)
	s.mockPartners = new(MockPartnerRepository)
	s.mockCompanies = new(MockCompanyRepository)
	s.service = services.NewReportingService(s.mockRepo, s.mockPartners, s.mockCompanies)
	s.ctx = context.Background()
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func (s *ReportingServiceTestSuite) TestPeriodSummary() {
	summaries := []domain.PeriodSummary{
		{
			Direction:        domain.Sale,
			Count:            3,
			BaseTotal:        dec("600000"),
			VatTotal:         dec("66000"),
			WithholdingTotal: dec("12000"),
			GrandTotal:       dec("654000"),
		},
		{
			Direction:  domain.Purchase,
			Count:      1,
			BaseTotal:  dec("100000"),
			GrandTotal: dec("100000"),
		},
	}
	s.mockRepo.On("SummarizeByPeriod", s.ctx, 5, 2025).Return(summaries, nil).Once()

	resp, err := s.service.PeriodSummary(s.ctx, 5, 2025)

	s.Require().NoError(err)
	s.Equal(5, resp.Month)
	s.Equal(2025, resp.Year)
	s.Require().Len(resp.Summaries, 2)
	s.Equal("SALE", resp.Summaries[0].Direction)
	s.Equal(int64(3), resp.Summaries[0].Count)
	s.True(dec("654000").Equal(resp.Summaries[0].GrandTotal))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *ReportingServiceTestSuite) TestPeriodSummary_InvalidPeriod() {
	_, err := s.service.PeriodSummary(s.ctx, 13, 2025)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.service.PeriodSummary(s.ctx, 5, 1999)
	s.ErrorIs(err, apperrors.ErrValidation)

	s.mockRepo.AssertNotCalled(s.T(), "SummarizeByPeriod", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReportingServiceTestSuite) TestRecapWorkbook() {
	rows := []domain.RecapRow{
		{
			TransactionID: "INV-00001/25",
			TaxInvoiceNo:  "010.001-25.00000001",
			BookingDate:   time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
			Direction:     domain.Sale,
			PartnerName:   "PT Maju Jaya",
			BaseAmount:    dec("200000"),
			VatAmount:     dec("22000"),
			GrandTotal:    dec("222000"),
		},
		{
			TransactionID: "INV-00002/25",
			BookingDate:   time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC),
			Direction:     domain.Purchase,
			PartnerName:   "-",
			BaseAmount:    dec("50000"),
			GrandTotal:    dec("50000"),
		},
	}
	s.mockRepo.On("ListTransactionsForRecap", s.ctx, 5, 2025).Return(rows, nil).Once()

	data, fileName, err := s.service.RecapWorkbook(s.ctx, 5, 2025)

	s.Require().NoError(err)
	s.Equal("recap-2025-05.xlsx", fileName)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	s.Require().NoError(err)
	defer f.Close()

	header, err := f.GetCellValue("Recap", "A1")
	s.Require().NoError(err)
	s.Equal("No", header)

	id, err := f.GetCellValue("Recap", "B2")
	s.Require().NoError(err)
	s.Equal("INV-00001/25", id)

	partner, err := f.GetCellValue("Recap", "F3")
	s.Require().NoError(err)
	s.Equal("-", partner)

	label, err := f.GetCellValue("Recap", "F4")
	s.Require().NoError(err)
	s.Equal("TOTAL", label)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *ReportingServiceTestSuite) TestRecapWorkbook_EmptyPeriod() {
	s.mockRepo.On("ListTransactionsForRecap", s.ctx, 2, 2025).Return([]domain.RecapRow{}, nil).Once()

	data, fileName, err := s.service.RecapWorkbook(s.ctx, 2, 2025)

	s.Require().NoError(err)
	s.Equal("recap-2025-02.xlsx", fileName)
	s.NotEmpty(data)
}

func (s *ReportingServiceTestSuite) TestInvoiceDocument() {
	companyID := "comp-1"
	partnerID := "part-1"
	txn := &domain.TaxTransaction{
		TransactionID:     "INV-00001/25",
		Direction:         domain.Sale,
		BookingDate:       time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
		InvoiceDate:       time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		DueDate:           time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		TaxInvoiceNo:      "010.001-25.00000001",
		CompanyID:         &companyID,
		PartnerID:         &partnerID,
		BaseAmount:        dec("200000"),
		VatAmount:         dec("22000"),
		WithholdingAmount: dec("4000"),
		GrandTotal:        dec("218000"),
		LineItems: []domain.LineItem{
			{Name: "Consulting", Description: "May retainer", Quantity: dec("2"), UnitPrice: dec("100000"), Subtotal: dec("200000")},
		},
	}
	s.mockRepo.On("FindTransactionByID", s.ctx, "INV-00001/25").Return(txn, nil).Once()
	s.mockCompanies.On("FindCompanyByID", s.ctx, companyID).
		Return(&domain.Company{CompanyID: companyID, Name: "PT Mitra Pajak", NPWP: "01.234.567.8-901.000", Address: "Jl. Sudirman 1, Jakarta"}, nil).Once()
	s.mockPartners.On("FindPartnerByID", s.ctx, partnerID).
		Return(&domain.Partner{PartnerID: partnerID, Name: "PT Maju Jaya", NPWP: "02.345.678.9-012.000"}, nil).Once()

	data, fileName, err := s.service.InvoiceDocument(s.ctx, "INV-00001/25")

	s.Require().NoError(err)
	s.Equal("invoice-INV-00001-25.pdf", fileName)
	s.Require().True(len(data) > 4)
	s.Equal("%PDF", string(data[:4]))
	s.mockRepo.AssertExpectations(s.T())
	s.mockCompanies.AssertExpectations(s.T())
	s.mockPartners.AssertExpectations(s.T())
}

func (s *ReportingServiceTestSuite) TestInvoiceDocument_NoParties() {
	txn := &domain.TaxTransaction{
		TransactionID: "INV-00007/25",
		Direction:     domain.Purchase,
		BookingDate:   time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
		InvoiceDate:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		BaseAmount:    dec("50000"),
		GrandTotal:    dec("50000"),
		LineItems: []domain.LineItem{
			{Name: "Office supplies", Quantity: dec("1"), UnitPrice: dec("50000"), Subtotal: dec("50000")},
		},
	}
	s.mockRepo.On("FindTransactionByID", s.ctx, "INV-00007/25").Return(txn, nil).Once()

	data, fileName, err := s.service.InvoiceDocument(s.ctx, "INV-00007/25")

	s.Require().NoError(err)
	s.Equal("invoice-INV-00007-25.pdf", fileName)
	s.NotEmpty(data)
	s.mockPartners.AssertNotCalled(s.T(), "FindPartnerByID", mock.Anything, mock.Anything)
	s.mockCompanies.AssertNotCalled(s.T(), "FindCompanyByID", mock.Anything, mock.Anything)
}

func (s *ReportingServiceTestSuite) TestInvoiceDocument_NotFound() {
	s.mockRepo.On("FindTransactionByID", s.ctx, "INV-00099/25").Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := s.service.InvoiceDocument(s.ctx, "INV-00099/25")

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestValidatePeriodBounds(t *testing.T) {
	repo := new(MockTaxTransactionRepository)
	svc := services.NewReportingService(repo, new(MockPartnerRepository), new(MockCompanyRepository))
	require.NotNil(t, svc)

	_, err := svc.PeriodSummary(context.Background(), 0, 2025)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = svc.RecapWorkbook(context.Background(), 5, 2100)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
