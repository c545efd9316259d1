package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	portssvc "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
	"github.com/mitrapajak/tax-ledger-backend/internal/middleware"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.TaxTransaction, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxTransaction), args.Error(1)
}

func (m *MockLedgerService) ReviseTransaction(ctx context.Context, transactionID string, req dto.ReviseTransactionRequest, userID string) (*domain.TaxTransaction, error) {
	args := m.Called(ctx, transactionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxTransaction), args.Error(1)
}

func (m *MockLedgerService) RemoveTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockLedgerService) SetPaymentStatus(ctx context.Context, transactionID string, status domain.PaymentStatus, userID string) error {
	args := m.Called(ctx, transactionID, status, userID)
	return args.Error(0)
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.TaxTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxTransaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockLedgerService
	jwtSecret   string
}

func (suite *TransactionHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "tax-ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	registerCustomValidators()
	suite.router = gin.New()
	suite.router.UseRawPath = true
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockService = new(MockLedgerService)
	v1 := suite.router.Group("/api/v1")
	registerTransactionRoutes(v1, suite.mockService)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}

func (suite *TransactionHandlerTestSuite) performRequest(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransactionHandlerTestSuite) sampleCreateRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Direction:       domain.Sale,
		BookingDate:     time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
		InvoiceDate:     time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		DebitAccountID:  "1201",
		KreditAccountID: "4101",
		LineItems: []dto.LineItemRequest{
			{Name: "Consulting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100000)},
		},
	}
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	req := suite.sampleCreateRequest()
	expected := &domain.TaxTransaction{
		TransactionID:   "INV-00001/25",
		Direction:       domain.Sale,
		DebitAccountID:  "1201",
		KreditAccountID: "4101",
		BaseAmount:      decimal.NewFromInt(200000),
		GrandTotal:      decimal.NewFromInt(200000),
	}
	suite.mockService.On("RecordTransaction", mock.Anything, mock.AnythingOfType("dto.CreateTransactionRequest"), "user-1").
		Return(expected, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/transactions", "user-1", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("INV-00001/25", resp.TransactionID)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_ValidationRejectedByBinding() {
	req := suite.sampleCreateRequest()
	req.LineItems[0].Quantity = decimal.Zero

	w := suite.performRequest(http.MethodPost, "/api/v1/transactions", "user-1", req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "RecordTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Conflict() {
	req := suite.sampleCreateRequest()
	suite.mockService.On("RecordTransaction", mock.Anything, mock.AnythingOfType("dto.CreateTransactionRequest"), "user-1").
		Return(nil, apperrors.ErrConflict).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/transactions", "user-1", req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Unauthorized() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	suite.mockService.On("GetTransaction", mock.Anything, "INV-00099/25").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/transactions/INV-00099%2F25", "user-1", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_PassesFilters() {
	suite.mockService.On("ListTransactions", mock.Anything, mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
		return p.Month == 5 && p.Year == 2025 && p.Direction == "SALE" && p.Limit == 10
	})).Return(&dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{}}, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/transactions?month=5&year=2025&direction=SALE&limit=10", "user-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_InvalidMonth() {
	w := suite.performRequest(http.MethodGet, "/api/v1/transactions?month=abc", "user-1", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListTransactions", mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestUpdatePaymentStatus() {
	suite.mockService.On("SetPaymentStatus", mock.Anything, "INV-00001/25", domain.Paid, "user-1").
		Return(nil).Once()

	w := suite.performRequest(http.MethodPatch, "/api/v1/transactions/INV-00001%2F25/payment-status", "user-1",
		dto.UpdatePaymentStatusRequest{PaymentStatus: 1})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestDeleteTransaction() {
	suite.mockService.On("RemoveTransaction", mock.Anything, "INV-00002/25").Return(nil).Once()

	w := suite.performRequest(http.MethodDelete, "/api/v1/transactions/INV-00002%2F25", "user-1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}
