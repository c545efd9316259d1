package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	portssvc "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
	"github.com/mitrapajak/tax-ledger-backend/internal/middleware"
)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) PeriodSummary(ctx context.Context, month, year int) (*dto.PeriodSummaryResponse, error) {
	args := m.Called(ctx, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PeriodSummaryResponse), args.Error(1)
}

func (m *MockReportingService) RecapWorkbook(ctx context.Context, month, year int) ([]byte, string, error) {
	args := m.Called(ctx, month, year)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockReportingService) InvoiceDocument(ctx context.Context, transactionID string) ([]byte, string, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Test Suite ---
type ReportHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockReportingService
	jwtSecret   string
}

func (suite *ReportHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.UseRawPath = true
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockService = new(MockReportingService)
	v1 := suite.router.Group("/api/v1")
	registerReportRoutes(v1, suite.mockService)
}

func TestReportHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReportHandlerTestSuite))
}

func (suite *ReportHandlerTestSuite) performRequest(method, path string) *httptest.ResponseRecorder {
	claims := jwt.RegisteredClaims{
		Issuer:    "tax-ledger-test",
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ReportHandlerTestSuite) TestInvoiceDocument_Success() {
	content := []byte("%PDF-1.4 test")
	suite.mockService.On("InvoiceDocument", mock.Anything, "INV-00001/25").
		Return(content, "invoice-INV-00001-25.pdf", nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/reports/invoice/INV-00001%2F25")

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Equal(`attachment; filename="invoice-INV-00001-25.pdf"`, w.Header().Get("Content-Disposition"))
	suite.Equal(content, w.Body.Bytes())
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestInvoiceDocument_NotFound() {
	suite.mockService.On("InvoiceDocument", mock.Anything, "INV-00099/25").
		Return(nil, "", apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/reports/invoice/INV-00099%2F25")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestPeriodSummary_MissingQuery() {
	w := suite.performRequest(http.MethodGet, "/api/v1/reports/summary?month=5")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "PeriodSummary", mock.Anything, mock.Anything, mock.Anything)
}
