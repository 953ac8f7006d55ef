package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/connector-stripe/internal/connector/middleware"
	"github.com/connector-stripe/internal/connector/service"
	"github.com/connector-stripe/internal/domain/billing"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBillingService mocks the BillingService interface
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) GetBalance(ctx context.Context) (*billing.Balance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Balance), args.Error(1)
}

func (m *MockBillingService) ListCharges(ctx context.Context, limit int, cursor string) (*billing.Page[billing.Charge], error) {
	args := m.Called(ctx, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Page[billing.Charge]), args.Error(1)
}

func (m *MockBillingService) ListCustomers(ctx context.Context, limit int, cursor string) (*billing.Page[billing.Customer], error) {
	args := m.Called(ctx, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Page[billing.Customer]), args.Error(1)
}

func (m *MockBillingService) SearchCustomers(ctx context.Context, query string, limit int) (*billing.Page[billing.Customer], error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Page[billing.Customer]), args.Error(1)
}

func (m *MockBillingService) ListPayouts(ctx context.Context, filter service.PayoutFilter) (*billing.Page[billing.PayoutDetail], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Page[billing.PayoutDetail]), args.Error(1)
}

// MockReconciliationService mocks the ReconciliationService interface
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) Unremitted(ctx context.Context, spec billing.WindowSpec) (*billing.UnremittedReport, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.UnremittedReport), args.Error(1)
}

// MockProjectService mocks the ProjectService interface
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) FindStripeCharges(ctx context.Context, projectID, projectNumber string, invoiceNumbers []string) (*billing.ProjectCharges, error) {
	args := m.Called(ctx, projectID, projectNumber, invoiceNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ProjectCharges), args.Error(1)
}

// MockRecorder mocks the EventRecorder interface
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, evt, orgID, correlationID string, attrs map[string]interface{}) {
	m.Called(ctx, evt, orgID, correlationID, attrs)
}

var (
	_ service.BillingService        = (*MockBillingService)(nil)
	_ service.ReconciliationService = (*MockReconciliationService)(nil)
	_ service.ProjectService        = (*MockProjectService)(nil)
	_ EventRecorder                 = (*MockRecorder)(nil)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// newTestRouter wires the correlation and org middleware the real router installs ahead of handlers
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CorrelationID())
	router.Use(func(c *gin.Context) {
		c.Set(middleware.OrgIDKey, "org-test")
		c.Next()
	})
	return router
}

func serve(router http.Handler, target string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}
