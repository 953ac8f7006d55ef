package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/connector-stripe/internal/domain/billing"
	"github.com/connector-stripe/internal/platform/fanout"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway mocks the billing.Gateway interface
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetBalance(ctx context.Context) (*billing.Balance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Balance), args.Error(1)
}

func (m *MockGateway) ListCharges(ctx context.Context, query billing.ChargeQuery) (*billing.Page[billing.Charge], error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Page[billing.Charge]), args.Error(1)
}

func (m *MockGateway) ListCustomers(ctx context.Context, query billing.CustomerQuery) (*billing.Page[billing.Customer], error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Page[billing.Customer]), args.Error(1)
}

func (m *MockGateway) SearchCustomers(ctx context.Context, query string, limit int) (*billing.Page[billing.Customer], error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Page[billing.Customer]), args.Error(1)
}

func (m *MockGateway) ListPayouts(ctx context.Context, query billing.PayoutQuery) (*billing.Page[billing.Payout], error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Page[billing.Payout]), args.Error(1)
}

func (m *MockGateway) ListBalanceTransactions(ctx context.Context, query billing.BalanceTransactionQuery) (*billing.Page[billing.BalanceTransaction], error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Page[billing.BalanceTransaction]), args.Error(1)
}

var _ billing.Gateway = (*MockGateway)(nil)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func testPool(t *testing.T) *fanout.Pool {
	t.Helper()
	pool, err := fanout.NewPool(fanout.Config{Size: 4}, testLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Shutdown)
	return pool
}

func forPayout(id string) interface{} {
	return mock.MatchedBy(func(q billing.BalanceTransactionQuery) bool {
		return q.PayoutID == id
	})
}

func chargeTransactions() interface{} {
	return mock.MatchedBy(func(q billing.BalanceTransactionQuery) bool {
		return q.PayoutID == "" && q.Type == billing.BalanceTransactionTypeCharge
	})
}

func txnPage(txns ...billing.BalanceTransaction) *billing.Page[billing.BalanceTransaction] {
	if txns == nil {
		txns = []billing.BalanceTransaction{}
	}
	return &billing.Page[billing.BalanceTransaction]{Data: txns}
}
