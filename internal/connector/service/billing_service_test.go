package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/connector-stripe/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBillingServiceImpl_ListCharges(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockGateway)
	svc := NewBillingService(testLogger(), gateway, testPool(t))

	expected := &billing.Page[billing.Charge]{Data: []billing.Charge{{ID: "ch_1"}}, HasMore: true}
	gateway.On("ListCharges", ctx, billing.ChargeQuery{
		ListQuery: billing.ListQuery{Limit: 25, StartingAfter: "ch_0"},
	}).Return(expected, nil).Once()

	page, err := svc.ListCharges(ctx, 25, "ch_0")
	require.NoError(t, err)
	assert.Same(t, expected, page)
	gateway.AssertExpectations(t)
}

func TestBillingServiceImpl_SearchCustomers(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockGateway)
	svc := NewBillingService(testLogger(), gateway, testPool(t))

	gateway.On("SearchCustomers", ctx, `email:"ada" OR name:"ada"`, 10).
		Return(&billing.Page[billing.Customer]{Data: []billing.Customer{{ID: "cus_1"}}}, nil).Once()

	page, err := svc.SearchCustomers(ctx, "ada", 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	gateway.AssertExpectations(t)
}

func TestBillingServiceImpl_ListPayouts(t *testing.T) {
	ctx := context.Background()

	t.Run("AttachesTransactionsToTheirPayout", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := NewBillingService(testLogger(), gateway, testPool(t))

		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		gateway.On("ListPayouts", ctx, mock.MatchedBy(func(q billing.PayoutQuery) bool {
			return q.Limit == 20 && q.StartingAfter == "" && !q.AllPages &&
				*q.ArrivalDate.GTE == from.Unix() && q.ArrivalDate.LTE == nil
		})).Return(&billing.Page[billing.Payout]{
			Data:    []billing.Payout{{ID: "po_1", Currency: "usd"}, {ID: "po_2", Currency: "usd"}},
			HasMore: true,
		}, nil).Once()

		gateway.On("ListBalanceTransactions", mock.Anything, mock.MatchedBy(func(q billing.BalanceTransactionQuery) bool {
			return q.PayoutID == "po_1" && q.ExpandSource && q.ExpandSourcePaymentIntent && q.AllPages
		})).Return(txnPage(
			billing.BalanceTransaction{
				ID: "txn_1", Type: "charge", Amount: 1000, Fee: 59, Net: 941, Created: 1700000000, SourceID: "ch_1",
				SourceCharge: &billing.Charge{
					ID:            "ch_1",
					Description:   "Invoice #42",
					Metadata:      map[string]string{},
					PaymentIntent: &billing.PaymentIntent{ID: "pi_1", Metadata: map[string]string{"project_number": "P-9"}},
				},
			},
			billing.BalanceTransaction{ID: "txn_payout", Type: "payout", Amount: -941, Net: -941},
		), nil).Once()

		gateway.On("ListBalanceTransactions", mock.Anything, forPayout("po_2")).Return(txnPage(
			billing.BalanceTransaction{ID: "txn_2", Type: "charge", Amount: 2000, Fee: 88, Net: 1912},
			billing.BalanceTransaction{ID: "txn_3", Type: "charge", Amount: 500, Fee: 30, Net: 470, SourceID: "ch_3"},
		), nil).Once()

		page, err := svc.ListPayouts(ctx, PayoutFilter{Limit: 20, ArrivalFrom: &from})
		require.NoError(t, err)
		assert.True(t, page.HasMore)
		require.Len(t, page.Data, 2)

		first := page.Data[0]
		assert.Equal(t, "po_1", first.Payout.ID)
		require.Len(t, first.Items, 1, "non-charge transactions are dropped")
		assert.Equal(t, billing.PayoutItem{
			ChargeID:       "ch_1",
			Created:        1700000000,
			Gross:          1000,
			Fee:            59,
			Net:            941,
			ProjectNumber:  "P-9",
			InvoiceNumbers: []string{"42"},
		}, first.Items[0])
		assert.Equal(t, int64(941), first.TotalNet)

		second := page.Data[1]
		assert.Equal(t, "po_2", second.Payout.ID)
		require.Len(t, second.Items, 2)
		assert.Equal(t, "txn_2", second.Items[0].ChargeID, "without a source the transaction id stands in")
		assert.Equal(t, "ch_3", second.Items[1].ChargeID)
		assert.Equal(t, int64(2500), second.TotalGross)
		assert.Equal(t, int64(118), second.TotalFee)
		assert.Equal(t, int64(2382), second.TotalNet)

		gateway.AssertExpectations(t)
	})

	t.Run("SubCallFailureFailsListing", func(t *testing.T) {
		gateway := new(MockGateway)
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
		svc := NewBillingService(logger, gateway, testPool(t))
		upstreamErr := errors.New("timeout")

		gateway.On("ListPayouts", ctx, mock.Anything).
			Return(&billing.Page[billing.Payout]{Data: []billing.Payout{{ID: "po_1"}}}, nil).Once()
		gateway.On("ListBalanceTransactions", mock.Anything, forPayout("po_1")).Return(nil, upstreamErr).Once()

		page, err := svc.ListPayouts(ctx, PayoutFilter{Limit: 20})
		assert.Nil(t, page)
		assert.ErrorIs(t, err, upstreamErr)
		assert.Empty(t, logs.String(), "the handler logs the failure once as connector.error")
	})

	t.Run("NoPayouts", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := NewBillingService(testLogger(), gateway, testPool(t))

		gateway.On("ListPayouts", ctx, mock.MatchedBy(func(q billing.PayoutQuery) bool {
			return q.ArrivalDate == nil
		})).Return(&billing.Page[billing.Payout]{Data: []billing.Payout{}}, nil).Once()

		page, err := svc.ListPayouts(ctx, PayoutFilter{Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		gateway.AssertNotCalled(t, "ListBalanceTransactions", mock.Anything, mock.Anything)
	})
}
