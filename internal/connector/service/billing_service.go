package service

import (
	"context"
	"log/slog"

	"github.com/connector-stripe/internal/domain/billing"
	"github.com/connector-stripe/internal/platform/fanout"
)

// transactionPageSize is the page size used when walking every page of balance transactions
const transactionPageSize = 100

// BillingServiceImpl implements the BillingService interface
type BillingServiceImpl struct {
	gateway billing.Gateway
	pool    *fanout.Pool
	logger  *slog.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(logger *slog.Logger, gateway billing.Gateway, pool *fanout.Pool) BillingService {
	return &BillingServiceImpl{
		gateway: gateway,
		pool:    pool,
		logger:  logger,
	}
}

// GetBalance retrieves the account balance
func (s *BillingServiceImpl) GetBalance(ctx context.Context) (*billing.Balance, error) {
	return s.gateway.GetBalance(ctx)
}

// ListCharges returns one page of charges with balance transaction and payment intent expanded
func (s *BillingServiceImpl) ListCharges(ctx context.Context, limit int, cursor string) (*billing.Page[billing.Charge], error) {
	return s.gateway.ListCharges(ctx, billing.ChargeQuery{
		ListQuery: billing.ListQuery{Limit: limit, StartingAfter: cursor},
	})
}

// ListCustomers returns one page of customers
func (s *BillingServiceImpl) ListCustomers(ctx context.Context, limit int, cursor string) (*billing.Page[billing.Customer], error) {
	return s.gateway.ListCustomers(ctx, billing.CustomerQuery{
		ListQuery: billing.ListQuery{Limit: limit, StartingAfter: cursor},
	})
}

// SearchCustomers matches query against customer email or name
func (s *BillingServiceImpl) SearchCustomers(ctx context.Context, query string, limit int) (*billing.Page[billing.Customer], error) {
	return s.gateway.SearchCustomers(ctx, customerSearchQuery(query), limit)
}

// ListPayouts returns one page of payouts; the remitted charges of each payout are fetched
// concurrently and attached to their payout by id
func (s *BillingServiceImpl) ListPayouts(ctx context.Context, filter PayoutFilter) (*billing.Page[billing.PayoutDetail], error) {
	query := billing.PayoutQuery{
		ListQuery: billing.ListQuery{Limit: filter.Limit, StartingAfter: filter.Cursor},
	}
	if filter.ArrivalFrom != nil || filter.ArrivalTo != nil {
		query.ArrivalDate = &billing.EpochRange{}
		if filter.ArrivalFrom != nil {
			query.ArrivalDate.GTE = billing.Int64(filter.ArrivalFrom.Unix())
		}
		if filter.ArrivalTo != nil {
			query.ArrivalDate.LTE = billing.Int64(filter.ArrivalTo.Unix())
		}
	}

	payouts, err := s.gateway.ListPayouts(ctx, query)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(payouts.Data))
	for _, p := range payouts.Data {
		ids = append(ids, p.ID)
	}

	transactions, err := fanout.Collect(ctx, s.pool, ids, func(ctx context.Context, payoutID string) ([]billing.BalanceTransaction, error) {
		page, err := s.gateway.ListBalanceTransactions(ctx, billing.BalanceTransactionQuery{
			ListQuery:                 billing.ListQuery{Limit: transactionPageSize, AllPages: true},
			PayoutID:                  payoutID,
			ExpandSource:              true,
			ExpandSourcePaymentIntent: true,
		})
		if err != nil {
			return nil, err
		}
		return page.Data, nil
	})
	if err != nil {
		return nil, err
	}

	details := make([]billing.PayoutDetail, 0, len(payouts.Data))
	for _, p := range payouts.Data {
		details = append(details, buildPayoutDetail(p, transactions[p.ID]))
	}
	s.logger.Debug("Built payout details", "payouts", len(details), "has_more", payouts.HasMore)

	return &billing.Page[billing.PayoutDetail]{
		Data:    details,
		HasMore: payouts.HasMore,
	}, nil
}

// buildPayoutDetail keeps the charge transactions of a payout and totals them
func buildPayoutDetail(payout billing.Payout, transactions []billing.BalanceTransaction) billing.PayoutDetail {
	detail := billing.PayoutDetail{
		Payout: payout,
		Items:  []billing.PayoutItem{},
	}

	for _, bt := range transactions {
		if bt.Type != billing.BalanceTransactionTypeCharge {
			continue
		}

		item := billing.PayoutItem{
			ChargeID:       bt.ID,
			Created:        bt.Created,
			Gross:          bt.Amount,
			Fee:            bt.Fee,
			Net:            bt.Net,
			InvoiceNumbers: []string{},
		}
		if bt.SourceID != "" {
			item.ChargeID = bt.SourceID
		}
		if charge := bt.SourceCharge; charge != nil {
			item.ProjectNumber = charge.PayoutProjectNumber()
			item.InvoiceNumbers = billing.ExtractInvoiceNumbers(charge.Description)
		}

		detail.TotalGross += bt.Amount
		detail.TotalFee += bt.Fee
		detail.TotalNet += bt.Net
		detail.Items = append(detail.Items, item)
	}

	return detail
}

// customerSearchQuery builds the Stripe search expression matching email or name
func customerSearchQuery(q string) string {
	return `email:"` + q + `" OR name:"` + q + `"`
}
