package stripeapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/connector-stripe/internal/domain/billing"
	"github.com/stripe/stripe-go/v76"
)

// Gateway implements billing.Gateway on top of the Stripe SDK
type Gateway struct {
	provider *Provider
	logger   *slog.Logger
}

// NewGateway creates a gateway backed by the provider's lazily built client
func NewGateway(logger *slog.Logger, provider *Provider) *Gateway {
	return &Gateway{
		provider: provider,
		logger:   logger,
	}
}

var _ billing.Gateway = (*Gateway)(nil)

// GetBalance retrieves the account balance
func (g *Gateway) GetBalance(ctx context.Context) (*billing.Balance, error) {
	api, err := g.provider.Client()
	if err != nil {
		return nil, err
	}

	params := &stripe.BalanceParams{}
	params.Context = ctx

	b, err := api.Balance.Get(params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve balance: %w", err)
	}
	return mapBalance(b), nil
}

// ListCharges lists charges with balance transaction and payment intent expanded
func (g *Gateway) ListCharges(ctx context.Context, query billing.ChargeQuery) (*billing.Page[billing.Charge], error) {
	api, err := g.provider.Client()
	if err != nil {
		return nil, err
	}

	params := &stripe.ChargeListParams{}
	applyListQuery(ctx, &params.ListParams, query.ListQuery)
	params.CreatedRange = rangeParams(query.Created)
	params.AddExpand("data.balance_transaction")
	params.AddExpand("data.payment_intent")

	page := &billing.Page[billing.Charge]{Data: []billing.Charge{}}
	it := api.Charges.List(params)
	for it.Next() {
		page.Data = append(page.Data, *mapCharge(it.Charge()))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("failed to list charges: %w", err)
	}
	page.HasMore = hasMore(it.Meta())
	return page, nil
}

// ListCustomers lists customers
func (g *Gateway) ListCustomers(ctx context.Context, query billing.CustomerQuery) (*billing.Page[billing.Customer], error) {
	api, err := g.provider.Client()
	if err != nil {
		return nil, err
	}

	params := &stripe.CustomerListParams{}
	applyListQuery(ctx, &params.ListParams, query.ListQuery)
	params.CreatedRange = rangeParams(query.Created)

	page := &billing.Page[billing.Customer]{Data: []billing.Customer{}}
	it := api.Customers.List(params)
	for it.Next() {
		page.Data = append(page.Data, mapCustomer(it.Customer()))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	page.HasMore = hasMore(it.Meta())
	return page, nil
}

// SearchCustomers runs a Stripe search query over customers, returning a single page
func (g *Gateway) SearchCustomers(ctx context.Context, query string, limit int) (*billing.Page[billing.Customer], error) {
	api, err := g.provider.Client()
	if err != nil {
		return nil, err
	}

	params := &stripe.CustomerSearchParams{}
	params.Context = ctx
	params.Query = query
	params.Single = true
	if limit > 0 {
		params.Limit = stripe.Int64(int64(limit))
	}

	page := &billing.Page[billing.Customer]{Data: []billing.Customer{}}
	it := api.Customers.Search(params)
	for it.Next() {
		page.Data = append(page.Data, mapCustomer(it.Customer()))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	if meta := it.Meta(); meta != nil {
		page.HasMore = meta.HasMore
	}
	return page, nil
}

// ListPayouts lists payouts filtered by arrival and creation date
func (g *Gateway) ListPayouts(ctx context.Context, query billing.PayoutQuery) (*billing.Page[billing.Payout], error) {
	api, err := g.provider.Client()
	if err != nil {
		return nil, err
	}

	params := &stripe.PayoutListParams{}
	applyListQuery(ctx, &params.ListParams, query.ListQuery)
	params.ArrivalDateRange = rangeParams(query.ArrivalDate)
	params.CreatedRange = rangeParams(query.Created)

	page := &billing.Page[billing.Payout]{Data: []billing.Payout{}}
	it := api.Payouts.List(params)
	for it.Next() {
		page.Data = append(page.Data, mapPayout(it.Payout()))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	page.HasMore = hasMore(it.Meta())
	return page, nil
}

// ListBalanceTransactions lists balance transactions by type, payout and creation date
func (g *Gateway) ListBalanceTransactions(ctx context.Context, query billing.BalanceTransactionQuery) (*billing.Page[billing.BalanceTransaction], error) {
	api, err := g.provider.Client()
	if err != nil {
		return nil, err
	}

	params := &stripe.BalanceTransactionListParams{}
	applyListQuery(ctx, &params.ListParams, query.ListQuery)
	params.CreatedRange = rangeParams(query.Created)
	if query.Type != "" {
		params.Type = stripe.String(query.Type)
	}
	if query.PayoutID != "" {
		params.Payout = stripe.String(query.PayoutID)
	}
	if query.ExpandSource || query.ExpandSourcePaymentIntent {
		params.AddExpand("data.source")
	}
	if query.ExpandSourcePaymentIntent {
		params.AddExpand("data.source.payment_intent")
	}

	page := &billing.Page[billing.BalanceTransaction]{Data: []billing.BalanceTransaction{}}
	it := api.BalanceTransactions.List(params)
	for it.Next() {
		page.Data = append(page.Data, *mapBalanceTransaction(it.BalanceTransaction()))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("failed to list balance transactions: %w", err)
	}
	page.HasMore = hasMore(it.Meta())

	g.logger.Debug("Listed balance transactions",
		"type", query.Type,
		"payout_id", query.PayoutID,
		"count", len(page.Data),
		"all_pages", query.AllPages,
	)
	return page, nil
}

func applyListQuery(ctx context.Context, params *stripe.ListParams, query billing.ListQuery) {
	params.Context = ctx
	params.Single = !query.AllPages
	if query.Limit > 0 {
		params.Limit = stripe.Int64(int64(query.Limit))
	}
	if query.StartingAfter != "" {
		params.StartingAfter = stripe.String(query.StartingAfter)
	}
}

func rangeParams(r *billing.EpochRange) *stripe.RangeQueryParams {
	if r.IsZero() {
		return nil
	}
	params := &stripe.RangeQueryParams{}
	if r.GTE != nil {
		params.GreaterThanOrEqual = *r.GTE
	}
	if r.LTE != nil {
		params.LesserThanOrEqual = *r.LTE
	}
	return params
}

func hasMore(meta *stripe.ListMeta) bool {
	return meta != nil && meta.HasMore
}
