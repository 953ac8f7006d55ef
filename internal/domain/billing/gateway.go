package billing

import "context"

// EpochRange is an inclusive epoch-seconds range; nil bounds are open
type EpochRange struct {
	GTE *int64
	LTE *int64
}

// IsZero reports whether no bound is set
func (r *EpochRange) IsZero() bool {
	return r == nil || (r.GTE == nil && r.LTE == nil)
}

// ListQuery carries the pagination controls shared by every listing.
// AllPages walks every page starting at StartingAfter, using Limit as the page size.
type ListQuery struct {
	Limit         int
	StartingAfter string
	AllPages      bool
}

// ChargeQuery lists charges with their balance transaction and payment intent expanded
type ChargeQuery struct {
	ListQuery
	Created *EpochRange
}

// CustomerQuery lists customers
type CustomerQuery struct {
	ListQuery
	Created *EpochRange
}

// PayoutQuery lists payouts
type PayoutQuery struct {
	ListQuery
	ArrivalDate *EpochRange
	Created     *EpochRange
}

// BalanceTransactionQuery lists balance transactions
type BalanceTransactionQuery struct {
	ListQuery
	Type     string
	PayoutID string
	Created  *EpochRange
	// ExpandSource resolves the source object inline
	ExpandSource bool
	// ExpandSourcePaymentIntent additionally resolves the source charge's payment intent
	ExpandSourcePaymentIntent bool
}

// Gateway is the read-only view of the payment processor the connector consumes
type Gateway interface {
	GetBalance(ctx context.Context) (*Balance, error)
	ListCharges(ctx context.Context, query ChargeQuery) (*Page[Charge], error)
	ListCustomers(ctx context.Context, query CustomerQuery) (*Page[Customer], error)
	// SearchCustomers runs a free-text Stripe search query
	SearchCustomers(ctx context.Context, query string, limit int) (*Page[Customer], error)
	ListPayouts(ctx context.Context, query PayoutQuery) (*Page[Payout], error)
	ListBalanceTransactions(ctx context.Context, query BalanceTransactionQuery) (*Page[BalanceTransaction], error)
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 {
	return &v
}
