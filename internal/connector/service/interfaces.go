package service

import (
	"context"
	"time"

	"github.com/connector-stripe/internal/domain/billing"
)

// BillingService defines the read-only billing views
type BillingService interface {
	// GetBalance retrieves the account balance
	GetBalance(ctx context.Context) (*billing.Balance, error)

	// ListCharges returns one page of charges, newest first
	ListCharges(ctx context.Context, limit int, cursor string) (*billing.Page[billing.Charge], error)

	// ListCustomers returns one page of customers
	ListCustomers(ctx context.Context, limit int, cursor string) (*billing.Page[billing.Customer], error)

	// SearchCustomers matches customers by email or name
	SearchCustomers(ctx context.Context, query string, limit int) (*billing.Page[billing.Customer], error)

	// ListPayouts returns one page of payouts, each with the charges it remitted
	ListPayouts(ctx context.Context, filter PayoutFilter) (*billing.Page[billing.PayoutDetail], error)
}

// ReconciliationService computes the unremitted funds report
type ReconciliationService interface {
	// Unremitted resolves spec into a window and reports the charges in it not yet paid out.
	// Any upstream failure aborts the whole report.
	Unremitted(ctx context.Context, spec billing.WindowSpec) (*billing.UnremittedReport, error)
}

// ProjectService looks up the charges that settled a project's invoices
type ProjectService interface {
	// FindStripeCharges matches recent charges against invoiceNumbers.
	// A nil invoiceNumbers returns an empty result carrying billing.NoInvoicesMessage.
	FindStripeCharges(ctx context.Context, projectID, projectNumber string, invoiceNumbers []string) (*billing.ProjectCharges, error)
}

// PayoutFilter selects payouts by arrival date; nil bounds are open
type PayoutFilter struct {
	Limit       int
	Cursor      string
	ArrivalFrom *time.Time
	ArrivalTo   *time.Time
}
