package billing

import "github.com/shopspring/decimal"

// UnremittedStatus classifies a charge that has not been paid out yet
type UnremittedStatus string

const (
	// UnremittedPending means the funds are not available yet
	UnremittedPending UnremittedStatus = "pending"
	// UnremittedEligible means the funds are available but not yet paid out
	UnremittedEligible UnremittedStatus = "eligible"
)

// UnremittedItem is one charge balance transaction absent from every payout in the window
type UnremittedItem struct {
	ChargeID             string
	BalanceTransactionID string
	Created              int64 // Charge creation
	AvailableOn          int64
	Gross                int64
	Fee                  int64
	Net                  int64
	Description          string
	ReceiptURL           string
	InvoiceNumbers       []string
	Status               UnremittedStatus
}

// Bucket aggregates the items of one classification
type Bucket struct {
	Count int
	Net   decimal.Decimal // Major units, rounded to cents
}

// UnremittedSummary aggregates an unremitted report
type UnremittedSummary struct {
	Pending  Bucket
	Eligible Bucket
	Total    Bucket
	Window   Window
}

// UnremittedReport is the result of the unremitted funds reconciliation
type UnremittedReport struct {
	Summary UnremittedSummary
	Items   []UnremittedItem
}

// PayoutItem is one charge remitted through a payout
type PayoutItem struct {
	ChargeID       string
	Created        int64
	Gross          int64
	Fee            int64
	Net            int64
	ProjectNumber  string
	InvoiceNumbers []string
}

// PayoutDetail is a payout with the charges it remitted
type PayoutDetail struct {
	Payout     Payout
	Items      []PayoutItem
	TotalGross int64
	TotalFee   int64
	TotalNet   int64
}

// ProjectCharges is the result of matching charges against a project's invoices.
// Message is set when no lookup was attempted.
type ProjectCharges struct {
	ProjectID      string
	ProjectNumber  string
	InvoiceNumbers []string
	Charges        []Charge
	Message        string
}

// NoInvoicesMessage is returned when a project lookup has no invoice numbers to match
const NoInvoicesMessage = "No invoices found for this project"
