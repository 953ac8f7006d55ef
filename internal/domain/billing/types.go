package billing

// Amounts on every type are in the currency's minor units (cents), as Stripe reports them.
// Timestamps are Unix epoch seconds.

// Money is a single-currency amount
type Money struct {
	Amount   int64
	Currency string
}

// Balance is the account balance split by availability
type Balance struct {
	Available []Money
	Pending   []Money
}

// BalanceTransactionTypeCharge is the balance transaction type originated by a charge
const BalanceTransactionTypeCharge = "charge"

// FeeDetail is one fee component of a balance transaction
type FeeDetail struct {
	Amount      int64   `json:"amount"`
	Application *string `json:"application"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
}

// BalanceTransaction is a movement of funds in the account balance.
// Net equals Amount minus Fee; the upstream enforces it.
type BalanceTransaction struct {
	ID                string
	Type              string
	Amount            int64 // Gross
	Fee               int64
	Net               int64
	Currency          string
	Created           int64
	AvailableOn       int64 // When the funds become eligible for payout
	ReportingCategory string
	FeeDetails        []FeeDetail

	// SourceID is set whenever the transaction has a source, expanded or not.
	SourceID string
	// SourceCharge is set only when the source was expanded and is a charge.
	SourceCharge *Charge
}

// PaymentIntent carries the parts of a payment intent the connector reads
type PaymentIntent struct {
	ID       string
	Metadata map[string]string
}

// Card is the card used for a charge
type Card struct {
	Brand string
	Last4 string
}

// Charge is a single payment attempt
type Charge struct {
	ID          string
	Amount      int64
	Currency    string
	Status      string
	Paid        bool
	Created     int64
	Description string
	ReceiptURL  string
	CustomerID  string
	Metadata    map[string]string

	// PaymentIntentID is set whenever the charge belongs to a payment intent.
	PaymentIntentID string
	// PaymentIntent is set only when expanded.
	PaymentIntent *PaymentIntent
	// BalanceTransaction is set only when expanded.
	BalanceTransaction *BalanceTransaction
	Card               *Card
}

// ProjectNumber resolves the project number from payment intent metadata first,
// falling back to the charge's own metadata
func (c *Charge) ProjectNumber() string {
	if c.PaymentIntent != nil && c.PaymentIntent.Metadata[MetadataProjectNumber] != "" {
		return c.PaymentIntent.Metadata[MetadataProjectNumber]
	}
	return c.Metadata[MetadataProjectNumber]
}

// PayoutProjectNumber resolves the project number the way payout breakdowns report it:
// the charge's own metadata first, then payment intent metadata
func (c *Charge) PayoutProjectNumber() string {
	if c.Metadata[MetadataProjectNumber] != "" {
		return c.Metadata[MetadataProjectNumber]
	}
	if c.PaymentIntent != nil {
		return c.PaymentIntent.Metadata[MetadataProjectNumber]
	}
	return ""
}

// MetadataProjectNumber is the metadata key carrying the monolith's project number
const MetadataProjectNumber = "project_number"

// Customer is a Stripe customer
type Customer struct {
	ID       string
	Name     string
	Email    string
	Created  int64
	Metadata map[string]string
}

// Payout is a transfer of funds from the Stripe balance to a bank account
type Payout struct {
	ID          string
	Status      string
	ArrivalDate int64
	Created     int64
	Method      string
	Currency    string
	Amount      int64
}

// Page is one page of a cursor-paginated listing
type Page[T any] struct {
	Data    []T
	HasMore bool
}
