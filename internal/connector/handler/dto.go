package handler

import "github.com/connector-stripe/internal/domain/billing"

// Response bodies mirror the monolith billing API field for field, including its
// mixed key casing. Amounts are major units unless noted; timestamps are UTC ISO-8601.

// AmountResponse is one currency entry of a balance
type AmountResponse struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// BalanceResponse represents the account balance
type BalanceResponse struct {
	Available []AmountResponse `json:"available"`
	Pending   []AmountResponse `json:"pending"`
}

// ChargeResponse represents a charge row with its balance transaction details
type ChargeResponse struct {
	ID                   string              `json:"id"`
	PaymentIntent        *string             `json:"paymentIntent"`
	Amount               float64             `json:"amount"`
	Currency             string              `json:"currency"`
	Status               string              `json:"status"`
	Paid                 bool                `json:"paid"`
	Created              string              `json:"created"`
	Customer             *string             `json:"customer"`
	Description          *string             `json:"description"`
	ReceiptURL           *string             `json:"receiptUrl"`
	Metadata             map[string]string   `json:"metadata"`
	ProjectNumber        *string             `json:"project_number"`
	Fee                  *float64            `json:"fee"`
	Net                  *float64            `json:"net"`
	FeeDetails           []billing.FeeDetail `json:"feeDetails"`
	BalanceTransactionID *string             `json:"balanceTransactionId"`
	AvailableOn          *string             `json:"availableOn"`
	ReportingCategory    *string             `json:"reportingCategory"`
	PayoutID             *string             `json:"payoutId"` // Not resolvable from a charge listing, always null
}

// CustomerResponse represents a customer row
type CustomerResponse struct {
	ID       string            `json:"id"`
	Name     *string           `json:"name"`
	Email    *string           `json:"email"`
	Created  string            `json:"created"`
	Metadata map[string]string `json:"metadata"`
}

// TotalsResponse sums the charges of a payout
type TotalsResponse struct {
	Gross float64 `json:"gross"`
	Fee   float64 `json:"fee"`
	Net   float64 `json:"net"`
}

// PayoutItemResponse is one charge remitted by a payout
type PayoutItemResponse struct {
	ChargeID       string   `json:"chargeId"`
	Created        string   `json:"created"`
	Gross          float64  `json:"gross"`
	Fee            float64  `json:"fee"`
	Net            float64  `json:"net"`
	ProjectNumber  *string  `json:"projectNumber"`
	InvoiceNumbers []string `json:"invoiceNumbers"`
}

// PayoutResponse represents a payout with its remitted charges
type PayoutResponse struct {
	ID          string               `json:"id"`
	Status      string               `json:"status"`
	ArrivalDate string               `json:"arrivalDate"`
	Method      string               `json:"method"`
	Currency    string               `json:"currency"`
	Totals      TotalsResponse       `json:"totals"`
	Items       []PayoutItemResponse `json:"items"`
}

// BucketResponse is a count with its net total, rounded to cents
type BucketResponse struct {
	Count int     `json:"count"`
	Net   float64 `json:"net"`
}

// WindowResponse is the resolved reporting window
type WindowResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// UnremittedSummaryResponse aggregates the unremitted report
type UnremittedSummaryResponse struct {
	Pending  BucketResponse `json:"pending"`
	Eligible BucketResponse `json:"eligible"`
	Total    BucketResponse `json:"total"`
	AsOf     string         `json:"asOf"`
	Window   WindowResponse `json:"window"`
}

// UnremittedReportResponse is the unremitted report without the HTTP envelope
type UnremittedReportResponse struct {
	Summary UnremittedSummaryResponse `json:"summary"`
	Items   []UnremittedItemResponse  `json:"items"`
}

// UnremittedItemResponse is one charge not yet paid out
type UnremittedItemResponse struct {
	ChargeID       string   `json:"chargeId"`
	Created        string   `json:"created"`
	AvailableOn    string   `json:"availableOn"`
	Gross          float64  `json:"gross"`
	Fee            float64  `json:"fee"`
	Net            float64  `json:"net"`
	Description    *string  `json:"description"`
	ReceiptURL     *string  `json:"receiptUrl"`
	InvoiceNumbers []string `json:"invoiceNumbers"`
	Status         string   `json:"status"`
}

// PaymentMethodResponse is the card behind a project charge
type PaymentMethodResponse struct {
	Brand *string `json:"brand"`
	Last4 *string `json:"last4"`
}

// ProjectChargeResponse is a charge matched to a project invoice. Amount is in cents.
type ProjectChargeResponse struct {
	ID              string                 `json:"id"`
	Amount          int64                  `json:"amount"`
	AmountFormatted string                 `json:"amountFormatted"`
	Currency        string                 `json:"currency"`
	Status          string                 `json:"status"`
	Created         string                 `json:"created"`
	Description     *string                `json:"description"`
	ReceiptURL      *string                `json:"receiptUrl"`
	PaymentMethod   *PaymentMethodResponse `json:"paymentMethod"`
	Metadata        map[string]string      `json:"metadata"`
}

// ProjectChargesResponse lists the charges matched to a project's invoices
type ProjectChargesResponse struct {
	ProjectID      string                  `json:"projectId"`
	ProjectNumber  *string                 `json:"projectNumber"`
	InvoiceNumbers []string                `json:"invoiceNumbers"`
	Charges        []ProjectChargeResponse `json:"charges"`
	MatchedCount   int                     `json:"matchedCount"`
}

// NoInvoicesResponse is returned when the caller supplied no invoice numbers
type NoInvoicesResponse struct {
	ProjectNumber *string                 `json:"projectNumber"`
	InvoiceNumber *string                 `json:"invoiceNumber"`
	Charges       []ProjectChargeResponse `json:"charges"`
	MatchedCount  int                     `json:"matchedCount"`
	Message       string                  `json:"message"`
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mapBalance(b *billing.Balance) BalanceResponse {
	return BalanceResponse{
		Available: mapAmounts(b.Available),
		Pending:   mapAmounts(b.Pending),
	}
}

func mapAmounts(amounts []billing.Money) []AmountResponse {
	out := make([]AmountResponse, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, AmountResponse{
			Amount:   billing.ToMajor(a.Amount),
			Currency: billing.FormatCurrency(a.Currency),
		})
	}
	return out
}

func mapCharge(c billing.Charge) ChargeResponse {
	row := ChargeResponse{
		ID:            c.ID,
		PaymentIntent: nullable(c.PaymentIntentID),
		Amount:        billing.ToMajor(c.Amount),
		Currency:      billing.FormatCurrency(c.Currency),
		Status:        c.Status,
		Paid:          c.Paid,
		Created:       billing.FormatTimestamp(c.Created),
		Customer:      nullable(c.CustomerID),
		Description:   nullable(c.Description),
		ReceiptURL:    nullable(c.ReceiptURL),
		Metadata:      c.Metadata,
		ProjectNumber: nullable(c.ProjectNumber()),
		FeeDetails:    []billing.FeeDetail{},
	}

	if bt := c.BalanceTransaction; bt != nil {
		fee := billing.ToMajor(bt.Fee)
		net := billing.ToMajor(bt.Net)
		row.Fee = &fee
		row.Net = &net
		row.FeeDetails = bt.FeeDetails
		row.BalanceTransactionID = nullable(bt.ID)
		row.AvailableOn = nullable(billing.FormatTimestamp(bt.AvailableOn))
		row.ReportingCategory = nullable(bt.ReportingCategory)
	}
	return row
}

func mapCustomer(c billing.Customer) CustomerResponse {
	return CustomerResponse{
		ID:       c.ID,
		Name:     nullable(c.Name),
		Email:    nullable(c.Email),
		Created:  billing.FormatTimestamp(c.Created),
		Metadata: c.Metadata,
	}
}

func mapPayout(d billing.PayoutDetail) PayoutResponse {
	items := make([]PayoutItemResponse, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, PayoutItemResponse{
			ChargeID:       item.ChargeID,
			Created:        billing.FormatTimestamp(item.Created),
			Gross:          billing.ToMajor(item.Gross),
			Fee:            billing.ToMajor(item.Fee),
			Net:            billing.ToMajor(item.Net),
			ProjectNumber:  nullable(item.ProjectNumber),
			InvoiceNumbers: item.InvoiceNumbers,
		})
	}

	return PayoutResponse{
		ID:          d.Payout.ID,
		Status:      d.Payout.Status,
		ArrivalDate: billing.FormatTimestamp(d.Payout.ArrivalDate),
		Method:      d.Payout.Method,
		Currency:    billing.FormatCurrency(d.Payout.Currency),
		Totals: TotalsResponse{
			Gross: billing.ToMajor(d.TotalGross),
			Fee:   billing.ToMajor(d.TotalFee),
			Net:   billing.ToMajor(d.TotalNet),
		},
		Items: items,
	}
}

func mapBucket(b billing.Bucket) BucketResponse {
	return BucketResponse{
		Count: b.Count,
		Net:   b.Net.InexactFloat64(),
	}
}

func mapUnremittedSummary(s billing.UnremittedSummary) UnremittedSummaryResponse {
	to := billing.FormatTime(s.Window.To)
	return UnremittedSummaryResponse{
		Pending:  mapBucket(s.Pending),
		Eligible: mapBucket(s.Eligible),
		Total:    mapBucket(s.Total),
		AsOf:     to,
		Window: WindowResponse{
			From: billing.FormatTime(s.Window.From),
			To:   to,
		},
	}
}

// NewUnremittedReportResponse renders a report with the field shapes of the unremitted endpoint
func NewUnremittedReportResponse(report *billing.UnremittedReport) UnremittedReportResponse {
	return UnremittedReportResponse{
		Summary: mapUnremittedSummary(report.Summary),
		Items:   mapUnremittedItems(report.Items),
	}
}

func mapUnremittedItems(items []billing.UnremittedItem) []UnremittedItemResponse {
	out := make([]UnremittedItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, UnremittedItemResponse{
			ChargeID:       item.ChargeID,
			Created:        billing.FormatTimestamp(item.Created),
			AvailableOn:    billing.FormatTimestamp(item.AvailableOn),
			Gross:          billing.ToMajor(item.Gross),
			Fee:            billing.ToMajor(item.Fee),
			Net:            billing.ToMajor(item.Net),
			Description:    nullable(item.Description),
			ReceiptURL:     nullable(item.ReceiptURL),
			InvoiceNumbers: item.InvoiceNumbers,
			Status:         string(item.Status),
		})
	}
	return out
}

func mapProjectCharge(c billing.Charge) ProjectChargeResponse {
	row := ProjectChargeResponse{
		ID:              c.ID,
		Amount:          c.Amount,
		AmountFormatted: billing.FormatAmount(c.Amount, c.Currency),
		Currency:        billing.FormatCurrency(c.Currency),
		Status:          c.Status,
		Created:         billing.FormatTimestamp(c.Created),
		Description:     nullable(c.Description),
		ReceiptURL:      nullable(c.ReceiptURL),
		Metadata:        c.Metadata,
	}
	// An expanded payment intent wins even when its metadata is empty
	if c.PaymentIntent != nil {
		row.Metadata = c.PaymentIntent.Metadata
	}
	if c.Card != nil {
		row.PaymentMethod = &PaymentMethodResponse{
			Brand: nullable(c.Card.Brand),
			Last4: nullable(c.Card.Last4),
		}
	}
	return row
}
