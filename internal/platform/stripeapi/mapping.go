package stripeapi

import (
	"github.com/connector-stripe/internal/domain/billing"
	"github.com/stripe/stripe-go/v76"
)

func mapBalance(b *stripe.Balance) *billing.Balance {
	return &billing.Balance{
		Available: mapAmounts(b.Available),
		Pending:   mapAmounts(b.Pending),
	}
}

func mapAmounts(amounts []*stripe.Amount) []billing.Money {
	out := make([]billing.Money, 0, len(amounts))
	for _, a := range amounts {
		if a == nil {
			continue
		}
		out = append(out, billing.Money{Amount: a.Amount, Currency: string(a.Currency)})
	}
	return out
}

// mapCharge maps a charge; expandable references are only followed when expanded
func mapCharge(c *stripe.Charge) *billing.Charge {
	charge := &billing.Charge{
		ID:          c.ID,
		Amount:      c.Amount,
		Currency:    string(c.Currency),
		Status:      string(c.Status),
		Paid:        c.Paid,
		Created:     c.Created,
		Description: c.Description,
		ReceiptURL:  c.ReceiptURL,
		Metadata:    copyMetadata(c.Metadata),
	}
	if c.Customer != nil {
		charge.CustomerID = c.Customer.ID
	}
	if c.PaymentIntent != nil {
		charge.PaymentIntentID = c.PaymentIntent.ID
		// An unexpanded reference only carries its ID
		if c.PaymentIntent.Object != "" {
			charge.PaymentIntent = &billing.PaymentIntent{
				ID:       c.PaymentIntent.ID,
				Metadata: copyMetadata(c.PaymentIntent.Metadata),
			}
		}
	}
	if c.BalanceTransaction != nil && c.BalanceTransaction.Object != "" {
		charge.BalanceTransaction = mapBalanceTransaction(c.BalanceTransaction)
	}
	if c.PaymentMethodDetails != nil && c.PaymentMethodDetails.Card != nil {
		charge.Card = &billing.Card{
			Brand: string(c.PaymentMethodDetails.Card.Brand),
			Last4: c.PaymentMethodDetails.Card.Last4,
		}
	}
	return charge
}

func mapBalanceTransaction(bt *stripe.BalanceTransaction) *billing.BalanceTransaction {
	out := &billing.BalanceTransaction{
		ID:                bt.ID,
		Type:              string(bt.Type),
		Amount:            bt.Amount,
		Fee:               bt.Fee,
		Net:               bt.Net,
		Currency:          string(bt.Currency),
		Created:           bt.Created,
		AvailableOn:       bt.AvailableOn,
		ReportingCategory: string(bt.ReportingCategory),
		FeeDetails:        make([]billing.FeeDetail, 0, len(bt.FeeDetails)),
	}
	for _, fd := range bt.FeeDetails {
		if fd == nil {
			continue
		}
		out.FeeDetails = append(out.FeeDetails, billing.FeeDetail{
			Amount:      fd.Amount,
			Application: optionalString(fd.Application),
			Currency:    string(fd.Currency),
			Description: fd.Description,
			Type:        fd.Type,
		})
	}
	if bt.Source != nil {
		out.SourceID = bt.Source.ID
		if bt.Source.Type == stripe.BalanceTransactionSourceTypeCharge && bt.Source.Charge != nil {
			out.SourceCharge = mapCharge(bt.Source.Charge)
		}
	}
	return out
}

func mapCustomer(c *stripe.Customer) billing.Customer {
	return billing.Customer{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Created:  c.Created,
		Metadata: copyMetadata(c.Metadata),
	}
}

func mapPayout(p *stripe.Payout) billing.Payout {
	return billing.Payout{
		ID:          p.ID,
		Status:      string(p.Status),
		ArrivalDate: p.ArrivalDate,
		Created:     p.Created,
		Method:      string(p.Method),
		Currency:    string(p.Currency),
		Amount:      p.Amount,
	}
}

func copyMetadata(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// optionalString maps Stripe's empty strings back to the null it sent
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
