package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/connector-stripe/internal/domain/billing"
	"github.com/connector-stripe/internal/platform/fanout"
	"github.com/shopspring/decimal"
)

// ReconciliationServiceImpl implements the ReconciliationService interface
type ReconciliationServiceImpl struct {
	gateway billing.Gateway
	pool    *fanout.Pool
	logger  *slog.Logger
	now     func() time.Time
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(logger *slog.Logger, gateway billing.Gateway, pool *fanout.Pool) ReconciliationService {
	return &ReconciliationServiceImpl{
		gateway: gateway,
		pool:    pool,
		logger:  logger,
		now:     time.Now,
	}
}

// Unremitted reports the charge balance transactions created in the window that no payout
// arriving by the window's end has remitted, classified as pending or eligible.
func (s *ReconciliationServiceImpl) Unremitted(ctx context.Context, spec billing.WindowSpec) (*billing.UnremittedReport, error) {
	window := spec.Resolve(s.now())

	report := &billing.UnremittedReport{
		Summary: billing.UnremittedSummary{Window: window},
		Items:   []billing.UnremittedItem{},
	}
	if window.Empty() {
		s.logger.Debug("Empty reconciliation window", "from", window.From, "to", window.To)
		return report, nil
	}

	fromUnix, toUnix := window.FromUnix(), window.ToUnix()

	// 1. Charge transactions created in the window, with their charge
	charges, err := s.gateway.ListBalanceTransactions(ctx, billing.BalanceTransactionQuery{
		ListQuery:    billing.ListQuery{Limit: transactionPageSize, AllPages: true},
		Type:         billing.BalanceTransactionTypeCharge,
		Created:      &billing.EpochRange{GTE: billing.Int64(fromUnix), LTE: billing.Int64(toUnix)},
		ExpandSource: true,
	})
	if err != nil {
		return nil, err
	}

	// 2. Payouts created since the window start that arrived by its end
	payouts, err := s.gateway.ListPayouts(ctx, billing.PayoutQuery{
		ListQuery:   billing.ListQuery{Limit: transactionPageSize, AllPages: true},
		ArrivalDate: &billing.EpochRange{LTE: billing.Int64(toUnix)},
		Created:     &billing.EpochRange{GTE: billing.Int64(fromUnix)},
	})
	if err != nil {
		return nil, err
	}

	// 3. Everything those payouts remitted
	remitted, err := s.remittedTransactions(ctx, payouts.Data)
	if err != nil {
		return nil, err
	}

	// 4. Partition what is left
	var pendingNet, eligibleNet decimal.Decimal
	for _, bt := range charges.Data {
		charge := bt.SourceCharge
		if charge == nil {
			continue
		}
		if _, ok := remitted[bt.ID]; ok {
			continue
		}

		status := billing.UnremittedEligible
		if bt.AvailableOn > toUnix {
			status = billing.UnremittedPending
		}

		net := decimal.New(bt.Net, -2)
		if status == billing.UnremittedPending {
			report.Summary.Pending.Count++
			pendingNet = pendingNet.Add(net)
		} else {
			report.Summary.Eligible.Count++
			eligibleNet = eligibleNet.Add(net)
		}

		report.Items = append(report.Items, billing.UnremittedItem{
			ChargeID:             charge.ID,
			BalanceTransactionID: bt.ID,
			Created:              charge.Created,
			AvailableOn:          bt.AvailableOn,
			Gross:                bt.Amount,
			Fee:                  bt.Fee,
			Net:                  bt.Net,
			Description:          charge.Description,
			ReceiptURL:           charge.ReceiptURL,
			InvoiceNumbers:       billing.ExtractInvoiceNumbers(charge.Description),
			Status:               status,
		})
	}

	// 5. Oldest availability first
	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].AvailableOn < report.Items[j].AvailableOn
	})

	// 6. Round to cents
	report.Summary.Pending.Net = pendingNet.Round(2)
	report.Summary.Eligible.Net = eligibleNet.Round(2)
	report.Summary.Total = billing.Bucket{
		Count: report.Summary.Pending.Count + report.Summary.Eligible.Count,
		Net:   pendingNet.Add(eligibleNet).Round(2),
	}

	s.logger.Debug("Reconciled unremitted funds",
		"transactions", len(charges.Data),
		"payouts", len(payouts.Data),
		"remitted", len(remitted),
		"pending", report.Summary.Pending.Count,
		"eligible", report.Summary.Eligible.Count,
	)
	return report, nil
}

// remittedTransactions fetches the transactions of every payout concurrently and unions their ids
func (s *ReconciliationServiceImpl) remittedTransactions(ctx context.Context, payouts []billing.Payout) (map[string]struct{}, error) {
	ids := make([]string, 0, len(payouts))
	for _, p := range payouts {
		ids = append(ids, p.ID)
	}

	byPayout, err := fanout.Collect(ctx, s.pool, ids, func(ctx context.Context, payoutID string) ([]string, error) {
		page, err := s.gateway.ListBalanceTransactions(ctx, billing.BalanceTransactionQuery{
			ListQuery: billing.ListQuery{Limit: transactionPageSize, AllPages: true},
			PayoutID:  payoutID,
		})
		if err != nil {
			return nil, err
		}
		txnIDs := make([]string, 0, len(page.Data))
		for _, bt := range page.Data {
			txnIDs = append(txnIDs, bt.ID)
		}
		return txnIDs, nil
	})
	if err != nil {
		return nil, err
	}

	remitted := make(map[string]struct{})
	for _, txnIDs := range byPayout {
		for _, id := range txnIDs {
			remitted[id] = struct{}{}
		}
	}
	return remitted, nil
}
