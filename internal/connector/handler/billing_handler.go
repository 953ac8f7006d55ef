package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/connector-stripe/internal/connector/service"
	"github.com/connector-stripe/internal/domain/billing"
	"github.com/gin-gonic/gin"
)

const (
	defaultChargesLimit   = 25
	defaultCustomersLimit = 25
	defaultPayoutsLimit   = 20
)

// BillingHandler serves the read-only billing views
type BillingHandler struct {
	billingService service.BillingService
	recorder       EventRecorder
	logger         *slog.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(logger *slog.Logger, billingService service.BillingService, recorder EventRecorder) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		recorder:       recorder,
		logger:         logger,
	}
}

// GetBalance returns available and pending funds per currency
func (h *BillingHandler) GetBalance(c *gin.Context) {
	start := time.Now()

	balance, err := h.billingService.GetBalance(c.Request.Context())
	if err != nil {
		RespondWithError(c, h.logger, err, start)
		return
	}

	meta := newMeta(start)
	recordEvent(c, h.recorder, "billing.balance.retrieve", map[string]interface{}{
		"durationMs": meta.DurationMs,
	})

	setResponseHeaders(c, "Balance")
	RespondData(c, mapBalance(balance), meta)
}

// ListCharges returns one page of charges, newest first
func (h *BillingHandler) ListCharges(c *gin.Context) {
	start := time.Now()
	limit := parseLimit(c, defaultChargesLimit)
	cursor := c.Query("cursor")

	page, err := h.billingService.ListCharges(c.Request.Context(), limit, cursor)
	if err != nil {
		RespondWithError(c, h.logger, err, start)
		return
	}

	rows := make([]ChargeResponse, 0, len(page.Data))
	lastID := ""
	for _, charge := range page.Data {
		rows = append(rows, mapCharge(charge))
		lastID = charge.ID
	}

	meta := newMeta(start)
	recordEvent(c, h.recorder, "billing.charges.list", map[string]interface{}{
		"limit":       limit,
		"hasCursor":   cursor != "",
		"resultCount": len(rows),
		"hasMore":     page.HasMore,
		"durationMs":  meta.DurationMs,
	})

	setResponseHeaders(c, "Charges")
	RespondPage(c, rows, newPagination(page.HasMore, lastID), meta)
}

// ListCustomers lists customers, or searches them by email or name when query is given
func (h *BillingHandler) ListCustomers(c *gin.Context) {
	start := time.Now()
	limit := parseLimit(c, defaultCustomersLimit)
	cursor := c.Query("cursor")
	query := c.Query("query")

	evt := "billing.customers.list"
	attrs := map[string]interface{}{"limit": limit, "hasCursor": cursor != ""}

	list := h.billingService.ListCustomers
	if query != "" {
		evt = "billing.customers.search"
		attrs = map[string]interface{}{"query": query}
		list = func(ctx context.Context, limit int, _ string) (*billing.Page[billing.Customer], error) {
			return h.billingService.SearchCustomers(ctx, query, limit)
		}
	}

	page, err := list(c.Request.Context(), limit, cursor)
	if err != nil {
		RespondWithError(c, h.logger, err, start)
		return
	}

	rows := make([]CustomerResponse, 0, len(page.Data))
	lastID := ""
	for _, customer := range page.Data {
		rows = append(rows, mapCustomer(customer))
		lastID = customer.ID
	}

	meta := newMeta(start)
	attrs["resultCount"] = len(rows)
	attrs["hasMore"] = page.HasMore
	attrs["durationMs"] = meta.DurationMs
	recordEvent(c, h.recorder, evt, attrs)

	setResponseHeaders(c, "Customers")
	RespondPage(c, rows, newPagination(page.HasMore, lastID), meta)
}

// ListPayouts returns one page of payouts with the charges each remitted
func (h *BillingHandler) ListPayouts(c *gin.Context) {
	start := time.Now()

	filter := service.PayoutFilter{
		Limit:  parseLimit(c, defaultPayoutsLimit),
		Cursor: c.Query("cursor"),
	}
	var err error
	if filter.ArrivalFrom, err = parseOptionalDate(c, "date_from"); err != nil {
		RespondWithError(c, h.logger, err, start)
		return
	}
	if filter.ArrivalTo, err = parseOptionalDate(c, "date_to"); err != nil {
		RespondWithError(c, h.logger, err, start)
		return
	}

	page, err := h.billingService.ListPayouts(c.Request.Context(), filter)
	if err != nil {
		RespondWithError(c, h.logger, err, start)
		return
	}

	rows := make([]PayoutResponse, 0, len(page.Data))
	lastID := ""
	for _, detail := range page.Data {
		rows = append(rows, mapPayout(detail))
		lastID = detail.Payout.ID
	}

	meta := newMeta(start)
	recordEvent(c, h.recorder, "billing.payouts.list", map[string]interface{}{
		"limit":       filter.Limit,
		"hasCursor":   filter.Cursor != "",
		"dateFrom":    c.Query("date_from"),
		"dateTo":      c.Query("date_to"),
		"resultCount": len(rows),
		"hasMore":     page.HasMore,
		"durationMs":  meta.DurationMs,
	})

	setResponseHeaders(c, "Payouts")
	RespondPage(c, rows, newPagination(page.HasMore, lastID), meta)
}
