package handler

import (
	"log/slog"
	"time"

	"github.com/connector-stripe/internal/connector/service"
	"github.com/connector-stripe/internal/domain/billing"
	"github.com/gin-gonic/gin"
)

// ReconciliationHandler serves the unremitted funds report
type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
	recorder              EventRecorder
	logger                *slog.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(logger *slog.Logger, reconciliationService service.ReconciliationService, recorder EventRecorder) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		recorder:              recorder,
		logger:                logger,
	}
}

// GetUnremitted reports charges not yet paid out, split into pending and eligible.
// Accepts as_of with lookback_days, or the legacy from/to pair.
func (h *ReconciliationHandler) GetUnremitted(c *gin.Context) {
	start := time.Now()

	spec, err := parseWindowSpec(c)
	if err != nil {
		RespondWithError(c, h.logger, err, start)
		return
	}

	report, err := h.reconciliationService.Unremitted(c.Request.Context(), spec)
	if err != nil {
		RespondWithError(c, h.logger, err, start)
		return
	}

	summary := report.Summary
	meta := newMeta(start)
	meta.LookbackDays = &summary.Window.LookbackDays

	recordEvent(c, h.recorder, "billing.payouts.unremitted", map[string]interface{}{
		"asOf":          billing.FormatTime(summary.Window.To),
		"lookbackDays":  summary.Window.LookbackDays,
		"pendingCount":  summary.Pending.Count,
		"eligibleCount": summary.Eligible.Count,
		"durationMs":    meta.DurationMs,
	})

	setResponseHeaders(c, "Unremitted")
	body := NewUnremittedReportResponse(report)
	RespondReport(c, body.Summary, body.Items, meta)
}
