package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/connector-stripe/internal/connector/service"
	"github.com/gin-gonic/gin"
)

// ProjectHandler serves project scoped billing lookups
type ProjectHandler struct {
	projectService service.ProjectService
	recorder       EventRecorder
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(logger *slog.Logger, projectService service.ProjectService, recorder EventRecorder) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		recorder:       recorder,
		logger:         logger,
	}
}

// GetStripeCharges returns the recent charges whose description references one of the
// invoice_numbers supplied by the caller. Without the parameter the result is empty.
func (h *ProjectHandler) GetStripeCharges(c *gin.Context) {
	start := time.Now()
	projectID := c.Param("id")
	projectNumber := c.Query("project_number")

	var invoiceNumbers []string
	if raw := c.Query("invoice_numbers"); raw != "" {
		invoiceNumbers = parseInvoiceNumbers(raw)
	}

	result, err := h.projectService.FindStripeCharges(c.Request.Context(), projectID, projectNumber, invoiceNumbers)
	if err != nil {
		RespondWithError(c, h.logger, err, start)
		return
	}

	if result.Message != "" {
		c.JSON(http.StatusOK, &Response{
			Success: true,
			Data: NoInvoicesResponse{
				ProjectNumber: nullable(result.ProjectNumber),
				Charges:       []ProjectChargeResponse{},
				Message:       result.Message,
			},
		})
		return
	}

	charges := make([]ProjectChargeResponse, 0, len(result.Charges))
	for _, charge := range result.Charges {
		charges = append(charges, mapProjectCharge(charge))
	}

	recordEvent(c, h.recorder, "project.stripe-charges", map[string]interface{}{
		"projectId":      projectID,
		"invoiceNumbers": result.InvoiceNumbers,
		"matchedCount":   len(charges),
		"durationMs":     time.Since(start).Milliseconds(),
	})

	c.JSON(http.StatusOK, &Response{
		Success: true,
		Data: ProjectChargesResponse{
			ProjectID:      result.ProjectID,
			ProjectNumber:  nullable(result.ProjectNumber),
			InvoiceNumbers: result.InvoiceNumbers,
			Charges:        charges,
			MatchedCount:   len(charges),
		},
	})
}
