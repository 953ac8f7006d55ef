package service

import (
	"context"
	"log/slog"

	"github.com/connector-stripe/internal/domain/billing"
)

// projectChargeLookback is how many of the most recent charges are scanned for invoice references
const projectChargeLookback = 100

// ProjectServiceImpl implements the ProjectService interface
type ProjectServiceImpl struct {
	gateway billing.Gateway
	logger  *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(logger *slog.Logger, gateway billing.Gateway) ProjectService {
	return &ProjectServiceImpl{
		gateway: gateway,
		logger:  logger,
	}
}

// FindStripeCharges scans the most recent charges for descriptions referencing any of invoiceNumbers.
// The connector has no project-to-invoice mapping of its own; callers supply the numbers.
// A nil list means none were supplied; an empty one still scans and matches nothing.
func (s *ProjectServiceImpl) FindStripeCharges(ctx context.Context, projectID, projectNumber string, invoiceNumbers []string) (*billing.ProjectCharges, error) {
	result := &billing.ProjectCharges{
		ProjectID:      projectID,
		ProjectNumber:  projectNumber,
		InvoiceNumbers: invoiceNumbers,
		Charges:        []billing.Charge{},
	}
	if invoiceNumbers == nil {
		result.Message = billing.NoInvoicesMessage
		return result, nil
	}

	page, err := s.gateway.ListCharges(ctx, billing.ChargeQuery{
		ListQuery: billing.ListQuery{Limit: projectChargeLookback},
	})
	if err != nil {
		return nil, err
	}

	for _, charge := range page.Data {
		if billing.MatchesAnyInvoice(charge.Description, invoiceNumbers) {
			result.Charges = append(result.Charges, charge)
		}
	}

	s.logger.Debug("Matched project charges",
		"project_id", projectID,
		"scanned", len(page.Data),
		"matched", len(result.Charges),
	)
	return result, nil
}
