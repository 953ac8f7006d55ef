// Package audit records one structured event per served request and forwards it to the
// billing event stream when one is configured.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/connector-stripe/internal/connector/middleware"
	"github.com/connector-stripe/internal/platform/messaging/producers"
)

// Event is the published form of a recorded event.
// Attrs carry request metadata and counts only, never billing records.
type Event struct {
	Evt           string                 `json:"evt"`
	OrgID         string                 `json:"orgId,omitempty"`
	CorrelationID string                 `json:"correlationId,omitempty"`
	OccurredAt    time.Time              `json:"occurredAt"`
	Attrs         map[string]interface{} `json:"attrs"`
}

// Recorder logs events and optionally publishes them
type Recorder struct {
	logger    *slog.Logger
	publisher producers.MessagePublisher
	now       func() time.Time
}

// NewRecorder creates a recorder; a nil publisher means log only
func NewRecorder(logger *slog.Logger, publisher producers.MessagePublisher) *Recorder {
	return &Recorder{
		logger:    logger,
		publisher: publisher,
		now:       time.Now,
	}
}

// Record logs evt at info level and publishes it keyed by org.
// Publish failures are logged and swallowed.
func (r *Recorder) Record(ctx context.Context, evt, orgID, correlationID string, attrs map[string]interface{}) {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	if correlationID == "" {
		correlationID = middleware.CorrelationIDFromContext(ctx)
	}

	args := make([]any, 0, 6+2*len(attrs))
	args = append(args, "evt", evt, "org_id", orgID)
	if correlationID != "" {
		args = append(args, "correlation_id", correlationID)
	}
	for k, v := range attrs {
		args = append(args, k, v)
	}
	r.logger.InfoContext(ctx, evt, args...)

	if r.publisher == nil {
		return
	}

	event := Event{
		Evt:           evt,
		OrgID:         orgID,
		CorrelationID: correlationID,
		OccurredAt:    r.now().UTC(),
		Attrs:         attrs,
	}
	if err := r.publisher.Publish(ctx, orgID, event); err != nil {
		r.logger.Warn("Failed to publish billing event", "evt", evt, "error", err)
	}
}
