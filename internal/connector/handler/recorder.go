package handler

import (
	"context"

	"github.com/connector-stripe/internal/connector/middleware"
	"github.com/gin-gonic/gin"
)

// EventRecorder receives one event per served request
type EventRecorder interface {
	Record(ctx context.Context, evt, orgID, correlationID string, attrs map[string]interface{})
}

// recordEvent tags evt with the request's org and correlation ID
func recordEvent(c *gin.Context, recorder EventRecorder, evt string, attrs map[string]interface{}) {
	recorder.Record(c.Request.Context(), evt, middleware.GetOrgID(c), middleware.GetCorrelationID(c), attrs)
}
