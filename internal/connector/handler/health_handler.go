package handler

import (
	"net/http"
	"time"

	"github.com/connector-stripe/internal/domain/billing"
	"github.com/gin-gonic/gin"
)

// Health reports liveness under the given service name
func Health(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "ok",
			Service:   serviceName,
			Timestamp: billing.FormatTime(time.Now()),
		})
	}
}
