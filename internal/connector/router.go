package connector

import (
	"log/slog"

	"github.com/connector-stripe/internal/config"
	"github.com/connector-stripe/internal/connector/handler"
	"github.com/connector-stripe/internal/connector/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application.
// Every route, health checks included, sits behind the auth guard.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	cfg *config.Config,
	billingHandler *handler.BillingHandler,
	reconciliationHandler *handler.ReconciliationHandler,
	projectHandler *handler.ProjectHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Auth(logger, cfg.Auth))

	health := handler.Health(cfg.Application.Name)
	r.GET("/health", health)

	api := r.Group("/api")
	{
		api.GET("/healthz", health)

		org := api.Group("/org")
		{
			billing := org.Group("/billing")
			{
				billing.GET("/balance", billingHandler.GetBalance)
				billing.GET("/charges", billingHandler.ListCharges)
				billing.GET("/customers", billingHandler.ListCustomers)
				billing.GET("/payouts", billingHandler.ListPayouts)
				billing.GET("/payouts/unremitted", reconciliationHandler.GetUnremitted)
			}

			projects := org.Group("/projects")
			{
				projects.GET("/:id/stripe-charges", projectHandler.GetStripeCharges)
			}
		}
	}
}
