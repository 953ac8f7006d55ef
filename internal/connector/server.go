package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/connector-stripe/internal/config"
	"github.com/connector-stripe/internal/connector/handler"
	"github.com/connector-stripe/internal/connector/service"
	"github.com/gin-gonic/gin"
)

// Server handles HTTP requests and manages the connector's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	billingService service.BillingService,
	reconciliationService service.ReconciliationService,
	projectService service.ProjectService,
	recorder handler.EventRecorder,
) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	billingHandler := handler.NewBillingHandler(log, billingService, recorder)
	reconciliationHandler := handler.NewReconciliationHandler(log, reconciliationService, recorder)
	projectHandler := handler.NewProjectHandler(log, projectService, recorder)

	setupRouter(log, httpRouter, cfg, billingHandler, reconciliationHandler, projectHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Handler exposes the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, draining in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
