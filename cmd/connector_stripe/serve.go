package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/connector-stripe/internal/config"
	"github.com/connector-stripe/internal/connector"
	"github.com/connector-stripe/internal/connector/audit"
	"github.com/connector-stripe/internal/connector/service"
	"github.com/connector-stripe/internal/logger"
	"github.com/connector-stripe/internal/platform/fanout"
	"github.com/connector-stripe/internal/platform/messaging/producers"
	"github.com/connector-stripe/internal/platform/stripeapi"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Example: `  # Serve with configs/connector_stripe.env
  connector-stripe serve

  # Serve with configs/staging.env
  connector-stripe serve --config staging`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Initialize configuration
	cfg, err := config.LoadConfig(configName)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Stripe connector",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"auth_dev_mode", cfg.Auth.DevMode(),
	)
	if cfg.Auth.DevMode() {
		log.Warn("CONNECTOR_STRIPE_AUTH_TOKEN not set, every request will be accepted")
	}

	// The Stripe client is built on first use so a missing key fails requests, not startup
	provider := stripeapi.NewProvider(log, cfg.Stripe)
	gateway := stripeapi.NewGateway(log, provider)

	pool, err := fanout.NewPool(fanout.Config{Size: cfg.WorkerPool.Size}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize worker pool: %w", err)
	}
	defer pool.Shutdown()
	log.Info("Worker pool started", "capacity", pool.Capacity(), "running_workers", pool.Running())

	// Billing events are only logged unless the stream is enabled
	var publisher producers.MessagePublisher
	var eventProducer *producers.BillingEventProducer
	if cfg.Kafka.Enabled {
		eventProducer, err = producers.NewBillingEventProducer(log, &cfg.Kafka)
		if err != nil {
			return fmt.Errorf("failed to initialize billing event producer: %w", err)
		}
		publisher = eventProducer
	}
	recorder := audit.NewRecorder(log, publisher)

	// Initialize services
	billingService := service.NewBillingService(log, gateway, pool)
	reconciliationService := service.NewReconciliationService(log, gateway, pool)
	projectService := service.NewProjectService(log, gateway)

	// Initialize REST server
	server := connector.NewServer(log, cfg, billingService, reconciliationService, projectService, recorder)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	// Flush pending events after the last request has been served
	if eventProducer != nil {
		if err := eventProducer.Close(); err != nil {
			log.Error("Error closing billing event producer", "error", err)
			shutdownErr = err
		}
	}

	if serverErr != nil {
		return serverErr
	}
	if shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
		return shutdownErr
	}
	log.Info("Server shutdown completed successfully")
	return nil
}
