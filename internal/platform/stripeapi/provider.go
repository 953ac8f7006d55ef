// Package stripeapi adapts the Stripe SDK to the billing gateway the connector consumes.
package stripeapi

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/connector-stripe/internal/config"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrMissingSecretKey is returned by every upstream call when STRIPE_SECRET_KEY is unset
var ErrMissingSecretKey = errors.New("STRIPE_SECRET_KEY environment variable is required")

// Provider builds the Stripe client on first use and hands out the same instance afterwards.
// A failed build is permanent for the lifetime of the Provider.
type Provider struct {
	cfg    config.StripeConfig
	logger *slog.Logger

	once sync.Once
	api  *client.API
	err  error
}

// NewProvider creates a provider; no client is constructed until Client is called
func NewProvider(logger *slog.Logger, cfg config.StripeConfig) *Provider {
	return &Provider{
		cfg:    cfg,
		logger: logger,
	}
}

// Client returns the shared Stripe client
func (p *Provider) Client() (*client.API, error) {
	p.once.Do(func() {
		p.api, p.err = p.build()
	})
	return p.api, p.err
}

func (p *Provider) build() (*client.API, error) {
	if p.cfg.SecretKey == "" {
		p.logger.Error("Stripe client unavailable", "error", ErrMissingSecretKey)
		return nil, ErrMissingSecretKey
	}

	if p.cfg.AppName != "" {
		stripe.SetAppInfo(&stripe.AppInfo{
			Name:    p.cfg.AppName,
			Version: p.cfg.AppVersion,
		})
	}

	// The connector never retries upstream calls itself
	backendConfig := func(url string) *stripe.BackendConfig {
		cfg := &stripe.BackendConfig{
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &leveledLogger{logger: p.logger},
		}
		if url != "" {
			cfg.URL = stripe.String(url)
		}
		return cfg
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig(p.cfg.APIBaseURL)),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig("")),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig("")),
	}

	p.logger.Info("Stripe client initialized", "custom_base_url", p.cfg.APIBaseURL != "")
	return client.New(p.cfg.SecretKey, backends), nil
}
