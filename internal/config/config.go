// Package config provides configuration structures and validation for the connector.
// It handles environment-based configuration for the HTTP server, the inbound shared-secret
// auth, the Stripe client, the optional billing event stream, and the fan-out worker pool.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration with settings for all components.
// Each field represents a major subsystem's configuration and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Auth        AuthConfig
	Stripe      StripeConfig
	Kafka       KafkaConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// AuthConfig contains the inbound shared-secret settings.
// An empty Token puts the connector in dev mode: every request is accepted.
type AuthConfig struct {
	Token        string
	DefaultOrgID string // Org assigned to authenticated requests without X-Org-ID
	DevOrgID     string // Org assigned in dev mode without X-Org-ID
}

// DevMode reports whether the auth guard is bypassed.
func (a AuthConfig) DevMode() bool {
	return a.Token == ""
}

// StripeConfig contains upstream client settings.
// SecretKey is not validated here; its absence surfaces on first upstream use.
type StripeConfig struct {
	SecretKey  string
	APIBaseURL string // Override for the Stripe API host, empty means the SDK default
	AppName    string
	AppVersion string
}

// KafkaConfig contains the billing event stream configuration
type KafkaConfig struct {
	Enabled            bool
	Brokers            string
	BillingEventsTopic string
	NumPartitions      int // Number of partitions for topics
	ReplicationFactor  int // Replication factor for topics
	WriteTimeout       time.Duration
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of concurrent upstream sub-calls
}

// validate performs validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Auth config
	if c.Auth.DefaultOrgID == "" {
		validationErrors = append(validationErrors, "AUTH_DEFAULT_ORG_ID is required")
	}
	if c.Auth.DevOrgID == "" {
		validationErrors = append(validationErrors, "AUTH_DEV_ORG_ID is required")
	}

	// Kafka settings only matter when the event stream is switched on
	if c.Kafka.Enabled {
		if c.Kafka.Brokers == "" {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if c.Kafka.BillingEventsTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_BILLING_EVENTS_TOPIC is required when KAFKA_ENABLED is true")
		}
		if c.Kafka.WriteTimeout <= 0 {
			validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
		}
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
