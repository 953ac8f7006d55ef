package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LoadConfigWithName loads configuration using the specified name, auto-detecting the file type
func LoadConfigWithName(configName string) (*Config, error) {
	return loadConfig(configName, "")
}

// LoadConfigWithNameAndType loads configuration with an explicit name and file type
func LoadConfigWithNameAndType(configName, configType string) (*Config, error) {
	return loadConfig(configName, configType)
}

// LoadConfig loads configuration from a .env file using the provided base name
func LoadConfig(configName string) (*Config, error) {
	configFileName := fmt.Sprintf("%s.env", configName)
	return loadConfig(configFileName, "env")
}

// loadConfig handles configuration loading from files and environment variables.
// Layers, lowest priority first:
// 1. Defaults
// 2. Config file values (if found)
// 3. Environment variables
// The merged result is validated before it is returned.
func loadConfig(configName, configType string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}

	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Printf("INFO: No config file '%s' found, relying on environment variables and defaults.\n", configName)
		} else {
			fmt.Printf("WARNING: Error reading config file (%s): %v\n", v.ConfigFileUsed(), err)
		}
	} else {
		fmt.Printf("INFO: Config loaded from file: %s\n", v.ConfigFileUsed())
	}

	v.AutomaticEnv()

	config := &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Auth: AuthConfig{
			Token:        v.GetString("CONNECTOR_STRIPE_AUTH_TOKEN"),
			DefaultOrgID: v.GetString("AUTH_DEFAULT_ORG_ID"),
			DevOrgID:     v.GetString("AUTH_DEV_ORG_ID"),
		},
		Stripe: StripeConfig{
			SecretKey:  v.GetString("STRIPE_SECRET_KEY"),
			APIBaseURL: v.GetString("STRIPE_API_BASE_URL"),
			AppName:    v.GetString("STRIPE_APP_NAME"),
			AppVersion: v.GetString("STRIPE_APP_VERSION"),
		},
		Kafka: KafkaConfig{
			Enabled:            v.GetBool("KAFKA_ENABLED"),
			Brokers:            v.GetString("KAFKA_BROKERS"),
			BillingEventsTopic: v.GetString("KAFKA_BILLING_EVENTS_TOPIC"),
			NumPartitions:      v.GetInt("KAFKA_NUM_PARTITIONS"),
			ReplicationFactor:  v.GetInt("KAFKA_REPLICATION_FACTOR"),
			WriteTimeout:       v.GetDuration("KAFKA_WRITE_TIMEOUT"),
		},
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults initializes configuration with default values.
// These values are used when no configuration file or environment variables are present.
func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 3002)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60*time.Second) // unremitted report fans out to many payouts
	v.SetDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)

	// Empty token means dev mode
	v.SetDefault("CONNECTOR_STRIPE_AUTH_TOKEN", "")
	v.SetDefault("AUTH_DEFAULT_ORG_ID", "authenticated-org")
	v.SetDefault("AUTH_DEV_ORG_ID", "dev-org")

	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_API_BASE_URL", "")
	v.SetDefault("STRIPE_APP_NAME", "connector-stripe")
	v.SetDefault("STRIPE_APP_VERSION", "1.0.0")

	// Event stream is off unless a broker is provided
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_BILLING_EVENTS_TOPIC", "connector_stripe_billing_events")
	v.SetDefault("KAFKA_NUM_PARTITIONS", 1)
	v.SetDefault("KAFKA_REPLICATION_FACTOR", 1)
	v.SetDefault("KAFKA_WRITE_TIMEOUT", 5*time.Second)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "connector-stripe")

	v.SetDefault("WORKER_POOL_SIZE", 10)
}
