package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Chdir(originalWD)
	})
	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := chdirTemp(t)

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(tempConfigsSubDir, 0755))

	testAppName := "TestConnector"
	testPort := 9090
	testLogLevel := "debug"
	testToken := "s3cret"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nCONNECTOR_STRIPE_AUTH_TOKEN=%s\nSTRIPE_SECRET_KEY=sk_test_123\n",
		testAppName, testPort, testLogLevel, testToken,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte(envContent), 0644))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testToken, cfg.Auth.Token)
	assert.False(t, cfg.Auth.DevMode())
	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "authenticated-org", cfg.Auth.DefaultOrgID)
	assert.Equal(t, "dev-org", cfg.Auth.DevOrgID)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 10, cfg.WorkerPool.Size)

	cfgWithName, err := LoadConfigWithName("configs/test_happy")
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgWithName.Application.Name)

	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgWithNameAndType.Application.Name)
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("does_not_exist")
	require.NoError(t, err)

	assert.Equal(t, 3002, cfg.Server.Port)
	assert.Equal(t, "connector-stripe", cfg.Application.Name)
	assert.True(t, cfg.Auth.DevMode())
	assert.Empty(t, cfg.Stripe.SecretKey, "missing secret key must not fail config loading")
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	tempDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "override.env"), []byte("SERVER_PORT=4000\n"), 0644))
	t.Setenv("SERVER_PORT", "5000")

	cfg, err := LoadConfig("override")
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
}

func defaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{
		Application: ApplicationConfig{Env: v.GetString("APP_ENV"), Name: v.GetString("APP_NAME")},
		Logging:     LoggingConfig{Level: v.GetString("LOG_LEVEL")},
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
}

func TestConfig_Validate(t *testing.T) {
	t.Run("DefaultsAreValid", func(t *testing.T) {
		assert.NoError(t, defaultConfig().validate())
	})

	t.Run("KafkaEnabledRequiresTopic", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Kafka.Enabled = true
		cfg.Kafka.BillingEventsTopic = ""

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "KAFKA_BILLING_EVENTS_TOPIC")
	})

	t.Run("CollectsEveryViolation", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Server.Port = 0
		cfg.WorkerPool.Size = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SERVER_PORT")
		assert.Contains(t, err.Error(), "WORKER_POOL_SIZE")
	})
}
