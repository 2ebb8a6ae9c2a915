package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "gigboard_db", cfg.Database.Database)
				assert.Equal(t, "gigboard_events", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "job_completions", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, "gigboard-api", cfg.App.Name)
				assert.Equal(t, "joyce@paella.dev", cfg.Payment.OperatorEmail)
			}
		})
	}
}

func TestLoad_PaymentDefaults(t *testing.T) {
	cfg, err := Load("testdata/valid_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "base-sepolia", cfg.Payment.Chain)
	assert.Equal(t, "usdc", cfg.Payment.Token)
	assert.Equal(t, "https://sepolia.basescan.org/tx/", cfg.Payment.ExplorerURL)
	assert.Equal(t, time.Second, cfg.Payment.PollInterval)
	assert.Equal(t, 30, cfg.Payment.PollMaxAttempts)
	assert.Equal(t, 15*time.Second, cfg.Payment.RequestTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CROSSMINT_API_KEY", "sk_staging_envkey")
	t.Setenv("OPERATOR_EMAIL", "ops@override.dev")
	t.Setenv("DATABASE_PASSWORD", "envsecret")

	cfg, err := Load("testdata/valid_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sk_staging_envkey", cfg.Payment.APIKey)
	assert.Equal(t, "ops@override.dev", cfg.Payment.OperatorEmail)
	assert.Equal(t, "envsecret", cfg.Database.Password)
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "gigboard_db",
		},
		RabbitMQ: RabbitMQConfig{
			Enabled: true,
			Host:    "localhost",
			Port:    5672,
			Exchange: ExchangeConfig{
				Name: "gigboard_events",
			},
			Queue: QueueConfig{
				Name: "job_completions",
			},
		},
		Payment: PaymentConfig{
			APIKey:        "sk_staging_test",
			OperatorEmail: "joyce@paella.dev",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:      "invalid server port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "invalid server port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "missing database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name:      "missing database name",
			mutate:    func(c *Config) { c.Database.Database = "" },
			wantErr:   true,
			errString: "database name is required",
		},
		{
			name:      "missing payment api key",
			mutate:    func(c *Config) { c.Payment.APIKey = "" },
			wantErr:   true,
			errString: "payment api key is required",
		},
		{
			name:      "missing operator email",
			mutate:    func(c *Config) { c.Payment.OperatorEmail = "" },
			wantErr:   true,
			errString: "payment operator email is required",
		},
		{
			name:      "rabbitmq enabled without host",
			mutate:    func(c *Config) { c.RabbitMQ.Host = "" },
			wantErr:   true,
			errString: "rabbitmq host is required",
		},
		{
			name: "rabbitmq disabled skips broker validation",
			mutate: func(c *Config) {
				c.RabbitMQ = RabbitMQConfig{Enabled: false}
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
