package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "products", cfg.Domain)
	assert.Equal(t, "Asia/Jakarta", cfg.DefaultTZ)
	assert.Equal(t, "canonical", cfg.SalaryStrategy)
	assert.Empty(t, cfg.Sinks)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DOMAIN", "jobs")
	t.Setenv("SINKS", " ClickHouse, postgres ,")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/recnorm")
	t.Setenv("READ_WORKERS", "not-a-number")
	t.Setenv("PROCESSING_TIMEOUT", "90s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "jobs", cfg.Domain)
	assert.Equal(t, []string{SinkClickHouse, SinkPostgres}, cfg.Sinks)
	assert.True(t, cfg.HasSink(SinkPostgres))
	assert.Equal(t, 4, cfg.ReadWorkers)
	assert.Equal(t, 90*time.Second, cfg.ProcessingTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown domain", func(c *Config) { c.Domain = "pets" }, "Config.Domain"},
		{"unknown sink", func(c *Config) { c.Sinks = []string{"s3"} }, "Config.Sinks[0]"},
		{"postgres sink without dsn", func(c *Config) { c.Sinks = []string{SinkPostgres} }, "Config.PostgresDSN"},
		{"clickhouse sink without dsn", func(c *Config) {
			c.Sinks = []string{SinkClickHouse}
			c.ClickHouseDSN = ""
		}, "Config.ClickHouseDSN"},
		{"output file with path", func(c *Config) { c.OutputFile = "a/b.csv" }, "Config.OutputFile"},
		{"unknown salary strategy", func(c *Config) { c.SalaryStrategy = "greedy" }, "Config.SalaryStrategy"},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, "Config.OutputDir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOutputName(t *testing.T) {
	cfg := &Config{Domain: "products"}
	assert.Equal(t, "amazon_clean.csv", cfg.OutputName("amazon"))
	assert.Equal(t, "products_clean.csv", cfg.OutputName(""))

	cfg.OutputFile = "out.csv"
	assert.Equal(t, "out.csv", cfg.OutputName("amazon"))
}
