package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.GRPCPort)
	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverSpanner, cfg.Storage.Driver)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "MAD", cfg.Pricing.Currency)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("STORAGE_POSTGRES_DSN", "host=localhost user=app dbname=store")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("PRICING_CURRENCY", "EUR")
	t.Setenv("GRPC_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "host=localhost user=app dbname=store", cfg.Storage.PostgresDSN)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "EUR", cfg.Pricing.Currency)
	assert.Equal(t, "9191", cfg.Server.GRPCPort)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte("logging:\n  level: debug\n  format: console\ncache:\n  enabled: false\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "mysql"}},
		{"postgres without dsn", map[string]string{"STORAGE_DRIVER": "postgres"}},
		{"bad currency", map[string]string{"PRICING_CURRENCY": "dirham"}},
		{"bad log level", map[string]string{"LOGGING_LEVEL": "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfiguration_Mappers(t *testing.T) {
	cfg := Configuration{Logging: LoggingConfig{
		Level:       "warn",
		Format:      "json",
		ServiceName: "mealprice",
		Environment: "staging",
		Version:     "1.2.3",
	}}

	lc := cfg.LoggerConfig()
	assert.Equal(t, "warn", lc.Level)
	assert.Equal(t, "1.2.3", lc.Version)

	mc := cfg.MetricsConfig()
	assert.Equal(t, "staging", mc.Environment)
}
