// Package config loads service configuration from an optional config file,
// a .env file and the environment.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/light-bringer/mealprice-service/internal/pkg/logger"
	"github.com/light-bringer/mealprice-service/internal/pkg/metrics"
	"github.com/light-bringer/mealprice-service/internal/pkg/validator"
)

// Storage drivers.
const (
	DriverSpanner  = "spanner"
	DriverPostgres = "postgres"
)

// Configuration is the full service configuration.
type Configuration struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Pricing PricingConfig `mapstructure:"pricing" validate:"required"`
	Logging LoggingConfig `mapstructure:"logging" validate:"required"`
}

type ServerConfig struct {
	GRPCPort        string        `mapstructure:"grpc_port" validate:"required,numeric"`
	HTTPPort        string        `mapstructure:"http_port" validate:"required,numeric"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type StorageConfig struct {
	Driver          string `mapstructure:"driver" validate:"required,oneof=spanner postgres"`
	SpannerDatabase string `mapstructure:"spanner_database" validate:"required_if=Driver spanner"`
	PostgresDSN     string `mapstructure:"postgres_dsn" validate:"required_if=Driver postgres"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type PricingConfig struct {
	Currency string `mapstructure:"currency" validate:"required,len=3,uppercase"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format      string `mapstructure:"format" validate:"required,oneof=json console"`
	ServiceName string `mapstructure:"service_name" validate:"required"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

// defaults also serve as the list of keys bound to environment variables.
var defaults = map[string]any{
	"server.grpc_port":         "9090",
	"server.http_port":         "8080",
	"server.shutdown_timeout":  10 * time.Second,
	"storage.driver":           DriverSpanner,
	"storage.spanner_database": "projects/test-project/instances/dev-instance/databases/mealprice-db",
	"storage.postgres_dsn":     "",
	"cache.enabled":            true,
	"cache.ttl":                30 * time.Second,
	"pricing.currency":         "MAD",
	"logging.level":            "info",
	"logging.format":           "json",
	"logging.service_name":     "mealprice",
	"logging.environment":      "development",
	"logging.version":          "dev",
}

// legacyEnv keeps the short variable names used by local scripts working.
var legacyEnv = map[string]string{
	"server.grpc_port":         "GRPC_PORT",
	"server.http_port":         "HTTP_PORT",
	"storage.spanner_database": "SPANNER_DATABASE",
}

// Load reads .env (if present), then config.yaml from ./config or the
// working directory (if present), then the environment. Environment
// variables use the key path upper-cased with dots replaced by
// underscores, e.g. STORAGE_DRIVER.
func Load() (*Configuration, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		envNames := []string{strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if legacy, ok := legacyEnv[key]; ok {
			envNames = append(envNames, legacy)
		}
		if err := v.BindEnv(append([]string{key}, envNames...)...); err != nil {
			return nil, errors.Wrapf(err, "failed to bind env for %s", key)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration.
func (c Configuration) Validate() error {
	if err := validator.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// LoggerConfig maps the logging section onto logger.Config.
func (c Configuration) LoggerConfig() logger.Config {
	return logger.Config{
		ServiceName: c.Logging.ServiceName,
		Environment: c.Logging.Environment,
		Version:     c.Logging.Version,
		Level:       c.Logging.Level,
		Format:      c.Logging.Format,
	}
}

// MetricsConfig maps the logging labels onto metrics.Config.
func (c Configuration) MetricsConfig() metrics.Config {
	return metrics.Config{
		ServiceName: c.Logging.ServiceName,
		Environment: c.Logging.Environment,
	}
}
