package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"80"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Rate provider
	RateProvider    string        `envconfig:"RATE_PROVIDER" default:"melhorenvio"`
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`

	// Melhor Envio
	MelhorEnvioToken     string `envconfig:"MELHORENVIO_TOKEN"`
	MelhorEnvioBaseURL   string `envconfig:"MELHORENVIO_BASE_URL" default:"https://www.melhorenvio.com.br"`
	MelhorEnvioUserAgent string `envconfig:"MELHORENVIO_USER_AGENT" default:"tournevent-rates"`
	MelhorEnvioUseMock   bool   `envconfig:"MELHORENVIO_USE_MOCK" default:"false"`

	// Postal code directory
	PostalCodeBaseURL  string        `envconfig:"POSTALCODE_BASE_URL" default:"https://viacep.com.br"`
	PostalCodeTimeout  time.Duration `envconfig:"POSTALCODE_TIMEOUT" default:"5s"`
	PostalCodeUseMock  bool          `envconfig:"POSTALCODE_USE_MOCK" default:"false"`
	PostalCodeCacheTTL time.Duration `envconfig:"POSTALCODE_CACHE_TTL" default:"24h"`

	// Redis, empty disables the postal code cache
	RedisAddr string `envconfig:"REDIS_ADDR"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://jaeger-collector.claude.svc.cluster.local:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"tournevent-rates"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("loading config: PROVIDER_TIMEOUT must be positive, got %s", cfg.ProviderTimeout)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("rates.provider", c.RateProvider),
		attribute.Bool("rates.postalcode_cache", c.RedisAddr != ""),
	}
}
