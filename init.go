package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tournevent/rates/internal/config"
	"github.com/tournevent/rates/internal/rates"
	"github.com/tournevent/rates/internal/telemetry"
	"github.com/tournevent/rates/pkg/postalcode"
	"github.com/tournevent/rates/pkg/shipper"
	"github.com/tournevent/rates/pkg/shipper/melhorenvio"
	"github.com/tournevent/rates/pkg/shipper/mock"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(cfg *config.Config, outputPaths ...string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(cfg.LogLevel, cfg.ServiceName, outputPaths...)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	noShutdown := func(context.Context) error { return nil }
	if !cfg.OTELEnabled {
		return otel.Tracer(cfg.ServiceName), noShutdown, nil
	}

	tracer, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Attributes())
	if err != nil {
		return otel.Tracer(cfg.ServiceName), noShutdown, err
	}
	return tracer, shutdown, nil
}

func initShipperRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *shipper.Registry {
	registry := shipper.NewRegistry()

	registry.Register(melhorenvio.New(melhorenvio.Config{
		Token:     cfg.MelhorEnvioToken,
		BaseURL:   cfg.MelhorEnvioBaseURL,
		UserAgent: cfg.MelhorEnvioUserAgent,
		Timeout:   cfg.ProviderTimeout,
		UseMock:   cfg.MelhorEnvioUseMock,
	}, logger, tracer))

	registry.Register(mock.New("mock"))

	return registry
}

// initResolver builds the postal code resolver, wrapping it with the Redis
// cache when REDIS_ADDR is set. An unreachable Redis only disables caching.
func initResolver(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (postalcode.Resolver, func()) {
	client := postalcode.New(postalcode.Config{
		BaseURL: cfg.PostalCodeBaseURL,
		Timeout: cfg.PostalCodeTimeout,
		UseMock: cfg.PostalCodeUseMock,
	}, logger)

	if cfg.RedisAddr == "" {
		return client, func() {}
	}

	cache, err := postalcode.NewRedisCache(ctx, cfg.RedisAddr, cfg.PostalCodeCacheTTL)
	if err != nil {
		logger.Warn("Postal code cache disabled", zap.String("redis_addr", cfg.RedisAddr), zap.Error(err))
		return client, func() {}
	}

	logger.Info("Postal code cache enabled", zap.String("redis_addr", cfg.RedisAddr), zap.Duration("ttl", cfg.PostalCodeCacheTTL))
	return postalcode.NewCachedResolver(client, cache, logger), func() { _ = cache.Close() }
}

// initRateService wires the rate service. The returned cleanup releases the
// resolver resources.
func initRateService(ctx context.Context, cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer, reg prometheus.Registerer) (*rates.Service, func(), error) {
	registry := initShipperRegistry(cfg, logger, tracer)
	provider, err := registry.Get(cfg.RateProvider)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting rate provider (available: %v): %w", registry.Names(), err)
	}

	resolver, cleanup := initResolver(ctx, cfg, logger)

	svc := rates.New(rates.Config{ProviderTimeout: cfg.ProviderTimeout},
		resolver, provider, logger, telemetry.NewMetrics(reg), tracer)
	return svc, cleanup, nil
}
