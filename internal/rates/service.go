// Package rates computes shipping rates between two postal codes, preferring
// the configured provider and falling back to the regional pricing model.
package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/tournevent/rates/internal/telemetry"
	"github.com/tournevent/rates/pkg/postalcode"
	"github.com/tournevent/rates/pkg/shipper"
	"github.com/tournevent/rates/pkg/shipper/fallback"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultProviderTimeout bounds a single provider call.
const DefaultProviderTimeout = 10 * time.Second

// DistanceEstimator estimates the distance in km between two addresses.
type DistanceEstimator interface {
	Estimate(origin, destination shipper.PostalAddress) float64
}

// PricingModel prices a shipment from distance and weight.
type PricingModel interface {
	Price(distanceKm, weightKg float64) ([]shipper.ServiceQuote, error)
}

// Request is a rate calculation request. Zero package fields take defaults.
type Request struct {
	OriginCode      string
	DestinationCode string
	Package         shipper.PackageSpec
}

// Config holds service configuration.
type Config struct {
	ProviderTimeout time.Duration
	// Estimator and Pricing default to the fallback package implementations.
	Estimator DistanceEstimator
	Pricing   PricingModel
}

// source tags where a result came from. It never leaves the package except
// as a log field, metric label or span attribute.
type source string

const (
	sourceProvider source = "provider"
	sourceFallback source = "fallback"
	sourceFailed   source = "failed"
)

// Service orchestrates address resolution, provider quoting and fallback.
type Service struct {
	resolver        postalcode.Resolver
	provider        shipper.Provider
	estimator       DistanceEstimator
	pricing         PricingModel
	providerTimeout time.Duration
	logger          *otelzap.Logger
	metrics         *telemetry.Metrics
	tracer          trace.Tracer
}

// New creates a rate service. A nil tracer disables span export and a nil
// metrics value disables metric recording.
func New(cfg Config, resolver postalcode.Resolver, provider shipper.Provider, logger *otelzap.Logger, metrics *telemetry.Metrics, tracer trace.Tracer) *Service {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = DefaultProviderTimeout
	}
	if cfg.Estimator == nil {
		cfg.Estimator = fallback.NewDistanceEstimator()
	}
	if cfg.Pricing == nil {
		cfg.Pricing = fallback.NewPricingModel(fallback.DefaultTariff())
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("rates")
	}

	return &Service{
		resolver:        resolver,
		provider:        provider,
		estimator:       cfg.Estimator,
		pricing:         cfg.Pricing,
		providerTimeout: cfg.ProviderTimeout,
		logger:          logger,
		metrics:         metrics,
		tracer:          tracer,
	}
}

// ResolvePostalCode resolves a single postal code to an address.
func (s *Service) ResolvePostalCode(ctx context.Context, code string) (shipper.PostalAddress, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "rates.ResolvePostalCode")
	defer span.End()

	addr, err := s.resolver.Resolve(ctx, code)
	s.record(ctx, span, "resolve_postal_code", "directory", start, err)
	return addr, err
}

// CalculateRates resolves both postal codes and returns the available
// delivery services. Provider failures are absorbed by the fallback model;
// address failures are returned as is and the provider is never called.
func (s *Service) CalculateRates(ctx context.Context, req Request) (*shipper.RateQuoteResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "rates.CalculateRates",
		trace.WithAttributes(
			attribute.String("rates.origin_code", req.OriginCode),
			attribute.String("rates.destination_code", req.DestinationCode),
		),
	)
	defer span.End()

	result, src, err := s.calculate(ctx, req)
	span.SetAttributes(attribute.String("rates.source", string(src)))
	s.record(ctx, span, "calculate_rates", string(src), start, err)
	return result, err
}

func (s *Service) calculate(ctx context.Context, req Request) (*shipper.RateQuoteResult, source, error) {
	if err := ctx.Err(); err != nil {
		return nil, sourceFailed, err
	}

	pkg := req.Package.WithDefaults()
	if err := pkg.Validate(); err != nil {
		return nil, sourceFailed, err
	}

	origin, destination, err := s.resolveAddresses(ctx, req.OriginCode, req.DestinationCode)
	if err != nil {
		return nil, sourceFailed, err
	}

	services, err := s.quoteProvider(ctx, origin, destination, pkg)
	if err == nil {
		return newResult(origin, destination, services), sourceProvider, nil
	}

	errCode := shipper.ErrorCode(err)
	s.logger.Ctx(ctx).Warn("Rate provider failed, using fallback pricing",
		zap.String("provider", s.provider.Name()),
		zap.String("error_code", errCode),
		zap.Error(err),
	)
	if s.metrics != nil {
		s.metrics.RecordProviderError(s.provider.Name(), errCode)
	}

	if err := ctx.Err(); err != nil {
		return nil, sourceFailed, err
	}

	distance := s.estimator.Estimate(origin, destination)
	services, err = s.pricing.Price(distance, pkg.WeightKg())
	if err != nil {
		return nil, sourceFailed, err
	}

	s.logger.Ctx(ctx).Debug("Fallback rates computed",
		zap.Float64("distance_km", distance),
		zap.Float64("weight_kg", pkg.WeightKg()),
	)
	return newResult(origin, destination, services), sourceFallback, nil
}

// resolveAddresses validates both codes before any lookup, then resolves
// them concurrently. The first failure cancels the other lookup.
func (s *Service) resolveAddresses(ctx context.Context, originCode, destinationCode string) (shipper.PostalAddress, shipper.PostalAddress, error) {
	var origin, destination shipper.PostalAddress

	originDigits, err := postalcode.Normalize(originCode)
	if err != nil {
		return origin, destination, err
	}
	destinationDigits, err := postalcode.Normalize(destinationCode)
	if err != nil {
		return origin, destination, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr, err := s.resolver.Resolve(gctx, originDigits)
		if err != nil {
			return fmt.Errorf("resolving origin: %w", err)
		}
		origin = addr
		return nil
	})
	g.Go(func() error {
		addr, err := s.resolver.Resolve(gctx, destinationDigits)
		if err != nil {
			return fmt.Errorf("resolving destination: %w", err)
		}
		destination = addr
		return nil
	})

	if err := g.Wait(); err != nil {
		return shipper.PostalAddress{}, shipper.PostalAddress{}, err
	}
	return origin, destination, nil
}

type providerOutcome struct {
	services []shipper.ServiceQuote
	err      error
}

// quoteProvider makes exactly one provider attempt bounded by the provider
// timeout. A result arriving after the deadline is dropped.
func (s *Service) quoteProvider(ctx context.Context, origin, destination shipper.PostalAddress, pkg shipper.PackageSpec) ([]shipper.ServiceQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	done := make(chan providerOutcome, 1)
	go func() {
		services, err := s.provider.Quote(ctx, origin, destination, pkg)
		done <- providerOutcome{services: services, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		if len(out.services) == 0 {
			return nil, shipper.NewProviderError(s.provider.Name(), shipper.CodeEmptyResponse, "no services returned")
		}
		return out.services, nil
	case <-ctx.Done():
		return nil, shipper.NewProviderError(s.provider.Name(), shipper.CodeTimeout, "provider call abandoned").WithCause(ctx.Err())
	}
}

func (s *Service) record(ctx context.Context, span trace.Span, operation, src string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Ctx(ctx).Info("Request failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
	if s.metrics != nil {
		s.metrics.RecordRequest(operation, src, status, time.Since(start).Seconds())
	}
}

func newResult(origin, destination shipper.PostalAddress, services []shipper.ServiceQuote) *shipper.RateQuoteResult {
	return &shipper.RateQuoteResult{
		OriginCode:      origin.Code,
		DestinationCode: destination.Code,
		Services:        services,
	}
}
