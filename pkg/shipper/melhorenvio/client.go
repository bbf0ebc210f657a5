// Package melhorenvio provides integration with the Melhor Envio freight
// quoting API.
package melhorenvio

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tournevent/rates/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const providerName = "melhorenvio"

// Config holds Melhor Envio configuration.
type Config struct {
	Token     string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	UseMock   bool
}

// Client is the Melhor Envio rate provider.
type Client struct {
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Melhor Envio client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:   cfg.BaseURL,
			Token:     cfg.Token,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		})
	}

	return NewWithAPIClient(apiClient, logger, tracer)
}

// NewWithAPIClient creates a new Melhor Envio client with a custom API client.
func NewWithAPIClient(apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// Quote returns the freight options offered for the package. Options with
// a carrier error or an unusable price are dropped; if nothing usable is
// left the call fails.
func (c *Client) Quote(ctx context.Context, origin, destination shipper.PostalAddress, pkg shipper.PackageSpec) ([]shipper.ServiceQuote, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "melhorenvio.Quote", trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()
		span.SetAttributes(
			attribute.String("origin_postal", origin.Code),
			attribute.String("destination_postal", destination.Code),
		)
	}

	c.logger.Ctx(ctx).Info("Getting Melhor Envio quotes",
		zap.String("origin_postal", origin.Code),
		zap.String("destination_postal", destination.Code),
		zap.Float64("weight_kg", pkg.WeightKg()),
	)

	apiReq := &CalculateRequest{
		From: Location{PostalCode: origin.Code},
		To:   Location{PostalCode: destination.Code},
		Package: Package{
			Height: pkg.HeightCm,
			Width:  pkg.WidthCm,
			Length: pkg.LengthCm,
			Weight: pkg.WeightKg(),
		},
	}

	apiResp, err := c.apiClient.Calculate(ctx, apiReq)
	if err != nil {
		providerErr := classifyError(err)
		recordSpanError(ctx, providerErr)
		return nil, providerErr
	}

	services := quotesToShipper(apiResp)
	if len(services) == 0 {
		providerErr := shipper.NewProviderError(providerName, shipper.CodeEmptyResponse, "no usable services returned")
		recordSpanError(ctx, providerErr)
		return nil, providerErr
	}

	return services, nil
}

// ============================================================================
// Conversion helpers
// ============================================================================

func quotesToShipper(quotes []Quote) []shipper.ServiceQuote {
	services := make([]shipper.ServiceQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.Error != "" {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(string(q.Price)), 64)
		if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			continue
		}
		eta := q.DeliveryTime
		if eta < 1 {
			eta = 1
		}
		services = append(services, shipper.ServiceQuote{
			ServiceCode: strconv.Itoa(q.ID),
			ServiceName: serviceName(q),
			Price:       price,
			ETADays:     eta,
		})
	}
	return services
}

func serviceName(q Quote) string {
	if q.Company.Name == "" {
		return q.Name
	}
	return q.Company.Name + " " + q.Name
}

type timeout interface {
	Timeout() bool
}

// classifyError maps an API client failure to a ProviderError.
func classifyError(err error) *shipper.ProviderError {
	var apiErr *APIError
	var te timeout

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &te) && te.Timeout():
		return shipper.NewProviderError(providerName, shipper.CodeTimeout, "request timed out").WithCause(err)
	case errors.As(err, &apiErr) && apiErr.Code == codeDecode:
		return shipper.NewProviderError(providerName, shipper.CodeInvalidResponse, apiErr.Message).WithCause(err)
	case errors.As(err, &apiErr):
		return shipper.NewProviderError(providerName, shipper.CodeBadStatus, apiErr.Message).
			WithStatusCode(apiErr.StatusCode).
			WithCause(err)
	default:
		return shipper.NewProviderError(providerName, shipper.CodeTransport, "request failed").WithCause(err)
	}
}

func recordSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

var _ shipper.Provider = (*Client)(nil)
