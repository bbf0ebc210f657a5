package postalcode

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tournevent/rates/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Config holds postal code directory configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	UseMock bool
}

// Client resolves postal codes through an APIClient.
type Client struct {
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new postal code client.
func New(cfg Config, logger *otelzap.Logger) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	}

	return NewWithAPIClient(apiClient, logger)
}

// NewWithAPIClient creates a new postal code client with a custom API client.
func NewWithAPIClient(apiClient APIClient, logger *otelzap.Logger) *Client {
	return &Client{
		apiClient: apiClient,
		logger:    logger,
	}
}

// Resolve validates code and looks it up in the directory. Malformed codes
// fail with ErrInvalidPostalCode without touching the network.
func (c *Client) Resolve(ctx context.Context, code string) (shipper.PostalAddress, error) {
	digits, err := Normalize(code)
	if err != nil {
		return shipper.PostalAddress{}, err
	}

	c.logger.Ctx(ctx).Debug("Resolving postal code", zap.String("postal_code", digits))

	resp, err := c.apiClient.Lookup(ctx, digits)
	if err != nil {
		var pcErr *Error
		if !errors.As(err, &pcErr) {
			err = newError(ErrPostalCodeLookup, digits, err)
		}
		if errors.Is(err, ErrPostalCodeLookup) {
			c.logger.Ctx(ctx).Error("Postal code directory error",
				zap.String("postal_code", digits),
				zap.Error(err),
			)
		}
		return shipper.PostalAddress{}, err
	}

	return lookupToAddress(digits, resp), nil
}

func lookupToAddress(digits string, resp *LookupResponse) shipper.PostalAddress {
	return shipper.PostalAddress{
		Code:         digits,
		Street:       strings.TrimSpace(resp.Logradouro),
		Neighborhood: strings.TrimSpace(resp.Bairro),
		City:         strings.TrimSpace(resp.Localidade),
		Region:       strings.ToUpper(strings.TrimSpace(resp.UF)),
	}
}

var _ Resolver = (*Client)(nil)
