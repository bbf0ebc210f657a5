// Package mock provides a mock rate provider for tests and local runs.
package mock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tournevent/rates/pkg/shipper"
)

// Client is a mock rate provider. The zero value of each knob keeps the
// default behavior of returning two fixed services.
type Client struct {
	name  string
	calls atomic.Int64

	// Latency delays every call; the call still honors ctx.
	Latency time.Duration
	// Err, when set, is returned instead of quotes.
	Err error
	// Services overrides the default service list. A non-nil empty slice
	// simulates an empty provider response.
	Services []shipper.ServiceQuote
	// OnQuote replaces the whole behavior when set.
	OnQuote func(ctx context.Context, origin, destination shipper.PostalAddress, pkg shipper.PackageSpec) ([]shipper.ServiceQuote, error)
}

// New creates a new mock provider.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return c.name
}

// Calls returns how many times Quote was invoked.
func (c *Client) Calls() int {
	return int(c.calls.Load())
}

// Quote returns mock delivery options.
func (c *Client) Quote(ctx context.Context, origin, destination shipper.PostalAddress, pkg shipper.PackageSpec) ([]shipper.ServiceQuote, error) {
	c.calls.Add(1)

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, shipper.NewProviderError(c.name, shipper.CodeTimeout, "request abandoned").WithCause(ctx.Err())
		}
	}

	if c.OnQuote != nil {
		return c.OnQuote(ctx, origin, destination, pkg)
	}

	if c.Err != nil {
		return nil, c.Err
	}

	services := c.Services
	if services == nil {
		services = []shipper.ServiceQuote{
			{ServiceCode: "1", ServiceName: fmt.Sprintf("%s PAC", c.name), Price: 21.90, ETADays: 6},
			{ServiceCode: "2", ServiceName: fmt.Sprintf("%s SEDEX", c.name), Price: 38.40, ETADays: 2},
		}
	}
	if len(services) == 0 {
		return nil, shipper.NewProviderError(c.name, shipper.CodeEmptyResponse, "no services returned")
	}

	out := make([]shipper.ServiceQuote, len(services))
	copy(out, services)
	return out, nil
}

var _ shipper.Provider = (*Client)(nil)
