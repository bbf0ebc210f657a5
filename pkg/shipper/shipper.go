// Package shipper defines the shipping rate data model and the abstraction
// over third-party rate-quoting providers.
package shipper

import (
	"context"
)

// Provider defines the interface that every rate-quoting provider implements.
// Implementations must be stateless and safe for concurrent use.
type Provider interface {
	// Name returns the provider identifier (e.g., "melhorenvio").
	Name() string

	// Quote returns the delivery options for a package between two resolved
	// addresses. Any failure, including an empty list, is reported as an
	// error matching ErrProviderUnavailable.
	Quote(ctx context.Context, origin, destination PostalAddress, pkg PackageSpec) ([]ServiceQuote, error)
}
