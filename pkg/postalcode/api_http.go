package postalcode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPAPIClient is the production implementation of APIClient backed by a
// ViaCEP-compatible JSON directory.
type HTTPAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Lookup fetches GET {baseURL}/ws/{digits}/json/.
func (c *HTTPAPIClient) Lookup(ctx context.Context, digits string) (*LookupResponse, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newError(ErrPostalCodeLookup, digits, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(ErrPostalCodeLookup, digits, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, newError(ErrPostalCodeNotFound, digits, nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, newError(ErrPostalCodeLookup, digits, fmt.Errorf("HTTP_%d: %s", resp.StatusCode, body))
	}

	var result LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, newError(ErrPostalCodeLookup, digits, fmt.Errorf("failed to decode response: %w", err))
	}
	if result.Erro {
		return nil, newError(ErrPostalCodeNotFound, digits, nil)
	}

	return &result, nil
}

var _ APIClient = (*HTTPAPIClient)(nil)
