package melhorenvio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// APIClient defines the interface for Melhor Envio API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// Calculate fetches the freight options for a package.
	Calculate(ctx context.Context, req *CalculateRequest) ([]Quote, error)
}

// ============================================================================
// API Request/Response Types (match the Melhor Envio shipment/calculate API)
// ============================================================================

// CalculateRequest is the body of POST /api/v2/me/shipment/calculate.
type CalculateRequest struct {
	From    Location `json:"from"`
	To      Location `json:"to"`
	Package Package  `json:"package"`
}

// Location identifies an endpoint by postal code.
type Location struct {
	PostalCode string `json:"postal_code"`
}

// Package holds dimensions in centimeters and weight in kilograms.
type Package struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Weight float64 `json:"weight"`
}

// Quote is one freight option. Options the carrier cannot serve come back
// with Error set and no price.
type Quote struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Price        Decimal `json:"price"`
	Currency     string  `json:"currency"`
	DeliveryTime int     `json:"delivery_time"`
	Error        string  `json:"error,omitempty"`
	Company      Company `json:"company"`
}

// Company is the carrier operating a service.
type Company struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Decimal is a price sent either as a JSON string ("21.90") or a number.
type Decimal string

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	*d = Decimal(n.String())
	return nil
}

// APIError represents an error from the Melhor Envio API.
type APIError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// API error codes produced by the HTTP client.
const (
	codeDecode = "DECODE"
)
