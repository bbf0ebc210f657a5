package melhorenvio

import (
	"context"
	"fmt"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCalculate func(ctx context.Context, req *CalculateRequest) ([]Quote, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Calculate returns mock freight options priced by weight.
func (m *MockAPIClient) Calculate(ctx context.Context, req *CalculateRequest) ([]Quote, error) {
	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "HTTP_503", Message: "Simulated API error", StatusCode: 503}
	}

	if m.OnCalculate != nil {
		return m.OnCalculate(ctx, req)
	}

	w := req.Package.Weight
	return []Quote{
		{
			ID:           1,
			Name:         "PAC",
			Price:        Decimal(fmt.Sprintf("%.2f", 18.40+w*3.10)),
			Currency:     "R$",
			DeliveryTime: 7,
			Company:      Company{ID: 1, Name: "Correios"},
		},
		{
			ID:           2,
			Name:         "SEDEX",
			Price:        Decimal(fmt.Sprintf("%.2f", 29.90+w*5.20)),
			Currency:     "R$",
			DeliveryTime: 2,
			Company:      Company{ID: 1, Name: "Correios"},
		},
		{
			ID:      3,
			Name:    ".Package",
			Error:   "Serviço indisponível para o trecho.",
			Company: Company{ID: 2, Name: "Jadlog"},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
