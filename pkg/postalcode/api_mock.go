package postalcode

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for tests and local
// runs. Unknown codes are answered with a synthetic address unless Strict
// is set.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration
	Strict          bool

	Addresses map[string]LookupResponse
	OnLookup  func(ctx context.Context, digits string) (*LookupResponse, error)

	calls atomic.Int64
}

// NewMockAPIClient creates a new mock API client with a few known codes.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{
		Addresses: map[string]LookupResponse{
			"01001000": {CEP: "01001-000", Logradouro: "Praça da Sé", Bairro: "Sé", Localidade: "São Paulo", UF: "SP"},
			"04538133": {CEP: "04538-133", Logradouro: "Avenida Brigadeiro Faria Lima", Bairro: "Itaim Bibi", Localidade: "São Paulo", UF: "SP"},
			"20040002": {CEP: "20040-002", Logradouro: "Rua da Assembleia", Bairro: "Centro", Localidade: "Rio de Janeiro", UF: "RJ"},
			"30130010": {CEP: "30130-010", Logradouro: "Praça Sete de Setembro", Bairro: "Centro", Localidade: "Belo Horizonte", UF: "MG"},
			"90010150": {CEP: "90010-150", Logradouro: "Rua dos Andradas", Bairro: "Centro Histórico", Localidade: "Porto Alegre", UF: "RS"},
		},
	}
}

// Calls returns how many lookups reached the mock.
func (m *MockAPIClient) Calls() int {
	return int(m.calls.Load())
}

// Lookup returns a mock address.
func (m *MockAPIClient) Lookup(ctx context.Context, digits string) (*LookupResponse, error) {
	m.calls.Add(1)

	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return nil, newError(ErrPostalCodeLookup, digits, ctx.Err())
		}
	}

	if m.SimulateErrors {
		return nil, newError(ErrPostalCodeLookup, digits, errors.New("simulated directory outage"))
	}

	if m.OnLookup != nil {
		return m.OnLookup(ctx, digits)
	}

	if addr, ok := m.Addresses[digits]; ok {
		return &addr, nil
	}
	if m.Strict {
		return nil, newError(ErrPostalCodeNotFound, digits, nil)
	}

	return &LookupResponse{
		CEP:        Format(digits),
		Logradouro: "Rua Exemplo",
		Bairro:     "Centro",
		Localidade: "Cidade " + digits[:2],
		UF:         mockRegion(digits),
	}, nil
}

// mockRegion maps the leading CEP digit to a representative state, following
// the national postal zone layout.
func mockRegion(digits string) string {
	regions := [...]string{"SP", "SP", "RJ", "MG", "BA", "PE", "CE", "DF", "PR", "RS"}
	return regions[digits[0]-'0']
}

var _ APIClient = (*MockAPIClient)(nil)
