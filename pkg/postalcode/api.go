package postalcode

import (
	"context"
	"encoding/json"
)

// APIClient defines the interface for postal code directory operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// Lookup fetches the address registered for a normalized 8-digit code.
	// A missing entry fails with ErrPostalCodeNotFound and any transport or
	// decoding problem with ErrPostalCodeLookup.
	Lookup(ctx context.Context, digits string) (*LookupResponse, error)
}

// LookupResponse mirrors the ViaCEP JSON document.
type LookupResponse struct {
	CEP         string  `json:"cep"`
	Logradouro  string  `json:"logradouro"`
	Complemento string  `json:"complemento"`
	Bairro      string  `json:"bairro"`
	Localidade  string  `json:"localidade"`
	UF          string  `json:"uf"`
	IBGE        string  `json:"ibge"`
	DDD         string  `json:"ddd"`
	Erro        errFlag `json:"erro"`
}

// errFlag decodes the directory's "not found" marker, which is sent either
// as a JSON boolean or as the string "true".
type errFlag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *errFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = errFlag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = errFlag(s == "true")
	return nil
}
