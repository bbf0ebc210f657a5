package postalcode_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rates/pkg/postalcode"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockClient *postalcode.MockAPIClient) *postalcode.Client {
	logger := otelzap.New(zap.NewNop())
	return postalcode.NewWithAPIClient(mockClient, logger)
}

func TestClient_Resolve_Success(t *testing.T) {
	mockAPI := postalcode.NewMockAPIClient()
	client := newTestClient(mockAPI)

	addr, err := client.Resolve(context.Background(), "01001-000")

	require.NoError(t, err)
	assert.Equal(t, "01001000", addr.Code)
	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, "Sé", addr.Neighborhood)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.Region)
	assert.Equal(t, 1, mockAPI.Calls())
}

func TestClient_Resolve_InvalidMakesNoCall(t *testing.T) {
	mockAPI := postalcode.NewMockAPIClient()
	client := newTestClient(mockAPI)

	_, err := client.Resolve(context.Background(), "123")

	assert.True(t, errors.Is(err, postalcode.ErrInvalidPostalCode))
	assert.Equal(t, 0, mockAPI.Calls())
}

func TestClient_Resolve_NotFound(t *testing.T) {
	mockAPI := postalcode.NewMockAPIClient()
	mockAPI.Strict = true
	client := newTestClient(mockAPI)

	_, err := client.Resolve(context.Background(), "99999999")

	assert.True(t, errors.Is(err, postalcode.ErrPostalCodeNotFound))
	assert.False(t, errors.Is(err, postalcode.ErrPostalCodeLookup))
}

func TestClient_Resolve_DirectoryOutage(t *testing.T) {
	mockAPI := postalcode.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.Resolve(context.Background(), "01001000")

	assert.True(t, errors.Is(err, postalcode.ErrPostalCodeLookup))
	assert.False(t, errors.Is(err, postalcode.ErrPostalCodeNotFound))
}

func TestClient_Resolve_UntypedErrorBecomesLookupError(t *testing.T) {
	mockAPI := postalcode.NewMockAPIClient()
	mockAPI.OnLookup = func(ctx context.Context, digits string) (*postalcode.LookupResponse, error) {
		return nil, errors.New("boom")
	}
	client := newTestClient(mockAPI)

	_, err := client.Resolve(context.Background(), "01001000")

	assert.True(t, errors.Is(err, postalcode.ErrPostalCodeLookup))
}

func TestClient_Resolve_Cancelled(t *testing.T) {
	mockAPI := postalcode.NewMockAPIClient()
	mockAPI.SimulateLatency = time.Second
	client := newTestClient(mockAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Resolve(ctx, "01001000")

	assert.True(t, errors.Is(err, postalcode.ErrPostalCodeLookup))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestClient_Resolve_SyntheticAddress(t *testing.T) {
	client := newTestClient(postalcode.NewMockAPIClient())

	addr, err := client.Resolve(context.Background(), "80010-000")

	require.NoError(t, err)
	assert.Equal(t, "80010000", addr.Code)
	assert.Equal(t, "PR", addr.Region)
}

func TestNew_UseMock(t *testing.T) {
	client := postalcode.New(postalcode.Config{UseMock: true}, otelzap.New(zap.NewNop()))

	addr, err := client.Resolve(context.Background(), "20040002")

	require.NoError(t, err)
	assert.Equal(t, "RJ", addr.Region)
}
