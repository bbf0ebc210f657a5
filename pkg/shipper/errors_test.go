package shipper_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/rates/pkg/shipper"
)

func TestProviderError_Error(t *testing.T) {
	err := shipper.NewProviderError("melhorenvio", shipper.CodeBadStatus, "unexpected status 503")
	assert.Equal(t, "melhorenvio error (BAD_STATUS): unexpected status 503", err.Error())
}

func TestProviderError_ErrorWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := shipper.NewProviderError("melhorenvio", shipper.CodeTransport, "request failed").WithCause(cause)
	assert.Contains(t, err.Error(), "request failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestProviderError_Unwrap(t *testing.T) {
	err := shipper.NewProviderError("melhorenvio", shipper.CodeTimeout, "timed out").WithCause(context.DeadlineExceeded)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestProviderError_IsProviderUnavailable(t *testing.T) {
	err := shipper.NewProviderError("melhorenvio", shipper.CodeEmptyResponse, "no services")
	assert.True(t, errors.Is(err, shipper.ErrProviderUnavailable))

	wrapped := fmt.Errorf("quoting: %w", err)
	assert.True(t, errors.Is(wrapped, shipper.ErrProviderUnavailable))
}

func TestProviderError_IsSameCode(t *testing.T) {
	err1 := shipper.NewProviderError("melhorenvio", shipper.CodeTimeout, "a")
	err2 := shipper.NewProviderError("mock", shipper.CodeTimeout, "b")
	err3 := shipper.NewProviderError("mock", shipper.CodeTransport, "c")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestProviderError_WithStatusCode(t *testing.T) {
	err := shipper.NewProviderError("melhorenvio", shipper.CodeBadStatus, "unauthorized").WithStatusCode(401)
	assert.Equal(t, 401, err.StatusCode)
}

func TestErrorCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", shipper.NewProviderError("mock", shipper.CodeInvalidResponse, "bad json"))
	assert.Equal(t, shipper.CodeInvalidResponse, shipper.ErrorCode(err))
	assert.Equal(t, "UNKNOWN", shipper.ErrorCode(errors.New("plain")))
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrProviderUnavailable", shipper.ErrProviderUnavailable},
		{"ErrInternalComputation", shipper.ErrInternalComputation},
		{"ErrInvalidPackage", shipper.ErrInvalidPackage},
		{"ErrProviderNotFound", shipper.ErrProviderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}
