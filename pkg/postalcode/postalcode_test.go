package postalcode_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rates/pkg/postalcode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"raw digits", "01001000", "01001000"},
		{"hyphenated", "01001-000", "01001000"},
		{"surrounding spaces", " 20040-002 ", "20040002"},
		{"dotted", "30.130-010", "30130010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := postalcode.Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	for _, input := range []string{"", "123", "0100100", "010010000", "abcdefgh", "01001-00x"} {
		t.Run(input, func(t *testing.T) {
			_, err := postalcode.Normalize(input)
			assert.True(t, errors.Is(err, postalcode.ErrInvalidPostalCode))
			assert.False(t, errors.Is(err, postalcode.ErrPostalCodeNotFound))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "01001-000", postalcode.Format("01001000"))
	assert.Equal(t, "123", postalcode.Format("123"))
	assert.Equal(t, "0100100a", postalcode.Format("0100100a"))
}

func TestFormat_RoundTrip(t *testing.T) {
	digits, err := postalcode.Normalize(postalcode.Format("90010150"))
	require.NoError(t, err)
	assert.Equal(t, "90010150", digits)
}

func TestError_Message(t *testing.T) {
	_, err := postalcode.Normalize("123")
	assert.Contains(t, err.Error(), "invalid postal code")
	assert.Contains(t, err.Error(), `"123"`)
}
