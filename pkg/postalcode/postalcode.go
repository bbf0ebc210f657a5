// Package postalcode resolves Brazilian postal codes (CEP) to structured
// addresses through a remote directory.
package postalcode

import (
	"context"
	"fmt"
	"strings"

	"github.com/tournevent/rates/pkg/shipper"
)

// CodeLength is the number of digits of a normalized postal code.
const CodeLength = 8

// Resolver resolves a postal code to an address.
type Resolver interface {
	Resolve(ctx context.Context, code string) (shipper.PostalAddress, error)
}

// Normalize strips every non-digit character from code and returns the
// remaining 8 digits. Anything else fails with ErrInvalidPostalCode.
func Normalize(code string) (string, error) {
	var b strings.Builder
	b.Grow(CodeLength)
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != CodeLength {
		return "", newError(ErrInvalidPostalCode, code, fmt.Errorf("expected %d digits, got %d", CodeLength, len(digits)))
	}
	return digits, nil
}

// Format renders 8 raw digits in the DDDDD-DDD display form. Input that is
// not exactly 8 digits is returned unchanged.
func Format(digits string) string {
	if len(digits) != CodeLength || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return digits
	}
	return digits[:5] + "-" + digits[5:]
}
