package shipper_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/rates/pkg/shipper"
)

func TestPackageSpec_WithDefaults(t *testing.T) {
	pkg := shipper.PackageSpec{}.WithDefaults()

	assert.Equal(t, shipper.PackageSpec{WeightGrams: 1000, LengthCm: 20, HeightCm: 20, WidthCm: 20}, pkg)
}

func TestPackageSpec_WithDefaults_KeepsProvidedValues(t *testing.T) {
	pkg := shipper.PackageSpec{WeightGrams: 2500, HeightCm: 5}.WithDefaults()

	assert.Equal(t, 2500.0, pkg.WeightGrams)
	assert.Equal(t, 5.0, pkg.HeightCm)
	assert.Equal(t, 20.0, pkg.LengthCm)
	assert.Equal(t, 20.0, pkg.WidthCm)
}

func TestPackageSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		pkg     shipper.PackageSpec
		wantErr bool
	}{
		{"valid", shipper.PackageSpec{WeightGrams: 1, LengthCm: 1, HeightCm: 1, WidthCm: 1}, false},
		{"negative weight", shipper.PackageSpec{WeightGrams: -5, LengthCm: 1, HeightCm: 1, WidthCm: 1}, true},
		{"zero height", shipper.PackageSpec{WeightGrams: 5, LengthCm: 1, HeightCm: 0, WidthCm: 1}, true},
		{"NaN width", shipper.PackageSpec{WeightGrams: 5, LengthCm: 1, HeightCm: 1, WidthCm: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pkg.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, shipper.ErrInvalidPackage))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPackageSpec_WeightKg(t *testing.T) {
	assert.Equal(t, 1.5, shipper.PackageSpec{WeightGrams: 1500}.WeightKg())
}
