package fallback_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rates/pkg/shipper"
	"github.com/tournevent/rates/pkg/shipper/fallback"
)

func newModel() *fallback.PricingModel {
	return fallback.NewPricingModel(fallback.DefaultTariff())
}

func TestPricingModel_SameRegionScenario(t *testing.T) {
	quotes, err := newModel().Price(100, 1)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	standard, express := quotes[0], quotes[1]
	assert.Equal(t, "standard", standard.ServiceCode)
	assert.InDelta(t, 26.00, standard.Price, 1e-9)
	assert.Equal(t, 3, standard.ETADays)

	assert.Equal(t, "express", express.ServiceCode)
	assert.InDelta(t, 41.00, express.Price, 1e-9)
	assert.Equal(t, 1, express.ETADays)
}

func TestPricingModel_CrossRegionScenario(t *testing.T) {
	quotes, err := newModel().Price(1200, 2)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.InDelta(t, 116.50, quotes[0].Price, 1e-9)
	assert.Equal(t, 10, quotes[0].ETADays)
	assert.InDelta(t, 177.00, quotes[1].Price, 1e-9)
	assert.Equal(t, 5, quotes[1].ETADays)
}

func TestPricingModel_ETABands(t *testing.T) {
	tests := []struct {
		distance     float64
		standardDays int
		expressDays  int
	}{
		{50, 3, 1},
		{200, 3, 1},
		{200.5, 5, 2},
		{500, 5, 2},
		{750, 7, 3},
		{1000, 7, 3},
		{1001, 10, 5},
		{1999, 10, 5},
	}

	for _, tt := range tests {
		quotes, err := newModel().Price(tt.distance, 1)
		require.NoError(t, err)
		assert.Equal(t, tt.standardDays, quotes[0].ETADays, "standard at %v km", tt.distance)
		assert.Equal(t, tt.expressDays, quotes[1].ETADays, "express at %v km", tt.distance)
	}
}

func TestPricingModel_RoundsToCents(t *testing.T) {
	quotes, err := newModel().Price(123, 0.333)
	require.NoError(t, err)

	for _, q := range quotes {
		cents := q.Price * 100
		assert.InDelta(t, math.Round(cents), cents, 1e-6)
	}
	// 15.50 + 9.84 + 0.8325 = 26.1725
	assert.InDelta(t, 26.17, quotes[0].Price, 1e-9)
}

func TestPricingModel_RoundsTiesUp(t *testing.T) {
	tests := []struct {
		distance, weight float64
		standard         float64
		express          float64
	}{
		// 15.50 + 8.08 + 0.005 = 23.585, 25.00 + 12.12 + 0.008 = 37.128
		{distance: 101, weight: 0.002, standard: 23.59, express: 37.13},
		// 15.50 + 8.00 + 0.005 = 23.505
		{distance: 100, weight: 0.002, standard: 23.51, express: 37.01},
		// 15.50 + 0.08 + 0.005 = 15.585
		{distance: 1, weight: 0.002, standard: 15.59, express: 25.13},
	}

	for _, tt := range tests {
		quotes, err := newModel().Price(tt.distance, tt.weight)
		require.NoError(t, err)
		assert.Equal(t, tt.standard, quotes[0].Price, "standard at %v km, %v kg", tt.distance, tt.weight)
		assert.Equal(t, tt.express, quotes[1].Price, "express at %v km, %v kg", tt.distance, tt.weight)
	}
}

func TestPricingModel_MonotonicInWeight(t *testing.T) {
	model := newModel()
	for _, d := range []float64{50, 249, 500, 1999} {
		prev, err := model.Price(d, 0.5)
		require.NoError(t, err)
		for w := 1.0; w <= 30; w += 0.5 {
			cur, err := model.Price(d, w)
			require.NoError(t, err)
			for i := range cur {
				assert.Greater(t, cur[i].Price, prev[i].Price, "d=%v w=%v tier=%s", d, w, cur[i].ServiceCode)
			}
			prev = cur
		}
	}
}

func TestPricingModel_MonotonicInDistance(t *testing.T) {
	model := newModel()
	for _, w := range []float64{0.1, 1, 10} {
		prev, err := model.Price(50, w)
		require.NoError(t, err)
		for d := 60.0; d < 2000; d += 10 {
			cur, err := model.Price(d, w)
			require.NoError(t, err)
			for i := range cur {
				assert.Greater(t, cur[i].Price, prev[i].Price, "d=%v w=%v tier=%s", d, w, cur[i].ServiceCode)
			}
			prev = cur
		}
	}
}

func TestPricingModel_TierOrdering(t *testing.T) {
	model := newModel()
	for d := 50.0; d < 2000; d += 37 {
		for w := 0.05; w < 40; w += 1.7 {
			quotes, err := model.Price(d, w)
			require.NoError(t, err)
			standard, express := quotes[0], quotes[1]
			assert.GreaterOrEqual(t, express.Price, standard.Price)
			assert.LessOrEqual(t, express.ETADays, standard.ETADays)
			assert.GreaterOrEqual(t, express.ETADays, 1)
		}
	}
}

func TestPricingModel_RejectsOutOfContractInput(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		weight   float64
	}{
		{"zero weight", 100, 0},
		{"negative weight", 100, -1},
		{"zero distance", 0, 1},
		{"NaN weight", 100, math.NaN()},
		{"infinite distance", math.Inf(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newModel().Price(tt.distance, tt.weight)
			assert.True(t, errors.Is(err, shipper.ErrInternalComputation))
		})
	}
}

func TestNewPricingModel_EmptyTariffUsesDefault(t *testing.T) {
	quotes, err := fallback.NewPricingModel(fallback.Tariff{}).Price(100, 1)
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
}

func TestPricingModel_CustomTariff(t *testing.T) {
	tariff := fallback.Tariff{Tiers: []fallback.TierRate{
		{Tier: "economy", Name: "Economy", Base: 10, PerKm: 0.01, PerKg: 1, BeyondDays: 12},
	}}

	quotes, err := fallback.NewPricingModel(tariff).Price(100, 2)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.InDelta(t, 13.00, quotes[0].Price, 1e-9)
	assert.Equal(t, 12, quotes[0].ETADays)
}
