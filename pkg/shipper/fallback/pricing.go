package fallback

import (
	"fmt"
	"math"

	"github.com/tournevent/rates/pkg/shipper"
)

// ETABand maps distances up to MaxKm (inclusive) to a delivery estimate.
type ETABand struct {
	MaxKm float64
	Days  int
}

// TierRate holds the linear price formula and ETA bands of one tier:
// price = Base + distanceKm*PerKm + weightKg*PerKg.
type TierRate struct {
	Tier       shipper.ServiceTier
	Name       string
	Base       float64
	PerKm      float64
	PerKg      float64
	Bands      []ETABand
	BeyondDays int // used past the last band
}

// Tariff is the set of tiers offered by the fallback model.
type Tariff struct {
	Tiers []TierRate
}

// DefaultTariff returns the standard and express tiers.
func DefaultTariff() Tariff {
	return Tariff{
		Tiers: []TierRate{
			{
				Tier:  shipper.TierStandard,
				Name:  "Standard",
				Base:  15.50,
				PerKm: 0.08,
				PerKg: 2.50,
				Bands: []ETABand{
					{MaxKm: 200, Days: 3},
					{MaxKm: 500, Days: 5},
					{MaxKm: 1000, Days: 7},
				},
				BeyondDays: 10,
			},
			{
				Tier:  shipper.TierExpress,
				Name:  "Express",
				Base:  25.00,
				PerKm: 0.12,
				PerKg: 4.00,
				Bands: []ETABand{
					{MaxKm: 200, Days: 1},
					{MaxKm: 500, Days: 2},
					{MaxKm: 1000, Days: 3},
				},
				BeyondDays: 5,
			},
		},
	}
}

// PricingModel computes fallback quotes from a distance and a weight.
type PricingModel struct {
	tariff Tariff
}

// NewPricingModel creates a pricing model. A tariff with no tiers is
// replaced by DefaultTariff.
func NewPricingModel(tariff Tariff) *PricingModel {
	if len(tariff.Tiers) == 0 {
		tariff = DefaultTariff()
	}
	return &PricingModel{tariff: tariff}
}

// Price returns one quote per tier, in tariff order.
func (m *PricingModel) Price(distanceKm, weightKg float64) ([]shipper.ServiceQuote, error) {
	if !positiveFinite(distanceKm) {
		return nil, fmt.Errorf("%w: distance %v km", shipper.ErrInternalComputation, distanceKm)
	}
	if !positiveFinite(weightKg) {
		return nil, fmt.Errorf("%w: weight %v kg", shipper.ErrInternalComputation, weightKg)
	}

	quotes := make([]shipper.ServiceQuote, 0, len(m.tariff.Tiers))
	for _, t := range m.tariff.Tiers {
		quotes = append(quotes, shipper.ServiceQuote{
			ServiceCode: string(t.Tier),
			ServiceName: t.Name,
			Price:       round2(t.Base + distanceKm*t.PerKm + weightKg*t.PerKg),
			ETADays:     t.etaDays(distanceKm),
		})
	}
	return quotes, nil
}

func (t TierRate) etaDays(distanceKm float64) int {
	for _, b := range t.Bands {
		if distanceKm <= b.MaxKm {
			return b.Days
		}
	}
	return t.BeyondDays
}

// round2 rounds half-up to two decimal places. Inputs are always positive.
// The value is first snapped to whole micro-units so that a decimal tie
// stored just below its exact value, such as 23.585, still rounds up.
func round2(v float64) float64 {
	micros := int64(math.Round(v * 1e6))
	return float64((micros+5000)/10000) / 100
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
