package shipper

import "fmt"

// Default package dimensions applied when the caller omits them.
const (
	DefaultWeightGrams = 1000
	DefaultLengthCm    = 20
	DefaultHeightCm    = 20
	DefaultWidthCm     = 20
)

// ServiceTier identifies one of the tiers offered by the fallback model.
type ServiceTier string

const (
	TierStandard ServiceTier = "standard"
	TierExpress  ServiceTier = "express"
)

// PostalAddress is a postal code resolved to a structured address.
type PostalAddress struct {
	Code         string `json:"code"` // 8 digits, no separator
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	Region       string `json:"region"` // state abbreviation, e.g. "SP"
}

// PackageSpec describes the parcel being quoted. Weight is in grams and
// dimensions in centimeters.
type PackageSpec struct {
	WeightGrams float64 `json:"weightGrams"`
	LengthCm    float64 `json:"lengthCm"`
	HeightCm    float64 `json:"heightCm"`
	WidthCm     float64 `json:"widthCm"`
}

// WithDefaults fills zero fields with the default package dimensions.
func (p PackageSpec) WithDefaults() PackageSpec {
	if p.WeightGrams == 0 {
		p.WeightGrams = DefaultWeightGrams
	}
	if p.LengthCm == 0 {
		p.LengthCm = DefaultLengthCm
	}
	if p.HeightCm == 0 {
		p.HeightCm = DefaultHeightCm
	}
	if p.WidthCm == 0 {
		p.WidthCm = DefaultWidthCm
	}
	return p
}

// Validate reports an ErrInvalidPackage error if any field is not positive.
func (p PackageSpec) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"weightGrams", p.WeightGrams},
		{"lengthCm", p.LengthCm},
		{"heightCm", p.HeightCm},
		{"widthCm", p.WidthCm},
	}
	for _, f := range fields {
		if !(f.value > 0) {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidPackage, f.name)
		}
	}
	return nil
}

// WeightKg returns the package weight in kilograms.
func (p PackageSpec) WeightKg() float64 {
	return p.WeightGrams / 1000
}

// ServiceQuote is a single delivery option.
type ServiceQuote struct {
	ServiceCode string  `json:"serviceCode"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	ETADays     int     `json:"etaDays"`
}

// RateQuoteResult is the normalized answer returned to callers.
type RateQuoteResult struct {
	OriginCode      string         `json:"originCode"`
	DestinationCode string         `json:"destinationCode"`
	Services        []ServiceQuote `json:"services"`
}
