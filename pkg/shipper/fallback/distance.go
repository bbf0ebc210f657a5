// Package fallback implements the offline pricing path used when the rate
// provider cannot answer: a deterministic distance estimate between two
// postal codes and a linear price/ETA model on top of it.
package fallback

import (
	"hash/fnv"
	"strings"

	"github.com/tournevent/rates/pkg/shipper"
)

// Distance ranges in kilometers. Same-region and cross-region ranges never
// overlap, so a same-region pair always prices below a cross-region one.
const (
	sameRegionBaseKm  = 50
	sameRegionSpanKm  = 200
	crossRegionBaseKm = 500
	crossRegionSpanKm = 1500
)

// DistanceEstimator derives a repeatable distance from two postal codes
// without any network call.
type DistanceEstimator struct{}

// NewDistanceEstimator creates a distance estimator.
func NewDistanceEstimator() *DistanceEstimator {
	return &DistanceEstimator{}
}

// Estimate returns the distance in kilometers between origin and destination.
// The result depends only on the two codes and on whether their regions match.
func (e *DistanceEstimator) Estimate(origin, destination shipper.PostalAddress) float64 {
	h := codeHash(origin.Code, destination.Code)
	if sameRegion(origin.Region, destination.Region) {
		return float64(sameRegionBaseKm + h%sameRegionSpanKm)
	}
	return float64(crossRegionBaseKm + h%crossRegionSpanKm)
}

// codeHash hashes the concatenated codes with FNV-1a.
func codeHash(originCode, destinationCode string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(originCode + destinationCode))
	return h.Sum32()
}

func sameRegion(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
