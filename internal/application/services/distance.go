package services

import (
	"math"

	"github.com/zatekoja/placeviewer/pkg/coerce"
)

// Meters per degree for the flat approximation used around the Korean peninsula.
const (
	metersPerDegreeLon = 88000
	metersPerDegreeLat = 111000
)

// DistanceMeters returns the planar distance in whole meters between a place
// at (px, py) and a center at (cx, cy). It reports false when either place
// coordinate is not numeric.
func DistanceMeters(px, py any, cx, cy float64) (int, bool) {
	x, okX := coerce.ToNumberOrNull(px)
	y, okY := coerce.ToNumberOrNull(py)
	if !okX || !okY {
		return 0, false
	}
	dx := (x - cx) * metersPerDegreeLon
	dy := (y - cy) * metersPerDegreeLat
	return int(coerce.RoundHalfUp(math.Sqrt(dx*dx + dy*dy))), true
}
