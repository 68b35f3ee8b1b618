package utils

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Bearing returns the initial great-circle bearing from one point to
// another, in degrees clockwise from north in [0, 360).
func Bearing(from, to orb.Point) float64 {
	return math.Mod(geo.Bearing(from, to)+360, 360)
}

// BearingToCompass converts a bearing (0-360°) to 8-point compass direction
func BearingToCompass(bearing float64) string {
	directions := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	index := int((bearing+22.5)/45.0) % 8
	return directions[index]
}

// CompassDirection returns the 8-point compass direction from one point to another.
func CompassDirection(from, to orb.Point) string {
	return BearingToCompass(Bearing(from, to))
}
