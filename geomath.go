package sumogen

import (
	"math"
)

const (
	kmhToMsRatio = 1.0 / 3.6
	msToKmhRatio = 3.6
)

// KmhToMs converts km/h to m/s (the unit the simulation engine expects)
func KmhToMs(kmh float64) float64 {
	return kmh * kmhToMsRatio
}

// MsToKmh converts m/s to km/h
func MsToKmh(ms float64) float64 {
	return ms * msToKmhRatio
}

// pointOnCircle returns planar coordinates for given radius and angle in
// degrees, measured clockwise from North (so angle 0 is straight up)
func pointOnCircle(radius, angleDegrees float64) (float64, float64) {
	rad := (90.0 - angleDegrees) * math.Pi / 180.0
	return radius * math.Cos(rad), radius * math.Sin(rad)
}
