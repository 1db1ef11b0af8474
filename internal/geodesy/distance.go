// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geodesy

import (
	"math"
)

// Unit factors applied to statute miles. Together with the 60*1.1515 miles
// per degree in Distance they are low precision on purpose: POI placement
// depends on them being stable, not on them being geodetically exact.
const (
	kmPerMile       = 1.609344
	nauticalPerMile = 0.8684
	metresPerMile   = 1609.344
)

// Distance returns the great-circle distance between a and b using the
// spherical law of cosines. Identical points return exactly 0.
func Distance(a, b GeographicPoint, unit Unit) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}

	theta := a.Longitude - b.Longitude
	dist := math.Sin(Deg2Rad(a.Latitude))*math.Sin(Deg2Rad(b.Latitude)) +
		math.Cos(Deg2Rad(a.Latitude))*math.Cos(Deg2Rad(b.Latitude))*math.Cos(Deg2Rad(theta))
	dist = math.Acos(dist)
	dist = Rad2Deg(dist)
	dist = dist * 60 * 1.1515

	switch unit {
	case Kilometers:
		dist *= kmPerMile
	case NauticalMiles:
		dist *= nauticalPerMile
	case Meters:
		dist *= metresPerMile
	}
	return dist
}

// BearingTo returns the initial great-circle bearing from one point to
// another in degrees, normalised to [0,360).
func BearingTo(from, to GeographicPoint) float64 {
	lat1 := Deg2Rad(from.Latitude)
	lat2 := Deg2Rad(to.Latitude)
	dLon := Deg2Rad(to.Longitude) - Deg2Rad(from.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return normalizeDegrees(Rad2Deg(math.Atan2(y, x)))
}

// RhumbBearingTo returns the constant-heading (loxodrome) bearing from one
// point to another in degrees, normalised to [0,360).
func RhumbBearingTo(from, to GeographicPoint) float64 {
	lat1 := Deg2Rad(from.Latitude)
	lat2 := Deg2Rad(to.Latitude)
	dLon := Deg2Rad(to.Longitude - from.Longitude)

	dPhi := math.Log(math.Tan(lat2/2+math.Pi/4) / math.Tan(lat1/2+math.Pi/4))
	// take the short way round the antimeridian
	if math.Abs(dLon) > math.Pi {
		if dLon > 0 {
			dLon = -(2*math.Pi - dLon)
		} else {
			dLon = 2*math.Pi + dLon
		}
	}

	return normalizeDegrees(Rad2Deg(math.Atan2(dLon, dPhi)))
}

// Deg2Rad converts decimal degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to decimal degrees.
func Rad2Deg(rad float64) float64 {
	return rad / math.Pi * 180.0
}

func normalizeDegrees(deg float64) float64 {
	return math.Mod(deg+360, 360)
}
