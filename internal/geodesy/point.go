// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package geodesy converts GPS coordinates into a local metric frame and
// computes distance and bearing between two locations.
//
// Every function here is pure and total: out-of-range input yields NaN or a
// meaningless number, never an error. Callers validate degree ranges.
package geodesy

import (
	"fmt"
	"strconv"
)

// GeographicPoint is a WGS84-style location in decimal degrees.
type GeographicPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Point is shorthand for building a GeographicPoint.
func Point(lat, lng float64) GeographicPoint {
	return GeographicPoint{Latitude: lat, Longitude: lng}
}

// Validate reports whether the point is inside the degree ranges. None of
// the math in this package calls it.
func (p GeographicPoint) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", p.Longitude)
	}
	return nil
}

// String renders "lat,lng" with a dot decimal separator.
func (p GeographicPoint) String() string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

// PlanarPoint is a projected position in metres. Two planar points are only
// comparable when they were projected through the same zone.
type PlanarPoint struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

// Sub returns p - q.
func (p PlanarPoint) Sub(q PlanarPoint) PlanarPoint {
	return PlanarPoint{Easting: p.Easting - q.Easting, Northing: p.Northing - q.Northing}
}

// Unit selects the output unit of Distance.
type Unit rune

const (
	Miles         Unit = 'M'
	Kilometers    Unit = 'K'
	NauticalMiles Unit = 'N'
	Meters        Unit = 'm'
)

// ParseUnit maps the one-letter unit codes. Anything unknown is statute miles.
func ParseUnit(r rune) Unit {
	switch Unit(r) {
	case Kilometers, NauticalMiles, Meters:
		return Unit(r)
	default:
		return Miles
	}
}

func (u Unit) String() string {
	switch u {
	case Kilometers:
		return "km"
	case NauticalMiles:
		return "nmi"
	case Meters:
		return "m"
	default:
		return "mi"
	}
}
