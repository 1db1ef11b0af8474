// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geodesy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allUnits = []Unit{Miles, Kilometers, NauticalMiles, Meters}

func TestDistanceSamePointIsZero(t *testing.T) {
	points := []GeographicPoint{
		Point(0, 0),
		Point(54.352, 18.6466),
		Point(-33.8688, 151.2093),
		Point(90, 180),
		Point(-90, -180),
		Point(1000, -1000), // out of range still short-circuits
	}

	for _, p := range points {
		for _, u := range allUnits {
			assert.Equal(t, 0.0, Distance(p, p, u), "point %v unit %v", p, u)
		}
	}
}

func TestDistanceOneDegreeAtEquator(t *testing.T) {
	a, b := Point(0, 0), Point(0, 1)

	tests := []struct {
		unit     Unit
		expected float64
	}{
		{Miles, 69.09},
		{Kilometers, 111.18957695998893},
		{NauticalMiles, 59.99775599999401},
		{Meters, 111189.57695998892},
	}

	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(a, b, tt.unit), 1e-6)
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a, b := Point(52.2297, 21.0122), Point(54.352, 18.6466)

	assert.InDelta(t, Distance(a, b, Kilometers), Distance(b, a, Kilometers), 1e-9)
	assert.InDelta(t, 283.5232926432919, Distance(a, b, Kilometers), 1e-6)
}

func TestDistanceUnknownUnitIsMiles(t *testing.T) {
	a, b := Point(0, 0), Point(0, 1)
	assert.Equal(t, Distance(a, b, Miles), Distance(a, b, Unit('x')))
}

func TestBearingToCardinalDirections(t *testing.T) {
	origin := Point(0, 0)

	tests := []struct {
		name     string
		to       GeographicPoint
		expected float64
	}{
		{"north", Point(1, 0), 0},
		{"east", Point(0, 1), 90},
		{"south", Point(-1, 0), 180},
		{"west", Point(0, -1), 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, BearingTo(origin, tt.to), 1e-9)
		})
	}

	assert.Equal(t, 90.0, BearingTo(origin, Point(0, 1)))
}

func TestBearingToStaysInRange(t *testing.T) {
	points := []GeographicPoint{
		Point(0, 0),
		Point(54.352, 18.6466),
		Point(-33.8688, 151.2093),
		Point(71.0, -8.0),
		Point(-60.5, -179.9),
		Point(10, 179.9),
		Point(-0.0001, 0.0001),
	}

	for _, a := range points {
		for _, b := range points {
			if a == b {
				continue
			}
			got := BearingTo(a, b)
			assert.GreaterOrEqual(t, got, 0.0, "%v -> %v", a, b)
			assert.Less(t, got, 360.0, "%v -> %v", a, b)

			rhumb := RhumbBearingTo(a, b)
			assert.GreaterOrEqual(t, rhumb, 0.0, "rhumb %v -> %v", a, b)
			assert.Less(t, rhumb, 360.0, "rhumb %v -> %v", a, b)
		}
	}
}

func TestRhumbBearingTo(t *testing.T) {
	tests := []struct {
		name     string
		from, to GeographicPoint
		expected float64
	}{
		{"east", Point(0, 0), Point(0, 1), 90},
		{"north", Point(0, 0), Point(1, 0), 0},
		{"south", Point(0, 0), Point(-1, 0), 180},
		{"east across antimeridian", Point(0, 179), Point(0, -179), 90},
		{"west across antimeridian", Point(0, -179), Point(0, 179), 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RhumbBearingTo(tt.from, tt.to), 1e-9)
		})
	}
}

func TestProjectToPlane(t *testing.T) {
	tests := []struct {
		name     string
		point    GeographicPoint
		expected PlanarPoint
	}{
		{"central meridian on equator", Point(0, 3), PlanarPoint{Easting: 500000, Northing: 0}},
		{"warsaw", Point(52.2297, 21.0122), PlanarPoint{Easting: 500832.3, Northing: 5780235.9}},
		{"sydney gets false northing", Point(-33.8688, 151.2093), PlanarPoint{Easting: 334550.4, Northing: 6255062.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectToPlane(tt.point)
			assert.InDelta(t, tt.expected.Easting, got.Easting, 1e-6)
			assert.InDelta(t, tt.expected.Northing, got.Northing, 1e-6)
		})
	}
}

func TestProjectToPlaneIsDeterministicAndRounded(t *testing.T) {
	p := Point(54.35205, 18.64661)
	first := ProjectToPlane(p)

	for i := 0; i < 100; i++ {
		require.Equal(t, first, ProjectToPlane(p))
	}

	// both outputs sit on the decimetre grid
	assert.InDelta(t, math.Round(first.Easting*10), first.Easting*10, 1e-6)
	assert.InDelta(t, math.Round(first.Northing*10), first.Northing*10, 1e-6)
}

func TestZone(t *testing.T) {
	assert.Equal(t, 1, Zone(-180))
	assert.Equal(t, 31, Zone(0))
	assert.Equal(t, 34, Zone(21.0122))
	assert.Equal(t, 56, Zone(151.2093))
	assert.Equal(t, 3.0, CentralMeridian(31))
	assert.Equal(t, 21.0, CentralMeridian(34))
}

func TestLocalOffsetMatchesDistance(t *testing.T) {
	origin := Point(54.352, 18.6466)

	// grid north drifts from true north away from the central meridian
	north := LocalOffset(origin, Point(54.3521, 18.6466))
	assert.InDelta(t, 0, north.Easting, 0.5)
	assert.InDelta(t, Distance(origin, Point(54.3521, 18.6466), Meters), north.Northing, 0.2)

	east := LocalOffset(origin, Point(54.352, 18.66))
	assert.InDelta(t, Distance(origin, Point(54.352, 18.66), Meters), east.Easting, 868*0.01)
	assert.Greater(t, east.Easting, 0.0)
}

func TestLocalOffsetAcrossZoneBorder(t *testing.T) {
	// 18.0 is the border between zones 33 and 34
	west, east := Point(54.0, 17.999), Point(54.0, 18.001)
	require.NotEqual(t, Zone(west.Longitude), Zone(east.Longitude))

	off := LocalOffset(west, east)
	assert.InDelta(t, Distance(west, east, Meters), off.Easting, 1.0)
}

func TestReferenceUTMAgreesOnRelativeOffsets(t *testing.T) {
	a, b := Point(52.2297, 21.0122), Point(52.2397, 21.0222)

	fast := ProjectToPlane(b).Sub(ProjectToPlane(a))
	ref := ReferenceUTM(b).Sub(ReferenceUTM(a))

	assert.InEpsilon(t, ref.Easting, fast.Easting, 0.005)
	assert.InEpsilon(t, ref.Northing, fast.Northing, 0.005)
}

func TestNaNPropagatesSilently(t *testing.T) {
	nan := Point(math.NaN(), 0)

	assert.True(t, math.IsNaN(Distance(nan, Point(0, 0), Meters)))
	assert.True(t, math.IsNaN(BearingTo(nan, Point(0, 1))))
	assert.True(t, math.IsNaN(ProjectToPlane(nan).Northing))
}

func TestParseUnit(t *testing.T) {
	assert.Equal(t, Kilometers, ParseUnit('K'))
	assert.Equal(t, NauticalMiles, ParseUnit('N'))
	assert.Equal(t, Meters, ParseUnit('m'))
	assert.Equal(t, Miles, ParseUnit('M'))
	assert.Equal(t, Miles, ParseUnit('?'))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Point(54.352, 18.6466).Validate())
	assert.Error(t, Point(91, 0).Validate())
	assert.Error(t, Point(0, -181).Validate())
	assert.Equal(t, "54.352,18.6466", Point(54.352, 18.6466).String())
}
