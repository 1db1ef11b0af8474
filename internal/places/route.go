// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package places

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/ar_navigator/internal/geodesy"
)

const (
	// DefaultRouteSegments is the number of points drawn along a route.
	DefaultRouteSegments = 10
	// DefaultMaxRouteDisplay caps the drawn route length in metres.
	DefaultMaxRouteDisplay = 100.0
)

// Route is the segment from the device to the trip target. The device is
// always at the origin of the world frame.
type Route struct {
	Target   geodesy.GeographicPoint `json:"target"`
	Distance float64                 `json:"distance"` // metres
	Bearing  float64                 `json:"bearing"`
	End      r3.Vec                  `json:"end"`     // full length
	Display  r3.Vec                  `json:"display"` // capped end
	Points   []r3.Vec                `json:"points"`
}

// PlanRoute lays out the route to target. The drawn part stops maxDisplay
// metres from the device and is split into segments evenly spaced points
// (at least 2).
func PlanRoute(device, target geodesy.GeographicPoint, maxDisplay float64, segments int) Route {
	maxDisplay = math.Max(maxDisplay, 0)
	if segments < 2 {
		segments = 2
	}

	d := metres(device, target)
	b := geodesy.BearingTo(device, target)
	end := PositionAt(b, d)

	display := end
	if length := r3.Norm(end); length > maxDisplay {
		display = r3.Scale(maxDisplay/length, end)
	}

	points := make([]r3.Vec, segments)
	for i := range points {
		t := float64(i) / float64(segments-1)
		points[i] = r3.Scale(t, display)
	}

	return Route{
		Target:   target,
		Distance: d,
		Bearing:  b,
		End:      end,
		Display:  display,
		Points:   points,
	}
}
