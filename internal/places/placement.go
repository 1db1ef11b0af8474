// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package places

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/ar_navigator/internal/geodesy"
)

// Placement is a place positioned around the device.
type Placement struct {
	Place    Place       `json:"place"`
	Distance float64     `json:"distance"` // metres
	Bearing  float64     `json:"bearing"`  // degrees from north
	Position r3.Vec      `json:"position"` // world frame: X east, Z north
	Rank     int         `json:"rank"`     // 0 is the closest
	Mode     DisplayMode `json:"mode"`
	Label    string      `json:"label"`
}

// DistanceText is the distance as drawn next to the label.
func (p Placement) DistanceText() string {
	return fmt.Sprintf("%dm", int(p.Distance))
}

// PositionAt places a target at distance metres along bearing degrees in
// the world frame.
func PositionAt(bearing, distance float64) r3.Vec {
	b := geodesy.Deg2Rad(bearing)
	return r3.Vec{X: math.Sin(b) * distance, Z: math.Cos(b) * distance}
}

// metres is the distance between two points with the NaN that acos rounding
// gives for nearly identical points read as 0.
func metres(a, b geodesy.GeographicPoint) float64 {
	d := geodesy.Distance(a, b, geodesy.Meters)
	if math.IsNaN(d) {
		return 0
	}
	return d
}

// Arrange computes every place's distance, bearing and position from the
// device, sorts them closest first and assigns display modes by rank.
// modes must already be sorted with SortModes.
func Arrange(device geodesy.GeographicPoint, places []Place, modes []DisplayMode, maxClose int) []Placement {
	out := make([]Placement, 0, len(places))
	for _, p := range places {
		d := metres(device, p.Location)
		b := geodesy.BearingTo(device, p.Location)
		out = append(out, Placement{
			Place:    p,
			Distance: d,
			Bearing:  b,
			Position: PositionAt(b, d),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})

	for i := range out {
		out[i].Rank = i
		settings := DefaultSettings()
		if m, ok := SelectMode(modes, out[i].Distance, i, maxClose); ok {
			out[i].Mode = m
			settings = m.Settings
		}
		out[i].Label = Label(out[i].Place.Name, settings.MaxNameCharacters)
	}
	return out
}
