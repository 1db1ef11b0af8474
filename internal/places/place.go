// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package places arranges points of interest and the trip target around
// the device: distance, bearing and position in the local world frame.
package places

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/relabs-tech/ar_navigator/internal/geodesy"
)

// Place is a point of interest.
type Place struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Phone    string                  `json:"phone,omitempty"`
	Website  string                  `json:"website,omitempty"`
	Type     string                  `json:"type,omitempty"`
	Location geodesy.GeographicPoint `json:"location"`
}

// Waypoint is one stop of a trip.
type Waypoint struct {
	Title    string                  `json:"title"`
	Location geodesy.GeographicPoint `json:"location"`
}

// Trip is the ordered list of desired waypoints.
type Trip struct {
	Waypoints []Waypoint `json:"waypoints"`
}

// Target is the first waypoint, or the device itself when the trip is
// empty.
func (t Trip) Target(device geodesy.GeographicPoint) geodesy.GeographicPoint {
	if len(t.Waypoints) == 0 {
		return device
	}
	return t.Waypoints[0].Location
}

// Polyline returns every waypoint as an offset in metres from origin.
func (t Trip) Polyline(origin geodesy.GeographicPoint) []geodesy.PlanarPoint {
	out := make([]geodesy.PlanarPoint, 0, len(t.Waypoints))
	for _, w := range t.Waypoints {
		out = append(out, geodesy.LocalOffset(origin, w.Location))
	}
	return out
}

// TripTo is a one-waypoint trip to a place.
func TripTo(p Place) Trip {
	return Trip{Waypoints: []Waypoint{{Title: p.Name, Location: p.Location}}}
}

// DecodePlaces reads a JSON array of places, as used by the seed files.
func DecodePlaces(r io.Reader) ([]Place, error) {
	var out []Place
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode places: %w", err)
	}
	for i, p := range out {
		if err := p.Location.Validate(); err != nil {
			return nil, fmt.Errorf("place %d (%s): %w", i, p.Name, err)
		}
	}
	return out, nil
}
