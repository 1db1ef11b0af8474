// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package navigation

import (
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/ar_navigator/internal/geodesy"
	"github.com/relabs-tech/ar_navigator/internal/orientation"
	"github.com/relabs-tech/ar_navigator/internal/places"
)

// Telemetry is the yacht data shown next to the camera view.
type Telemetry struct {
	Speed         float64                 `json:"speed"` // knots
	WindDirection float64                 `json:"wind_direction"`
	WindStrength  float64                 `json:"wind_strength"`
	CurrentCourse float64                 `json:"current_course"`
	AverageCourse float64                 `json:"average_course"`
	DesiredCourse float64                 `json:"desired_course"`
	Location      geodesy.GeographicPoint `json:"location"`
}

// Snapshot is everything a client needs to draw one frame. It is published
// on the navigation topic and served by the web API.
type Snapshot struct {
	SessionID string    `json:"session_id"`
	Time      time.Time `json:"time"`
	Ticks     uint64    `json:"ticks"`

	Heading     float64          `json:"heading"`
	LastHeading float64          `json:"last_heading"`
	Pose        orientation.Pose `json:"pose"`
	World       quat.Number      `json:"world"`
	Camera      quat.Number      `json:"camera"`
	Position    r3.Vec           `json:"position"`

	HasLocation bool                    `json:"has_location"`
	Location    geodesy.GeographicPoint `json:"location"`
	Zone        int                     `json:"zone"`
	Planar      geodesy.PlanarPoint     `json:"planar"`
	UTM         geodesy.PlanarPoint     `json:"utm"` // WGS84 UTM, same zone

	Placements []places.Placement `json:"placements"`
	Route      places.Route       `json:"route"`
	Telemetry  Telemetry          `json:"telemetry"`
}

// Target is where the route leads.
func (s Snapshot) Target() geodesy.GeographicPoint {
	return s.Route.Target
}
