// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import "github.com/relabs-tech/ar_navigator/internal/geodesy"

// Fix represents a single combined GPS fix suitable for JSON and MQTT.
// Position fields come from RMC/GGA, headings from HDT/HDG, wind from MWV.
type Fix struct {
	Time       string  `json:"time"`        // e.g. "12:34:56.0000"
	Date       string  `json:"date"`        // DD/MM/YY
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground
	Validity   string  `json:"validity"`    // "A" (valid) / "V" (void), etc.

	AverageCourse float64 `json:"average_course"`

	FixQuality string  `json:"fix_quality,omitempty"`
	Satellites int64   `json:"satellites,omitempty"`
	Altitude   float64 `json:"altitude,omitempty"` // metres above mean sea level

	// HasHeading and HasMagneticHeading hold while the compass sentences
	// keep arriving; an RMC with no heading since the previous one clears
	// them.
	HasHeading         bool    `json:"has_heading"`
	HasMagneticHeading bool    `json:"has_magnetic_heading"`
	TrueHeading        float64 `json:"true_heading"`
	MagneticHeading    float64 `json:"magnetic_heading"`

	WindAngle     float64 `json:"wind_angle"`
	WindSpeed     float64 `json:"wind_speed"`
	WindReference string  `json:"wind_reference,omitempty"` // R relative, T true
	WindSpeedUnit string  `json:"wind_speed_unit,omitempty"`
}

// Valid reports whether the receiver had a position lock.
func (f Fix) Valid() bool {
	return f.Validity == "A"
}

// Location returns the position of the fix.
func (f Fix) Location() geodesy.GeographicPoint {
	return geodesy.Point(f.Latitude, f.Longitude)
}
