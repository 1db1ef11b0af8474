// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sample is one sensor tick. Sources without a given sensor leave the
// field zeroed; the fuser never fails on missing data. A zero Attitude
// reads as identity.
type Sample struct {
	// HasHeading is false for sources without a compass; the navigator then
	// fills both headings from the GPS.
	HasHeading      bool    `json:"has_heading"`
	TrueHeading     float64 `json:"true_heading"`     // degrees [0,360)
	MagneticHeading float64 `json:"magnetic_heading"` // degrees [0,360)

	Attitude     quat.Number `json:"attitude"`      // device-to-world, unit
	RotationRate r3.Vec      `json:"rotation_rate"` // unbiased, rad/s
	Acceleration r3.Vec      `json:"acceleration"`  // measured, g
	Gravity      r3.Vec      `json:"gravity"`       // gravity component, g

	Elapsed float64 `json:"elapsed"` // seconds since the previous sample
}

// Heading returns the heading selected by the config.
func (s Sample) Heading(cfg Config) float64 {
	if cfg.UseTrueHeading {
		return s.TrueHeading
	}
	return s.MagneticHeading
}

func (s Sample) attitude() quat.Number {
	if s.Attitude == (quat.Number{}) {
		return Identity
	}
	return s.Attitude
}

// Source is anything that can provide samples over time: the mock source,
// the MPU9250 source, a replay.
type Source interface {
	Next() (Sample, error)
}
