// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

type mockSource struct {
	start time.Time
	last  time.Time
	now   func() time.Time
}

// NewMockSource creates a mock source that slowly turns on the spot while
// rocking a little, with gravity straight down.
func NewMockSource() Source {
	return newMockSource(time.Now)
}

func newMockSource(now func() time.Time) *mockSource {
	t := now()
	return &mockSource{start: t, last: t, now: now}
}

func (m *mockSource) Next() (Sample, error) {
	t := m.now()
	elapsed := t.Sub(m.start).Seconds()
	dt := t.Sub(m.last).Seconds()
	m.last = t

	pose := Pose{
		Roll:  20 * math.Sin(elapsed),
		Pitch: 15 * math.Cos(elapsed*0.7),
		Yaw:   math.Mod(elapsed*30, 360),
	}
	gravity := r3.Vec{Y: -1}

	return Sample{
		HasHeading:      true,
		TrueHeading:     pose.Yaw,
		MagneticHeading: wrapDegrees(pose.Yaw - 5),
		Attitude:        AttitudeFromTilt(pose, pose.Yaw),
		RotationRate: r3.Vec{
			X: deg2rad(20 * math.Cos(elapsed)),
			Y: deg2rad(30),
		},
		Acceleration: gravity,
		Gravity:      gravity,
		Elapsed:      dt,
	}, nil
}
