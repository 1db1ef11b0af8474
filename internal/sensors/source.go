// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors turns raw MPU9250 readings into orientation samples.
package sensors

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/ar_navigator/internal/imu"
	"github.com/relabs-tech/ar_navigator/internal/orientation"
)

// HeadingFunc supplies the latest compass heading, true and magnetic. ok is
// false while no heading is known.
type HeadingFunc func() (trueHeading, magneticHeading float64, ok bool)

// IMUSource adapts a raw reader to orientation.Source. The chip has no
// usable compass, so the attitude takes its yaw from HeadingFunc and the
// samples report HasHeading only when that heading is known.
type IMUSource struct {
	reader     imu.RawReader
	accelRange byte
	gyroRange  byte
	gravity    *GravityFilter
	heading    HeadingFunc
	now        func() time.Time
	last       time.Time
}

// NewIMUSource wraps reader. heading may be nil.
func NewIMUSource(reader imu.RawReader, accelRange, gyroRange byte, heading HeadingFunc) (*IMUSource, error) {
	if err := CheckRanges(accelRange, gyroRange); err != nil {
		return nil, err
	}
	return &IMUSource{
		reader:     reader,
		accelRange: accelRange,
		gyroRange:  gyroRange,
		gravity:    NewGravityFilter(DefaultGravityAlpha),
		heading:    heading,
		now:        time.Now,
	}, nil
}

// Next reads one raw sample and converts it.
func (s *IMUSource) Next() (orientation.Sample, error) {
	raw, err := s.reader.ReadRaw()
	if err != nil {
		return orientation.Sample{}, fmt.Errorf("imu sample: %w", err)
	}

	t := s.now()
	var elapsed float64
	if !s.last.IsZero() {
		elapsed = t.Sub(s.last).Seconds()
	}
	s.last = t

	as := AccelScale(s.accelRange)
	gs := GyroScale(s.gyroRange)
	accel := r3.Vec{X: float64(raw.Ax) * as, Y: float64(raw.Ay) * as, Z: float64(raw.Az) * as}
	rate := r3.Vec{X: float64(raw.Gx) * gs, Y: float64(raw.Gy) * gs, Z: float64(raw.Gz) * gs}
	gravity, _ := s.gravity.Update(accel)

	sample := orientation.Sample{
		RotationRate: rate,
		Acceleration: accel,
		Gravity:      gravity,
		Elapsed:      elapsed,
	}

	var yaw float64
	if s.heading != nil {
		if th, mh, ok := s.heading(); ok {
			sample.HasHeading = true
			sample.TrueHeading, sample.MagneticHeading = th, mh
			yaw = th
		}
	}

	tilt := orientation.ComputePoseFromAccel(gravity.X, gravity.Y, gravity.Z)
	sample.Attitude = orientation.AttitudeFromTilt(tilt, yaw)
	return sample, nil
}
