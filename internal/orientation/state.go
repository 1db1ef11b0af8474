// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// desiredFramesRatio scales the per-second rotation rate to the nominal
	// 60 Hz frame the drift offset is expressed in.
	desiredFramesRatio = 60

	// rotationNoise is the dead zone on each rotation-rate axis.
	rotationNoise = 0.01
)

var (
	// driftOffset is the gyroscope bias correction per nominal frame.
	driftOffset = r3.Vec{X: -0.02, Y: -0.02, Z: 0}

	// Corrections that turn the device-to-world attitude into the camera
	// rotation: a roll about the camera's own forward axis, then a rotation
	// in world space.
	attitudeSelfCorrection  = Euler(0, 0, 180)
	attitudeWorldCorrection = Euler(90, 180, 0)

	basicRotation = Identity
	northRotation = Euler(0, 180, 0)
)

// State is everything the fuser carries between ticks. Advance never
// mutates its receiver, so a State can be copied and kept as a snapshot.
type State struct {
	Headings    []float64 `json:"headings"`     // oldest first
	LastHeading float64   `json:"last_heading"` // latest raw reading

	// World is the rotation of the world root. In world-heading mode it
	// follows the compass; in full-attitude mode it stays at north.
	World quat.Number `json:"world"`
	// Camera is the full-attitude rotation; identity in world-heading mode.
	Camera quat.Number `json:"camera"`

	RotationRate r3.Vec `json:"rotation_rate"` // last filtered rate
	DriftOffset  r3.Vec `json:"drift_offset"`
	Position     r3.Vec `json:"position"`
}

// NewState returns the state at session start.
func NewState(cfg Config) State {
	return State{
		World:       initialWorldRotation(cfg),
		Camera:      Identity,
		DriftOffset: driftOffset,
	}
}

func initialWorldRotation(cfg Config) quat.Number {
	if cfg.UseCameraRotation {
		return northRotation
	}
	return basicRotation
}

// Advance fuses one sample and returns the next state.
func (s State) Advance(sample Sample, cfg Config) State {
	cfg = cfg.Normalize()
	next := s
	next.Headings = append([]float64(nil), s.Headings...)

	// compass
	heading := sample.Heading(cfg)
	next.Headings = pushHeading(next.Headings, heading, cfg.HeadCapacity)
	next.LastHeading = heading

	// gyroscope
	next.RotationRate = FilterRotationRate(sample.RotationRate, sample.Elapsed)
	t := clamp01(sample.Elapsed * cfg.SmoothSpeed)

	switch {
	case cfg.UseCameraRotation && cfg.UseWorldAttitude:
		target := quat.Mul(attitudeWorldCorrection, quat.Mul(sample.attitude(), attitudeSelfCorrection))
		next.Camera = Slerp(s.Camera, target, t)
	case cfg.UseCameraRotation:
		e := EulerAngles(s.Camera)
		next.Camera = Euler(e.X-next.RotationRate.X, e.Y-next.RotationRate.Y, e.Z)
	default:
		next.World = Slerp(s.World, Euler(0, -heading, 0), t)
	}

	// accelerometer
	if cfg.UseAcceleration {
		a := r3.Sub(sample.Acceleration, sample.Gravity)
		next.Position = r3.Sub(s.Position, r3.Vec{X: a.X, Y: 0, Z: a.Z})
	}

	return next
}

// Heading is the reported heading: the yaw of the camera whenever world
// attitude is on, otherwise the mean of the heading history. The camera
// stays at identity while camera rotation is off, so that case reads 0.
// The mean is NaN before the first sample.
func (s State) Heading(cfg Config) float64 {
	if cfg.UseWorldAttitude {
		return Yaw(s.Camera)
	}
	return mean(s.Headings)
}

// Smoothed returns the rotation the active mode is smoothing.
func (s State) Smoothed(cfg Config) quat.Number {
	if cfg.UseCameraRotation {
		return s.Camera
	}
	return s.World
}

// FilterRotationRate scales an unbiased rotation rate to the nominal frame,
// adds the drift offset and zeroes each axis inside the dead zone.
func FilterRotationRate(rate r3.Vec, elapsed float64) r3.Vec {
	scaled := r3.Add(r3.Scale(desiredFramesRatio*elapsed, rate), driftOffset)
	return deadZone(scaled, rotationNoise)
}

func deadZone(v r3.Vec, threshold float64) r3.Vec {
	return r3.Vec{
		X: deadZoneAxis(v.X, threshold),
		Y: deadZoneAxis(v.Y, threshold),
		Z: deadZoneAxis(v.Z, threshold),
	}
}

func deadZoneAxis(v, threshold float64) float64 {
	if math.Abs(v) > threshold {
		return v
	}
	return 0
}

// pushHeading appends h and evicts from the front past capacity.
func pushHeading(headings []float64, h float64, capacity int) []float64 {
	headings = append(headings, h)
	if over := len(headings) - capacity; over > 0 {
		headings = headings[over:]
	}
	return headings
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
