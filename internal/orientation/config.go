// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import "math"

// Config selects how samples are fused.
type Config struct {
	// UseCameraRotation switches from world-heading mode (yaw only, from the
	// compass) to full-attitude mode (3 axes, from the gyroscope).
	UseCameraRotation bool `json:"use_camera_rotation"`
	// UseWorldAttitude takes the device-to-world attitude in full-attitude
	// mode instead of integrating the rotation rate.
	UseWorldAttitude bool `json:"use_world_attitude"`
	// UseAcceleration drifts the world position from the linear acceleration.
	UseAcceleration bool `json:"use_acceleration"`
	// UseTrueHeading reads true north instead of magnetic north.
	UseTrueHeading bool `json:"use_true_heading"`

	SmoothSpeed  float64 `json:"smooth_speed"`  // floor 1
	HeadCapacity int     `json:"head_capacity"` // floor 1
}

const (
	defaultSmoothSpeed  = 2.0
	defaultHeadCapacity = 10
)

// DefaultConfig returns world-heading mode with attitude, acceleration and
// true heading enabled.
func DefaultConfig() Config {
	return Config{
		UseCameraRotation: false,
		UseWorldAttitude:  true,
		UseAcceleration:   true,
		UseTrueHeading:    true,
		SmoothSpeed:       defaultSmoothSpeed,
		HeadCapacity:      defaultHeadCapacity,
	}
}

// Normalize applies the floors on SmoothSpeed and HeadCapacity.
func (c Config) Normalize() Config {
	c.SmoothSpeed = math.Max(1.0, c.SmoothSpeed)
	if c.HeadCapacity < 1 {
		c.HeadCapacity = 1
	}
	return c
}
