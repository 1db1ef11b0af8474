// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import "gonum.org/v1/gonum/spatial/r3"

// DefaultGravityAlpha keeps most of the previous gravity estimate each
// sample.
const DefaultGravityAlpha = 0.8

// GravityFilter splits measured acceleration into gravity and the rest with
// a first order low-pass.
type GravityFilter struct {
	Alpha   float64
	gravity r3.Vec
	primed  bool
}

// NewGravityFilter returns a filter with the given smoothing factor in
// [0,1); anything else falls back to DefaultGravityAlpha.
func NewGravityFilter(alpha float64) *GravityFilter {
	if alpha < 0 || alpha >= 1 {
		alpha = DefaultGravityAlpha
	}
	return &GravityFilter{Alpha: alpha}
}

// Update feeds one measurement. The first one is taken as pure gravity.
func (f *GravityFilter) Update(accel r3.Vec) (gravity, linear r3.Vec) {
	if !f.primed {
		f.gravity = accel
		f.primed = true
	} else {
		f.gravity = r3.Add(r3.Scale(f.Alpha, f.gravity), r3.Scale(1-f.Alpha, accel))
	}
	return f.gravity, r3.Sub(accel, f.gravity)
}

// Gravity is the current estimate.
func (f *GravityFilter) Gravity() r3.Vec {
	return f.gravity
}
