// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// worldHeadingConfig smooths the world rotation and reports the mean of the
// heading history.
func worldHeadingConfig() Config {
	cfg := DefaultConfig()
	cfg.UseCameraRotation = false
	cfg.UseWorldAttitude = false
	return cfg
}

func TestConfigNormalize(t *testing.T) {
	got := Config{SmoothSpeed: 0.2, HeadCapacity: -4}.Normalize()
	assert.Equal(t, 1.0, got.SmoothSpeed)
	assert.Equal(t, 1, got.HeadCapacity)

	got = Config{SmoothSpeed: 5, HeadCapacity: 3}.Normalize()
	assert.Equal(t, 5.0, got.SmoothSpeed)
	assert.Equal(t, 3, got.HeadCapacity)
}

func TestFilterRotationRate(t *testing.T) {
	t.Run("drift survives at rest", func(t *testing.T) {
		got := FilterRotationRate(r3.Vec{}, 0.1)
		assertVec(t, r3.Vec{X: -0.02, Y: -0.02}, got, eps)
	})

	t.Run("scaled to nominal frame", func(t *testing.T) {
		got := FilterRotationRate(r3.Vec{X: 1, Z: 0.5}, 1.0/60)
		assertVec(t, r3.Vec{X: 0.98, Y: -0.02, Z: 0.5}, got, eps)
	})

	t.Run("zero elapsed", func(t *testing.T) {
		got := FilterRotationRate(r3.Vec{X: 100, Y: 100, Z: 100}, 0)
		assertVec(t, r3.Vec{X: -0.02, Y: -0.02}, got, eps)
	})
}

func TestDeadZoneBoundary(t *testing.T) {
	got := deadZone(r3.Vec{X: 0.01, Y: -0.01, Z: 0.0100001}, rotationNoise)
	assert.Equal(t, r3.Vec{Z: 0.0100001}, got)
}

func TestHeadingHistory(t *testing.T) {
	cfg := worldHeadingConfig()
	s := NewState(cfg)
	assert.True(t, math.IsNaN(s.Heading(cfg)), "no samples yet")

	for h := 10.0; h <= 110; h += 10 {
		s = s.Advance(Sample{TrueHeading: h, MagneticHeading: h - 3, Elapsed: 0.1}, cfg)
	}

	assert.Equal(t, []float64{20, 30, 40, 50, 60, 70, 80, 90, 100, 110}, s.Headings)
	assert.InDelta(t, 65, s.Heading(cfg), eps)
	assert.Equal(t, 110.0, s.LastHeading)
}

func TestHeadingHistoryShrinksWithCapacity(t *testing.T) {
	cfg := worldHeadingConfig()
	s := NewState(cfg)
	for i := 0; i < 10; i++ {
		s = s.Advance(Sample{TrueHeading: float64(i)}, cfg)
	}
	require.Len(t, s.Headings, 10)

	cfg.HeadCapacity = 3
	s = s.Advance(Sample{TrueHeading: 10}, cfg)
	assert.Equal(t, []float64{8, 9, 10}, s.Headings)
}

func TestMagneticHeading(t *testing.T) {
	cfg := worldHeadingConfig()
	cfg.UseTrueHeading = false
	s := NewState(cfg).Advance(Sample{TrueHeading: 100, MagneticHeading: 94}, cfg)
	assert.Equal(t, 94.0, s.LastHeading)
}

func TestWorldHeadingSmoothing(t *testing.T) {
	cfg := worldHeadingConfig()
	target := Euler(0, -90, 0)

	t.Run("partial step", func(t *testing.T) {
		s := NewState(cfg).Advance(Sample{TrueHeading: 90, Elapsed: 0.1}, cfg)
		assert.InDelta(t, 18, Angle(Identity, s.World), 1e-6)
		assert.InDelta(t, 72, Angle(s.World, target), 1e-6)
		assertSameRotation(t, Identity, s.Camera, eps)
	})

	t.Run("full step", func(t *testing.T) {
		s := NewState(cfg).Advance(Sample{TrueHeading: 90, Elapsed: 1}, cfg)
		assertSameRotation(t, target, s.World, 1e-6)
	})

	t.Run("converges", func(t *testing.T) {
		s := NewState(cfg)
		prev := Angle(s.World, target)
		for i := 0; i < 20; i++ {
			s = s.Advance(Sample{TrueHeading: 90, Elapsed: 0.05}, cfg)
			d := Angle(s.World, target)
			assert.Less(t, d, prev)
			prev = d
		}
	})
}

func TestFullAttitude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseCameraRotation = true
	cfg.UseWorldAttitude = true

	s := NewState(cfg)
	assertSameRotation(t, Euler(0, 180, 0), s.World, eps)

	s = s.Advance(Sample{Attitude: Identity, Elapsed: 1}, cfg)
	assertSameRotation(t, Euler(90, 0, 0), s.Camera, 1e-6)
	assertSameRotation(t, Euler(0, 180, 0), s.World, eps)

	t.Run("zero attitude reads as identity", func(t *testing.T) {
		z := NewState(cfg).Advance(Sample{Elapsed: 1}, cfg)
		assertSameRotation(t, s.Camera, z.Camera, 1e-6)
	})

	t.Run("heading follows camera yaw", func(t *testing.T) {
		h := NewState(cfg).Advance(Sample{Attitude: Euler(0, 0, 180), Elapsed: 1}, cfg)
		assert.InDelta(t, Yaw(h.Camera), h.Heading(cfg), eps)
	})
}

func TestHeadingFollowsWorldAttitudeFlag(t *testing.T) {
	cfg := DefaultConfig()
	require.False(t, cfg.UseCameraRotation)
	require.True(t, cfg.UseWorldAttitude)

	s := NewState(cfg)
	for i := 0; i < 10; i++ {
		s = s.Advance(Sample{TrueHeading: 90, MagneticHeading: 90, Elapsed: 0.1}, cfg)
	}

	// camera is untouched in world-heading mode, so its yaw is reported
	assertSameRotation(t, Identity, s.Camera, eps)
	assert.InDelta(t, 0, s.Heading(cfg), eps)
	assert.InDelta(t, 90, mean(s.Headings), eps)

	cfg.UseWorldAttitude = false
	assert.InDelta(t, 90, s.Heading(cfg), eps)
}

func TestCameraFromRotationRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseCameraRotation = true
	cfg.UseWorldAttitude = false

	s := NewState(cfg).Advance(Sample{Elapsed: 0.1}, cfg)
	assertSameRotation(t, Euler(0.02, 0.02, 0), s.Camera, 1e-6)

	// mean of history, not camera yaw, without world attitude
	s = s.Advance(Sample{TrueHeading: 40, Elapsed: 0.1}, cfg)
	assert.InDelta(t, 20, s.Heading(cfg), eps)
}

func TestAccelerationDrift(t *testing.T) {
	sample := Sample{
		Acceleration: r3.Vec{X: 0.5, Y: 0.3, Z: -0.2},
		Gravity:      r3.Vec{Y: 0.3},
		Elapsed:      0.1,
	}

	cfg := worldHeadingConfig()
	s := NewState(cfg).Advance(sample, cfg).Advance(sample, cfg)
	assertVec(t, r3.Vec{X: -1, Z: 0.4}, s.Position, eps)

	cfg.UseAcceleration = false
	s = NewState(cfg).Advance(sample, cfg)
	assert.Equal(t, r3.Vec{}, s.Position)
}

func TestAdvanceLeavesReceiverUntouched(t *testing.T) {
	cfg := worldHeadingConfig()
	s := NewState(cfg).Advance(Sample{TrueHeading: 5}, cfg)
	before := append([]float64(nil), s.Headings...)

	_ = s.Advance(Sample{TrueHeading: 50, Elapsed: 1}, cfg)

	assert.Equal(t, before, s.Headings)
	assertSameRotation(t, Identity, s.World, eps)
}
