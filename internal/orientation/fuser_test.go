// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuserSnapshotIsACopy(t *testing.T) {
	f := NewFuser(worldHeadingConfig())
	snap := f.Advance(Sample{TrueHeading: 30})
	snap.Headings[0] = 999

	assert.Equal(t, []float64{30}, f.State().Headings)
	assert.InDelta(t, 30, f.Heading(), eps)
}

func TestFuserSetConfig(t *testing.T) {
	f := NewFuser(worldHeadingConfig())
	f.Advance(Sample{TrueHeading: 90, Elapsed: 1})
	assertSameRotation(t, Euler(0, -90, 0), f.State().World, 1e-6)

	t.Run("same mode keeps world", func(t *testing.T) {
		cfg := f.Config()
		cfg.SmoothSpeed = 4
		f.SetConfig(cfg)
		assertSameRotation(t, Euler(0, -90, 0), f.State().World, 1e-6)
		assert.Equal(t, 4.0, f.Config().SmoothSpeed)
	})

	t.Run("camera mode resets world to north", func(t *testing.T) {
		cfg := f.Config()
		cfg.UseCameraRotation = true
		f.SetConfig(cfg)
		assertSameRotation(t, Euler(0, 180, 0), f.State().World, eps)
	})

	t.Run("normalised", func(t *testing.T) {
		f.SetConfig(Config{})
		assert.Equal(t, 1.0, f.Config().SmoothSpeed)
		assert.Equal(t, 1, f.Config().HeadCapacity)
	})
}

func TestFuserSetConfigResetsWorldOnlyOnCameraToggle(t *testing.T) {
	f := NewFuser(worldHeadingConfig())
	f.Advance(Sample{TrueHeading: 90, Elapsed: 1})
	turned := Euler(0, -90, 0)

	for _, change := range []func(*Config){
		func(c *Config) { c.UseWorldAttitude = true },
		func(c *Config) { c.UseAcceleration = false },
		func(c *Config) { c.UseTrueHeading = false },
		func(c *Config) { c.HeadCapacity = 3 },
	} {
		cfg := f.Config()
		change(&cfg)
		f.SetConfig(cfg)
		assertSameRotation(t, turned, f.State().World, 1e-6)
	}
	f.SetConfig(f.Config())
	assertSameRotation(t, turned, f.State().World, 1e-6)

	cfg := f.Config()
	cfg.UseCameraRotation = true
	f.SetConfig(cfg)
	assertSameRotation(t, Euler(0, 180, 0), f.State().World, eps)

	cfg.UseCameraRotation = false
	f.SetConfig(cfg)
	assertSameRotation(t, Identity, f.State().World, eps)
	assert.Equal(t, []float64{90}, f.State().Headings, "history survives a mode switch")
}

func TestFuserReset(t *testing.T) {
	f := NewFuser(worldHeadingConfig())
	f.Advance(Sample{TrueHeading: 90, Elapsed: 1})
	f.Reset()

	assert.Empty(t, f.State().Headings)
	assert.True(t, math.IsNaN(f.Heading()))
	assertSameRotation(t, Identity, f.State().World, eps)
}

func TestComputePoseFromAccel(t *testing.T) {
	p := ComputePoseFromAccel(0, 0, 1)
	assert.InDelta(t, 0, p.Roll, eps)
	assert.InDelta(t, 0, p.Pitch, eps)

	p = ComputePoseFromAccel(0, 1, 0)
	assert.InDelta(t, 90, p.Roll, eps)

	p = ComputePoseFromAccel(-1, 0, 0)
	assert.InDelta(t, 90, p.Pitch, eps)
}

func TestPoseOf(t *testing.T) {
	p := PoseOf(Euler(10, 20, 30))
	assert.InDelta(t, 30, p.Roll, 1e-6)
	assert.InDelta(t, 10, p.Pitch, 1e-6)
	assert.InDelta(t, 20, p.Yaw, 1e-6)

	p = PoseOf(AttitudeFromTilt(Pose{Roll: -30, Pitch: -10}, 250))
	assert.InDelta(t, -30, p.Roll, 1e-6)
	assert.InDelta(t, -10, p.Pitch, 1e-6)
	assert.InDelta(t, 250, p.Yaw, 1e-6)
}

func TestMockSource(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	src := newMockSource(clock)

	now = now.Add(2 * time.Second)
	s, err := src.Next()
	require.NoError(t, err)
	assert.InDelta(t, 2, s.Elapsed, eps)
	assert.InDelta(t, 60, s.TrueHeading, eps)
	assert.InDelta(t, 55, s.MagneticHeading, eps)
	assert.Equal(t, s.Gravity, s.Acceleration)

	now = now.Add(500 * time.Millisecond)
	s, err = src.Next()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.Elapsed, eps)
	assert.InDelta(t, 75, s.TrueHeading, eps)
}
