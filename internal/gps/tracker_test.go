// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/ar_navigator/internal/geodesy"
)

func TestTrackerFirstLocation(t *testing.T) {
	tr := NewTracker(5)
	var got []geodesy.GeographicPoint
	tr.AddListener(func(p geodesy.GeographicPoint) { got = append(got, p) })

	assert.False(t, tr.Started())
	p := geodesy.Point(54.35, 18.65)
	ok, err := tr.Update(p)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, tr.Started())
	assert.Equal(t, p, tr.Start())
	assert.Equal(t, p, tr.Previous())
	assert.Equal(t, p, tr.Current())
	assert.Equal(t, []geodesy.GeographicPoint{p}, got)
}

func TestTrackerMinDistance(t *testing.T) {
	tr := NewTracker(5)
	calls := 0
	tr.AddListener(func(geodesy.GeographicPoint) { calls++ })

	start := geodesy.Point(54.35, 18.65)
	_, err := tr.Update(start)
	require.NoError(t, err)

	// ~1.1 m north
	ok, err := tr.Update(geodesy.Point(54.35001, 18.65))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, start, tr.Current())

	// same point again
	ok, err = tr.Update(start)
	require.NoError(t, err)
	assert.False(t, ok)

	// ~111 m north
	next := geodesy.Point(54.351, 18.65)
	ok, err = tr.Update(next)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, start, tr.Previous())
	assert.Equal(t, next, tr.Current())
	assert.Equal(t, start, tr.Start())
	assert.Equal(t, 2, calls)
}

func TestTrackerMinDistanceFloor(t *testing.T) {
	assert.Equal(t, MinUpdateDistance, NewTracker(0).MinDistance())
	assert.Equal(t, MinUpdateDistance, NewTracker(-3).MinDistance())
	assert.Equal(t, 2.5, NewTracker(2.5).MinDistance())
}

func TestTrackerRejectsInvalid(t *testing.T) {
	tr := NewTracker(1)
	ok, err := tr.Update(geodesy.Point(91, 0))
	require.Error(t, err)
	assert.False(t, ok)
	assert.False(t, tr.Started())
}
