// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"math"
	"sync"

	"github.com/relabs-tech/ar_navigator/internal/geodesy"
)

// MinUpdateDistance is the smallest movement in metres a Tracker accepts.
const MinUpdateDistance = 0.1

// Tracker keeps the start, previous and current device location and tells
// listeners when the device has moved far enough.
type Tracker struct {
	mu          sync.RWMutex
	minDistance float64
	started     bool
	start       geodesy.GeographicPoint
	previous    geodesy.GeographicPoint
	current     geodesy.GeographicPoint
	listeners   []func(geodesy.GeographicPoint)
}

// NewTracker creates a tracker ignoring moves shorter than minDistance
// metres (at least MinUpdateDistance).
func NewTracker(minDistance float64) *Tracker {
	return &Tracker{minDistance: math.Max(minDistance, MinUpdateDistance)}
}

// AddListener registers fn for location changes. Listeners run on the
// goroutine calling Update.
func (t *Tracker) AddListener(fn func(geodesy.GeographicPoint)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Update offers a new location. It reports whether the location was
// accepted; the first valid location always is.
func (t *Tracker) Update(p geodesy.GeographicPoint) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, fmt.Errorf("tracker update: %w", err)
	}

	t.mu.Lock()
	if !t.started {
		t.started = true
		t.start, t.previous, t.current = p, p, p
	} else {
		// NaN from nearly identical points counts as no movement
		d := geodesy.Distance(t.current, p, geodesy.Meters)
		if !(d >= t.minDistance) {
			t.mu.Unlock()
			return false, nil
		}
		t.previous, t.current = t.current, p
	}
	listeners := append(([]func(geodesy.GeographicPoint))(nil), t.listeners...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
	return true, nil
}

// Started reports whether any location was accepted yet.
func (t *Tracker) Started() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.started
}

func (t *Tracker) Start() geodesy.GeographicPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.start
}

func (t *Tracker) Previous() geodesy.GeographicPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.previous
}

func (t *Tracker) Current() geodesy.GeographicPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// MinDistance returns the effective update distance in metres.
func (t *Tracker) MinDistance() float64 {
	return t.minDistance
}
