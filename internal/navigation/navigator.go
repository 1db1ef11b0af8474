// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package navigation ties the orientation fuser, the GPS tracker and the
// places around the device into one session.
package navigation

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/num/quat"

	"github.com/relabs-tech/ar_navigator/internal/geodesy"
	"github.com/relabs-tech/ar_navigator/internal/gps"
	"github.com/relabs-tech/ar_navigator/internal/orientation"
	"github.com/relabs-tech/ar_navigator/internal/places"
)

// ErrUnknownPlace is returned when a waypoint names a place that is not
// loaded.
var ErrUnknownPlace = errors.New("unknown place")

// minCourseSpeed is the speed in knots above which the course over ground
// stands in for a missing compass.
const minCourseSpeed = 0.5

// Config holds the navigation options.
type Config struct {
	Fuser             orientation.Config
	MinUpdateDistance float64 // metres
	MaxClosePlaces    int
	MaxRouteDisplay   float64 // metres
	RouteSegments     int
	Modes             []places.DisplayMode
}

// DefaultConfig returns the defaults of every option.
func DefaultConfig() Config {
	return Config{
		Fuser:             orientation.DefaultConfig(),
		MinUpdateDistance: 1,
		MaxClosePlaces:    5,
		MaxRouteDisplay:   places.DefaultMaxRouteDisplay,
		RouteSegments:     places.DefaultRouteSegments,
		Modes:             places.DefaultModes(),
	}
}

// Navigator is one navigation session. It is safe for concurrent use: GPS
// fixes and sensor ticks usually arrive on different goroutines.
type Navigator struct {
	mu      sync.Mutex
	id      string
	cfg     Config
	fuser   *orientation.Fuser
	tracker *gps.Tracker
	now     func() time.Time

	ticks      uint64
	fix        gps.Fix
	hasFix     bool
	places     []places.Place
	trip       places.Trip
	placements []places.Placement
	route      places.Route
	utm        geodesy.PlanarPoint
}

// New starts a session.
func New(cfg Config) *Navigator {
	modes := append([]places.DisplayMode(nil), cfg.Modes...)
	places.SortModes(modes)
	cfg.Modes = modes

	return &Navigator{
		id:      uuid.NewString(),
		cfg:     cfg,
		fuser:   orientation.NewFuser(cfg.Fuser),
		tracker: gps.NewTracker(cfg.MinUpdateDistance),
		now:     time.Now,
	}
}

// SessionID identifies the session in published snapshots.
func (n *Navigator) SessionID() string {
	return n.id
}

// OnLocation registers fn for accepted location changes.
func (n *Navigator) OnLocation(fn func(geodesy.GeographicPoint)) {
	n.tracker.AddListener(fn)
}

// SetPlaces replaces the known places.
func (n *Navigator) SetPlaces(ps []places.Place) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.places = append([]places.Place(nil), ps...)
	n.relocate()
}

// SetTrip replaces the trip.
func (n *Navigator) SetTrip(trip places.Trip) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.trip = trip
	n.relocate()
}

// ForceWaypointToPlace makes the named place the only waypoint.
func (n *Navigator) ForceWaypointToPlace(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, p := range n.places {
		if p.Name == name {
			n.trip = places.TripTo(p)
			n.relocate()
			return nil
		}
	}
	return fmt.Errorf("waypoint %q: %w", name, ErrUnknownPlace)
}

// SetFuserConfig changes how samples are fused from the next tick on.
func (n *Navigator) SetFuserConfig(cfg orientation.Config) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fuser.SetConfig(cfg)
	n.cfg.Fuser = n.fuser.Config()
}

// UpdateFix records a GPS fix. Valid fixes move the device; it reports
// whether the device location changed.
func (n *Navigator) UpdateFix(fix gps.Fix) (bool, error) {
	n.mu.Lock()
	n.fix = fix
	n.hasFix = true
	n.mu.Unlock()

	if !fix.Valid() {
		return false, nil
	}

	moved, err := n.tracker.Update(fix.Location())
	if err != nil {
		return false, fmt.Errorf("update fix: %w", err)
	}
	if moved {
		n.mu.Lock()
		n.relocate()
		n.mu.Unlock()
	}
	return moved, nil
}

// CompassHeading is the latest heading from the GPS: the compass sentences
// when present, otherwise the course over ground while moving.
func (n *Navigator) CompassHeading() (trueHeading, magneticHeading float64, ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.compassHeading()
}

func (n *Navigator) compassHeading() (float64, float64, bool) {
	switch {
	case !n.hasFix:
		return 0, 0, false
	case n.fix.HasHeading && n.fix.HasMagneticHeading:
		return n.fix.TrueHeading, n.fix.MagneticHeading, true
	case n.fix.HasHeading:
		// true heading only (HDT), stands in for magnetic as well
		return n.fix.TrueHeading, n.fix.TrueHeading, true
	case n.fix.Valid() && n.fix.SpeedKnots > minCourseSpeed:
		return n.fix.CourseDeg, n.fix.CourseDeg, true
	default:
		return 0, 0, false
	}
}

// Tick fuses one sensor sample and returns the frame.
func (n *Navigator) Tick(sample orientation.Sample) Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !sample.HasHeading {
		if t, m, ok := n.compassHeading(); ok {
			sample.TrueHeading, sample.MagneticHeading = t, m
			sample.HasHeading = true
		} else {
			// hold the previous heading rather than pulling towards north
			last := n.fuser.State().LastHeading
			sample.TrueHeading, sample.MagneticHeading = last, last
		}
	}

	n.fuser.Advance(sample)
	n.ticks++
	return n.snapshot()
}

// Snapshot returns the current frame without advancing.
func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshot()
}

func (n *Navigator) relocate() {
	if !n.tracker.Started() {
		return
	}
	device := n.tracker.Current()
	n.utm = geodesy.ReferenceUTM(device)
	n.placements = places.Arrange(device, n.places, n.cfg.Modes, n.cfg.MaxClosePlaces)
	n.route = places.PlanRoute(device, n.trip.Target(device), n.cfg.MaxRouteDisplay, n.cfg.RouteSegments)
}

func (n *Navigator) snapshot() Snapshot {
	cfg := n.fuser.Config()
	state := n.fuser.State()

	heading := state.Heading(cfg)
	if math.IsNaN(heading) {
		heading = 0
	}

	var pose orientation.Pose
	if cfg.UseCameraRotation {
		pose = orientation.PoseOf(state.Camera)
	} else {
		pose = orientation.PoseOf(quat.Conj(state.World))
	}

	s := Snapshot{
		SessionID:   n.id,
		Time:        n.now().UTC(),
		Ticks:       n.ticks,
		Heading:     heading,
		LastHeading: state.LastHeading,
		Pose:        pose,
		World:       state.World,
		Camera:      state.Camera,
		Position:    state.Position,
		Placements:  append([]places.Placement(nil), n.placements...),
		Route:       n.route,
	}

	if n.hasFix {
		s.Telemetry = Telemetry{
			Speed:         n.fix.SpeedKnots,
			WindDirection: n.fix.WindAngle,
			WindStrength:  n.fix.WindSpeed,
			CurrentCourse: n.fix.CourseDeg,
			AverageCourse: n.fix.AverageCourse,
		}
	}

	if n.tracker.Started() {
		device := n.tracker.Current()
		s.HasLocation = true
		s.Location = device
		s.Zone = geodesy.Zone(device.Longitude)
		s.Planar = geodesy.ProjectToPlane(device)
		s.UTM = n.utm
		s.Telemetry.Location = device
		if len(n.trip.Waypoints) > 0 {
			s.Telemetry.DesiredCourse = geodesy.BearingTo(device, n.trip.Target(device))
		}
	}
	return s
}
