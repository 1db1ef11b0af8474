// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/ar_navigator/internal/config"
	"github.com/relabs-tech/ar_navigator/internal/geodesy"
	"github.com/relabs-tech/ar_navigator/internal/gps"
	"github.com/relabs-tech/ar_navigator/internal/logging"
	"github.com/relabs-tech/ar_navigator/internal/metrics"
	"github.com/relabs-tech/ar_navigator/internal/navigation"
	"github.com/relabs-tech/ar_navigator/internal/orientation"
	"github.com/relabs-tech/ar_navigator/internal/places"
	"github.com/relabs-tech/ar_navigator/internal/sensors"
)

// ErrUnknownAction is returned for commands the navigator does not handle.
var ErrUnknownAction = errors.New("unknown command action")

// Command actions.
const (
	ActionWaypoint  = "waypoint"   // route to the place named Place
	ActionClearTrip = "clear_trip" // drop every waypoint
	ActionFuser     = "fuser"      // replace the fuser config
)

// Command is a request sent to the navigator on the command topic.
type Command struct {
	Action string              `json:"action"`
	Place  string              `json:"place,omitempty"`
	Fuser  *orientation.Config `json:"fuser,omitempty"`
}

// NavigatorService drives a navigator from a sensor source and publishes
// every frame.
type NavigatorService struct {
	nav     *navigation.Navigator
	source  orientation.Source
	pub     Publisher
	metrics *metrics.Collector
	tickLog zerolog.Logger

	topicNavigation string
	topicPose       string
}

// NewNavigatorService wires nav to its source and publisher.
func NewNavigatorService(nav *navigation.Navigator, source orientation.Source, pub Publisher, topicNavigation, topicPose string, m *metrics.Collector) *NavigatorService {
	return &NavigatorService{
		nav:             nav,
		source:          source,
		pub:             pub,
		metrics:         m,
		tickLog:         logging.Sampled(log.Logger),
		topicNavigation: topicNavigation,
		topicPose:       topicPose,
	}
}

// HandleFix applies one GPS fix received as JSON.
func (s *NavigatorService) HandleFix(payload []byte) error {
	var fix gps.Fix
	if err := json.Unmarshal(payload, &fix); err != nil {
		s.metrics.ObserveLocation(metrics.LocationInvalid)
		return fmt.Errorf("gps unmarshal: %w", err)
	}

	moved, err := s.nav.UpdateFix(fix)
	switch {
	case err != nil:
		s.metrics.ObserveLocation(metrics.LocationInvalid)
		return err
	case !fix.Valid():
		s.metrics.ObserveLocation(metrics.LocationInvalid)
	case moved:
		s.metrics.ObserveLocation(metrics.LocationAccepted)
	default:
		s.metrics.ObserveLocation(metrics.LocationIgnored)
	}
	return nil
}

// HandleCommand applies one command received as JSON.
func (s *NavigatorService) HandleCommand(payload []byte) error {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("command unmarshal: %w", err)
	}

	switch cmd.Action {
	case ActionWaypoint:
		if err := s.nav.ForceWaypointToPlace(cmd.Place); err != nil {
			return err
		}
		log.Info().Str("place", cmd.Place).Msg("waypoint set")
	case ActionClearTrip:
		s.nav.SetTrip(places.Trip{})
		log.Info().Msg("trip cleared")
	case ActionFuser:
		if cmd.Fuser == nil {
			return fmt.Errorf("%s command without config", ActionFuser)
		}
		s.nav.SetFuserConfig(*cmd.Fuser)
		log.Info().Interface("fuser", cmd.Fuser).Msg("fuser config changed")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	return nil
}

// Step reads one sample, fuses it and publishes the frame and the pose.
func (s *NavigatorService) Step() (navigation.Snapshot, error) {
	start := time.Now()

	sample, err := s.source.Next()
	if err != nil {
		return navigation.Snapshot{}, err
	}
	snap := s.nav.Tick(sample)
	s.metrics.ObserveTick(time.Since(start), snap.Heading, len(snap.Placements))

	if err := publishJSON(s.pub, s.topicNavigation, snap); err != nil {
		log.Warn().Err(err).Msg("navigation publish error")
	}
	if err := publishJSON(s.pub, s.topicPose, snap.Pose); err != nil {
		log.Warn().Err(err).Msg("pose publish error")
	}

	s.tickLog.Debug().
		Uint64("tick", snap.Ticks).
		Float64("heading", snap.Heading).
		Float64("roll", snap.Pose.Roll).
		Float64("pitch", snap.Pose.Pitch).
		Float64("yaw", snap.Pose.Yaw).
		Msg("tick")
	return snap, nil
}

// Run steps on every interval until ctx is done. Sensor errors are logged
// and the tick skipped.
func (s *NavigatorService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Step(); err != nil {
				log.Warn().Err(err).Msg("sensor read error")
			}
		}
	}
}

// NavigationConfig maps the file configuration onto the navigator options.
func NavigationConfig(cfg *config.Config) navigation.Config {
	nc := navigation.DefaultConfig()
	nc.Fuser = FuserConfig(cfg)
	nc.MinUpdateDistance = cfg.GPSMinUpdateDistance
	nc.MaxClosePlaces = cfg.MaxClosePlaces
	nc.MaxRouteDisplay = cfg.MaxRouteDisplayDistance
	return nc
}

// FuserConfig maps the file configuration onto the fuser options.
func FuserConfig(cfg *config.Config) orientation.Config {
	return orientation.Config{
		UseCameraRotation: cfg.UseCameraRotation,
		UseWorldAttitude:  cfg.UseWorldAttitude,
		UseAcceleration:   cfg.UseAcceleration,
		UseTrueHeading:    cfg.UseTrueHeading,
		SmoothSpeed:       cfg.SmoothSpeed,
		HeadCapacity:      cfg.HeadCapacity,
	}
}

// newSource builds the configured sensor source. The MPU9250 has no usable
// compass and takes its heading from the GPS.
func newSource(cfg *config.Config, nav *navigation.Navigator) (orientation.Source, error) {
	switch cfg.SensorSource {
	case config.SensorMPU9250:
		reader, err := sensors.NewMPU9250Reader(sensors.MPU9250Options{
			Name:       "main",
			SPIDevice:  cfg.IMUSPIDevice,
			CSPin:      cfg.IMUCSPin,
			AccelRange: cfg.IMUAccelRange,
			GyroRange:  cfg.IMUGyroRange,
		})
		if err != nil {
			return nil, err
		}
		return sensors.NewIMUSource(reader, cfg.IMUAccelRange, cfg.IMUGyroRange, nav.CompassHeading)
	default:
		log.Info().Msg("using mock orientation source")
		return orientation.NewMockSource(), nil
	}
}

// loadPlaces reads every stored place into nav.
func loadPlaces(ctx context.Context, store *places.Store, nav *navigation.Navigator) error {
	ps, err := store.List(ctx)
	if err != nil {
		return err
	}
	nav.SetPlaces(ps)
	log.Info().Int("places", len(ps)).Msg("places loaded")
	return nil
}

// RunNavigator fuses the sensor source with the GPS fixes from MQTT and
// publishes navigation frames until ctx is done.
func RunNavigator(ctx context.Context, cfg *config.Config, m *metrics.Collector) error {
	nav := navigation.New(NavigationConfig(cfg))
	log.Info().Str("session", nav.SessionID()).Msg("starting navigator")

	store, err := places.OpenStore(cfg.PlacesDB)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := loadPlaces(ctx, store, nav); err != nil {
		return err
	}

	if cfg.HasTarget {
		target := geodesy.GeographicPoint{Latitude: cfg.TargetLat, Longitude: cfg.TargetLon}
		nav.SetTrip(places.Trip{Waypoints: []places.Waypoint{{Title: "target", Location: target}}})
	}

	nav.OnLocation(func(p geodesy.GeographicPoint) {
		log.Info().Float64("lat", p.Latitude).Float64("lon", p.Longitude).Msg("location changed")
	})

	source, err := newSource(cfg, nav)
	if err != nil {
		return err
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDNavigator)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	svc := NewNavigatorService(nav, source, &mqttPublisher{client: client, metrics: m}, cfg.TopicNavigation, cfg.TopicPose, m)

	if err := subscribe(client, cfg.TopicGPS, func(payload []byte) {
		if err := svc.HandleFix(payload); err != nil {
			log.Warn().Err(err).Msg("GPS fix rejected")
		}
	}); err != nil {
		return err
	}
	if err := subscribe(client, cfg.TopicCommand, func(payload []byte) {
		if err := svc.HandleCommand(payload); err != nil {
			log.Warn().Err(err).Msg("command rejected")
		}
	}); err != nil {
		return err
	}

	interval := time.Duration(cfg.TickInterval) * time.Millisecond
	log.Info().Dur("interval", interval).Msg("starting publish loop")
	return svc.Run(ctx, interval)
}
