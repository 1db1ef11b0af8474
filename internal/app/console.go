// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/ar_navigator/internal/config"
	"github.com/relabs-tech/ar_navigator/internal/geodesy"
	"github.com/relabs-tech/ar_navigator/internal/gps"
	"github.com/relabs-tech/ar_navigator/internal/navigation"
	"github.com/relabs-tech/ar_navigator/internal/orientation"
	"github.com/relabs-tech/ar_navigator/internal/places"
)

// trackReplay hands out one completed fix per call from an NMEA log.
type trackReplay struct {
	scanner *bufio.Scanner
	dec     *gps.Decoder
}

func (r *trackReplay) next() (gps.Fix, bool, error) {
	for r.scanner.Scan() {
		fix, complete, err := r.dec.Feed(r.scanner.Text())
		if err == nil && complete {
			return fix, true, nil
		}
	}
	return gps.Fix{}, false, r.scanner.Err()
}

// RunMockConsole runs the navigator offline on the mock source and prints
// every frame. With a track, each tick replays the next fix of the NMEA log
// and the console stops at its end. ticks bounds the run when positive.
func RunMockConsole(ctx context.Context, cfg *config.Config, track io.Reader, out io.Writer, ticks int) error {
	nav := navigation.New(NavigationConfig(cfg))

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

	var replay *trackReplay
	if track != nil {
		replay = &trackReplay{scanner: bufio.NewScanner(track), dec: gps.NewDecoder(gps.DefaultCourseCapacity)}
	}

	src := orientation.NewMockSource()
	ticker := time.NewTicker(time.Duration(cfg.TickInterval) * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ticks <= 0 || i < ticks; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if replay != nil {
			fix, ok, err := replay.next()
			if err != nil {
				return fmt.Errorf("track: %w", err)
			}
			if !ok {
				return nil
			}
			if _, err := nav.UpdateFix(fix); err != nil {
				return err
			}
		}

		sample, err := src.Next()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, formatSnapshot(nav.Tick(sample)))
	}
	return nil
}
