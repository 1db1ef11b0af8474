// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/ar_navigator/internal/config"
	"github.com/relabs-tech/ar_navigator/internal/gps"
	"github.com/relabs-tech/ar_navigator/internal/navigation"
	"github.com/relabs-tech/ar_navigator/internal/orientation"
)

func formatPose(p orientation.Pose) string {
	return fmt.Sprintf("[POSE] ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f", p.Roll, p.Pitch, p.Yaw)
}

func formatFix(f gps.Fix) string {
	line := fmt.Sprintf(
		"[GPS ] time=%s date=%s lat=%.6f lon=%.6f speed=%.1fkn course=%.1f° avg=%.1f° validity=%s",
		f.Time, f.Date, f.Latitude, f.Longitude, f.SpeedKnots, f.CourseDeg, f.AverageCourse, f.Validity,
	)
	if f.HasHeading {
		line += fmt.Sprintf(" heading=%.1f°T", f.TrueHeading)
	}
	if f.HasMagneticHeading {
		line += fmt.Sprintf("/%.1f°M", f.MagneticHeading)
	}
	return line
}

func formatSnapshot(s navigation.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[NAV ] tick=%d heading=%6.2f", s.Ticks, s.Heading)
	if !s.HasLocation {
		b.WriteString(" location=none")
		return b.String()
	}
	fmt.Fprintf(&b, " lat=%.6f lon=%.6f zone=%d", s.Location.Latitude, s.Location.Longitude, s.Zone)
	fmt.Fprintf(&b, " target=%.0fm@%.1f°", s.Route.Distance, s.Route.Bearing)
	for _, p := range s.Placements {
		fmt.Fprintf(&b, "\n       %-12s %-30s %8s %6.1f°", p.Mode.Name, p.Label, p.DistanceText(), p.Bearing)
	}
	return b.String()
}

// consolePrinter decodes payloads and prints one formatted block each.
type consolePrinter struct {
	mu  sync.Mutex
	out io.Writer
}

func (c *consolePrinter) print(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

func printJSON[T any](c *consolePrinter, topic string, format func(T) string) func([]byte) {
	return func(payload []byte) {
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("console: unmarshal error")
			return
		}
		c.print(format(v))
	}
}

// RunConsoleMQTT prints the navigation, pose and GPS topics until ctx is
// done.
func RunConsoleMQTT(ctx context.Context, cfg *config.Config, out io.Writer) error {
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	printer := &consolePrinter{out: out}
	if err := subscribe(client, cfg.TopicPose, printJSON(printer, cfg.TopicPose, formatPose)); err != nil {
		return err
	}
	if err := subscribe(client, cfg.TopicGPS, printJSON(printer, cfg.TopicGPS, formatFix)); err != nil {
		return err
	}
	if err := subscribe(client, cfg.TopicNavigation, printJSON(printer, cfg.TopicNavigation, formatSnapshot)); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info().Msg("console: shutting down")
	return nil
}
