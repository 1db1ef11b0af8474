// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/ar_navigator/internal/config"
	"github.com/relabs-tech/ar_navigator/internal/navigation"
)

// Display contents.
const (
	DisplayNavigation = "navigation"
	DisplayPose       = "pose"
	DisplayGPS        = "gps"
)

const (
	displayWidth  = 128
	displayHeight = 64
	lineHeight    = 13
)

// screen is the part of the OLED driver the display draws through.
type screen interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// DisplayData holds the latest navigation frame for the display.
type DisplayData struct {
	mu   sync.RWMutex
	snap navigation.Snapshot
	have bool
}

// Update stores a navigation frame received as JSON.
func (d *DisplayData) Update(payload []byte) error {
	var snap navigation.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return fmt.Errorf("display: navigation unmarshal: %w", err)
	}
	d.mu.Lock()
	d.snap = snap
	d.have = true
	d.mu.Unlock()
	return nil
}

func (d *DisplayData) latest() (navigation.Snapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap, d.have
}

// displayLines renders the chosen content as at most four text lines.
func displayLines(content string, snap navigation.Snapshot, have bool) ([]string, error) {
	title := map[string]string{
		DisplayNavigation: "Navigation",
		DisplayPose:       "Orientation",
		DisplayGPS:        "GPS Position",
	}[content]
	if title == "" {
		return nil, fmt.Errorf("unknown display content type: %s", content)
	}
	if !have || (content != DisplayPose && !snap.HasLocation) {
		return []string{"", title, "Waiting..."}, nil
	}

	switch content {
	case DisplayNavigation:
		lines := []string{
			fmt.Sprintf("HDG %5.1f", snap.Heading),
			fmt.Sprintf("TGT %.0fm %3.0f", snap.Route.Distance, snap.Route.Bearing),
		}
		if len(snap.Placements) > 0 {
			p := snap.Placements[0]
			lines = append(lines, truncate(p.Label, 18), fmt.Sprintf("    %s %3.0f", p.DistanceText(), p.Bearing))
		}
		return lines, nil

	case DisplayPose:
		return []string{
			fmt.Sprintf("R: %6.1f", snap.Pose.Roll),
			fmt.Sprintf("P: %6.1f", snap.Pose.Pitch),
			fmt.Sprintf("Y: %6.1f", snap.Pose.Yaw),
		}, nil

	default:
		latDir, lat := "N", snap.Location.Latitude
		if lat < 0 {
			latDir, lat = "S", -lat
		}
		lonDir, lon := "E", snap.Location.Longitude
		if lon < 0 {
			lonDir, lon = "W", -lon
		}
		return []string{
			fmt.Sprintf("%.4f%s", lat, latDir),
			fmt.Sprintf("%.4f%s", lon, lonDir),
			fmt.Sprintf("SOG %.1fkn", snap.Telemetry.Speed),
			fmt.Sprintf("COG %.0f/%.0f", snap.Telemetry.CurrentCourse, snap.Telemetry.AverageCourse),
		}, nil
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// renderLines draws lines top to bottom in the 7x13 font.
func renderLines(lines []string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(0, lineHeight*(i+1))
		drawer.DrawString(line)
	}
	return img
}

func updateDisplay(dev screen, content string, data *DisplayData) error {
	snap, have := data.latest()
	lines, err := displayLines(content, snap, have)
	if err != nil {
		return err
	}
	return dev.Draw(dev.Bounds(), renderLines(lines), image.Point{})
}

func showSplash(dev screen) error {
	return dev.Draw(dev.Bounds(), renderLines([]string{"", " AR Navigator", " Looking for", "    sats"}), image.Point{})
}

// RunDisplay shows the navigation frames from MQTT on an SSD1306 OLED until
// ctx is done.
func RunDisplay(ctx context.Context, cfg *config.Config) error {
	if _, err := displayLines(cfg.DisplayContent, navigation.Snapshot{}, false); err != nil {
		return err
	}

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	log.Info().Str("content", cfg.DisplayContent).Msg("display initialized")

	if err := showSplash(dev); err != nil {
		log.Warn().Err(err).Msg("display: error showing splash")
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	data := &DisplayData{}
	if err := subscribe(client, cfg.TopicNavigation, func(payload []byte) {
		if err := data.Update(payload); err != nil {
			log.Warn().Err(err).Msg("display: frame rejected")
		}
	}); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Info().Msg("display: starting update loop")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := updateDisplay(dev, cfg.DisplayContent, data); err != nil {
				log.Warn().Err(err).Msg("display: error updating")
			}
		}
	}
}
