// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"
	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/ar_navigator/internal/config"
	"github.com/relabs-tech/ar_navigator/internal/gps"
	"github.com/relabs-tech/ar_navigator/internal/metrics"
)

// RunGPSProducer opens the GPS serial port, parses NMEA sentences, and
// publishes the running fix as JSON on every RMC sentence.
func RunGPSProducer(ctx context.Context, cfg *config.Config, m *metrics.Collector) error {
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDGPS)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("open %s: %w", serialOpts.PortName, err)
	}
	defer port.Close()
	log.Info().Str("port", serialOpts.PortName).Uint("baud", serialOpts.BaudRate).Msg("GPS serial port opened")

	// unblock the read loop on shutdown
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	err = StreamFixes(ctx, port, gps.NewDecoder(gps.DefaultCourseCapacity), &mqttPublisher{client: client, metrics: m}, cfg.TopicGPS, m)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// StreamFixes reads NMEA lines from r until EOF or cancellation and
// publishes every completed fix on topic.
func StreamFixes(ctx context.Context, r io.Reader, dec *gps.Decoder, pub Publisher, topic string, m *metrics.Collector) error {
	dec.OnSentence = m.ObserveSentence
	reader := bufio.NewReader(r)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("GPS read: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fix, complete, ferr := dec.Feed(line)
		switch {
		case errors.Is(ferr, gps.ErrNoSentence):
			continue
		case ferr != nil:
			// noisy GPS or partial sentences
			m.ObserveSentenceError()
			log.Debug().Err(ferr).Msg("NMEA parse error")
			continue
		case !complete:
			continue
		}

		if perr := publishJSON(pub, topic, fix); perr != nil {
			log.Warn().Err(perr).Msg("GPS publish error")
			continue
		}
		log.Debug().
			Float64("lat", fix.Latitude).
			Float64("lon", fix.Longitude).
			Str("validity", fix.Validity).
			Msg("published GPS fix")
	}
}
