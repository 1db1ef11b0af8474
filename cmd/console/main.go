// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// ./cmd/console/main.go
//
// Runs the navigator offline on the mock sensor source and prints every
// frame. No broker is needed.
//
// Run:
//
//	go run ./cmd/console
//	go run ./cmd/console -track recorded.nmea
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/ar_navigator/internal/app"
	"github.com/relabs-tech/ar_navigator/internal/config"
	"github.com/relabs-tech/ar_navigator/internal/logging"
)

func main() {
	configPath := flag.String("config", "./ar_config.txt", "path to configuration file")
	trackPath := flag.String("track", "", "NMEA log to replay, one fix per tick")
	ticks := flag.Int("ticks", 0, "stop after this many frames, 0 runs until interrupted")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg := config.Get()
	logging.Setup("console", cfg.LogLevel, os.Stderr)
	log.Info().Msg("starting AR navigator (mock console)")

	var track io.Reader
	if *trackPath != "" {
		f, err := os.Open(*trackPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open track")
		}
		defer f.Close()
		track = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunMockConsole(ctx, cfg, track, os.Stdout, *ticks); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
