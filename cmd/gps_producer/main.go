// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/ar_navigator/internal/app"
	"github.com/relabs-tech/ar_navigator/internal/config"
	"github.com/relabs-tech/ar_navigator/internal/logging"
	"github.com/relabs-tech/ar_navigator/internal/metrics"
)

func main() {
	configPath := flag.String("config", "./ar_config.txt", "path to configuration file")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg := config.Get()
	logging.Setup("gps-producer", cfg.LogLevel, os.Stderr)
	log.Info().Msg("starting GPS producer (NMEA → MQTT)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := metrics.NewCollector(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}
	app.ServeMetrics(ctx, cfg.GPSMetricsPort, m)

	if err := app.RunGPSProducer(ctx, cfg, m); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
