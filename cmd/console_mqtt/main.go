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
)

func main() {
	configPath := flag.String("config", "./ar_config.txt", "path to configuration file")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg := config.Get()
	logging.Setup("console", cfg.LogLevel, os.Stderr)
	log.Info().Msg("starting console (MQTT subscriber)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunConsoleMQTT(ctx, cfg, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
