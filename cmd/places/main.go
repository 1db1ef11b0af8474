// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// ./cmd/places/main.go
//
// Manages the places database read by the navigator.
//
// Run:
//
//	go run ./cmd/places seed places.json
//	go run ./cmd/places list
//	go run ./cmd/places nearby -lat 54.35 -lon 18.65 -radius 2000 [-geojson]
//	go run ./cmd/places delete <id>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/ar_navigator/internal/config"
	"github.com/relabs-tech/ar_navigator/internal/geodesy"
	"github.com/relabs-tech/ar_navigator/internal/logging"
	"github.com/relabs-tech/ar_navigator/internal/places"
)

func main() {
	configPath := flag.String("config", "./ar_config.txt", "path to configuration file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] seed|list|nearby|delete [args]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg := config.Get()
	logging.Setup("places", cfg.LogLevel, os.Stderr)

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	store, err := places.OpenStore(cfg.PlacesDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open places database")
	}
	defer store.Close()

	ctx := context.Background()
	args := flag.Args()[1:]
	switch flag.Arg(0) {
	case "seed":
		err = seed(ctx, store, args)
	case "list":
		err = list(ctx, store, os.Stdout)
	case "nearby":
		err = nearby(ctx, store, args, cfg.MaxClosePlaces, os.Stdout)
	case "delete":
		if len(args) != 1 {
			err = fmt.Errorf("delete needs one id")
			break
		}
		err = store.Delete(ctx, args[0])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg(flag.Arg(0) + " failed")
	}
}

func seed(ctx context.Context, store *places.Store, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("seed needs at least one JSON file")
	}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		ps, err := places.DecodePlaces(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		for _, p := range ps {
			if _, err := store.Add(ctx, p); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		log.Info().Str("file", name).Int("places", len(ps)).Msg("seeded")
	}
	return nil
}

func list(ctx context.Context, store *places.Store, out io.Writer) error {
	ps, err := store.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tLAT\tLON")
	for _, p := range ps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.6f\t%.6f\n", p.ID, p.Name, p.Type, p.Location.Latitude, p.Location.Longitude)
	}
	return w.Flush()
}

func nearby(ctx context.Context, store *places.Store, args []string, maxClose int, out io.Writer) error {
	fs := flag.NewFlagSet("nearby", flag.ContinueOnError)
	lat := fs.Float64("lat", 0, "device latitude")
	lon := fs.Float64("lon", 0, "device longitude")
	radius := fs.Float64("radius", 1000, "search radius in metres")
	asGeoJSON := fs.Bool("geojson", false, "print a GeoJSON feature collection")
	if err := fs.Parse(args); err != nil {
		return err
	}

	device := geodesy.Point(*lat, *lon)
	ps, err := store.Nearby(ctx, device, *radius)
	if err != nil {
		return err
	}

	modes := places.DefaultModes()
	placements := places.Arrange(device, ps, modes, maxClose)

	if *asGeoJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(places.FeatureCollection(device, placements, nil))
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tDISTANCE\tBEARING\tMODE")
	for _, p := range placements {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%s\n", p.Rank, p.Label, p.DistanceText(), p.Bearing, p.Mode.Name)
	}
	return w.Flush()
}
