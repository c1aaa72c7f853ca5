// Command render draws the ring spiral for a GISTEMP-style source file at a
// given reveal progress and writes it as PNG or SVG.
//
// Usage:
//
//	go run ./cmd/render \
//	  -source data/globalMeans.csv \
//	  -out spiral.png \
//	  -progress 600
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/climate-spiral/internal/adapter/chart"
	"github.com/couchcryptid/climate-spiral/internal/adapter/source"
	"github.com/couchcryptid/climate-spiral/internal/config"
	"github.com/couchcryptid/climate-spiral/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	sourcePath := flag.String("source", "", "source file path or http(s) URL")
	out := flag.String("out", "", "output image path")
	progress := flag.Int("progress", -1, "observations to reveal (-1 for all)")
	format := flag.String("format", "png", "output format: png or svg")
	skipRows := flag.Int("skip-rows", 1, "leading rows to drop before the header")
	size := flag.Int("size", 1200, "canvas width and height in pixels")
	zero := flag.Float64("zero-radius", 225, "ring radius of a zero anomaly")
	layoutFile := flag.String("layout-file", "", "optional YAML layout presets")
	flag.Parse()

	if *sourcePath == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -source, -out")
	}

	f, err := chart.ParseFormat(*format)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		CanvasSize: *size,
		Ring: domain.RingLayout{
			ZeroRadius: *zero,
			CenterX:    float64(*size) / 2,
			CenterY:    float64(*size) / 2,
		},
	}
	if *layoutFile != "" {
		presets, err := config.LoadLayouts(*layoutFile)
		if err != nil {
			return err
		}
		presets.Apply(cfg)
	}
	if err := cfg.Ring.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	loader := source.NewLoader(30*time.Second, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	series, err := loader.LoadSeries(ctx, *sourcePath, domain.SourceOptions{SkipRows: *skipRows})
	if err != nil {
		return err
	}

	cursor := domain.CursorAt(series, series.Len())
	if *progress >= 0 {
		cursor = domain.CursorAt(series, *progress)
	}

	file, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	if err := chart.NewRingRenderer(cfg.CanvasSize, cfg.Ring).Render(file, series, cursor, f); err != nil {
		return err
	}

	log.Printf("wrote %s: %d/%d observations, year %d", *out, cursor.Progress(), series.Len(), domain.CurrentYear(series, cursor))
	return nil
}
