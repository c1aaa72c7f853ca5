package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/climate-spiral/internal/adapter/chart"
	httpadapter "github.com/couchcryptid/climate-spiral/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-spiral/internal/adapter/kafka"
	"github.com/couchcryptid/climate-spiral/internal/adapter/source"
	"github.com/couchcryptid/climate-spiral/internal/config"
	"github.com/couchcryptid/climate-spiral/internal/domain"
	"github.com/couchcryptid/climate-spiral/internal/observability"
	"github.com/couchcryptid/climate-spiral/internal/playback"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := source.NewLoader(cfg.SourceTimeout, logger)
	series, err := loader.LoadSeries(ctx, cfg.SourcePath, domain.SourceOptions{SkipRows: cfg.SourceSkipRows})
	if err != nil {
		logger.Error("failed to load series", "error", err, "source", cfg.SourcePath)
		os.Exit(1)
	}
	metrics.SeriesObservations.Set(float64(series.Len()))

	renderer, err := chart.NewCachedRenderer(chart.NewRingRenderer(cfg.CanvasSize, cfg.Ring), cfg.RenderCacheSize, metrics)
	if err != nil {
		logger.Error("failed to create renderer", "error", err)
		os.Exit(1)
	}

	opts := httpadapter.Options{
		Series:   series,
		Layouts:  cfg,
		Renderer: renderer,
		Metrics:  metrics,
	}

	// Playback is feature-flagged via PLAYBACK_ENABLED.
	var writer *kafkaadapter.Writer
	var player *playback.Player
	if cfg.PlaybackEnabled {
		layout, _ := cfg.Layout(cfg.PlaybackLayout)
		writer = kafkaadapter.NewWriter(cfg, logger)
		player = playback.New(series, layout, writer, logger, metrics, playback.Options{
			Interval: cfg.PlaybackInterval,
			Step:     cfg.PlaybackStep,
		})
		opts.Ready = player
		logger.Info("playback enabled", "run_id", player.RunID(), "topic", cfg.KafkaFrameTopic)
	} else {
		logger.Info("playback disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, opts, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if player != nil {
		go func() {
			if err := player.Run(ctx); err != nil {
				logger.Error("playback error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
