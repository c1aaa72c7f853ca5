package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-spiral/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Source data location: a file path or an http(s) URL.
	SourcePath     string
	SourceSkipRows int
	SourceTimeout  time.Duration

	// Layouts used by the HTTP API, the renderer and playback.
	Ring       domain.RingLayout
	Helix      domain.HelixLayout
	CanvasSize int
	LayoutFile string

	RenderCacheSize int

	// Playback configuration.
	PlaybackEnabled  bool
	PlaybackInterval time.Duration
	PlaybackStep     int
	PlaybackLayout   domain.LayoutKind

	KafkaBrokers    []string
	KafkaFrameTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sourceTimeout, err := parsePositiveDuration("SOURCE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	playbackInterval, err := parsePositiveDuration("PLAYBACK_INTERVAL", "50ms")
	if err != nil {
		return nil, err
	}

	skipRows, err := parseInt("SOURCE_SKIP_ROWS", 1, 0)
	if err != nil {
		return nil, err
	}
	canvasSize, err := parseInt("CANVAS_SIZE", 1200, 1)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("RENDER_CACHE_SIZE", 64, 1)
	if err != nil {
		return nil, err
	}
	step, err := parseInt("PLAYBACK_STEP", 2, 1)
	if err != nil {
		return nil, err
	}

	ringZero, err := parseFloat("RING_ZERO_RADIUS", 225)
	if err != nil {
		return nil, err
	}
	ringOne, err := parseFloat("RING_ONE_RADIUS", 0)
	if err != nil {
		return nil, err
	}
	helixZero, err := parseFloat("HELIX_ZERO_RADIUS", 10)
	if err != nil {
		return nil, err
	}
	helixHeight, err := parseFloat("HELIX_SPIRAL_HEIGHT", 50)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SourcePath:     sharedcfg.EnvOrDefault("SOURCE_PATH", "data/globalMeans.csv"),
		SourceSkipRows: skipRows,
		SourceTimeout:  sourceTimeout,

		Ring: domain.RingLayout{
			ZeroRadius: ringZero,
			OneRadius:  ringOne,
			CenterX:    float64(canvasSize) / 2,
			CenterY:    float64(canvasSize) / 2,
		},
		Helix: domain.HelixLayout{
			ZeroRadius:   helixZero,
			SpiralHeight: helixHeight,
		},
		CanvasSize: canvasSize,
		LayoutFile: os.Getenv("LAYOUT_FILE"),

		RenderCacheSize: cacheSize,

		PlaybackEnabled:  os.Getenv("PLAYBACK_ENABLED") == "true",
		PlaybackInterval: playbackInterval,
		PlaybackStep:     step,
		PlaybackLayout:   domain.LayoutKind(sharedcfg.EnvOrDefault("PLAYBACK_LAYOUT", string(domain.KindHelix))),

		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaFrameTopic: sharedcfg.EnvOrDefault("KAFKA_FRAME_TOPIC", "climate-spiral-frames"),
	}

	if cfg.LayoutFile != "" {
		presets, err := LoadLayouts(cfg.LayoutFile)
		if err != nil {
			return nil, err
		}
		presets.Apply(cfg)
	}

	if cfg.SourcePath == "" {
		return nil, errors.New("SOURCE_PATH is required")
	}
	if err := cfg.Ring.Validate(); err != nil {
		return nil, fmt.Errorf("ring layout: %w", err)
	}
	if err := cfg.Helix.Validate(); err != nil {
		return nil, fmt.Errorf("helix layout: %w", err)
	}
	if cfg.PlaybackLayout != domain.KindRing && cfg.PlaybackLayout != domain.KindHelix {
		return nil, fmt.Errorf("invalid PLAYBACK_LAYOUT %q", cfg.PlaybackLayout)
	}
	if cfg.PlaybackEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when PLAYBACK_ENABLED is true")
		}
		if cfg.KafkaFrameTopic == "" {
			return nil, errors.New("KAFKA_FRAME_TOPIC is required when PLAYBACK_ENABLED is true")
		}
	}

	return cfg, nil
}

// Layout returns the configured layout of the given kind.
func (c *Config) Layout(kind domain.LayoutKind) (domain.Layout, bool) {
	switch kind {
	case domain.KindRing:
		return c.Ring, true
	case domain.KindHelix:
		return c.Helix, true
	default:
		return nil, false
	}
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def, minValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minValue {
		return 0, fmt.Errorf("invalid %s: must be an integer >= %d", key, minValue)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative number", key)
	}
	return v, nil
}
