// Package playback reveals a series a few observations at a time and hands
// each step's newly drawn segments to a FrameLoader.
package playback

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-spiral/internal/domain"
	"github.com/couchcryptid/climate-spiral/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// FrameLoader writes playback frames to a destination.
type FrameLoader interface {
	LoadFrames(ctx context.Context, frames []domain.Frame) error
}

// Options tunes a Player. Zero values fall back to the defaults below.
type Options struct {
	Interval time.Duration
	Step     int
	Clock    clockwork.Clock
	RunID    string
}

const (
	DefaultInterval = 50 * time.Millisecond
	DefaultStep     = 2
)

// Player advances a reveal cursor on every tick until the series is fully
// drawn.
type Player struct {
	series   domain.Series
	layout   domain.Layout
	loader   FrameLoader
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	interval time.Duration
	step     int
	runID    string

	mu     sync.Mutex
	cursor domain.RevealCursor
	ready  atomic.Bool
}

// New creates a Player for series drawn with layout.
func New(series domain.Series, layout domain.Layout, loader FrameLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Player {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	return &Player{
		series:   series,
		layout:   layout,
		loader:   loader,
		logger:   logger,
		metrics:  metrics,
		clock:    opts.Clock,
		interval: opts.Interval,
		step:     opts.Step,
		runID:    opts.RunID,
		cursor:   domain.NewRevealCursor(series.Len()),
	}
}

// RunID identifies this playback run; every frame carries it.
func (p *Player) RunID() string { return p.runID }

// Progress returns the current cursor position.
func (p *Player) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor.Progress()
}

// CheckReadiness returns nil once at least one frame has been loaded, or
// once Run has found an empty series with nothing to play.
func (p *Player) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("playback has not emitted any frames yet")
	}
	return nil
}

// Run ticks until the series is fully revealed or ctx is cancelled.
func (p *Player) Run(ctx context.Context) error {
	p.logger.Info("playback started",
		"run_id", p.runID,
		"layout", p.layout.Kind(),
		"total", p.series.Len(),
		"step", p.step,
		"interval", p.interval,
	)
	if p.series.Len() == 0 {
		p.ready.Store(true)
	}
	p.metrics.PlaybackRunning.Set(1)
	defer p.metrics.PlaybackRunning.Set(0)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if p.done() {
			p.logger.Info("playback finished", "run_id", p.runID, "progress", p.Progress())
			return nil
		}

		select {
		case <-ctx.Done():
			p.logger.Info("playback stopping", "reason", ctx.Err(), "progress", p.Progress())
			return nil
		case <-ticker.Chan():
			p.tick(ctx)
		}
	}
}

func (p *Player) done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor.Done()
}

// tick advances the cursor one step and loads the segments it revealed. A
// failed load is logged and counted; the cursor does not rewind.
func (p *Player) tick(ctx context.Context) {
	frame := p.advance()
	p.metrics.PlaybackProgress.Set(float64(frame.Progress))

	if err := p.loader.LoadFrames(ctx, []domain.Frame{frame}); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error("load frame failed", "error", err, "run_id", p.runID, "progress", frame.Progress)
		p.metrics.FrameErrors.Inc()
		return
	}

	p.metrics.FramesEmitted.Inc()
	p.ready.Store(true)
}

// advance moves the cursor and builds the frame for the newly visible part.
func (p *Player) advance() domain.Frame {
	p.mu.Lock()
	prev := p.cursor.Progress()
	p.cursor.Advance(p.step)
	cursor := p.cursor
	p.mu.Unlock()

	segments := domain.Project(p.series, cursor, p.layout)
	// n visible observations give n-1 segments; skip the ones already sent.
	if seen := max(prev-1, 0); seen < len(segments) {
		segments = segments[seen:]
	} else {
		segments = []domain.Segment{}
	}

	return domain.Frame{
		RunID:     p.runID,
		Layout:    string(p.layout.Kind()),
		Progress:  cursor.Progress(),
		Total:     p.series.Len(),
		Year:      domain.CurrentYear(p.series, cursor),
		Segments:  segments,
		EmittedAt: p.clock.Now(),
	}
}
