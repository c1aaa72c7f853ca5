package chart

import (
	"bytes"
	"fmt"
	"io"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/climate-spiral/internal/domain"
	"github.com/couchcryptid/climate-spiral/internal/observability"
)

// CachedRenderer wraps a Renderer with an in-memory LRU of encoded images.
// Keys are format, progress and series length, so one CachedRenderer must
// only ever serve a single loaded series.
type CachedRenderer struct {
	inner   Renderer
	cache   *lru.Cache[string, []byte]
	metrics *observability.Metrics
}

// NewCachedRenderer creates a cache decorator around a renderer holding at
// most maxEntries images.
func NewCachedRenderer(inner Renderer, maxEntries int, metrics *observability.Metrics) (*CachedRenderer, error) {
	cache, err := lru.New[string, []byte](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create render cache: %w", err)
	}
	return &CachedRenderer{
		inner:   inner,
		cache:   cache,
		metrics: metrics,
	}, nil
}

func (c *CachedRenderer) Render(w io.Writer, series domain.Series, cursor domain.RevealCursor, format Format) error {
	key := fmt.Sprintf("%s:%d/%d", format, cursor.Progress(), series.Len())
	if image, ok := c.cache.Get(key); ok {
		c.metrics.Renders.WithLabelValues(string(format), "hit").Inc()
		_, err := w.Write(image)
		return err
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := c.inner.Render(&buf, series, cursor, format); err != nil {
		return err
	}
	c.metrics.RenderDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	c.metrics.Renders.WithLabelValues(string(format), "miss").Inc()

	image := buf.Bytes()
	c.cache.Add(key, image)
	_, err := w.Write(image)
	return err
}
