package chart

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-spiral/internal/domain"
	"github.com/couchcryptid/climate-spiral/internal/observability"
)

const sample = `Land-Ocean: Global Means
Year,Jan,Feb,Mar,Apr,May,Jun,Jul,Aug,Sep,Oct,Nov,Dec,J-D
1880,-.18,-.24,-.09,-.16,-.10,-.21,-.18,-.10,-.15,-.23,-.22,-.18,-.17
1881,-.19,-.14,.03,.05,.06,-.19,.00,-.04,-.16,-.22,-.19,-.07,-.09
`

func testSeries(t *testing.T) domain.Series {
	t.Helper()
	series := domain.ParseSeries(sample, domain.SourceOptions{SkipRows: 1})
	require.NotEmpty(t, series.Observations)
	return series
}

func testRenderer() *RingRenderer {
	return NewRingRenderer(300, domain.RingLayout{ZeroRadius: 56, CenterX: 150, CenterY: 150})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())
	assert.Equal(t, "image/png", FormatPNG.ContentType())

	_, err = ParseFormat("gif")
	require.Error(t, err)
}

func TestRingRenderer_PNG(t *testing.T) {
	series := testSeries(t)

	var buf bytes.Buffer
	err := testRenderer().Render(&buf, series, domain.CursorAt(series, series.Len()), FormatPNG)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "expected PNG signature")
}

func TestRingRenderer_SVG(t *testing.T) {
	series := testSeries(t)

	var buf bytes.Buffer
	err := testRenderer().Render(&buf, series, domain.CursorAt(series, 14), FormatSVG)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Jan")
	assert.Contains(t, out, "1881", "current year drawn at the centre")
}

func TestRingRenderer_EmptySeries(t *testing.T) {
	var buf bytes.Buffer
	err := testRenderer().Render(&buf, domain.Series{}, domain.NewRevealCursor(0), FormatSVG)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
}

func TestToDrawing_Clamps(t *testing.T) {
	c := toDrawing(domain.Color{R: 300, G: -20, B: 128})
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(128), c.B)
	assert.Equal(t, uint8(255), c.A)
}

// --- CachedRenderer tests ---

type countingRenderer struct {
	calls int
	err   error
}

func (m *countingRenderer) Render(w io.Writer, _ domain.Series, cursor domain.RevealCursor, format Format) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	_, err := w.Write([]byte(string(format) + ":" + string(rune('0'+cursor.Progress()))))
	return err
}

func newCachedRenderer(t *testing.T, inner Renderer, maxEntries int) *CachedRenderer {
	t.Helper()
	cached, err := NewCachedRenderer(inner, maxEntries, observability.NewMetricsForTesting())
	require.NoError(t, err)
	return cached
}

func TestNewCachedRenderer_RejectsNonPositiveSize(t *testing.T) {
	_, err := NewCachedRenderer(&countingRenderer{}, 0, observability.NewMetricsForTesting())
	require.Error(t, err)
}

func TestCachedRenderer_CacheHit(t *testing.T) {
	series := testSeries(t)
	inner := &countingRenderer{}
	cached := newCachedRenderer(t, inner, 10)

	var first, second bytes.Buffer
	require.NoError(t, cached.Render(&first, series, domain.CursorAt(series, 3), FormatPNG))
	require.NoError(t, cached.Render(&second, series, domain.CursorAt(series, 3), FormatPNG))

	assert.Equal(t, "png:3", first.String())
	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedRenderer_DifferentKeysMiss(t *testing.T) {
	series := testSeries(t)
	inner := &countingRenderer{}
	cached := newCachedRenderer(t, inner, 10)

	_ = cached.Render(io.Discard, series, domain.CursorAt(series, 3), FormatPNG)
	_ = cached.Render(io.Discard, series, domain.CursorAt(series, 4), FormatPNG)
	_ = cached.Render(io.Discard, series, domain.CursorAt(series, 4), FormatSVG)

	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, 3, cached.cache.Len())
}

func TestCachedRenderer_ErrorNotCached(t *testing.T) {
	series := testSeries(t)
	inner := &countingRenderer{err: errors.New("boom")}
	cached := newCachedRenderer(t, inner, 10)

	require.Error(t, cached.Render(io.Discard, series, domain.CursorAt(series, 3), FormatPNG))
	require.Error(t, cached.Render(io.Discard, series, domain.CursorAt(series, 3), FormatPNG))
	assert.Equal(t, 2, inner.calls)
	assert.Zero(t, cached.cache.Len())
}

func TestCachedRenderer_EvictsLeastRecentlyUsed(t *testing.T) {
	series := testSeries(t)
	inner := &countingRenderer{}
	cached := newCachedRenderer(t, inner, 2)

	render := func(progress int) {
		require.NoError(t, cached.Render(io.Discard, series, domain.CursorAt(series, progress), FormatPNG))
	}

	render(1)
	render(2)
	render(1) // hit; 2 becomes least recently used
	render(3) // evicts 2
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, 2, cached.cache.Len())

	render(1)
	assert.Equal(t, 3, inner.calls, "1 was used recently and should still be cached")

	render(2)
	assert.Equal(t, 4, inner.calls, "2 should have been evicted")
}
