package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/climate-spiral/internal/adapter/chart"
	httpadapter "github.com/couchcryptid/climate-spiral/internal/adapter/http"
	"github.com/couchcryptid/climate-spiral/internal/config"
	"github.com/couchcryptid/climate-spiral/internal/domain"
	"github.com/couchcryptid/climate-spiral/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Land-Ocean: Global Means
Year,Jan,Feb,Mar,Apr,May,Jun,Jul,Aug,Sep,Oct,Nov,Dec,J-D
1880,-.18,-.24,-.09,-.16,-.10,-.21,-.18,-.10,-.15,-.23,-.22,-.18,-.17
1881,-.19,-.14,.03,.05,.06,-.19,.01,-.04,-.16,-.22,-.19,-.07,-.09
`

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type stubRenderer struct {
	err error
}

func (s *stubRenderer) Render(w io.Writer, _ domain.Series, cursor domain.RevealCursor, format chart.Format) error {
	if s.err != nil {
		return s.err
	}
	_, err := fmt.Fprintf(w, "%s@%d", format, cursor.Progress())
	return err
}

func testConfig() *config.Config {
	return &config.Config{
		Ring:  domain.RingLayout{ZeroRadius: 225, CenterX: 600, CenterY: 600},
		Helix: domain.HelixLayout{ZeroRadius: 10, SpiralHeight: 50},
	}
}

func newTestServer(t *testing.T, opts httpadapter.Options) *httpadapter.Server {
	t.Helper()
	if opts.Series.Len() == 0 {
		opts.Series = domain.ParseSeries(sample, domain.SourceOptions{SkipRows: 1})
	}
	if opts.Layouts == nil {
		opts.Layouts = testConfig()
	}
	if opts.Renderer == nil {
		opts.Renderer = &stubRenderer{}
	}
	opts.Metrics = observability.NewMetricsForTesting()
	return httpadapter.NewServer(":0", opts, slog.Default())
}

func get(t *testing.T, srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(t, httpadapter.Options{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(t, httpadapter.Options{Ready: &mockReadiness{}}), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(t, httpadapter.Options{Ready: &mockReadiness{err: errors.New("not ready yet")}}), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSeriesReadiness(t *testing.T) {
	require.Error(t, httpadapter.SeriesReadiness(domain.Series{}).CheckReadiness(context.Background()))

	series := domain.ParseSeries(sample, domain.SourceOptions{SkipRows: 1})
	require.NoError(t, httpadapter.SeriesReadiness(series).CheckReadiness(context.Background()))
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t, httpadapter.Options{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestMonths(t *testing.T) {
	rec := get(t, newTestServer(t, httpadapter.Options{}), "/api/v1/months")
	require.Equal(t, http.StatusOK, rec.Code)

	var months []domain.Month
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &months))
	require.Len(t, months, domain.MonthCount)
	assert.Equal(t, "Jan", months[0].Label)
	assert.Equal(t, 1, months[0].NextIndex)
	assert.Equal(t, 0, months[11].NextIndex)
}

func TestObservations(t *testing.T) {
	rec := get(t, newTestServer(t, httpadapter.Options{}), "/api/v1/observations")
	require.Equal(t, http.StatusOK, rec.Code)

	var observations []domain.Observation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &observations))
	require.Len(t, observations, 24)
	assert.Equal(t, domain.Observation{Year: 1880, MonthIndex: 0, Value: -0.18}, observations[0])
}

type segmentsBody struct {
	Layout   string           `json:"layout"`
	Progress int              `json:"progress"`
	Total    int              `json:"total"`
	Year     int              `json:"year"`
	Segments []domain.Segment `json:"segments"`
}

func TestSegments(t *testing.T) {
	srv := newTestServer(t, httpadapter.Options{})

	tests := []struct {
		name     string
		target   string
		layout   string
		progress int
		segments int
		year     int
	}{
		{"default full ring", "/api/v1/segments", "ring", 24, 23, 1881},
		{"partial", "/api/v1/segments?progress=5", "ring", 5, 4, 1880},
		{"helix", "/api/v1/segments?layout=helix&progress=13", "helix", 13, 12, 1881},
		{"clamps high", "/api/v1/segments?progress=9999", "ring", 24, 23, 1881},
		{"clamps low", "/api/v1/segments?progress=-4", "ring", 0, 0, 0},
		{"single point", "/api/v1/segments?progress=1", "ring", 1, 0, 1880},
		{"clamps int overflow", "/api/v1/segments?progress=99999999999999999999", "ring", 24, 23, 1881},
		{"clamps negative int overflow", "/api/v1/segments?progress=-99999999999999999999", "ring", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)

			var body segmentsBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.layout, body.Layout)
			assert.Equal(t, tt.progress, body.Progress)
			assert.Equal(t, 24, body.Total)
			assert.Equal(t, tt.year, body.Year)
			assert.Len(t, body.Segments, tt.segments)
		})
	}
}

func TestSegments_BadRequest(t *testing.T) {
	srv := newTestServer(t, httpadapter.Options{})

	for _, target := range []string{
		"/api/v1/segments?progress=abc",
		"/api/v1/segments?progress=1.5",
		"/api/v1/segments?layout=cube",
	} {
		rec := get(t, srv, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"])
	}
}

func TestLabels(t *testing.T) {
	srv := newTestServer(t, httpadapter.Options{})

	var ring struct {
		Months []domain.Label `json:"months"`
		Guides []domain.Guide `json:"guides"`
		Ticks  []domain.Tick  `json:"ticks"`
	}
	rec := get(t, srv, "/api/v1/labels")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ring))
	assert.Len(t, ring.Months, domain.MonthCount)
	assert.Len(t, ring.Guides, 2)
	assert.Empty(t, ring.Ticks)

	var helix struct {
		Ticks []domain.Tick `json:"ticks"`
	}
	rec = get(t, srv, "/api/v1/labels?layout=helix")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &helix))
	require.Len(t, helix.Ticks, 1)
	assert.Equal(t, 1880, helix.Ticks[0].Year)
	assert.True(t, helix.Ticks[0].Major)
}

func TestLabels_ViewAngle(t *testing.T) {
	srv := newTestServer(t, httpadapter.Options{})

	type labelsBody struct {
		Months     []domain.Label `json:"months"`
		Guides     []domain.Guide `json:"guides"`
		Ticks      []domain.Tick  `json:"ticks"`
		Visibility *struct {
			Months bool `json:"months"`
			Years  bool `json:"years"`
		} `json:"visibility"`
	}

	var top labelsBody
	rec := get(t, srv, "/api/v1/labels?layout=helix&view_angle=0.1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	require.NotNil(t, top.Visibility)
	assert.True(t, top.Visibility.Months)
	assert.False(t, top.Visibility.Years)
	assert.Len(t, top.Months, domain.MonthCount)
	assert.Empty(t, top.Ticks)
	assert.Len(t, top.Guides, 2)

	var side labelsBody
	rec = get(t, srv, "/api/v1/labels?layout=helix&view_angle=1.5708")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &side))
	require.NotNil(t, side.Visibility)
	assert.False(t, side.Visibility.Months)
	assert.True(t, side.Visibility.Years)
	assert.Empty(t, side.Months)
	assert.Len(t, side.Ticks, 1)

	rec = get(t, srv, "/api/v1/labels?layout=helix&view_angle=up")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPoints(t *testing.T) {
	srv := newTestServer(t, httpadapter.Options{})

	var body struct {
		Layout   string          `json:"layout"`
		Progress int             `json:"progress"`
		Total    int             `json:"total"`
		Points   []domain.Vertex `json:"points"`
	}
	rec := get(t, srv, "/api/v1/points?layout=helix&progress=5")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "helix", body.Layout)
	assert.Equal(t, 5, body.Progress)
	assert.Equal(t, 24, body.Total)
	require.Len(t, body.Points, 5)
	assert.Equal(t, 4, body.Points[4].Index)

	rec = get(t, srv, "/api/v1/points?progress=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"points":[]`)

	rec = get(t, srv, "/api/v1/points?progress=two")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSpiralImages(t *testing.T) {
	srv := newTestServer(t, httpadapter.Options{})

	rec := get(t, srv, "/spiral.png?progress=7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png@7", rec.Body.String())

	rec = get(t, srv, "/spiral.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "svg@24", rec.Body.String())

	rec = get(t, srv, "/spiral.png?progress=x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSpiralImages_RenderError(t *testing.T) {
	srv := newTestServer(t, httpadapter.Options{Renderer: &stubRenderer{err: errors.New("boom")}})

	rec := get(t, srv, "/spiral.png")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
