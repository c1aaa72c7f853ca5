package http

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/climate-spiral/internal/adapter/chart"
	"github.com/couchcryptid/climate-spiral/internal/domain"
	"github.com/couchcryptid/climate-spiral/internal/observability"
)

var errNoObservations = errors.New("series has no observations")

type api struct {
	series   domain.Series
	layouts  LayoutResolver
	renderer chart.Renderer
	metrics  *observability.Metrics
	logger   *slog.Logger
}

type segmentsResponse struct {
	Layout   domain.LayoutKind `json:"layout"`
	Progress int               `json:"progress"`
	Total    int               `json:"total"`
	Year     int               `json:"year,omitempty"`
	Segments []domain.Segment  `json:"segments"`
}

type pointsResponse struct {
	Layout   domain.LayoutKind `json:"layout"`
	Progress int               `json:"progress"`
	Total    int               `json:"total"`
	Points   []domain.Vertex   `json:"points"`
}

type labelsResponse struct {
	Layout     domain.LayoutKind `json:"layout"`
	Months     []domain.Label    `json:"months,omitempty"`
	Guides     []domain.Guide    `json:"guides"`
	Ticks      []domain.Tick     `json:"ticks,omitempty"`
	Visibility *visibility       `json:"visibility,omitempty"`
}

// visibility is reported when the caller passes a camera view angle.
type visibility struct {
	Months bool `json:"months"`
	Years  bool `json:"years"`
}

func (a *api) handleMonths(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.series.Months)
}

func (a *api) handleObservations(w http.ResponseWriter, _ *http.Request) {
	observations := a.series.Observations
	if observations == nil {
		observations = []domain.Observation{}
	}
	writeJSON(w, http.StatusOK, observations)
}

func (a *api) handleSegments(w http.ResponseWriter, r *http.Request) {
	layout, err := a.layoutParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cursor, err := a.cursorParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	segments := domain.Project(a.series, cursor, layout)
	a.metrics.ProjectionDuration.Observe(time.Since(start).Seconds())
	a.metrics.Projections.WithLabelValues(string(layout.Kind())).Inc()

	if segments == nil {
		segments = []domain.Segment{}
	}
	writeJSON(w, http.StatusOK, segmentsResponse{
		Layout:   layout.Kind(),
		Progress: cursor.Progress(),
		Total:    a.series.Len(),
		Year:     domain.CurrentYear(a.series, cursor),
		Segments: segments,
	})
}

// handlePoints serves the revealed observations as positioned, colored
// vertices for line-strip renderers.
func (a *api) handlePoints(w http.ResponseWriter, r *http.Request) {
	layout, err := a.layoutParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cursor, err := a.cursorParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	points := domain.Points(a.series, cursor, layout)
	a.metrics.ProjectionDuration.Observe(time.Since(start).Seconds())
	a.metrics.Projections.WithLabelValues(string(layout.Kind())).Inc()

	writeJSON(w, http.StatusOK, pointsResponse{
		Layout:   layout.Kind(),
		Progress: cursor.Progress(),
		Total:    a.series.Len(),
		Points:   points,
	})
}

// handleLabels serves month labels, guides and, for the helix, the year
// ruler. With ?view_angle= (radians from +Y) only the groups visible from
// that camera angle are returned.
func (a *api) handleLabels(w http.ResponseWriter, r *http.Request) {
	layout, err := a.layoutParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := labelsResponse{
		Layout: layout.Kind(),
		Months: domain.MonthLabels(a.series, layout),
		Guides: domain.Guides(layout),
	}
	if helix, ok := layout.(domain.HelixLayout); ok {
		resp.Ticks = domain.YearTicks(a.series, helix)
	}

	if raw := r.URL.Query().Get("view_angle"); raw != "" {
		angle, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(angle) || math.IsInf(angle, 0) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid view_angle %q", raw))
			return
		}
		months, years := domain.LabelVisibility(angle)
		resp.Visibility = &visibility{Months: months, Years: years}
		if !months {
			resp.Months = nil
		}
		if !years {
			resp.Ticks = nil
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *api) handleImage(format chart.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := a.cursorParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		if err := a.renderer.Render(w, a.series, cursor, format); err != nil {
			a.logger.Error("render failed", "error", err, "format", format, "progress", cursor.Progress())
			writeError(w, http.StatusInternalServerError, errors.New("render failed"))
		}
	}
}

// layoutParam resolves ?layout=, defaulting to the ring.
func (a *api) layoutParam(r *http.Request) (domain.Layout, error) {
	kind := domain.LayoutKind(r.URL.Query().Get("layout"))
	if kind == "" {
		kind = domain.KindRing
	}
	layout, ok := a.layouts.Layout(kind)
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", kind)
	}
	return layout, nil
}

// cursorParam builds a cursor from ?progress=, defaulting to the whole
// series. Out-of-range values clamp, including ones that overflow an int.
func (a *api) cursorParam(r *http.Request) (domain.RevealCursor, error) {
	raw := r.URL.Query().Get("progress")
	if raw == "" {
		return domain.CursorAt(a.series, a.series.Len()), nil
	}
	n, err := strconv.Atoi(raw)
	switch {
	case errors.Is(err, strconv.ErrRange):
		if strings.HasPrefix(raw, "-") {
			return domain.CursorAt(a.series, 0), nil
		}
		return domain.CursorAt(a.series, a.series.Len()), nil
	case err != nil:
		return domain.RevealCursor{}, fmt.Errorf("invalid progress %q", raw)
	}
	return domain.CursorAt(a.series, n), nil
}
