// Package chart draws the 2D ring spiral as PNG or SVG using go-chart's
// low-level renderers.
package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/climate-spiral/internal/domain"
)

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, FormatSVG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown image format %q", s)
	}
}

// Drawing constants for a 1200px canvas; everything scales with the canvas.
const (
	referenceSize = 1200.0
	labelFontSize = 30.0 // points; 40px at 96 DPI
	yearFontSize  = 30.0
	// gradientSteps approximates a canvas linear gradient per segment.
	gradientSteps = 4
	circleSteps   = 180
)

var (
	backgroundColor = drawing.Color{R: 0, G: 0, B: 0, A: 255}
	textColor       = drawing.ColorWhite
	oneGuideColor   = drawing.Color{R: 255, G: 255, B: 0, A: 255}
	zeroGuideColor  = drawing.ColorWhite
)

// Renderer draws a ring spiral for the revealed prefix of a series.
type Renderer interface {
	Render(w io.Writer, series domain.Series, cursor domain.RevealCursor, format Format) error
}

// RingRenderer renders a RingLayout onto a square canvas.
type RingRenderer struct {
	size   int
	layout domain.RingLayout
}

// NewRingRenderer creates a renderer for a size×size canvas.
func NewRingRenderer(size int, layout domain.RingLayout) *RingRenderer {
	return &RingRenderer{size: size, layout: layout}
}

// Render draws month labels, the zero and one guide circles, the revealed
// segments and the current year, then writes the encoded image to w.
func (r *RingRenderer) Render(w io.Writer, series domain.Series, cursor domain.RevealCursor, format Format) error {
	provider := gochart.PNG
	if format == FormatSVG {
		provider = gochart.SVG
	}

	rnd, err := provider(r.size, r.size)
	if err != nil {
		return fmt.Errorf("create %s renderer: %w", format, err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	rnd.SetFont(font)

	scale := float64(r.size) / referenceSize

	r.drawBackground(rnd)
	r.drawLabels(rnd, series, scale)
	r.drawGuides(rnd, scale)
	r.drawSegments(rnd, domain.Project(series, cursor, r.layout), scale)

	if year := domain.CurrentYear(series, cursor); year != 0 {
		rnd.SetFontSize(yearFontSize * scale)
		rnd.SetFontColor(textColor)
		drawCenteredText(rnd, strconv.Itoa(year), r.layout.CenterX, r.layout.CenterY)
	}

	if err := rnd.Save(w); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

func (r *RingRenderer) drawBackground(rnd gochart.Renderer) {
	rnd.SetFillColor(backgroundColor)
	rnd.SetStrokeColor(backgroundColor)
	rnd.MoveTo(0, 0)
	rnd.LineTo(r.size, 0)
	rnd.LineTo(r.size, r.size)
	rnd.LineTo(0, r.size)
	rnd.Close()
	rnd.Fill()
}

func (r *RingRenderer) drawLabels(rnd gochart.Renderer, series domain.Series, scale float64) {
	rnd.SetFontSize(labelFontSize * scale)
	rnd.SetFontColor(textColor)
	for _, label := range domain.MonthLabels(series, r.layout) {
		if label.Text == "" {
			continue
		}
		drawCenteredText(rnd, label.Text, label.Position.X, label.Position.Y)
	}
}

func (r *RingRenderer) drawGuides(rnd gochart.Renderer, scale float64) {
	for _, g := range domain.Guides(r.layout) {
		color, width := zeroGuideColor, 1.0
		if g.Role == domain.GuideOne {
			color, width = oneGuideColor, 2.0
		}
		rnd.SetStrokeColor(color)
		rnd.SetStrokeWidth(width * scale)
		for i := 0; i <= circleSteps; i++ {
			a := 2 * math.Pi * float64(i) / circleSteps
			x, y := px(g.Center.X+g.Radius*math.Cos(a)), px(g.Center.Y+g.Radius*math.Sin(a))
			if i == 0 {
				rnd.MoveTo(x, y)
				continue
			}
			rnd.LineTo(x, y)
		}
		rnd.Stroke()
	}
}

// drawSegments strokes each segment as a few sub-strokes whose colors step
// from ColorFrom to ColorTo.
func (r *RingRenderer) drawSegments(rnd gochart.Renderer, segments []domain.Segment, scale float64) {
	rnd.SetStrokeWidth(scale)
	for _, seg := range segments {
		for step := range gradientSteps {
			t0 := float64(step) / gradientSteps
			t1 := float64(step+1) / gradientSteps
			mid := (t0 + t1) / 2

			rnd.SetStrokeColor(toDrawing(domain.Blend(seg.ColorFrom, seg.ColorTo, mid)))
			rnd.MoveTo(px(lerp(seg.From.X, seg.To.X, t0)), px(lerp(seg.From.Y, seg.To.Y, t0)))
			rnd.LineTo(px(lerp(seg.From.X, seg.To.X, t1)), px(lerp(seg.From.Y, seg.To.Y, t1)))
			rnd.Stroke()
		}
	}
}

func drawCenteredText(rnd gochart.Renderer, text string, x, y float64) {
	box := rnd.MeasureText(text)
	rnd.Text(text, px(x)-box.Width()/2, px(y)+box.Height()/2)
}

// toDrawing converts a domain color, clamping channels to a byte.
func toDrawing(c domain.Color) drawing.Color {
	clamp := func(v int) uint8 { return uint8(max(0, min(255, v))) }
	return drawing.Color{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: 255}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func px(v float64) int { return int(math.Round(v)) }
