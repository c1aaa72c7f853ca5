package domain

import (
	"math"
	"strconv"
)

// Label anchor factors, relative to the one-anomaly radius.
const (
	ringLabelFactor   = 1.15
	helixLabelFactorX = 1.25
	helixLabelFactorZ = 1.3
	rulerFactor       = 1.3
)

// Ruler geometry, in helix units.
const (
	rulerOffsetX   = 4
	rulerOffsetY   = 1
	majorTickLen   = 2
	minorTickLen   = 1
	majorTickYears = 20
	minorTickYears = 10
	// tickMonthIndex is the month a year tick is anchored to.
	tickMonthIndex = 1
)

// Camera angles (between view direction and +Y) inside which the helix is
// seen from above or below and month labels replace the year ruler.
const (
	topViewAngle    = 0.2 * math.Pi
	bottomViewAngle = 0.8 * math.Pi
)

// Label is a text anchor in layout space.
type Label struct {
	Text     string `json:"text"`
	Position Point  `json:"position"`
}

// GuideRole names a reference circle.
type GuideRole string

const (
	GuideZero GuideRole = "zero"
	GuideOne  GuideRole = "one"
)

// Guide is a reference circle around the layout's axis.
type Guide struct {
	Role   GuideRole `json:"role"`
	Center Point     `json:"center"`
	Radius float64   `json:"radius"`
}

// Tick is a ruler mark beside the helix.
type Tick struct {
	Year   int     `json:"year"`
	Major  bool    `json:"major"`
	From   Point   `json:"from"`
	To     Point   `json:"to"`
	Length float64 `json:"length"`
	// Label is set for major ticks only.
	Label *Label `json:"label,omitempty"`
}

// MonthLabels returns one anchor per month, just outside the one circle.
func MonthLabels(series Series, layout Layout) []Label {
	one := OneRadius(layout)
	labels := make([]Label, 0, MonthCount)
	for _, m := range series.Months {
		var pos Point
		switch l := layout.(type) {
		case RingLayout:
			r := one * ringLabelFactor
			pos = Point{X: l.CenterX + r*math.Cos(m.Angle), Y: l.CenterY + r*math.Sin(m.Angle)}
		case HelixLayout:
			pos = Point{
				X: one * helixLabelFactorX * math.Cos(m.Angle),
				Y: l.SpiralHeight / 2,
				Z: one * helixLabelFactorZ * math.Sin(m.Angle),
			}
		}
		labels = append(labels, Label{Text: m.Label, Position: pos})
	}
	return labels
}

// Guides returns the zero- and one-anomaly circles. Helix guides sit on the
// top plane of the spiral.
func Guides(layout Layout) []Guide {
	zero, one := layout.radii()
	var center Point
	switch l := layout.(type) {
	case RingLayout:
		center = Point{X: l.CenterX, Y: l.CenterY}
	case HelixLayout:
		center = Point{Y: l.SpiralHeight / 2}
	}
	return []Guide{
		{Role: GuideZero, Center: center, Radius: zero},
		{Role: GuideOne, Center: center, Radius: one},
	}
}

// YearTicks returns the ruler marks drawn beside a helix: a labelled major
// tick every 20 years and a minor tick every 10, anchored at each year's
// second month. Ring layouts have no ruler.
func YearTicks(series Series, layout HelixLayout) []Tick {
	one := OneRadius(layout)
	x := one * rulerFactor
	total := series.Len()

	var ticks []Tick
	for i, obs := range series.Observations {
		if obs.MonthIndex != tickMonthIndex || obs.Year%minorTickYears != 0 {
			continue
		}
		y := layout.Height(i, total)
		anchor := Point{X: x - rulerOffsetX, Y: y + rulerOffsetY}

		tick := Tick{Year: obs.Year, From: anchor, Length: minorTickLen}
		if obs.Year%majorTickYears == 0 {
			tick.Major = true
			tick.Length = majorTickLen
			tick.Label = &Label{Text: strconv.Itoa(obs.Year), Position: Point{X: x, Y: y}}
		}
		tick.To = Point{X: anchor.X + tick.Length, Y: anchor.Y}
		ticks = append(ticks, tick)
	}
	return ticks
}

// CurrentYear returns the year of the last revealed observation, or 0 when
// nothing is revealed.
func CurrentYear(series Series, cursor RevealCursor) int {
	visible := visiblePrefix(series, cursor)
	if len(visible) == 0 {
		return 0
	}
	return visible[len(visible)-1].Year
}

// LabelVisibility decides which helix annotations to show for a camera whose
// view direction makes viewAngle radians with the +Y axis. Looking straight
// down or up shows month labels; any side view shows the year ruler.
func LabelVisibility(viewAngle float64) (months, years bool) {
	if viewAngle >= bottomViewAngle || viewAngle <= topViewAngle {
		return true, false
	}
	return false, true
}
