package domain

import (
	"fmt"
	"math"
)

// Color is an RGB triple. Channels are ints rather than bytes so that an
// extrapolated blend stays visible instead of wrapping around.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Anchor colors of the anomaly scale: Blue at -1, White at 0 and Red at +1.
var (
	Blue  = Color{R: 0, G: 0, B: 255}
	White = Color{R: 255, G: 255, B: 255}
	Red   = Color{R: 255, G: 0, B: 0}
)

// String renders the color in CSS rgb() notation.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex renders the color as #rrggbb. Channels outside [0, 255] are clamped for
// the textual form only.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clampChannel(c.R), clampChannel(c.G), clampChannel(c.B))
}

func clampChannel(v int) int {
	return max(0, min(255, v))
}

// Blend linearly interpolates each channel from c1 (weight 0) to c2 (weight 1)
// and rounds to the nearest integer. Weight is not clamped; values outside
// [0, 1] extrapolate and are not a supported use.
func Blend(c1, c2 Color, weight float64) Color {
	return Color{
		R: lerpChannel(c1.R, c2.R, weight),
		G: lerpChannel(c1.G, c2.G, weight),
		B: lerpChannel(c1.B, c2.B, weight),
	}
}

func lerpChannel(a, b int, weight float64) int {
	return int(math.Round(float64(a) + float64(b-a)*weight))
}

// ColorForAnomaly maps an anomaly in [-1, 1] onto the diverging
// blue→white→red gradient. -1 is pure blue, 0 white and 1 pure red.
func ColorForAnomaly(value float64) Color {
	t := (value + 1) / 2
	if t < 0.5 {
		return Blend(Blue, White, t*2)
	}
	return Blend(White, Red, (t-0.5)*2)
}

// ColorForRadius is the radial preset used by the helix front ends: blue→white
// inside zeroRadius, white→red between zeroRadius and oneRadius, solid red
// beyond.
func ColorForRadius(radius, zeroRadius, oneRadius float64) Color {
	switch {
	case radius < zeroRadius:
		return Blend(Blue, White, radius/zeroRadius)
	case radius < oneRadius:
		return Blend(White, Red, (radius-zeroRadius)/(oneRadius-zeroRadius))
	default:
		return Red
	}
}

// ColorScheme names one of the supported anomaly color presets.
type ColorScheme string

const (
	// SchemeDiverging is the ColorForAnomaly preset.
	SchemeDiverging ColorScheme = "diverging"
	// SchemeRadial is the ColorForRadius preset.
	SchemeRadial ColorScheme = "radial"
)

// ParseColorScheme validates a scheme name. The empty string is accepted and
// means "use the layout default".
func ParseColorScheme(s string) (ColorScheme, error) {
	switch ColorScheme(s) {
	case "", SchemeDiverging, SchemeRadial:
		return ColorScheme(s), nil
	default:
		return "", fmt.Errorf("unknown color scheme %q", s)
	}
}
