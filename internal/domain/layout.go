package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLayout is returned by Layout.Validate.
var ErrInvalidLayout = errors.New("invalid layout")

// LayoutKind identifies a Layout variant.
type LayoutKind string

const (
	// KindRing is the flat 2D spiral of concentric month rings.
	KindRing LayoutKind = "ring"
	// KindHelix is the 3D spiral that rises one step per year.
	KindHelix LayoutKind = "helix"
)

// Point is a position in layout space. Ring layouts leave Z at zero.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Layout places observations in space. It is implemented only by RingLayout
// and HelixLayout.
type Layout interface {
	Kind() LayoutKind
	// Validate reports whether the layout constants are usable.
	Validate() error

	radii() (zero, one float64)
	scheme() ColorScheme
	place(angle, radius float64, index, total int) Point
}

// RingLayout is the flat 2D spiral drawn on a canvas.
type RingLayout struct {
	// ZeroRadius is the radius of a zero anomaly.
	ZeroRadius float64 `yaml:"zero_radius" json:"zero_radius"`
	// OneRadius is the radius of a +1 anomaly. Zero means 2·ZeroRadius.
	OneRadius float64 `yaml:"one_radius" json:"one_radius"`
	CenterX   float64 `yaml:"center_x" json:"center_x"`
	CenterY   float64 `yaml:"center_y" json:"center_y"`
	// Scheme defaults to SchemeDiverging.
	Scheme ColorScheme `yaml:"scheme" json:"scheme"`
	// FollowRing draws each segment's end point at the first month's
	// NextAngle instead of the second observation's own angle.
	FollowRing bool `yaml:"follow_ring" json:"follow_ring"`
}

// Kind implements Layout.
func (RingLayout) Kind() LayoutKind { return KindRing }

// Validate implements Layout.
func (l RingLayout) Validate() error {
	return validateRadii(l.ZeroRadius, l.OneRadius, l.Scheme)
}

func (l RingLayout) radii() (float64, float64) { return resolveRadii(l.ZeroRadius, l.OneRadius) }

func (l RingLayout) scheme() ColorScheme {
	if l.Scheme == "" {
		return SchemeDiverging
	}
	return l.Scheme
}

func (l RingLayout) place(angle, radius float64, _, _ int) Point {
	return Point{
		X: l.CenterX + radius*math.Cos(angle),
		Y: l.CenterY + radius*math.Sin(angle),
	}
}

// HelixLayout is the 3D spiral: the ring in the XZ plane with chronological
// position along Y.
type HelixLayout struct {
	ZeroRadius float64 `yaml:"zero_radius" json:"zero_radius"`
	// OneRadius is the radius of a +1 anomaly. Zero means 2·ZeroRadius.
	OneRadius    float64 `yaml:"one_radius" json:"one_radius"`
	SpiralHeight float64 `yaml:"spiral_height" json:"spiral_height"`
	// Scheme defaults to SchemeRadial.
	Scheme ColorScheme `yaml:"scheme" json:"scheme"`
}

// Kind implements Layout.
func (HelixLayout) Kind() LayoutKind { return KindHelix }

// Validate implements Layout.
func (l HelixLayout) Validate() error {
	if l.SpiralHeight < 0 || math.IsNaN(l.SpiralHeight) {
		return fmt.Errorf("%w: spiral height %v", ErrInvalidLayout, l.SpiralHeight)
	}
	return validateRadii(l.ZeroRadius, l.OneRadius, l.Scheme)
}

func (l HelixLayout) radii() (float64, float64) { return resolveRadii(l.ZeroRadius, l.OneRadius) }

func (l HelixLayout) scheme() ColorScheme {
	if l.Scheme == "" {
		return SchemeRadial
	}
	return l.Scheme
}

func (l HelixLayout) place(angle, radius float64, index, total int) Point {
	return Point{
		X: radius * math.Cos(angle),
		Y: l.Height(index, total),
		Z: radius * math.Sin(angle),
	}
}

// Height returns the Y coordinate of observation index out of total.
func (l HelixLayout) Height(index, total int) float64 {
	if total <= 0 {
		return -l.SpiralHeight / 2
	}
	return l.SpiralHeight * (float64(index)/float64(total) - 0.5)
}

// Radius returns the distance from the axis at which an anomaly is drawn.
func Radius(layout Layout, value float64) float64 {
	zero, one := layout.radii()
	return zero + value*(one-zero)
}

// OneRadius returns the effective +1 anomaly radius of a layout.
func OneRadius(layout Layout) float64 {
	_, one := layout.radii()
	return one
}

// SchemeOf returns the effective color scheme of a layout.
func SchemeOf(layout Layout) ColorScheme {
	return layout.scheme()
}

// ColorFor returns the layout's color for an anomaly value.
func ColorFor(layout Layout, value float64) Color {
	if layout.scheme() == SchemeRadial {
		zero, one := layout.radii()
		return ColorForRadius(Radius(layout, value), zero, one)
	}
	return ColorForAnomaly(value)
}

func resolveRadii(zero, one float64) (float64, float64) {
	if one == 0 {
		one = 2 * zero
	}
	return zero, one
}

func validateRadii(zero, one float64, scheme ColorScheme) error {
	if !(zero > 0) || math.IsInf(zero, 0) {
		return fmt.Errorf("%w: zero radius must be positive, got %v", ErrInvalidLayout, zero)
	}
	if one != 0 && !(one > zero) {
		return fmt.Errorf("%w: one radius %v must exceed zero radius %v", ErrInvalidLayout, one, zero)
	}
	if _, err := ParseColorScheme(string(scheme)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return nil
}
