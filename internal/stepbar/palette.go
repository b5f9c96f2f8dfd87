package stepbar

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the tones used to paint the bar.
type Palette struct {
	// Bold paints active parts.
	Bold color.Color
	// Base paints inactive parts.
	Base color.Color
	// Weak paints background parts.
	Weak color.Color
	// Alert paints failed steps.
	Alert color.Color
}

// Default theme colours.
const (
	DefaultBold  = "#1e1e1e"
	DefaultBase  = "#7a7a7a"
	DefaultAlert = "#d43c3c"

	// WeakFactor is the percentage by which Weak is lighter than Base.
	WeakFactor = 140
)

// DefaultPalette returns the light theme palette.
func DefaultPalette() Palette {
	p, _ := NewPalette(DefaultBold, DefaultBase, "", DefaultAlert)
	return p
}

// NewPalette parses hex colours into a palette. An empty weak colour is
// derived from base.
func NewPalette(bold, base, weak, alert string) (Palette, error) {
	var p Palette
	b, err := colorful.Hex(bold)
	if err != nil {
		return p, fmt.Errorf("invalid bold colour %q: %w", bold, err)
	}
	m, err := colorful.Hex(base)
	if err != nil {
		return p, fmt.Errorf("invalid base colour %q: %w", base, err)
	}
	a, err := colorful.Hex(alert)
	if err != nil {
		return p, fmt.Errorf("invalid alert colour %q: %w", alert, err)
	}
	w := Lighter(m, WeakFactor)
	if weak != "" {
		if w, err = colorful.Hex(weak); err != nil {
			return p, fmt.Errorf("invalid weak colour %q: %w", weak, err)
		}
	}
	return Palette{Bold: b, Base: m, Weak: w, Alert: a}, nil
}

// Lighter scales the HSV value of c by factor percent, the way widget
// toolkits derive a lighter shade from a theme role. Saturation is reduced
// when the value saturates so that the shade keeps getting lighter.
func Lighter(c colorful.Color, factor float64) colorful.Color {
	if factor <= 0 {
		return c
	}
	h, s, v := c.Hsv()
	v *= factor / 100
	if v > 1 {
		s -= v - 1
		if s < 0 {
			s = 0
		}
		v = 1
	}
	return colorful.Hsv(h, s, v).Clamped()
}

// Hex formats any colour as #rrggbb.
func Hex(c color.Color) string {
	if c == nil {
		return ""
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}
