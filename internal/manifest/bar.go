package manifest

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cast"
	"k8s.io/utils/ptr"

	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

// Palette converts the theme into bar colours. Unset colours fall back to
// the default palette and an empty weak tone is derived from base.
func (m *Manifest) Palette() (stepbar.Palette, error) {
	bold := valueOr(m.Theme.Bold, stepbar.DefaultBold)
	base := valueOr(m.Theme.Base, stepbar.DefaultBase)
	alert := valueOr(m.Theme.Alert, stepbar.DefaultAlert)
	p, err := stepbar.NewPalette(bold, base, m.Theme.Weak, alert)
	if err != nil {
		return p, fmt.Errorf("invalid theme: %w", err)
	}
	return p, nil
}

// Background returns the canvas colour of raster output.
func (m *Manifest) Background() (color.Color, error) {
	c, err := colorful.Hex(valueOr(m.Theme.Background, "#ffffff"))
	if err != nil {
		return nil, fmt.Errorf("invalid theme.background %q: %w", m.Theme.Background, err)
	}
	return c, nil
}

// Geometry converts the layout block. Zero spacing values and empty
// durations keep the values of base.
func (m *Manifest) Geometry(base stepbar.Geometry) (stepbar.Geometry, error) {
	g := base
	l := m.Layout
	if l.TextPadding > 0 {
		g.TextPadding = l.TextPadding
	}
	if l.VerticalPadding > 0 {
		g.VerticalPadding = l.VerticalPadding
	}
	if l.IndicatorPadding > 0 {
		g.IndicatorPadding = l.IndicatorPadding
	}
	if l.IndicatorRadius > 0 {
		g.IndicatorRadius = l.IndicatorRadius
	}
	if l.TimerInterval != "" {
		d, err := cast.ToDurationE(l.TimerInterval)
		if err != nil {
			return base, fmt.Errorf("invalid layout.timerInterval %q: %w", l.TimerInterval, err)
		}
		g.TimerInterval = d
	}
	if l.AnimationPeriod != "" {
		d, err := cast.ToDurationE(l.AnimationPeriod)
		if err != nil {
			return base, fmt.Errorf("invalid layout.animationPeriod %q: %w", l.AnimationPeriod, err)
		}
		g.AnimationPeriod = d
	}
	return g, nil
}

// AddSteps appends the steps of the definition to b.
func (m *Manifest) AddSteps(b *stepbar.Bar) {
	for _, s := range m.Steps {
		b.AddStep(s.Key, s.Label, StepWeight(s))
	}
}

// StepWeight returns the weight of s, or DefaultWeight when unset.
func StepWeight(s Step) int {
	return ptr.Deref(s.Weight, DefaultWeight)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
