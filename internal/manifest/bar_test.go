package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

func TestManifestPalette(t *testing.T) {
	m := &Manifest{Theme: Theme{Bold: "#000000", Base: "#808080", Alert: "#ff0000"}}

	p, err := m.Palette()
	require.NoError(t, err)
	assert.Equal(t, "#000000", stepbar.Hex(p.Bold))
	assert.Equal(t, "#808080", stepbar.Hex(p.Base))
	assert.Equal(t, "#ff0000", stepbar.Hex(p.Alert))
	assert.NotEqual(t, stepbar.Hex(p.Base), stepbar.Hex(p.Weak), "weak is derived from base")

	m.Theme.Weak = "#eeeeee"
	p, err = m.Palette()
	require.NoError(t, err)
	assert.Equal(t, "#eeeeee", stepbar.Hex(p.Weak))

	empty := &Manifest{}
	p, err = empty.Palette()
	require.NoError(t, err)
	assert.Equal(t, stepbar.Hex(stepbar.DefaultPalette().Bold), stepbar.Hex(p.Bold))

	bad := &Manifest{Theme: Theme{Bold: "black"}}
	_, err = bad.Palette()
	assert.ErrorContains(t, err, "invalid bold colour")
}

func TestManifestBackground(t *testing.T) {
	c, err := (&Manifest{}).Background()
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", stepbar.Hex(c))

	c, err = (&Manifest{Theme: Theme{Background: "#101010"}}).Background()
	require.NoError(t, err)
	assert.Equal(t, "#101010", stepbar.Hex(c))

	_, err = (&Manifest{Theme: Theme{Background: "white"}}).Background()
	assert.Error(t, err)
}

func TestManifestGeometry(t *testing.T) {
	base := stepbar.DefaultGeometry()

	g, err := (&Manifest{}).Geometry(base)
	require.NoError(t, err)
	assert.Equal(t, base, g)

	m := &Manifest{Layout: Layout{
		TextPadding:     8,
		IndicatorRadius: 3,
		TimerInterval:   "25ms",
		AnimationPeriod: "1.5s",
	}}
	g, err = m.Geometry(base)
	require.NoError(t, err)
	assert.Equal(t, 8.0, g.TextPadding)
	assert.Equal(t, base.VerticalPadding, g.VerticalPadding)
	assert.Equal(t, 3.0, g.IndicatorRadius)
	assert.Equal(t, 25*time.Millisecond, g.TimerInterval)
	assert.Equal(t, 1500*time.Millisecond, g.AnimationPeriod)

	m.Layout.AnimationPeriod = "soon"
	_, err = m.Geometry(base)
	assert.ErrorContains(t, err, "layout.animationPeriod")
}

func TestManifestAddSteps(t *testing.T) {
	m := &Manifest{Steps: []Step{
		{Key: "input", Label: "Input"},
		{Key: "align", Label: "Align", Weight: ptr.To(3)},
		{Label: "Export"},
	}}
	b := stepbar.New()

	m.AddSteps(b)

	require.Equal(t, 3, b.Len())
	i, ok := b.Index("align")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	s, _ := b.Step(1)
	assert.Equal(t, 3, s.Weight)
	s, _ = b.Step(0)
	assert.Equal(t, DefaultWeight, s.Weight)
}
