package term

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

func newTestBar(t *testing.T) *stepbar.Bar {
	t.Helper()
	b := NewBar(stepbar.WithClock(func() time.Time { return time.Unix(0, 0) }))
	b.AddStep("input", "Input", 1)
	b.AddStep("align", "Align", 1)
	b.AddStep("export", "Export", 1)
	return b
}

func renderPlain(b *stepbar.Bar, width int) []string {
	return strings.Split(Render(b, width, WithColorProfile(termenv.Ascii)).Plain(), "\n")
}

func TestMetrics(t *testing.T) {
	m := Metrics{}
	assert.Equal(t, 5.0, m.Advance("Input"))
	assert.Equal(t, 4.0, m.Advance("配列"))
	assert.Equal(t, 1.0, m.Height())
	assert.Equal(t, 1.0, m.Ascent())
}

func TestRenderStates(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(b *stepbar.Bar)
		labels string
		line   string
	}{
		{
			name:   "fresh",
			setup:  func(b *stepbar.Bar) {},
			labels: "  Input  Align  Export",
			line:   "    ○ ━━━━ ○ ━━━━━ ◍",
		},
		{
			name:   "second active",
			setup:  func(b *stepbar.Bar) { b.ActivateIndex(1) },
			labels: "  Input  Align  Export",
			line:   "    ● ━━━━ ◉ ───── ◍",
		},
		{
			name:   "second ongoing",
			setup:  func(b *stepbar.Bar) { b.ActivateIndex(1); b.SetOngoing() },
			labels: "  Input  Align  Export",
			line:   "    ● ━━━━ ◶ ───── ◍",
		},
		{
			name:   "second failed",
			setup:  func(b *stepbar.Bar) { b.ActivateIndex(1); b.SetFailed() },
			labels: "  Input  Align  Export",
			line:   "    ● ━━━━ ! ───── ◍",
		},
		{
			name:   "all done",
			setup:  func(b *stepbar.Bar) { b.ActivateIndex(3) },
			labels: "  Input  Align  Export",
			line:   "    ● ━━━━ ● ━━━━━ ◍",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBar(t)
			tt.setup(b)

			rows := renderPlain(b, 24)
			require.Len(t, rows, 2)
			assert.Equal(t, tt.labels, rows[0])
			assert.Equal(t, tt.line, rows[1])
		})
	}
}

func TestRenderNeverNarrowerThanMinimum(t *testing.T) {
	b := newTestBar(t)

	c := Render(b, 3)

	assert.Equal(t, 24, c.Width())
	assert.Equal(t, 2, c.Height())
}

func TestRenderWideLabels(t *testing.T) {
	b := NewBar()
	b.AddStep("", "配列", 1)
	b.AddStep("", "End", 1)

	rows := renderPlain(b, 13)

	require.Len(t, rows, 2)
	assert.Equal(t, "  配列  End", rows[0])
}

func TestArcGlyphFollowsAngle(t *testing.T) {
	tests := []struct {
		start float64
		want  rune
	}{
		{start: -50, want: '◶'},
		{start: 60, want: '◷'},
		{start: 150, want: '◴'},
		{start: 250, want: '◵'},
		{start: 340, want: '◶'},
	}

	for _, tt := range tests {
		c := NewCanvas(1, 1, WithColorProfile(termenv.Ascii))
		c.Arc(0.5, 0.5, 0.5, tt.start, stepbar.ArcSweep, stepbar.Pen{Color: color.Black, Width: 2})
		assert.Equal(t, string(tt.want), c.Plain(), "start %v", tt.start)
	}
}

func TestStyledOutputCarriesEscapes(t *testing.T) {
	b := newTestBar(t)
	b.ActivateIndex(1)

	styled := Render(b, 24, WithColorProfile(termenv.TrueColor)).String()
	plain := Render(b, 24, WithColorProfile(termenv.Ascii)).String()

	assert.Contains(t, styled, "\x1b[")
	assert.NotContains(t, plain, "\x1b[")
	assert.Equal(t, Render(b, 24).Plain(), plain)
}

func TestCanvasClipsOutOfBounds(t *testing.T) {
	c := NewCanvas(3, 1, WithColorProfile(termenv.Ascii))

	assert.NotPanics(t, func() {
		c.Text(-10, 1, "far left", stepbar.TextStyle{Color: color.Black})
		c.Line(-5, 0.5, 50, 0.5, stepbar.Pen{Color: color.Black, Width: 1})
		c.Circle(40, 9, 0.5, stepbar.Pen{Color: color.Black, Width: 1}, nil)
	})
	assert.Equal(t, "───", c.Plain())
}
