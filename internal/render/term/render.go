package term

import (
	"math"

	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

// Rows returns the number of rows the bar needs.
func Rows(b *stepbar.Bar) int {
	return int(math.Ceil(b.MinimumHeight()))
}

// Render paints b onto a fresh canvas width columns wide. A width below the
// bar's minimum is widened so that labels never overlap.
func Render(b *stepbar.Bar, width int, options ...Option) *Canvas {
	width = max(width, int(math.Ceil(b.MinimumWidth())))
	c := NewCanvas(width, Rows(b), options...)
	b.Draw(c, float64(width), float64(c.Height()))
	return c
}

// NewBar creates a bar measured in terminal cells.
func NewBar(options ...stepbar.Option) *stepbar.Bar {
	base := []stepbar.Option{
		stepbar.WithFont(Metrics{}),
		stepbar.WithGeometry(DefaultGeometry()),
	}
	return stepbar.New(append(base, options...)...)
}
