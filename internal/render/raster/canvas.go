// Package raster paints a step bar into an image with a 2D vector context.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

// Canvas is a stepbar.Canvas backed by a gg context. Coordinates are pixels.
type Canvas struct {
	dc    *gg.Context
	fonts *Fonts
}

// NewCanvas creates a canvas of the given pixel size filled with background.
// A nil background leaves the image transparent.
func NewCanvas(width, height int, fonts *Fonts, background color.Color) *Canvas {
	dc := gg.NewContext(max(width, 1), max(height, 1))
	if background != nil {
		dc.SetColor(background)
		dc.Clear()
	}
	return &Canvas{dc: dc, fonts: fonts}
}

// Line strokes a straight segment.
func (c *Canvas) Line(x1, y1, x2, y2 float64, pen stepbar.Pen) {
	c.dc.SetColor(pen.Color)
	c.dc.SetLineWidth(pen.Width)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

// Circle strokes and optionally fills a circle.
func (c *Canvas) Circle(cx, cy, r float64, pen stepbar.Pen, fill color.Color) {
	c.dc.DrawCircle(cx, cy, r)
	if fill != nil {
		c.dc.SetColor(fill)
		c.dc.FillPreserve()
	}
	c.dc.SetColor(pen.Color)
	c.dc.SetLineWidth(pen.Width)
	c.dc.Stroke()
}

// Arc strokes part of a circle. Angles are degrees, clockwise from three
// o'clock, which is also how gg measures them on a y-down surface.
func (c *Canvas) Arc(cx, cy, r, start, sweep float64, pen stepbar.Pen) {
	c.dc.NewSubPath()
	c.dc.DrawArc(cx, cy, r, gg.Radians(start), gg.Radians(start+sweep))
	c.dc.SetColor(pen.Color)
	c.dc.SetLineWidth(pen.Width)
	c.dc.SetLineCap(gg.LineCapRound)
	c.dc.Stroke()
	c.dc.SetLineCap(gg.LineCapButt)
}

// Text draws s centred on x with its baseline on y.
func (c *Canvas) Text(x, y float64, s string, style stepbar.TextStyle) {
	if c.fonts != nil {
		c.dc.SetFontFace(c.fonts.Face(style.Bold))
	}
	c.dc.SetColor(style.Color)
	c.dc.DrawStringAnchored(s, x, y, 0.5, 0)
}

// Image returns the painted image.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the image as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := c.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes the image to path.
func (c *Canvas) SavePNG(path string) error {
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// NewBar creates a bar measured with fonts.
func NewBar(fonts *Fonts, options ...stepbar.Option) *stepbar.Bar {
	var base []stepbar.Option
	if fonts != nil {
		base = append(base, stepbar.WithFont(fonts))
	}
	return stepbar.New(append(base, options...)...)
}

// Render paints b into a new image. A zero width or height falls back to the
// bar's size hint.
func Render(b *stepbar.Bar, width, height int, fonts *Fonts, background color.Color) *Canvas {
	hint := b.SizeHint()
	if width <= 0 {
		width = int(math.Ceil(hint.Width))
	}
	if height <= 0 {
		height = int(math.Ceil(hint.Height))
	}
	c := NewCanvas(width, height, fonts, background)
	b.Draw(c, float64(width), float64(height))
	return c
}
