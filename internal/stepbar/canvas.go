package stepbar

import "image/color"

// Pen describes how outlines and lines are stroked.
type Pen struct {
	Color color.Color
	Width float64
}

// TextStyle describes how a label is drawn.
type TextStyle struct {
	Color color.Color
	Bold  bool
}

// Canvas is the drawing surface a host hands to the bar on every paint.
// Coordinates are in host units with y growing downward; angles are in
// degrees, clockwise from three o'clock.
type Canvas interface {
	// Line strokes a straight segment.
	Line(x1, y1, x2, y2 float64, pen Pen)
	// Circle strokes a circle and fills it when fill is non-nil.
	Circle(cx, cy, r float64, pen Pen, fill color.Color)
	// Arc strokes sweep degrees of a circle starting at start.
	Arc(cx, cy, r, start, sweep float64, pen Pen)
	// Text draws s centred on x with its baseline on y.
	Text(x, y float64, s string, style TextStyle)
}

// FontMetrics measures text in the host font.
type FontMetrics interface {
	// Advance returns the horizontal advance of s.
	Advance(s string) float64
	// Height returns the line height.
	Height() float64
	// Ascent returns the distance from the top of a line to its baseline.
	Ascent() float64
}

// Size is a width/height pair in host units.
type Size struct {
	Width  float64
	Height float64
}
