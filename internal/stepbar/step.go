package stepbar

import "time"

// Step holds the data for one step of the bar. Width and X are caches owned
// by the Bar and recomputed before use.
type Step struct {
	Label  string
	Weight int
	Status Status

	width      float64
	widthValid bool
	x          float64
}

// SetLabel replaces the label and invalidates the cached text width.
func (s *Step) SetLabel(text string) {
	s.Label = text
	s.widthValid = false
}

// Width returns the cached text width of the label.
func (s *Step) Width() float64 { return s.width }

// X returns the anchor computed by the last layout pass.
func (s *Step) X() float64 { return s.x }

func (s *Step) measure(m FontMetrics) {
	s.width = m.Advance(s.Label)
	s.widthValid = true
}

// DrawText draws the label with the rule of the current status.
func (s *Step) DrawText(c Canvas, p Palette, y float64) {
	s.Status.DrawText(c, p, s.Label, s.x, y)
}

// DrawIndicator draws the indicator with the rule of the current status.
func (s *Step) DrawIndicator(c Canvas, p Palette, y, radius float64, now time.Time, period time.Duration) {
	s.Status.DrawIndicator(c, p, s.x, y, radius, now, period)
}
