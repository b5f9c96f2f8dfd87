// Copyright 2025 The Concatenator Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package stepbar implements a step progress bar: an ordered list of labelled
// steps laid out horizontally, each with a status indicator, joined by lines
// that show how far the user got. Painting goes through the Canvas interface
// so the same bar can be rendered to a terminal or to an image.
//
// A Bar is not safe for concurrent use. All calls, including the timer tick,
// are expected to come from the host's event loop.
package stepbar

import (
	"time"
	"unicode/utf8"
)

// Geometry holds the spacing constants of the bar, in host units.
type Geometry struct {
	TextPadding      float64
	VerticalPadding  float64
	IndicatorPadding float64
	IndicatorRadius  float64
	TimerInterval    time.Duration
	AnimationPeriod  time.Duration
}

// DefaultGeometry returns the pixel geometry used by raster hosts.
func DefaultGeometry() Geometry {
	return Geometry{
		TextPadding:      20,
		VerticalPadding:  4,
		IndicatorPadding: 6,
		IndicatorRadius:  6,
		TimerInterval:    10 * time.Millisecond,
		AnimationPeriod:  time.Second,
	}
}

// Bar is the step progress bar controller.
type Bar struct {
	steps  []*Step
	keys   map[string]int
	active int

	metrics  FontMetrics
	palette  Palette
	geometry Geometry
	timer    Timer
	repaint  func()
	now      func() time.Time
}

// Option configures a Bar.
type Option func(*Bar)

// WithFont sets the font metrics used to measure labels.
func WithFont(m FontMetrics) Option {
	return func(b *Bar) {
		if m != nil {
			b.metrics = m
		}
	}
}

// WithPalette sets the colours.
func WithPalette(p Palette) Option {
	return func(b *Bar) { b.palette = p }
}

// WithGeometry sets the spacing constants.
func WithGeometry(g Geometry) Option {
	return func(b *Bar) { b.geometry = g }
}

// WithTimer sets the timer that drives animation.
func WithTimer(t Timer) Option {
	return func(b *Bar) {
		if t != nil {
			b.timer = t
		}
	}
}

// WithRepaint sets the callback used to ask the host for a repaint.
func WithRepaint(fn func()) Option {
	return func(b *Bar) { b.repaint = fn }
}

// WithClock overrides the wall clock used for animation.
func WithClock(now func() time.Time) Option {
	return func(b *Bar) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates an empty bar.
func New(options ...Option) *Bar {
	b := &Bar{
		keys:     make(map[string]int),
		active:   -1,
		metrics:  runeMetrics{},
		palette:  DefaultPalette(),
		geometry: DefaultGeometry(),
		timer:    &idleTimer{},
		now:      time.Now,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// AddStep appends a pending step and returns its index. A non-empty key can
// later be passed to ActivateKey. The new step becomes the Final marker.
func (b *Bar) AddStep(key, label string, weight int) int {
	if weight < 0 {
		weight = 0
	}
	step := &Step{Label: label, Weight: weight, Status: StatusPending}
	step.measure(b.metrics)

	if last := len(b.steps) - 1; last >= 0 && b.steps[last].Status == StatusFinal {
		b.steps[last].Status = b.traversalStatus(last)
	}

	pastEnd := b.active >= len(b.steps)
	b.steps = append(b.steps, step)
	index := len(b.steps) - 1
	step.Status = StatusFinal
	if pastEnd {
		b.active = len(b.steps)
	}
	if key != "" {
		b.keys[key] = index
	}
	return index
}

// SetSteps replaces all steps with unweighted, unkeyed steps.
func (b *Bar) SetSteps(labels ...string) {
	b.timer.Stop()
	b.steps = nil
	b.keys = make(map[string]int)
	b.active = -1
	for _, label := range labels {
		b.AddStep("", label, 1)
	}
}

// traversalStatus is the status step i has when it is not the Final marker.
func (b *Bar) traversalStatus(i int) Status {
	switch {
	case i < b.active:
		return StatusComplete
	case i == b.active:
		return StatusActive
	default:
		return StatusPending
	}
}

// SetLabel changes the label of step i. Out-of-range indices are ignored.
func (b *Bar) SetLabel(i int, text string) {
	if i < 0 || i >= len(b.steps) {
		return
	}
	b.steps[i].SetLabel(text)
	b.steps[i].measure(b.metrics)
}

// SetFont replaces the font metrics and remeasures every label.
func (b *Bar) SetFont(m FontMetrics) {
	if m == nil {
		return
	}
	b.metrics = m
	for _, step := range b.steps {
		step.measure(m)
	}
}

// SetPalette replaces the colours.
func (b *Bar) SetPalette(p Palette) { b.palette = p }

// Palette returns the colours.
func (b *Bar) Palette() Palette { return b.palette }

// Geometry returns the spacing constants.
func (b *Bar) Geometry() Geometry { return b.geometry }

// ActivateKey activates the step registered under key. An unknown key
// deactivates the bar.
func (b *Bar) ActivateKey(key string) {
	index, ok := b.keys[key]
	if !ok {
		index = -1
	}
	b.ActivateIndex(index)
}

// ActivateIndex makes step index the current step. The index is clamped to
// [-1, Len()]; -1 means nothing is active and Len() means every step is done.
func (b *Bar) ActivateIndex(index int) {
	n := len(b.steps)
	index = min(max(index, -1), n)
	for i, step := range b.steps {
		switch {
		case i == n-1:
			step.Status = StatusFinal
		case i < index:
			step.Status = StatusComplete
		default:
			step.Status = StatusPending
		}
	}
	b.active = index
	b.timer.Stop()
	if index >= 0 && index < n {
		b.steps[index].Status = StatusActive
	}
	b.Repaint()
}

// ActivateNext activates the step after the current one.
func (b *Bar) ActivateNext() { b.ActivateIndex(b.active + 1) }

// ActivatePrevious activates the step before the current one.
func (b *Bar) ActivatePrevious() { b.ActivateIndex(b.active - 1) }

// SetStatus sets the status of the current step. It is a no-op when no step
// is current. The animation timer runs only while the status is ongoing.
func (b *Bar) SetStatus(status Status) {
	if b.active < 0 || b.active >= len(b.steps) {
		b.timer.Stop()
		return
	}
	b.steps[b.active].Status = status
	if status.Animated() {
		b.timer.Start(b.geometry.TimerInterval, b.Repaint)
	} else {
		b.timer.Stop()
	}
	b.Repaint()
}

// SetActive marks the current step as active.
func (b *Bar) SetActive() { b.SetStatus(StatusActive) }

// SetOngoing marks the current step as ongoing and starts the animation.
func (b *Bar) SetOngoing() { b.SetStatus(StatusOngoing) }

// SetFailed marks the current step as failed.
func (b *Bar) SetFailed() { b.SetStatus(StatusFailed) }

// Repaint asks the host to repaint. It is also the timer tick handler.
func (b *Bar) Repaint() {
	if b.repaint != nil {
		b.repaint()
	}
}

// Animating reports whether the repaint timer is running.
func (b *Bar) Animating() bool { return b.timer.Running() }

// Active returns the index of the current step, in [-1, Len()].
func (b *Bar) Active() int { return b.active }

// Len returns the number of steps.
func (b *Bar) Len() int { return len(b.steps) }

// Index returns the index registered for key.
func (b *Bar) Index(key string) (int, bool) {
	i, ok := b.keys[key]
	return i, ok
}

// Step returns a copy of step i.
func (b *Bar) Step(i int) (Step, bool) {
	if i < 0 || i >= len(b.steps) {
		return Step{}, false
	}
	return *b.steps[i], true
}

// Steps returns copies of all steps.
func (b *Bar) Steps() []Step {
	out := make([]Step, len(b.steps))
	for i, step := range b.steps {
		out[i] = *step
	}
	return out
}

// Statuses returns the status of every step in order.
func (b *Bar) Statuses() []Status {
	out := make([]Status, len(b.steps))
	for i, step := range b.steps {
		out[i] = step.Status
	}
	return out
}

func (b *Bar) ensureWidths() {
	for _, step := range b.steps {
		if !step.widthValid {
			step.measure(b.metrics)
		}
	}
}

func (b *Bar) widths() []float64 {
	b.ensureWidths()
	widths := make([]float64, len(b.steps))
	for i, step := range b.steps {
		widths[i] = step.width
	}
	return widths
}

// MinimumWidth is the width needed to show every label.
func (b *Bar) MinimumWidth() float64 {
	return MinimumWidth(b.widths(), b.geometry.TextPadding)
}

// MinimumHeight is the height needed for a line of text above the indicators.
func (b *Bar) MinimumHeight() float64 {
	return b.metrics.Height() + 2*b.geometry.IndicatorRadius + 3*b.geometry.VerticalPadding
}

// SizeHint reports the minimum footprint of the bar.
func (b *Bar) SizeHint() Size {
	return Size{Width: b.MinimumWidth(), Height: b.MinimumHeight()}
}

// Layout positions every step for the given width and returns the anchors.
func (b *Bar) Layout(width float64) []float64 {
	widths := b.widths()
	weights := make([]int, len(b.steps))
	for i, step := range b.steps {
		weights[i] = step.Weight
	}
	anchors := Layout(widths, weights, width, b.geometry.TextPadding)
	for i, step := range b.steps {
		step.x = anchors[i]
	}
	return anchors
}

// Draw paints the bar onto c for a surface of the given size.
func (b *Bar) Draw(c Canvas, width, height float64) {
	if len(b.steps) == 0 {
		return
	}
	g := b.geometry
	anchors := b.Layout(width)

	extraHeight := height - b.MinimumHeight()
	textY := extraHeight/2 + g.VerticalPadding + b.metrics.Ascent()
	lineY := height - extraHeight/2 - g.VerticalPadding - g.IndicatorRadius
	now := b.now()

	for _, step := range b.steps {
		step.DrawText(c, b.palette, textY)
	}
	for _, step := range b.steps {
		step.DrawIndicator(c, b.palette, lineY, g.IndicatorRadius, now, g.AnimationPeriod)
	}
	activeX := activeAnchor(anchors, b.active)
	for _, seg := range Segments(anchors, g.IndicatorRadius, g.IndicatorPadding, activeX) {
		pen := Pen{Color: b.palette.Base, Width: 1}
		if seg.Complete {
			pen = Pen{Color: b.palette.Bold, Width: 2}
		}
		c.Line(seg.X1, lineY, seg.X2, lineY, pen)
	}
}

// runeMetrics treats every rune as one unit wide. It is the fallback when no
// font is configured.
type runeMetrics struct{}

func (runeMetrics) Advance(s string) float64 { return float64(utf8.RuneCountInString(s)) }
func (runeMetrics) Height() float64          { return 1 }
func (runeMetrics) Ascent() float64          { return 1 }
