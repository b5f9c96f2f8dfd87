// Package ui provides UI components for interactive flows
package ui

import (
	"fmt"

	"github.com/concatenator-dev/concatenator/internal/render/term"
	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

// ProgressTracker follows the steps of an interactive flow and draws them as
// a step bar above each form.
type ProgressTracker struct {
	bar     *stepbar.Bar
	options []term.Option
}

// NewProgressTracker creates a tracker positioned on the first of steps.
// Without steps it tracks InitSteps.
func NewProgressTracker(steps ...string) *ProgressTracker {
	if len(steps) == 0 {
		steps = InitSteps
	}
	bar := term.NewBar()
	bar.SetSteps(steps...)
	bar.ActivateIndex(0)
	return &ProgressTracker{bar: bar}
}

// WithCanvasOptions sets the options used when drawing the bar.
func (pt *ProgressTracker) WithCanvasOptions(options ...term.Option) *ProgressTracker {
	pt.options = options
	return pt
}

// Bar returns the underlying step bar.
func (pt *ProgressTracker) Bar() *stepbar.Bar { return pt.bar }

// NextStep completes the current step and moves to the next one.
func (pt *ProgressTracker) NextStep() { pt.bar.ActivateNext() }

// PreviousStep moves back one step.
func (pt *ProgressTracker) PreviousStep() { pt.bar.ActivatePrevious() }

// Fail marks the current step as failed.
func (pt *ProgressTracker) Fail() { pt.bar.SetFailed() }

// Done reports whether every step has been completed.
func (pt *ProgressTracker) Done() bool { return pt.bar.Active() >= pt.bar.Len() }

// GetCurrentStep returns the current step
func (pt *ProgressTracker) GetCurrentStep() string {
	step, ok := pt.bar.Step(pt.bar.Active())
	if !ok {
		return "Complete"
	}
	return fmt.Sprintf("Step %d/%d: %s", pt.bar.Active()+1, pt.bar.Len(), step.Label)
}

// View draws the bar width cells wide.
func (pt *ProgressTracker) View(width int) string {
	return term.Render(pt.bar, width, pt.options...).String()
}
