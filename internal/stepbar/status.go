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

package stepbar

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Status is the visual state of a single step.
type Status int

const (
	// StatusPending marks a step that has not been reached yet.
	StatusPending Status = iota
	// StatusActive marks the current step while no background work runs.
	StatusActive
	// StatusOngoing marks the current step while background work runs. It is
	// the only animated status.
	StatusOngoing
	// StatusFailed marks the current step when its work errored.
	StatusFailed
	// StatusComplete marks a step that lies before the current one.
	StatusComplete
	// StatusFinal marks the last step of the sequence.
	StatusFinal
)

var statusNames = map[Status]string{
	StatusPending:  "pending",
	StatusActive:   "active",
	StatusOngoing:  "ongoing",
	StatusFailed:   "failed",
	StatusComplete: "complete",
	StatusFinal:    "final",
}

// String returns the lowercase name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus converts a status name into a Status.
func ParseStatus(name string) (Status, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return StatusPending, fmt.Errorf("unknown status %q (valid: %s)", name, strings.Join(StatusNames(), ", "))
}

// StatusNames lists every status name in declaration order.
func StatusNames() []string {
	names := make([]string, 0, len(statusNames))
	for s := StatusPending; s <= StatusFinal; s++ {
		names = append(names, statusNames[s])
	}
	return names
}

// IsCurrent reports whether the status can only be held by the current step.
func (s Status) IsCurrent() bool {
	return s == StatusActive || s == StatusOngoing || s == StatusFailed
}

// Animated reports whether the status needs continuous repainting.
func (s Status) Animated() bool { return s == StatusOngoing }

// BoldText reports whether labels in this status are drawn in bold.
func (s Status) BoldText() bool { return s.IsCurrent() }

// ArcSweep is the angular length, in degrees, of the rotating arc drawn for
// ongoing steps.
const ArcSweep = 100.0

// ArcAngle maps wall-clock time onto a rotation angle in degrees. No frame
// state is kept between repaints, so dropped ticks do not cause drift.
func ArcAngle(now time.Time, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	phase := now.UnixNano() % int64(period)
	if phase < 0 {
		phase += int64(period)
	}
	return float64(phase) / float64(period) * 360
}

// DrawIndicator draws the status indicator centred on (cx, cy).
func (s Status) DrawIndicator(c Canvas, p Palette, cx, cy, radius float64, now time.Time, period time.Duration) {
	switch s {
	case StatusPending:
		c.Circle(cx, cy, radius, Pen{Color: p.Base, Width: 1}, nil)
	case StatusComplete:
		c.Circle(cx, cy, radius, Pen{Color: p.Bold, Width: 1}, p.Bold)
	case StatusActive:
		c.Circle(cx, cy, radius, Pen{Color: p.Bold, Width: 2}, nil)
		c.Circle(cx, cy, radius/2, Pen{Color: p.Bold, Width: 1}, p.Bold)
	case StatusOngoing:
		c.Circle(cx, cy, radius, Pen{Color: p.Weak, Width: 2}, nil)
		c.Arc(cx, cy, radius, ArcAngle(now, period), ArcSweep, Pen{Color: p.Bold, Width: 2})
	case StatusFailed:
		c.Circle(cx, cy, radius, Pen{Color: p.Alert, Width: 2}, nil)
		// warning mark: stem and dot
		c.Line(cx, cy-radius*0.55, cx, cy+radius*0.1, Pen{Color: p.Alert, Width: 2})
		c.Circle(cx, cy+radius*0.45, math.Max(radius*0.12, 0.5), Pen{Color: p.Alert, Width: 1}, p.Alert)
	case StatusFinal:
		c.Circle(cx, cy, radius, Pen{Color: p.Base, Width: 1}, p.Weak)
	}
}

// DrawText draws label centred horizontally on x with its baseline on y.
func (s Status) DrawText(c Canvas, p Palette, label string, x, y float64) {
	style := TextStyle{Color: p.Base, Bold: s.BoldText()}
	switch s {
	case StatusActive, StatusOngoing, StatusComplete:
		style.Color = p.Bold
	case StatusFailed:
		style.Color = p.Alert
	}
	c.Text(x, y, label, style)
}
