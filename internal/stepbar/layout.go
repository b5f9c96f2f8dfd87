package stepbar

import "math"

// MinimumWidth is the width needed to show every label with textPadding
// between and around them.
func MinimumWidth(widths []float64, textPadding float64) float64 {
	total := textPadding * float64(len(widths)+1)
	for _, w := range widths {
		total += w
	}
	return total
}

// Layout returns the horizontal anchor of every step. Space beyond the
// minimum width is shared between the gaps after each step in proportion to
// its weight; the last step's weight is ignored. A negative surplus is
// distributed the same way, so labels overlap instead of failing.
func Layout(widths []float64, weights []int, available, textPadding float64) []float64 {
	anchors := make([]float64, len(widths))
	if len(widths) == 0 {
		return anchors
	}

	totalWeight := 0
	for i := 0; i < len(widths)-1 && i < len(weights); i++ {
		totalWeight += weights[i]
	}
	extra := available - MinimumWidth(widths, textPadding)

	cursor := 0.0
	for i, w := range widths {
		cursor += textPadding
		cursor += w / 2
		anchors[i] = cursor
		cursor += w / 2
		if totalWeight != 0 && i < len(weights) {
			cursor += float64(weights[i]) / float64(totalWeight) * extra
		}
	}
	return anchors
}

// Segment is the connecting line between two adjacent indicators.
type Segment struct {
	X1, X2   float64
	Complete bool
}

// Segments returns the connecting lines between adjacent anchors. A segment
// is complete when its right end lies strictly left of activeX.
func Segments(anchors []float64, radius, indicatorPadding, activeX float64) []Segment {
	if len(anchors) < 2 {
		return nil
	}
	segments := make([]Segment, 0, len(anchors)-1)
	for i := 0; i+1 < len(anchors); i++ {
		x1 := anchors[i] + radius + indicatorPadding
		x2 := anchors[i+1] - radius - indicatorPadding
		segments = append(segments, Segment{X1: x1, X2: x2, Complete: x2 < activeX})
	}
	return segments
}

// activeAnchor picks the reference position for segment completeness. With
// no current step the last anchor is used, so every segment is complete;
// past the end everything is too.
func activeAnchor(anchors []float64, active int) float64 {
	switch {
	case len(anchors) == 0:
		return math.Inf(1)
	case active < 0:
		return anchors[len(anchors)-1]
	case active >= len(anchors):
		return math.Inf(1)
	default:
		return anchors[active]
	}
}
