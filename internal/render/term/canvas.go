// Package term paints a step bar onto a grid of terminal cells.
//
// One host unit is one column horizontally and one row vertically. Shapes
// smaller than a cell are collapsed into a single glyph per cell, so the
// indicators come out as ○ ● ◉ and friends.
package term

import (
	"image/color"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

// Glyphs used for indicators and connecting lines.
const (
	GlyphOutline  = '○'
	GlyphDisc     = '●'
	GlyphDot      = '◉'
	GlyphShaded   = '◍'
	GlyphWarning  = '!'
	LineThin      = '─'
	LineThick     = '━'
	thickPenWidth = 2

	blankCell    rune = 0
	continuation rune = -1
)

// arcGlyphs are the quadrant glyphs in clockwise order, starting with the
// quadrant below and to the right of the centre.
var arcGlyphs = [4]rune{'◶', '◷', '◴', '◵'}

// DefaultGeometry returns spacing constants measured in cells.
func DefaultGeometry() stepbar.Geometry {
	return stepbar.Geometry{
		TextPadding:      2,
		VerticalPadding:  0,
		IndicatorPadding: 1,
		IndicatorRadius:  0.5,
		TimerInterval:    100 * time.Millisecond,
		AnimationPeriod:  time.Second,
	}
}

// Metrics measures labels in terminal columns.
type Metrics struct{}

// Advance returns the display width of s.
func (Metrics) Advance(s string) float64 { return float64(runewidth.StringWidth(s)) }

// Height is one row.
func (Metrics) Height() float64 { return 1 }

// Ascent is one row; text baselines sit on the bottom edge of their row.
func (Metrics) Ascent() float64 { return 1 }

type attr struct {
	fg   string
	bold bool
}

type cell struct {
	r    rune
	attr attr
}

// indicator accumulates the primitives drawn into one cell before they are
// turned into a glyph.
type indicator struct {
	outline  attr
	fill     string
	filled   bool
	dot      bool
	arc      float64
	hasArc   bool
	warning  bool
	warnAttr attr
}

type point struct{ row, col int }

// Canvas is a stepbar.Canvas backed by a cell grid.
type Canvas struct {
	width, height int
	cells         [][]cell
	indicators    map[point]*indicator
	renderer      *lipgloss.Renderer
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithRenderer sets the lipgloss renderer used to style cells.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(c *Canvas) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithColorProfile forces a colour profile, e.g. termenv.Ascii for plain text.
func WithColorProfile(p termenv.Profile) Option {
	return func(c *Canvas) {
		r := lipgloss.NewRenderer(io.Discard)
		r.SetColorProfile(p)
		c.renderer = r
	}
}

// NewCanvas creates an empty canvas of width columns and height rows.
func NewCanvas(width, height int, options ...Option) *Canvas {
	width = max(width, 0)
	height = max(height, 0)
	c := &Canvas{
		width:      width,
		height:     height,
		cells:      make([][]cell, height),
		indicators: make(map[point]*indicator),
		renderer:   lipgloss.DefaultRenderer(),
	}
	for i := range c.cells {
		c.cells[i] = make([]cell, width)
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Width returns the number of columns.
func (c *Canvas) Width() int { return c.width }

// Height returns the number of rows.
func (c *Canvas) Height() int { return c.height }

func (c *Canvas) inside(row, col int) bool {
	return row >= 0 && row < c.height && col >= 0 && col < c.width
}

func (c *Canvas) set(row, col int, r rune, a attr) {
	if c.inside(row, col) {
		c.cells[row][col] = cell{r: r, attr: a}
	}
}

func (c *Canvas) indicatorAt(cx, cy float64) *indicator {
	p := point{row: int(math.Floor(cy)), col: int(math.Floor(cx))}
	ind, ok := c.indicators[p]
	if !ok {
		ind = &indicator{}
		c.indicators[p] = ind
	}
	return ind
}

func colorAttr(col color.Color, bold bool) attr {
	return attr{fg: stepbar.Hex(col), bold: bold}
}

// Line draws a horizontal run of line glyphs. A short vertical stroke inside
// an indicator cell is read as a warning mark.
func (c *Canvas) Line(x1, y1, x2, y2 float64, pen stepbar.Pen) {
	if x1 == x2 {
		if y1 == y2 {
			return
		}
		ind := c.indicatorAt(x1, (y1+y2)/2)
		ind.warning = true
		ind.warnAttr = colorAttr(pen.Color, true)
		return
	}
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	glyph := LineThin
	if pen.Width >= thickPenWidth {
		glyph = LineThick
	}
	row := int(math.Floor((y1 + y2) / 2))
	a := colorAttr(pen.Color, false)
	for col := int(math.Floor(x1)); col < int(math.Ceil(x2)); col++ {
		c.set(row, col, glyph, a)
	}
}

// Circle records an outline, or an inner dot when a smaller filled circle
// lands on a cell that already holds an outline.
func (c *Canvas) Circle(cx, cy, r float64, pen stepbar.Pen, fill color.Color) {
	ind := c.indicatorAt(cx, cy)
	if ind.outline.fg != "" && fill != nil {
		if ind.warning {
			return
		}
		ind.dot = true
		return
	}
	ind.outline = colorAttr(pen.Color, pen.Width >= thickPenWidth)
	if fill != nil {
		ind.filled = true
		ind.fill = stepbar.Hex(fill)
	}
}

// Arc records a rotating arc on top of the cell's outline.
func (c *Canvas) Arc(cx, cy, r, start, sweep float64, pen stepbar.Pen) {
	ind := c.indicatorAt(cx, cy)
	ind.hasArc = true
	ind.arc = math.Mod(start+sweep/2, 360)
	if ind.arc < 0 {
		ind.arc += 360
	}
	ind.outline = colorAttr(pen.Color, true)
}

// Text writes s centred on x. The baseline y is the bottom edge of the row.
func (c *Canvas) Text(x, y float64, s string, style stepbar.TextStyle) {
	row := int(math.Ceil(y)) - 1
	col := int(math.Round(x - float64(runewidth.StringWidth(s))/2))
	a := colorAttr(style.Color, style.Bold)
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.set(row, col, r, a)
		for i := 1; i < w; i++ {
			c.set(row, col+i, continuation, a)
		}
		col += w
	}
}

func (ind *indicator) glyph() (rune, attr) {
	switch {
	case ind.warning:
		return GlyphWarning, ind.warnAttr
	case ind.hasArc:
		return arcGlyphs[int(ind.arc/90)%4], ind.outline
	case ind.dot:
		return GlyphDot, ind.outline
	case ind.filled && ind.fill == ind.outline.fg:
		return GlyphDisc, ind.outline
	case ind.filled:
		return GlyphShaded, attr{fg: ind.fill}
	default:
		return GlyphOutline, ind.outline
	}
}

func (c *Canvas) flush() {
	for p, ind := range c.indicators {
		r, a := ind.glyph()
		c.set(p.row, p.col, r, a)
	}
	clear(c.indicators)
}

func (c *Canvas) style(a attr) lipgloss.Style {
	s := c.renderer.NewStyle().Bold(a.bold)
	if a.fg != "" {
		s = s.Foreground(lipgloss.Color(a.fg))
	}
	return s
}

// String renders the grid row by row. Runs of equally styled cells are
// styled together and trailing blanks are dropped.
func (c *Canvas) String() string {
	c.flush()
	lines := make([]string, c.height)
	for row, cells := range c.cells {
		var sb strings.Builder
		var run strings.Builder
		var current attr
		blank := 0
		emit := func() {
			if run.Len() > 0 {
				sb.WriteString(c.style(current).Render(run.String()))
				run.Reset()
			}
		}
		for _, cl := range cells {
			switch cl.r {
			case continuation:
				continue
			case blankCell:
				blank++
				continue
			}
			if blank > 0 || cl.attr != current {
				emit()
				sb.WriteString(strings.Repeat(" ", blank))
				blank = 0
				current = cl.attr
			}
			run.WriteRune(cl.r)
		}
		emit()
		lines[row] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// Plain renders the grid without any styling.
func (c *Canvas) Plain() string {
	c.flush()
	lines := make([]string, c.height)
	for row, cells := range c.cells {
		var sb strings.Builder
		for _, cl := range cells {
			switch cl.r {
			case continuation:
			case blankCell:
				sb.WriteRune(' ')
			default:
				sb.WriteRune(cl.r)
			}
		}
		lines[row] = strings.TrimRight(sb.String(), " ")
	}
	return strings.Join(lines, "\n")
}
