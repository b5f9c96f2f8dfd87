package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

// Color constants for consistent styling
const (
	ColorBrightCyan  = "14"
	ColorRed         = "9"
	ColorYellow      = "11"
	ColorGreen       = "10"
	ColorGray        = "7"
	ColorBrightGray  = "8"
	ColorBrightWhite = "15"
)

// Column represents a table column definition
type Column struct {
	Title     string
	Key       string
	Width     int
	MinWidth  int
	MaxWidth  int
	Truncate  bool
	StyleFunc func(value string) lipgloss.Style
	Condition bool
}

// Row represents a table row with data
type Row map[string]string

// Table represents a configurable table renderer
type Table struct {
	columns        []Column
	rows           []Row
	headerStyle    lipgloss.Style
	separatorStyle lipgloss.Style
	maxWidth       int
}

// NewTable creates a new table with default styling
func NewTable() *Table {
	return &Table{
		headerStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorBrightCyan)).Padding(0, 1),
		separatorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightGray)),
		maxWidth:       TerminalWidth(TableMaxWidth),
	}
}

// SetColumns sets the table columns
func (t *Table) SetColumns(columns []Column) *Table {
	t.columns = columns
	return t
}

// SetRows sets the table data
func (t *Table) SetRows(rows []Row) *Table {
	t.rows = rows
	return t
}

// SetMaxWidth sets the maximum table width
func (t *Table) SetMaxWidth(width int) *Table {
	t.maxWidth = width
	return t
}

// getVisibleColumns returns only the columns that should be displayed
func (t *Table) getVisibleColumns() []Column {
	var visible []Column
	for _, col := range t.columns {
		if col.Condition {
			visible = append(visible, col)
		}
	}
	return visible
}

// calculateColumnWidths sizes columns to their content within the table width
func (t *Table) calculateColumnWidths() []int {
	visibleColumns := t.getVisibleColumns()
	if len(visibleColumns) == 0 {
		return nil
	}

	widths := make([]int, len(visibleColumns))
	for i, col := range visibleColumns {
		widths[i] = max(runewidth.StringWidth(col.Title), col.MinWidth)
		if col.Width > 0 {
			widths[i] = col.Width
		}
	}

	for _, row := range t.rows {
		for i, col := range visibleColumns {
			if value, exists := row[col.Key]; exists && col.Width == 0 {
				widths[i] = max(widths[i], runewidth.StringWidth(value))
			}
		}
	}

	totalFixed := 0
	flexibleCols := 0
	for i, col := range visibleColumns {
		if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
			widths[i] = col.MaxWidth
		}
		if col.Width > 0 {
			totalFixed += widths[i]
		} else {
			flexibleCols++
		}
	}

	if flexibleCols > 0 && t.maxWidth > 0 {
		padding := len(visibleColumns) * 2
		availableSpace := t.maxWidth - totalFixed - padding
		if availableSpace > 0 {
			spacePerCol := availableSpace / flexibleCols
			for i, col := range visibleColumns {
				if col.Width == 0 {
					widths[i] = min(widths[i], spacePerCol)
				}
			}
		}
	}

	return widths
}

// Render renders the table as a string
func (t *Table) Render() string {
	visibleColumns := t.getVisibleColumns()
	if len(visibleColumns) == 0 {
		return ""
	}

	var sb strings.Builder
	widths := t.calculateColumnWidths()

	headerCells := make([]string, len(visibleColumns))
	for i, col := range visibleColumns {
		header := lipgloss.NewStyle().
			Width(widths[i]).
			MaxWidth(widths[i]).
			Inline(true).
			Render(truncateText(col.Title, widths[i]))
		headerCells[i] = t.headerStyle.Render(header)
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, headerCells...))
	sb.WriteString("\n")

	totalWidth := 0
	for _, width := range widths {
		totalWidth += width + 2
	}
	sb.WriteString(t.separatorStyle.Render(strings.Repeat("─", totalWidth)))
	sb.WriteString("\n")

	for _, row := range t.rows {
		cells := make([]string, len(visibleColumns))
		for i, col := range visibleColumns {
			value := row[col.Key]
			if value == "" {
				value = "-"
			}

			cellStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightWhite))
			if col.StyleFunc != nil {
				cellStyle = col.StyleFunc(value)
			}

			cellContent := value
			if col.Truncate || runewidth.StringWidth(value) > widths[i] {
				cellContent = truncateText(value, widths[i])
			}

			cell := cellStyle.
				Width(widths[i]).
				MaxWidth(widths[i]).
				Inline(true).
				Render(cellContent)
			cells[i] = lipgloss.NewStyle().Padding(0, 1).Render(cell)
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, cells...))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Fprint renders the table to w
func (t *Table) Fprint(w io.Writer) error {
	_, err := io.WriteString(w, t.Render())
	return err
}

// truncateText truncates text with smart ellipsis
func truncateText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(text, maxWidth, "…")
}

// TerminalWidth returns the width of stdout, or fallback when stdout is not
// a terminal.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// IsTerminal checks if the output is going to a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// GetStatusStyle colours a step status name.
func GetStatusStyle(status string) lipgloss.Style {
	s, err := stepbar.ParseStatus(status)
	if err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray))
	}
	switch s {
	case stepbar.StatusComplete:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)).Bold(true)
	case stepbar.StatusActive, stepbar.StatusOngoing:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)).Bold(true)
	case stepbar.StatusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightGray)).Bold(true)
	}
}

// GetCurrentStyle highlights the marker of the current step.
func GetCurrentStyle(marker string) lipgloss.Style {
	if marker == CurrentMarker {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightCyan)).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray))
}
