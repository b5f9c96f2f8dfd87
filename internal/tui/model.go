// Package tui hosts a step bar in an interactive Bubble Tea program.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/concatenator-dev/concatenator/internal/logging"
	"github.com/concatenator-dev/concatenator/internal/render/term"
	"github.com/concatenator-dev/concatenator/internal/stepbar"
)

// BarFactory builds the bar shown by the model. The model passes its own
// timer and repaint hook as options.
type BarFactory func(options ...stepbar.Option) (*stepbar.Bar, error)

// MetricsRecorder receives bar activity. *logging.ObservableLogger
// satisfies it.
type MetricsRecorder interface {
	Metric(ctx context.Context, name string, value float64, tags map[string]string)
}

// Model is the Bubble Tea model of the preview.
type Model struct {
	bar      *stepbar.Bar
	timer    *teaTimer
	keys     keyMap
	help     help.Model
	title    string
	width    int
	repaints int
	quitting bool

	recorder   MetricsRecorder
	logger     *log.Logger
	canvasOpts []term.Option
	titleStyle lipgloss.Style
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the heading printed above the bar.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithRecorder reports transitions and repaints to r.
func WithRecorder(r MetricsRecorder) Option {
	return func(m *Model) { m.recorder = r }
}

// WithLogger logs transitions at debug level.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithCanvasOptions passes options to every terminal canvas.
func WithCanvasOptions(options ...term.Option) Option {
	return func(m *Model) { m.canvasOpts = append(m.canvasOpts, options...) }
}

// New builds the model and its bar. The first step is activated.
func New(factory BarFactory, options ...Option) (*Model, error) {
	m := &Model{
		timer:      &teaTimer{},
		keys:       defaultKeyMap(),
		help:       help.New(),
		titleStyle: lipgloss.NewStyle().Bold(true),
	}
	for _, option := range options {
		option(m)
	}

	bar, err := factory(stepbar.WithTimer(m.timer), stepbar.WithRepaint(m.onRepaint))
	if err != nil {
		return nil, fmt.Errorf("failed to build step bar: %w", err)
	}
	m.bar = bar
	m.bar.ActivateIndex(0)
	return m, nil
}

// Bar returns the hosted bar.
func (m *Model) Bar() *stepbar.Bar { return m.bar }

// Repaints returns how many repaints the bar requested.
func (m *Model) Repaints() int { return m.repaints }

func (m *Model) onRepaint() {
	m.repaints++
	m.metric(logging.MetricBarRepaints, nil)
}

func (m *Model) metric(name string, tags map[string]string) {
	if m.recorder != nil {
		m.recorder.Metric(context.Background(), name, 1, tags)
	}
}

// currentStatus names the status of the current step, or "none".
func (m *Model) currentStatus() (string, string) {
	step, ok := m.bar.Step(m.bar.Active())
	if !ok {
		return "", "none"
	}
	return step.Label, step.Status.String()
}

func (m *Model) transition(action string, fn func()) {
	fn()
	label, status := m.currentStatus()
	m.metric(logging.MetricBarTransitions, map[string]string{"action": action, "status": status})
	if m.logger != nil {
		m.logger.Debug("step bar transition", "action", action, "step", label, "status", status)
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.timer.cmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, m.timer.handle(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.timer.Stop()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Next):
			m.transition("next", m.bar.ActivateNext)
		case key.Matches(msg, m.keys.Previous):
			m.transition("previous", m.bar.ActivatePrevious)
		case key.Matches(msg, m.keys.Ongoing):
			m.transition("ongoing", m.bar.SetOngoing)
		case key.Matches(msg, m.keys.Failed):
			m.transition("failed", m.bar.SetFailed)
		case key.Matches(msg, m.keys.Active):
			m.transition("active", m.bar.SetActive)
		}
	}
	return m, m.timer.cmd()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder
	if m.title != "" {
		sb.WriteString(m.titleStyle.Render(m.title))
		sb.WriteString("\n\n")
	}
	sb.WriteString(term.Render(m.bar, m.width, m.canvasOpts...).String())
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.keys))
	sb.WriteString("\n")
	return sb.String()
}

// Run starts an interactive program for m until the user quits or ctx ends.
func Run(ctx context.Context, m *Model, options ...tea.ProgramOption) error {
	options = append([]tea.ProgramOption{tea.WithContext(ctx)}, options...)
	if _, err := tea.NewProgram(m, options...).Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
