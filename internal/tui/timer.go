package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg is delivered by tea.Tick. Ticks from an earlier generation arrive
// after the timer was stopped or restarted and are dropped.
type tickMsg struct {
	generation int
}

// teaTimer implements stepbar.Timer on top of the Bubble Tea event loop.
// Start and Stop only record intent; the model turns it into tea.Tick
// commands, so the tick callback always runs on the program's goroutine.
type teaTimer struct {
	interval   time.Duration
	tick       func()
	running    bool
	generation int
	armed      bool
}

func (t *teaTimer) Start(interval time.Duration, tick func()) {
	t.interval = interval
	t.tick = tick
	t.running = true
	t.generation++
	t.armed = true
}

func (t *teaTimer) Stop() {
	if t.running {
		t.generation++
	}
	t.running = false
	t.armed = false
}

func (t *teaTimer) Running() bool { return t.running }

// cmd schedules the first tick after Start.
func (t *teaTimer) cmd() tea.Cmd {
	if !t.armed {
		return nil
	}
	t.armed = false
	return t.schedule()
}

func (t *teaTimer) schedule() tea.Cmd {
	generation := t.generation
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

// handle runs the tick callback and schedules the next tick. Stale ticks
// return nil and end their chain.
func (t *teaTimer) handle(msg tickMsg) tea.Cmd {
	if !t.running || msg.generation != t.generation {
		return nil
	}
	if t.tick != nil {
		t.tick()
	}
	return t.schedule()
}
