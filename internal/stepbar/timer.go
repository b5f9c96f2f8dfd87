package stepbar

import "time"

// Timer drives repaints while a step is ongoing. Implementations call tick
// repeatedly every interval after Start until Stop.
type Timer interface {
	Start(interval time.Duration, tick func())
	Stop()
	Running() bool
}

// idleTimer only tracks whether it was started. It is used when the host does
// not care about animation, e.g. when rendering a single frame.
type idleTimer struct {
	running bool
}

func (t *idleTimer) Start(time.Duration, func()) { t.running = true }
func (t *idleTimer) Stop()                         { t.running = false }
func (t *idleTimer) Running() bool                 { return t.running }
