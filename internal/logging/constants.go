package logging

import "time"

const (
	// LogTimeFormat is the timestamp layout of log lines.
	LogTimeFormat = time.TimeOnly

	// LogPrefix is printed in front of every log line.
	LogPrefix = "concatenator"
)

// Metric names recorded by the collector.
const (
	MetricLogsCount      = "concatenator.logs.count"
	MetricErrorsCount    = "concatenator.errors.count"
	MetricBarTransitions = "concatenator.bar.transitions"
	MetricBarRepaints    = "concatenator.bar.repaints"
	MetricFramesRendered = "concatenator.render.frames"
)
