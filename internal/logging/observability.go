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

package logging

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ObservabilityHook is attached to an ObservableLogger and sees every log
// event and custom metric.
type ObservabilityHook interface {
	// OnLog is called whenever a log event occurs
	OnLog(ctx context.Context, level log.Level, msg string, keyvals []any)

	// OnError is called whenever an error-level log occurs
	OnError(ctx context.Context, msg string, err error, keyvals []any)

	// OnMetric is called to record custom metrics
	OnMetric(ctx context.Context, name string, value float64, tags map[string]string)

	// Close cleans up resources used by the hook
	Close() error
}

// MetricsCollector aggregates metrics from log events in memory.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics map[string]*Metric
	hooks   []MetricsHook
}

// Metric is one aggregated series.
type Metric struct {
	Name      string            `json:"name"`
	Value     float64           `json:"value"`
	Tags      map[string]string `json:"tags"`
	Timestamp time.Time         `json:"timestamp"`
	Count     int64             `json:"count"`
}

// MetricsHook exports collected metrics.
type MetricsHook interface {
	Export(ctx context.Context, metrics []*Metric) error
	Close() error
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metric),
	}
}

// AddHook adds a metrics export hook.
func (mc *MetricsCollector) AddHook(hook MetricsHook) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.hooks = append(mc.hooks, hook)
}

// OnLog implements ObservabilityHook.
func (mc *MetricsCollector) OnLog(ctx context.Context, level log.Level, _ string, _ []any) {
	mc.recordMetric(MetricLogsCount, 1, map[string]string{
		"level": level.String(),
	})
}

// OnError implements ObservabilityHook.
func (mc *MetricsCollector) OnError(ctx context.Context, _ string, _ error, keyvals []any) {
	tags := map[string]string{
		"error_type": "unknown",
	}

	for i := 0; i < len(keyvals)-1; i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		if value, ok := keyvals[i+1].(string); ok {
			switch key {
			case "component", "operation", "cmd", "step":
				tags[key] = value
			}
		}
	}

	mc.recordMetric(MetricErrorsCount, 1, tags)
}

// OnMetric implements ObservabilityHook.
func (mc *MetricsCollector) OnMetric(_ context.Context, name string, value float64, tags map[string]string) {
	mc.recordMetric(name, value, tags)
}

func (mc *MetricsCollector) recordMetric(name string, value float64, tags map[string]string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.metrics == nil {
		return
	}

	key := buildMetricKey(name, tags)
	now := time.Now()
	if existing, ok := mc.metrics[key]; ok {
		existing.Value += value
		existing.Count++
		existing.Timestamp = now
		return
	}
	mc.metrics[key] = &Metric{
		Name:      name,
		Value:     value,
		Tags:      maps.Clone(tags),
		Timestamp: now,
		Count:     1,
	}
}

// buildMetricKey sorts tags so that equal tag sets share a series.
func buildMetricKey(name string, tags map[string]string) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, k := range slices.Sorted(maps.Keys(tags)) {
		sb.WriteString(":" + k + "=" + tags[k])
	}
	return sb.String()
}

// Total sums the value of every series called name.
func (mc *MetricsCollector) Total(name string) float64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	total := 0.0
	for _, m := range mc.metrics {
		if m.Name == name {
			total += m.Value
		}
	}
	return total
}

// Snapshot returns copies of every series ordered by name.
func (mc *MetricsCollector) Snapshot() []Metric {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	out := make([]Metric, 0, len(mc.metrics))
	for _, key := range slices.Sorted(maps.Keys(mc.metrics)) {
		m := *mc.metrics[key]
		m.Tags = maps.Clone(m.Tags)
		out = append(out, m)
	}
	return out
}

// ExportMetrics exports all collected metrics to registered hooks.
func (mc *MetricsCollector) ExportMetrics(ctx context.Context) error {
	mc.mu.RLock()
	metrics := make([]*Metric, 0, len(mc.metrics))
	for _, metric := range mc.metrics {
		metrics = append(metrics, metric)
	}
	hooks := slices.Clone(mc.hooks)
	mc.mu.RUnlock()

	var errs []error
	for _, hook := range hooks {
		if err := hook.Export(ctx, metrics); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements ObservabilityHook.
func (mc *MetricsCollector) Close() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	var errs []error
	for _, hook := range mc.hooks {
		if err := hook.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	mc.hooks = nil
	mc.metrics = nil
	return errors.Join(errs...)
}

// ObservableLogger wraps a logger with observability hooks.
type ObservableLogger struct {
	logger *log.Logger
	hooks  []ObservabilityHook
	mu     sync.RWMutex
}

// NewObservableLogger creates a new observable logger.
func NewObservableLogger(logger *log.Logger) *ObservableLogger {
	return &ObservableLogger{logger: logger}
}

// AddHook adds an observability hook.
func (ol *ObservableLogger) AddHook(hook ObservabilityHook) {
	ol.mu.Lock()
	defer ol.mu.Unlock()
	ol.hooks = append(ol.hooks, hook)
}

// Logger returns the wrapped logger.
func (ol *ObservableLogger) Logger() *log.Logger { return ol.logger }

// Collector returns the first MetricsCollector hook, or nil.
func (ol *ObservableLogger) Collector() *MetricsCollector {
	ol.mu.RLock()
	defer ol.mu.RUnlock()
	for _, hook := range ol.hooks {
		if mc, ok := hook.(*MetricsCollector); ok {
			return mc
		}
	}
	return nil
}

// Debug logs a debug message and notifies hooks.
func (ol *ObservableLogger) Debug(msg string, keyvals ...any) {
	ol.logger.Debug(msg, keyvals...)
	ol.notifyHooks(context.Background(), log.DebugLevel, msg, keyvals)
}

// Info logs an info message and notifies hooks.
func (ol *ObservableLogger) Info(msg string, keyvals ...any) {
	ol.logger.Info(msg, keyvals...)
	ol.notifyHooks(context.Background(), log.InfoLevel, msg, keyvals)
}

// Warn logs a warning message and notifies hooks.
func (ol *ObservableLogger) Warn(msg string, keyvals ...any) {
	ol.logger.Warn(msg, keyvals...)
	ol.notifyHooks(context.Background(), log.WarnLevel, msg, keyvals)
}

// Error logs an error message and notifies hooks.
func (ol *ObservableLogger) Error(msg string, keyvals ...any) {
	ol.logger.Error(msg, keyvals...)
	ol.notifyHooks(context.Background(), log.ErrorLevel, msg, keyvals)

	var err error
	for i := 0; i < len(keyvals)-1; i += 2 {
		if key, ok := keyvals[i].(string); ok && key == "err" {
			if e, ok := keyvals[i+1].(error); ok {
				err = e
				break
			}
		}
	}

	for _, hook := range ol.snapshot() {
		hook.OnError(context.Background(), msg, err, keyvals)
	}
}

// With returns a new logger with additional key-value pairs. Hooks are shared.
func (ol *ObservableLogger) With(keyvals ...any) *ObservableLogger {
	return &ObservableLogger{
		logger: ol.logger.With(keyvals...),
		hooks:  ol.snapshot(),
	}
}

// Metric records a custom metric.
func (ol *ObservableLogger) Metric(ctx context.Context, name string, value float64, tags map[string]string) {
	for _, hook := range ol.snapshot() {
		hook.OnMetric(ctx, name, value, tags)
	}
}

func (ol *ObservableLogger) notifyHooks(ctx context.Context, level log.Level, msg string, keyvals []any) {
	if level < ol.logger.GetLevel() {
		return
	}
	for _, hook := range ol.snapshot() {
		hook.OnLog(ctx, level, msg, keyvals)
	}
}

func (ol *ObservableLogger) snapshot() []ObservabilityHook {
	ol.mu.RLock()
	defer ol.mu.RUnlock()
	return slices.Clone(ol.hooks)
}

// Close closes all observability hooks.
func (ol *ObservableLogger) Close() error {
	ol.mu.Lock()
	defer ol.mu.Unlock()

	var errs []error
	for _, hook := range ol.hooks {
		if err := hook.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	ol.hooks = nil
	return errors.Join(errs...)
}
