package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type loggerKey struct{}

type observableLoggerKey struct{}

// WithLogger returns a child context that carries the provided logger
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithObservableLogger stores the observable logger and its plain logger.
func WithObservableLogger(ctx context.Context, logger *ObservableLogger) context.Context {
	ctx = WithLogger(ctx, logger.logger)
	return context.WithValue(ctx, observableLoggerKey{}, logger)
}

// From extracts a logger from the context, or nil if absent
func From(ctx context.Context) *log.Logger {
	if ctx == nil {
		return nil
	}
	if lgr, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return lgr
	}
	return nil
}

// FromObservable extracts an observable logger from the context, or nil if absent
func FromObservable(ctx context.Context) *ObservableLogger {
	if ctx == nil {
		return nil
	}
	if lgr, ok := ctx.Value(observableLoggerKey{}).(*ObservableLogger); ok {
		return lgr
	}
	return nil
}
