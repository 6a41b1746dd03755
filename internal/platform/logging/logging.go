package logging

import (
	"context"
	"log/slog"
)

// contextKey is a private type to avoid context key collisions.
type contextKey string

const loggerKey = contextKey("logger")

// WithLogger returns a context carrying the given logger. Batch entry points
// (CLI commands, schedulers) attach an operation-scoped logger here the same
// way an HTTP middleware would attach a request-scoped one.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the scoped logger, falling back to slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
