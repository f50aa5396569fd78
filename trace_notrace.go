//go:build notrace

package xenon

import (
	"context"
	"log/slog"
)

// No-op implementations when built with -tags notrace for production
// performance

var nullLogger = slog.New(slog.DiscardHandler)

// WithTraceLogger adds a trace logger to the context - no-op version
func WithTraceLogger(ctx context.Context, tlog *slog.Logger) context.Context {
	return ctx
}

// getTraceLogFromContext returns the null logger - no-op version
func getTraceLogFromContext(ctx context.Context) *slog.Logger {
	return nullLogger
}
