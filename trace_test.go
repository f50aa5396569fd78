//go:build !notrace

package xenon

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithTraceLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithTraceLogger(context.Background(), logger)

	tlog := getTraceLogFromContext(ctx)
	require.NotNil(t, tlog)

	tlog.Debug("test message")
	require.Contains(t, buf.String(), "test message")
}

func TestWithTraceLoggerKeepsExisting(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	ctx := WithTraceLogger(context.Background(), logger)
	require.Equal(t, ctx, WithTraceLogger(ctx, slog.New(slog.DiscardHandler)))
}

func TestNullLogger(t *testing.T) {
	tlog := getTraceLogFromContext(context.Background())
	require.NotNil(t, tlog)

	require.NotPanics(t, func() {
		tlog.Debug("this should not output anything")
	})
}
