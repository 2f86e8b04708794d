package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTextLogger(buf *bytes.Buffer, levels ...slog.Level) *slog.Logger {
	base := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewConditionalSourceHandler(base, levels...))
}

func TestConditionalSourceHandler_Levels(t *testing.T) {
	tests := []struct {
		name       string
		log        func(l *slog.Logger)
		levels     []slog.Level
		wantSource bool
	}{
		{"info is bare by default", func(l *slog.Logger) { l.Info("sweep done") }, []slog.Level{slog.LevelWarn, slog.LevelError}, false},
		{"warn carries source", func(l *slog.Logger) { l.Warn("gateway slow") }, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"error carries source", func(l *slog.Logger) { l.Error("cascade failed") }, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"debug mode adds info", func(l *slog.Logger) { l.Info("sweep done") }, []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newTextLogger(&buf, tt.levels...))

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestConditionalSourceHandler_PointsAtCaller(t *testing.T) {
	var buf bytes.Buffer
	newTextLogger(&buf, slog.LevelError).Error("boom")

	assert.Contains(t, buf.String(), "conditionalsourcehandler_test.go")
}

func TestConditionalSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	l := newTextLogger(&buf, slog.LevelError).With("payment_id", 42).WithGroup("gateway")
	l.Info("fetched", "status", "captured")

	out := buf.String()
	assert.Contains(t, out, "payment_id=42")
	assert.Contains(t, out, "gateway.status=captured")
	assert.NotContains(t, out, "source=")
}

func TestConditionalSourceHandler_Enabled(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := NewConditionalSourceHandler(base, slog.LevelError)

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestInterface_SourcePointsPastWrapper(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithSlog(newTextLogger(&buf, slog.LevelWarn)).Named("reconciler")
	log.Warnw("payment skipped", "payment_id", 7)

	out := buf.String()
	assert.Contains(t, out, "component=reconciler")
	assert.Contains(t, out, "payment_id=7")
	assert.Contains(t, out, "conditionalsourcehandler_test.go")
	assert.NotContains(t, out, "interface.go")
}
