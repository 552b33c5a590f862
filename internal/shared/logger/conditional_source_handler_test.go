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
		level      slog.Level
		levels     []slog.Level
		wantSource bool
	}{
		{"info not listed", slog.LevelInfo, []slog.Level{slog.LevelWarn, slog.LevelError}, false},
		{"warn listed", slog.LevelWarn, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"error listed", slog.LevelError, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"debug listed explicitly", slog.LevelDebug, []slog.Level{slog.LevelDebug}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newTextLogger(&buf, tt.levels...).Log(context.Background(), tt.level, "message")
			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestConditionalSourceHandler_PointsAtCaller(t *testing.T) {
	var buf bytes.Buffer
	newTextLogger(&buf, slog.LevelError).Error("boom")
	assert.Contains(t, buf.String(), "conditional_source_handler_test.go")
}

func TestConditionalSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	newTextLogger(&buf, slog.LevelError).With("user_id", "42").WithGroup("request").Info("hello", "path", "/api/v1/orders")

	out := buf.String()
	assert.Contains(t, out, "user_id=42")
	assert.Contains(t, out, "request.path=/api/v1/orders")
	assert.NotContains(t, out, "source=")
}

func TestConditionalSourceHandler_RespectsBaseLevel(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := NewConditionalSourceHandler(base, slog.LevelError)

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}
