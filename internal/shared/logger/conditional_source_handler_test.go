package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionalSourceHandler(t *testing.T) {
	warnAndUp := []slog.Level{slog.LevelWarn, slog.LevelError}

	tests := []struct {
		name       string
		level      slog.Level
		levels     []slog.Level
		wantSource bool
	}{
		{"info is quiet by default", slog.LevelInfo, warnAndUp, false},
		{"warn carries source", slog.LevelWarn, warnAndUp, true},
		{"error carries source", slog.LevelError, warnAndUp, true},
		{"verbose info carries source", slog.LevelInfo, []slog.Level{slog.LevelInfo}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewConditionalSourceHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), tt.levels...)
			slog.New(h).Log(context.Background(), tt.level, "sweep finished")

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestConditionalSourceHandlerKeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	h := NewConditionalSourceHandler(slog.NewTextHandler(&buf, nil), slog.LevelError)

	slog.New(h).With("assignment_sid", "asg_1").WithGroup("reminder").Info("queued", "to", "a@b.co")

	out := buf.String()
	assert.NotContains(t, out, "source=")
	assert.Contains(t, out, "assignment_sid=asg_1")
	assert.Contains(t, out, "reminder.to=a@b.co")
}

func TestConditionalSourceHandlerEnabled(t *testing.T) {
	h := NewConditionalSourceHandler(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}), slog.LevelError)

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
