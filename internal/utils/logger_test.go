package utils

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestColorHandler(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(NewColorHandler(&buf, slog.LevelInfo)))

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.With("component", "apiclient").WithGroup("req").Info("sent", "path", "/summary/")
	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "sent")
	assert.Contains(t, out, "component=apiclient")
	assert.Contains(t, out, "req.path=/summary/")
}

func TestLogRequestLevels(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(NewColorHandler(&buf, slog.LevelDebug)))

	logger.LogRequest("GET", "/exam-types/", 200, time.Millisecond)
	assert.Contains(t, buf.String(), "INFO:")
	buf.Reset()

	logger.LogRequest("GET", "/exam-types/", 401, time.Millisecond)
	assert.Contains(t, buf.String(), "WARN:")
	buf.Reset()

	logger.LogRequest("GET", "/exam-types/", 0, time.Millisecond, "error", "connection refused")
	assert.Contains(t, buf.String(), "ERROR:")
	assert.Contains(t, buf.String(), "http request")
}
