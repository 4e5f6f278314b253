package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestInitializeWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "debug", true)
	defer Initialize("info", false)

	Log.Debug("backend request", "path", "/courses")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "backend request", line["msg"])
	assert.Equal(t, "/courses", line["path"])
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "info", false)
	defer Initialize("info", false)

	Log.Debug("hidden")
	assert.Empty(t, buf.String())
}
