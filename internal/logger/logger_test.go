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
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestJSONComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	l.Component("agent").Info("analysed document", "name", "cv.pdf")
	l.Debug("dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analysed document", entry["msg"])
	assert.Equal(t, "agent", entry["component"])
	assert.Equal(t, "cv.pdf", entry["name"])
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), OrDefault(nil))

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, l, OrDefault(l))
}
