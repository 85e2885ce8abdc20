package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		option string
		level  slog.Leveler
		ok     bool
	}{
		{"", nil, true},
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", nil, false},
	}
	for _, tc := range tests {
		level, ok := level(tc.option)
		assert.Equal(t, tc.level, level, tc.option)
		assert.Equal(t, tc.ok, ok, tc.option)
	}
}

func TestNewFallsBackOnInvalidLevel(t *testing.T) {
	options := &Options{Level: "verbose", File: os.DevNull}
	logger := New(options)
	assert.NotNil(t, logger)
	assert.Equal(t, "", options.Level)
}

func TestNewWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "service.log")
	logger := New(&Options{Level: "info", File: file, Format: "json"})

	logger.Info("server started", "port", 3002)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(content, &record))
	assert.Equal(t, "server started", record["msg"])
	assert.Equal(t, 3002.0, record["port"])
}

func TestNewFallsBackOnUnwritableFile(t *testing.T) {
	options := &Options{File: filepath.Join(t.TempDir(), "missing", "service.log")}
	logger := New(options)
	assert.NotNil(t, logger)
	assert.Equal(t, "", options.File)
}

func TestNewWithWriterText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "text", &slog.HandlerOptions{Level: slog.LevelDebug})

	logger.Debug("dbg", "a", 1)

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=dbg")
	assert.Contains(t, buf.String(), "a=1")
}

func TestNewWithWriterUnknownFormatIsText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "yaml", nil)

	logger.Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}
