package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "text format with info level",
			config: Config{Level: slog.LevelInfo, Format: FormatText},
			want:   "level=INFO",
		},
		{
			name:   "JSON format with debug level",
			config: Config{Level: slog.LevelDebug, Format: FormatJSON},
			want:   `"level":"INFO"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.config.Output = &buf

			NewLogger(tt.config).Info("test message")

			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "time=")
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		debugShown bool
		infoShown  bool
		errorShown bool
	}{
		{name: "info", level: slog.LevelInfo, debugShown: false, infoShown: true, errorShown: true},
		{name: "debug", level: slog.LevelDebug, debugShown: true, infoShown: true, errorShown: true},
		{name: "error", level: slog.LevelError, debugShown: false, infoShown: false, errorShown: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(Config{Level: tt.level, Output: &buf})

			logger.Debug("debug message")
			logger.Info("info message")
			logger.Error("error message")

			output := buf.String()
			assert.Equal(t, tt.debugShown, bytes.Contains([]byte(output), []byte("debug message")))
			assert.Equal(t, tt.infoShown, bytes.Contains([]byte(output), []byte("info message")))
			assert.Equal(t, tt.errorShown, bytes.Contains([]byte(output), []byte("error message")))
		})
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelInfo, Output: &buf})

	logger.With("component", "overlay", "query", "git").Info("search started")

	assert.Contains(t, buf.String(), "component=overlay")
	assert.Contains(t, buf.String(), "query=git")
}

func TestLoggerWithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelInfo, Output: &buf})

	logger.WithGroup("atuin").Info("invoked", "args", 7)

	assert.Contains(t, buf.String(), "atuin.args=7")
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelError, Output: &buf})

	logger.Debug("hidden")
	logger.SetLevel(slog.LevelDebug)
	logger.Debug("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG", slog.LevelError))
	assert.Equal(t, slog.LevelInfo, ParseLevel(" info ", slog.LevelError))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning", slog.LevelError))
	assert.Equal(t, slog.LevelError, ParseLevel("error", slog.LevelDebug))
	assert.Equal(t, slog.LevelWarn, ParseLevel("", slog.LevelWarn))
	assert.Equal(t, slog.LevelWarn, ParseLevel("verbose", slog.LevelWarn))
}

func TestNewFileLoggerFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.log")
	t.Setenv(EnvDebugFile, path)
	t.Setenv(EnvDebugLevel, "info")

	assert.Equal(t, path, GetDebugFilePath())

	logger, closer := NewFileLoggerFromEnv()
	logger.Debug("not written")
	logger.Info("written", "results", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
	assert.Contains(t, string(data), "results=3")
	assert.NotContains(t, string(data), "not written")
}

func TestGetDebugFilePathDefault(t *testing.T) {
	t.Setenv(EnvDebugFile, "")
	assert.Equal(t, filepath.Join(os.TempDir(), DefaultLogFileName), GetDebugFilePath())
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	SetGlobalLogger(NewLogger(Config{Level: slog.LevelDebug, Output: &buf}))

	Info("global info")
	NewComponentLogger("cli").Warn("component warn")

	assert.Contains(t, buf.String(), "global info")
	assert.Contains(t, buf.String(), "component=cli")
}
