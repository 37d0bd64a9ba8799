package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// readEntries decodes the JSON lines written to path
func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_StampsServiceAndVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	log, err := New(Config{
		Level:   "debug",
		Format:  "json",
		Output:  path,
		Service: "baselinker-product-sync",
		Version: "1.4.0",
	})
	require.NoError(t, err)

	log.Info("Starting BaseLinker Product Sync", zap.String("port", "8080"))
	require.NoError(t, Sync(log))

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Starting BaseLinker Product Sync", entry["msg"])
	assert.Equal(t, "baselinker-product-sync", entry["service"])
	assert.Equal(t, "1.4.0", entry["version"])
	assert.Equal(t, "8080", entry["port"])
	assert.Contains(t, entry["caller"], "logger_test.go")

	_, err = time.Parse(DefaultTimeFormat, entry["time"].(string))
	assert.NoError(t, err)
}

func TestNew_OmitsEmptyServiceFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.log")

	log, err := New(Config{Format: "json", Output: path})
	require.NoError(t, err)
	log.Info("ready")
	require.NoError(t, Sync(log))

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "service")
	assert.NotContains(t, entries[0], "version")
}

func TestNew_LevelFiltersEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warn.log")

	log, err := New(Config{Level: "WARN", Format: "json", Output: path})
	require.NoError(t, err)
	log.Debug("BaseLinker API request")
	log.Info("Feed exported")
	log.Warn("BaseLinker API request failed")
	require.NoError(t, Sync(log))

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "BaseLinker API request failed", entries[0]["msg"])
}

func TestNew_Defaults(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_RejectsUnknownSettings(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"level", Config{Level: "verbose"}, `unknown level "verbose"`},
		{"format", Config{Format: "logfmt"}, `unknown format "logfmt"`},
		{"output", Config{Output: filepath.Join(os.DevNull, "nested", "x.log")}, "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, log)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"Info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenWriter_StandardStreams(t *testing.T) {
	for _, output := range []string{"", "stdout", "STDERR"} {
		w, err := openWriter(output)
		require.NoError(t, err, output)
		assert.NotNil(t, w)
	}
}
