package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json to console", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "info", Console: &buf})
		require.NoError(t, err)
		defer l.Close()

		l.Info().Str("tool", "lookup_word").Msg("called")
		l.Debug().Msg("hidden")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "lookup_word", entry["tool"])
		assert.Equal(t, "called", entry["message"])
		assert.Contains(t, entry, "time")
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("file output", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "binmcp.log")
		var buf bytes.Buffer
		l, err := New(Config{Level: "debug", File: logFile, Console: &buf})
		require.NoError(t, err)

		l.Debug().Msg("to both")
		require.NoError(t, l.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "to both")
		assert.Contains(t, buf.String(), "to both")
	})

	t.Run("pretty console", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "warn", Pretty: true, Console: &buf})
		require.NoError(t, err)

		l.Warn().Msg("careful")
		assert.Contains(t, buf.String(), "careful")
		assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
	})
}

func TestLevelFallback(t *testing.T) {
	for _, level := range []string{"", "loud"} {
		l, err := New(Config{Level: level, Console: &bytes.Buffer{}})
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
	}
}

func TestNewBadFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := New(Config{File: filepath.Join(blocker, "binmcp.log")})
	assert.Error(t, err)
}

func TestCloseWithoutFile(t *testing.T) {
	l, err := New(Config{Console: io.Discard})
	require.NoError(t, err)
	l.Info().Msg("discarded")
	assert.NoError(t, l.Close())
}
