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

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		" warn": slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelWarn)
	l.Info("hidden")
	l.Warn("shown", slog.String("name", "plan"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "plan", rec["name"])
	assert.Equal(t, "flowedit", rec["app"])
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "flowedit.log")
	l, closer, err := New(path, "debug")
	require.NoError(t, err)
	l.Debug("autosaved")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"autosaved"`)
}

func TestNewDiscard(t *testing.T) {
	l, closer, err := New("", "info")
	require.NoError(t, err)
	assert.NotPanics(t, func() { l.Error("nowhere") })
	assert.NoError(t, closer.Close())

	_, _, err = New("", "loud")
	assert.Error(t, err)
}
