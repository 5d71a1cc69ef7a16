package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flowedit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: "+filepath.Join(dir, "file-db")+"\nlog_level: error\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", path,
		"--data-dir", filepath.Join(dir, "flag-db"),
		"--log-level", "debug",
		"--in-memory",
	}))
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flag-db"), cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.InMemory)
}

func TestLoadConfigUnsetFlagsKeepFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flowedit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.InMemory)
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "loud"}))
	_, err := loadConfig(cmd)
	assert.Error(t, err)
}

func TestTooManyArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"a.json", "b.json"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.Error(t, cmd.Execute())
}
