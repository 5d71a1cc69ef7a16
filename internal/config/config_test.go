package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.AutosaveInterval)
	assert.Equal(t, 24*time.Hour, cfg.RecoveryMaxAge)
	assert.True(t, cfg.Confirmations)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8.0, cfg.CellWidth)
	assert.Equal(t, 16.0, cfg.CellHeight)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
data_dir: `+filepath.Join(dir, "db")+`
export_dir: `+filepath.Join(dir, "out")+`
autosave_interval: 1m
recovery_max_age: 2h
confirmations: false
log_level: DEBUG
cell_width: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db"), cfg.DataDir)
	assert.Equal(t, time.Minute, cfg.AutosaveInterval)
	assert.Equal(t, 2*time.Hour, cfg.RecoveryMaxAge)
	assert.False(t, cfg.Confirmations)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10.0, cfg.CellWidth)
	assert.Equal(t, 16.0, cfg.CellHeight, "unset fields keep their default")
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, filepath.Join(dir, "env-db"))
	t.Setenv(EnvLogFile, filepath.Join(dir, "flowedit.log"))
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(writeConfig(t, "data_dir: /elsewhere\nlog_level: error\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env-db"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "flowedit.log"), cfg.LogFile)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestHomeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg, err := Load(writeConfig(t, "export_dir: ~/diagrams\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "diagrams"), cfg.ExportDir)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "autosave_interval: [\n"},
		{"bad duration", "autosave_interval: soon\n"},
		{"interval too short", "autosave_interval: 10ms\n"},
		{"zero recovery window", "recovery_max_age: 0s\n"},
		{"unknown level", "log_level: loud\n"},
		{"zero cell", "cell_height: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDataDirRequiredUnlessInMemory(t *testing.T) {
	cfg := Default()
	cfg.DataDir = ""
	assert.Error(t, cfg.Validate())
	cfg.InMemory = true
	assert.NoError(t, cfg.Validate())
}

func TestExportPath(t *testing.T) {
	cfg := Default()
	p, err := cfg.ExportPath("a.json")
	require.NoError(t, err)
	assert.Equal(t, "a.json", p)

	cfg.ExportDir = filepath.Join(t.TempDir(), "exports")
	p, err = cfg.ExportPath("a.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.ExportDir, "a.json"), p)
	assert.DirExists(t, cfg.ExportDir)
}
