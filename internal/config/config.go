// Package config loads editor settings from ~/.flowedit.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const FileName = ".flowedit.yaml"

const (
	EnvDataDir  = "FLOWEDIT_DATA_DIR"
	EnvLogFile  = "FLOWEDIT_LOG_FILE"
	EnvLogLevel = "FLOWEDIT_LOG_LEVEL"
)

type Config struct {
	// DataDir holds the diagram database.
	DataDir string `yaml:"data_dir" validate:"required_unless=InMemory true"`
	// InMemory keeps saved diagrams only until the editor exits.
	InMemory bool `yaml:"in_memory"`
	// ExportDir is where exported files go. Empty means the working directory.
	ExportDir string `yaml:"export_dir"`

	AutosaveInterval time.Duration `yaml:"autosave_interval" validate:"min=1s"`
	RecoveryMaxAge   time.Duration `yaml:"recovery_max_age" validate:"gt=0"`
	Confirmations    bool          `yaml:"confirmations"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// CellWidth and CellHeight are the world units covered by one terminal cell.
	CellWidth  float64 `yaml:"cell_width" validate:"gt=0"`
	CellHeight float64 `yaml:"cell_height" validate:"gt=0"`
}

var validate = validator.New()

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		DataDir:          defaultDataDir(),
		AutosaveInterval: 30 * time.Second,
		RecoveryMaxAge:   24 * time.Hour,
		Confirmations:    true,
		LogLevel:         "info",
		CellWidth:        8,
		CellHeight:       16,
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "flowedit")
	}
	return ".flowedit"
}

// DefaultPath returns ~/.flowedit.yaml, or "" if there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) normalize() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	for _, p := range []*string{&c.DataDir, &c.ExportDir, &c.LogFile} {
		v, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", p, err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return p, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ExportPath places filename in the export directory, creating it.
func (c *Config) ExportPath(filename string) (string, error) {
	if c.ExportDir == "" || filepath.IsAbs(filename) {
		return filename, nil
	}
	if err := os.MkdirAll(c.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	return filepath.Join(c.ExportDir, filename), nil
}
