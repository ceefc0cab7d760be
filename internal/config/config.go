// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultDataFile     = "~/.taskmaster.json"
	DefaultLogFile      = "~/.taskmaster/taskmaster.log"
	DefaultLogLevel     = "info"
	DefaultDueSoonHours = 24
)

// Config holds the full configuration for taskmaster.
type Config struct {
	// DataFile is the JSON file the task collection persists to.
	DataFile string `toml:"data_file"`
	// LogFile receives structured logs; the TUI owns the terminal.
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`
	// DueSoonHours is the look-ahead horizon for the due-soon marker.
	DueSoonHours int `toml:"due_soon_hours"`
}

// Load builds the configuration from three layers in priority order:
// defaults, an optional TOML config file, then TASKMASTER_* environment
// variables.
func Load() (*Config, error) {
	cfg := &Config{
		DataFile:     DefaultDataFile,
		LogFile:      DefaultLogFile,
		LogLevel:     DefaultLogLevel,
		DueSoonHours: DefaultDueSoonHours,
	}

	if path := findConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DueSoonHorizon returns the due-soon window as a duration.
func (c *Config) DueSoonHorizon() time.Duration {
	return time.Duration(c.DueSoonHours) * time.Hour
}

// findConfigFile checks the XDG config dir first, then the dotfile in
// the home directory. Returns "" when neither exists.
func findConfigFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "taskmaster", "taskmaster.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".taskmaster.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func loadConfigFile(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKMASTER_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TASKMASTER_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TASKMASTER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKMASTER_DUE_SOON_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TASKMASTER_DUE_SOON_HOURS: %w", err)
		}
		cfg.DueSoonHours = hours
	}
	return nil
}

func finalize(cfg *Config) error {
	var err error
	if cfg.DataFile, err = expandPath(cfg.DataFile); err != nil {
		return fmt.Errorf("data_file: %w", err)
	}
	if cfg.LogFile, err = expandPath(cfg.LogFile); err != nil {
		return fmt.Errorf("log_file: %w", err)
	}
	if cfg.DueSoonHours <= 0 {
		return fmt.Errorf("due_soon_hours must be positive, got %d", cfg.DueSoonHours)
	}
	return nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
