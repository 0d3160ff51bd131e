// Package config loads the pagehook user configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const appName = "pagehook"

// Config holds pagehook user configuration.
type Config struct {
	Theme          string `json:"theme"`
	Homepage       string `json:"homepage"`
	Registry       string `json:"registry"` // YAML site registry
	DebounceMS     int    `json:"debounce_ms"`
	RepeatMS       int    `json:"repeat_threshold_ms"`
	LogLevel       string `json:"log_level"`
	SubstringHosts bool   `json:"substring_hosts"`
	PageCacheSize  int    `json:"page_cache_size"`
	path           string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	cfg := Config{
		Theme:          "default",
		DebounceMS:     2000,
		RepeatMS:       2000,
		LogLevel:       "info",
		SubstringHosts: true,
		PageCacheSize:  50,
	}
	if dir, err := Dir(); err == nil {
		cfg.Registry = filepath.Join(dir, "sites.yaml")
	}
	return cfg
}

// Debounce is the dispatch debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// RepeatThreshold is the duplicate suppression window.
func (c *Config) RepeatThreshold() time.Duration {
	return time.Duration(c.RepeatMS) * time.Millisecond
}

// Path returns the file the config was loaded from or will be saved to.
func (c *Config) Path() string {
	return c.path
}

// LoadConfig loads configuration from the standard config directory.
func LoadConfig() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, "config.json"))
}

// Load reads the config at path. A missing file yields the defaults, which
// are written to path.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Save default config.
			if err := cfg.Save(); err != nil {
				return nil, err
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.path = path
	return &cfg, nil
}

// Validate rejects values the dispatcher cannot work with.
func (c *Config) Validate() error {
	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.DebounceMS)
	}
	if c.RepeatMS < 0 {
		return fmt.Errorf("repeat_threshold_ms must not be negative, got %d", c.RepeatMS)
	}
	if c.PageCacheSize <= 0 {
		return fmt.Errorf("page_cache_size must be positive, got %d", c.PageCacheSize)
	}
	return nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	if c.path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(dir, "config.json")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(c.path, data, 0o644)
}

// DataDir returns the directory for logs and other runtime files.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	var dir string
	switch runtime.GOOS {
	case "darwin":
		dir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			dir = filepath.Join(appData, appName)
		} else {
			dir = filepath.Join(home, "."+appName)
		}
	default: // Linux, BSD, etc.
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData != "" {
			dir = filepath.Join(xdgData, appName)
		} else {
			dir = filepath.Join(home, ".local", "share", appName)
		}
	}

	return dir, nil
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	var dir string
	switch runtime.GOOS {
	case "darwin":
		dir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			dir = filepath.Join(appData, appName)
		} else {
			dir = filepath.Join(home, "."+appName)
		}
	default:
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig != "" {
			dir = filepath.Join(xdgConfig, appName)
		} else {
			dir = filepath.Join(home, ".config", appName)
		}
	}

	return dir, nil
}
