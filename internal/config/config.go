// Package config handles Basera configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`

	// Core
	Core CoreConfig `json:"core"`

	// Logging
	LogLevel string `json:"log_level"`
}

// CoreConfig tunes the thinking core
type CoreConfig struct {
	Name           string `json:"name"`
	HistoryLimit   int    `json:"history_limit"`
	MaxParallel    int    `json:"max_parallel"`
	LayerTimeoutMS int    `json:"layer_timeout_ms"`
}

// LayerTimeout returns the per-layer processing timeout.
func (c CoreConfig) LayerTimeout() time.Duration {
	return time.Duration(c.LayerTimeoutMS) * time.Millisecond
}

// Default returns default configuration
func Default() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DataDir: filepath.Join(home, ".basera"),
		Core: CoreConfig{
			Name:           "basera-core",
			HistoryLimit:   100,
			MaxParallel:    8,
			LayerTimeoutMS: 5000,
		},
		LogLevel: "info",
	}
}

// Load loads config from file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves config to file
func (c *Config) Save(path string) error {
	if path == "" {
		path = filepath.Join(c.DataDir, "config.json")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
