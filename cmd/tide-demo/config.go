// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config controls the stopwatch's timing and appearance. Loaded from
// a single YAML file named by --config; there is no automatic
// discovery, so behavior is deterministic and auditable.
type Config struct {
	// TickIntervalMS is the display update period in milliseconds
	// while the stopwatch runs.
	TickIntervalMS int `yaml:"tick_interval_ms"`

	// LapFile is where the s key writes recorded laps.
	LapFile string `yaml:"lap_file"`

	// Theme selects the display colors.
	Theme ThemeConfig `yaml:"theme"`
}

// ThemeConfig holds display colors as lipgloss-compatible values
// (ANSI palette indexes or hex strings).
type ThemeConfig struct {
	// Accent colors the elapsed time and active highlights.
	Accent string `yaml:"accent"`

	// Dim colors help text and inactive chrome.
	Dim string `yaml:"dim"`
}

// defaultConfig is used when no --config is given.
func defaultConfig() Config {
	return Config{
		TickIntervalMS: 100,
		LapFile:        "laps.txt",
		Theme: ThemeConfig{
			Accent: "10",
			Dim:    "8",
		},
	}
}

// loadConfig reads and validates the config file, or returns defaults
// when path is empty. Missing fields fall back to defaults rather
// than erroring, so a config file can override just one setting.
func loadConfig(path string) (Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if config.TickIntervalMS <= 0 {
		return Config{}, fmt.Errorf("config %s: tick_interval_ms must be positive, got %d", path, config.TickIntervalMS)
	}
	if config.LapFile == "" {
		return Config{}, fmt.Errorf("config %s: lap_file must not be empty", path)
	}
	return config, nil
}

// TickInterval returns the tick period as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}
