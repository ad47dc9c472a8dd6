// ============================================================================
// Demo Driver Configuration
// ============================================================================
//
// Package: internal/config
// File: config.go
// Purpose: YAML-driven configuration for cmd/demo, the sample driver that
// exercises the pool and future packages. Grounded on the teacher repo's
// internal/cli/cli.go Config struct and loadConfig function -- same shape
// (nested structs with yaml tags, one loader reading a file path), scaled
// down to what a demo driver actually needs instead of a full queue system's
// WAL/snapshot/worker configuration.
//
// ============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete demo driver configuration structure.
type Config struct {
	Worker struct {
		Count int `yaml:"count"`
	} `yaml:"worker"`

	Matrix struct {
		Rows int `yaml:"rows"`
		Cols int `yaml:"cols"`
	} `yaml:"matrix"`

	Factorial struct {
		N int `yaml:"n"`
	} `yaml:"factorial"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`
}

// Default returns a Config populated with sane values for a first run
// with no config file present.
func Default() *Config {
	cfg := &Config{}
	cfg.Worker.Count = 4
	cfg.Matrix.Rows = 100
	cfg.Matrix.Cols = 100
	cfg.Factorial.N = 12
	cfg.Metrics.Enabled = false
	cfg.Metrics.Port = 9090
	return cfg
}

// Load reads and parses a YAML config file at path. A missing file is not
// an error: the caller gets Default() back instead, since the demo driver
// is meant to run out of the box.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
