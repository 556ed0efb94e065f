// Package config provides configuration management for flume.
//
// Config file locations (priority order):
//  1. $FLUME_CONFIG
//  2. ./flume.yaml
//  3. $XDG_CONFIG_HOME/flume/config.yaml
//  4. ~/.config/flume/config.yaml
//  5. /etc/flume/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full flume configuration
type Config struct {
	// Addr is the HTTP listen address
	Addr     string         `yaml:"addr"`
	Database DatabaseConfig `yaml:"database"`
	Repair   RepairConfig   `yaml:"repair"`
	Solver   SolverConfig   `yaml:"solver"`
	Watch    WatchConfig    `yaml:"watch"`
}

// DatabaseConfig locates the run store
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RepairConfig tunes the document repair pipeline
type RepairConfig struct {
	// DefaultRoughness fills the roughness column of pipe records that
	// are missing it. Must be positive.
	DefaultRoughness float64 `yaml:"default_roughness"`
}

// SolverConfig describes how to drive the external hydraulic engine
type SolverConfig struct {
	// Binary is the solver executable (runepanet-style CLI)
	Binary string `yaml:"binary"`
	// WorkDir receives repaired inputs, reports and binary output files
	WorkDir string `yaml:"work_dir"`
	// Timeout bounds a single solve
	Timeout Duration `yaml:"timeout"`
	// Remote, when set, runs the solver over SSH instead of locally
	Remote *RemoteConfig `yaml:"remote,omitempty"`
}

// RemoteConfig holds SSH connection details for a remote solver host
type RemoteConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	KeyFile  string `yaml:"key_file,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// WatchConfig controls the input-directory watcher
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
	// Dir is scanned and watched for .inp documents
	Dir string `yaml:"dir"`
	// AutoRun triggers a full solve for every new document, not just repair
	AutoRun bool `yaml:"auto_run"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./flume.db"
	}
	if c.Repair.DefaultRoughness <= 0 {
		c.Repair.DefaultRoughness = 100
	}
	if c.Solver.Binary == "" {
		c.Solver.Binary = "runepanet"
	}
	if c.Solver.WorkDir == "" {
		c.Solver.WorkDir = "./work"
	}
	if c.Solver.Timeout <= 0 {
		c.Solver.Timeout = Duration(60 * time.Second)
	}
	if c.Solver.Remote != nil && c.Solver.Remote.Port == 0 {
		c.Solver.Remote.Port = 22
	}
	if c.Watch.Dir == "" {
		c.Watch.Dir = "./inputs"
	}
}
