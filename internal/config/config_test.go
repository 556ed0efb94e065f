package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q, want :3000", cfg.Addr)
	}
	if cfg.Repair.DefaultRoughness != 100 {
		t.Errorf("DefaultRoughness = %v, want 100", cfg.Repair.DefaultRoughness)
	}
	if cfg.Solver.Timeout.Duration() != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Solver.Timeout)
	}
	if cfg.Solver.Binary == "" {
		t.Error("expected a default solver binary")
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flume.yaml")

	content := `
addr: ":8080"
database:
  path: /tmp/flume-test.db
repair:
  default_roughness: 130
solver:
  binary: /usr/local/bin/runepanet
  timeout: 10s
  remote:
    host: solver01
    user: epanet
watch:
  enabled: true
  dir: /srv/networks
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, loadedPath, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loadedPath != path {
		t.Errorf("path = %q, want %q", loadedPath, path)
	}
	if cfg.Repair.DefaultRoughness != 130 {
		t.Errorf("DefaultRoughness = %v, want 130", cfg.Repair.DefaultRoughness)
	}
	if cfg.Solver.Timeout.Duration() != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Solver.Timeout)
	}
	if cfg.Solver.Remote == nil || cfg.Solver.Remote.Host != "solver01" {
		t.Errorf("Remote = %+v, want host solver01", cfg.Solver.Remote)
	}
	if cfg.Solver.Remote.Port != 22 {
		t.Errorf("Remote.Port = %d, want default 22", cfg.Solver.Remote.Port)
	}
	if !cfg.Watch.Enabled || cfg.Watch.Dir != "/srv/networks" {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
}

func TestLoadFromPathBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flume.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := LoadFromPath(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyDefaultsRejectsNonPositiveRoughness(t *testing.T) {
	cfg := &Config{Repair: RepairConfig{DefaultRoughness: -5}}
	cfg.applyDefaults()
	if cfg.Repair.DefaultRoughness != 100 {
		t.Errorf("DefaultRoughness = %v, want 100", cfg.Repair.DefaultRoughness)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Addr = ":9999"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", loaded.Addr)
	}
}
