package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ShotsDir != "shots" || cfg.IndexFile != "list.json" {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.ListWidth != 400 {
		t.Fatalf("ListWidth = %d, want 400", cfg.ListWidth)
	}
	if cfg.IndexPath() != filepath.Join("shots", "list.json") {
		t.Fatalf("IndexPath = %q", cfg.IndexPath())
	}
}

func TestManagerCreatesMissingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if m.Get().ListWidth != 400 {
		t.Fatalf("ListWidth = %d, want default 400", m.Get().ListWidth)
	}
}

func TestManagerLoadsPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("list_width: 250\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := m.Get()
	if cfg.ListWidth != 250 {
		t.Fatalf("ListWidth = %d, want 250", cfg.ListWidth)
	}
	// Absent keys keep their defaults.
	if cfg.ShotsDir != "shots" || cfg.LogLevel != "info" {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}
}

func TestManagerRejectsMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t:bad"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewManager(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}

	m.Get().ListWidth = 999
	if m.Get().ListWidth != 400 {
		t.Fatal("mutating the returned config leaked into the manager")
	}
}
