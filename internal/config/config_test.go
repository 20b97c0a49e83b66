// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, YAML overlay and validation
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.SampleRate != 44100 {
		t.Errorf("expected default sample rate 44100, got %d", cfg.SampleRate)
	}
	if !cfg.LiveCoding {
		t.Error("live coding should default to on")
	}
	if cfg.Keys.Evaluate != "ctrl+e" {
		t.Errorf("unexpected default evaluate key: %s", cfg.Keys.Evaluate)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg != Default() {
		t.Error("empty path should return defaults")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glint.yaml")
	body := "sample_rate: 48000\ncontrol:\n  enabled: true\n  addr: \"0.0.0.0:9000\"\nkeys:\n  evaluate: ctrl+r\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("expected 48000, got %d", cfg.SampleRate)
	}
	if !cfg.Control.Enabled || cfg.Control.Addr != "0.0.0.0:9000" {
		t.Errorf("control overlay not applied: %+v", cfg.Control)
	}
	if cfg.Keys.Evaluate != "ctrl+r" {
		t.Errorf("keys overlay not applied: %s", cfg.Keys.Evaluate)
	}
	// Untouched fields keep defaults.
	if cfg.Keys.Quit != "ctrl+c" {
		t.Errorf("expected default quit key, got %s", cfg.Keys.Quit)
	}
}

func TestLoadRejectsBadSampleRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glint.yaml")
	if err := os.WriteFile(path, []byte("sample_rate: -1\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
