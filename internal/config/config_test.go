// ABOUTME: Tests for configuration load/save functionality
// ABOUTME: Validates TOML parsing and default config fallback behavior

package config

import (
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PopulationSize != 120 {
		t.Errorf("expected PopulationSize 120, got %d", cfg.PopulationSize)
	}
	if cfg.Generations != 200 {
		t.Errorf("expected Generations 200, got %d", cfg.Generations)
	}
	if cfg.Runs != 5 {
		t.Errorf("expected Runs 5, got %d", cfg.Runs)
	}
	if cfg.Port != 8000 {
		t.Errorf("expected Port 8000, got %d", cfg.Port)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tmpfile, err := os.CreateTemp(t.TempDir(), "ga-assign-*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	tmpfile.Close()

	cfg := DefaultConfig()
	cfg.MutationRate = 0.4
	if err := SaveConfig(tmpfile.Name(), cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(tmpfile.Name())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.MutationRate != cfg.MutationRate {
		t.Errorf("MutationRate mismatch: got %.2f, want %.2f", loaded.MutationRate, cfg.MutationRate)
	}
	if loaded.PopulationSize != cfg.PopulationSize {
		t.Errorf("PopulationSize mismatch: got %d, want %d", loaded.PopulationSize, cfg.PopulationSize)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.PopulationSize != defaults.PopulationSize {
		t.Errorf("expected default PopulationSize %d, got %d", defaults.PopulationSize, cfg.PopulationSize)
	}
}

func TestLoadConfig_PartialOverrideKeepsOtherDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp(t.TempDir(), "ga-assign-*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.WriteString("port = 9090\n"); err != nil {
		t.Fatal(err)
	}
	tmpfile.Close()

	cfg, err := LoadConfig(tmpfile.Name())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected overridden Port 9090, got %d", cfg.Port)
	}
	if cfg.PopulationSize != 120 {
		t.Errorf("expected default PopulationSize 120 to survive partial override, got %d", cfg.PopulationSize)
	}
}
