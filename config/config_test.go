package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathUsesEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if cfg.Simulation.SizeX <= 0 || cfg.Simulation.SizeY <= 0 {
		t.Errorf("embedded defaults produced non-positive grid size %dx%d", cfg.Simulation.SizeX, cfg.Simulation.SizeY)
	}
	if cfg.Simulation.Population <= 0 {
		t.Errorf("embedded defaults produced non-positive population %d", cfg.Simulation.Population)
	}
}

func TestLoadOverlaysUserFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	content := "simulation:\n  population: 777\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing override file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) returned error: %v", path, err)
	}
	if cfg.Simulation.Population != 777 {
		t.Errorf("Population = %d, want 777 from override", cfg.Simulation.Population)
	}
	if cfg.Simulation.SizeX <= 0 {
		t.Errorf("fields absent from the override should retain embedded defaults, got SizeX=%d", cfg.Simulation.SizeX)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load on a nonexistent path should return an error")
	}
}

func TestValidateRejectsInvalidConfig(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}

	cfg.Simulation.SizeX = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject a non-positive SizeX")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate rejected the embedded defaults: %v", err)
	}
}

func TestInitAndCfgRoundTrip(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init(\"\") returned error: %v", err)
	}
	if Cfg() == nil {
		t.Error("Cfg() returned nil after Init")
	}
}

func TestWriteYAMLRoundTrips(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	cfg.Simulation.Population = 123

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML returned error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config returned error: %v", err)
	}
	if reloaded.Simulation.Population != 123 {
		t.Errorf("reloaded Population = %d, want 123", reloaded.Simulation.Population)
	}
}
