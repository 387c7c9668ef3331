package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Graphics.FOVDegrees != 65 {
		t.Errorf("expected fov 65, got %f", cfg.Graphics.FOVDegrees)
	}

	if cfg.Scene.TerrainLength != 50 || cfg.Scene.TerrainWidth != 50 {
		t.Errorf("expected 50x50 terrain, got %dx%d", cfg.Scene.TerrainLength, cfg.Scene.TerrainWidth)
	}
	if cfg.Scene.TerrainIterations != 4000 {
		t.Errorf("expected 4000 iterations, got %d", cfg.Scene.TerrainIterations)
	}
	if cfg.Scene.Airplanes != 20 {
		t.Errorf("expected 20 airplanes, got %d", cfg.Scene.Airplanes)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

scene:
  terrain_length: 128
  terrain_width: 64
  terrain_iterations: 1000
  airplanes: 5

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen true")
	}
	if cfg.Scene.TerrainLength != 128 || cfg.Scene.TerrainWidth != 64 {
		t.Errorf("expected 128x64 terrain, got %dx%d", cfg.Scene.TerrainLength, cfg.Scene.TerrainWidth)
	}
	if cfg.Scene.TerrainIterations != 1000 {
		t.Errorf("expected 1000 iterations, got %d", cfg.Scene.TerrainIterations)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}

	// Values absent from the file keep their defaults
	if cfg.Scene.GridSize != 1 {
		t.Errorf("grid size should keep default 1, got %d", cfg.Scene.GridSize)
	}
	if cfg.Graphics.FOVDegrees != 65 {
		t.Errorf("fov should keep default 65, got %f", cfg.Graphics.FOVDegrees)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.TerrainLength = 77
	cfg.Logging.Level = "warn"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if loaded.Scene.TerrainLength != 77 {
		t.Errorf("terrain length not preserved, got %d", loaded.Scene.TerrainLength)
	}
	if loaded.Logging.Level != "warn" {
		t.Errorf("log level not preserved, got %s", loaded.Logging.Level)
	}
}
