package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/turnbake/internal/bake"
	"github.com/Faultbox/turnbake/internal/framer"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test camera defaults
	if cfg.Camera.Count != 8 {
		t.Errorf("expected camera count 8, got %d", cfg.Camera.Count)
	}
	if cfg.Camera.FocalLength != 50 {
		t.Errorf("expected focal length 50, got %v", cfg.Camera.FocalLength)
	}
	if cfg.Camera.SensorSize != 36 {
		t.Errorf("expected sensor size 36, got %v", cfg.Camera.SensorSize)
	}
	if cfg.Camera.Padding != 1.15 {
		t.Errorf("expected padding 1.15, got %v", cfg.Camera.Padding)
	}
	if cfg.Camera.Anchor != "center" {
		t.Errorf("expected anchor 'center', got %s", cfg.Camera.Anchor)
	}

	// Test bake defaults
	if cfg.Bake.Resolution != 512 {
		t.Errorf("expected bake resolution 512, got %d", cfg.Bake.Resolution)
	}
	if cfg.Bake.WireframeResolution != 4096 {
		t.Errorf("expected wireframe resolution 4096, got %d", cfg.Bake.WireframeResolution)
	}
	if cfg.Bake.WireframeThickness != 0.61 {
		t.Errorf("expected wireframe thickness 0.61, got %v", cfg.Bake.WireframeThickness)
	}
	if cfg.Bake.AOSamples != 128 {
		t.Errorf("expected ao samples 128, got %d", cfg.Bake.AOSamples)
	}
	if !cfg.Bake.Position || !cfg.Bake.Wireframe || !cfg.Bake.PaintBase {
		t.Error("expected position, wireframe and paint_base enabled by default")
	}
	if cfg.Bake.AO || cfg.Bake.Thickness || cfg.Bake.BaseColor || cfg.Bake.NormalObject {
		t.Error("expected the heavy bake modes disabled by default")
	}

	// Test batch and render defaults
	if cfg.Batch.Size != 50 {
		t.Errorf("expected batch size 50, got %d", cfg.Batch.Size)
	}
	if cfg.Render.Resolution != 1536 {
		t.Errorf("expected render resolution 1536, got %d", cfg.Render.Resolution)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestModesFollowToggles(t *testing.T) {
	cfg := Default()
	modes := cfg.Modes()
	want := []bake.Mode{bake.ModePosition, bake.ModeWireframe, bake.ModePaintBase}
	if len(modes) != len(want) {
		t.Fatalf("Modes() = %v, want %v", modes, want)
	}
	for i := range want {
		if modes[i] != want[i] {
			t.Fatalf("Modes() = %v, want %v", modes, want)
		}
	}

	cfg.Bake.NormalObject = true
	cfg.Bake.Wireframe = false
	modes = cfg.Modes()
	if len(modes) != 3 {
		t.Fatalf("Modes() = %v, want 3 modes", modes)
	}
	for _, m := range modes {
		if m == bake.ModeWireframe {
			t.Error("Modes() still lists disabled wireframe")
		}
	}
}

func TestFramerConfigMapping(t *testing.T) {
	cfg := Default()
	cfg.Camera.Anchor = "origin"
	fc := cfg.FramerConfig()
	if fc.Anchor != framer.AnchorOrigin {
		t.Errorf("expected AnchorOrigin, got %v", fc.Anchor)
	}
	if fc.Count != 8 || fc.FocalLength != 50 || fc.Padding != 1.15 {
		t.Errorf("framer config mapping mismatch: %+v", fc)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty mesh dir", func(c *Config) { c.Input.MeshDir = "" }},
		{"empty output", func(c *Config) { c.Output.Path = "" }},
		{"no modes", func(c *Config) {
			c.Bake.Position = false
			c.Bake.Wireframe = false
			c.Bake.PaintBase = false
		}},
		{"zero bake resolution", func(c *Config) { c.Bake.Resolution = 0 }},
		{"zero render resolution", func(c *Config) { c.Render.Resolution = 0 }},
		{"bad anchor", func(c *Config) { c.Camera.Anchor = "corner" }},
		{"zero views", func(c *Config) { c.Camera.Count = 0 }},
		{"zero focal length", func(c *Config) { c.Camera.FocalLength = 0 }},
		{"padding below one", func(c *Config) { c.Camera.Padding = 0.9 }},
		{"negative min distance", func(c *Config) { c.Camera.MinDistance = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
input:
  mesh_dir: "/data/meshes"
  pattern: "*.obj"

output:
  path: "/data/dataset"

bake:
  resolution: 1024
  normal_object: true
  wireframe: false

camera:
  count: 12
  padding: 1.3
  anchor: origin

batch:
  size: 10
  resume: true

render:
  resolution: 768
  contact_sheet: true

logging:
  level: "debug"
  log_file: "export.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Input.MeshDir != "/data/meshes" {
		t.Errorf("expected mesh dir /data/meshes, got %s", cfg.Input.MeshDir)
	}
	if cfg.Bake.Resolution != 1024 {
		t.Errorf("expected bake resolution 1024, got %d", cfg.Bake.Resolution)
	}
	if !cfg.Bake.NormalObject {
		t.Error("expected normal_object enabled")
	}
	if cfg.Bake.Wireframe {
		t.Error("expected wireframe disabled")
	}
	// Untouched keys keep their defaults.
	if !cfg.Bake.Position {
		t.Error("expected position to keep its default")
	}
	if cfg.Bake.WireframeThickness != 0.61 {
		t.Errorf("expected wireframe thickness default 0.61, got %v", cfg.Bake.WireframeThickness)
	}

	if cfg.Camera.Count != 12 {
		t.Errorf("expected camera count 12, got %d", cfg.Camera.Count)
	}
	if cfg.Camera.Padding != 1.3 {
		t.Errorf("expected padding 1.3, got %v", cfg.Camera.Padding)
	}
	if cfg.Batch.Size != 10 || !cfg.Batch.Resume {
		t.Errorf("batch section mismatch: %+v", cfg.Batch)
	}
	if cfg.Render.Resolution != 768 || !cfg.Render.ContactSheet {
		t.Errorf("render section mismatch: %+v", cfg.Render)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "export.log" {
		t.Errorf("expected log file 'export.log', got %s", cfg.Logging.LogFile)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Camera.Count = 12
	cfg.Bake.NormalObject = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Camera.Count != 12 {
		t.Errorf("expected camera count 12 after round trip, got %d", loaded.Camera.Count)
	}
	if !loaded.Bake.NormalObject {
		t.Error("expected normal_object enabled after round trip")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
bake:
  resolution: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  count: 4\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "input flag",
			setup: func() { *flagInput = "/other/meshes" },
			verify: func(cfg *Config) {
				if cfg.Input.MeshDir != "/other/meshes" {
					t.Errorf("expected mesh dir /other/meshes, got %s", cfg.Input.MeshDir)
				}
			},
			teardown: func() { *flagInput = "" },
		},
		{
			name:  "output flag",
			setup: func() { *flagOutput = "/other/dataset" },
			verify: func(cfg *Config) {
				if cfg.Output.Path != "/other/dataset" {
					t.Errorf("expected output /other/dataset, got %s", cfg.Output.Path)
				}
			},
			teardown: func() { *flagOutput = "" },
		},
		{
			name:  "views flag",
			setup: func() { *flagViews = 16 },
			verify: func(cfg *Config) {
				if cfg.Camera.Count != 16 {
					t.Errorf("expected camera count 16, got %d", cfg.Camera.Count)
				}
			},
			teardown: func() { *flagViews = 0 },
		},
		{
			name:  "resume flag",
			setup: func() { *flagResume = true },
			verify: func(cfg *Config) {
				if !cfg.Batch.Resume {
					t.Error("expected resume to be enabled")
				}
			},
			teardown: func() { *flagResume = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
camera:
  count: 6
render:
  resolution: 1024
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagViews = 24
	defer func() {
		*flagConfig = ""
		*flagViews = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Count should be from flag (24), not file (6)
	if cfg.Camera.Count != 24 {
		t.Errorf("expected camera count 24 from flag, got %d", cfg.Camera.Count)
	}

	// Resolution should be from file (1024) since no flag override
	if cfg.Render.Resolution != 1024 {
		t.Errorf("expected render resolution 1024 from file, got %d", cfg.Render.Resolution)
	}
}
