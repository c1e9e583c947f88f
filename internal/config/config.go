// Package config handles exporter configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/turnbake/internal/bake"
	"github.com/Faultbox/turnbake/internal/framer"
)

// Config holds all exporter settings.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Bake    BakeConfig    `yaml:"bake"`
	Camera  CameraConfig  `yaml:"camera"`
	Batch   BatchConfig   `yaml:"batch"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig holds the mesh source settings.
type InputConfig struct {
	MeshDir string `yaml:"mesh_dir"`
	Pattern string `yaml:"pattern"` // Glob over file names, e.g. *.obj
}

// OutputConfig holds dataset destination settings.
type OutputConfig struct {
	Path     string `yaml:"path"`
	Manifest string `yaml:"manifest"`
}

// BakeConfig holds bake resolutions and per-mode toggles.
type BakeConfig struct {
	Resolution          int     `yaml:"resolution"`
	WireframeResolution int     `yaml:"wireframe_resolution"`
	WireframeThickness  float64 `yaml:"wireframe_thickness"`
	AOSamples           int     `yaml:"ao_samples"`
	ThicknessDistance   float64 `yaml:"thickness_distance"`
	CurvatureSize       float64 `yaml:"curvature_size"`

	Position     bool `yaml:"position"`
	Wireframe    bool `yaml:"wireframe"`
	PaintBase    bool `yaml:"paint_base"`
	NormalObject bool `yaml:"normal_object"`
	BaseColor    bool `yaml:"base_color"`
	AO           bool `yaml:"ao"`
	Curvature    bool `yaml:"curvature"`
	Thickness    bool `yaml:"thickness"`
}

// CameraConfig holds the turnaround framing settings.
type CameraConfig struct {
	Count            int     `yaml:"count"`
	FocalLength      float64 `yaml:"focal_length"`
	SensorSize       float64 `yaml:"sensor_size"`
	Padding          float64 `yaml:"padding"`
	MinDistance      float64 `yaml:"min_distance"`
	MinDistanceScale float64 `yaml:"min_distance_scale"`
	Anchor           string  `yaml:"anchor"` // "center" or "origin"
}

// BatchConfig holds batch loop settings.
type BatchConfig struct {
	Size       int    `yaml:"size"`
	Checkpoint string `yaml:"checkpoint"`
	Resume     bool   `yaml:"resume"`
}

// RenderConfig holds view rendering settings.
type RenderConfig struct {
	Resolution   int  `yaml:"resolution"`
	ContactSheet bool `yaml:"contact_sheet"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the exporter's stock values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			MeshDir: "./meshes",
			Pattern: "*.obj",
		},
		Output: OutputConfig{
			Path:     "./dataset",
			Manifest: "dataset_manifest.yaml",
		},
		Bake: BakeConfig{
			Resolution:          512,
			WireframeResolution: 4096,
			WireframeThickness:  0.61,
			AOSamples:           128,
			ThicknessDistance:   1.0,
			CurvatureSize:       0.005,
			Position:            true,
			Wireframe:           true,
			PaintBase:           true,
		},
		Camera: CameraConfig{
			Count:       8,
			FocalLength: 50,
			SensorSize:  36,
			Padding:     1.15,
			MinDistance: 0.1,
			Anchor:      "center",
		},
		Batch: BatchConfig{
			Size:       50,
			Checkpoint: "checkpoint.yaml",
		},
		Render: RenderConfig{
			Resolution:   1536,
			ContactSheet: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Modes returns the enabled bake modes in processing order.
func (c *Config) Modes() []bake.Mode {
	enabled := map[bake.Mode]bool{
		bake.ModePosition:     c.Bake.Position,
		bake.ModeWireframe:    c.Bake.Wireframe,
		bake.ModePaintBase:    c.Bake.PaintBase,
		bake.ModeNormalObject: c.Bake.NormalObject,
		bake.ModeBaseColor:    c.Bake.BaseColor,
		bake.ModeAO:           c.Bake.AO,
		bake.ModeCurvature:    c.Bake.Curvature,
		bake.ModeThickness:    c.Bake.Thickness,
	}
	var modes []bake.Mode
	for _, m := range bake.AllModes() {
		if enabled[m] {
			modes = append(modes, m)
		}
	}
	return modes
}

// BakeSettings maps the config onto the bake plan settings.
func (c *Config) BakeSettings() bake.Settings {
	return bake.Settings{
		Resolution:          c.Bake.Resolution,
		WireframeResolution: c.Bake.WireframeResolution,
		WireframeThickness:  c.Bake.WireframeThickness,
		AOSamples:           c.Bake.AOSamples,
		ThicknessDistance:   c.Bake.ThicknessDistance,
		CurvatureSize:       c.Bake.CurvatureSize,
	}
}

// FramerConfig maps the camera section onto the framer's config.
func (c *Config) FramerConfig() framer.Config {
	anchor := framer.AnchorCenter
	if c.Camera.Anchor == "origin" {
		anchor = framer.AnchorOrigin
	}
	return framer.Config{
		Count:            c.Camera.Count,
		FocalLength:      c.Camera.FocalLength,
		SensorSize:       c.Camera.SensorSize,
		Padding:          c.Camera.Padding,
		MinDistance:      c.Camera.MinDistance,
		MinDistanceScale: c.Camera.MinDistanceScale,
		Anchor:           anchor,
	}
}

// Validate rejects settings the pipeline cannot run with. Framing
// constraints are checked here so bad values fail at startup instead
// of on the first mesh.
func (c *Config) Validate() error {
	if c.Input.MeshDir == "" {
		return fmt.Errorf("input.mesh_dir must be set")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must be set")
	}
	if len(c.Modes()) == 0 {
		return fmt.Errorf("at least one bake mode must be enabled")
	}
	if c.Bake.Resolution < 1 {
		return fmt.Errorf("bake.resolution must be positive, got %d", c.Bake.Resolution)
	}
	if c.Bake.WireframeResolution < 1 {
		return fmt.Errorf("bake.wireframe_resolution must be positive, got %d", c.Bake.WireframeResolution)
	}
	if c.Render.Resolution < 1 {
		return fmt.Errorf("render.resolution must be positive, got %d", c.Render.Resolution)
	}
	if c.Camera.Anchor != "center" && c.Camera.Anchor != "origin" {
		return fmt.Errorf("camera.anchor must be center or origin, got %q", c.Camera.Anchor)
	}
	if c.Camera.Count < 1 {
		return fmt.Errorf("camera.count must be at least 1, got %d", c.Camera.Count)
	}
	if c.Camera.FocalLength <= 0 {
		return fmt.Errorf("camera.focal_length must be positive, got %v", c.Camera.FocalLength)
	}
	if c.Camera.SensorSize <= 0 {
		return fmt.Errorf("camera.sensor_size must be positive, got %v", c.Camera.SensorSize)
	}
	if c.Camera.Padding < 1.0 {
		return fmt.Errorf("camera.padding must be at least 1.0, got %v", c.Camera.Padding)
	}
	if c.Camera.MinDistance < 0 || c.Camera.MinDistanceScale < 0 {
		return fmt.Errorf("camera minimum distances must not be negative")
	}
	return nil
}
