package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/turnbake/internal/framer"
	"github.com/Faultbox/turnbake/pkg/geom"
)

// Manifest describes one completed dataset run. It echoes the
// configuration the images were produced with so a training pipeline
// can interpret the directory tree without the original config file.
type Manifest struct {
	RunID     string         `yaml:"run_id"`
	CreatedAt time.Time      `yaml:"created_at"`
	Camera    ManifestCamera `yaml:"camera"`
	Modes     []string       `yaml:"modes"`
	Meshes    []ManifestMesh `yaml:"meshes"`
}

type ManifestCamera struct {
	Count            int     `yaml:"count"`
	FocalLength      float64 `yaml:"focal_length"`
	SensorSize       float64 `yaml:"sensor_size"`
	Padding          float64 `yaml:"padding"`
	RenderResolution int     `yaml:"render_resolution"`
}

type ManifestMesh struct {
	Name     string              `yaml:"name"`
	ID       string              `yaml:"id"`
	Bounds   ManifestBounds      `yaml:"bounds"`
	Distance float64             `yaml:"camera_distance"`
	Poses    []ManifestPose      `yaml:"poses"`
	Textures map[string]string   `yaml:"textures"`
	Views    map[string][]string `yaml:"views"`
}

type ManifestBounds struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

type ManifestPose struct {
	Azimuth  float64    `yaml:"azimuth"`
	Position [3]float64 `yaml:"position"`
}

func manifestBounds(box geom.Box) ManifestBounds {
	return ManifestBounds{
		Min: [3]float64{box.Min.X, box.Min.Y, box.Min.Z},
		Max: [3]float64{box.Max.X, box.Max.Y, box.Max.Z},
	}
}

func manifestPoses(poses []framer.Pose) []ManifestPose {
	out := make([]ManifestPose, len(poses))
	for i, p := range poses {
		out[i] = ManifestPose{
			Azimuth:  p.Azimuth,
			Position: [3]float64{p.Position.X, p.Position.Y, p.Position.Z},
		}
	}
	return out
}

// Save writes the manifest to path as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadManifest reads a manifest back, mainly for tests and tooling.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
