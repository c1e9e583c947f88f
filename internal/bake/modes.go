// Package bake defines the texture channels the exporter produces per
// mesh and the shader-node recipes that describe how a host renderer
// would bake each one.
package bake

import "image/color"

// Mode is one baked texture channel.
type Mode string

const (
	ModePosition     Mode = "position"
	ModeWireframe    Mode = "wireframe"
	ModePaintBase    Mode = "paint_base"
	ModeNormalObject Mode = "normal_object"
	ModeBaseColor    Mode = "base_color"
	ModeAO           Mode = "ao"
	ModeThickness    Mode = "thickness"
	ModeCurvature    Mode = "curvature"
)

// AllModes returns every mode in pipeline order. Output directories,
// manifests and bake loops all follow this order.
func AllModes() []Mode {
	return []Mode{
		ModePosition,
		ModeWireframe,
		ModePaintBase,
		ModeNormalObject,
		ModeBaseColor,
		ModeAO,
		ModeCurvature,
		ModeThickness,
	}
}

// DirName returns the output subdirectory for the mode.
func (m Mode) DirName() string {
	return string(m)
}

// Background returns the fill color a bake target starts from.
func (m Mode) Background() color.NRGBA {
	switch m {
	case ModePaintBase:
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	case ModeNormalObject, ModeCurvature:
		// Neutral normal pointing out of the surface.
		return color.NRGBA{R: 128, G: 128, B: 255, A: 255}
	case ModeBaseColor:
		return color.NRGBA{R: 204, G: 204, B: 204, A: 255}
	case ModeAO:
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	default:
		return color.NRGBA{A: 255}
	}
}

// Settings carries the per-mode bake parameters.
type Settings struct {
	// Resolution is the square texture edge for most modes.
	Resolution int
	// WireframeResolution overrides Resolution for wireframe maps,
	// which need more pixels to keep thin lines crisp.
	WireframeResolution int
	// WireframeThickness is the line width in UV units.
	WireframeThickness float64
	// AOSamples is the sample count for ambient occlusion.
	AOSamples int
	// ThicknessDistance caps the inverted-AO ray distance.
	ThicknessDistance float64
	// CurvatureSize is the sample radius for curvature detection.
	CurvatureSize float64
}

// Job is one bake to run: a mode, its recipe, and its output shape.
type Job struct {
	Mode       Mode
	Resolution int
	Background color.NRGBA
	Recipe     Recipe
}

// Plan expands the enabled modes into concrete jobs.
func Plan(enabled []Mode, s Settings) []Job {
	jobs := make([]Job, 0, len(enabled))
	for _, mode := range enabled {
		res := s.Resolution
		if mode == ModeWireframe && s.WireframeResolution > 0 {
			res = s.WireframeResolution
		}
		jobs = append(jobs, Job{
			Mode:       mode,
			Resolution: res,
			Background: mode.Background(),
			Recipe:     RecipeFor(mode, s),
		})
	}
	return jobs
}
