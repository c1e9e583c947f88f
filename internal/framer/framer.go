// Package framer computes turnaround camera poses for a mesh bounding
// box: N views on a horizontal circle around the box, evenly spaced
// about world Z, each guaranteed not to clip the box while keeping the
// mesh as large in frame as the worst view allows.
package framer

import (
	gomath "math"

	"github.com/Faultbox/turnbake/pkg/geom"
	"github.com/Faultbox/turnbake/pkg/math"
)

// Anchor selects the horizontal point the turnaround circles around.
type Anchor int

const (
	// AnchorCenter orbits and looks at the bounding-box center. Default.
	AnchorCenter Anchor = iota
	// AnchorOrigin orbits the world origin XY at the box's center
	// height, for datasets whose meshes are pre-centered at origin.
	AnchorOrigin
)

// Config is the immutable turnaround configuration.
type Config struct {
	// Count is the number of views, spaced at 360/Count degrees.
	Count int
	// FocalLength is the camera focal length in millimeters.
	FocalLength float64
	// SensorSize is the square sensor edge in millimeters.
	SensorSize float64
	// Padding multiplies the computed minimum distance. 1.0 is an
	// exact fit against the field of view.
	Padding float64
	// MinDistance is an absolute floor on the shared camera distance.
	MinDistance float64
	// MinDistanceScale optionally floors the distance at
	// MinDistanceScale times the box's bounding radius. 0 disables it.
	MinDistanceScale float64
	// Anchor selects the orbit center. See Anchor.
	Anchor Anchor
}

// HalfFOV returns half the camera's field of view in radians.
func (c Config) HalfFOV() float64 {
	return gomath.Atan((c.SensorSize / 2) / c.FocalLength)
}

// FOV returns the full field of view in radians.
func (c Config) FOV() float64 {
	return 2 * c.HalfFOV()
}

func (c Config) validate() error {
	switch {
	case c.Count < 1:
		return &InvalidConfigurationError{Field: "count", Reason: "must be at least 1"}
	case c.FocalLength <= 0:
		return &InvalidConfigurationError{Field: "focal length", Reason: "must be positive"}
	case c.SensorSize <= 0:
		return &InvalidConfigurationError{Field: "sensor size", Reason: "must be positive"}
	case c.Padding < 1.0:
		return &InvalidConfigurationError{Field: "padding", Reason: "must be at least 1.0"}
	case c.MinDistance < 0:
		return &InvalidConfigurationError{Field: "min distance", Reason: "must not be negative"}
	case c.MinDistanceScale < 0:
		return &InvalidConfigurationError{Field: "min distance scale", Reason: "must not be negative"}
	}
	return nil
}

// Pose is one camera placement in the turnaround.
type Pose struct {
	// Position is the camera location in world space.
	Position math.Vec3
	// Target is the look-at point. Shared by all views of a
	// turnaround so vertical framing stays consistent.
	Target math.Vec3
	// Distance from the target. Identical across the whole turnaround.
	Distance float64
	// Azimuth is the view angle in degrees from the +Y reference axis.
	Azimuth float64
}

// Frame computes the turnaround poses for box under cfg.
//
// Every view shares a single worst-case distance so the mesh's apparent
// scale is identical across the whole set; per-view-optimal distances
// would break downstream consumers that stack the views as channels.
// Returns DegenerateGeometryError for a point box and
// InvalidConfigurationError for out-of-range settings.
func Frame(box geom.Box, cfg Config) ([]Pose, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if box.IsDegenerate() {
		return nil, &DegenerateGeometryError{Box: box}
	}

	center := box.Center()
	corners := box.Corners()
	tanHalf := gomath.Tan(cfg.HalfFOV())
	step := 360.0 / float64(cfg.Count)

	// Worst view wins: the shared distance must clear every silhouette.
	dirs := make([]math.Vec3, cfg.Count)
	required := 0.0
	for i := range dirs {
		dirs[i] = ViewDirection(float64(i) * step)
		radius := EffectiveRadius(corners, center, dirs[i])
		if d := radius / tanHalf; d > required {
			required = d
		}
	}

	dist := required * cfg.Padding
	floor := cfg.MinDistance
	if s := cfg.MinDistanceScale * box.BoundingRadius(); s > floor {
		floor = s
	}
	if dist < floor {
		dist = floor
	}

	anchor := center
	if cfg.Anchor == AnchorOrigin {
		anchor = math.Vec3{Z: center.Z}
	}

	poses := make([]Pose, cfg.Count)
	for i, dir := range dirs {
		poses[i] = Pose{
			Position: anchor.Add(dir.Scale(dist)),
			Target:   anchor,
			Distance: dist,
			Azimuth:  float64(i) * step,
		}
	}
	return poses, nil
}

// ViewDirection returns the horizontal unit vector from the orbit
// center toward the camera for the given azimuth: the world +Y axis
// rotated by azimuth degrees about world Z.
func ViewDirection(azimuthDeg float64) math.Vec3 {
	rot := math.RotateZ(azimuthDeg * gomath.Pi / 180)
	return rot.TransformDirection(math.Vec3{Y: 1})
}

// EffectiveRadius returns the half-width of the box silhouette seen
// along dir: the largest magnitude, over the corners, of the corner
// offset from center projected onto the plane perpendicular to dir.
// dir must be a unit vector.
func EffectiveRadius(corners [8]math.Vec3, center, dir math.Vec3) float64 {
	radius := 0.0
	for _, corner := range corners {
		perp := corner.Sub(center).Reject(dir)
		if l := perp.Length(); l > radius {
			radius = l
		}
	}
	return radius
}
