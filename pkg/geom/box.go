// Package geom provides world-space geometric primitives for framing
// and rasterization.
package geom

import (
	"github.com/Faultbox/turnbake/pkg/math"
)

// Box is an axis-aligned bounding box in world space, defined by its
// minimum and maximum corners. Build one with FromPoints; a Box is
// read-only once computed.
type Box struct {
	Min, Max math.Vec3
}

// FromPoints returns the tightest Box enclosing the given points.
// ok is false when points is empty.
func FromPoints(points []math.Vec3) (box Box, ok bool) {
	if len(points) == 0 {
		return Box{}, false
	}
	box.Min = points[0]
	box.Max = points[0]
	for _, p := range points[1:] {
		box.Min.X = min(box.Min.X, p.X)
		box.Min.Y = min(box.Min.Y, p.Y)
		box.Min.Z = min(box.Min.Z, p.Z)
		box.Max.X = max(box.Max.X, p.X)
		box.Max.Y = max(box.Max.Y, p.Y)
		box.Max.Z = max(box.Max.Z, p.Z)
	}
	return box, true
}

// Center returns the midpoint of the box.
func (b Box) Center() math.Vec3 {
	return math.Vec3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Size returns the per-axis extents.
func (b Box) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the 8 corner points.
func (b Box) Corners() [8]math.Vec3 {
	var out [8]math.Vec3
	i := 0
	for _, x := range [2]float64{b.Min.X, b.Max.X} {
		for _, y := range [2]float64{b.Min.Y, b.Max.Y} {
			for _, z := range [2]float64{b.Min.Z, b.Max.Z} {
				out[i] = math.Vec3{X: x, Y: y, Z: z}
				i++
			}
		}
	}
	return out
}

// BoundingRadius returns the distance from the center to the farthest
// corner.
func (b Box) BoundingRadius() float64 {
	return b.Max.Sub(b.Center()).Length()
}

// IsDegenerate reports whether the box has zero extent on all three
// axes (a single point).
func (b Box) IsDegenerate() bool {
	s := b.Size()
	return s.X == 0 && s.Y == 0 && s.Z == 0
}

// IsFlat reports whether the box has zero extent on at least one axis.
// Flat boxes are valid framing input; degenerate ones are not.
func (b Box) IsFlat() bool {
	s := b.Size()
	return s.X == 0 || s.Y == 0 || s.Z == 0
}

// Contains reports whether the point lies inside the box.
func (b Box) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
