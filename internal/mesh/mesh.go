// Package mesh holds the triangle-mesh model the exporter consumes and
// a loader for Wavefront OBJ files.
package mesh

import (
	"errors"

	"github.com/Faultbox/turnbake/pkg/geom"
	"github.com/Faultbox/turnbake/pkg/math"
)

// Vertex is one triangle corner with resolved attributes.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Triangle is a face with three resolved corners.
type Triangle [3]Vertex

// Mesh is a world-space triangle mesh. Transforms are assumed already
// applied; positions are final world coordinates.
type Mesh struct {
	Name      string
	Triangles []Triangle

	hasUV bool
}

// HasUV reports whether the mesh carried texture coordinates.
func (m *Mesh) HasUV() bool {
	return m.hasUV
}

// Bounds returns the world-space axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (geom.Box, error) {
	if len(m.Triangles) == 0 {
		return geom.Box{}, errors.New("mesh has no faces")
	}
	points := make([]math.Vec3, 0, len(m.Triangles)*3)
	for _, tri := range m.Triangles {
		for _, v := range tri {
			points = append(points, v.Position)
		}
	}
	box, _ := geom.FromPoints(points)
	return box, nil
}

// Validate reports whether the mesh is usable for export.
// Mirrors the checks applied before a mesh enters the batch queue.
func (m *Mesh) Validate() error {
	if len(m.Triangles) == 0 {
		return errors.New("mesh has no faces")
	}
	return nil
}
