// Package scene abstracts the host that owns the meshes being
// processed. A Session hands out mesh names, bounds, bake results and
// rendered views; the batch processor never touches geometry directly,
// so a GPU-backed host can slot in behind the same interface.
package scene

import (
	"fmt"
	"image"
	"sort"

	"github.com/Faultbox/turnbake/internal/bake"
	"github.com/Faultbox/turnbake/internal/framer"
	"github.com/Faultbox/turnbake/internal/mesh"
	"github.com/Faultbox/turnbake/internal/render"
	"github.com/Faultbox/turnbake/internal/softbake"
	"github.com/Faultbox/turnbake/pkg/geom"
)

// Session is one open processing session over a set of named meshes.
type Session interface {
	// Meshes lists the mesh names in processing order.
	Meshes() []string
	// Bounds returns the world-space bounding box of the named mesh.
	Bounds(name string) (geom.Box, error)
	// Bake runs one bake job for the named mesh. Jobs the session
	// cannot produce return an error wrapping bake.ErrUnsupported.
	Bake(name string, job bake.Job) (image.Image, error)
	// Render draws the named mesh from pose, textured with texture
	// when non-nil.
	Render(name string, texture image.Image, pose framer.Pose, opts render.Options) (image.Image, error)
	// Close releases the session's resources.
	Close() error
}

// SoftSession serves meshes from memory with the software bake and
// render paths. It is the headless stand-in for a host application.
type SoftSession struct {
	names  []string
	byName map[string]*mesh.Mesh
}

// NewSoftSession builds a session over the given meshes. Names must be
// unique; processing order is name order.
func NewSoftSession(meshes []*mesh.Mesh) (*SoftSession, error) {
	s := &SoftSession{byName: make(map[string]*mesh.Mesh, len(meshes))}
	for _, m := range meshes {
		if _, dup := s.byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate mesh name %q", m.Name)
		}
		s.byName[m.Name] = m
		s.names = append(s.names, m.Name)
	}
	sort.Strings(s.names)
	return s, nil
}

func (s *SoftSession) Meshes() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *SoftSession) Bounds(name string) (geom.Box, error) {
	m, err := s.lookup(name)
	if err != nil {
		return geom.Box{}, err
	}
	return m.Bounds()
}

func (s *SoftSession) Bake(name string, job bake.Job) (image.Image, error) {
	m, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return softbake.Bake(m, job)
}

func (s *SoftSession) Render(name string, texture image.Image, pose framer.Pose, opts render.Options) (image.Image, error) {
	m, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return render.View(m, pose, texture, opts), nil
}

func (s *SoftSession) Close() error { return nil }

func (s *SoftSession) lookup(name string) (*mesh.Mesh, error) {
	m, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown mesh %q", name)
	}
	return m, nil
}
