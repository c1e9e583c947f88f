// Package scenetest provides a recording Session fake for exercising
// the batch pipeline without real geometry.
package scenetest

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/turnbake/internal/bake"
	"github.com/Faultbox/turnbake/internal/framer"
	"github.com/Faultbox/turnbake/internal/render"
	"github.com/Faultbox/turnbake/pkg/geom"
	"github.com/Faultbox/turnbake/pkg/math"
)

// Fake is an in-memory Session. Every mesh reports the same unit-cube
// bounds unless BoundsFor overrides it; bakes and renders return small
// solid images. Error fields inject failures per mesh name.
type Fake struct {
	Names     []string
	BoundsFor map[string]geom.Box

	// BakeErr fails every bake for the mesh; UnsupportedModes declines
	// specific modes the way a limited host would.
	BakeErr          map[string]error
	BoundsErr        map[string]error
	RenderErr        map[string]error
	UnsupportedModes []bake.Mode

	BakeCalls   []BakeCall
	RenderCalls []RenderCall
	Closed      bool
}

type BakeCall struct {
	Mesh string
	Mode bake.Mode
}

type RenderCall struct {
	Mesh     string
	Pose     framer.Pose
	Textured bool
}

func (f *Fake) Meshes() []string { return f.Names }

func (f *Fake) Bounds(name string) (geom.Box, error) {
	if err := f.BoundsErr[name]; err != nil {
		return geom.Box{}, err
	}
	if box, ok := f.BoundsFor[name]; ok {
		return box, nil
	}
	return geom.Box{
		Min: math.Vec3{X: -1, Y: -1, Z: -1},
		Max: math.Vec3{X: 1, Y: 1, Z: 1},
	}, nil
}

func (f *Fake) Bake(name string, job bake.Job) (image.Image, error) {
	f.BakeCalls = append(f.BakeCalls, BakeCall{Mesh: name, Mode: job.Mode})
	if err := f.BakeErr[name]; err != nil {
		return nil, err
	}
	for _, m := range f.UnsupportedModes {
		if m == job.Mode {
			return nil, fmt.Errorf("%s: %w", job.Mode, bake.ErrUnsupported)
		}
	}
	return solid(8, color.NRGBA{R: 200, A: 255}), nil
}

func (f *Fake) Render(name string, texture image.Image, pose framer.Pose, opts render.Options) (image.Image, error) {
	f.RenderCalls = append(f.RenderCalls, RenderCall{
		Mesh:     name,
		Pose:     pose,
		Textured: texture != nil,
	})
	if err := f.RenderErr[name]; err != nil {
		return nil, err
	}
	return solid(opts.Resolution, color.NRGBA{G: 200, A: 255}), nil
}

func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

func solid(size int, c color.NRGBA) *image.NRGBA {
	if size < 1 {
		size = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
