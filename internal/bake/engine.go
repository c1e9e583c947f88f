package bake

import (
	"errors"
	"fmt"
	"image"
)

// ErrUnsupported is returned by a Baker that cannot compute a recipe
// (the software session has no path tracer for AO-family bakes). The
// batch skips the mode for that mesh instead of failing it.
var ErrUnsupported = errors.New("bake recipe not supported by this session")

// Baker runs one bake job for a named mesh. scene.Session implements it.
type Baker interface {
	Bake(meshName string, job Job) (image.Image, error)
}

// Result holds everything All produced for one mesh.
type Result struct {
	Images  map[Mode]image.Image
	Skipped []Mode
}

// All bakes every job in order, collecting images and recording the
// modes the baker declined. Any other error aborts the mesh.
func All(b Baker, meshName string, jobs []Job) (Result, error) {
	res := Result{Images: make(map[Mode]image.Image, len(jobs))}
	for _, job := range jobs {
		img, err := b.Bake(meshName, job)
		if errors.Is(err, ErrUnsupported) {
			res.Skipped = append(res.Skipped, job.Mode)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("baking %s for %s: %w", job.Mode, meshName, err)
		}
		res.Images[job.Mode] = img
	}
	return res, nil
}
