// Package softbake rasterizes bake channels directly into UV space,
// standing in for a host renderer's bake passes. It covers the modes
// that are pure functions of surface geometry (position, wireframe,
// paint base, object normals); modes that need light transport are
// declined with bake.ErrUnsupported.
package softbake

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	gomath "math"

	"github.com/Faultbox/turnbake/internal/bake"
	"github.com/Faultbox/turnbake/internal/mesh"
	"github.com/Faultbox/turnbake/pkg/geom"
	"github.com/Faultbox/turnbake/pkg/math"
)

// ErrNoUV is returned for meshes without texture coordinates. The
// original host auto-unwrapped such meshes; headless we can only skip.
var ErrNoUV = errors.New("mesh has no UV map")

// Bake renders one bake job for the mesh into a UV-space texture.
func Bake(m *mesh.Mesh, job bake.Job) (*image.NRGBA, error) {
	switch job.Mode {
	case bake.ModePosition, bake.ModePaintBase, bake.ModeNormalObject, bake.ModeCurvature:
	case bake.ModeWireframe:
	default:
		// AO, thickness and base color need a path tracer or source
		// materials; a UV rasterizer has neither.
		return nil, fmt.Errorf("%s: %w", job.Mode, bake.ErrUnsupported)
	}
	if !m.HasUV() {
		return nil, ErrNoUV
	}
	box, err := m.Bounds()
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, job.Resolution, job.Resolution))
	fill(img, job.Background)

	if job.Mode == bake.ModeWireframe {
		drawWireframe(img, m, job)
		return img, nil
	}

	shade := shaderFor(job.Mode, box)
	for _, tri := range m.Triangles {
		rasterizeUV(img, tri, shade)
	}
	return img, nil
}

// shader computes the texel color from interpolated surface attributes.
type shader func(pos, normal math.Vec3) color.NRGBA

func shaderFor(mode bake.Mode, box geom.Box) shader {
	size := box.Size()
	switch mode {
	case bake.ModePosition:
		// World position normalized into the box, XYZ as RGB.
		return func(pos, _ math.Vec3) color.NRGBA {
			return color.NRGBA{
				R: channel(normalized(pos.X, box.Min.X, size.X)),
				G: channel(normalized(pos.Y, box.Min.Y, size.Y)),
				B: channel(normalized(pos.Z, box.Min.Z, size.Z)),
				A: 255,
			}
		}
	case bake.ModePaintBase:
		// Height gradient through the dark-blue to white ramp. Z is
		// normalized over the mesh box rather than the recipe's fixed
		// -10..10 world range; see the note on the paint_base recipe.
		low := [3]float64{0.1, 0.1, 0.2}
		high := [3]float64{0.9, 0.9, 1.0}
		return func(pos, _ math.Vec3) color.NRGBA {
			t := normalized(pos.Z, box.Min.Z, size.Z)
			return color.NRGBA{
				R: channel(low[0] + (high[0]-low[0])*t),
				G: channel(low[1] + (high[1]-low[1])*t),
				B: channel(low[2] + (high[2]-low[2])*t),
				A: 255,
			}
		}
	default: // normal_object, curvature
		// Object-space normals with the original channel order:
		// R=+X, G=+Z, B=-Y, remapped from [-1,1] to [0,1].
		return func(_, normal math.Vec3) color.NRGBA {
			n := normal.Normalize()
			return color.NRGBA{
				R: channel(n.X*0.5 + 0.5),
				G: channel(n.Z*0.5 + 0.5),
				B: channel(-n.Y*0.5 + 0.5),
				A: 255,
			}
		}
	}
}

// rasterizeUV fills the triangle's UV footprint, interpolating world
// position and normal barycentrically.
func rasterizeUV(img *image.NRGBA, tri mesh.Triangle, shade shader) {
	res := img.Rect.Dx()
	a := uvToPixel(tri[0].UV, res)
	b := uvToPixel(tri[1].UV, res)
	c := uvToPixel(tri[2].UV, res)

	area := b.Sub(a).Cross(c.Sub(a))
	if area == 0 {
		return
	}

	minX := int(gomath.Floor(min3(a.X, b.X, c.X)))
	maxX := int(gomath.Ceil(max3(a.X, b.X, c.X)))
	minY := int(gomath.Floor(min3(a.Y, b.Y, c.Y)))
	maxY := int(gomath.Ceil(max3(a.Y, b.Y, c.Y)))
	minX, maxX = clampRange(minX, maxX, res)
	minY, maxY = clampRange(minY, maxY, res)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			w0 := b.Sub(p).Cross(c.Sub(p)) / area
			w1 := c.Sub(p).Cross(a.Sub(p)) / area
			w2 := a.Sub(p).Cross(b.Sub(p)) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			pos := tri[0].Position.Scale(w0).
				Add(tri[1].Position.Scale(w1)).
				Add(tri[2].Position.Scale(w2))
			normal := tri[0].Normal.Scale(w0).
				Add(tri[1].Normal.Scale(w1)).
				Add(tri[2].Normal.Scale(w2))
			img.SetNRGBA(x, y, shade(pos, normal))
		}
	}
}

// drawWireframe stamps every triangle edge in UV space, white on the
// job background. Thickness is interpreted in texels at a 512 base
// resolution so maps stay visually consistent across resolutions.
func drawWireframe(img *image.NRGBA, m *mesh.Mesh, job bake.Job) {
	res := img.Rect.Dx()
	radius := wireSize(job.Recipe) * float64(res) / 512.0
	if radius < 1 {
		radius = 1
	}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for _, tri := range m.Triangles {
		a := uvToPixel(tri[0].UV, res)
		b := uvToPixel(tri[1].UV, res)
		c := uvToPixel(tri[2].UV, res)
		stampSegment(img, a, b, radius, white)
		stampSegment(img, b, c, radius, white)
		stampSegment(img, c, a, radius, white)
	}
}

// wireSize pulls the line width out of a wireframe recipe.
func wireSize(r bake.Recipe) float64 {
	for _, n := range r.Nodes {
		if n.Kind == bake.NodeWireframe {
			if s, ok := n.Params["size"]; ok && s > 0 {
				return s
			}
		}
	}
	return 1
}

func stampSegment(img *image.NRGBA, a, b math.Vec2, radius float64, col color.NRGBA) {
	res := img.Rect.Dx()
	minX := int(gomath.Floor(gomath.Min(a.X, b.X) - radius))
	maxX := int(gomath.Ceil(gomath.Max(a.X, b.X) + radius))
	minY := int(gomath.Floor(gomath.Min(a.Y, b.Y) - radius))
	maxY := int(gomath.Ceil(gomath.Max(a.Y, b.Y) + radius))
	minX, maxX = clampRange(minX, maxX, res)
	minY, maxY = clampRange(minY, maxY, res)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if distToSegment(p, a, b) <= radius {
				img.SetNRGBA(x, y, col)
			}
		}
	}
}

func distToSegment(p, a, b math.Vec2) float64 {
	ab := b.Sub(a)
	ap := p.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return ap.Length()
	}
	t := ap.Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Sub(a.Add(ab.Scale(t))).Length()
}

// uvToPixel maps UV space to pixel space, flipping V so texture row 0
// is the top of the image.
func uvToPixel(uv math.Vec2, res int) math.Vec2 {
	return math.Vec2{
		X: uv.X * float64(res),
		Y: (1 - uv.Y) * float64(res),
	}
}

func fill(img *image.NRGBA, c color.NRGBA) {
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func normalized(v, minV, size float64) float64 {
	if size == 0 {
		return 0.5
	}
	return (v - minV) / size
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func min3(a, b, c float64) float64 { return gomath.Min(a, gomath.Min(b, c)) }
func max3(a, b, c float64) float64 { return gomath.Max(a, gomath.Max(b, c)) }

func clampRange(lo, hi, res int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > res-1 {
		hi = res - 1
	}
	return lo, hi
}
