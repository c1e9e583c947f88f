// Package render draws turnaround views of a mesh with a z-buffered
// software rasterizer. Shading mirrors the emission-material preview
// pass of the original pipeline: the baked texture is sampled at the
// surface UV, unlit, over a black background.
package render

import (
	"image"
	"image/color"
	gomath "math"

	"github.com/Faultbox/turnbake/internal/framer"
	"github.com/Faultbox/turnbake/internal/mesh"
	"github.com/Faultbox/turnbake/pkg/math"
)

// Options controls one view render.
type Options struct {
	// Resolution is the square output edge in pixels.
	Resolution int
	// FOV is the full vertical field of view in radians, matching the
	// lens the framer assumed.
	FOV float64
	// Near and Far clip planes. Zero values get the defaults the
	// original camera used (0.01 and 10000).
	Near, Far float64
	// Background fills uncovered pixels. Zero value is opaque black.
	Background color.NRGBA
}

func (o Options) withDefaults() Options {
	if o.Near == 0 {
		o.Near = 0.01
	}
	if o.Far == 0 {
		o.Far = 10000
	}
	if o.Background.A == 0 {
		o.Background = color.NRGBA{A: 255}
	}
	return o
}

// View renders the mesh from the given pose. texture is sampled at
// the surface UV when non-nil; otherwise faces get headlight shading
// so untextured meshes stay visible.
func View(m *mesh.Mesh, pose framer.Pose, texture image.Image, opts Options) *image.NRGBA {
	opts = opts.withDefaults()
	res := opts.Resolution

	img := image.NewNRGBA(image.Rect(0, 0, res, res))
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			img.SetNRGBA(x, y, opts.Background)
		}
	}

	up := math.Vec3{Z: 1}
	view := math.LookAt(pose.Position, pose.Target, up)
	proj := math.Perspective(opts.FOV, 1, opts.Near, opts.Far)
	viewProj := proj.Mul(view)
	viewDir := pose.Target.Sub(pose.Position).Normalize()

	// Depth is tracked as interpolated 1/w: affine in screen space,
	// larger means closer. Background stays at 0.
	depth := make([]float64, res*res)

	for _, tri := range m.Triangles {
		drawTriangle(img, depth, tri, viewProj, viewDir, texture, res)
	}
	return img
}

// screenVertex carries per-vertex attributes pre-divided by clip w so
// they interpolate affinely in screen space.
type screenVertex struct {
	pos  math.Vec2
	invW float64
	uv   math.Vec2 // uv / w
}

func drawTriangle(img *image.NRGBA, depth []float64, tri mesh.Triangle,
	viewProj math.Mat4, viewDir math.Vec3, texture image.Image, res int) {

	var sv [3]screenVertex
	for i, v := range tri {
		clip := viewProj.MulVec4(math.Vec4{v.Position.X, v.Position.Y, v.Position.Z, 1})
		if clip[3] <= 0 {
			// Behind the camera; the framer guarantees this cannot
			// happen for the mesh bounds, so drop the triangle
			// rather than clip it.
			return
		}
		sv[i] = screenVertex{
			pos: math.Vec2{
				X: (clip[0]/clip[3] + 1) / 2 * float64(res),
				Y: (1 - clip[1]/clip[3]) / 2 * float64(res),
			},
			invW: 1 / clip[3],
			uv:   v.UV.Scale(1 / clip[3]),
		}
	}

	area := sv[1].pos.Sub(sv[0].pos).Cross(sv[2].pos.Sub(sv[0].pos))
	if area == 0 {
		return
	}

	minX, maxX := pixelRange(sv[0].pos.X, sv[1].pos.X, sv[2].pos.X, res)
	minY, maxY := pixelRange(sv[0].pos.Y, sv[1].pos.Y, sv[2].pos.Y, res)

	shadeFlat := flatShade(tri, viewDir)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			w0 := sv[1].pos.Sub(p).Cross(sv[2].pos.Sub(p)) / area
			w1 := sv[2].pos.Sub(p).Cross(sv[0].pos.Sub(p)) / area
			w2 := sv[0].pos.Sub(p).Cross(sv[1].pos.Sub(p)) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			iw := w0*sv[0].invW + w1*sv[1].invW + w2*sv[2].invW
			idx := y*res + x
			if iw <= depth[idx] {
				continue
			}
			depth[idx] = iw

			var c color.NRGBA
			if texture != nil {
				uv := sv[0].uv.Scale(w0).
					Add(sv[1].uv.Scale(w1)).
					Add(sv[2].uv.Scale(w2)).
					Scale(1 / iw)
				c = sample(texture, uv)
			} else {
				c = shadeFlat
			}
			img.SetNRGBA(x, y, c)
		}
	}
}

// flatShade lights a face by how squarely it faces the camera.
func flatShade(tri mesh.Triangle, viewDir math.Vec3) color.NRGBA {
	n := tri[0].Normal.Add(tri[1].Normal).Add(tri[2].Normal).Normalize()
	intensity := gomath.Abs(n.Dot(viewDir))
	v := uint8(gomath.Min(intensity, 1)*200 + 55)
	return color.NRGBA{R: v, G: v, B: v, A: 255}
}

// sample does nearest-neighbor texture lookup with V flipped to match
// the bake orientation.
func sample(texture image.Image, uv math.Vec2) color.NRGBA {
	b := texture.Bounds()
	x := b.Min.X + int(clamp01(uv.X)*float64(b.Dx()-1)+0.5)
	y := b.Min.Y + int(clamp01(1-uv.Y)*float64(b.Dy()-1)+0.5)
	r, g, bl, a := texture.At(x, y).RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(bl >> 8),
		A: uint8(a >> 8),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func pixelRange(a, b, c float64, res int) (int, int) {
	lo := int(gomath.Floor(gomath.Min(a, gomath.Min(b, c))))
	hi := int(gomath.Ceil(gomath.Max(a, gomath.Max(b, c))))
	if lo < 0 {
		lo = 0
	}
	if hi > res-1 {
		hi = res - 1
	}
	return lo, hi
}
