package framer

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/turnbake/pkg/geom"
	"github.com/Faultbox/turnbake/pkg/math"
)

func testConfig() Config {
	return Config{
		Count:       8,
		FocalLength: 50,
		SensorSize:  36,
		Padding:     1.15,
		MinDistance: 0.1,
	}
}

func unitCube() geom.Box {
	return geom.Box{
		Min: math.Vec3{X: -1, Y: -1, Z: -1},
		Max: math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

func asymmetricBox() geom.Box {
	return geom.Box{
		Min: math.Vec3{X: -3, Y: -0.5, Z: -1},
		Max: math.Vec3{X: 3, Y: 0.5, Z: 2},
	}
}

func TestSharedDistanceAcrossViews(t *testing.T) {
	poses, err := Frame(asymmetricBox(), testConfig())
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	if len(poses) != 8 {
		t.Fatalf("got %d poses, want 8", len(poses))
	}
	for i, p := range poses[1:] {
		if p.Distance != poses[0].Distance {
			t.Errorf("pose %d distance %v differs from pose 0 distance %v",
				i+1, p.Distance, poses[0].Distance)
		}
	}
}

func TestPosesEvenlySpaced(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 5
	poses, err := Frame(unitCube(), cfg)
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	for i, p := range poses {
		want := float64(i) * 72.0
		if gomath.Abs(p.Azimuth-want) > 1e-9 {
			t.Errorf("pose %d azimuth = %v, want %v", i, p.Azimuth, want)
		}
		// Position must sit on the horizontal circle at the target height.
		if gomath.Abs(p.Position.Z-p.Target.Z) > 1e-9 {
			t.Errorf("pose %d not at target height: z=%v target z=%v",
				i, p.Position.Z, p.Target.Z)
		}
		if d := p.Position.Distance(p.Target); gomath.Abs(d-p.Distance) > 1e-9 {
			t.Errorf("pose %d |position-target| = %v, want %v", i, d, p.Distance)
		}
	}
}

func TestNonClipping(t *testing.T) {
	boxes := []geom.Box{
		unitCube(),
		asymmetricBox(),
		// Flat box: zero extent on one axis only is valid input.
		{Min: math.Vec3{X: -2, Y: -2, Z: 0}, Max: math.Vec3{X: 2, Y: 2, Z: 0}},
	}
	for _, padding := range []float64{1.0, 1.15, 1.5} {
		cfg := testConfig()
		cfg.Padding = padding
		halfFOV := cfg.HalfFOV()
		for _, box := range boxes {
			poses, err := Frame(box, cfg)
			if err != nil {
				t.Fatalf("Frame() error: %v", err)
			}
			corners := box.Corners()
			center := box.Center()
			for i, p := range poses {
				dir := ViewDirection(p.Azimuth)
				radius := EffectiveRadius(corners, center, dir)
				subtended := gomath.Atan(radius / p.Distance)
				if subtended > halfFOV+1e-12 {
					t.Errorf("padding %v pose %d: corners subtend %v > half FOV %v",
						padding, i, subtended, halfFOV)
				}
			}
		}
	}
}

func TestPaddingMonotonicity(t *testing.T) {
	box := asymmetricBox()
	prev := 0.0
	for _, padding := range []float64{1.0, 1.1, 1.3, 1.7, 2.0} {
		cfg := testConfig()
		cfg.Padding = padding
		poses, err := Frame(box, cfg)
		if err != nil {
			t.Fatalf("Frame() error: %v", err)
		}
		if poses[0].Distance < prev {
			t.Errorf("padding %v gave distance %v, below previous %v",
				padding, poses[0].Distance, prev)
		}
		prev = poses[0].Distance
	}
}

func TestCountMonotonicity(t *testing.T) {
	// Doubling the view count keeps every previous angle in the sample
	// set, so the shared worst-case distance can only grow or stay put.
	box := asymmetricBox()
	cfgCoarse := testConfig()
	cfgCoarse.Count = 4
	cfgFine := testConfig()
	cfgFine.Count = 8

	coarse, err := Frame(box, cfgCoarse)
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	fine, err := Frame(box, cfgFine)
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	if fine[0].Distance < coarse[0].Distance-1e-12 {
		t.Errorf("denser sampling decreased distance: %v < %v",
			fine[0].Distance, coarse[0].Distance)
	}
}

func TestAngularSymmetryOfCube(t *testing.T) {
	// Axis-aligned views of a cube all see the same diagonal silhouette.
	box := unitCube()
	corners := box.Corners()
	center := box.Center()

	first := EffectiveRadius(corners, center, ViewDirection(0))
	for _, az := range []float64{90, 180, 270} {
		r := EffectiveRadius(corners, center, ViewDirection(az))
		if gomath.Abs(r-first) > 1e-9 {
			t.Errorf("azimuth %v effective radius %v, want %v", az, r, first)
		}
	}
}

func TestDegenerateRejection(t *testing.T) {
	point := geom.Box{
		Min: math.Vec3{X: 1, Y: 2, Z: 3},
		Max: math.Vec3{X: 1, Y: 2, Z: 3},
	}
	_, err := Frame(point, testConfig())
	var degenerate *DegenerateGeometryError
	if !errors.As(err, &degenerate) {
		t.Fatalf("Frame(point) error = %v, want DegenerateGeometryError", err)
	}
}

func TestMinimumDistanceFloor(t *testing.T) {
	tiny := geom.Box{
		Min: math.Vec3{X: -1e-9, Y: -1e-9, Z: -1e-9},
		Max: math.Vec3{X: 1e-9, Y: 1e-9, Z: 1e-9},
	}
	cfg := testConfig()
	cfg.MinDistance = 0.25
	poses, err := Frame(tiny, cfg)
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	for i, p := range poses {
		if p.Distance != 0.25 {
			t.Errorf("pose %d distance = %v, want floor 0.25", i, p.Distance)
		}
	}
}

func TestMinimumDistanceScale(t *testing.T) {
	box := unitCube()
	cfg := testConfig()
	cfg.MinDistance = 0
	cfg.MinDistanceScale = 100 // force the radius-scaled floor to win

	poses, err := Frame(box, cfg)
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	want := 100 * box.BoundingRadius()
	if gomath.Abs(poses[0].Distance-want) > 1e-9 {
		t.Errorf("distance = %v, want scaled floor %v", poses[0].Distance, want)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero count", func(c *Config) { c.Count = 0 }},
		{"negative count", func(c *Config) { c.Count = -3 }},
		{"zero focal length", func(c *Config) { c.FocalLength = 0 }},
		{"negative focal length", func(c *Config) { c.FocalLength = -50 }},
		{"zero sensor", func(c *Config) { c.SensorSize = 0 }},
		{"padding below one", func(c *Config) { c.Padding = 0.9 }},
		{"negative min distance", func(c *Config) { c.MinDistance = -1 }},
		{"negative min distance scale", func(c *Config) { c.MinDistanceScale = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := Frame(unitCube(), cfg)
			var invalid *InvalidConfigurationError
			if !errors.As(err, &invalid) {
				t.Errorf("Frame() error = %v, want InvalidConfigurationError", err)
			}
		})
	}
}

func TestSingleView(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 1
	poses, err := Frame(unitCube(), cfg)
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	if len(poses) != 1 {
		t.Fatalf("got %d poses, want 1", len(poses))
	}
	if poses[0].Azimuth != 0 {
		t.Errorf("single view azimuth = %v, want 0", poses[0].Azimuth)
	}
}

func TestAnchorOrigin(t *testing.T) {
	// Box centered away from origin: origin anchoring keeps the orbit
	// around world XY origin at the box's center height.
	box := geom.Box{
		Min: math.Vec3{X: 4, Y: 4, Z: 1},
		Max: math.Vec3{X: 6, Y: 6, Z: 3},
	}
	cfg := testConfig()
	cfg.Anchor = AnchorOrigin
	poses, err := Frame(box, cfg)
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	want := math.Vec3{X: 0, Y: 0, Z: 2}
	for i, p := range poses {
		if p.Target != want {
			t.Errorf("pose %d target = %v, want %v", i, p.Target, want)
		}
	}
}

func TestWorkedExample(t *testing.T) {
	// 2x2x2 cube, 4 views, 50mm lens on a 36mm sensor, padding 1.15:
	// each axis-aligned view sees a sqrt(2) silhouette half-width,
	// distance = sqrt(2) / tan(atan(18/50)) * 1.15.
	cfg := Config{
		Count:       4,
		FocalLength: 50,
		SensorSize:  36,
		Padding:     1.15,
		MinDistance: 0.1,
	}
	poses, err := Frame(unitCube(), cfg)
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}

	want := gomath.Sqrt2 / gomath.Tan(gomath.Atan(18.0/50.0)) * 1.15
	for i, p := range poses {
		if gomath.Abs(p.Distance-want) > 1e-9 {
			t.Errorf("pose %d distance = %v, want %v", i, p.Distance, want)
		}
		if p.Target != (math.Vec3{}) {
			t.Errorf("pose %d target = %v, want origin", i, p.Target)
		}
	}
	// Distance lands near 4.52 for this setup.
	if want < 4.5 || want > 4.55 {
		t.Errorf("expected distance near 4.52, formula gives %v", want)
	}

	// First view sits on +Y; second is rotated 90 degrees onto -X.
	if gomath.Abs(poses[0].Position.Y-want) > 1e-9 || gomath.Abs(poses[0].Position.X) > 1e-9 {
		t.Errorf("pose 0 position = %v, want (0, %v, 0)", poses[0].Position, want)
	}
	if gomath.Abs(poses[1].Position.X+want) > 1e-9 || gomath.Abs(poses[1].Position.Y) > 1e-9 {
		t.Errorf("pose 1 position = %v, want (-%v, 0, 0)", poses[1].Position, want)
	}
}
