package bake

// Recipe is a declarative shader-node graph plus bake pass settings.
// It mirrors what a host renderer needs to reproduce the channel: the
// software session interprets the subset it can compute, and the graph
// doubles as documentation of the original material setups.
type Recipe struct {
	Name     string
	BakeType BakeType
	Samples  int
	Nodes    []Node
	Links    []Link
}

// BakeType selects the host bake pass.
type BakeType string

const (
	BakeEmit    BakeType = "EMIT"
	BakeNormal  BakeType = "NORMAL"
	BakeDiffuse BakeType = "DIFFUSE"
	BakeAO      BakeType = "AO"
)

// Node is one shader node in a recipe graph.
type Node struct {
	ID     string
	Kind   NodeKind
	Params map[string]float64
}

// Link connects an output socket to an input socket.
type Link struct {
	From, FromSocket string
	To, ToSocket     string
}

// NodeKind enumerates the node types the recipes use.
type NodeKind string

const (
	NodeGeometry   NodeKind = "geometry"
	NodeEmission   NodeKind = "emission"
	NodeOutput     NodeKind = "output"
	NodeWireframe  NodeKind = "wireframe"
	NodeColorRamp  NodeKind = "color_ramp"
	NodeSeparate   NodeKind = "separate_xyz"
	NodeMapRange   NodeKind = "map_range"
	NodePrincipled NodeKind = "principled_bsdf"
	NodeVectorMath NodeKind = "vector_math"
	NodeAmbientOcc NodeKind = "ambient_occlusion"
)

// RecipeFor returns the recipe for a mode under the given settings.
func RecipeFor(mode Mode, s Settings) Recipe {
	switch mode {
	case ModePosition:
		// Geometry.Position -> Emission -> Output: world XYZ as RGB.
		return Recipe{
			Name:     "position",
			BakeType: BakeEmit,
			Samples:  1,
			Nodes: []Node{
				{ID: "geo", Kind: NodeGeometry},
				{ID: "emit", Kind: NodeEmission, Params: map[string]float64{"strength": 1}},
				{ID: "out", Kind: NodeOutput},
			},
			Links: []Link{
				{From: "geo", FromSocket: "Position", To: "emit", ToSocket: "Color"},
				{From: "emit", FromSocket: "Emission", To: "out", ToSocket: "Surface"},
			},
		}
	case ModeWireframe:
		// Wireframe -> hard ramp -> Emission: white lines on black.
		return Recipe{
			Name:     "wireframe",
			BakeType: BakeEmit,
			Samples:  1,
			Nodes: []Node{
				{ID: "wire", Kind: NodeWireframe, Params: map[string]float64{"size": s.WireframeThickness}},
				{ID: "ramp", Kind: NodeColorRamp, Params: map[string]float64{"pos0": 0, "pos1": 0.01}},
				{ID: "emit", Kind: NodeEmission},
				{ID: "out", Kind: NodeOutput},
			},
			Links: []Link{
				{From: "wire", FromSocket: "Fac", To: "ramp", ToSocket: "Fac"},
				{From: "ramp", FromSocket: "Color", To: "emit", ToSocket: "Color"},
				{From: "emit", FromSocket: "Emission", To: "out", ToSocket: "Surface"},
			},
		}
	case ModePaintBase:
		// Z height remapped through a dark-blue to white ramp. The
		// fixed -10..10 map range reproduces the host node graph;
		// sessions without that graph may normalize over the mesh
		// bounds instead (softbake does, so short meshes still span
		// the ramp).
		return Recipe{
			Name:     "paint_base",
			BakeType: BakeEmit,
			Samples:  1,
			Nodes: []Node{
				{ID: "geo", Kind: NodeGeometry},
				{ID: "sep", Kind: NodeSeparate},
				{ID: "range", Kind: NodeMapRange, Params: map[string]float64{"from_min": -10, "from_max": 10}},
				{ID: "ramp", Kind: NodeColorRamp},
				{ID: "emit", Kind: NodeEmission},
				{ID: "out", Kind: NodeOutput},
			},
			Links: []Link{
				{From: "geo", FromSocket: "Position", To: "sep", ToSocket: "Vector"},
				{From: "sep", FromSocket: "Z", To: "range", ToSocket: "Value"},
				{From: "range", FromSocket: "Result", To: "ramp", ToSocket: "Fac"},
				{From: "ramp", FromSocket: "Color", To: "emit", ToSocket: "Color"},
				{From: "emit", FromSocket: "Emission", To: "out", ToSocket: "Surface"},
			},
		}
	case ModeNormalObject:
		// The host's normal pass does the work; the material is a
		// plain BSDF so the pass has something to bake from.
		return Recipe{
			Name:     "normal_object",
			BakeType: BakeNormal,
			Samples:  1,
			Nodes:    principledPassthrough(),
			Links:    principledLinks(),
		}
	case ModeBaseColor:
		return Recipe{
			Name:     "base_color",
			BakeType: BakeDiffuse,
			Samples:  1,
			Nodes:    principledPassthrough(),
			Links:    principledLinks(),
		}
	case ModeAO:
		return Recipe{
			Name:     "ao",
			BakeType: BakeAO,
			Samples:  s.AOSamples,
			Nodes:    principledPassthrough(),
			Links:    principledLinks(),
		}
	case ModeThickness:
		// AO with inverted normals approximates thickness.
		return Recipe{
			Name:     "thickness",
			BakeType: BakeEmit,
			Samples:  s.AOSamples,
			Nodes: []Node{
				{ID: "geo", Kind: NodeGeometry},
				{ID: "invert", Kind: NodeVectorMath, Params: map[string]float64{"scale": -1}},
				{ID: "ao", Kind: NodeAmbientOcc, Params: map[string]float64{"distance": s.ThicknessDistance, "samples": 16}},
				{ID: "emit", Kind: NodeEmission},
				{ID: "out", Kind: NodeOutput},
			},
			Links: []Link{
				{From: "geo", FromSocket: "Normal", To: "invert", ToSocket: "Vector"},
				{From: "invert", FromSocket: "Vector", To: "ao", ToSocket: "Normal"},
				{From: "ao", FromSocket: "Color", To: "emit", ToSocket: "Color"},
				{From: "emit", FromSocket: "Emission", To: "out", ToSocket: "Surface"},
			},
		}
	case ModeCurvature:
		// Curvature ships as a normal bake; Sobel post-processing on
		// the normal map is still an open follow-up upstream.
		r := RecipeFor(ModeNormalObject, s)
		r.Name = "curvature"
		return r
	default:
		return Recipe{Name: string(mode)}
	}
}

func principledPassthrough() []Node {
	return []Node{
		{ID: "bsdf", Kind: NodePrincipled},
		{ID: "out", Kind: NodeOutput},
	}
}

func principledLinks() []Link {
	return []Link{
		{From: "bsdf", FromSocket: "BSDF", To: "out", ToSocket: "Surface"},
	}
}
