package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Faultbox/turnbake/pkg/math"
)

// LoadOBJ reads a Wavefront OBJ file. The mesh name is the file's base
// name without extension.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := DecodeOBJ(f, name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// LoadDir loads every file in dir matching pattern (e.g. "*.obj"),
// sorted by name for deterministic batch order.
func LoadDir(dir, pattern string) ([]*Mesh, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	meshes := make([]*Mesh, 0, len(paths))
	for _, path := range paths {
		m, err := LoadOBJ(path)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// DecodeOBJ parses OBJ data from r. Supported: v, vt, vn, f (with
// v, v/vt, v//vn and v/vt/vn corner forms, negative indices, and
// polygon faces triangulated as a fan). Missing normals are replaced
// by flat face normals; missing UVs leave HasUV false.
func DecodeOBJ(r io.Reader, name string) (*Mesh, error) {
	var (
		positions []math.Vec3
		normals   []math.Vec3
		uvs       []math.Vec2
	)
	m := &Mesh{Name: name}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, p)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, n)
		case "vt":
			uv, err := parseVec2(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", lineNo, err)
			}
			uvs = append(uvs, uv)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 corners", lineNo)
			}
			corners := make([]Vertex, 0, len(fields)-1)
			faceHasUV := true
			for _, spec := range fields[1:] {
				v, hasUV, err := resolveCorner(spec, positions, uvs, normals)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				faceHasUV = faceHasUV && hasUV
				corners = append(corners, v)
			}
			if faceHasUV {
				m.hasUV = true
			}
			// Fan triangulation of polygon faces.
			for i := 1; i < len(corners)-1; i++ {
				tri := Triangle{corners[0], corners[i], corners[i+1]}
				fillMissingNormals(&tri)
				m.Triangles = append(m.Triangles, tri)
			}
		}
		// Groups, objects, materials and smoothing are irrelevant here.
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("no vertices")
	}
	if len(m.Triangles) == 0 {
		return nil, fmt.Errorf("no faces")
	}
	return m, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	var out [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math.Vec3{}, err
		}
		out[i] = v
	}
	return math.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

func parseVec2(fields []string) (math.Vec2, error) {
	if len(fields) < 2 {
		return math.Vec2{}, fmt.Errorf("want 2 components, got %d", len(fields))
	}
	u, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return math.Vec2{}, err
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return math.Vec2{}, err
	}
	return math.Vec2{X: u, Y: v}, nil
}

// resolveCorner parses one face-corner spec ("7", "7/2", "7//3",
// "7/2/3") into a Vertex with indices resolved against the attribute
// tables. OBJ indices are 1-based; negative ones count from the end.
func resolveCorner(spec string, positions []math.Vec3, uvs []math.Vec2, normals []math.Vec3) (Vertex, bool, error) {
	parts := strings.Split(spec, "/")
	var v Vertex

	pi, err := resolveIndex(parts[0], len(positions))
	if err != nil {
		return v, false, fmt.Errorf("corner %q: %w", spec, err)
	}
	v.Position = positions[pi]

	hasUV := false
	if len(parts) > 1 && parts[1] != "" {
		ti, err := resolveIndex(parts[1], len(uvs))
		if err != nil {
			return v, false, fmt.Errorf("corner %q: %w", spec, err)
		}
		v.UV = uvs[ti]
		hasUV = true
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, err := resolveIndex(parts[2], len(normals))
		if err != nil {
			return v, false, fmt.Errorf("corner %q: %w", spec, err)
		}
		v.Normal = normals[ni]
	}
	return v, hasUV, nil
}

func resolveIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		idx = count + idx + 1
	}
	if idx < 1 || idx > count {
		return 0, fmt.Errorf("index %s out of range (have %d)", s, count)
	}
	return idx - 1, nil
}

// fillMissingNormals assigns the flat face normal to corners that had
// no vn reference.
func fillMissingNormals(tri *Triangle) {
	missing := false
	for _, v := range tri {
		if v.Normal == (math.Vec3{}) {
			missing = true
			break
		}
	}
	if !missing {
		return
	}
	edge1 := tri[1].Position.Sub(tri[0].Position)
	edge2 := tri[2].Position.Sub(tri[0].Position)
	n := edge1.Cross(edge2).Normalize()
	for i := range tri {
		if tri[i].Normal == (math.Vec3{}) {
			tri[i].Normal = n
		}
	}
}
