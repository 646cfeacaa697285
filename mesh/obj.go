package mesh

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Load reads a model file, choosing the decoder from the extension.
func Load(path string) ([]*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	}
	return nil, errors.Errorf("unsupported model format %q", path)
}

// objRef is one face corner: 0-based position / texcoord / normal indices,
// -1 when absent.
type objRef struct{ v, vt, vn int }

type objObject struct {
	name  string
	faces [][3]objRef
}

// LoadOBJ parses a Wavefront .obj file and returns one Mesh per object or
// group. Material libraries are ignored; materials come from presentation
// nodes.
func LoadOBJ(path string) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open obj %q", path)
	}
	defer f.Close()

	meshes, err := ParseOBJ(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return meshes, nil
}

// ParseOBJ decodes OBJ text. Polygons are fan-triangulated and negative
// (relative) indices are resolved.
func ParseOBJ(r io.Reader) ([]*Mesh, error) {
	var (
		positions []mgl32.Vec3
		normals   []mgl32.Vec3
		uvs       []mgl32.Vec2
		objects   []objObject
	)
	cur := objObject{name: "default"}

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v", "vn":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			if fields[0] == "v" {
				positions = append(positions, mgl32.Vec3{p[0], p[1], p[2]})
			} else {
				normals = append(normals, mgl32.Vec3{p[0], p[1], p[2]})
			}

		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			uvs = append(uvs, mgl32.Vec2{p[0], p[1]})

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, cur)
			}
			cur = objObject{name: "default"}
			if len(fields) > 1 {
				cur.name = fields[1]
			}

		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: face needs at least 3 vertices", line)
			}
			refs := make([]objRef, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				ref, err := parseObjRef(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", line)
				}
				refs = append(refs, ref)
			}
			for i := 1; i+1 < len(refs); i++ {
				cur.faces = append(cur.faces, [3]objRef{refs[0], refs[i], refs[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan obj")
	}
	if len(cur.faces) > 0 {
		objects = append(objects, cur)
	}
	if len(objects) == 0 {
		return nil, errors.New("obj: no faces")
	}

	meshes := make([]*Mesh, 0, len(objects))
	for _, obj := range objects {
		meshes = append(meshes, buildOBJMesh(obj, positions, normals, uvs))
	}
	return meshes, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, errors.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, errors.Wrapf(err, "component %d", i)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseObjRef parses "v", "v/vt", "v//vn" or "v/vt/vn".
func parseObjRef(tok string, nv, nvt, nvn int) (objRef, error) {
	ref := objRef{-1, -1, -1}
	parts := strings.Split(tok, "/")
	counts := [3]int{nv, nvt, nvn}
	dst := [3]*int{&ref.v, &ref.vt, &ref.vn}

	for i, s := range parts {
		if i > 2 {
			break
		}
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return ref, errors.Wrapf(err, "face vertex %q", tok)
		}
		idx := n - 1
		if n < 0 {
			idx = counts[i] + n
		}
		if n == 0 || idx < 0 || idx >= counts[i] {
			return ref, errors.Errorf("face vertex %q out of range", tok)
		}
		*dst[i] = idx
	}
	if ref.v < 0 {
		return ref, errors.Errorf("face vertex %q has no position", tok)
	}
	return ref, nil
}

// buildOBJMesh deduplicates face corners into an indexed mesh. Missing
// normals are generated from face geometry.
func buildOBJMesh(obj objObject, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) *Mesh {
	m := &Mesh{Name: obj.name}
	seen := make(map[objRef]uint32)
	missingNormals := false

	for _, face := range obj.faces {
		for _, ref := range face {
			if idx, ok := seen[ref]; ok {
				m.Indices = append(m.Indices, idx)
				continue
			}
			v := Vertex{Position: positions[ref.v]}
			if ref.vt >= 0 {
				v.TexCoord = uvs[ref.vt]
			}
			if ref.vn >= 0 {
				v.Normal = normals[ref.vn]
			} else {
				missingNormals = true
			}
			idx := uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices, v)
			seen[ref] = idx
			m.Indices = append(m.Indices, idx)
		}
	}

	if missingNormals {
		generateNormals(m)
	}
	ComputeTangents(m)
	return m
}

// generateNormals sets area-weighted vertex normals.
func generateNormals(m *Mesh) {
	accum := make([]mgl32.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := m.Vertices[i0].Position
		n := m.Vertices[i1].Position.Sub(p0).Cross(m.Vertices[i2].Position.Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range m.Vertices {
		if accum[i].Len() > 0 {
			m.Vertices[i].Normal = accum[i].Normalize()
		}
	}
}
