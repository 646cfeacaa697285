package mesh

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads every triangle primitive of a .gltf or .glb file. Node
// transforms are not applied; each primitive is returned in its own space
// with tangents computed.
func LoadGLTF(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "gltf open %q", path)
	}
	return FromGLTF(doc)
}

// FromGLTF converts the primitives of an already decoded document.
// Primitives that fail to decode are skipped and logged.
func FromGLTF(doc *gltf.Document) ([]*Mesh, error) {
	var out []*Mesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				slog.Debug("gltf: skipping non-triangle primitive", "mesh", mi, "primitive", pi)
				continue
			}
			m, err := gltfPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				slog.Warn("gltf: primitive skipped", "mesh", mi, "primitive", pi, "err", err)
				continue
			}
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("gltf: no triangle primitives")
	}
	return out, nil
}

func gltfPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, errors.Wrap(err, "positions")
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	m := &Mesh{Name: name, Vertices: make([]Vertex, len(positions))}
	for i, p := range positions {
		v := Vertex{
			Position: mgl32.Vec3(p),
			Normal:   mgl32.Vec3{0, 0, 1},
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			v.TexCoord = mgl32.Vec2(uvs[i])
		}
		m.Vertices[i] = v
	}

	if prim.Indices != nil {
		m.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, errors.Wrap(err, "indices")
		}
	} else {
		m.Indices = make([]uint32, len(positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}

	ComputeTangents(m)
	return m, nil
}
