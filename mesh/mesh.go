// Package mesh builds indexed triangle meshes for geometry nodes: parametric
// surfaces, tangent frames for normal mapping, and glTF and OBJ import.
package mesh

import "github.com/go-gl/mathgl/mgl32"

// Vertex is one interleaved vertex.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	TexCoord  mgl32.Vec2
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
}

// Interleaved layout of Vertex in bytes.
const (
	FloatsPerVertex = 14
	Stride          = FloatsPerVertex * 4

	OffsetPosition  = 0
	OffsetNormal    = 12
	OffsetTexCoord  = 24
	OffsetTangent   = 32
	OffsetBitangent = 44
)

// Mesh is CPU-side vertex and index data.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Interleave flattens the vertices in the layout described by Stride.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord[0], v.TexCoord[1],
			v.Tangent[0], v.Tangent[1], v.Tangent[2],
			v.Bitangent[0], v.Bitangent[1], v.Bitangent[2],
		)
	}
	return out
}

// Bounds returns the axis-aligned box around the vertex positions.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo = m.Vertices[0].Position
	hi = lo
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			if v.Position[k] < lo[k] {
				lo[k] = v.Position[k]
			}
			if v.Position[k] > hi[k] {
				hi[k] = v.Position[k]
			}
		}
	}
	return lo, hi
}
