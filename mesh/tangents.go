package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ComputeTangents generates per-vertex tangent and bitangent vectors for
// tangent-space normal mapping. The mesh must have texture coordinates;
// triangles with a degenerate UV area are skipped.
func ComputeTangents(m *Mesh) {
	for i := range m.Vertices {
		m.Vertices[i].Tangent = mgl32.Vec3{}
		m.Vertices[i].Bitangent = mgl32.Vec3{}
	}

	accum := func(i0, i1, i2 uint32) {
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		d1 := v1.TexCoord.Sub(v0.TexCoord)
		d2 := v2.TexCoord.Sub(v0.TexCoord)

		denom := d1[0]*d2[1] - d2[0]*d1[1]
		if denom == 0 {
			return
		}
		r := 1 / denom

		t := e1.Mul(d2[1] * r).Sub(e2.Mul(d1[1] * r))
		b := e2.Mul(d1[0] * r).Sub(e1.Mul(d2[0] * r))

		for _, i := range [3]uint32{i0, i1, i2} {
			m.Vertices[i].Tangent = m.Vertices[i].Tangent.Add(t)
			m.Vertices[i].Bitangent = m.Vertices[i].Bitangent.Add(b)
		}
	}

	if len(m.Indices) > 0 {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			accum(m.Indices[i], m.Indices[i+1], m.Indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(m.Vertices); i += 3 {
			accum(uint32(i), uint32(i+1), uint32(i+2))
		}
	}

	// Gram-Schmidt against the normal.
	for i := range m.Vertices {
		n := m.Vertices[i].Normal
		t := m.Vertices[i].Tangent
		b := m.Vertices[i].Bitangent

		t = t.Sub(n.Mul(n.Dot(t)))
		if t.LenSqr() < 1e-8 {
			if math32.Abs(n[0]) < 0.9 {
				t = mgl32.Vec3{1, 0, 0}.Sub(n.Mul(n[0]))
			} else {
				t = mgl32.Vec3{0, 1, 0}.Sub(n.Mul(n[1]))
			}
		}
		t = t.Normalize()
		m.Vertices[i].Tangent = t

		if b.LenSqr() < 1e-8 {
			b = n.Cross(t)
		}
		m.Vertices[i].Bitangent = b.Normalize()
	}
}
