package scene

import (
	"scenegraph-engine/device"
	"scenegraph-engine/mesh"
)

// Geometry is an indexed triangle mesh resident on the device. Its vertex
// layout is declared once, against the attribute slots it was built for.
type Geometry struct {
	*Node

	dev   device.Device
	vao   device.Handle[device.VertexArray]
	vbo   device.Handle[device.Buffer]
	ebo   device.Handle[device.Buffer]
	count int
}

// NewGeometry uploads m and binds its attributes to the given slots. Slots
// that are NotFound are skipped, so one mesh serves shaders that ignore
// tangents or texture coordinates.
func NewGeometry(dev device.Device, name string, m *mesh.Mesh, slots Slots) *Geometry {
	g := &Geometry{
		dev:   dev,
		vao:   device.Own(dev.CreateVertexArray(), dev.DeleteVertexArray),
		vbo:   device.Own(dev.CreateBuffer(), dev.DeleteBuffer),
		ebo:   device.Own(dev.CreateBuffer(), dev.DeleteBuffer),
		count: len(m.Indices),
	}
	if name == "" {
		name = m.Name
	}
	g.Node = newNode(KindGeometry, name, g)

	dev.BindVertexArray(g.vao.ID())
	dev.BufferData(g.vbo.ID(), m.Interleave(), device.StaticDraw)
	dev.ElementData(g.ebo.ID(), m.Indices)

	vbo := g.vbo.ID()
	dev.VertexAttrib(slots.Position, vbo, 3, mesh.Stride, mesh.OffsetPosition)
	dev.VertexAttrib(slots.Normal, vbo, 3, mesh.Stride, mesh.OffsetNormal)
	dev.VertexAttrib(slots.TexCoord, vbo, 2, mesh.Stride, mesh.OffsetTexCoord)
	dev.VertexAttrib(slots.Tangent, vbo, 3, mesh.Stride, mesh.OffsetTangent)
	dev.VertexAttrib(slots.Bitangent, vbo, 3, mesh.Stride, mesh.OffsetBitangent)
	dev.BindVertexArray(0)
	return g
}

// IndexCount is the number of indices drawn.
func (g *Geometry) IndexCount() int { return g.count }

func (g *Geometry) draw(st *RenderState) {
	s := &st.Slots
	g.dev.UniformMatrix4(s.PVM, st.PVM())
	g.dev.UniformMatrix4(s.Model, st.ModelMatrix)
	if s.NormalMatrix.Valid() {
		g.dev.UniformMatrix3(s.NormalMatrix, st.NormalMatrix())
	}

	g.dev.BindVertexArray(g.vao.ID())
	g.dev.DrawElements(device.Triangles, g.count)
	g.dev.BindVertexArray(0)
}

func (g *Geometry) release() {
	g.vao.Release()
	g.vbo.Release()
	g.ebo.Release()
}
