// Package opengl implements device.Device on an OpenGL 4.1 core context.
package opengl

import (
	"log/slog"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"scenegraph-engine/device"
)

// Device issues calls against the GL context current on the calling thread.
type Device struct{}

var _ device.Device = (*Device)(nil)

// NewDevice initialises the GL function pointers and the fixed pipeline
// state the scene graph assumes (depth test, back-face culling, CCW fronts).
// Must be called after the window's context is made current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "initialize OpenGL")
	}
	slog.Info("opengl ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.MULTISAMPLE)
	return &Device{}, nil
}

// SetViewport resizes the GL viewport.
func (d *Device) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear clears colour and depth with the given background.
func (d *Device) Clear(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ── Uniforms ────────────────────────────────────────────────────────────────

func (d *Device) Uniform1i(loc device.Location, v int32) {
	if loc.Valid() {
		gl.Uniform1i(int32(loc), v)
	}
}

func (d *Device) Uniform1f(loc device.Location, v float32) {
	if loc.Valid() {
		gl.Uniform1f(int32(loc), v)
	}
}

func (d *Device) Uniform3f(loc device.Location, v mgl32.Vec3) {
	if loc.Valid() {
		gl.Uniform3f(int32(loc), v[0], v[1], v[2])
	}
}

func (d *Device) Uniform4f(loc device.Location, v mgl32.Vec4) {
	if loc.Valid() {
		gl.Uniform4fv(int32(loc), 1, &v[0])
	}
}

func (d *Device) UniformMatrix3(loc device.Location, m mgl32.Mat3) {
	if loc.Valid() {
		gl.UniformMatrix3fv(int32(loc), 1, false, &m[0])
	}
}

// UniformMatrix4 uploads m as-is; mgl32 matrices are already column-major.
func (d *Device) UniformMatrix4(loc device.Location, m mgl32.Mat4) {
	if loc.Valid() {
		gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
	}
}

// ── Buffers ─────────────────────────────────────────────────────────────────

func (d *Device) CreateBuffer() device.Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	return device.Buffer(id)
}

func (d *Device) DeleteBuffer(b device.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) CreateVertexArray() device.VertexArray {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return device.VertexArray(id)
}

func (d *Device) DeleteVertexArray(v device.VertexArray) {
	id := uint32(v)
	gl.DeleteVertexArrays(1, &id)
}

func (d *Device) BindVertexArray(v device.VertexArray) { gl.BindVertexArray(uint32(v)) }

func (d *Device) AllocateBuffer(b device.Buffer, size int, usage device.Usage) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, glUsage(usage))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) BufferData(b device.Buffer, data []float32, usage device.Usage) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, glUsage(usage))
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), glUsage(usage))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) BufferSubData(b device.Buffer, offset int, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.BufferSubData(gl.ARRAY_BUFFER, offset, len(data)*4, gl.Ptr(data))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// ElementData uploads indices into b. The element binding is recorded in the
// currently bound vertex array, so it stays bound.
func (d *Device) ElementData(b device.Buffer, indices []uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b))
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
}

func (d *Device) VertexAttrib(loc device.Location, b device.Buffer, components, stride, offset int) {
	if !loc.Valid() {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), int32(components), gl.FLOAT, false, int32(stride), gl.PtrOffset(offset))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func glUsage(u device.Usage) uint32 {
	if u == device.DynamicDraw {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

// ── Draws ───────────────────────────────────────────────────────────────────

func (d *Device) EnableProgramPointSize() { gl.Enable(gl.PROGRAM_POINT_SIZE) }

func (d *Device) DrawArrays(mode device.Primitive, first, count int) {
	gl.DrawArrays(glPrimitive(mode), int32(first), int32(count))
}

func (d *Device) DrawElements(mode device.Primitive, count int) {
	gl.DrawElements(glPrimitive(mode), int32(count), gl.UNSIGNED_INT, nil)
}

func glPrimitive(p device.Primitive) uint32 {
	switch p {
	case device.Points:
		return gl.POINTS
	case device.TriangleStrip:
		return gl.TRIANGLE_STRIP
	default:
		return gl.TRIANGLES
	}
}
