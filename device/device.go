// Package device defines the narrow graphics-device contract the scene graph
// drives. The OpenGL implementation lives in internal/opengl; tests use the
// recording implementation in device/devicetest.
package device

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Location is a binding slot for a named attribute or uniform in a linked
// program. NotFound marks a name the program does not declare (or that the
// compiler optimised out).
type Location int32

// NotFound is the sentinel returned by lookups for undeclared names.
const NotFound Location = -1

// Valid reports whether the slot refers to a declared input.
func (l Location) Valid() bool { return l >= 0 }

// Device object names. Zero is never a live object.
type (
	Program     uint32
	Texture     uint32
	Buffer      uint32
	VertexArray uint32
)

// Primitive selects the primitive type of a draw call.
type Primitive int

const (
	Points Primitive = iota
	Triangles
	TriangleStrip
)

// Usage hints how often a buffer's contents change.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
)

// TextureImage is the payload uploaded into a 2-D texture. Channels == 4
// selects an alpha-carrying format, anything else is treated as 3-channel.
type TextureImage struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
	Mipmaps  bool
}

// Device is the set of graphics operations used by scene nodes. All calls
// happen on the thread that owns the context; nothing here is asynchronous.
//
// Uniform setters must ignore NotFound locations, the way OpenGL ignores -1.
type Device interface {
	// Programs
	CreateProgram(vertexSrc, fragmentSrc string) (Program, error)
	UseProgram(p Program)
	DeleteProgram(p Program)
	AttribLocation(p Program, name string) Location
	UniformLocation(p Program, name string) Location

	// Uniforms
	Uniform1i(loc Location, v int32)
	Uniform1f(loc Location, v float32)
	Uniform3f(loc Location, v mgl32.Vec3)
	Uniform4f(loc Location, v mgl32.Vec4)
	UniformMatrix3(loc Location, m mgl32.Mat3)
	UniformMatrix4(loc Location, m mgl32.Mat4)

	// Textures
	CreateTexture() Texture
	UploadTexture(unit int, t Texture, img TextureImage)
	BindTexture(unit int, t Texture)
	DeleteTexture(t Texture)

	// Buffers and vertex layout
	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	CreateVertexArray() VertexArray
	DeleteVertexArray(v VertexArray)
	BindVertexArray(v VertexArray)
	// AllocateBuffer (re)allocates b to size bytes. Previous contents are lost.
	AllocateBuffer(b Buffer, size int, usage Usage)
	BufferData(b Buffer, data []float32, usage Usage)
	BufferSubData(b Buffer, offset int, data []float32)
	ElementData(b Buffer, indices []uint32)
	// VertexAttrib declares float attribute loc against buffer b in the
	// currently bound vertex array. stride and offset are in bytes.
	VertexAttrib(loc Location, b Buffer, components, stride, offset int)

	// Draws
	EnableProgramPointSize()
	DrawArrays(mode Primitive, first, count int)
	DrawElements(mode Primitive, count int)
}
