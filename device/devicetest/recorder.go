// Package devicetest provides an in-memory device.Device that records every
// call, for testing scene traversal without a GPU.
package devicetest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"scenegraph-engine/device"
)

// Layout is the set of names a fake program declares.
type Layout struct {
	Attribs  map[string]device.Location
	Uniforms map[string]device.Location
}

// NewLayout declares attribs at slots 0..n-1 and uniforms at base, base+1, ...
func NewLayout(base int, attribs []string, uniforms []string) Layout {
	l := Layout{
		Attribs:  make(map[string]device.Location, len(attribs)),
		Uniforms: make(map[string]device.Location, len(uniforms)),
	}
	for i, name := range attribs {
		l.Attribs[name] = device.Location(i)
	}
	for i, name := range uniforms {
		l.Uniforms[name] = device.Location(base + i)
	}
	return l
}

// Call is one recorded device operation.
type Call struct {
	Op   string
	Loc  device.Location
	ID   uint32
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s(loc=%d id=%d %v)", c.Op, c.Loc, c.ID, c.Args)
}

// Recorder implements device.Device. Programs created from a vertex source
// listed in Layouts declare that layout; all others declare Default.
type Recorder struct {
	Layouts map[string]Layout
	Default Layout
	// LinkErr, when set, makes CreateProgram fail.
	LinkErr error

	Calls []Call

	// Last uniform values by location.
	Ints   map[device.Location]int32
	Floats map[device.Location]float32
	Vec3s  map[device.Location]mgl32.Vec3
	Vec4s  map[device.Location]mgl32.Vec4
	Mat3s  map[device.Location]mgl32.Mat3
	Mat4s  map[device.Location]mgl32.Mat4

	// BufferSizes holds the allocated byte size of every live buffer.
	BufferSizes map[device.Buffer]int

	Current     device.Program
	programs    map[device.Program]Layout
	live        map[uint32]string
	deleteCount map[uint32]int
	next        uint32
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Layouts:     make(map[string]Layout),
		Ints:        make(map[device.Location]int32),
		Floats:      make(map[device.Location]float32),
		Vec3s:       make(map[device.Location]mgl32.Vec3),
		Vec4s:       make(map[device.Location]mgl32.Vec4),
		Mat3s:       make(map[device.Location]mgl32.Mat3),
		Mat4s:       make(map[device.Location]mgl32.Mat4),
		BufferSizes: make(map[device.Buffer]int),
		programs:    make(map[device.Program]Layout),
		live:        make(map[uint32]string),
		deleteCount: make(map[uint32]int),
	}
}

var _ device.Device = (*Recorder)(nil)

func (r *Recorder) record(op string, loc device.Location, id uint32, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Loc: loc, ID: id, Args: args})
}

func (r *Recorder) create(kind string) uint32 {
	r.next++
	r.live[r.next] = kind
	r.record("Create"+kind, device.NotFound, r.next)
	return r.next
}

func (r *Recorder) remove(kind string, id uint32) {
	r.record("Delete"+kind, device.NotFound, id)
	if id == 0 {
		return
	}
	r.deleteCount[id]++
	delete(r.live, id)
}

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the recorded operation names in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Filter returns the recorded calls of op, in order.
func (r *Recorder) Filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps objects and uniform values.
func (r *Recorder) Reset() { r.Calls = nil }

// DeleteCount reports how many times object id was deleted.
func (r *Recorder) DeleteCount(id uint32) int { return r.deleteCount[id] }

// Live returns the number of objects created and not yet deleted.
func (r *Recorder) Live() int { return len(r.live) }

// ── Programs ────────────────────────────────────────────────────────────────

func (r *Recorder) CreateProgram(vertexSrc, fragmentSrc string) (device.Program, error) {
	if r.LinkErr != nil {
		return 0, errors.Wrap(device.ErrLinkFailed, r.LinkErr.Error())
	}
	p := device.Program(r.create("Program"))
	layout, ok := r.Layouts[vertexSrc]
	if !ok {
		layout = r.Default
	}
	r.programs[p] = layout
	return p, nil
}

func (r *Recorder) UseProgram(p device.Program) {
	r.Current = p
	r.record("UseProgram", device.NotFound, uint32(p))
}

func (r *Recorder) DeleteProgram(p device.Program) { r.remove("Program", uint32(p)) }

func (r *Recorder) AttribLocation(p device.Program, name string) device.Location {
	loc, ok := r.programs[p].Attribs[name]
	if !ok {
		loc = device.NotFound
	}
	r.record("AttribLocation", loc, uint32(p), name)
	return loc
}

func (r *Recorder) UniformLocation(p device.Program, name string) device.Location {
	loc, ok := r.programs[p].Uniforms[name]
	if !ok {
		loc = device.NotFound
	}
	r.record("UniformLocation", loc, uint32(p), name)
	return loc
}

// ── Uniforms ────────────────────────────────────────────────────────────────

func (r *Recorder) Uniform1i(loc device.Location, v int32) {
	if !loc.Valid() {
		return
	}
	r.Ints[loc] = v
	r.record("Uniform1i", loc, uint32(r.Current), v)
}

func (r *Recorder) Uniform1f(loc device.Location, v float32) {
	if !loc.Valid() {
		return
	}
	r.Floats[loc] = v
	r.record("Uniform1f", loc, uint32(r.Current), v)
}

func (r *Recorder) Uniform3f(loc device.Location, v mgl32.Vec3) {
	if !loc.Valid() {
		return
	}
	r.Vec3s[loc] = v
	r.record("Uniform3f", loc, uint32(r.Current), v)
}

func (r *Recorder) Uniform4f(loc device.Location, v mgl32.Vec4) {
	if !loc.Valid() {
		return
	}
	r.Vec4s[loc] = v
	r.record("Uniform4f", loc, uint32(r.Current), v)
}

func (r *Recorder) UniformMatrix3(loc device.Location, m mgl32.Mat3) {
	if !loc.Valid() {
		return
	}
	r.Mat3s[loc] = m
	r.record("UniformMatrix3", loc, uint32(r.Current), m)
}

func (r *Recorder) UniformMatrix4(loc device.Location, m mgl32.Mat4) {
	if !loc.Valid() {
		return
	}
	r.Mat4s[loc] = m
	r.record("UniformMatrix4", loc, uint32(r.Current), m)
}

// ── Textures ────────────────────────────────────────────────────────────────

func (r *Recorder) CreateTexture() device.Texture { return device.Texture(r.create("Texture")) }

func (r *Recorder) UploadTexture(unit int, t device.Texture, img device.TextureImage) {
	r.record("UploadTexture", device.NotFound, uint32(t), unit, img.Width, img.Height, img.Channels)
}

func (r *Recorder) BindTexture(unit int, t device.Texture) {
	r.record("BindTexture", device.NotFound, uint32(t), unit)
}

func (r *Recorder) DeleteTexture(t device.Texture) { r.remove("Texture", uint32(t)) }

// ── Buffers ─────────────────────────────────────────────────────────────────

func (r *Recorder) CreateBuffer() device.Buffer { return device.Buffer(r.create("Buffer")) }

func (r *Recorder) DeleteBuffer(b device.Buffer) {
	delete(r.BufferSizes, b)
	r.remove("Buffer", uint32(b))
}

func (r *Recorder) CreateVertexArray() device.VertexArray {
	return device.VertexArray(r.create("VertexArray"))
}

func (r *Recorder) DeleteVertexArray(v device.VertexArray) { r.remove("VertexArray", uint32(v)) }

func (r *Recorder) BindVertexArray(v device.VertexArray) {
	r.record("BindVertexArray", device.NotFound, uint32(v))
}

func (r *Recorder) AllocateBuffer(b device.Buffer, size int, usage device.Usage) {
	r.BufferSizes[b] = size
	r.record("AllocateBuffer", device.NotFound, uint32(b), size, usage)
}

func (r *Recorder) BufferData(b device.Buffer, data []float32, usage device.Usage) {
	r.BufferSizes[b] = len(data) * 4
	r.record("BufferData", device.NotFound, uint32(b), append([]float32(nil), data...), usage)
}

func (r *Recorder) BufferSubData(b device.Buffer, offset int, data []float32) {
	if offset+len(data)*4 > r.BufferSizes[b] {
		r.record("Overflow", device.NotFound, uint32(b), offset, len(data)*4)
	}
	r.record("BufferSubData", device.NotFound, uint32(b), offset, append([]float32(nil), data...))
}

func (r *Recorder) ElementData(b device.Buffer, indices []uint32) {
	r.record("ElementData", device.NotFound, uint32(b), len(indices))
}

func (r *Recorder) VertexAttrib(loc device.Location, b device.Buffer, components, stride, offset int) {
	r.record("VertexAttrib", loc, uint32(b), components, stride, offset)
}

// ── Draws ───────────────────────────────────────────────────────────────────

func (r *Recorder) EnableProgramPointSize() {
	r.record("EnableProgramPointSize", device.NotFound, 0)
}

func (r *Recorder) DrawArrays(mode device.Primitive, first, count int) {
	r.record("DrawArrays", device.NotFound, uint32(r.Current), mode, first, count)
}

func (r *Recorder) DrawElements(mode device.Primitive, count int) {
	r.record("DrawElements", device.NotFound, uint32(r.Current), mode, count)
}
