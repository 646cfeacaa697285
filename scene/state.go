package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph-engine/device"
)

// MaxLights is the size of the per-light uniform table.
const MaxLights = 8

// LightSlots are the uniform slots of one entry in the light table.
type LightSlots struct {
	Enabled        device.Location
	Spotlight      device.Location
	Position       device.Location
	Ambient        device.Location
	Diffuse        device.Location
	Specular       device.Location
	ConstantAtten  device.Location
	LinearAtten    device.Location
	QuadraticAtten device.Location
	SpotCutoff     device.Location
	SpotExponent   device.Location
	SpotDirection  device.Location
}

// Slots is the binding layout a shader node publishes for its descendants.
// Every field a shader does not support is device.NotFound.
type Slots struct {
	// Vertex attributes
	Position  device.Location
	Normal    device.Location
	TexCoord  device.Location
	Tangent   device.Location
	Bitangent device.Location

	// Matrices
	PVM          device.Location
	Model        device.Location
	NormalMatrix device.Location

	// Material
	MaterialAmbient   device.Location
	MaterialDiffuse   device.Location
	MaterialSpecular  device.Location
	MaterialEmission  device.Location
	MaterialShininess device.Location

	CameraPosition device.Location
	TextureSampler device.Location
	UseTexture     device.Location

	LightCount device.Location
	Lights     [MaxLights]LightSlots
}

// NoSlots returns a layout with every slot unresolved.
func NoSlots() Slots {
	nf := device.NotFound
	s := Slots{
		Position: nf, Normal: nf, TexCoord: nf, Tangent: nf, Bitangent: nf,
		PVM: nf, Model: nf, NormalMatrix: nf,
		MaterialAmbient: nf, MaterialDiffuse: nf, MaterialSpecular: nf,
		MaterialEmission: nf, MaterialShininess: nf,
		CameraPosition: nf, TextureSampler: nf, UseTexture: nf,
		LightCount: nf,
	}
	for i := range s.Lights {
		s.Lights[i] = LightSlots{
			Enabled: nf, Spotlight: nf, Position: nf,
			Ambient: nf, Diffuse: nf, Specular: nf,
			ConstantAtten: nf, LinearAtten: nf, QuadraticAtten: nf,
			SpotCutoff: nf, SpotExponent: nf, SpotDirection: nf,
		}
	}
	return s
}

// RenderState is threaded through one traversal of the tree. It is plain
// data: nodes read and write it, and only nodes talk to the device.
type RenderState struct {
	Slots Slots
	// Program is the program the last shader node activated, or zero.
	Program device.Program

	// PV is projection * view, set by the camera.
	PV             mgl32.Mat4
	ModelMatrix    mgl32.Mat4
	CameraPosition mgl32.Vec3

	// MaxEnabledLight is the highest light index enabled so far this frame,
	// or -1 when none is.
	MaxEnabledLight int

	stack []mgl32.Mat4
}

// NewRenderState returns an initialised state.
func NewRenderState() *RenderState {
	st := &RenderState{}
	st.Init()
	return st
}

// Init resets the state before a frame is drawn.
func (s *RenderState) Init() {
	s.Slots = NoSlots()
	s.Program = 0
	s.PV = mgl32.Ident4()
	s.ModelMatrix = mgl32.Ident4()
	s.CameraPosition = mgl32.Vec3{}
	s.MaxEnabledLight = -1
	s.stack = s.stack[:0]
}

// PushTransform saves the current model matrix.
func (s *RenderState) PushTransform() {
	s.stack = append(s.stack, s.ModelMatrix)
}

// PopTransform restores the model matrix saved by the matching push.
// An unmatched pop leaves the state unchanged.
func (s *RenderState) PopTransform() {
	n := len(s.stack)
	if n == 0 {
		return
	}
	s.ModelMatrix = s.stack[n-1]
	s.stack = s.stack[:n-1]
}

// StackDepth returns the number of saved model matrices.
func (s *RenderState) StackDepth() int { return len(s.stack) }

// PVM is the composite transform for the current model matrix.
func (s *RenderState) PVM() mgl32.Mat4 { return s.PV.Mul4(s.ModelMatrix) }

// NormalMatrix is the inverse transpose of the upper 3x3 of the model matrix.
func (s *RenderState) NormalMatrix() mgl32.Mat3 {
	return s.ModelMatrix.Mat3().Inv().Transpose()
}
