package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"scenegraph-engine/device"
)

// Light sets one entry of the active shader's light table. The position is
// homogeneous: w == 0 makes the light directional. It is transformed by the
// model matrix current when the node is drawn.
type Light struct {
	*Node

	dev   device.Device
	index int

	enabled       bool
	spotlight     bool
	ambient       mgl32.Vec4
	diffuse       mgl32.Vec4
	specular      mgl32.Vec4
	position      mgl32.Vec4
	spotDirection mgl32.Vec3
	spotCutoff    float32 // degrees
	spotExponent  float32
	constAtten    float32
	linAtten      float32
	quadAtten     float32
}

// NewLight returns a disabled white point light at the origin for table
// entry index.
func NewLight(dev device.Device, name string, index int) (*Light, error) {
	if index < 0 || index >= MaxLights {
		return nil, errors.Wrapf(ErrInvalidLight, "index %d", index)
	}
	l := &Light{
		dev:           dev,
		index:         index,
		ambient:       mgl32.Vec4{0, 0, 0, 1},
		diffuse:       mgl32.Vec4{1, 1, 1, 1},
		specular:      mgl32.Vec4{1, 1, 1, 1},
		position:      mgl32.Vec4{0, 0, 1, 0},
		spotDirection: mgl32.Vec3{0, 0, -1},
		spotCutoff:    180,
		constAtten:    1,
	}
	l.Node = newNode(KindLight, name, l)
	return l, nil
}

func (l *Light) Index() int    { return l.index }
func (l *Light) Enabled() bool { return l.enabled }

func (l *Light) Enable()  { l.enabled = true }
func (l *Light) Disable() { l.enabled = false }

func (l *Light) SetAmbient(c mgl32.Vec4)  { l.ambient = c }
func (l *Light) SetDiffuse(c mgl32.Vec4)  { l.diffuse = c }
func (l *Light) SetSpecular(c mgl32.Vec4) { l.specular = c }

// SetPosition sets the homogeneous light position.
func (l *Light) SetPosition(p mgl32.Vec4) { l.position = p }

// SetSpotlight turns the light into a spotlight. cutoff is in degrees.
func (l *Light) SetSpotlight(dir mgl32.Vec3, exponent, cutoff float32) {
	l.spotlight = true
	l.spotDirection = dir
	l.spotExponent = exponent
	l.spotCutoff = cutoff
}

func (l *Light) SetSpotlightDirection(dir mgl32.Vec3) { l.spotDirection = dir }

// TurnOffSpotlight reverts to a point light.
func (l *Light) TurnOffSpotlight() { l.spotlight = false }

func (l *Light) SetAttenuation(constant, linear, quadratic float32) {
	l.constAtten = constant
	l.linAtten = linear
	l.quadAtten = quadratic
}

func (l *Light) apply(st *RenderState) {
	s := st.Slots.Lights[l.index]
	if !l.enabled {
		l.dev.Uniform1i(s.Enabled, 0)
		return
	}

	l.dev.Uniform1i(s.Enabled, 1)
	l.dev.Uniform1i(s.Spotlight, boolInt(l.spotlight))
	l.dev.Uniform4f(s.Position, st.ModelMatrix.Mul4x1(l.position))
	l.dev.Uniform4f(s.Ambient, l.ambient)
	l.dev.Uniform4f(s.Diffuse, l.diffuse)
	l.dev.Uniform4f(s.Specular, l.specular)
	l.dev.Uniform1f(s.ConstantAtten, l.constAtten)
	l.dev.Uniform1f(s.LinearAtten, l.linAtten)
	l.dev.Uniform1f(s.QuadraticAtten, l.quadAtten)
	if l.spotlight {
		l.dev.Uniform1f(s.SpotCutoff, l.spotCutoff)
		l.dev.Uniform1f(s.SpotExponent, l.spotExponent)
		l.dev.Uniform3f(s.SpotDirection, st.ModelMatrix.Mat3().Mul3x1(l.spotDirection))
	}

	if l.index > st.MaxEnabledLight {
		st.MaxEnabledLight = l.index
	}
	l.dev.Uniform1i(st.Slots.LightCount, int32(st.MaxEnabledLight+1))
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
