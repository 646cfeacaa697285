package scene

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"scenegraph-engine/device"
)

// shaderProgram is the part every shader node shares: the owned program, the
// slots resolved from it, and the publication step run on each draw.
type shaderProgram struct {
	dev     device.Device
	program device.Handle[device.Program]
	slots   Slots
	ready   bool

	globalAmbient mgl32.Vec4
	ambientLoc    device.Location
}

func newShaderProgram(dev device.Device, program *device.Handle[device.Program]) shaderProgram {
	return shaderProgram{
		dev:           dev,
		program:       program.Take(),
		slots:         NoSlots(),
		globalAmbient: mgl32.Vec4{0.2, 0.2, 0.2, 1},
		ambientLoc:    device.NotFound,
	}
}

// Program returns the owned program name.
func (s *shaderProgram) Program() device.Program { return s.program.ID() }

// Slots returns the layout published to descendants. Only meaningful once
// locations are resolved.
func (s *shaderProgram) Slots() Slots { return s.slots }

// Ready reports whether locations have been resolved.
func (s *shaderProgram) Ready() bool { return s.ready }

// SetGlobalAmbient sets the scene-wide ambient term pushed on every draw.
func (s *shaderProgram) SetGlobalAmbient(c mgl32.Vec4) { s.globalAmbient = c }

// publish activates the program and hands its layout to the subtree.
func (s *shaderProgram) publish(st *RenderState) {
	s.dev.UseProgram(s.program.ID())
	st.Program = s.program.ID()
	st.Slots = s.slots
	s.dev.Uniform3f(s.slots.CameraPosition, st.CameraPosition)
	s.dev.Uniform4f(s.ambientLoc, s.globalAmbient)
}

func (s *shaderProgram) releaseProgram() { s.program.Release() }

// slotPolicy says what a failed lookup means.
type slotPolicy int

const (
	required slotPolicy = iota // fatal to setup
	optional                   // logged, feature disabled
	quiet                      // expected to be absent in some programs
)

// locator resolves names against one program and keeps the first fatal miss.
type locator struct {
	dev     device.Device
	program device.Program
	node    string
	err     error
}

func (l *locator) attrib(name string, policy slotPolicy) device.Location {
	return l.check("attribute", name, l.dev.AttribLocation(l.program, name), policy)
}

func (l *locator) uniform(name string, policy slotPolicy) device.Location {
	return l.check("uniform", name, l.dev.UniformLocation(l.program, name), policy)
}

func (l *locator) uniformf(policy slotPolicy, format string, args ...any) device.Location {
	return l.uniform(fmt.Sprintf(format, args...), policy)
}

func (l *locator) check(kind, name string, loc device.Location, policy slotPolicy) device.Location {
	if loc.Valid() {
		return loc
	}
	switch policy {
	case required:
		if l.err == nil {
			l.err = errors.Wrapf(ErrSlotNotFound, "%s: %s %q", l.node, kind, name)
		}
	case optional:
		slog.Warn("optional slot not found", "node", l.node, kind, name)
	case quiet:
		slog.Debug("slot not found", "node", l.node, kind, name)
	}
	return device.NotFound
}

// lightTable looks up lights[i].* for every table entry.
func (l *locator) lightTable(policy slotPolicy) [MaxLights]LightSlots {
	var t [MaxLights]LightSlots
	for i := range t {
		t[i] = LightSlots{
			Enabled:        l.uniformf(policy, "lights[%d].enabled", i),
			Spotlight:      l.uniformf(policy, "lights[%d].is_spotlight", i),
			Position:       l.uniformf(policy, "lights[%d].position", i),
			Ambient:        l.uniformf(policy, "lights[%d].ambient", i),
			Diffuse:        l.uniformf(policy, "lights[%d].diffuse", i),
			Specular:       l.uniformf(policy, "lights[%d].specular", i),
			ConstantAtten:  l.uniformf(policy, "lights[%d].constant_atten", i),
			LinearAtten:    l.uniformf(policy, "lights[%d].linear_atten", i),
			QuadraticAtten: l.uniformf(policy, "lights[%d].quadratic_atten", i),
			SpotCutoff:     l.uniformf(policy, "lights[%d].spot_cutoff", i),
			SpotExponent:   l.uniformf(policy, "lights[%d].spot_exponent", i),
			SpotDirection:  l.uniformf(policy, "lights[%d].spot_direction", i),
		}
	}
	return t
}

// materialSlots fills the material block of s.
func (l *locator) materialSlots(s *Slots, policy slotPolicy) {
	s.MaterialAmbient = l.uniform("material_ambient", policy)
	s.MaterialDiffuse = l.uniform("material_diffuse", policy)
	s.MaterialSpecular = l.uniform("material_specular", policy)
	s.MaterialEmission = l.uniform("material_emission", policy)
	s.MaterialShininess = l.uniform("material_shininess", policy)
}

// uploadTexture creates t on first use and uploads img into it on unit.
func uploadTexture(dev device.Device, t *device.Handle[device.Texture], unit int, img device.TextureImage) error {
	if len(img.Pix) == 0 || img.Width <= 0 || img.Height <= 0 {
		return ErrEmptyImage
	}
	if !t.Live() {
		*t = device.Own(dev.CreateTexture(), dev.DeleteTexture)
	}
	img.Mipmaps = true
	dev.UploadTexture(unit, t.ID(), img)
	return nil
}
