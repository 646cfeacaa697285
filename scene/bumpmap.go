package scene

import (
	"log/slog"

	"github.com/pkg/errors"

	"scenegraph-engine/device"
)

// Attribute layout the bump-mapping program declares with explicit
// layout(location = N) qualifiers.
const (
	BumpPositionLocation  device.Location = 0
	BumpNormalLocation    device.Location = 1
	BumpTexCoordLocation  device.Location = 2
	BumpTangentLocation   device.Location = 3
	BumpBitangentLocation device.Location = 4
)

// normalMapUnit is the texture unit the normal map is sampled from.
const normalMapUnit = 0

// BumpMappingShader is a per-fragment Phong shader with a tangent-space
// normal map and a table of MaxLights lights. Attributes use the fixed layout
// above; uniforms are looked up by name.
type BumpMappingShader struct {
	*Node
	shaderProgram

	normalMap     device.Handle[device.Texture]
	normalMapping bool
	bumpStrength  float32

	normalMapLoc    device.Location
	useNormalMapLoc device.Location
	bumpStrengthLoc device.Location
}

// NewBumpMappingShader takes ownership of program.
func NewBumpMappingShader(dev device.Device, name string, program *device.Handle[device.Program]) *BumpMappingShader {
	s := &BumpMappingShader{
		shaderProgram:   newShaderProgram(dev, program),
		normalMapping:   true,
		bumpStrength:    1,
		normalMapLoc:    device.NotFound,
		useNormalMapLoc: device.NotFound,
		bumpStrengthLoc: device.NotFound,
	}
	s.Node = newNode(KindShader, name, s)
	return s
}

// GetLocations resolves the uniform slots. Only pvm_matrix is required.
// Resolution does not depend on whether normal mapping is enabled.
func (s *BumpMappingShader) GetLocations() error {
	l := &locator{dev: s.dev, program: s.program.ID(), node: s.Label()}
	slots := NoSlots()

	slots.Position = BumpPositionLocation
	slots.Normal = BumpNormalLocation
	slots.TexCoord = BumpTexCoordLocation
	slots.Tangent = BumpTangentLocation
	slots.Bitangent = BumpBitangentLocation

	slots.PVM = l.uniform("pvm_matrix", required)
	if l.err != nil {
		return l.err
	}
	slots.Model = l.uniform("model_matrix", optional)
	slots.NormalMatrix = l.uniform("normal_matrix", optional)

	l.materialSlots(&slots, optional)
	slots.CameraPosition = l.uniform("camera_position", optional)
	slots.LightCount = l.uniform("num_lights", optional)
	slots.Lights = l.lightTable(quiet)
	s.ambientLoc = l.uniform("global_ambient", optional)
	slots.UseTexture = l.uniform("use_texture", quiet)
	slots.TextureSampler = l.uniform("texture_sampler", quiet)

	s.normalMapLoc = l.uniform("normal_map", optional)
	s.useNormalMapLoc = l.uniform("use_normal_map", optional)
	s.bumpStrengthLoc = l.uniform("bump_strength", optional)

	s.slots = slots
	s.ready = true
	slog.Info("bump-mapping shader ready", "node", s.Label(), "program", s.program.ID())
	return nil
}

// BindNormalMap uploads the tangent-space normal map.
func (s *BumpMappingShader) BindNormalMap(img device.TextureImage) error {
	if err := uploadTexture(s.dev, &s.normalMap, normalMapUnit, img); err != nil {
		return errors.Wrapf(err, "%s: normal map", s.Label())
	}
	slog.Debug("normal map bound", "node", s.Label(),
		"width", img.Width, "height", img.Height, "channels", img.Channels)
	return nil
}

// SetBumpStrength scales the perturbation; 0 gives a smooth surface.
func (s *BumpMappingShader) SetBumpStrength(v float32) { s.bumpStrength = v }
func (s *BumpMappingShader) BumpStrength() float32     { return s.bumpStrength }

func (s *BumpMappingShader) SetNormalMappingEnabled(on bool) { s.normalMapping = on }
func (s *BumpMappingShader) NormalMappingEnabled() bool      { return s.normalMapping }

func (s *BumpMappingShader) apply(st *RenderState) {
	s.publish(st)

	bound := s.normalMap.Live()
	if bound {
		s.dev.BindTexture(normalMapUnit, s.normalMap.ID())
		s.dev.Uniform1i(s.normalMapLoc, normalMapUnit)
	}
	s.dev.Uniform1i(s.useNormalMapLoc, boolInt(bound && s.normalMapping))
	s.dev.Uniform1f(s.bumpStrengthLoc, s.bumpStrength)
}

func (s *BumpMappingShader) release() {
	s.normalMap.Release()
	s.releaseProgram()
}
