package scene

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"scenegraph-engine/device"
)

// MaxTextureUnits is the number of samplers a MultiTextureShader blends.
const MaxTextureUnits = 4

// BlendMode selects how the enabled texture units are combined.
type BlendMode int32

const (
	BlendMix BlendMode = iota
	BlendMultiply
	BlendAdd
	BlendSubtract

	blendModeCount
)

// Next returns the following mode, wrapping after BlendSubtract.
func (b BlendMode) Next() BlendMode { return (b + 1) % blendModeCount }

func (b BlendMode) String() string {
	switch b {
	case BlendMix:
		return "MIX"
	case BlendMultiply:
		return "MULTIPLY"
	case BlendAdd:
		return "ADD"
	case BlendSubtract:
		return "SUBTRACT"
	}
	return fmt.Sprintf("BlendMode(%d)", int32(b))
}

// ParseBlendMode accepts the String form, case-insensitively.
func ParseBlendMode(s string) (BlendMode, error) {
	for b := BlendMix; b < blendModeCount; b++ {
		if strings.EqualFold(s, b.String()) {
			return b, nil
		}
	}
	return BlendMix, errors.Errorf("unknown blend mode %q", s)
}

// MultiTextureShader samples up to four textures and combines them with a
// blend mode and mix factor. All slots are looked up by name.
type MultiTextureShader struct {
	*Node
	shaderProgram

	textures [MaxTextureUnits]device.Handle[device.Texture]
	enabled  [MaxTextureUnits]bool
	blend    BlendMode
	mix      float32

	samplerLocs [MaxTextureUnits]device.Location
	enabledLocs [MaxTextureUnits]device.Location
	blendLoc    device.Location
	mixLoc      device.Location
}

// NewMultiTextureShader takes ownership of program.
func NewMultiTextureShader(dev device.Device, name string, program *device.Handle[device.Program]) *MultiTextureShader {
	s := &MultiTextureShader{
		shaderProgram: newShaderProgram(dev, program),
		blend:         BlendMix,
		mix:           0.5,
		blendLoc:      device.NotFound,
		mixLoc:        device.NotFound,
	}
	for i := range s.samplerLocs {
		s.samplerLocs[i] = device.NotFound
		s.enabledLocs[i] = device.NotFound
	}
	s.Node = newNode(KindShader, name, s)
	return s
}

// GetLocations resolves the program's slots. The vertex attributes and the
// composite matrix are required; everything else is optional.
func (s *MultiTextureShader) GetLocations() error {
	l := &locator{dev: s.dev, program: s.program.ID(), node: s.Label()}
	slots := NoSlots()

	slots.Position = l.attrib("vtx_position", required)
	slots.Normal = l.attrib("vtx_normal", required)
	slots.TexCoord = l.attrib("vtx_texcoord", required)
	slots.PVM = l.uniform("pvm_matrix", required)
	if l.err != nil {
		return l.err
	}

	slots.Model = l.uniform("model_matrix", optional)
	slots.NormalMatrix = l.uniform("normal_matrix", optional)
	slots.CameraPosition = l.uniform("camera_position", quiet)
	l.materialSlots(&slots, quiet)
	s.ambientLoc = l.uniform("global_ambient", quiet)
	slots.UseTexture = l.uniform("use_texture", quiet)
	slots.TextureSampler = l.uniform("texture_sampler", quiet)

	for i := 0; i < MaxTextureUnits; i++ {
		s.samplerLocs[i] = l.uniformf(optional, "texture_sampler%d", i)
		s.enabledLocs[i] = l.uniformf(optional, "texture_enabled%d", i)
	}
	s.blendLoc = l.uniform("blend_mode", optional)
	s.mixLoc = l.uniform("mix_factor", optional)

	s.slots = slots
	s.ready = true
	slog.Info("multi-texture shader ready", "node", s.Label(), "program", s.program.ID())
	return nil
}

// BindTexture uploads img to unit and enables the unit.
func (s *MultiTextureShader) BindTexture(unit int, img device.TextureImage) error {
	if unit < 0 || unit >= MaxTextureUnits {
		return errors.Wrapf(ErrInvalidTextureUnit, "%s: unit %d", s.Label(), unit)
	}
	if err := uploadTexture(s.dev, &s.textures[unit], unit, img); err != nil {
		return errors.Wrapf(err, "%s: unit %d", s.Label(), unit)
	}
	s.enabled[unit] = true
	slog.Debug("texture bound", "node", s.Label(), "unit", unit,
		"width", img.Width, "height", img.Height, "channels", img.Channels)
	return nil
}

// SetTextureEnabled switches a unit on or off. Units outside [0,3] are ignored.
func (s *MultiTextureShader) SetTextureEnabled(unit int, on bool) {
	if unit >= 0 && unit < MaxTextureUnits {
		s.enabled[unit] = on
	}
}

// ToggleTexture flips a unit. Units outside [0,3] are ignored.
func (s *MultiTextureShader) ToggleTexture(unit int) {
	if unit >= 0 && unit < MaxTextureUnits {
		s.enabled[unit] = !s.enabled[unit]
	}
}

// TextureEnabled reports the enable flag of unit.
func (s *MultiTextureShader) TextureEnabled(unit int) bool {
	return unit >= 0 && unit < MaxTextureUnits && s.enabled[unit]
}

func (s *MultiTextureShader) SetBlendMode(b BlendMode) {
	if b >= 0 && b < blendModeCount {
		s.blend = b
	}
}

func (s *MultiTextureShader) BlendMode() BlendMode { return s.blend }

// CycleBlendMode advances to the next blend mode and returns it.
func (s *MultiTextureShader) CycleBlendMode() BlendMode {
	s.blend = s.blend.Next()
	return s.blend
}

// SetMixFactor stores x clamped to [0,1]. NaN is stored as 0.
func (s *MultiTextureShader) SetMixFactor(x float32) {
	switch {
	case x != x || x < 0:
		s.mix = 0
	case x > 1:
		s.mix = 1
	default:
		s.mix = x
	}
}

func (s *MultiTextureShader) MixFactor() float32 { return s.mix }

func (s *MultiTextureShader) apply(st *RenderState) {
	s.publish(st)

	for i := 0; i < MaxTextureUnits; i++ {
		bound := s.textures[i].Live()
		if bound {
			s.dev.BindTexture(i, s.textures[i].ID())
			s.dev.Uniform1i(s.samplerLocs[i], int32(i))
		}
		// An unbound unit samples nothing even when enabled.
		s.dev.Uniform1i(s.enabledLocs[i], boolInt(bound && s.enabled[i]))
	}
	s.dev.Uniform1i(s.blendLoc, int32(s.blend))
	s.dev.Uniform1f(s.mixLoc, s.mix)
}

func (s *MultiTextureShader) release() {
	for i := range s.textures {
		s.textures[i].Release()
	}
	s.releaseProgram()
}
