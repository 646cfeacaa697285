package scene

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"scenegraph-engine/device"
)

// Material holds Phong reflection coefficients.
type Material struct {
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Specular  mgl32.Vec4
	Emission  mgl32.Vec4
	Shininess float32
}

// DefaultMaterial is a dull grey.
func DefaultMaterial() Material {
	return Material{
		Ambient:   mgl32.Vec4{0.2, 0.2, 0.2, 1},
		Diffuse:   mgl32.Vec4{0.8, 0.8, 0.8, 1},
		Specular:  mgl32.Vec4{0, 0, 0, 1},
		Emission:  mgl32.Vec4{0, 0, 0, 1},
		Shininess: 1,
	}
}

// Presentation pushes material constants, and optionally a texture on unit 0,
// into whatever slots the active shader published.
type Presentation struct {
	*Node
	Material Material

	dev        device.Device
	texture    device.Handle[device.Texture]
	useTexture bool
}

func NewPresentation(dev device.Device, name string, m Material) *Presentation {
	p := &Presentation{Material: m, dev: dev}
	p.Node = newNode(KindPresentation, name, p)
	return p
}

func (p *Presentation) SetAmbient(c mgl32.Vec4)  { p.Material.Ambient = c }
func (p *Presentation) SetDiffuse(c mgl32.Vec4)  { p.Material.Diffuse = c }
func (p *Presentation) SetSpecular(c mgl32.Vec4) { p.Material.Specular = c }
func (p *Presentation) SetEmission(c mgl32.Vec4) { p.Material.Emission = c }
func (p *Presentation) SetShininess(s float32)   { p.Material.Shininess = s }

// SetAmbientAndDiffuse sets both coefficients to c.
func (p *Presentation) SetAmbientAndDiffuse(c mgl32.Vec4) {
	p.Material.Ambient = c
	p.Material.Diffuse = c
}

// LoadTexture uploads img and enables texturing for the subtree.
func (p *Presentation) LoadTexture(img device.TextureImage, mipmaps bool) error {
	if len(img.Pix) == 0 || img.Width <= 0 || img.Height <= 0 {
		return errors.Wrap(ErrEmptyImage, p.Label())
	}
	if !p.texture.Live() {
		p.texture = device.Own(p.dev.CreateTexture(), p.dev.DeleteTexture)
	}
	img.Mipmaps = mipmaps
	p.dev.UploadTexture(0, p.texture.ID(), img)
	p.useTexture = true
	slog.Debug("presentation texture loaded", "node", p.Label(), "width", img.Width, "height", img.Height)
	return nil
}

// EnableTexture toggles texturing. It has no effect before a texture is loaded.
func (p *Presentation) EnableTexture(on bool) {
	if p.texture.Live() {
		p.useTexture = on
	}
}

// TextureEnabled reports whether the subtree will be drawn textured.
func (p *Presentation) TextureEnabled() bool { return p.useTexture && p.texture.Live() }

func (p *Presentation) apply(st *RenderState) {
	s := &st.Slots
	p.dev.Uniform4f(s.MaterialAmbient, p.Material.Ambient)
	p.dev.Uniform4f(s.MaterialDiffuse, p.Material.Diffuse)
	p.dev.Uniform4f(s.MaterialSpecular, p.Material.Specular)
	p.dev.Uniform4f(s.MaterialEmission, p.Material.Emission)
	p.dev.Uniform1f(s.MaterialShininess, p.Material.Shininess)

	if p.TextureEnabled() {
		p.dev.Uniform1i(s.UseTexture, 1)
		// Unit 0 may hold the shader's own texture when it has no sampler
		// for ours.
		if s.TextureSampler.Valid() {
			p.dev.BindTexture(0, p.texture.ID())
			p.dev.Uniform1i(s.TextureSampler, 0)
		}
	} else {
		p.dev.Uniform1i(s.UseTexture, 0)
	}
}

func (p *Presentation) release() { p.texture.Release() }
