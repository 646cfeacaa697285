package main

import (
	"embed"
	"io/fs"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"scenegraph-engine/config"
	"scenegraph-engine/device"
	"scenegraph-engine/imageio"
	"scenegraph-engine/mesh"
	"scenegraph-engine/scene"
)

//go:embed shaders
var embedded embed.FS

var (
	eyeStart    = mgl32.Vec3{0, -80, 30}
	lookAtStart = mgl32.Vec3{0, 0, 25}
	upStart     = mgl32.Vec3{0, 0, 1}
	clearColor  = mgl32.Vec4{0.1, 0.1, 0.15, 1}
)

const (
	sphereScale  = 12
	sphereZ      = 25
	sphereSlices = 30
	modelSize    = 20
)

// demo is the three-sphere scene: a multi-textured sphere on the left, a
// bump-mapped red sphere in the middle and a smooth blue sphere with a fly
// swarm on the right.
type demo struct {
	cfg   config.Config
	root  *scene.Node
	state *scene.RenderState

	camera *scene.Camera
	multi  *scene.MultiTextureShader
	bump   *scene.BumpMappingShader
	blue   *scene.BumpMappingShader
	swarm  *scene.ParticleSystem
}

func buildScene(dev device.Device, shaders fs.FS, cfg config.Config, aspect float32) (*demo, error) {
	d := &demo{
		cfg:   cfg,
		root:  scene.NewGroup("root"),
		state: scene.NewRenderState(),
	}

	d.camera = scene.NewCamera("camera")
	d.camera.SetPerspective(60, aspect, 0.1, 1000)
	d.resetCamera()
	if err := d.root.AddChild(d.camera); err != nil {
		return nil, err
	}

	steps := []func(device.Device, fs.FS) error{d.addMultiTexture, d.addBump, d.addBlue}
	for _, step := range steps {
		if err := step(dev, shaders); err != nil {
			d.root.Release()
			return nil, err
		}
	}
	return d, nil
}

func (d *demo) resetCamera() {
	d.camera.LookAt(eyeStart, lookAtStart, upStart)
}

func (d *demo) addMultiTexture(dev device.Device, shaders fs.FS) error {
	prog, err := device.LoadProgram(dev, shaders, "multi_texture.vert", "multi_texture.frag")
	if err != nil {
		return err
	}
	s := scene.NewMultiTextureShader(dev, "multi-texture", &prog)
	if err := s.GetLocations(); err != nil {
		s.Release()
		return err
	}
	if err := d.camera.AddChild(s); err != nil {
		s.Release()
		return err
	}
	d.multi = s

	mt := d.cfg.MultiTexture
	for unit, path := range d.cfg.Assets.Textures {
		img, ok := loadImage(path)
		if !ok {
			continue
		}
		if err := s.BindTexture(unit, img); err != nil {
			return err
		}
	}
	for unit, on := range mt.Enabled {
		s.SetTextureEnabled(unit, on)
	}
	blend, err := scene.ParseBlendMode(mt.BlendMode)
	if err != nil {
		return err
	}
	s.SetBlendMode(blend)
	s.SetMixFactor(mt.MixFactor)

	tr := sphereTransform("multi-texture-xform", -30)
	sphere := scene.NewGeometry(dev, "multi-texture-sphere", mesh.Sphere(sphereSlices, sphereSlices, 1), s.Slots())
	if err := s.AddChild(tr); err != nil {
		return err
	}
	return tr.AddChild(sphere)
}

func (d *demo) addBump(dev device.Device, shaders fs.FS) error {
	red := scene.Material{
		Ambient:   mgl32.Vec4{0.5, 0.05, 0.05, 1},
		Diffuse:   mgl32.Vec4{0.8, 0.1, 0.1, 1},
		Specular:  mgl32.Vec4{1, 1, 1, 1},
		Emission:  mgl32.Vec4{0, 0, 0, 1},
		Shininess: 64,
	}
	s, _, err := d.bumpBranch(dev, shaders, "bump", red, 0)
	if err != nil {
		return err
	}
	d.bump = s
	s.SetBumpStrength(d.cfg.Bump.Strength)
	s.SetNormalMappingEnabled(d.cfg.Bump.Enabled)
	if img, ok := loadImage(d.cfg.Assets.NormalMap); ok {
		if err := s.BindNormalMap(img); err != nil {
			return err
		}
	}
	return d.addModel(dev, s)
}

// addModel places the optional model file on the ground in front of the
// spheres, scaled so its largest extent is modelSize.
func (d *demo) addModel(dev device.Device, s *scene.BumpMappingShader) error {
	path := d.cfg.Assets.Model
	if path == "" {
		return nil
	}
	meshes, err := mesh.Load(path)
	if err != nil {
		slog.Warn("model skipped", "path", path, "err", err)
		return nil
	}

	lo, hi := meshes[0].Bounds()
	for _, m := range meshes[1:] {
		mlo, mhi := m.Bounds()
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], mlo[k])
			hi[k] = max(hi[k], mhi[k])
		}
	}
	size := hi.Sub(lo)
	extent := max(size[0], size[1], size[2])
	if extent <= 0 {
		extent = 1
	}
	scale := modelSize / extent
	centre := lo.Add(hi).Mul(0.5)

	pres := scene.NewPresentation(dev, "model-material", scene.DefaultMaterial())
	tr := scene.NewTransform("model-xform")
	tr.Translate(0, -30, modelSize/2)
	tr.Scale(scale, scale, scale)
	tr.Translate(-centre[0], -centre[1], -centre[2])
	if err := s.AddChild(pres); err != nil {
		return err
	}
	if err := pres.AddChild(tr); err != nil {
		return err
	}
	for _, m := range meshes {
		if err := tr.AddChild(scene.NewGeometry(dev, "", m, s.Slots())); err != nil {
			return err
		}
	}
	slog.Info("model loaded", "path", path, "meshes", len(meshes))
	return nil
}

func (d *demo) addBlue(dev device.Device, shaders fs.FS) error {
	blue := scene.Material{
		Ambient:   mgl32.Vec4{0.1, 0.16, 0.19, 1},
		Diffuse:   mgl32.Vec4{0.53, 0.81, 0.94, 1},
		Specular:  mgl32.Vec4{0.3, 0.3, 0.3, 1},
		Emission:  mgl32.Vec4{0, 0, 0, 1},
		Shininess: 16,
	}
	s, tr, err := d.bumpBranch(dev, shaders, "blue", blue, 30)
	if err != nil {
		return err
	}
	d.blue = s
	// Same program as the bump sphere with the effect switched off.
	s.SetBumpStrength(0)
	s.SetNormalMappingEnabled(false)

	pc, err := d.cfg.Particles.Scene()
	if err != nil {
		return err
	}
	vert := "particle.vert"
	if pc.Mode == scene.SimulateGPU {
		vert = "particle_gpu.vert"
	}
	prog, err := device.LoadProgram(dev, shaders, vert, "particle.frag")
	if err != nil {
		return err
	}
	swarm := scene.NewParticleSystem(dev, "swarm", &prog, pc, d.cfg.Particles.Count)
	if err := swarm.GetLocations(); err != nil {
		swarm.Release()
		return err
	}
	d.swarm = swarm
	return tr.AddChild(swarm)
}

// bumpBranch builds camera -> shader -> {light, material -> transform -> sphere}
// and returns the shader and the sphere's transform.
func (d *demo) bumpBranch(dev device.Device, shaders fs.FS, name string, m scene.Material, x float32) (*scene.BumpMappingShader, *scene.Transform, error) {
	prog, err := device.LoadProgram(dev, shaders, "bump_mapping.vert", "bump_mapping.frag")
	if err != nil {
		return nil, nil, err
	}
	s := scene.NewBumpMappingShader(dev, name, &prog)
	if err := s.GetLocations(); err != nil {
		s.Release()
		return nil, nil, err
	}
	if err := d.camera.AddChild(s); err != nil {
		s.Release()
		return nil, nil, err
	}
	s.SetGlobalAmbient(d.cfg.Bump.GlobalAmbient.Vec4())

	light, err := scene.NewLight(dev, name+"-light", 0)
	if err != nil {
		return nil, nil, err
	}
	light.SetPosition(mgl32.Vec4{-40, -80, 80, 1})
	light.SetAmbient(mgl32.Vec4{0.1, 0.1, 0.1, 1})
	light.Enable()

	pres := scene.NewPresentation(dev, name+"-material", m)
	tr := sphereTransform(name+"-xform", x)
	sphere := scene.NewGeometry(dev, name+"-sphere", mesh.Sphere(sphereSlices, sphereSlices, 1), s.Slots())

	for _, link := range []struct {
		parent *scene.Node
		child  scene.Attachable
	}{
		{s.Node, light},
		{s.Node, pres},
		{pres.Node, tr},
		{tr.Node, sphere},
	} {
		if err := link.parent.AddChild(link.child); err != nil {
			return nil, nil, errors.Wrap(err, name)
		}
	}
	return s, tr, nil
}

func sphereTransform(name string, x float32) *scene.Transform {
	tr := scene.NewTransform(name)
	tr.Translate(x, 0, sphereZ)
	tr.Scale(sphereScale, sphereScale, sphereScale)
	return tr
}

// loadImage reads a texture file. A missing or unreadable file is reported
// and skipped, the scene is drawn without it.
func loadImage(path string) (device.TextureImage, bool) {
	if path == "" {
		return device.TextureImage{}, false
	}
	img, err := imageio.Load(path)
	if err != nil {
		slog.Warn("texture skipped", "path", path, "err", err)
		return device.TextureImage{}, false
	}
	img.FlipVertical()
	return img.Texture(), true
}

// frame draws the whole tree once.
func (d *demo) frame() {
	d.state.Init()
	d.root.Draw(d.state)
}
