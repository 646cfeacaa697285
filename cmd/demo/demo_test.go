package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegraph-engine/config"
	"scenegraph-engine/core"
	"scenegraph-engine/device"
	"scenegraph-engine/device/devicetest"
	"scenegraph-engine/scene"
)

// recorderFor declares every name the demo's programs use.
func recorderFor() *devicetest.Recorder {
	uniforms := []string{
		"pvm_matrix", "model_matrix", "normal_matrix", "camera_position", "global_ambient",
		"blend_mode", "mix_factor",
		"material_ambient", "material_diffuse", "material_specular", "material_emission", "material_shininess",
		"num_lights", "normal_map", "use_normal_map", "bump_strength",
		"point_size", "particle_color", "current_time", "swarm_center",
	}
	for i := 0; i < scene.MaxTextureUnits; i++ {
		uniforms = append(uniforms, fmt.Sprintf("texture_sampler%d", i), fmt.Sprintf("texture_enabled%d", i))
	}
	for i := 0; i < scene.MaxLights; i++ {
		for _, f := range []string{"enabled", "is_spotlight", "position", "ambient", "diffuse", "specular",
			"constant_atten", "linear_atten", "quadratic_atten", "spot_cutoff", "spot_exponent", "spot_direction"} {
			uniforms = append(uniforms, fmt.Sprintf("lights[%d].%s", i, f))
		}
	}
	rec := devicetest.NewRecorder()
	rec.Default = devicetest.NewLayout(100,
		[]string{"vtx_position", "vtx_normal", "vtx_texcoord", "position", "orbit_radius", "orbit_speed", "phase_offset"},
		uniforms)
	return rec
}

func shaderFiles(t *testing.T) fs.FS {
	t.Helper()
	sub, err := fs.Sub(embedded, "shaders")
	require.NoError(t, err)
	return sub
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.NRGBA{R: 10, A: 255})
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func newDemo(t *testing.T, rec *devicetest.Recorder, cfg config.Config) *demo {
	t.Helper()
	d, err := buildScene(rec, shaderFiles(t), cfg, 4.0/3.0)
	require.NoError(t, err)
	return d
}

func TestBuildSceneDrawsThreeSpheresAndSwarm(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Assets.Textures = [scene.MaxTextureUnits]string{writePNG(t, dir, "wood.png"), "", filepath.Join(dir, "missing.png")}
	cfg.Assets.NormalMap = writePNG(t, dir, "bumps.png")

	rec := recorderFor()
	d := newDemo(t, rec, cfg)

	for _, name := range []string{"camera", "multi-texture", "bump", "blue", "swarm", "bump-light", "blue-sphere"} {
		assert.NotNil(t, d.root.Find(name), name)
	}
	assert.Equal(t, scene.KindShader, d.root.Find("swarm").Kind())
	assert.Equal(t, d.root.Find("blue-xform"), d.swarm.Parent(), "swarm follows the blue sphere")
	assert.Equal(t, 4, rec.Count("CreateProgram"))
	assert.Equal(t, 2, rec.Count("CreateTexture"), "missing files are skipped")
	assert.Equal(t, 50, d.swarm.Count())

	rec.Reset()
	d.frame()
	assert.Equal(t, 3, rec.Count("DrawElements"))
	assert.Equal(t, 1, rec.Count("DrawArrays"))
	assert.Equal(t, 5, rec.Count("UseProgram"), "blue program restored after the swarm")
	assert.Equal(t, 0, d.state.StackDepth())

	d.root.Release()
	assert.Zero(t, rec.Live())
}

func TestBlueSphereHasBumpDisabled(t *testing.T) {
	d := newDemo(t, recorderFor(), config.Default())
	assert.Equal(t, float32(0), d.blue.BumpStrength())
	assert.False(t, d.blue.NormalMappingEnabled())
	assert.Equal(t, d.bump.Slots(), d.blue.Slots())
	assert.Equal(t, float32(1), d.bump.BumpStrength())
}

func TestGPUParticleProgram(t *testing.T) {
	cfg := config.Default()
	cfg.Particles.Mode = "gpu"
	rec := recorderFor()
	d := newDemo(t, rec, cfg)
	assert.Equal(t, scene.SimulateGPU, d.swarm.Mode())

	rec.Reset()
	d.frame()
	d.frame()
	assert.Zero(t, rec.Count("BufferSubData"))
	assert.Equal(t, 2, rec.Count("DrawArrays"))
}

func TestBuildSceneFailsOnMissingSlot(t *testing.T) {
	rec := recorderFor()
	delete(rec.Default.Uniforms, "pvm_matrix")
	_, err := buildScene(rec, shaderFiles(t), config.Default(), 1)
	assert.ErrorIs(t, err, scene.ErrSlotNotFound)
	assert.Zero(t, rec.Live(), "partial scenes are released")
}

func TestBuildSceneFailsOnLink(t *testing.T) {
	rec := recorderFor()
	rec.LinkErr = assert.AnError
	_, err := buildScene(rec, shaderFiles(t), config.Default(), 1)
	assert.ErrorIs(t, err, device.ErrLinkFailed)
}

func TestKeyBindings(t *testing.T) {
	d := newDemo(t, recorderFor(), config.Default())
	var out bytes.Buffer

	assert.True(t, d.handleKey(core.KeyB, false, &out))
	assert.Equal(t, scene.BlendMultiply, d.multi.BlendMode())
	assert.Contains(t, out.String(), "Blend Mode: MULTIPLY")

	d.handleKey(core.KeyM, true, io.Discard)
	assert.InDelta(t, 0.6, d.multi.MixFactor(), 1e-6)
	for i := 0; i < 10; i++ {
		d.handleKey(core.KeyM, false, io.Discard)
	}
	assert.Equal(t, float32(0), d.multi.MixFactor())

	out.Reset()
	d.handleKey(core.Key3, false, &out)
	assert.True(t, d.multi.TextureEnabled(2))
	assert.Equal(t, "Texture 2 ENABLED\n", out.String())

	for i := 0; i < 20; i++ {
		d.handleKey(core.KeyN, true, io.Discard)
	}
	assert.Equal(t, float32(3), d.bump.BumpStrength())
	d.handleKey(core.KeyN, false, io.Discard)
	assert.InDelta(t, 2.8, d.bump.BumpStrength(), 1e-6)

	d.handleKey(core.KeyF, true, io.Discard)
	assert.Equal(t, 60, d.swarm.Count())
	for i := 0; i < 10; i++ {
		d.handleKey(core.KeyF, false, io.Discard)
	}
	assert.Zero(t, d.swarm.Count())

	assert.False(t, d.handleKey(core.KeyEscape, false, io.Discard))
}

func TestCameraKeys(t *testing.T) {
	d := newDemo(t, recorderFor(), config.Default())
	start := d.camera.ViewMatrix()

	d.handleKey(core.KeyR, false, io.Discard)
	d.handleKey(core.KeyH, true, io.Discard)
	d.handleKey(core.KeyUp, false, io.Discard)
	assert.False(t, d.camera.ViewMatrix().ApproxEqualThreshold(start, 1e-4))

	d.handleKey(core.KeyI, false, io.Discard)
	reset := d.camera.ViewMatrix()
	assert.InDeltaSlice(t, start[:], reset[:], 1e-4)
	assert.Equal(t, mgl32.Vec3{0, -80, 30}, d.camera.Position())
}

func TestStatusReport(t *testing.T) {
	d := newDemo(t, recorderFor(), config.Default())
	s := d.status()
	assert.Contains(t, s, "Active Textures: 2")
	assert.Contains(t, s, "Mix Factor: 0.5")
	assert.Contains(t, s, "Flies: 50 (cpu)")

	var empty statusReport
	assert.Empty(t, empty.String())
}

func TestOptionalModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\nv 2 0 0\nv 0 2 0\nf 1 2 3\n"), 0o644))

	cfg := config.Default()
	cfg.Assets.Model = path
	rec := recorderFor()
	d := newDemo(t, rec, cfg)
	require.NotNil(t, d.root.Find("model-xform"))

	rec.Reset()
	d.frame()
	assert.Equal(t, 4, rec.Count("DrawElements"))

	cfg.Assets.Model = filepath.Join(dir, "missing.obj")
	d = newDemo(t, recorderFor(), cfg)
	assert.Nil(t, d.root.Find("model-xform"), "unreadable models are skipped")
}

func TestAspectRatioGuardsEmptyFramebuffer(t *testing.T) {
	assert.Equal(t, float32(2), aspectRatio(800, 400))
	assert.Equal(t, float32(1), aspectRatio(800, 0))
	assert.Equal(t, float32(1), aspectRatio(0, 0))

	d, err := buildScene(recorderFor(), shaderFiles(t), config.Default(), aspectRatio(640, 0))
	require.NoError(t, err)
	for _, v := range d.camera.ProjectionMatrix() {
		assert.False(t, math.IsInf(float64(v), 0) || math.IsNaN(float64(v)))
	}
}
