package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegraph-engine/device"
	"scenegraph-engine/device/devicetest"
)

func TestLightIndexRange(t *testing.T) {
	rec := devicetest.NewRecorder()
	for _, i := range []int{-1, MaxLights, 100} {
		_, err := NewLight(rec, "", i)
		assert.ErrorIs(t, err, ErrInvalidLight, "index %d", i)
	}
	l, err := NewLight(rec, "", MaxLights-1)
	require.NoError(t, err)
	assert.Equal(t, MaxLights-1, l.Index())
	assert.False(t, l.Enabled())
}

func TestLightUnderBumpShader(t *testing.T) {
	rec := devicetest.NewRecorder()
	shader := newBump(t, rec, 400)
	layout := bumpLayout(400)

	tr := NewTransform("")
	tr.Translate(0, 5, 0)
	key, err := NewLight(rec, "key", 2)
	require.NoError(t, err)
	key.Enable()
	key.SetPosition(mgl32.Vec4{1, 0, 0, 1})
	key.SetDiffuse(mgl32.Vec4{1, 0.5, 0, 1})
	key.SetAttenuation(1, 0.1, 0.01)
	off, err := NewLight(rec, "off", 5)
	require.NoError(t, err)

	require.NoError(t, shader.AddChild(tr))
	require.NoError(t, tr.AddChild(key))
	require.NoError(t, shader.AddChild(off))

	st := NewRenderState()
	shader.Draw(st)

	uni := func(name string) device.Location { return layout.Uniforms[name] }
	assert.Equal(t, int32(1), rec.Ints[uni("lights[2].enabled")])
	assert.Equal(t, int32(0), rec.Ints[uni("lights[2].is_spotlight")])
	assert.Equal(t, mgl32.Vec4{1, 5, 0, 1}, rec.Vec4s[uni("lights[2].position")], "position follows the model matrix")
	assert.Equal(t, mgl32.Vec4{1, 0.5, 0, 1}, rec.Vec4s[uni("lights[2].diffuse")])
	assert.Equal(t, float32(0.01), rec.Floats[uni("lights[2].quadratic_atten")])
	assert.Equal(t, int32(0), rec.Ints[uni("lights[5].enabled")])
	assert.Equal(t, int32(3), rec.Ints[uni("num_lights")])
	assert.Equal(t, 2, st.MaxEnabledLight)

	_, pushed := rec.Floats[uni("lights[2].spot_cutoff")]
	assert.False(t, pushed, "spot fields only for spotlights")
}

func TestSpotlightDirectionTransformed(t *testing.T) {
	rec := devicetest.NewRecorder()
	shader := newBump(t, rec, 400)
	layout := bumpLayout(400)

	tr := NewTransform("")
	tr.Rotate(90, mgl32.Vec3{0, 1, 0})
	l, err := NewLight(rec, "", 0)
	require.NoError(t, err)
	l.Enable()
	l.SetSpotlight(mgl32.Vec3{0, 0, -1}, 4, 30)
	require.NoError(t, shader.AddChild(tr))
	require.NoError(t, tr.AddChild(l))

	shader.Draw(NewRenderState())
	assert.Equal(t, int32(1), rec.Ints[layout.Uniforms["lights[0].is_spotlight"]])
	assert.Equal(t, float32(30), rec.Floats[layout.Uniforms["lights[0].spot_cutoff"]])
	dir := rec.Vec3s[layout.Uniforms["lights[0].spot_direction"]]
	want := mgl32.Vec3{-1, 0, 0}
	assert.InDeltaSlice(t, want[:], dir[:], 1e-5)

	l.TurnOffSpotlight()
	rec.Reset()
	shader.Draw(NewRenderState())
	assert.Equal(t, int32(0), rec.Ints[layout.Uniforms["lights[0].is_spotlight"]])
}

func TestPresentationMaterialAndTexture(t *testing.T) {
	rec := devicetest.NewRecorder()
	shader := newBump(t, rec, 400)
	layout := bumpLayout(400)

	pres := NewPresentation(rec, "", DefaultMaterial())
	pres.SetAmbientAndDiffuse(mgl32.Vec4{0, 0, 1, 1})
	pres.SetShininess(32)
	require.NoError(t, shader.AddChild(pres))

	shader.Draw(NewRenderState())
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, rec.Vec4s[layout.Uniforms["material_ambient"]])
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, rec.Vec4s[layout.Uniforms["material_diffuse"]])
	assert.Equal(t, float32(32), rec.Floats[layout.Uniforms["material_shininess"]])
	assert.False(t, pres.TextureEnabled())

	pres.EnableTexture(true)
	assert.False(t, pres.TextureEnabled(), "nothing to enable without a texture")
	assert.ErrorIs(t, pres.LoadTexture(device.TextureImage{Width: 2, Height: 2}, true), ErrEmptyImage)

	require.NoError(t, pres.LoadTexture(pix(2, 2, 3), true))
	assert.True(t, pres.TextureEnabled())
	require.NoError(t, shader.BindNormalMap(pix(2, 2, 3)))
	rec.Reset()
	shader.Draw(NewRenderState())
	binds := rec.Filter("BindTexture")
	require.Len(t, binds, 1, "no texture_sampler in the bump program")
	assert.Equal(t, 0, binds[0].Args[0])
	assert.Equal(t, uint32(shader.normalMap.ID()), binds[0].ID, "unit 0 keeps the normal map")
}

func TestPresentationUseTextureSlot(t *testing.T) {
	rec := devicetest.NewRecorder()
	pres := NewPresentation(rec, "", DefaultMaterial())
	st := NewRenderState()
	st.Slots.UseTexture = 7
	st.Slots.TextureSampler = 8

	pres.Draw(st)
	assert.Equal(t, int32(0), rec.Ints[7])

	require.NoError(t, pres.LoadTexture(pix(1, 1, 4), false))
	rec.Reset()
	pres.Draw(st)
	assert.Equal(t, int32(1), rec.Ints[7])
	assert.Equal(t, int32(0), rec.Ints[8])
	assert.Equal(t, 1, rec.Count("BindTexture"))

	pres.EnableTexture(false)
	pres.Draw(st)
	assert.Equal(t, int32(0), rec.Ints[7])
}
