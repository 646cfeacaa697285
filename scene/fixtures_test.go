package scene

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"scenegraph-engine/device"
	"scenegraph-engine/device/devicetest"
)

func multiTextureLayout(base int) devicetest.Layout {
	uniforms := []string{"pvm_matrix", "model_matrix", "normal_matrix",
		"blend_mode", "mix_factor", "camera_position", "global_ambient"}
	for i := 0; i < MaxTextureUnits; i++ {
		uniforms = append(uniforms, fmt.Sprintf("texture_sampler%d", i), fmt.Sprintf("texture_enabled%d", i))
	}
	return devicetest.NewLayout(base,
		[]string{"vtx_position", "vtx_normal", "vtx_texcoord"}, uniforms)
}

var lightFields = []string{"enabled", "is_spotlight", "position", "ambient", "diffuse", "specular",
	"constant_atten", "linear_atten", "quadratic_atten", "spot_cutoff", "spot_exponent", "spot_direction"}

func bumpLayout(base int) devicetest.Layout {
	uniforms := []string{"pvm_matrix", "model_matrix", "normal_matrix",
		"material_ambient", "material_diffuse", "material_specular", "material_emission", "material_shininess",
		"camera_position", "num_lights", "global_ambient",
		"normal_map", "use_normal_map", "bump_strength"}
	for i := 0; i < MaxLights; i++ {
		for _, f := range lightFields {
			uniforms = append(uniforms, fmt.Sprintf("lights[%d].%s", i, f))
		}
	}
	return devicetest.NewLayout(base, nil, uniforms)
}

func particleLayout(base int, mode SimulationMode) devicetest.Layout {
	attribs := []string{"position"}
	if mode == SimulateGPU {
		attribs = []string{"orbit_radius", "orbit_speed", "phase_offset"}
	}
	return devicetest.NewLayout(base, attribs,
		[]string{"pvm_matrix", "point_size", "particle_color", "current_time", "swarm_center"})
}

// newProgram links a fake program that declares layout.
func newProgram(t *testing.T, rec *devicetest.Recorder, layout devicetest.Layout) device.Handle[device.Program] {
	t.Helper()
	src := fmt.Sprintf("program-%d", len(rec.Layouts))
	rec.Layouts[src] = layout
	p, err := rec.CreateProgram(src, "")
	require.NoError(t, err)
	return device.Own(p, rec.DeleteProgram)
}

func newMultiTexture(t *testing.T, rec *devicetest.Recorder, base int) *MultiTextureShader {
	t.Helper()
	prog := newProgram(t, rec, multiTextureLayout(base))
	s := NewMultiTextureShader(rec, "", &prog)
	require.NoError(t, s.GetLocations())
	return s
}

func newBump(t *testing.T, rec *devicetest.Recorder, base int) *BumpMappingShader {
	t.Helper()
	prog := newProgram(t, rec, bumpLayout(base))
	s := NewBumpMappingShader(rec, "", &prog)
	require.NoError(t, s.GetLocations())
	return s
}

func newParticles(t *testing.T, rec *devicetest.Recorder, base int, cfg ParticleConfig, count int) *ParticleSystem {
	t.Helper()
	prog := newProgram(t, rec, particleLayout(base, cfg.Mode))
	p := NewParticleSystem(rec, "", &prog, cfg, count)
	require.NoError(t, p.GetLocations())
	return p
}

func pix(w, h, channels int) device.TextureImage {
	return device.TextureImage{Width: w, Height: h, Channels: channels, Pix: make([]byte, w*h*channels)}
}
