package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegraph-engine/scene"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	pc, err := cfg.Particles.Scene()
	require.NoError(t, err)
	assert.Equal(t, scene.SimulateCPU, pc.Mode)
	assert.Equal(t, scene.FrameLocal, pc.Frame)
	assert.Equal(t, float32(1.05), pc.MinRadius)
	assert.Equal(t, mgl32.Vec3{}, pc.Color)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 1024
  height: 768
multi_texture:
  blend_mode: add
particles:
  mode: gpu
  placement: volume
  color: [1, 0, 0]
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, "Scene Graph Demo", cfg.Window.Title, "unset keys keep defaults")
	assert.Equal(t, float32(0.5), cfg.MultiTexture.MixFactor)

	pc, err := cfg.Particles.Scene()
	require.NoError(t, err)
	assert.Equal(t, scene.SimulateGPU, pc.Mode)
	assert.Equal(t, scene.PlaceVolume, pc.Placement)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, pc.Color)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for name, body := range map[string]string{
		"size":      "window: {width: 0}\n",
		"blend":     "multi_texture: {blend_mode: screen}\n",
		"mode":      "particles: {mode: quantum}\n",
		"frame":     "particles: {frame: world}\n",
		"placement": "particles: {placement: cube}\n",
		"count":     "particles: {count: -1}\n",
		"radius":    "particles: {radius: 1, min_radius: 2}\n",
		"level":     "log_level: loud\n",
		"unknown":   "colour: blue\n",
		"strength":  "bump: {strength: -1}\n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
