// Package config holds the demo's YAML configuration.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"scenegraph-engine/core"
	"scenegraph-engine/scene"
)

type Config struct {
	Window       Window       `yaml:"window"`
	Assets       Assets       `yaml:"assets"`
	MultiTexture MultiTexture `yaml:"multi_texture"`
	Bump         Bump         `yaml:"bump"`
	Particles    Particles    `yaml:"particles"`
	LogLevel     string       `yaml:"log_level"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// Assets are file paths. Textures takes exactly four entries. Empty entries
// are skipped, and a file that fails to load is reported and skipped rather
// than aborting the demo.
type Assets struct {
	Textures  [scene.MaxTextureUnits]string `yaml:"textures"`
	NormalMap string                        `yaml:"normal_map"`
	// Model is an optional .obj, .gltf or .glb file drawn with the bump shader.
	Model string `yaml:"model"`
}

type MultiTexture struct {
	BlendMode string                      `yaml:"blend_mode"`
	MixFactor float32                     `yaml:"mix_factor"`
	Enabled   [scene.MaxTextureUnits]bool `yaml:"enabled"`
}

type Bump struct {
	Strength      float32    `yaml:"strength"`
	Enabled       bool       `yaml:"enabled"`
	GlobalAmbient core.Color `yaml:"global_ambient"`
}

type Particles struct {
	Count     int        `yaml:"count"`
	Mode      string     `yaml:"mode"`
	Frame     string     `yaml:"frame"`
	Placement string     `yaml:"placement"`
	Radius    float32    `yaml:"radius"`
	MinRadius float32    `yaml:"min_radius"`
	PointSize float32    `yaml:"point_size"`
	Color     core.Color `yaml:"color"`
	Seed      int64      `yaml:"seed"`
}

// Default reproduces the three-sphere scene.
func Default() Config {
	return Config{
		Window: Window{Width: 800, Height: 600, Title: "Scene Graph Demo", VSync: true},
		Assets: Assets{
			Textures:  [scene.MaxTextureUnits]string{"assets/grainy_wood.jpg", "assets/floor_tiles.jpg"},
			NormalMap: "assets/bumper.jpg",
		},
		MultiTexture: MultiTexture{
			BlendMode: "MIX",
			MixFactor: 0.5,
			Enabled:   [scene.MaxTextureUnits]bool{true, true, false, false},
		},
		Bump: Bump{Strength: 1, Enabled: true, GlobalAmbient: core.Color{R: 0.2, G: 0.2, B: 0.2, A: 1}},
		Particles: Particles{
			Count:     50,
			Mode:      "cpu",
			Frame:     "local",
			Placement: "shell",
			Radius:    1.5,
			MinRadius: 1.05,
			PointSize: 6,
			Color:     core.ColorBlack,
			Seed:      1,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "open config")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "decode %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, err := scene.ParseBlendMode(c.MultiTexture.BlendMode); err != nil {
		return errors.Wrap(err, "multi_texture.blend_mode")
	}
	if c.Bump.Strength < 0 {
		return errors.Errorf("bump.strength %v is negative", c.Bump.Strength)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	_, err := c.Particles.Scene()
	return err
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return l, nil
}

// Scene converts the particle section to the scene configuration.
func (p Particles) Scene() (scene.ParticleConfig, error) {
	cfg := scene.DefaultParticleConfig()
	if p.Count < 0 {
		return cfg, errors.Errorf("particles.count %d is negative", p.Count)
	}
	if p.Radius <= 0 || p.MinRadius < 0 || p.MinRadius > p.Radius {
		return cfg, errors.Errorf("particles radius range [%v, %v] is invalid", p.MinRadius, p.Radius)
	}

	switch strings.ToLower(p.Mode) {
	case "cpu":
		cfg.Mode = scene.SimulateCPU
	case "gpu":
		cfg.Mode = scene.SimulateGPU
	default:
		return cfg, errors.Errorf("particles.mode %q: want cpu or gpu", p.Mode)
	}
	switch strings.ToLower(p.Frame) {
	case "local":
		cfg.Frame = scene.FrameLocal
	case "global":
		cfg.Frame = scene.FrameGlobal
	default:
		return cfg, errors.Errorf("particles.frame %q: want local or global", p.Frame)
	}
	switch strings.ToLower(p.Placement) {
	case "shell":
		cfg.Placement = scene.PlaceShell
	case "volume":
		cfg.Placement = scene.PlaceVolume
	default:
		return cfg, errors.Errorf("particles.placement %q: want shell or volume", p.Placement)
	}

	cfg.Radius = p.Radius
	cfg.MinRadius = p.MinRadius
	cfg.PointSize = p.PointSize
	cfg.Color = p.Color.Vec3()
	cfg.Seed = p.Seed
	return cfg, nil
}
