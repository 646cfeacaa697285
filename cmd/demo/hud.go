package main

import (
	"fmt"
	"strings"

	"scenegraph-engine/scene"
)

// statusReport collects the lines printed for the current settings.
type statusReport struct {
	lines []string
}

func (r *statusReport) AddLine(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *statusReport) String() string {
	if len(r.lines) == 0 {
		return ""
	}
	return strings.Join(r.lines, "\n") + "\n"
}

func (d *demo) status() string {
	var r statusReport
	r.AddLine("=== Multi-Texture Settings ===")
	active := 0
	for unit := 0; unit < scene.MaxTextureUnits; unit++ {
		if d.multi.TextureEnabled(unit) {
			active++
		}
	}
	r.AddLine("Active Textures: %d", active)
	r.AddLine("Blend Mode: %s", d.multi.BlendMode())
	if d.multi.BlendMode() == scene.BlendMix {
		r.AddLine("Mix Factor: %.1f", d.multi.MixFactor())
	}
	r.AddLine("Bump Strength: %.1f", d.bump.BumpStrength())
	r.AddLine("Flies: %d (%s)", d.swarm.Count(), d.swarm.Mode())
	r.AddLine("==============================")
	return r.String()
}
