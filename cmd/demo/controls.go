package main

import (
	"fmt"
	"io"

	"scenegraph-engine/core"
)

const (
	turnStep     = 5
	moveStep     = 2
	mixStep      = 0.1
	bumpStep     = 0.2
	maxBump      = 3
	fliesPerStep = 10
)

const usage = `CAMERA:   i reset, r/R roll, p/P pitch, h/H heading, arrows move and turn
TEXTURES: b cycle blend mode, m/M mix factor, 1-4 toggle units, space print settings
BUMP:     n/N bump strength
FLIES:    f/F remove/add 10
          Esc quit
`

// handleKey applies one key press. Shift reverses or increases the action.
// It reports false when the demo should exit.
func (d *demo) handleKey(key int, shift bool, out io.Writer) bool {
	sign := float32(1)
	if shift {
		sign = -1
	}

	switch key {
	case core.KeyEscape:
		return false

	case core.KeyI:
		d.resetCamera()
	case core.KeyR:
		d.camera.Roll(sign * turnStep)
	case core.KeyP:
		d.camera.Pitch(sign * turnStep)
	case core.KeyH:
		d.camera.Heading(sign * turnStep)
	case core.KeyUp:
		d.camera.MoveAndTurn(moveStep, 0)
	case core.KeyDown:
		d.camera.MoveAndTurn(-moveStep, 0)
	case core.KeyLeft:
		d.camera.MoveAndTurn(0, turnStep)
	case core.KeyRight:
		d.camera.MoveAndTurn(0, -turnStep)

	case core.KeyB:
		d.multi.CycleBlendMode()
		fmt.Fprint(out, d.status())
	case core.KeyM:
		d.multi.SetMixFactor(d.multi.MixFactor() - sign*mixStep)
		fmt.Fprint(out, d.status())
	case core.Key1, core.Key2, core.Key3, core.Key4:
		unit := key - core.Key1
		d.multi.ToggleTexture(unit)
		state := "DISABLED"
		if d.multi.TextureEnabled(unit) {
			state = "ENABLED"
		}
		fmt.Fprintf(out, "Texture %d %s\n", unit, state)
	case core.KeySpace:
		fmt.Fprint(out, d.status())

	case core.KeyN:
		strength := min(max(d.bump.BumpStrength()-sign*bumpStep, 0), maxBump)
		d.bump.SetBumpStrength(strength)
		fmt.Fprintf(out, "Bump strength: %.1f\n", strength)

	case core.KeyF:
		if shift {
			d.swarm.AddParticles(fliesPerStep)
		} else {
			d.swarm.RemoveParticles(fliesPerStep)
		}
	}
	return true
}
