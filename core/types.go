package core

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorBlack  = Color{0, 0, 0, 1}
	ColorRed    = Color{1, 0, 0, 1}
	ColorGreen  = Color{0, 1, 0, 1}
	ColorBlue   = Color{0, 0, 1, 1}
	ColorYellow = Color{1, 1, 0, 1}
)

func (c Color) Vec3() mgl32.Vec3 { return mgl32.Vec3{c.R, c.G, c.B} }
func (c Color) Vec4() mgl32.Vec4 { return mgl32.Vec4{c.R, c.G, c.B, c.A} }

// MarshalYAML writes the color as a flow sequence [r, g, b, a].
func (c Color) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float32{c.R, c.G, c.B, c.A} {
		var item yaml.Node
		if err := item.Encode(v); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &item)
	}
	return n, nil
}

// UnmarshalYAML reads [r, g, b] or [r, g, b, a]. Alpha defaults to 1.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var v []float32
	if err := n.Decode(&v); err != nil {
		return errors.Wrapf(err, "line %d: color", n.Line)
	}
	switch len(v) {
	case 3:
		*c = Color{v[0], v[1], v[2], 1}
	case 4:
		*c = Color{v[0], v[1], v[2], v[3]}
	default:
		return errors.Errorf("line %d: color needs 3 or 4 components, got %d", n.Line, len(v))
	}
	return nil
}
