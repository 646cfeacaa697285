package scene

import "github.com/go-gl/mathgl/mgl32"

// Transform post-multiplies the current model matrix for its subtree.
type Transform struct {
	*Node
	matrix mgl32.Mat4
}

// NewTransform returns an identity transform node.
func NewTransform(name string) *Transform {
	t := &Transform{matrix: mgl32.Ident4()}
	t.Node = newNode(KindTransform, name, t)
	return t
}

// LoadIdentity resets the node to the identity.
func (t *Transform) LoadIdentity() { t.matrix = mgl32.Ident4() }

func (t *Transform) Translate(x, y, z float32) {
	t.matrix = t.matrix.Mul4(mgl32.Translate3D(x, y, z))
}

func (t *Transform) Scale(x, y, z float32) {
	t.matrix = t.matrix.Mul4(mgl32.Scale3D(x, y, z))
}

// Rotate appends a rotation of degrees about axis.
func (t *Transform) Rotate(degrees float32, axis mgl32.Vec3) {
	if axis.Len() == 0 {
		return
	}
	t.matrix = t.matrix.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(degrees), axis.Normalize()))
}

// Matrix returns the node's local matrix.
func (t *Transform) Matrix() mgl32.Mat4 { return t.matrix }

func (t *Transform) apply(st *RenderState) {
	st.ModelMatrix = st.ModelMatrix.Mul4(t.matrix)
}
