package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera sets the projection-view matrix and the eye position for its
// subtree. The view frame is kept as orthonormal u, v, n axes so roll, pitch
// and heading can be applied incrementally.
type Camera struct {
	*Node

	position mgl32.Vec3
	u, v, n  mgl32.Vec3

	fov         float32 // degrees
	aspectRatio float32
	nearPlane   float32
	farPlane    float32

	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
	dirty            bool
}

// NewCamera returns a camera at the origin looking down -Z with a 60 degree
// perspective.
func NewCamera(name string) *Camera {
	c := &Camera{
		u:           mgl32.Vec3{1, 0, 0},
		v:           mgl32.Vec3{0, 1, 0},
		n:           mgl32.Vec3{0, 0, 1},
		fov:         60,
		aspectRatio: 1,
		nearPlane:   0.1,
		farPlane:    1000,
		dirty:       true,
	}
	c.Node = newNode(KindCamera, name, c)
	return c
}

// SetPosition moves the eye without changing the view direction.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.dirty = true
}

func (c *Camera) Position() mgl32.Vec3 { return c.position }

// SetLookAt points the camera at target, keeping the current up hint.
func (c *Camera) SetLookAt(target mgl32.Vec3) {
	c.setFrame(target, c.v)
}

// SetViewUp re-derives the frame with a new up hint.
func (c *Camera) SetViewUp(up mgl32.Vec3) {
	c.setFrame(c.position.Sub(c.n), up)
}

// LookAt places the eye and orients it towards target in one step.
func (c *Camera) LookAt(eye, target, up mgl32.Vec3) {
	c.position = eye
	c.setFrame(target, up)
}

func (c *Camera) setFrame(target, up mgl32.Vec3) {
	n := c.position.Sub(target)
	if n.Len() == 0 {
		return
	}
	n = n.Normalize()
	u := up.Cross(n)
	if u.Len() == 0 {
		return
	}
	c.n = n
	c.u = u.Normalize()
	c.v = c.n.Cross(c.u)
	c.dirty = true
}

// SetPerspective sets the projection. fov is the vertical field of view in
// degrees.
func (c *Camera) SetPerspective(fov, aspectRatio, nearPlane, farPlane float32) {
	c.fov = fov
	c.aspectRatio = aspectRatio
	c.nearPlane = nearPlane
	c.farPlane = farPlane
	c.dirty = true
}

// ChangeAspectRatio updates the projection after a resize.
func (c *Camera) ChangeAspectRatio(aspectRatio float32) {
	if aspectRatio > 0 {
		c.aspectRatio = aspectRatio
		c.dirty = true
	}
}

// Roll rotates about the view direction.
func (c *Camera) Roll(degrees float32) {
	c.u, c.v = rotatePair(c.u, c.v, degrees)
	c.dirty = true
}

// Pitch rotates about the camera's horizontal axis.
func (c *Camera) Pitch(degrees float32) {
	c.v, c.n = rotatePair(c.v, c.n, degrees)
	c.dirty = true
}

// Heading rotates about the camera's up axis.
func (c *Camera) Heading(degrees float32) {
	c.n, c.u = rotatePair(c.n, c.u, degrees)
	c.dirty = true
}

// Slide moves the eye along the camera axes.
func (c *Camera) Slide(du, dv, dn float32) {
	c.position = c.position.Add(c.u.Mul(du)).Add(c.v.Mul(dv)).Add(c.n.Mul(dn))
	c.dirty = true
}

// MoveAndTurn changes heading by degrees and then moves distance forward.
func (c *Camera) MoveAndTurn(distance, degrees float32) {
	c.Heading(degrees)
	c.Slide(0, 0, -distance)
}

// rotatePair turns a towards b by degrees in the plane they span.
func rotatePair(a, b mgl32.Vec3, degrees float32) (mgl32.Vec3, mgl32.Vec3) {
	s, co := math32.Sincos(mgl32.DegToRad(degrees))
	ra := a.Mul(co).Add(b.Mul(s))
	rb := b.Mul(co).Sub(a.Mul(s))
	return ra.Normalize(), rb.Normalize()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	c.update()
	return c.viewMatrix
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	c.update()
	return c.projectionMatrix
}

func (c *Camera) update() {
	if !c.dirty {
		return
	}
	eye := c.position
	c.viewMatrix = mgl32.Mat4FromRows(
		c.u.Vec4(-c.u.Dot(eye)),
		c.v.Vec4(-c.v.Dot(eye)),
		c.n.Vec4(-c.n.Dot(eye)),
		mgl32.Vec4{0, 0, 0, 1},
	)
	c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspectRatio, c.nearPlane, c.farPlane)
	c.dirty = false
}

func (c *Camera) apply(st *RenderState) {
	c.update()
	st.PV = c.projectionMatrix.Mul4(c.viewMatrix)
	st.CameraPosition = c.position
}
