package scene

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Kind tags the variant a node carries.
type Kind int

const (
	KindGroup Kind = iota
	KindTransform
	KindShader
	KindPresentation
	KindLight
	KindGeometry
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindTransform:
		return "transform"
	case KindShader:
		return "shader"
	case KindPresentation:
		return "presentation"
	case KindLight:
		return "light"
	case KindGeometry:
		return "geometry"
	case KindCamera:
		return "camera"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Attachable is anything that can be added as a child: a *Node or one of the
// payload types that embed it.
type Attachable interface {
	base() *Node
}

// Node is one element of the scene tree. The kind-specific data lives in
// payload; Draw dispatches on it and then visits the children in order.
type Node struct {
	Name string

	id       uuid.UUID
	kind     Kind
	parent   *Node
	children []*Node
	payload  any

	drawing  bool
	released bool
}

func newNode(kind Kind, name string, payload any) *Node {
	return &Node{
		Name:    name,
		id:      uuid.New(),
		kind:    kind,
		payload: payload,
	}
}

// NewGroup returns a node with no state of its own.
func NewGroup(name string) *Node {
	return newNode(KindGroup, name, nil)
}

func (n *Node) base() *Node { return n }

func (n *Node) ID() uuid.UUID     { return n.id }
func (n *Node) Kind() Kind        { return n.kind }
func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// Label identifies the node in logs.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.kind.String() + "-" + n.id.String()[:8]
}

// AddChild appends c to the children. A child may only be attached once,
// never to one of its own descendants, and never while its future parent's
// tree is being drawn.
func (n *Node) AddChild(c Attachable) error {
	child := c.base()
	switch {
	case n.released || child.released:
		return errors.Wrap(ErrReleased, child.Label())
	case child.parent != nil:
		return errors.Wrapf(ErrAlreadyAttached, "%s under %s", child.Label(), child.parent.Label())
	case n.inTraversal():
		return errors.Wrapf(ErrTraversing, "%s", n.Label())
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return errors.Wrapf(ErrCycle, "%s into %s", child.Label(), n.Label())
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

func (n *Node) inTraversal() bool {
	for p := n; p != nil; p = p.parent {
		if p.drawing {
			return true
		}
	}
	return false
}

// Draw renders the subtree rooted at n. Transform scoping is restored on
// every exit path, so siblings always see the parent's model matrix.
func (n *Node) Draw(st *RenderState) {
	if n.released {
		return
	}
	n.drawing = true
	defer func() { n.drawing = false }()

	switch p := n.payload.(type) {
	case nil:
	case *Transform:
		st.PushTransform()
		defer st.PopTransform()
		p.apply(st)
	case *Camera:
		p.apply(st)
	case *Presentation:
		p.apply(st)
	case *Light:
		p.apply(st)
	case *Geometry:
		p.draw(st)
	case *MultiTextureShader:
		p.apply(st)
	case *BumpMappingShader:
		p.apply(st)
	case *ParticleSystem:
		p.draw(st)
	default:
		panic(fmt.Sprintf("scene: unknown payload %T", p))
	}

	for _, c := range n.children {
		c.Draw(st)
	}
}

// Release frees every device object owned by the subtree, children first.
// Calling it again is a no-op.
func (n *Node) Release() {
	if n.released {
		return
	}
	for _, c := range n.children {
		c.Release()
	}
	if r, ok := n.payload.(interface{ release() }); ok {
		r.release()
	}
	n.released = true
}

// Traverse visits the subtree in pre-order.
func (n *Node) Traverse(visit func(*Node)) {
	visit(n)
	for _, c := range n.children {
		c.Traverse(visit)
	}
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}
