package scene

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegraph-engine/device/devicetest"
	"scenegraph-engine/mesh"
)

func TestAddChildRejectsSecondParent(t *testing.T) {
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	require.NoError(t, a.AddChild(c))
	assert.ErrorIs(t, b.AddChild(c), ErrAlreadyAttached)
	assert.Equal(t, a, c.Parent())
}

func TestAddChildRejectsCycles(t *testing.T) {
	root := NewGroup("root")
	tr := NewTransform("t")
	require.NoError(t, root.AddChild(tr))

	assert.ErrorIs(t, tr.AddChild(root), ErrCycle)
	assert.ErrorIs(t, root.AddChild(root), ErrCycle)
}

func TestAddChildRejectedDuringDraw(t *testing.T) {
	root := NewGroup("root")
	child := NewGroup("child")
	require.NoError(t, root.AddChild(child))

	root.drawing = true
	assert.ErrorIs(t, child.AddChild(NewGroup("late")), ErrTraversing)
	root.drawing = false
	assert.NoError(t, child.AddChild(NewGroup("late")))
}

func TestChildrenKeepInsertionOrder(t *testing.T) {
	root := NewGroup("root")
	for _, name := range []string{"x", "y", "z"} {
		require.NoError(t, root.AddChild(NewGroup(name)))
	}
	var names []string
	root.Traverse(func(n *Node) { names = append(names, n.Name) })
	assert.Equal(t, []string{"root", "x", "y", "z"}, names)
	assert.Equal(t, "y", root.Find("y").Name)
	assert.Nil(t, root.Find("w"))
}

func TestKindTags(t *testing.T) {
	rec := devicetest.NewRecorder()
	light, err := NewLight(rec, "", 0)
	require.NoError(t, err)

	assert.Equal(t, KindGroup, NewGroup("").Kind())
	assert.Equal(t, KindTransform, NewTransform("").Kind())
	assert.Equal(t, KindCamera, NewCamera("").Kind())
	assert.Equal(t, KindLight, light.Kind())
	assert.Equal(t, KindPresentation, NewPresentation(rec, "", DefaultMaterial()).Kind())
	assert.Equal(t, KindShader, newBump(t, rec, 100).Kind())
	assert.Equal(t, "geometry", KindGeometry.String())
	assert.Contains(t, NewGroup("").Label(), "group-")
}

func TestReleaseFreesEachObjectOnce(t *testing.T) {
	rec := devicetest.NewRecorder()
	root := NewGroup("root")
	shader := newMultiTexture(t, rec, 100)
	require.NoError(t, shader.BindTexture(1, pix(2, 2, 3)))
	geom := NewGeometry(rec, "", mesh.Plane(1, 1, 1), shader.Slots())
	swarm := newParticles(t, rec, 200, DefaultParticleConfig(), 5)
	pres := NewPresentation(rec, "", DefaultMaterial())
	require.NoError(t, pres.LoadTexture(pix(1, 1, 4), false))

	require.NoError(t, root.AddChild(shader))
	require.NoError(t, shader.AddChild(pres))
	require.NoError(t, pres.AddChild(geom))
	require.NoError(t, shader.AddChild(swarm))
	require.NotZero(t, rec.Live())

	var ids []uint32
	for _, c := range rec.Calls {
		if strings.HasPrefix(c.Op, "Create") {
			ids = append(ids, c.ID)
		}
	}

	root.Release()
	root.Release()
	assert.Equal(t, 0, rec.Live())
	for _, id := range ids {
		assert.Equal(t, 1, rec.DeleteCount(id), "object %d", id)
	}

	rec.Reset()
	root.Draw(NewRenderState())
	assert.Empty(t, rec.Calls, "released trees draw nothing")
	assert.ErrorIs(t, root.AddChild(NewGroup("")), ErrReleased)
}

func TestTransformStackBalanced(t *testing.T) {
	rec := devicetest.NewRecorder()
	shader := newMultiTexture(t, rec, 100)
	plane := mesh.Plane(1, 1, 1)

	outer := NewTransform("outer")
	outer.Translate(1, 0, 0)
	inner := NewTransform("inner")
	inner.Scale(2, 2, 2)
	deep := NewGeometry(rec, "deep", plane, shader.Slots())
	after := NewGeometry(rec, "after", plane, shader.Slots())

	require.NoError(t, shader.AddChild(outer))
	require.NoError(t, outer.AddChild(inner))
	require.NoError(t, inner.AddChild(deep))
	require.NoError(t, shader.AddChild(after))

	st := NewRenderState()
	rec.Reset()
	shader.Draw(st)
	assert.Equal(t, 0, st.StackDepth())
	assert.Equal(t, mgl32.Ident4(), st.ModelMatrix)

	model := shader.Slots().Model
	var models []mgl32.Mat4
	for _, c := range rec.Filter("UniformMatrix4") {
		if c.Loc == model {
			models = append(models, c.Args[0].(mgl32.Mat4))
		}
	}
	require.Len(t, models, 2)
	want := mgl32.Translate3D(1, 0, 0).Mul4(mgl32.Scale3D(2, 2, 2))
	assert.InDeltaSlice(t, want[:], models[0][:], 1e-6)
	assert.Equal(t, mgl32.Ident4(), models[1], "sibling after a transformed subtree sees the parent matrix")
}

func TestPopWithoutPushIsNoop(t *testing.T) {
	st := NewRenderState()
	st.ModelMatrix = mgl32.Translate3D(1, 2, 3)
	st.PopTransform()
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), st.ModelMatrix)

	st.PushTransform()
	st.ModelMatrix = mgl32.Ident4()
	st.PopTransform()
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), st.ModelMatrix)
	assert.Equal(t, 0, st.StackDepth())
}
