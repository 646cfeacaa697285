package mesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
o quad
f 1/1 2/2 3/3 4/4
g tri
f -4/-4 -3/-3 -2/-2
`

func TestParseOBJ(t *testing.T) {
	meshes, err := ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)
	require.Len(t, meshes, 2)

	quad := meshes[0]
	assert.Equal(t, "quad", quad.Name)
	assert.Len(t, quad.Vertices, 4, "shared corners are deduplicated")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, quad.Indices)
	up, right := mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}
	for _, v := range quad.Vertices {
		assert.InDeltaSlice(t, up[:], v.Normal[:], 1e-5, "generated normal")
		assert.InDeltaSlice(t, right[:], v.Tangent[:], 1e-5, "tangent")
	}

	tri := meshes[1]
	assert.Equal(t, "tri", tri.Name)
	assert.Len(t, tri.Indices, 3)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, tri.Vertices[0].Position)
}

func TestParseOBJWithNormals(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 -1\nf 1//1 2//1 3//1\n"
	meshes, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, "default", meshes[0].Name)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, meshes[0].Vertices[0].Normal, "file normals are kept")
}

func TestParseOBJErrors(t *testing.T) {
	for name, src := range map[string]string{
		"empty":       "# nothing\n",
		"bad float":   "v 0 x 0\n",
		"short face":  "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"range":       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n",
		"zero index":  "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"no position": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3\n",
	} {
		_, err := ParseOBJ(strings.NewReader(src))
		assert.Error(t, err, name)
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.OBJ")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	meshes, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, meshes, 2)

	_, err = Load(filepath.Join(dir, "model.fbx"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(dir, "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
