package device_test

import (
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegraph-engine/device"
	"scenegraph-engine/device/devicetest"
)

func TestHandleReleasesOnce(t *testing.T) {
	calls := 0
	h := device.Own(device.Buffer(7), func(device.Buffer) { calls++ })
	assert.True(t, h.Live())

	h.Release()
	h.Release()
	assert.Equal(t, 1, calls)
	assert.False(t, h.Live())
	assert.Equal(t, device.Buffer(0), h.ID())
}

func TestHandleTakeMovesOwnership(t *testing.T) {
	calls := 0
	h := device.Own(device.Texture(3), func(device.Texture) { calls++ })
	moved := h.Take()

	h.Release()
	assert.Equal(t, 0, calls, "the emptied handle must not release")
	assert.Equal(t, device.Texture(3), moved.ID())

	moved.Release()
	assert.Equal(t, 1, calls)
}

func TestLocationValid(t *testing.T) {
	assert.False(t, device.NotFound.Valid())
	assert.True(t, device.Location(0).Valid())
}

func TestLoadProgram(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert": {Data: []byte("vertex")},
		"a.frag": {Data: []byte("fragment")},
	}
	rec := devicetest.NewRecorder()

	h, err := device.LoadProgram(rec, fsys, "a.vert", "a.frag")
	require.NoError(t, err)
	assert.True(t, h.Live())
	id := uint32(h.ID())

	h.Release()
	h.Release()
	assert.Equal(t, 1, rec.DeleteCount(id))
	assert.Equal(t, 0, rec.Live())
}

func TestLoadProgramErrors(t *testing.T) {
	rec := devicetest.NewRecorder()

	_, err := device.LoadProgram(rec, fstest.MapFS{}, "missing.vert", "missing.frag")
	assert.Error(t, err)

	rec.LinkErr = errors.New("syntax error")
	fsys := fstest.MapFS{
		"a.vert": {Data: []byte("v")},
		"a.frag": {Data: []byte("f")},
	}
	_, err = device.LoadProgram(rec, fsys, "a.vert", "a.frag")
	assert.ErrorIs(t, err, device.ErrLinkFailed)
}
