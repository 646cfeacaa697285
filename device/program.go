package device

import (
	"io/fs"

	"github.com/pkg/errors"
)

// ErrLinkFailed is returned when a program fails to compile or link.
var ErrLinkFailed = errors.New("program link failed")

// LoadProgram reads a vertex and fragment source from fsys and links them
// into a program owned by the returned handle.
func LoadProgram(dev Device, fsys fs.FS, vertexName, fragmentName string) (Handle[Program], error) {
	vs, err := fs.ReadFile(fsys, vertexName)
	if err != nil {
		return Handle[Program]{}, errors.Wrapf(err, "read vertex shader %q", vertexName)
	}
	fsrc, err := fs.ReadFile(fsys, fragmentName)
	if err != nil {
		return Handle[Program]{}, errors.Wrapf(err, "read fragment shader %q", fragmentName)
	}

	p, err := dev.CreateProgram(string(vs), string(fsrc))
	if err != nil {
		return Handle[Program]{}, errors.Wrapf(err, "program %s + %s", vertexName, fragmentName)
	}
	return Own(p, dev.DeleteProgram), nil
}
