package scene

import "github.com/pkg/errors"

// Setup errors. Construction code is expected to abort on any of them.
var (
	ErrSlotNotFound       = errors.New("required binding slot not found")
	ErrInvalidTextureUnit = errors.New("invalid texture unit")
	ErrEmptyImage         = errors.New("empty image payload")
	ErrInvalidLight       = errors.New("light index out of range")
	ErrNotReady           = errors.New("node locations not resolved")
)

// Tree construction errors.
var (
	ErrAlreadyAttached = errors.New("node already has a parent")
	ErrCycle           = errors.New("attaching node would create a cycle")
	ErrTraversing      = errors.New("cannot attach while the tree is being drawn")
	ErrReleased        = errors.New("node has been released")
)
