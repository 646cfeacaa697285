package device

// Handle owns one device object and releases it exactly once. A zero Handle
// owns nothing. Handles are moved, not copied: use Take to transfer ownership.
type Handle[T ~uint32] struct {
	id      T
	release func(T)
}

// Own wraps id so that release is called for it on the first Release.
func Own[T ~uint32](id T, release func(T)) Handle[T] {
	return Handle[T]{id: id, release: release}
}

// ID returns the owned object name, or zero once released.
func (h *Handle[T]) ID() T { return h.id }

// Live reports whether the handle still owns an object.
func (h *Handle[T]) Live() bool { return h.id != 0 }

// Release frees the object. Further calls are no-ops.
func (h *Handle[T]) Release() {
	if h.id == 0 {
		return
	}
	id := h.id
	h.id = 0
	if h.release != nil {
		h.release(id)
	}
}

// Take moves ownership out of h, leaving h empty.
func (h *Handle[T]) Take() Handle[T] {
	out := *h
	*h = Handle[T]{}
	return out
}
