// Package glres provides ownership tracking for OpenGL object ids.
//
// OpenGL hands out plain uint32 ids with no ownership semantics, which
// makes it easy to delete the same buffer twice or leak one on
// reassignment. Handle wraps exactly one id and supports an explicit
// ownership transfer that zeroes the source, so a live id is only ever
// owned by one handle. Zero is the tombstone value ("no resource").
package glres

// Handle owns at most one OpenGL object id (buffer, vertex array or
// texture). The zero value is an empty handle.
type Handle struct {
	id uint32
}

// NewHandle wraps an id obtained from a gl.Gen* call.
func NewHandle(id uint32) Handle {
	return Handle{id: id}
}

// ID returns the wrapped id without affecting ownership.
// Returns 0 if the handle is empty.
func (h *Handle) ID() uint32 {
	return h.id
}

// Valid reports whether the handle owns a resource.
func (h *Handle) Valid() bool {
	return h.id != 0
}

// Set replaces the wrapped id. The caller is responsible for having
// released any previously owned resource.
func (h *Handle) Set(id uint32) {
	h.id = id
}

// Take transfers ownership out of the handle: it returns the wrapped id
// and resets the handle to empty. Calling Take on an empty handle
// returns 0.
func (h *Handle) Take() uint32 {
	id := h.id
	h.id = 0
	return id
}

// MoveFrom transfers ownership from src into h. Any id previously held
// by h is returned so the caller can delete it; src is left empty.
func (h *Handle) MoveFrom(src *Handle) (previous uint32) {
	previous = h.id
	h.id = src.Take()
	return previous
}

// Reset marks the handle empty without returning the id. Use after the
// underlying GL object has been deleted.
func (h *Handle) Reset() {
	h.id = 0
}
