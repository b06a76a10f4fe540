package box

import (
	"sync"

	"go.uber.org/zap"
)

// Handle is an opaque reference to a box in a registry.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Dropper is optionally implemented by boxed values that need cleanup when
// their box is removed from a registry.
type Dropper interface {
	Drop()
}

// Registry stores boxes under integer handles for runtimes whose stack can
// only carry numeric slots. The runtime holds handles; the bridge resolves
// them back to boxes. Thread-safe.
type Registry struct {
	mu     sync.RWMutex
	boxes  map[Handle]*Box
	next   Handle
	closed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		boxes: make(map[Handle]*Box),
	}
}

// Insert stores a box and returns its handle. Returns 0 if the registry is
// closed.
func (r *Registry) Insert(b *Box) Handle {
	if b == nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0
	}

	r.next++
	h := r.next
	r.boxes[h] = b

	Logger().Debug("box inserted",
		zap.Uint32("handle", uint32(h)),
		zap.String("type", b.Type().String()),
		zap.Bool("ref", b.IsRef()))
	return h
}

// Get retrieves a box by handle.
func (r *Registry) Get(h Handle) (*Box, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.boxes[h]
	return b, ok
}

// Remove drops a box and returns (box, true) if found. A boxed value
// implementing Dropper has its Drop method called.
func (r *Registry) Remove(h Handle) (*Box, bool) {
	r.mu.Lock()
	b, ok := r.boxes[h]
	if ok {
		delete(r.boxes, h)
	}
	r.mu.Unlock()

	if !ok {
		return nil, false
	}
	if d, ok := b.Interface().(Dropper); ok {
		d.Drop()
	}

	Logger().Debug("box removed", zap.Uint32("handle", uint32(h)))
	return b, true
}

// Len returns the number of stored boxes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.boxes)
}

// Clear drops all boxes.
func (r *Registry) Clear() {
	r.mu.Lock()
	handles := make([]Handle, 0, len(r.boxes))
	for h := range r.boxes {
		handles = append(handles, h)
	}
	r.mu.Unlock()

	for _, h := range handles {
		r.Remove(h)
	}
}

// Close drops all boxes and stops accepting inserts.
func (r *Registry) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.Clear()
	return nil
}
