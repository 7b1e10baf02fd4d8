// Package noderef exposes mounted output nodes to imperative code.
package noderef

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/keyed/internal/errors"
)

// Ref holds a reference to a rendered node.
//
// The rendering backend calls Set once, when the node it is attached to is
// mounted. Readers use TryGet, or Get when an unset reference is a bug.
// A row that is removed and recreated gets a fresh Ref; instances are never
// reused across scope lifetimes.
//
// Ref is safe for one writer and any number of concurrent readers.
type Ref[N any] struct {
	set   atomic.Bool
	mu    sync.RWMutex
	value N
}

// New creates an empty Ref.
func New[N any]() *Ref[N] {
	return &Ref[N]{}
}

// Set stores the mounted node. Setting a Ref twice panics with E202.
func (r *Ref[N]) Set(node N) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.set.Load() {
		errors.Panic("E202", "")
	}
	r.value = node
	r.set.Store(true)
}

// Get returns the node, panicking with E201 if it has not been mounted.
func (r *Ref[N]) Get() N {
	node, ok := r.TryGet()
	if !ok {
		errors.Panic("E201", "")
	}
	return node
}

// TryGet returns the node and true, or the zero value and false when unset.
func (r *Ref[N]) TryGet() (N, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.set.Load() {
		var zero N
		return zero, false
	}
	return r.value, true
}

// IsSet reports whether the node has been mounted.
func (r *Ref[N]) IsSet() bool {
	return r.set.Load()
}

// String implements fmt.Stringer.
func (r *Ref[N]) String() string {
	if node, ok := r.TryGet(); ok {
		return fmt.Sprintf("Ref(%v)", node)
	}
	return "Ref(<unset>)"
}
