package reactive

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/keyed/internal/errors"
)

// Owner represents a scope that owns reactive primitives.
// When an Owner is disposed, all effects, signals, and child owners it
// contains are also disposed.
//
// Owners form a hierarchy. A keyed list creates one Owner per row, nested
// under the list's own Owner.
type Owner struct {
	id     uint64
	handle Handle

	// parent is the parent Owner in the hierarchy.
	// nil for a root Owner.
	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	effects   []*Effect
	effectsMu sync.Mutex

	// signals created under this owner; disposal drops their subscribers.
	signals   []*signalBase
	signalsMu sync.Mutex

	// cleanups are manual cleanup functions registered via OnCleanup.
	cleanups   []func()
	cleanupsMu sync.Mutex

	disposed atomic.Bool
}

// NewOwner creates a new Owner with the given parent.
// The new Owner is registered as a child of the parent.
// If parent is nil, creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	if parent != nil && parent.IsDisposed() {
		errors.Panic("E102", "owner %d is disposed and cannot take children", parent.id)
	}

	o := &Owner{
		id:     nextID(),
		parent: parent,
	}
	o.handle = scopes.insert(o)

	if parent != nil {
		parent.addChild(o)
	}

	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Handle returns the arena handle for this Owner.
func (o *Owner) Handle() Handle {
	return o.handle
}

// Parent returns the parent Owner, or nil if this is a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// Children returns a snapshot of the live child owners.
func (o *Owner) Children() []*Owner {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	return append([]*Owner(nil), o.children...)
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) registerEffect(e *Effect) {
	o.effectsMu.Lock()
	defer o.effectsMu.Unlock()
	o.effects = append(o.effects, e)
}

func (o *Owner) registerSignal(s *signalBase) {
	o.signalsMu.Lock()
	defer o.signalsMu.Unlock()
	o.signals = append(o.signals, s)
}

// OnCleanup registers a cleanup function to run when this Owner is disposed.
// On an already disposed Owner the function runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// Dispose disposes this Owner: its effects first, so no recomputation can
// fire mid-teardown, then its children (last created first), then its
// signals and cleanups (last registered first). The arena handle is
// invalidated before Dispose returns.
//
// Disposing an Owner twice is a programmer error and panics with E101.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		errors.Panic("E101", "owner %d (handle %s)", o.id, o.handle)
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.effectsMu.Lock()
	effects := o.effects
	o.effects = nil
	o.effectsMu.Unlock()

	for _, e := range effects {
		e.dispose()
	}

	o.childrenMu.Lock()
	children := o.children
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.signalsMu.Lock()
	signals := o.signals
	o.signals = nil
	o.signalsMu.Unlock()

	for _, s := range signals {
		s.dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	scopes.release(o.handle)
}

// Run runs fn with o as the current owner.
func (o *Owner) Run(fn func()) {
	WithOwner(o, fn)
}
