package reactive

import (
	"fmt"
	"sync"

	"github.com/vango-dev/keyed/internal/errors"
)

// Handle is a generation-tagged reference to an Owner.
//
// A Handle stays valid until its owner is disposed. Disposal bumps the slot
// generation, so stale handles fail Resolve instead of reaching a dead scope.
// The zero Handle never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// String returns the handle as "index:generation".
func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.index, h.gen)
}

type arenaSlot struct {
	owner *Owner
	gen   uint32
}

// arena stores every live Owner in a slot table with a free list.
type arena struct {
	mu    sync.Mutex
	slots []arenaSlot
	free  []uint32
	live  int
}

var scopes = &arena{}

func (a *arena) insert(o *Owner) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.live++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.owner = o
		return Handle{index: idx, gen: s.gen}
	}

	a.slots = append(a.slots, arenaSlot{owner: o, gen: 1})
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena) release(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if int(h.index) >= len(a.slots) {
		return
	}
	s := &a.slots[h.index]
	if s.gen != h.gen || s.owner == nil {
		return
	}
	s.owner = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.live--
}

func (a *arena) resolve(h Handle) (*Owner, bool) {
	if h.IsZero() {
		return nil, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[h.index]
	if s.gen != h.gen || s.owner == nil {
		return nil, false
	}
	return s.owner, true
}

// Resolve returns the live owner referenced by h.
// It returns false once that owner has been disposed.
func Resolve(h Handle) (*Owner, bool) {
	return scopes.resolve(h)
}

// MustResolve is like Resolve but panics with E102 on a stale handle.
func MustResolve(h Handle) *Owner {
	o, ok := scopes.resolve(h)
	if !ok {
		errors.Panic("E102", "handle %s", h)
	}
	return o
}

// LiveScopes returns the number of owners that have not been disposed.
func LiveScopes() int {
	scopes.mu.Lock()
	defer scopes.mu.Unlock()
	return scopes.live
}
