package reactive

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/keyed/internal/errors"
)

// Effect is a reactive side effect that re-runs when its dependencies change.
//
// Effects run immediately when created and re-run synchronously whenever a
// signal read during the previous run is written. A write that dirties the
// effect while it is already running is queued and replayed once the current
// run returns, so runs never overlap.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*signalBase
	sourcesMu sync.Mutex

	owner *Owner

	running  bool
	pending  atomic.Bool
	disposed atomic.Bool
	runs     atomic.Uint64
}

// MarkDirty re-runs the effect, or queues a re-run when it is already running.
// Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.running {
		e.pending.Store(true)
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() uint64 {
	return e.runs.Load()
}

// IsDisposed reports whether the effect has been disposed.
func (e *Effect) IsDisposed() bool {
	return e.disposed.Load()
}

func (e *Effect) run() {
	e.running = true
	defer func() { e.running = false }()

	for {
		e.pending.Store(false)
		e.runOnce()
		if !e.pending.Load() || e.disposed.Load() {
			return
		}
	}
}

func (e *Effect) runOnce() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := setCurrentListener(e)
	defer setCurrentListener(old)

	e.runs.Add(1)
	e.cleanup = e.fn()
}

func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// dispose runs the last cleanup and unsubscribes from all sources.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// CreateEffect creates and runs a new effect within the current owner.
// Creating an effect under a disposed owner panics with E103.
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { fmt.Println("Cleanup") }
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	owner := CurrentOwner()
	if owner != nil && owner.IsDisposed() {
		errors.Panic("E103", "owner %d", owner.ID())
	}

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}

	if owner != nil {
		owner.registerEffect(e)
	}

	e.run()

	return e
}

// OnCleanup registers fn on the current owner. Without an owner it is a no-op.
func OnCleanup(fn func()) {
	if owner := CurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
