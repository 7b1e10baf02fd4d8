// Package reactive provides the synchronous reactive runtime that drives
// keyed lists.
//
// Dependencies are tracked automatically at runtime: reading a Signal while
// an Effect runs subscribes that effect, and the effect re-runs synchronously
// when the signal is written. Every effect belongs to an Owner, and owners
// form a tree. Disposing an owner disposes its effects, its child owners and
// its registered cleanups, and invalidates its arena Handle.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers synchronously)
//
// Effect runs side effects when dependencies change:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// Owner scopes ownership:
//
//	root := NewOwner(nil)
//	WithOwner(root, func() {
//	    CreateEffect(...)  // disposed with root
//	})
//	root.Dispose()
//
// # Batching
//
// Batch defers notifications until the outermost batch completes. Each
// listener is notified at most once per batch.
//
// # Threading
//
// Tracking state is kept per goroutine and an owner tree is expected to be
// driven from one goroutine at a time. Work that originates elsewhere should
// be funneled through a single task loop.
package reactive
