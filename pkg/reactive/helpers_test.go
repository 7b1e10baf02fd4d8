package reactive

import (
	"sync"

	"github.com/vango-dev/keyed/internal/errors"
)

// testListener records MarkDirty calls.
type testListener struct {
	id    uint64
	mu    sync.Mutex
	dirty int
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	l.dirty++
	l.mu.Unlock()
}

func (l *testListener) ID() uint64 { return l.id }

func (l *testListener) getDirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

// recoverCode runs fn and returns the code of the *errors.Error it panicked with.
func recoverCode(fn func()) (code string) {
	defer func() {
		if e, ok := recover().(*errors.Error); ok {
			code = e.Code
		}
	}()
	fn()
	return ""
}
