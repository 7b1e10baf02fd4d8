package noderef

import (
	"sync"
	"testing"

	"github.com/vango-dev/keyed/internal/errors"
)

func panicCode(fn func()) (code string) {
	defer func() {
		if e, ok := recover().(*errors.Error); ok {
			code = e.Code
		}
	}()
	fn()
	return ""
}

func TestRefUnset(t *testing.T) {
	r := New[string]()

	if r.IsSet() {
		t.Error("new ref should be unset")
	}
	if v, ok := r.TryGet(); ok || v != "" {
		t.Errorf("TryGet() = %q, %v; want empty, false", v, ok)
	}
	if code := panicCode(func() { r.Get() }); code != "E201" {
		t.Errorf("Get panic code = %q, want E201", code)
	}
	if r.String() != "Ref(<unset>)" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestRefSet(t *testing.T) {
	r := New[string]()
	r.Set("li")

	if !r.IsSet() {
		t.Error("ref should be set")
	}
	if r.Get() != "li" {
		t.Errorf("Get() = %q, want li", r.Get())
	}
	if v, ok := r.TryGet(); !ok || v != "li" {
		t.Errorf("TryGet() = %q, %v", v, ok)
	}
}

func TestRefSetTwicePanics(t *testing.T) {
	r := New[int]()
	r.Set(1)

	if code := panicCode(func() { r.Set(2) }); code != "E202" {
		t.Errorf("second Set panic code = %q, want E202", code)
	}
	if r.Get() != 1 {
		t.Error("failed second Set must not overwrite the node")
	}
}

func TestRefConcurrentReaders(t *testing.T) {
	r := New[*int]()
	n := 42

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if v, ok := r.TryGet(); ok && *v != 42 {
					t.Errorf("read %d, want 42", *v)
				}
			}
		}()
	}
	r.Set(&n)
	wg.Wait()
}
