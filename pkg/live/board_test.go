package live

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/keyed/internal/errors"
	"github.com/vango-dev/keyed/pkg/keyed"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestBoard(t *testing.T, seed ...string) *Board {
	t.Helper()
	b := NewBoard(BoardConfig{Seed: seed, ShuffleSeed: 1, Logger: quiet})
	t.Cleanup(b.Close)
	return b
}

func labels(t *testing.T, b *Board) string {
	t.Helper()
	items, err := b.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return strings.Join(out, ",")
}

func TestBoardInitialFrame(t *testing.T) {
	b := newTestBoard(t, "a", "b")

	f := b.Frame()
	if f.Seq != 1 || f.Path != "create_all" {
		t.Errorf("frame = %+v", f)
	}
	want := `<ul id="board"><li data-key="r1">a</li><li data-key="r2">b</li><!----></ul>`
	if f.HTML != want {
		t.Errorf("HTML = %q, want %q", f.HTML, want)
	}
}

func TestBoardOperations(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t, "a", "b", "c")

	steps := []struct {
		name string
		op   func() error
		want string
	}{
		{"append", func() error { _, err := b.Append(ctx, Item{Label: "d"}); return err }, "a,b,c,d"},
		{"prepend", func() error { _, err := b.Prepend(ctx, Item{ID: "z", Label: "z"}); return err }, "z,a,b,c,d"},
		{"remove", func() error { return b.Remove(ctx, "r2") }, "z,a,c,d"},
		{"move", func() error { return b.Move(ctx, "z", 99) }, "a,c,d,z"},
		{"swap", func() error { return b.Swap(ctx, 0, 3) }, "z,c,d,a"},
		{"reverse", func() error { return b.Reverse(ctx) }, "a,d,c,z"},
		{"rename", func() error { return b.Rename(ctx, "r3", "C") }, "a,d,C,z"},
		{"clear", func() error { return b.Clear(ctx) }, ""},
	}

	for _, s := range steps {
		if err := s.op(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if got := labels(t, b); got != s.want {
			t.Fatalf("%s: labels = %q, want %q", s.name, got, s.want)
		}
	}

	if got := b.HTML(); got != `<ul id="board"><!----></ul>` {
		t.Errorf("HTML after clear = %q", got)
	}
}

func TestBoardRenderedOrderMatchesSnapshot(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t, "a", "b", "c", "d", "e", "f")

	for i := 0; i < 10; i++ {
		if err := b.Shuffle(ctx); err != nil {
			t.Fatal(err)
		}
		var want strings.Builder
		want.WriteString(`<ul id="board">`)
		items, _ := b.Snapshot(ctx)
		for _, it := range items {
			want.WriteString(`<li data-key="` + it.ID + `">` + it.Label + `</li>`)
		}
		want.WriteString(`<!----></ul>`)

		if b.HTML() != want.String() {
			t.Fatalf("HTML = %q, want %q", b.HTML(), want.String())
		}
	}
}

func TestBoardSwapMovesTwoRows(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t, "1", "2", "3", "4", "5")

	if err := b.Swap(ctx, 1, 3); err != nil {
		t.Fatal(err)
	}

	s, err := b.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.Last.Path != keyed.PathGeneral || s.Last.Moved != 2 || s.Last.Created != 0 {
		t.Errorf("last pass = %+v", s.Last)
	}
	if s.Rows != 5 || s.Passes != 2 {
		t.Errorf("stats = %+v", s)
	}
	ops, err := b.Ops(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ops.Moves != 2 || ops.Removes != 0 {
		t.Errorf("ops = %+v", ops)
	}
}

func TestBoardRenameDoesNotReconcile(t *testing.T) {
	ctx := context.Background()
	var frames []Frame
	b := NewBoard(BoardConfig{
		Seed:     []string{"a"},
		Logger:   quiet,
		OnRender: func(f Frame) { frames = append(frames, f) },
	})
	defer b.Close()

	if err := b.Rename(ctx, "r1", "b"); err != nil {
		t.Fatal(err)
	}
	s, _ := b.Stats(ctx)
	if s.Passes != 1 {
		t.Errorf("passes = %d, want 1", s.Passes)
	}

	// OnRender runs on the board goroutine; Stats above synchronizes.
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(frames))
	}
	if frames[1].Path != "" || !strings.Contains(frames[1].HTML, ">b</li>") {
		t.Errorf("rename frame = %+v", frames[1])
	}
}

func TestBoardErrors(t *testing.T) {
	ctx := context.Background()
	b := NewBoard(BoardConfig{Seed: []string{"a"}, MaxRows: 2, Logger: quiet})
	defer b.Close()

	tests := []struct {
		name string
		op   func() error
		code string
	}{
		{"remove missing", func() error { return b.Remove(ctx, "nope") }, "E402"},
		{"rename missing", func() error { return b.Rename(ctx, "nope", "x") }, "E402"},
		{"move missing", func() error { return b.Move(ctx, "nope", 0) }, "E402"},
		{"swap out of range", func() error { return b.Swap(ctx, 0, 5) }, "E402"},
		{"duplicate id", func() error { _, err := b.Append(ctx, Item{ID: "r1"}); return err }, "E403"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.HasCode(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := b.Append(ctx, Item{Label: "b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Append(ctx, Item{Label: "c"}); !errors.HasCode(err, "E404") {
		t.Errorf("full board: got %v, want E404", err)
	}
}

func TestBoardClosed(t *testing.T) {
	b := NewBoard(BoardConfig{Seed: []string{"a"}, Logger: quiet})
	b.Close()
	b.Close()

	if _, err := b.Append(context.Background(), Item{Label: "x"}); !errors.HasCode(err, "E401") {
		t.Errorf("got %v, want E401", err)
	}
}

func TestBoardFailedInitialRender(t *testing.T) {
	var logs strings.Builder
	b := NewBoard(BoardConfig{
		Seed:    []string{"a", "b", "c"},
		MaxRows: 2,
		Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
	})
	defer b.Close()

	if !strings.Contains(logs.String(), "initial render failed") || !strings.Contains(logs.String(), "E404") {
		t.Errorf("failure not logged:\n%s", logs.String())
	}
	if _, err := b.Snapshot(context.Background()); !errors.HasCode(err, "E401") {
		t.Errorf("Snapshot: got %v, want E401", err)
	}
	if f := b.Frame(); f.Seq != 0 {
		t.Errorf("frame = %+v, want none", f)
	}
}

func TestBoardConcurrentSubmitters(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := b.Append(ctx, Item{Label: "x"}); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	s, err := b.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.Rows != 80 || s.Totals.Created != 80 {
		t.Errorf("stats = %+v", s)
	}
}

func TestBoardContextCancelled(t *testing.T) {
	b := newTestBoard(t, "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either the task was queued before cancellation was observed or it
	// was rejected; a cancelled context must never block.
	if _, err := b.Snapshot(ctx); err != nil && err != context.Canceled {
		t.Errorf("got %v", err)
	}
}
