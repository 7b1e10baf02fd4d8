package live

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/keyed/internal/errors"
	"github.com/vango-dev/keyed/pkg/dom"
	"github.com/vango-dev/keyed/pkg/keyed"
	"github.com/vango-dev/keyed/pkg/reactive"
)

// Item is a row as seen from outside the board.
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Frame is one published rendering of the board. Path and Stats describe
// the pass that produced it; both are empty when the mutation changed only
// row content.
type Frame struct {
	Seq   uint64          `json:"seq"`
	HTML  string          `json:"html"`
	Path  string          `json:"path,omitempty"`
	Stats keyed.PassStats `json:"stats"`
}

// Stats summarizes the board's list.
type Stats struct {
	Rows   int             `json:"rows"`
	Passes uint64          `json:"passes"`
	Last   keyed.PassStats `json:"last"`
	Totals keyed.PassStats `json:"totals"`
}

// BoardConfig configures a Board.
type BoardConfig struct {
	// Name labels the board in logs.
	Name string

	// Seed lists the labels of the initial rows.
	Seed []string

	// MaxRows caps the number of rows (default: 1000).
	MaxRows int

	// ShuffleSeed seeds Shuffle. Zero picks a random seed.
	ShuffleSeed uint64

	// QueueSize bounds pending tasks (default: 64).
	QueueSize int

	// Logger receives board and list diagnostics (default: slog.Default()).
	Logger *slog.Logger

	// Observer is installed on the board's list.
	Observer keyed.Observer

	// OnRender is called on the board goroutine after every mutation.
	OnRender func(Frame)
}

// row is the board's item type. The label is reactive so a rename updates
// the rendered text without a reconciliation pass.
type row struct {
	id    string
	label *reactive.Signal[string]
}

type task struct {
	fn     func() error
	render bool
	result chan error
}

// Board is a keyed list driven from a single goroutine.
type Board struct {
	config BoardConfig
	logger *slog.Logger

	tasks   chan task
	done    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
	once    sync.Once

	frame atomic.Pointer[Frame]

	// Owned by the board goroutine.
	owner  *reactive.Owner
	doc    *dom.Document
	items  *reactive.Signal[[]*row]
	list   *keyed.List[*row, string, *dom.Node]
	root   *dom.Node
	rng    *rand.Rand
	nextID int
	seq    uint64
	passes uint64
}

// NewBoard starts a board and waits for its initial render. A board whose
// initial render fails is closed; every operation on it returns E401.
func NewBoard(config BoardConfig) *Board {
	if config.Name == "" {
		config.Name = "board"
	}
	if config.MaxRows <= 0 {
		config.MaxRows = 1000
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	b := &Board{
		config:  config,
		logger:  config.Logger.With("component", "board", "board", config.Name),
		tasks:   make(chan task, config.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	go b.run()
	if err := b.submit(context.Background(), true, b.init); err != nil {
		b.logger.Error("initial render failed", "error", err)
		b.Close()
	}

	return b
}

// run is the board's task loop. Reactive state is only touched here.
func (b *Board) run() {
	defer close(b.stopped)
	defer reactive.ReleaseGoroutine()

	for {
		select {
		case t := <-b.tasks:
			err := t.fn()
			if err == nil && t.render {
				b.publish()
			}
			t.result <- err
		case <-b.done:
			if b.owner != nil {
				b.owner.Dispose()
			}
			b.logger.Info("board closed", "frames", b.seq)
			return
		}
	}
}

func (b *Board) init() error {
	seed := b.config.ShuffleSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	b.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	b.doc = dom.NewDocument()
	b.owner = reactive.NewOwner(nil)

	if len(b.config.Seed) > b.config.MaxRows {
		return errors.New("E404").
			WithDetailf("%d seed rows exceed the limit of %d", len(b.config.Seed), b.config.MaxRows)
	}

	initial := make([]*row, 0, len(b.config.Seed))
	for _, label := range b.config.Seed {
		initial = append(initial, b.newRow("", label))
	}
	b.items = reactive.NewSignal(initial).WithEquals(func(a, c []*row) bool {
		return slices.Equal(a, c)
	})

	opts := []keyed.Option{keyed.WithLogger(b.logger)}
	if b.config.Observer != nil {
		opts = append(opts, keyed.WithObserver(b.config.Observer))
	}

	b.owner.Run(func() {
		b.list = keyed.New(b.doc, keyed.Props[*row, string, *dom.Node]{
			Iterable: b.items,
			View:     renderRow,
			Key:      func(r *row) string { return r.id },
		}, opts...)
	})
	b.root = dom.El("ul", dom.Attr("id", "board"), b.list)

	return nil
}

func renderRow(_ *reactive.Owner, r *row) keyed.View[*dom.Node] {
	return dom.El("li",
		dom.Attr("data-key", r.id),
		dom.DynText(r.label.Get),
	)
}

func (b *Board) newRow(id, label string) *row {
	if id == "" {
		b.nextID++
		id = "r" + strconv.Itoa(b.nextID)
	}
	return &row{id: id, label: reactive.NewSignal(label)}
}

// publish renders the board and hands the frame to OnRender.
func (b *Board) publish() {
	b.seq++
	f := &Frame{Seq: b.seq, HTML: b.root.HTML()}
	if passes := b.list.Passes(); passes != b.passes {
		b.passes = passes
		f.Stats = b.list.LastPass()
		f.Path = f.Stats.Path.String()
	}
	b.frame.Store(f)

	if b.config.OnRender != nil {
		b.config.OnRender(*f)
	}
}

// submit runs fn on the board goroutine and waits for its result.
func (b *Board) submit(ctx context.Context, render bool, fn func() error) error {
	if b.closed.Load() {
		return errors.New("E401")
	}

	t := task{fn: fn, render: render, result: make(chan error, 1)}
	select {
	case b.tasks <- t:
	case <-b.stopped:
		return errors.New("E401")
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.result:
		return err
	case <-b.stopped:
		return errors.New("E401")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// update replaces the item sequence inside a task.
func (b *Board) update(fn func(rows []*row) ([]*row, error)) func() error {
	return func() error {
		next, err := fn(slices.Clone(b.items.Peek()))
		if err != nil {
			return err
		}
		b.items.Set(next)
		return nil
	}
}

func (b *Board) indexOf(rows []*row, id string) int {
	return slices.IndexFunc(rows, func(r *row) bool { return r.id == id })
}

func (b *Board) checkInsert(rows []*row, id string) error {
	if len(rows) >= b.config.MaxRows {
		return errors.New("E404").WithDetailf("max rows is %d", b.config.MaxRows)
	}
	if id != "" && b.indexOf(rows, id) >= 0 {
		return errors.New("E403").WithDetailf("id %q", id)
	}
	return nil
}

// Append adds a row at the end. An empty ID is generated.
func (b *Board) Append(ctx context.Context, item Item) (Item, error) {
	return b.insert(ctx, item, false)
}

// Prepend adds a row at the start. An empty ID is generated.
func (b *Board) Prepend(ctx context.Context, item Item) (Item, error) {
	return b.insert(ctx, item, true)
}

func (b *Board) insert(ctx context.Context, item Item, front bool) (Item, error) {
	err := b.submit(ctx, true, b.update(func(rows []*row) ([]*row, error) {
		if err := b.checkInsert(rows, item.ID); err != nil {
			return nil, err
		}
		r := b.newRow(item.ID, item.Label)
		item.ID = r.id
		if front {
			return slices.Insert(rows, 0, r), nil
		}
		return append(rows, r), nil
	}))
	return item, err
}

// Remove deletes the row with id.
func (b *Board) Remove(ctx context.Context, id string) error {
	return b.submit(ctx, true, b.update(func(rows []*row) ([]*row, error) {
		i := b.indexOf(rows, id)
		if i < 0 {
			return nil, errors.New("E402").WithDetailf("id %q", id)
		}
		return slices.Delete(rows, i, i+1), nil
	}))
}

// Move places the row with id at position to, clamped to the board.
func (b *Board) Move(ctx context.Context, id string, to int) error {
	return b.submit(ctx, true, b.update(func(rows []*row) ([]*row, error) {
		i := b.indexOf(rows, id)
		if i < 0 {
			return nil, errors.New("E402").WithDetailf("id %q", id)
		}
		r := rows[i]
		rows = slices.Delete(rows, i, i+1)
		to = max(0, min(to, len(rows)))
		return slices.Insert(rows, to, r), nil
	}))
}

// Swap exchanges the rows at positions i and j.
func (b *Board) Swap(ctx context.Context, i, j int) error {
	return b.submit(ctx, true, b.update(func(rows []*row) ([]*row, error) {
		if i < 0 || j < 0 || i >= len(rows) || j >= len(rows) {
			return nil, errors.New("E402").WithDetailf("positions %d and %d on %d rows", i, j, len(rows))
		}
		rows[i], rows[j] = rows[j], rows[i]
		return rows, nil
	}))
}

// Reverse reverses the row order.
func (b *Board) Reverse(ctx context.Context) error {
	return b.submit(ctx, true, b.update(func(rows []*row) ([]*row, error) {
		slices.Reverse(rows)
		return rows, nil
	}))
}

// Shuffle permutes the rows.
func (b *Board) Shuffle(ctx context.Context) error {
	return b.submit(ctx, true, b.update(func(rows []*row) ([]*row, error) {
		b.rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		return rows, nil
	}))
}

// Clear removes every row.
func (b *Board) Clear(ctx context.Context) error {
	return b.submit(ctx, true, b.update(func([]*row) ([]*row, error) {
		return nil, nil
	}))
}

// Rename changes a row's label in place. The row keeps its nodes and scope.
func (b *Board) Rename(ctx context.Context, id, label string) error {
	return b.submit(ctx, true, func() error {
		rows := b.items.Peek()
		i := b.indexOf(rows, id)
		if i < 0 {
			return errors.New("E402").WithDetailf("id %q", id)
		}
		rows[i].label.Set(label)
		return nil
	})
}

// Snapshot returns the rows in rendered order.
func (b *Board) Snapshot(ctx context.Context) ([]Item, error) {
	var out []Item
	err := b.submit(ctx, false, func() error {
		rows := b.items.Peek()
		out = make([]Item, len(rows))
		for i, r := range rows {
			out[i] = Item{ID: r.id, Label: r.label.Peek()}
		}
		return nil
	})
	return out, err
}

// Stats returns the list's pass statistics.
func (b *Board) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := b.submit(ctx, false, func() error {
		s = Stats{
			Rows:   b.list.Len(),
			Passes: b.list.Passes(),
			Last:   b.list.LastPass(),
			Totals: b.list.Totals(),
		}
		return nil
	})
	return s, err
}

// Ops returns the document mutation counters.
func (b *Board) Ops(ctx context.Context) (dom.Ops, error) {
	var ops dom.Ops
	err := b.submit(ctx, false, func() error {
		ops = b.doc.Ops()
		return nil
	})
	return ops, err
}

// Frame returns the latest published frame. Safe from any goroutine.
func (b *Board) Frame() Frame {
	if f := b.frame.Load(); f != nil {
		return *f
	}
	return Frame{}
}

// HTML returns the latest rendered HTML.
func (b *Board) HTML() string {
	return b.Frame().HTML
}

// Close stops the task loop and disposes the list. Pending tasks fail with
// E401. Close is idempotent.
func (b *Board) Close() {
	b.once.Do(func() {
		b.closed.Store(true)
		close(b.done)
	})

	select {
	case <-b.stopped:
	case <-time.After(5 * time.Second):
		b.logger.Warn("board loop did not stop")
	}
}
