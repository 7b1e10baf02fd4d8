package keyed

import (
	"log/slog"
	"slices"
	"time"

	"github.com/vango-dev/keyed/pkg/reactive"
)

// Props declares a keyed list.
type Props[T any, K comparable, N comparable] struct {
	// Iterable is the reactive source collection.
	Iterable reactive.Readable[[]T]

	// View renders one item. It runs once per row, inside the row's scope,
	// without dependency tracking. Effects it creates belong to the row.
	View func(scope *reactive.Owner, item T) View[N]

	// Key extracts a row's identity from an item. Reads inside Key are not
	// tracked by the list.
	Key func(item T) K
}

// Option configures a List.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer Observer
}

// WithLogger sets the logger used for pass diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver installs a pass observer.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// List is a live, keyed rendering of a reactive collection.
//
// A List is a View: its nodes are the rows' nodes followed by an end marker,
// and it can be placed anywhere a node sequence is expected. Once the marker
// has a parent, every pass mutates that parent in place.
type List[T any, K comparable, N comparable] struct {
	tree   Tree[N]
	props  Props[T, K, N]
	scope  *reactive.Owner
	marker N
	cache  *cache[K, N]
	output *reactive.Signal[[]N]
	effect *reactive.Effect

	logger   *slog.Logger
	observer Observer

	passes   uint64
	last     PassStats
	totals   PassStats
	disposed bool
}

// New creates a List under the current owner and runs the initial pass.
// The list is torn down when that owner is disposed, or by Dispose.
func New[T any, K comparable, N comparable](tree Tree[N], props Props[T, K, N], opts ...Option) *List[T, K, N] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	l := &List[T, K, N]{
		tree:     tree,
		props:    props,
		scope:    reactive.NewOwner(reactive.CurrentOwner()),
		marker:   tree.Marker(),
		cache:    newCache[K, N](),
		observer: o.observer,
	}
	l.logger = o.logger.With("component", "keyed", "list", l.scope.ID())

	l.scope.OnCleanup(l.teardown)

	l.scope.Run(func() {
		l.output = reactive.NewSignal[[]N](nil).WithEquals(func(a, b []N) bool {
			return slices.Equal(a, b)
		})
		l.effect = reactive.CreateEffect(func() reactive.Cleanup {
			items := l.props.Iterable.Get()
			reactive.Untracked(func() {
				l.reconcile(items)
			})
			return nil
		})
	})

	return l
}

// Nodes implements View. It returns the rows' nodes followed by the marker.
func (l *List[T, K, N]) Nodes() []N {
	return append(l.cache.nodes(), l.marker)
}

// Output returns the republished node sequence, updated after every pass.
func (l *List[T, K, N]) Output() reactive.Readable[[]N] {
	return l.output
}

// Keys returns the rendered keys in order.
func (l *List[T, K, N]) Keys() []K {
	return l.cache.keys()
}

// Len returns the number of rendered rows.
func (l *List[T, K, N]) Len() int {
	return len(l.cache.rows)
}

// Scope returns the owner of the list; row scopes are its children.
func (l *List[T, K, N]) Scope() *reactive.Owner {
	return l.scope
}

// RowScope returns the handle of the row rendered for key.
func (l *List[T, K, N]) RowScope(key K) (reactive.Handle, bool) {
	r, ok := l.cache.get(key)
	if !ok {
		return reactive.Handle{}, false
	}
	return r.scope, true
}

// RowNodes returns the nodes rendered for key.
func (l *List[T, K, N]) RowNodes(key K) ([]N, bool) {
	r, ok := l.cache.get(key)
	if !ok {
		return nil, false
	}
	return r.nodes(), true
}

// LastPass returns the stats of the most recent pass.
func (l *List[T, K, N]) LastPass() PassStats {
	return l.last
}

// Totals returns stats accumulated over every pass.
func (l *List[T, K, N]) Totals() PassStats {
	return l.totals
}

// Passes returns how many passes have run.
func (l *List[T, K, N]) Passes() uint64 {
	return l.passes
}

// IsDisposed reports whether the list has been torn down.
func (l *List[T, K, N]) IsDisposed() bool {
	return l.disposed
}

// Dispose tears the list down: the driver subscription first, then every
// row scope, then the nodes. Disposing twice panics with E101.
func (l *List[T, K, N]) Dispose() {
	l.scope.Dispose()
}

// teardown runs as the list scope's last cleanup, after the driver effect
// and all row scopes have been disposed by the owner tree.
func (l *List[T, K, N]) teardown() {
	l.disposed = true
	if parent := l.tree.Parent(l.marker); !isZero(parent) {
		for _, r := range l.cache.rows {
			for _, node := range r.nodes() {
				l.tree.Remove(node)
			}
		}
		l.tree.Remove(l.marker)
	}
	l.cache.replace(nil)
	l.logger.Debug("list disposed", "passes", l.passes)
}

// reconcile runs one pass against items.
func (l *List[T, K, N]) reconcile(items []T) {
	keys, items, dups := l.dedupe(items)

	info := PassInfo{
		ListID: l.scope.ID(),
		Pass:   l.passes + 1,
		OldLen: len(l.cache.rows),
		NewLen: len(keys),
		Start:  time.Now(),
	}
	if l.observer != nil {
		l.observer.PassStarted(info)
	}

	script := Plan(l.cache.keys(), keys)
	l.apply(script, keys, items)

	l.passes++
	stats := PassStats{
		Path:       script.Path,
		Created:    len(script.Created),
		Removed:    len(script.Removed),
		Moved:      len(script.Moved),
		Retained:   script.Retained(),
		Duplicates: dups,
		Duration:   time.Since(info.Start),
	}
	l.last = stats
	l.totals.Add(stats)

	l.output.Set(l.Nodes())

	if l.observer != nil {
		l.observer.PassFinished(info, stats)
	}
	l.logger.Debug("reconciled",
		"pass", l.passes,
		"path", stats.Path.String(),
		"created", stats.Created,
		"removed", stats.Removed,
		"moved", stats.Moved,
		"retained", stats.Retained,
	)
}

// dedupe maps items to keys. The first item with a given key wins; later
// duplicates are dropped from the pass.
func (l *List[T, K, N]) dedupe(items []T) ([]K, []T, int) {
	keys := make([]K, 0, len(items))
	kept := items[:0:0]
	seen := make(map[K]struct{}, len(items))
	dups := 0

	for _, item := range items {
		k := l.props.Key(item)
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
		kept = append(kept, item)
	}

	if dups > 0 {
		l.logger.Warn("duplicate keys dropped", "count", dups)
	}
	return keys, kept, dups
}

// apply realizes script against the cache and, when mounted, the tree.
func (l *List[T, K, N]) apply(script Script, keys []K, items []T) {
	old := l.cache.rows
	parent := l.tree.Parent(l.marker)
	mounted := !isZero(parent)

	// Removed rows go first: scope, then nodes.
	for _, j := range script.Removed {
		r := old[j]
		nodes := r.nodes()
		r.dispose()
		if mounted {
			for _, node := range nodes {
				l.tree.Remove(node)
			}
		}
	}

	rows := make([]*row[K, N], len(keys))
	created := make([]bool, len(keys))
	for i, src := range script.Sources {
		if src >= 0 {
			rows[i] = old[src]
		}
	}
	for _, i := range script.Created {
		rows[i] = l.createRow(keys[i], items[i])
		created[i] = true
	}

	l.cache.replace(rows)

	if !mounted {
		return
	}

	switch script.Path {
	case PathIdentical, PathClear, PathTrailingRemoval:
		return
	case PathPrepend:
		anchor := firstNodeFrom(rows, len(script.Created), l.marker)
		for _, i := range script.Created {
			l.insert(parent, rows[i].nodes(), anchor)
		}
		return
	case PathCreateAll, PathAppend, PathReplaceAll:
		for _, i := range script.Created {
			l.insert(parent, rows[i].nodes(), l.marker)
		}
		return
	}

	moved := make([]bool, len(keys))
	for _, i := range script.Moved {
		moved[i] = true
	}

	// Walk backwards so each placement targets an already settled sibling.
	anchor := l.marker
	for i := len(rows) - 1; i >= 0; i-- {
		nodes := rows[i].nodes()
		if created[i] || moved[i] {
			l.insert(parent, nodes, anchor)
		}
		if len(nodes) > 0 {
			anchor = nodes[0]
		}
	}
}

// createRow allocates a scope for key and renders item inside it.
func (l *List[T, K, N]) createRow(key K, item T) *row[K, N] {
	scope := reactive.NewOwner(l.scope)

	var view View[N]
	scope.Run(func() {
		view = l.props.View(scope, item)
	})

	return &row[K, N]{key: key, scope: scope.Handle(), view: view}
}

func (l *List[T, K, N]) insert(parent N, nodes []N, before N) {
	for _, node := range nodes {
		l.tree.InsertBefore(parent, node, before)
	}
}

func isZero[N comparable](n N) bool {
	var zero N
	return n == zero
}
