package keyed

import "github.com/vango-dev/keyed/pkg/reactive"

// row is one rendered item: its key, its scope, and the view it produced.
type row[K comparable, N comparable] struct {
	key   K
	scope reactive.Handle
	view  View[N]
}

// nodes returns the row's current nodes. Views that are themselves dynamic
// (a nested list, say) report their live sequence.
func (r *row[K, N]) nodes() []N {
	if r.view == nil {
		return nil
	}
	return r.view.Nodes()
}

// dispose tears down the row's scope. Resolving through the arena turns a
// second disposal of the same row into an E102 panic.
func (r *row[K, N]) dispose() {
	reactive.MustResolve(r.scope).Dispose()
}

// cache is the ordered view cache: rows in rendered order plus a key index.
type cache[K comparable, N comparable] struct {
	rows  []*row[K, N]
	index map[K]*row[K, N]
}

func newCache[K comparable, N comparable]() *cache[K, N] {
	return &cache[K, N]{index: make(map[K]*row[K, N])}
}

func (c *cache[K, N]) keys() []K {
	out := make([]K, len(c.rows))
	for i, r := range c.rows {
		out[i] = r.key
	}
	return out
}

func (c *cache[K, N]) get(key K) (*row[K, N], bool) {
	r, ok := c.index[key]
	return r, ok
}

// replace installs rows as the new rendered order.
func (c *cache[K, N]) replace(rows []*row[K, N]) {
	index := make(map[K]*row[K, N], len(rows))
	for _, r := range rows {
		index[r.key] = r
	}
	c.rows = rows
	c.index = index
}

// nodes returns every row's nodes in order.
func (c *cache[K, N]) nodes() []N {
	var out []N
	for _, r := range c.rows {
		out = append(out, r.nodes()...)
	}
	return out
}

// firstNodeFrom returns the first node of rows[from:], or fallback.
func firstNodeFrom[K comparable, N comparable](rows []*row[K, N], from int, fallback N) N {
	for i := from; i < len(rows); i++ {
		if nodes := rows[i].nodes(); len(nodes) > 0 {
			return nodes[0]
		}
	}
	return fallback
}
