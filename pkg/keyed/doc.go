// Package keyed renders a reactive collection as a live sequence of output
// nodes, keeping one scope per key alive across updates.
//
// A List subscribes to a reactive source. On every change it maps the new
// items to keys and reconciles them against the keys it rendered last time:
//
//   - a key seen for the first time gets a fresh child scope, and the view
//     function runs inside it to produce the row's nodes;
//   - a key that persists keeps its scope and nodes untouched, and only
//     moves if it left the longest run of rows already in relative order;
//   - a key that disappears has its scope disposed and its nodes removed.
//
// Rows are never re-rendered by the list. Content changes inside a row are
// the job of that row's own reactivity.
//
//	items := reactive.NewSignal([]int{1, 2, 3})
//	list := keyed.New(doc, keyed.Props[int, int, *dom.Node]{
//	    Iterable: items,
//	    View: func(_ *reactive.Owner, n int) keyed.View[*dom.Node] {
//	        return dom.El("li", dom.Text(strconv.Itoa(n)))
//	    },
//	    Key: func(n int) int { return n },
//	})
//	ul := dom.El("ul", list)
//
// The list is generic over the node type N. Any backend that implements Tree
// can host it.
package keyed
