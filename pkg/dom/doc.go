// Package dom is an in-memory output tree that hosts keyed lists.
//
// Nodes are real, mutable tree nodes rather than a virtual description: the
// list engine moves, inserts and removes them directly through Document,
// which implements keyed.Tree[*Node]. Builders mirror the element helpers of
// the virtual DOM:
//
//	ul := dom.El("ul",
//	    dom.Attr("class", "todos"),
//	    dom.El("li", "before"),
//	    list,
//	    dom.El("li", "after"),
//	)
//	fmt.Println(ul.TextContent())
//
// DynText binds a text node to reactive state. The binding is an effect owned
// by the current scope, so it stops updating when the row that created it is
// disposed.
package dom
