package keyed

// Tree is the rendering backend capability used to realize a pass.
//
// Node identity is N's equality; the zero N means "no node".
type Tree[N comparable] interface {
	// Parent returns node's parent, or the zero N for a detached node.
	Parent(node N) N

	// InsertBefore inserts node under parent before ref, detaching it from
	// its current position first. A zero ref appends.
	InsertBefore(parent, node, ref N)

	// Remove detaches node from its parent. Removing a detached node is a
	// no-op.
	Remove(node N)

	// Marker creates an empty placeholder node that renders as nothing.
	Marker() N
}

// View is anything that lowers to a sequence of output nodes.
type View[N comparable] interface {
	Nodes() []N
}

// Nodes adapts a plain node slice to View.
type Nodes[N comparable] []N

// Nodes implements View.
func (n Nodes[N]) Nodes() []N {
	return n
}
