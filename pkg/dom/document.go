package dom

import "sync/atomic"

// Ops counts the structural mutations a Document has performed.
type Ops struct {
	Inserts uint64 // insertions of detached nodes
	Moves   uint64 // insertions of nodes that were already attached
	Removes uint64 // removals of attached nodes
}

// Total returns the sum of all mutations.
func (o Ops) Total() uint64 {
	return o.Inserts + o.Moves + o.Removes
}

// Document is the keyed.Tree implementation for *Node.
type Document struct {
	inserts atomic.Uint64
	moves   atomic.Uint64
	removes atomic.Uint64
}

// NewDocument creates a Document.
func NewDocument() *Document {
	return &Document{}
}

// Parent implements keyed.Tree.
func (d *Document) Parent(node *Node) *Node {
	if node == nil {
		return nil
	}
	return node.parent
}

// InsertBefore implements keyed.Tree.
func (d *Document) InsertBefore(parent, node, ref *Node) {
	if node.parent != nil {
		d.moves.Add(1)
	} else {
		d.inserts.Add(1)
	}
	parent.insertBefore(node, ref)
}

// Remove implements keyed.Tree.
func (d *Document) Remove(node *Node) {
	if node.detach() {
		d.removes.Add(1)
	}
}

// Marker implements keyed.Tree. Markers are empty comments.
func (d *Document) Marker() *Node {
	return Comment("")
}

// Ops returns the mutation counters.
func (d *Document) Ops() Ops {
	return Ops{
		Inserts: d.inserts.Load(),
		Moves:   d.moves.Load(),
		Removes: d.removes.Load(),
	}
}

// ResetOps zeroes the mutation counters.
func (d *Document) ResetOps() {
	d.inserts.Store(0)
	d.moves.Store(0)
	d.removes.Store(0)
}
