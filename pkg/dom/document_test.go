package dom

import "testing"

func TestDocumentOps(t *testing.T) {
	doc := NewDocument()
	parent := El("ul")
	a, b := Text("a"), Text("b")

	doc.InsertBefore(parent, a, nil)
	doc.InsertBefore(parent, b, a)
	doc.InsertBefore(parent, a, b) // move
	doc.Remove(b)
	doc.Remove(b) // already detached

	ops := doc.Ops()
	if ops.Inserts != 2 || ops.Moves != 1 || ops.Removes != 1 {
		t.Errorf("ops = %+v, want 2 inserts, 1 move, 1 remove", ops)
	}
	if ops.Total() != 4 {
		t.Errorf("Total() = %d, want 4", ops.Total())
	}
	if parent.TextContent() != "a" {
		t.Errorf("TextContent() = %q, want a", parent.TextContent())
	}

	doc.ResetOps()
	if doc.Ops().Total() != 0 {
		t.Error("ResetOps should zero counters")
	}
}

func TestDocumentParentAndMarker(t *testing.T) {
	doc := NewDocument()
	m := doc.Marker()

	if m.Kind != KindComment {
		t.Errorf("marker kind = %v, want Comment", m.Kind)
	}
	if doc.Parent(m) != nil {
		t.Error("fresh marker should be detached")
	}
	if doc.Parent(nil) != nil {
		t.Error("Parent(nil) should be nil")
	}

	p := El("div", m)
	if doc.Parent(m) != p {
		t.Error("Parent should report the element")
	}
}
