package dom

import "testing"

func TestInsertBeforeAndDetach(t *testing.T) {
	parent := El("ul")
	a, b, c := Text("a"), Text("b"), Text("c")

	parent.AppendChild(a)
	parent.AppendChild(c)
	parent.insertBefore(b, c)

	if got := parent.TextContent(); got != "abc" {
		t.Fatalf("TextContent() = %q, want abc", got)
	}

	// Moving an attached node detaches it first.
	parent.insertBefore(c, a)
	if got := parent.TextContent(); got != "cab" {
		t.Fatalf("after move TextContent() = %q, want cab", got)
	}
	if len(parent.Children()) != 3 {
		t.Fatalf("children = %d, want 3", len(parent.Children()))
	}

	if !b.detach() {
		t.Error("detach of attached node should report true")
	}
	if b.detach() {
		t.Error("detach of detached node should report false")
	}
	if b.Parent() != nil {
		t.Error("detached node should have nil parent")
	}
	if got := parent.TextContent(); got != "ca" {
		t.Errorf("TextContent() = %q, want ca", got)
	}
}

func TestTextContentSkipsComments(t *testing.T) {
	n := El("div", "x", Comment("marker"), El("span", "y"))
	if got := n.TextContent(); got != "xy" {
		t.Errorf("TextContent() = %q, want xy", got)
	}
}

func TestAttributes(t *testing.T) {
	n := El("li", Attr("class", "a"), Attr("id", "row-1"))
	n.SetAttr("class", "b")

	if v, ok := n.Attr("class"); !ok || v != "b" {
		t.Errorf("class = %q, %v", v, ok)
	}
	if _, ok := n.Attr("missing"); ok {
		t.Error("missing attribute reported present")
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindElement: "Element",
		KindText:    "Text",
		KindComment: "Comment",
		Kind(99):    "Unknown",
	}
	for k, want := range tests {
		if k.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}
