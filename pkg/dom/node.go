package dom

import (
	"strings"

	"github.com/vango-dev/keyed/pkg/noderef"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <li>, <ul>, etc.
	KindText                // Plain text node
	KindComment             // Placeholder, renders as nothing visible
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Attribute is a single element attribute.
type Attribute struct {
	Key   string
	Value string
}

// Node is a live output node.
type Node struct {
	Kind Kind
	Tag  string
	Text string

	attrs    []Attribute
	parent   *Node
	children []*Node

	ref     *noderef.Ref[*Node]
	mounted bool
}

// Nodes implements keyed.View.
func (n *Node) Nodes() []*Node {
	return []*Node{n}
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Attr returns the value of an attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (n *Node) SetAttr(key, value string) {
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Key: key, Value: value})
}

// TextContent returns the concatenated text of n and its descendants.
// Comments contribute nothing.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	switch n.Kind {
	case KindText:
		b.WriteString(n.Text)
	case KindElement:
		for _, c := range n.children {
			c.writeText(b)
		}
	}
}

// indexOf returns the position of child under n, or -1.
func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// detach removes n from its parent, if any.
func (n *Node) detach() bool {
	p := n.parent
	if p == nil {
		return false
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
	return true
}

// insertBefore places child under n before ref (nil appends).
func (n *Node) insertBefore(child, ref *Node) {
	child.detach()

	i := len(n.children)
	if ref != nil {
		if j := n.indexOf(ref); j >= 0 {
			i = j
		}
	}

	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	child.parent = n
	child.mount()
}

// mount fires the node reference the first time the node gains a parent.
func (n *Node) mount() {
	if n.mounted {
		return
	}
	n.mounted = true
	if n.ref != nil {
		n.ref.Set(n)
	}
}

// AppendChild appends child to n, moving it if it is attached elsewhere.
func (n *Node) AppendChild(child *Node) {
	n.insertBefore(child, nil)
}
