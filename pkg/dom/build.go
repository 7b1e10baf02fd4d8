package dom

import (
	"fmt"

	"github.com/vango-dev/keyed/pkg/keyed"
	"github.com/vango-dev/keyed/pkg/noderef"
	"github.com/vango-dev/keyed/pkg/reactive"
)

// View is the keyed view type for this backend.
type View = keyed.View[*Node]

// attrArg is an attribute passed to El.
type attrArg struct {
	key, value string
}

// refArg attaches a node reference in El.
type refArg struct {
	ref *noderef.Ref[*Node]
}

// Attr creates an attribute argument for El.
func Attr(key, value string) any {
	return attrArg{key: key, value: value}
}

// WithRef attaches ref to the element; it is set when the element mounts.
func WithRef(ref *noderef.Ref[*Node]) any {
	return refArg{ref: ref}
}

// El creates an element.
// Arguments can be: nil, Attr, WithRef, string, *Node, or any View
// (including fragments and keyed lists).
func El(tag string, args ...any) *Node {
	n := &Node{Kind: KindElement, Tag: tag}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case attrArg:
			n.SetAttr(v.key, v.value)
		case refArg:
			n.ref = v.ref
		case string:
			n.AppendChild(Text(v))
		case View:
			for _, child := range v.Nodes() {
				n.AppendChild(child)
			}
		default:
			panic(fmt.Sprintf("dom: unsupported El argument %T", arg))
		}
	}

	return n
}

// Text creates a text node.
func Text(content string) *Node {
	return &Node{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a comment node.
func Comment(content string) *Node {
	return &Node{Kind: KindComment, Text: content}
}

// DynText creates a text node whose content tracks fn. The binding effect
// belongs to the current owner.
func DynText(fn func() string) *Node {
	n := Text("")
	reactive.CreateEffect(func() reactive.Cleanup {
		n.Text = fn()
		return nil
	})
	return n
}

// Group is a fragment: several views rendered without a wrapper.
type Group []View

// Nodes implements keyed.View. Children are resolved on every call, so a
// group holding a keyed list reports its current rows.
func (g Group) Nodes() []*Node {
	var out []*Node
	for _, v := range g {
		if v != nil {
			out = append(out, v.Nodes()...)
		}
	}
	return out
}

// Fragment groups children without a wrapper element.
// Arguments can be: nil, string, or any View.
func Fragment(children ...any) Group {
	g := make(Group, 0, len(children))
	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case string:
			g = append(g, Text(v))
		case View:
			g = append(g, v)
		default:
			panic(fmt.Sprintf("dom: unsupported Fragment argument %T", child))
		}
	}
	return g
}

// Mount appends view's nodes to container, firing node references.
func Mount(container *Node, view View) {
	for _, n := range view.Nodes() {
		container.AppendChild(n)
	}
}
