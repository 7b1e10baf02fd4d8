package dom

import (
	"io"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
	"meta":  true,
	"link":  true,
	"wbr":   true,
}

// HTML renders n and its descendants. Comments render as <!---->.
func (n *Node) HTML() string {
	var b strings.Builder
	_ = n.WriteHTML(&b)
	return b.String()
}

// WriteHTML streams the HTML of n to w.
func (n *Node) WriteHTML(w io.Writer) error {
	switch n.Kind {
	case KindText:
		_, err := io.WriteString(w, escapeHTML(n.Text))
		return err
	case KindComment:
		_, err := io.WriteString(w, "<!--"+strings.ReplaceAll(n.Text, "--", "")+"-->")
		return err
	}

	if _, err := io.WriteString(w, "<"+n.Tag); err != nil {
		return err
	}
	for _, a := range n.attrs {
		if _, err := io.WriteString(w, " "+a.Key+`="`+escapeAttr(a.Value)+`"`); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if voidElements[n.Tag] {
		return nil
	}
	for _, c := range n.children {
		if err := c.WriteHTML(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</"+n.Tag+">")
	return err
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for attribute values, including whitespace that
// could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteString(escapeHTML(string(r)))
		}
	}

	return buf.String()
}
