package dom

import "testing"

func TestHTML(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{
			name: "nested",
			node: El("ul", El("li", "1"), El("li", "2")),
			want: "<ul><li>1</li><li>2</li></ul>",
		},
		{
			name: "escaped text",
			node: El("p", `<script>"x" & 'y'</script>`),
			want: "<p>&lt;script&gt;&quot;x&quot; &amp; &#39;y&#39;&lt;/script&gt;</p>",
		},
		{
			name: "attributes",
			node: El("li", Attr("data-key", "a\"b\n")),
			want: `<li data-key="a&quot;b&#10;"></li>`,
		},
		{
			name: "comment marker",
			node: El("div", Comment(""), Comment("x--y")),
			want: "<div><!----><!--xy--></div>",
		},
		{
			name: "void element",
			node: El("div", El("br")),
			want: "<div><br></div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.HTML(); got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
		})
	}
}
