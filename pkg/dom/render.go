package dom

import (
	"html"
	"strings"
)

// voidElements are elements rendered without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Render serializes the node and its subtree to HTML.
func Render(n *Node) string {
	var b strings.Builder
	render(n, &b)
	return b.String()
}

func render(n *Node, b *strings.Builder) {
	switch n.Type {
	case TextNode:
		b.WriteString(html.EscapeString(n.Text))
	case ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		for _, a := range n.attrs {
			b.WriteByte(' ')
			b.WriteString(a.Key)
			if a.Value != "" {
				b.WriteString(`="`)
				b.WriteString(html.EscapeString(a.Value))
				b.WriteByte('"')
			}
		}
		b.WriteByte('>')
		if voidElements[n.Tag] {
			return
		}
		for _, c := range n.children {
			render(c, b)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
}

// RenderChildren serializes only the node's children (innerHTML).
func RenderChildren(n *Node) string {
	var b strings.Builder
	for _, c := range n.children {
		render(c, &b)
	}
	return b.String()
}
