package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses an HTML fragment (as served for a layer swap) and
// returns the resulting top-level nodes. The fragment is parsed in a <div>
// context, so it may contain any flow content. Comments and doctypes are
// dropped; whitespace-only text between elements is preserved.
func ParseFragment(src string) ([]*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	parsed, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	var out []*Node
	for _, hn := range parsed {
		if n := fromHTML(hn); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// ParseElement parses an HTML fragment and returns its first element node.
// Leading text and comments are skipped. Returns an error if the fragment
// contains no element.
func ParseElement(src string) (*Node, error) {
	nodes, err := ParseFragment(src)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Type == ElementNode {
			return n, nil
		}
	}
	return nil, fmt.Errorf("dom: fragment contains no element")
}

// ParseDocument parses a full HTML document and returns the <body> element
// as the tree root. Used to load the initial host document.
func ParseDocument(src string) (*Node, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	var body *html.Node
	var find func(*html.Node)
	find = func(hn *html.Node) {
		if body != nil {
			return
		}
		if hn.Type == html.ElementNode && hn.DataAtom == atom.Body {
			body = hn
			return
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if body == nil {
		return nil, fmt.Errorf("dom: document has no body")
	}
	n := fromHTML(body)
	if n == nil {
		return nil, fmt.Errorf("dom: document has no body")
	}
	return n, nil
}

// fromHTML converts an x/net/html node into an owned Node. Comment and
// doctype nodes convert to nil.
func fromHTML(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return NewText(hn.Data)
	case html.ElementNode:
		attrs := make([]Attr, 0, len(hn.Attr))
		for _, a := range hn.Attr {
			attrs = append(attrs, Attr{Key: a.Key, Value: a.Val})
		}
		n := NewElement(strings.ToLower(hn.Data), attrs...)
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				n.AppendChild(child)
			}
		}
		return n
	default:
		return nil
	}
}
