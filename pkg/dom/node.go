package dom

import "strings"

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode NodeType = iota // <div>, <a>, etc.
	TextNode                    // Plain text
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

// Attr is a single element attribute. Order is preserved on render.
type Attr struct {
	Key   string
	Value string
}

// Node is one node of the owned tree.
type Node struct {
	Type NodeType
	Tag  string // Element tag name (e.g., "div"); empty for text nodes
	Text string // For TextNode

	attrs    []Attr
	parent   *Node
	children []*Node
}

// NewElement creates a detached element node with the given attributes.
func NewElement(tag string, attrs ...Attr) *Node {
	return &Node{Type: ElementNode, Tag: tag, attrs: attrs}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// Parent returns the node's parent, or nil for a detached or root node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the node's child list in document order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildElements returns the node's element children in document order.
func (n *Node) ChildElements() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildElement returns the first element child, or nil.
func (n *Node) FirstChildElement() *Node {
	for _, c := range n.children {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// indexOf returns the position of child in n's child list, or -1.
func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Detach removes the node from its parent, if any. The node and its subtree
// remain usable and can be re-inserted elsewhere.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

// AppendChild appends child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AppendChild(child *Node) {
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
}

// InsertBefore inserts newChild immediately before ref among n's children.
// If ref is nil or not a child of n, newChild is appended. An attached
// newChild is relocated.
func (n *Node) InsertBefore(newChild, ref *Node) {
	newChild.Detach()
	i := -1
	if ref != nil {
		i = n.indexOf(ref)
	}
	if i < 0 {
		newChild.parent = n
		n.children = append(n.children, newChild)
		return
	}
	newChild.parent = n
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = newChild
}

// InsertAfter inserts newChild immediately after ref among n's children.
// If ref is nil or not a child of n, newChild is appended. An attached
// newChild is relocated.
func (n *Node) InsertAfter(newChild, ref *Node) {
	newChild.Detach()
	i := -1
	if ref != nil {
		i = n.indexOf(ref)
	}
	if i < 0 {
		newChild.parent = n
		n.children = append(n.children, newChild)
		return
	}
	newChild.parent = n
	n.children = append(n.children, nil)
	copy(n.children[i+2:], n.children[i+1:])
	n.children[i+1] = newChild
}

// ReplaceWith replaces n with other at the same position under the same
// parent. No-op if n is detached or other is n. An attached other is
// relocated. The replaced node is left detached.
func (n *Node) ReplaceWith(other *Node) {
	p := n.parent
	if p == nil || other == n {
		return
	}
	// Detach before locating n: if other is an earlier sibling under the
	// same parent, its removal shifts n's index.
	other.Detach()
	i := p.indexOf(n)
	if i < 0 {
		return
	}
	other.parent = p
	p.children[i] = other
	n.parent = nil
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute's value, or def if absent.
func (n *Node) AttrOr(key, def string) string {
	if v, ok := n.Attr(key); ok {
		return v
	}
	return def
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// SetAttr sets the named attribute, replacing an existing value.
func (n *Node) SetAttr(key, value string) {
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Key: key, Value: value})
}

// RemoveAttr removes the named attribute if present.
func (n *Node) RemoveAttr(key string) {
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// Attrs returns a copy of the attribute list in declaration order.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// classes returns the whitespace-separated tokens of the class attribute.
func (n *Node) classes() []string {
	v, _ := n.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether the class attribute contains the given token.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds a token to the class attribute if not already present.
func (n *Node) AddClass(name string) {
	if n.HasClass(name) {
		return
	}
	cs := append(n.classes(), name)
	n.SetAttr("class", strings.Join(cs, " "))
}

// RemoveClass removes a token from the class attribute.
func (n *Node) RemoveClass(name string) {
	cs := n.classes()
	out := cs[:0]
	for _, c := range cs {
		if c != name {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		n.RemoveAttr("class")
		return
	}
	n.SetAttr("class", strings.Join(out, " "))
}

// Closest returns the nearest node, starting at n itself and walking toward
// the root, for which pred returns true. Returns nil if none matches.
func (n *Node) Closest(pred func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if pred(cur) {
			return cur
		}
	}
	return nil
}

// Walk visits n and every descendant in document order. Returning false from
// fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		var stopped bool
		c.walk(fn, &stopped)
		if stopped {
			return
		}
	}
}

func (n *Node) walk(fn func(*Node) bool, stopped *bool) {
	if !fn(n) {
		*stopped = true
		return
	}
	for _, c := range n.children {
		c.walk(fn, stopped)
		if *stopped {
			return
		}
	}
}

// Find returns the first node in n's subtree (document order, including n)
// for which pred returns true, or nil.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(cur *Node) bool {
		if pred(cur) {
			found = cur
			return false
		}
		return true
	})
	return found
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}
