package dom

import "strings"

// Query resolves a selector against n's subtree and returns the first match
// in document order, or nil. Only the subset of CSS selectors stratum's
// markup contract needs is supported:
//
//	#id       matches an element with id="id"
//	.class    matches an element whose class list contains "class"
//	[attr]    matches an element carrying the attribute
//	tag       matches an element by tag name
//
// Compound or descendant selectors are not supported.
func (n *Node) Query(selector string) *Node {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil
	}
	pred := selectorPred(selector)
	if pred == nil {
		return nil
	}
	return n.Find(pred)
}

// selectorPred compiles a simple selector into a predicate, or nil if the
// selector is malformed.
func selectorPred(selector string) func(*Node) bool {
	switch {
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		if id == "" {
			return nil
		}
		return func(n *Node) bool {
			return n.Type == ElementNode && n.AttrOr("id", "") == id
		}
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		if class == "" {
			return nil
		}
		return func(n *Node) bool {
			return n.Type == ElementNode && n.HasClass(class)
		}
	case strings.HasPrefix(selector, "[") && strings.HasSuffix(selector, "]"):
		attr := selector[1 : len(selector)-1]
		if attr == "" {
			return nil
		}
		return func(n *Node) bool {
			return n.Type == ElementNode && n.HasAttr(attr)
		}
	default:
		tag := strings.ToLower(selector)
		return func(n *Node) bool {
			return n.Type == ElementNode && n.Tag == tag
		}
	}
}
