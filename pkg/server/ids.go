package server

import (
	"strconv"

	"github.com/stratum-ui/stratum/pkg/dom"
)

// AttrNodeID is the attribute carrying a node's wire id. The thin client
// addresses events at these ids and applies swaps to them.
const AttrNodeID = "data-sid"

// idGenerator hands out session-unique node ids.
type idGenerator struct {
	next uint64
}

// Next returns the next id (s1, s2, ...).
func (g *idGenerator) Next() string {
	g.next++
	return "s" + strconv.FormatUint(g.next, 10)
}

// ensureIDs assigns wire ids to every element under root that does not have
// one yet. Called after reconciliation so swapped-in fragments become
// addressable.
func ensureIDs(root *dom.Node, gen *idGenerator) {
	root.Walk(func(n *dom.Node) bool {
		if n.Type == dom.ElementNode && !n.HasAttr(AttrNodeID) {
			n.SetAttr(AttrNodeID, gen.Next())
		}
		return true
	})
}

// findByID returns the element with the given wire id, or nil.
func findByID(root *dom.Node, id string) *dom.Node {
	if id == "" {
		return nil
	}
	return root.Find(func(n *dom.Node) bool {
		return n.Type == dom.ElementNode && n.AttrOr(AttrNodeID, "") == id
	})
}
