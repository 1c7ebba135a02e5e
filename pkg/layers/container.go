package layers

import (
	"context"
	"fmt"
	"iter"

	"github.com/stratum-ui/stratum/internal/errors"
	"github.com/stratum-ui/stratum/pkg/dom"
	"github.com/stratum-ui/stratum/pkg/fragment"
)

// Container wraps one element carrying the data-container marker and
// orchestrates fetch, reconciliation, and activation of its layers. The
// child list is always derived live from the tree; the only state the
// wrapper holds is a reference to the most recently activated layer, used as
// the insertion anchor.
type Container struct {
	eng     *Engine
	el      *dom.Node
	current *Layer
}

// Element returns the host element.
func (c *Container) Element() *dom.Node {
	return c.el
}

// Current returns the most recently activated layer, or nil.
func (c *Container) Current() *Layer {
	return c.current
}

// disabled follows the same conventions as layers.
func (c *Container) disabled() bool {
	return c.el.HasAttr("disabled") || c.el.HasClass(DisabledClass)
}

// Layers yields a wrapper for every direct child carrying the layer marker,
// in document order. The sequence is recomputed from the live tree on every
// call, never cached.
func (c *Container) Layers() iter.Seq[*Layer] {
	return func(yield func(*Layer) bool) {
		for _, el := range c.el.ChildElements() {
			if !el.HasAttr(AttrLayer) {
				continue
			}
			if !yield(c.eng.Layer(el)) {
				return
			}
		}
	}
}

// Request fetches fragment HTML and reconciles it into the container.
//
// A disabled container refuses silently. The cancelable "request"
// notification fires before anything else; a veto issues no fetch. The
// options are cloned and the url injected before the fetch goes out. The
// completion callback runs through the engine dispatcher, strictly after
// this call has returned: success emits "requestdone" and hands the body to
// Add, failure emits "requestfail" and logs. Terminal either way.
//
// Overlapping requests on the same container are neither deduplicated nor
// sequenced; the last completion to arrive wins.
func (c *Container) Request(ctx context.Context, url string, opts Options) {
	if c.disabled() {
		return
	}

	ev := &RequestEvent{Container: c, Options: opts}
	if !c.eng.bus.Propose(ev) {
		return
	}

	merged := opts.clone()
	merged.URL = url

	src := c.eng.source
	if src == nil {
		c.eng.dispatch(func() {
			c.fail(fmt.Errorf("layers: engine has no fragment source"), merged)
		})
		return
	}

	c.eng.log.Debug("container request", "url", url, "method", merged.Method)

	go func() {
		body, err := src.Fetch(ctx, fragment.Request{
			URL:    merged.URL,
			Method: merged.Method,
			Form:   merged.Form,
		})
		c.eng.dispatch(func() {
			if err != nil {
				c.fail(err, merged)
				return
			}
			c.eng.bus.Publish(&RequestDoneEvent{Container: c, Body: body, Options: merged})
			c.Add(string(body), merged)
		})
	}()
}

// fail reports a terminal fetch failure: one "requestfail" notification plus
// a log entry. The container keeps its prior reconciled state.
func (c *Container) fail(err error, opts Options) {
	err = errors.Wrap("E001", err)
	c.eng.bus.Publish(&RequestFailEvent{Container: c, Err: err, Options: opts})
	c.eng.log.Error("container request failed", "url", opts.URL, "error", err)
}

// Add builds a layer from src (fragment HTML or an element) and
// reconciles it against the current children:
//
//  1. An existing layer with the same name is replaced in place.
//  2. Unless that replacement displaced an active layer, the new element is
//     inserted adjacent to the current layer: before it for
//     Options.Position == PositionPrevious, after it otherwise.
//  3. "added" fires, the new layer is activated, and the activation result
//     becomes the container's current layer.
//
// Replacing an active layer skips the positional insertion because the
// in-place swap already occupies the correct slot; inserting as well would
// duplicate the element. Canceling the "add" notification aborts before any
// tree mutation. Returns the new layer, or nil when aborted.
func (c *Container) Add(src any, opts Options) *Layer {
	el, err := c.layerElement(src)
	if err != nil {
		c.eng.log.Error("container add rejected", "error", err)
		return nil
	}

	layer := c.eng.Layer(el)

	ev := &AddEvent{Container: c, Layer: layer, Options: opts}
	if !c.eng.bus.Propose(ev) {
		return nil
	}

	replacedActive := false
	for old := range c.Layers() {
		if old == layer || !old.Equals(layer) {
			continue
		}
		wasActive := old.Active()
		old.el.ReplaceWith(layer.el)
		c.eng.release(old.el)
		replacedActive = wasActive
		break
	}

	if !replacedActive {
		c.insertAdjacent(layer, opts)
	}

	c.eng.bus.Publish(&AddedEvent{Container: c, Layer: layer, Options: opts})

	c.current = layer.Activate(opts)
	return layer
}

// insertAdjacent places el next to the current layer, or appends when the
// container has no usable anchor.
func (c *Container) insertAdjacent(layer *Layer, opts Options) {
	anchor := c.current
	if anchor == nil || anchor.el.Parent() != c.el {
		c.el.AppendChild(layer.el)
		return
	}
	if opts.Position == PositionPrevious {
		c.el.InsertBefore(layer.el, anchor.el)
	} else {
		c.el.InsertAfter(layer.el, anchor.el)
	}
}

// layerElement builds the new layer's element from a fragment string or a
// ready element node.
func (c *Container) layerElement(src any) (*dom.Node, error) {
	switch v := src.(type) {
	case *dom.Node:
		if v.Type != dom.ElementNode {
			return nil, errors.Newf("E002", "got a %s node", v.Type)
		}
		return v, nil
	case string:
		el, err := dom.ParseElement(v)
		if err != nil {
			return nil, errors.Wrap("E002", err)
		}
		return el, nil
	case []byte:
		el, err := dom.ParseElement(string(v))
		if err != nil {
			return nil, errors.Wrap("E002", err)
		}
		return el, nil
	default:
		return nil, errors.Newf("E002", "unsupported layer source %T", src)
	}
}
