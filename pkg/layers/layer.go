package layers

import "github.com/stratum-ui/stratum/pkg/dom"

// Layer wraps one element carrying the data-layer marker. The wrapper holds
// a borrowed reference into the host tree; the active flag is derived from
// the element's class list and never stored separately.
type Layer struct {
	eng  *Engine
	el   *dom.Node
	name string
}

// Element returns the host element.
func (l *Layer) Element() *dom.Node {
	return l.el
}

// Name returns the layer name. Empty for an element missing the name
// attribute.
func (l *Layer) Name() string {
	return l.name
}

// Active reports whether the element carries the active marker class.
func (l *Layer) Active() bool {
	return l.el.HasClass(ActiveClass)
}

// disabled reports disabled state following the standard conventions: a
// disabled attribute or the disabled class.
func (l *Layer) disabled() bool {
	return l.el.HasAttr("disabled") || l.el.HasClass(DisabledClass)
}

// Equals reports logical identity: two layers are the same iff their names
// are equal. Element identity is irrelevant, which is what makes
// replace-in-place reconciliation possible. A nameless layer equals nothing.
func (l *Layer) Equals(other *Layer) bool {
	if other == nil || l.name == "" {
		return false
	}
	return l.name == other.name
}

// Container returns the container wrapper owning this layer, or nil for a
// detached layer.
func (l *Layer) Container() *Container {
	parent := l.el.Parent()
	if parent == nil {
		return nil
	}
	return l.eng.ContainerFor(parent)
}

// Activate makes this layer the container's active one. Every sibling layer
// is deactivated first, then the active marker is set and "activated" fires.
//
// A layer that is already active and disabled refuses silently and returns
// nil. A canceled "activate" notification aborts the transition and returns
// the layer unchanged. Otherwise the layer itself is returned as the
// container's new current layer.
func (l *Layer) Activate(opts Options) *Layer {
	if l.Active() && l.disabled() {
		return nil
	}

	ev := &ActivateEvent{Layer: l, Options: opts}
	if !l.eng.bus.Propose(ev) {
		return l
	}

	for _, sib := range l.siblings() {
		if sib != l {
			sib.Deactivate(opts)
		}
	}

	l.el.AddClass(ActiveClass)
	l.eng.bus.Publish(&ActivatedEvent{Layer: l, Options: opts})
	return l
}

// Deactivate clears the layer's active state. Idempotent: an inactive layer
// emits nothing. A canceled "deactivate" notification aborts the transition.
func (l *Layer) Deactivate(opts Options) {
	if !l.Active() {
		return
	}

	ev := &DeactivateEvent{Layer: l, Options: opts}
	if !l.eng.bus.Propose(ev) {
		return
	}

	l.el.RemoveClass(ActiveClass)
	l.eng.bus.Publish(&DeactivatedEvent{Layer: l, Options: opts})
}

// siblings returns every layer sharing this layer's parent, including the
// receiver, in document order. A detached layer has no siblings.
func (l *Layer) siblings() []*Layer {
	parent := l.el.Parent()
	if parent == nil {
		return nil
	}
	var out []*Layer
	for _, el := range parent.ChildElements() {
		if el.HasAttr(AttrLayer) {
			out = append(out, l.eng.Layer(el))
		}
	}
	return out
}
