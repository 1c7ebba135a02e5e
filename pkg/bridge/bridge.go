// Package bridge glues host interaction events to container requests and
// layer activations to history pushes.
//
// The host (the session server, or a test harness) reports intercepted
// clicks, form submits, and history pops to a Bridge. The bridge resolves
// the target container, builds the request options from the triggering
// element's attributes, and dispatches Container.Request. In the other
// direction it subscribes to "activated" notifications and pushes a history
// entry whenever the activated layer carries a navigation URL.
package bridge

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/stratum-ui/stratum/pkg/bus"
	"github.com/stratum-ui/stratum/pkg/dom"
	"github.com/stratum-ui/stratum/pkg/history"
	"github.com/stratum-ui/stratum/pkg/layers"
)

// Bridge wires one engine to one history recorder.
type Bridge struct {
	eng    *layers.Engine
	rec    history.Recorder
	log    *slog.Logger
	unbind func()
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge logger. Defaults to the engine's logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Bridge) {
		b.log = log
	}
}

// New creates a bridge and subscribes it to the engine's "activated"
// notifications. rec may be nil, in which case activations are not mirrored
// into history.
func New(eng *layers.Engine, rec history.Recorder, opts ...Option) *Bridge {
	b := &Bridge{eng: eng, rec: rec, log: eng.Logger()}
	for _, opt := range opts {
		opt(b)
	}
	b.unbind = eng.Bus().Subscribe(layers.TopicActivated, b.onActivated)
	return b
}

// Close unsubscribes the bridge from the engine's bus.
func (b *Bridge) Close() {
	if b.unbind != nil {
		b.unbind()
		b.unbind = nil
	}
}

// onActivated pushes a history entry for an activated layer carrying a
// navigation URL. A layer without one is skipped on purpose: not every
// activation is a navigation.
func (b *Bridge) onActivated(e bus.Event) {
	ev, ok := e.(*layers.ActivatedEvent)
	if !ok || b.rec == nil {
		return
	}
	el := ev.Layer.Element()
	navURL, ok := el.Attr(layers.AttrURL)
	if !ok {
		return
	}
	title := el.AttrOr(layers.AttrTitle, ev.Options.Title)
	b.rec.Push(history.Entry{
		URL:     navURL,
		Title:   title,
		Options: ev.Options,
	})
}

// Click handles an intercepted click on el. It returns true when the click
// was dispatched as a container request, meaning the host must suppress the
// native action. Elements without the fetch marker are left to the browser.
func (b *Bridge) Click(ctx context.Context, el *dom.Node) bool {
	if !el.HasAttr(layers.AttrFetch) {
		return false
	}
	c := b.resolveTarget(el)
	if c == nil {
		return false
	}
	href, ok := el.Attr("href")
	if !ok || href == "" {
		b.log.Warn("fetch link has no href", "tag", el.Tag)
		return false
	}
	c.Request(ctx, href, layers.Options{
		Position: el.AttrOr(layers.AttrPosition, ""),
	})
	return true
}

// Submit handles an intercepted submit of the form el with the given form
// values. The form's method attribute is captured, defaulting to GET. It
// returns true when the submit was dispatched as a container request.
func (b *Bridge) Submit(ctx context.Context, el *dom.Node, form url.Values) bool {
	if !el.HasAttr(layers.AttrFetch) {
		return false
	}
	c := b.resolveTarget(el)
	if c == nil {
		return false
	}
	action, ok := el.Attr("action")
	if !ok || action == "" {
		b.log.Warn("fetch form has no action", "tag", el.Tag)
		return false
	}
	method := strings.ToUpper(el.AttrOr("method", ""))
	if method == "" {
		method = "GET"
	}
	c.Request(ctx, action, layers.Options{
		Method:   method,
		Form:     form,
		Position: el.AttrOr(layers.AttrPosition, ""),
	})
	return true
}

// Pop handles a history navigation event (back/forward, programmatic
// restore). The resulting state is reported and nothing else happens: no
// content re-fetch is performed on pops.
func (b *Bridge) Pop(e history.Entry) {
	b.log.Info("history state restored", "url", e.URL, "title", e.Title)
}

// resolveTarget finds the container a triggering element addresses: an
// explicit data-target selector override, or the nearest ancestor marked as
// a container.
func (b *Bridge) resolveTarget(el *dom.Node) *layers.Container {
	if sel, ok := el.Attr(layers.AttrTarget); ok && sel != "" {
		host := b.eng.Root().Query(sel)
		if host == nil {
			b.log.Warn("fetch target selector matched nothing", "selector", sel)
			return nil
		}
		return b.eng.Container(host)
	}
	c := b.eng.ContainerFor(el)
	if c == nil {
		b.log.Warn("fetch element has no ancestor container", "tag", el.Tag)
	}
	return c
}
