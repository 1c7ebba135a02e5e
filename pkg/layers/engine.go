package layers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/stratum-ui/stratum/pkg/bus"
	"github.com/stratum-ui/stratum/pkg/dom"
	"github.com/stratum-ui/stratum/pkg/fragment"
)

// Engine owns the wrapper registry for one document tree and wires
// containers to their collaborators: the notification bus, the fragment
// source, the logger, and the dispatcher that posts fetch completions back
// to the tree's event loop.
type Engine struct {
	root     *dom.Node
	bus      *bus.Bus
	log      *slog.Logger
	source   fragment.Source
	dispatch func(func())

	mu         sync.Mutex
	layers     map[*dom.Node]*Layer
	containers map[*dom.Node]*Container
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithSource sets the fragment source used by container requests.
func WithSource(src fragment.Source) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithDispatcher sets the function that runs fetch completions. A session
// server posts them to its event loop so all tree mutation happens there.
// The default runs completions directly on the fetching goroutine, which is
// only safe when nothing else touches the tree concurrently.
func WithDispatcher(dispatch func(func())) Option {
	return func(e *Engine) {
		e.dispatch = dispatch
	}
}

// New creates an engine over the given tree root.
func New(root *dom.Node, opts ...Option) *Engine {
	e := &Engine{
		root:       root,
		bus:        bus.New(),
		log:        slog.Default(),
		dispatch:   func(fn func()) { fn() },
		layers:     make(map[*dom.Node]*Layer),
		containers: make(map[*dom.Node]*Container),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Root returns the tree root the engine operates on.
func (e *Engine) Root() *dom.Node {
	return e.root
}

// Bus returns the engine's notification bus.
func (e *Engine) Bus() *bus.Bus {
	return e.bus
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.log
}

// Layer returns the layer wrapper for el, constructing and caching it on
// first use. An element without the data-layer attribute still yields a
// usable wrapper; the missing name is reported, and the nameless layer will
// never equal a named one.
func (e *Engine) Layer(el *dom.Node) *Layer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.layers[el]; ok {
		return l
	}
	name, ok := el.Attr(AttrLayer)
	if !ok {
		e.log.Error("layer element is missing the name attribute",
			"code", "E003", "attr", AttrLayer, "tag", el.Tag)
	}
	l := &Layer{eng: e, el: el, name: name}
	e.layers[el] = l
	return l
}

// Container returns the container wrapper for el, constructing and caching
// it on first use. Construction records the first child layer, if any, as
// the container's current layer.
func (e *Engine) Container(el *dom.Node) *Container {
	e.mu.Lock()
	c, ok := e.containers[el]
	e.mu.Unlock()
	if ok {
		return c
	}
	c = &Container{eng: e, el: el}
	if first := firstLayerChild(el); first != nil {
		c.current = e.Layer(first)
	}
	e.mu.Lock()
	// Another constructor may have won the race; keep the cached one.
	if cached, ok := e.containers[el]; ok {
		c = cached
	} else {
		e.containers[el] = c
	}
	e.mu.Unlock()
	return c
}

// ContainerFor resolves the nearest container for el: el itself when it
// carries the container marker, else its closest marked ancestor. Returns
// nil when no ancestor is a container.
func (e *Engine) ContainerFor(el *dom.Node) *Container {
	host := el.Closest(func(n *dom.Node) bool {
		return n.HasAttr(AttrContainer)
	})
	if host == nil {
		return nil
	}
	return e.Container(host)
}

// release drops cached wrappers for el and its whole subtree. Called when an
// element is replaced out of the tree so the registry never outlives the
// structure it mirrors.
func (e *Engine) release(el *dom.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	el.Walk(func(n *dom.Node) bool {
		delete(e.layers, n)
		delete(e.containers, n)
		return true
	})
}

// Call is the programmatic attach-to-element entry point. It resolves the
// container associated with el and dispatches the named method against it.
// An empty method returns the container itself.
//
//	c, _ := eng.Call(el, "")                   // attach
//	eng.Call(el, "request", "/panel", opts)    // fetch into the container
//	eng.Call(el, "add", "<div data-layer=…>")  // reconcile directly
func (e *Engine) Call(el *dom.Node, method string, args ...any) (any, error) {
	c := e.ContainerFor(el)
	if c == nil {
		return nil, fmt.Errorf("layers: element <%s> has no associated container", el.Tag)
	}
	switch method {
	case "":
		return c, nil
	case "request":
		url, opts, err := callArgs(method, args)
		if err != nil {
			return nil, err
		}
		c.Request(context.Background(), url, opts)
		return nil, nil
	case "add":
		if len(args) == 0 {
			return nil, fmt.Errorf("layers: call %q needs a layer source", method)
		}
		var opts Options
		if len(args) > 1 {
			o, ok := args[1].(Options)
			if !ok {
				return nil, fmt.Errorf("layers: call %q: second argument must be Options", method)
			}
			opts = o
		}
		return c.Add(args[0], opts), nil
	case "current":
		return c.Current(), nil
	default:
		return nil, fmt.Errorf("layers: unknown method %q", method)
	}
}

// callArgs extracts the (url, options) pair used by the request method.
func callArgs(method string, args []any) (string, Options, error) {
	if len(args) == 0 {
		return "", Options{}, fmt.Errorf("layers: call %q needs a url", method)
	}
	url, ok := args[0].(string)
	if !ok {
		return "", Options{}, fmt.Errorf("layers: call %q: first argument must be a url string", method)
	}
	var opts Options
	if len(args) > 1 {
		o, ok := args[1].(Options)
		if !ok {
			return "", Options{}, fmt.Errorf("layers: call %q: second argument must be Options", method)
		}
		opts = o
	}
	return url, opts, nil
}

// firstLayerChild returns el's first element child carrying the layer
// marker, or nil.
func firstLayerChild(el *dom.Node) *dom.Node {
	for _, c := range el.ChildElements() {
		if c.HasAttr(AttrLayer) {
			return c
		}
	}
	return nil
}
