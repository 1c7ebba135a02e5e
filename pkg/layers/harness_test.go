package layers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stratum-ui/stratum/pkg/bus"
	"github.com/stratum-ui/stratum/pkg/dom"
	"github.com/stratum-ui/stratum/pkg/fragment"
)

// harness runs an engine with a scripted fragment source and a deterministic
// dispatcher: fetch completions queue up and run only when the test calls
// settle, mirroring the strictly-after-unwind completion model.
type harness struct {
	t       *testing.T
	eng     *Engine
	root    *dom.Node
	pending chan func()

	mu      sync.Mutex
	fetched []fragment.Request
	respond func(req fragment.Request) ([]byte, error)
}

func newHarness(t *testing.T, rootHTML string) *harness {
	t.Helper()
	root, err := dom.ParseElement(rootHTML)
	if err != nil {
		t.Fatalf("parse root: %v", err)
	}
	h := &harness{
		t:       t,
		root:    root,
		pending: make(chan func(), 8),
	}
	h.eng = New(root,
		WithLogger(slog.Default()),
		WithSource(fragment.SourceFunc(h.fetch)),
		WithDispatcher(func(fn func()) { h.pending <- fn }),
	)
	return h
}

func (h *harness) fetch(_ context.Context, req fragment.Request) ([]byte, error) {
	h.mu.Lock()
	h.fetched = append(h.fetched, req)
	respond := h.respond
	h.mu.Unlock()
	if respond == nil {
		return nil, errors.New("no scripted response")
	}
	return respond(req)
}

// fetches returns a copy of the requests seen so far.
func (h *harness) fetches() []fragment.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]fragment.Request(nil), h.fetched...)
}

// settle waits for one queued completion and runs it on the test goroutine.
func (h *harness) settle() {
	h.t.Helper()
	select {
	case fn := <-h.pending:
		fn()
	case <-time.After(2 * time.Second):
		h.t.Fatal("no fetch completion arrived")
	}
}

// settleNone asserts that no completion is queued.
func (h *harness) settleNone() {
	h.t.Helper()
	select {
	case <-h.pending:
		h.t.Fatal("unexpected fetch completion")
	case <-time.After(50 * time.Millisecond):
	}
}

// record captures every topic published on the bus, in order.
func (h *harness) record() *[]string {
	topics := &[]string{}
	h.eng.Bus().SubscribeAll(func(e bus.Event) {
		*topics = append(*topics, e.Topic())
	})
	return topics
}

// container returns the wrapper for the first container element in the tree.
func (h *harness) container() *Container {
	h.t.Helper()
	el := h.root.Closest(func(n *dom.Node) bool { return n.HasAttr(AttrContainer) })
	if el == nil {
		el = h.root.Query("[" + AttrContainer + "]")
	}
	if el == nil {
		h.t.Fatal("no container element in tree")
	}
	return h.eng.Container(el)
}

// layerNames lists the container's child layer names in document order.
func layerNames(c *Container) []string {
	var out []string
	for l := range c.Layers() {
		out = append(out, l.Name())
	}
	return out
}

// activeNames lists names of layers currently carrying the active class.
func activeNames(c *Container) []string {
	var out []string
	for l := range c.Layers() {
		if l.Active() {
			out = append(out, l.Name())
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
