package server

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stratum-ui/stratum/internal/errors"
	"github.com/stratum-ui/stratum/pkg/dom"
	"github.com/stratum-ui/stratum/pkg/fragment"
	"github.com/stratum-ui/stratum/pkg/protocol"
)

const testDocument = `<html><body>
	<div data-container>
		<section data-layer="home" class="active">
			<a href="/next" data-fetch>next</a>
		</section>
	</div>
</body></html>`

// newTestSession builds a connection-less session whose event loop is driven
// by hand: the test runs queued work itself instead of starting run.
func newTestSession(t *testing.T, doc string, src fragment.Source) *Session {
	t.Helper()
	cfg := Config{Document: doc, Source: src}.withDefaults()
	s, err := newSession(nil, cfg, newMetrics(), cfg.Logger)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// runWork executes one queued dispatcher callback on the test goroutine and
// flushes, the same way the event loop would.
func (s *Session) runWork(t *testing.T) {
	t.Helper()
	select {
	case fn := <-s.work:
		fn()
		s.flush()
	case <-time.After(2 * time.Second):
		t.Fatal("no work arrived on the session loop")
	}
}

// takeFrame pops one queued outbound frame.
func takeFrame(t *testing.T, s *Session) *protocol.Frame {
	t.Helper()
	select {
	case data := <-s.out:
		frame, err := protocol.Decode(data)
		if err != nil {
			t.Fatalf("decode outbound frame: %v", err)
		}
		return frame
	default:
		t.Fatal("no outbound frame queued")
		return nil
	}
}

func noFrames(t *testing.T, s *Session) {
	t.Helper()
	select {
	case data := <-s.out:
		frame, _ := protocol.Decode(data)
		t.Fatalf("unexpected outbound frame %s", frame.Type)
	default:
	}
}

func staticSource(body string) fragment.Source {
	return fragment.SourceFunc(func(context.Context, fragment.Request) ([]byte, error) {
		return []byte(body), nil
	})
}

func nodeID(t *testing.T, s *Session, selector string) string {
	t.Helper()
	el := s.eng.Root().Query(selector)
	if el == nil {
		t.Fatalf("no element for %q", selector)
	}
	return el.AttrOr(AttrNodeID, "")
}

func TestSessionClickProducesSwap(t *testing.T) {
	s := newTestSession(t, testDocument,
		staticSource(`<section data-layer="detail">fetched</section>`))

	s.handleEvent(&protocol.Event{
		Kind: protocol.EventClick,
		Node: nodeID(t, s, "a"),
	})
	s.flush()
	noFrames(t, s) // fetch still in flight
	s.runWork(t)

	frame := takeFrame(t, s)
	if frame.Type != protocol.FrameSwap {
		t.Fatalf("frame type = %s", frame.Type)
	}
	var swap protocol.Swap
	if err := frame.DecodePayload(&swap); err != nil {
		t.Fatalf("payload: %v", err)
	}
	container := s.eng.Root().Query("[data-container]")
	if swap.Container != container.AttrOr(AttrNodeID, "") {
		t.Errorf("swap addressed %q", swap.Container)
	}
	if !strings.Contains(swap.HTML, `data-layer="detail"`) {
		t.Errorf("swap html = %q", swap.HTML)
	}
	if !strings.Contains(swap.HTML, AttrNodeID) {
		t.Error("swapped-in elements must carry wire ids")
	}
}

func TestSessionActivationPushesHistory(t *testing.T) {
	s := newTestSession(t, testDocument,
		staticSource(`<section data-layer="detail" data-url="/detail" data-title="Detail"></section>`))

	s.handleEvent(&protocol.Event{
		Kind: protocol.EventClick,
		Node: nodeID(t, s, "a"),
	})
	s.runWork(t)

	// The history push happens during reconciliation, before the flush
	// renders the swap.
	frame := takeFrame(t, s)
	if frame.Type != protocol.FrameHistory {
		t.Fatalf("first frame = %s", frame.Type)
	}
	var push protocol.HistoryPush
	if err := frame.DecodePayload(&push); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if push.URL != "/detail" || push.Title != "Detail" {
		t.Errorf("push = %+v", push)
	}
	if frame := takeFrame(t, s); frame.Type != protocol.FrameSwap {
		t.Errorf("second frame = %s", frame.Type)
	}
}

func TestSessionUnknownNodeReportsError(t *testing.T) {
	s := newTestSession(t, testDocument, nil)

	s.handleEvent(&protocol.Event{Kind: protocol.EventClick, Node: "s999"})

	frame := takeFrame(t, s)
	if frame.Type != protocol.FrameError {
		t.Fatalf("frame type = %s", frame.Type)
	}
	var msg protocol.ErrorMessage
	if err := frame.DecodePayload(&msg); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if msg.Code != protocol.ErrNodeNotFound {
		t.Errorf("code = %s", msg.Code)
	}
}

func TestSessionUnknownEventKindReportsError(t *testing.T) {
	s := newTestSession(t, testDocument, nil)

	s.handleEvent(&protocol.Event{Kind: "drag"})

	frame := takeFrame(t, s)
	if frame.Type != protocol.FrameError {
		t.Fatalf("frame type = %s", frame.Type)
	}
	var msg protocol.ErrorMessage
	if err := frame.DecodePayload(&msg); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if msg.Code != protocol.ErrInvalidEvent {
		t.Errorf("code = %s", msg.Code)
	}
}

func TestProtocolFailuresCarryRegistryCodes(t *testing.T) {
	s := newTestSession(t, testDocument, nil)

	s.sendError(errors.Wrap("E101", protocol.ErrEmptyFrame))

	frame := takeFrame(t, s)
	if frame.Type != protocol.FrameError {
		t.Fatalf("frame type = %s", frame.Type)
	}
	var msg protocol.ErrorMessage
	if err := frame.DecodePayload(&msg); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if msg.Code != protocol.ErrInvalidFrame {
		t.Errorf("wire code = %s", msg.Code)
	}
	if !strings.HasPrefix(msg.Message, "E101: ") {
		t.Errorf("message = %q, want registry code prefix", msg.Message)
	}
}

func TestWireCodeMapping(t *testing.T) {
	tests := []struct {
		code string
		want protocol.ErrorCode
	}{
		{"E101", protocol.ErrInvalidFrame},
		{"E102", protocol.ErrInvalidEvent},
		{"E103", protocol.ErrNodeNotFound},
		{"E203", protocol.ErrUnknown},
	}
	for _, tt := range tests {
		if got := wireCode(errors.New(tt.code)); got != tt.want {
			t.Errorf("wireCode(%s) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestSessionPopStateOnlyReports(t *testing.T) {
	s := newTestSession(t, testDocument, nil)
	before := dom.Render(s.eng.Root())

	s.handleEvent(&protocol.Event{
		Kind: protocol.EventPopState,
		URL:  "/back",
	})
	s.flush()

	noFrames(t, s)
	if dom.Render(s.eng.Root()) != before {
		t.Error("popstate must not mutate the tree")
	}
}

func TestSessionSubmitCarriesFormValues(t *testing.T) {
	var got fragment.Request
	src := fragment.SourceFunc(func(_ context.Context, req fragment.Request) ([]byte, error) {
		got = req
		return []byte(`<section data-layer="results"></section>`), nil
	})
	s := newTestSession(t, `<html><body>
		<div data-container>
			<form action="/search" data-fetch></form>
		</div>
	</body></html>`, src)

	s.handleEvent(&protocol.Event{
		Kind: protocol.EventSubmit,
		Node: nodeID(t, s, "form"),
		Form: map[string][]string{"q": {"layers"}},
	})
	s.runWork(t)

	if got.URL != "/search" || got.Method != "GET" {
		t.Errorf("request = %+v", got)
	}
	if got.Form.Get("q") != "layers" {
		t.Errorf("form = %v", got.Form)
	}
}

func TestSessionSlowClientIsClosed(t *testing.T) {
	cfg := Config{Document: testDocument, SendBuffer: 1}.withDefaults()
	s, err := newSession(nil, cfg, newMetrics(), cfg.Logger)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer s.Close()

	s.send([]byte{1})
	s.send([]byte{2})

	select {
	case <-s.Done():
	default:
		t.Error("session with a full send queue must be closed")
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s := newTestSession(t, testDocument, nil)
	s.Close()
	s.Close()
	select {
	case <-s.Done():
	default:
		t.Error("Done must be closed after Close")
	}
}
