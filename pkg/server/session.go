package server

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/stratum-ui/stratum/internal/errors"
	"github.com/stratum-ui/stratum/pkg/bridge"
	"github.com/stratum-ui/stratum/pkg/bus"
	"github.com/stratum-ui/stratum/pkg/dom"
	"github.com/stratum-ui/stratum/pkg/history"
	"github.com/stratum-ui/stratum/pkg/layers"
	"github.com/stratum-ui/stratum/pkg/protocol"
)

// Session is one connected client: a document tree, its layers engine, and
// the WebSocket moving frames in and out. All tree mutation happens on the
// session's event loop goroutine.
type Session struct {
	ID        string
	CreatedAt time.Time

	cfg  Config
	log  *slog.Logger
	conn *websocket.Conn
	m    *metrics

	eng *layers.Engine
	br  *bridge.Bridge
	gen idGenerator

	ctx    context.Context
	cancel context.CancelFunc

	events chan *protocol.Event
	work   chan func()
	out    chan []byte

	closeOnce sync.Once

	// dirty tracks containers touched since the last flush. Only the event
	// loop reads or writes it.
	dirty map[*layers.Container]struct{}
}

// newSession builds a session over its own copy of the host document.
func newSession(conn *websocket.Conn, cfg Config, m *metrics, log *slog.Logger) (*Session, error) {
	root, err := dom.ParseDocument(cfg.Document)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		cfg:       cfg,
		conn:      conn,
		m:         m,
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan *protocol.Event, 32),
		work:      make(chan func(), 32),
		out:       make(chan []byte, cfg.SendBuffer),
		dirty:     make(map[*layers.Container]struct{}),
	}
	s.log = log.With("session", s.ID)

	s.eng = layers.New(root,
		layers.WithLogger(s.log),
		layers.WithSource(cfg.Source),
		layers.WithDispatcher(s.Dispatch),
	)
	s.br = bridge.New(s.eng, history.RecorderFunc(s.pushHistory))

	b := s.eng.Bus()
	b.Subscribe(layers.TopicAdded, s.onTreeChange)
	b.Subscribe(layers.TopicActivated, s.onTreeChange)
	b.Subscribe(layers.TopicDeactivated, s.onTreeChange)
	b.Subscribe(layers.TopicRequestFail, func(bus.Event) { s.m.fetchFailures.Inc() })

	ensureIDs(root, &s.gen)
	return s, nil
}

// Engine returns the session's layers engine.
func (s *Session) Engine() *layers.Engine {
	return s.eng
}

// Dispatch posts fn to the session event loop. Work posted after close is
// dropped.
func (s *Session) Dispatch(fn func()) {
	select {
	case s.work <- fn:
	case <-s.ctx.Done():
	}
}

// Done is closed when the session shuts down.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Close tears the session down. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.br.Close()
		if s.conn != nil {
			s.conn.Close()
		}
		s.m.sessionsActive.Dec()
		s.log.Info("session closed")
	})
}

// run is the event loop. It owns every mutation of the session tree.
func (s *Session) run() {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
			s.flush()
		case fn := <-s.work:
			fn()
			s.flush()
		case <-s.ctx.Done():
			return
		}
	}
}

// handleEvent routes one client event through the bridge.
func (s *Session) handleEvent(ev *protocol.Event) {
	start := time.Now()
	defer func() {
		s.m.eventDuration.Observe(time.Since(start).Seconds())
	}()
	s.m.eventsTotal.WithLabelValues(string(ev.Kind)).Inc()

	switch ev.Kind {
	case protocol.EventClick:
		node := findByID(s.eng.Root(), ev.Node)
		if node == nil {
			s.sendError(errors.Newf("E103", "no element for id %s", ev.Node))
			return
		}
		s.br.Click(s.ctx, node)
	case protocol.EventSubmit:
		node := findByID(s.eng.Root(), ev.Node)
		if node == nil {
			s.sendError(errors.Newf("E103", "no element for id %s", ev.Node))
			return
		}
		s.br.Submit(s.ctx, node, url.Values(ev.Form))
	case protocol.EventPopState:
		s.br.Pop(history.Entry{URL: ev.URL, Title: ev.Title})
	default:
		s.sendError(errors.Newf("E102", "unknown event kind %q", ev.Kind))
	}
}

// onTreeChange marks the affected container dirty for the next flush.
func (s *Session) onTreeChange(e bus.Event) {
	switch ev := e.(type) {
	case *layers.AddedEvent:
		s.markDirty(ev.Container)
	case *layers.ActivatedEvent:
		s.markDirty(ev.Layer.Container())
	case *layers.DeactivatedEvent:
		s.markDirty(ev.Layer.Container())
	}
}

func (s *Session) markDirty(c *layers.Container) {
	if c != nil {
		s.dirty[c] = struct{}{}
	}
}

// flush renders each dirty container's children into one swap frame.
func (s *Session) flush() {
	for c := range s.dirty {
		el := c.Element()
		ensureIDs(el, &s.gen)
		id := el.AttrOr(AttrNodeID, "")
		if id == "" {
			// Container detached before the flush ran; nothing to address.
			continue
		}
		data, err := protocol.Encode(protocol.FrameSwap, &protocol.Swap{
			Container: id,
			HTML:      dom.RenderChildren(el),
		})
		if err != nil {
			s.log.Error("encode swap frame", "error", err)
			continue
		}
		s.send(data)
		s.m.swapsTotal.Inc()
	}
	clear(s.dirty)
}

// pushHistory forwards a history entry from the bridge to the client.
func (s *Session) pushHistory(e history.Entry) {
	data, err := protocol.Encode(protocol.FrameHistory, &protocol.HistoryPush{
		URL:   e.URL,
		Title: e.Title,
	})
	if err != nil {
		s.log.Error("encode history frame", "error", err)
		return
	}
	s.send(data)
}

// sendError reports a protocol-level problem to the client. The registry
// error carries the stable code; wireCode translates it for the frame.
func (s *Session) sendError(e *errors.Error) {
	s.log.Warn("protocol error", "error", e)
	data, err := protocol.Encode(protocol.FrameError, &protocol.ErrorMessage{
		Code:    wireCode(e),
		Message: e.Error(),
	})
	if err != nil {
		return
	}
	s.send(data)
}

// wireCode maps a registry error to the code sent on the wire.
func wireCode(e *errors.Error) protocol.ErrorCode {
	switch e.Code {
	case "E101":
		return protocol.ErrInvalidFrame
	case "E102":
		return protocol.ErrInvalidEvent
	case "E103":
		return protocol.ErrNodeNotFound
	default:
		return protocol.ErrUnknown
	}
}

// send queues one outbound frame. A client too slow to drain its queue is
// closed rather than allowed to stall the event loop.
func (s *Session) send(data []byte) {
	select {
	case s.out <- data:
	case <-s.ctx.Done():
	default:
		s.log.Warn("client too slow, closing", "queued", len(s.out))
		s.Close()
	}
}

// writePump moves queued frames onto the wire.
func (s *Session) writePump() {
	for {
		select {
		case data := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				s.m.writeErrors.Inc()
				s.log.Debug("write failed", "error", err)
				s.Close()
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// readPump decodes inbound frames and feeds events to the loop. It returns
// when the connection dies, which tears the session down.
func (s *Session) readPump() {
	defer s.Close()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		frame, err := protocol.Decode(data)
		if err != nil {
			s.sendError(errors.Wrap("E101", err))
			continue
		}
		switch frame.Type {
		case protocol.FrameEvent:
			var ev protocol.Event
			if err := frame.DecodePayload(&ev); err != nil {
				s.sendError(errors.Wrap("E102", err))
				continue
			}
			select {
			case s.events <- &ev:
			case <-s.ctx.Done():
				return
			}
		case protocol.FrameHello:
			// Duplicate hello after handshake; harmless.
		default:
			s.log.Debug("ignoring frame", "type", frame.Type.String())
		}
	}
}
