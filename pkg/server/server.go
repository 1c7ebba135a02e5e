package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/stratum-ui/stratum/pkg/dom"
	"github.com/stratum-ui/stratum/pkg/protocol"
)

// handshakeTimeout bounds the wait for the client's Hello frame.
const handshakeTimeout = 10 * time.Second

// Server accepts WebSocket connections and runs one Session per client.
type Server struct {
	cfg      Config
	log      *slog.Logger
	m        *metrics
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
}

// New creates a server from the given config.
func New(cfg Config) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		cfg:      cfg,
		log:      cfg.Logger,
		m:        newMetrics(),
		sessions: make(map[string]*Session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if cfg.CheckOrigin != nil {
				return cfg.CheckOrigin(r.Header.Get("Origin"), r.Host)
			}
			return true
		},
	}
	return s
}

// Routes returns the chi router exposing the session endpoint at /ws.
// Mount it wherever the host application wants.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/ws", s.handleWS)
	return r
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown closes every live session.
func (s *Server) Shutdown() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
}

// handleWS upgrades the connection, performs the handshake, and runs the
// session until the connection dies. The read pump keeps the HTTP handler
// goroutine occupied for the session's lifetime.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	if err := s.awaitHello(conn); err != nil {
		s.log.Warn("handshake failed", "error", err)
		conn.Close()
		return
	}

	sess, err := newSession(conn, s.cfg, s.m, s.log)
	if err != nil {
		s.log.Error("session setup failed", "error", err)
		conn.Close()
		return
	}

	s.register(sess)
	s.m.sessionsActive.Inc()
	s.m.sessionsTotal.Inc()
	sess.log.Info("session started", "remote", r.RemoteAddr)

	if err := s.sendHello(sess); err != nil {
		sess.Close()
		s.unregister(sess)
		return
	}

	go sess.writePump()
	go sess.run()
	sess.readPump()

	s.unregister(sess)
}

// awaitHello reads and validates the client's first frame.
func (s *Server) awaitHello(conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	defer conn.SetReadDeadline(time.Time{})

	_, data, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	frame, err := protocol.Decode(data)
	if err != nil {
		return err
	}
	if frame.Type != protocol.FrameHello {
		return fmt.Errorf("expected hello frame, got %s", frame.Type)
	}
	var hello protocol.Hello
	return frame.DecodePayload(&hello)
}

// sendHello delivers the server hello with the initial document rendering.
func (s *Server) sendHello(sess *Session) error {
	data, err := protocol.Encode(protocol.FrameHello, &protocol.ServerHello{
		Session:  sess.ID,
		Document: dom.Render(sess.eng.Root()),
	})
	if err != nil {
		return err
	}
	sess.send(data)
	return nil
}

func (s *Server) register(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.ID)
}
