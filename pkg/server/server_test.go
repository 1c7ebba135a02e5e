package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stratum-ui/stratum/pkg/dom"
	"github.com/stratum-ui/stratum/pkg/protocol"
)

// dialTest upgrades a client connection against a running server.
func dialTest(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func writeFrame(t *testing.T, conn *websocket.Conn, ft protocol.FrameType, payload any) {
	t.Helper()
	data, err := protocol.Encode(ft, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) *protocol.Frame {
	t.Helper()
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	frame, err := protocol.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return frame
}

func TestHandshakeAndClickRoundTrip(t *testing.T) {
	srv := New(Config{
		Document: testDocument,
		Source:   staticSource(`<section data-layer="detail">fetched</section>`),
	})
	conn := dialTest(t, srv)

	writeFrame(t, conn, protocol.FrameHello, &protocol.Hello{Protocol: 1})

	frame := readFrame(t, conn)
	if frame.Type != protocol.FrameHello {
		t.Fatalf("first frame = %s", frame.Type)
	}
	var hello protocol.ServerHello
	if err := frame.DecodePayload(&hello); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if hello.Session == "" {
		t.Fatal("server hello carries no session id")
	}
	if !strings.Contains(hello.Document, AttrNodeID) {
		t.Fatal("initial document carries no wire ids")
	}

	// Pull the link's wire id out of the hydration document.
	doc, err := dom.ParseElement(hello.Document)
	if err != nil {
		t.Fatalf("parse hydration document: %v", err)
	}
	link := doc.Query("a")
	if link == nil {
		t.Fatal("no link in hydration document")
	}

	writeFrame(t, conn, protocol.FrameEvent, &protocol.Event{
		Kind: protocol.EventClick,
		Node: link.AttrOr(AttrNodeID, ""),
	})

	frame = readFrame(t, conn)
	if frame.Type != protocol.FrameSwap {
		t.Fatalf("frame after click = %s", frame.Type)
	}
	var swap protocol.Swap
	if err := frame.DecodePayload(&swap); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if !strings.Contains(swap.HTML, `data-layer="detail"`) {
		t.Errorf("swap html = %q", swap.HTML)
	}
}

func TestHandshakeRejectsNonHelloFirstFrame(t *testing.T) {
	srv := New(Config{Document: testDocument})
	conn := dialTest(t, srv)

	writeFrame(t, conn, protocol.FrameEvent, &protocol.Event{Kind: protocol.EventClick})

	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("server must drop a connection that skips the hello")
	}
	if got := srv.SessionCount(); got != 0 {
		t.Errorf("sessions = %d", got)
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	srv := New(Config{Document: testDocument})
	conn := dialTest(t, srv)
	writeFrame(t, conn, protocol.FrameHello, &protocol.Hello{Protocol: 1})
	readFrame(t, conn) // server hello

	deadline := time.Now().Add(2 * time.Second)
	for srv.SessionCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("session never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	srv.Shutdown()

	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("shutdown must close the client connection")
	}
}
