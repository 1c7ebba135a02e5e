// Package server hosts stratum sessions over WebSocket.
//
// Each connection gets a Session owning one document tree and its layers
// engine. A single event-loop goroutine per session performs all tree
// mutation: intercepted DOM events arrive from the read pump, fragment
// fetch completions are posted back through the engine dispatcher, and
// after every unit of work the dirty containers are re-rendered into swap
// frames for the thin client. History pushes emitted by the bridge travel
// the same connection.
//
// The server performs no cross-session coordination; sessions are fully
// independent.
package server
