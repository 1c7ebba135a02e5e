// Package history mirrors layer activations into the host's history
// mechanism.
//
// The engine never owns browser history; it only emits entries toward a
// Recorder supplied by the host. In the session server the recorder turns
// entries into push frames for the thin client; in tests a Memory recorder
// captures them.
package history

import "sync"

// Entry is one history push: the activated layer's navigation URL, a title,
// and the options that accompanied the activation.
type Entry struct {
	URL     string
	Title   string
	Options any
}

// Recorder receives history pushes.
type Recorder interface {
	Push(e Entry)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(e Entry)

// Push implements Recorder.
func (f RecorderFunc) Push(e Entry) { f(e) }

// Memory records entries in order. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// Push implements Recorder.
func (m *Memory) Push(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

// Entries returns a copy of the recorded entries.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of recorded entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
