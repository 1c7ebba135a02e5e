// Package bus implements the notification surface for stratum's lifecycle
// events.
//
// Operations are bracketed by a cancelable "before" notification and a
// non-cancelable "after" notification. Cancellation is message passing with
// a boolean veto: every subscriber still runs, any of them may cancel, and
// the emitter checks the flag before proceeding. It is preventive, not
// transactional: side effects of earlier steps are never rolled back.
package bus

import "sync"

// Event is a structured notification payload.
type Event interface {
	// Topic names the notification (e.g. "activate", "requestdone").
	Topic() string
}

// Cancelable is implemented by events whose emission may be vetoed.
type Cancelable interface {
	Event
	Cancel()
	Canceled() bool
}

// Veto carries cancellation state. Embed it in an event type to make the
// event cancelable.
type Veto struct {
	canceled bool
}

// Cancel vetoes the operation the event announces.
func (v *Veto) Cancel() { v.canceled = true }

// Canceled reports whether any subscriber vetoed the operation.
func (v *Veto) Canceled() bool { return v.canceled }

// HandlerFunc handles one event.
type HandlerFunc func(Event)

// wildcard subscribes a handler to every topic.
const wildcard = "*"

type subscription struct {
	id int
	fn HandlerFunc
}

// Bus is a per-engine observer registry. Subscription management is safe for
// concurrent use; dispatch is expected to run on the engine's event loop.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string][]subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[string][]subscription)}
}

// Subscribe registers fn for the given topic and returns an unsubscribe
// function.
func (b *Bus) Subscribe(topic string, fn HandlerFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, fn: fn})
	return func() { b.unsubscribe(topic, id) }
}

// SubscribeAll registers fn for every topic and returns an unsubscribe
// function.
func (b *Bus) SubscribeAll(fn HandlerFunc) func() {
	return b.Subscribe(wildcard, fn)
}

func (b *Bus) unsubscribe(topic string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[topic]
	for i, s := range subs {
		if s.id == id {
			b.handlers[topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// snapshot copies the handler list for a topic so dispatch does not hold the
// lock while handlers run.
func (b *Bus) snapshot(topic string) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	subs := b.handlers[topic]
	wild := b.handlers[wildcard]
	if len(subs) == 0 && len(wild) == 0 {
		return nil
	}
	out := make([]subscription, 0, len(subs)+len(wild))
	out = append(out, subs...)
	out = append(out, wild...)
	return out
}

// Publish emits a non-cancelable notification to every subscriber of the
// event's topic.
func (b *Bus) Publish(e Event) {
	for _, s := range b.snapshot(e.Topic()) {
		s.fn(e)
	}
}

// Propose emits a cancelable "before" notification. Every subscriber runs
// even after a veto; Propose returns false if any subscriber canceled.
func (b *Bus) Propose(e Cancelable) bool {
	for _, s := range b.snapshot(e.Topic()) {
		s.fn(e)
	}
	return !e.Canceled()
}
