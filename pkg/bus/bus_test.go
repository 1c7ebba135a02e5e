package bus

import "testing"

type testEvent struct {
	topic string
}

func (e *testEvent) Topic() string { return e.topic }

type cancelableEvent struct {
	Veto
	topic string
}

func (e *cancelableEvent) Topic() string { return e.topic }

func TestPublishReachesSubscribers(t *testing.T) {
	b := New()
	var got int
	b.Subscribe("x", func(Event) { got++ })
	b.Subscribe("x", func(Event) { got++ })
	b.Subscribe("y", func(Event) { t.Error("wrong topic notified") })

	b.Publish(&testEvent{topic: "x"})

	if got != 2 {
		t.Errorf("handlers run = %d, want 2", got)
	}
}

func TestProposeWithoutVeto(t *testing.T) {
	b := New()
	b.Subscribe("x", func(Event) {})

	if !b.Propose(&cancelableEvent{topic: "x"}) {
		t.Error("Propose = false without any veto")
	}
}

func TestProposeVetoed(t *testing.T) {
	b := New()
	b.Subscribe("x", func(e Event) {
		e.(Cancelable).Cancel()
	})

	if b.Propose(&cancelableEvent{topic: "x"}) {
		t.Error("Propose = true after veto")
	}
}

func TestProposeRunsEveryHandlerAfterVeto(t *testing.T) {
	b := New()
	var order []string
	b.Subscribe("x", func(e Event) {
		order = append(order, "first")
		e.(Cancelable).Cancel()
	})
	b.Subscribe("x", func(Event) {
		order = append(order, "second")
	})

	b.Propose(&cancelableEvent{topic: "x"})

	if len(order) != 2 {
		t.Errorf("handlers run = %d, want 2 (veto must not short-circuit)", len(order))
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	var got int
	off := b.Subscribe("x", func(Event) { got++ })

	b.Publish(&testEvent{topic: "x"})
	off()
	b.Publish(&testEvent{topic: "x"})

	if got != 1 {
		t.Errorf("handler runs = %d, want 1", got)
	}
}

func TestSubscribeAll(t *testing.T) {
	b := New()
	var topics []string
	b.SubscribeAll(func(e Event) { topics = append(topics, e.Topic()) })

	b.Publish(&testEvent{topic: "x"})
	b.Publish(&testEvent{topic: "y"})

	if len(topics) != 2 || topics[0] != "x" || topics[1] != "y" {
		t.Errorf("topics = %v", topics)
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	b := New()
	// Must not panic.
	b.Publish(&testEvent{topic: "x"})
	if !b.Propose(&cancelableEvent{topic: "x"}) {
		t.Error("Propose with no subscribers should pass")
	}
}
