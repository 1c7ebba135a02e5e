package layers

import "github.com/stratum-ui/stratum/pkg/bus"

// Notification topics emitted by containers and layers. The "before" topics
// are cancelable; the "after" topics are not.
const (
	TopicRequest     = "request"     // cancelable, before a fetch is issued
	TopicRequestDone = "requestdone" // after a successful fetch, before Add
	TopicRequestFail = "requestfail" // after a failed fetch
	TopicAdd         = "add"         // cancelable, before reconciliation
	TopicAdded       = "added"       // after reconciliation, before activation
	TopicActivate    = "activate"    // cancelable, before a layer activates
	TopicActivated   = "activated"   // after a layer activated
	TopicDeactivate  = "deactivate"  // cancelable, before a layer deactivates
	TopicDeactivated = "deactivated" // after a layer deactivated
)

// RequestEvent announces an outgoing container request. Canceling it issues
// no fetch.
type RequestEvent struct {
	bus.Veto
	Container *Container
	Options   Options
}

// Topic implements bus.Event.
func (*RequestEvent) Topic() string { return TopicRequest }

// RequestDoneEvent carries the raw response body of a successful fetch.
type RequestDoneEvent struct {
	Container *Container
	Body      []byte
	Options   Options
}

// Topic implements bus.Event.
func (*RequestDoneEvent) Topic() string { return TopicRequestDone }

// RequestFailEvent carries the failure detail of a fetch. The failure is
// terminal: no retry is attempted and the container keeps its prior state.
type RequestFailEvent struct {
	Container *Container
	Err       error
	Options   Options
}

// Topic implements bus.Event.
func (*RequestFailEvent) Topic() string { return TopicRequestFail }

// AddEvent announces a layer about to be reconciled into a container.
// Canceling it leaves the children untouched.
type AddEvent struct {
	bus.Veto
	Container *Container
	Layer     *Layer
	Options   Options
}

// Topic implements bus.Event.
func (*AddEvent) Topic() string { return TopicAdd }

// AddedEvent announces a layer placed among a container's children.
type AddedEvent struct {
	Container *Container
	Layer     *Layer
	Options   Options
}

// Topic implements bus.Event.
func (*AddedEvent) Topic() string { return TopicAdded }

// ActivateEvent announces a layer about to become active.
type ActivateEvent struct {
	bus.Veto
	Layer   *Layer
	Options Options
}

// Topic implements bus.Event.
func (*ActivateEvent) Topic() string { return TopicActivate }

// ActivatedEvent announces a layer that became active. The history bridge
// listens for this to mirror activations into browser history.
type ActivatedEvent struct {
	Layer   *Layer
	Options Options
}

// Topic implements bus.Event.
func (*ActivatedEvent) Topic() string { return TopicActivated }

// DeactivateEvent announces a layer about to lose its active state.
type DeactivateEvent struct {
	bus.Veto
	Layer   *Layer
	Options Options
}

// Topic implements bus.Event.
func (*DeactivateEvent) Topic() string { return TopicDeactivate }

// DeactivatedEvent announces a layer that lost its active state.
type DeactivatedEvent struct {
	Layer   *Layer
	Options Options
}

// Topic implements bus.Event.
func (*DeactivatedEvent) Topic() string { return TopicDeactivated }
