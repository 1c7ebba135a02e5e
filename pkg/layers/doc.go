// Package layers implements stratum's view-composition core: named layer
// regions swapped in and out of container elements.
//
// A Container wraps a host element marked with data-container and manages a
// set of mutually exclusive content layers. A Layer wraps one direct child
// carrying data-layer="name"; at most one layer per container carries the
// "active" class at a time. Container.Request fetches fragment HTML through
// a fragment.Source and Container.Add reconciles the result against the
// current children: an existing layer with the same name is replaced in
// place, anything else is inserted next to the current layer.
//
// # Lifecycle Notifications
//
// Every operation is announced on the engine's bus. The "before"
// notifications (request, add, activate, deactivate) are cancelable; the
// "after" notifications (requestdone, requestfail, added, activated,
// deactivated) are not. Cancellation aborts the remainder of that one
// operation and nothing else.
//
// # Identity
//
// Layers are equal when their names are equal, regardless of element
// identity. This is the basis for replace-in-place: a fetched fragment whose
// name matches an existing child takes over that child's slot in the tree.
//
// # Wrappers
//
// Layer and Container wrappers are cached per element in the engine's
// registry, so repeated lookups return the same logical wrapper. The
// registry holds plain references into the host tree, never ownership;
// entries are dropped when an element is replaced out of the tree.
package layers
