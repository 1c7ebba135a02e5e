// Package dom provides the element tree that the stratum engine owns.
//
// The tree is a plain in-memory DOM: element and text nodes with
// parent/child links, ordered attributes, and class-list helpers. It is the
// single source of truth for container children; callers re-query the tree
// instead of caching node lists, so structure and state can never diverge.
//
// # Core Types
//
// Node represents one element or text node. Nodes are created directly, via
// NewElement and NewText, or by parsing an HTML fragment with ParseFragment.
//
// # Mutation
//
// AppendChild, InsertBefore, InsertAfter, and ReplaceWith are relocation
// operations: inserting a node that is already attached elsewhere detaches
// it from its old parent first, mirroring browser insertion semantics.
//
// # Queries
//
// Closest walks toward the root, Find walks the subtree in document order,
// and Query resolves the small selector subset stratum needs (#id, .class,
// and tag selectors).
//
// All mutation is expected to happen from a single goroutine, typically the
// session event loop. The tree performs no internal locking.
package dom
