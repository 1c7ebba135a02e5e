// Package fragment abstracts where layer HTML comes from.
//
// A Source resolves one fetch request to a raw HTML fragment body. The
// container issues fetches through a Source and treats failures as terminal:
// no retries, no timeouts beyond the caller's context. HTTPSource talks to
// an origin over HTTP; S3Source serves pre-rendered fragments from a bucket.
package fragment

import (
	"context"
	"net/url"
)

// Request describes one fragment fetch.
type Request struct {
	// URL is the fragment location. Relative URLs are resolved against the
	// source's base, if it has one.
	URL string

	// Method is the HTTP method. Empty means GET.
	Method string

	// Form holds form values captured from a submitted form. Sent as query
	// parameters for GET and as an urlencoded body otherwise.
	Form url.Values
}

// Source fetches fragment HTML.
type Source interface {
	// Fetch returns the raw fragment body. The context bounds the fetch;
	// there is no retry policy.
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, req Request) ([]byte, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}
