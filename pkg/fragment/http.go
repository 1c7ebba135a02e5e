package fragment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies fragment fetch spans.
const tracerName = "stratum/fragment"

// StatusError reports a non-2xx fragment response.
type StatusError struct {
	URL    string
	Status int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fragment: %s returned status %d", e.URL, e.Status)
}

// HTTPSource fetches fragments from an HTTP origin.
type HTTPSource struct {
	client *http.Client
	base   *url.URL
	tracer trace.Tracer

	// MaxBodySize caps the response body. Zero means DefaultMaxBodySize.
	MaxBodySize int64
}

// DefaultMaxBodySize is the fragment body cap (1 MiB). Fragments are page
// regions, not downloads.
const DefaultMaxBodySize = 1 << 20

// NewHTTPSource creates a source resolving relative URLs against base.
// base may be empty, in which case only absolute URLs can be fetched.
// client may be nil to use http.DefaultClient.
func NewHTTPSource(base string, client *http.Client) (*HTTPSource, error) {
	var u *url.URL
	if base != "" {
		var err error
		u, err = url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("fragment: invalid base url %q: %w", base, err)
		}
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		client: client,
		base:   u,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Fetch implements Source. Form values travel as query parameters for GET
// and as an urlencoded body for any other method.
func (s *HTTPSource) Fetch(ctx context.Context, req Request) ([]byte, error) {
	target, err := s.resolve(req.URL)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := s.tracer.Start(ctx, "fragment.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("fragment.url", target),
			attribute.String("http.method", method),
		),
	)
	defer span.End()

	var body io.Reader
	if len(req.Form) > 0 {
		if method == http.MethodGet {
			target = appendQuery(target, req.Form)
		} else {
			body = strings.NewReader(req.Form.Encode())
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fragment: build request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fragment: fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{URL: target, Status: resp.StatusCode}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	max := s.MaxBodySize
	if max <= 0 {
		max = DefaultMaxBodySize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, max))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fragment: read body: %w", err)
	}
	return data, nil
}

// resolve turns a possibly relative URL into an absolute one.
func (s *HTTPSource) resolve(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("fragment: invalid url %q: %w", raw, err)
	}
	if u.IsAbs() || s.base == nil {
		return u.String(), nil
	}
	return s.base.ResolveReference(u).String(), nil
}

// appendQuery merges form values into the target URL's query string.
func appendQuery(target string, form url.Values) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	for k, vs := range form {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
