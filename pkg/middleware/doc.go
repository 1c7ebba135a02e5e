// Package middleware provides HTTP middleware for stratum hosts:
// structured request logging, Prometheus metrics, and OpenTelemetry
// tracing. The serve command installs all three in front of the document,
// fragment, and session endpoints; embedding applications can pick the
// ones they need.
package middleware
