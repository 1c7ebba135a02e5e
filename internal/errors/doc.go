// Package errors provides stratum's structured, coded errors.
//
// Every registered error has a stable code (e.g. "E101"), a category, and a
// short message, so the CLI and server can report failures consistently and
// callers can match on codes instead of message text. Errors wrap an
// underlying cause and participate in errors.Is/errors.As.
package errors
