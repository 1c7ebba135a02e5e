// Package protocol defines the wire frames exchanged between the stratum
// engine and its thin browser client.
//
// The thin client forwards intercepted DOM activity to the server and
// applies the region swaps and history pushes the server sends back. Frames
// are msgpack-encoded: compact, schema-light, and symmetric to decode in the
// browser client.
//
// # Frame Types
//
//   - FrameHello (0x00): connection setup, client → server
//   - FrameEvent (0x01): intercepted click/submit/popstate, client → server
//   - FrameSwap (0x02): container region replacement, server → client
//   - FrameHistory (0x03): history push, server → client
//   - FrameError (0x04): error report, server → client
//
// # Envelope
//
// Every frame is an envelope carrying the frame type and a raw msgpack
// payload, so unknown frame types can be skipped without understanding
// their payload.
package protocol
