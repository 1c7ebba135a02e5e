package server

import (
	"log/slog"
	"time"

	"github.com/stratum-ui/stratum/pkg/fragment"
)

// Config configures a Server.
type Config struct {
	// Document is the HTML of the initial host document. Each session
	// parses its own copy of the tree from it.
	Document string

	// Source is the fragment source container requests go through.
	Source fragment.Source

	// Logger is the server logger. Defaults to slog.Default().
	Logger *slog.Logger

	// CheckOrigin validates the WebSocket origin. Nil accepts same-host
	// requests only.
	CheckOrigin func(origin, host string) bool

	// WriteTimeout bounds one WebSocket write. Zero means DefaultWriteTimeout.
	WriteTimeout time.Duration

	// SendBuffer is the outbound frame queue size per session. A session
	// falling this far behind is closed. Zero means DefaultSendBuffer.
	SendBuffer int
}

// Config defaults.
const (
	DefaultWriteTimeout = 10 * time.Second
	DefaultSendBuffer   = 64
)

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.SendBuffer == 0 {
		c.SendBuffer = DefaultSendBuffer
	}
	return c
}
