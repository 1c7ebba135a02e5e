package protocol

// EventKind names the intercepted DOM activity a client event reports.
type EventKind string

const (
	EventClick    EventKind = "click"    // Click on a tagged link
	EventSubmit   EventKind = "submit"   // Submit of a tagged form
	EventPopState EventKind = "popstate" // History back/forward/restore
)

// Hello is the client's first frame after connecting.
type Hello struct {
	// Protocol is the client's protocol version.
	Protocol int `msgpack:"v"`

	// Session resumes an existing session when non-empty.
	Session string `msgpack:"s,omitempty"`
}

// ServerHello acknowledges a Hello.
type ServerHello struct {
	Session string `msgpack:"s"`
	// Document is the server's rendering of the initial tree, so a fresh
	// client can hydrate from it.
	Document string `msgpack:"d,omitempty"`
}

// Event reports one intercepted interaction.
type Event struct {
	Kind EventKind `msgpack:"k"`

	// Node is the stratum node id (data-sid) of the triggering element.
	// Unused for popstate.
	Node string `msgpack:"n,omitempty"`

	// Form carries submitted form values for submit events.
	Form map[string][]string `msgpack:"f,omitempty"`

	// URL and Title carry the restored state for popstate events.
	URL   string `msgpack:"u,omitempty"`
	Title string `msgpack:"ti,omitempty"`
}

// Swap tells the client to replace a container region's children.
type Swap struct {
	// Container is the node id of the container element.
	Container string `msgpack:"c"`

	// HTML is the container's new inner HTML after reconciliation.
	HTML string `msgpack:"h"`
}

// HistoryPush tells the client to push a history entry.
type HistoryPush struct {
	URL   string `msgpack:"u"`
	Title string `msgpack:"ti,omitempty"`
}

// ErrorCode identifies the type of error.
type ErrorCode uint16

const (
	ErrUnknown      ErrorCode = 0x0000 // Unknown error
	ErrInvalidFrame ErrorCode = 0x0001 // Malformed frame
	ErrInvalidEvent ErrorCode = 0x0002 // Malformed event
	ErrNodeNotFound ErrorCode = 0x0003 // No element for node id
	ErrServerError  ErrorCode = 0x0100 // Internal server error
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrUnknown:
		return "Unknown"
	case ErrInvalidFrame:
		return "InvalidFrame"
	case ErrInvalidEvent:
		return "InvalidEvent"
	case ErrNodeNotFound:
		return "NodeNotFound"
	case ErrServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage reports an error to the client.
type ErrorMessage struct {
	Code    ErrorCode `msgpack:"c"`
	Message string    `msgpack:"m"`
}
