package protocol

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MaxFrameSize is the largest frame the decoder accepts. A swap frame is
// bounded by the fragment body cap plus envelope overhead.
const MaxFrameSize = 2 << 20

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHello   FrameType = 0x00 // Connection setup
	FrameEvent   FrameType = 0x01 // Client → Server intercepted DOM activity
	FrameSwap    FrameType = 0x02 // Server → Client region replacement
	FrameHistory FrameType = 0x03 // Server → Client history push
	FrameError   FrameType = 0x04 // Server → Client error report
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameEvent:
		return "Event"
	case FrameSwap:
		return "Swap"
	case FrameHistory:
		return "History"
	case FrameError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", uint8(ft))
	}
}

// Frame is the envelope every message travels in.
type Frame struct {
	Type    FrameType          `msgpack:"t"`
	Payload msgpack.RawMessage `msgpack:"p"`
}

// Frame decode errors.
var (
	ErrFrameTooLarge = errors.New("protocol: frame exceeds size limit")
	ErrEmptyFrame    = errors.New("protocol: empty frame")
)

// Encode wraps a payload in an envelope of the given type and returns the
// encoded frame.
func Encode(t FrameType, payload any) ([]byte, error) {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s payload: %w", t, err)
	}
	data, err := msgpack.Marshal(&Frame{Type: t, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s frame: %w", t, err)
	}
	return data, nil
}

// Decode parses an envelope. The payload stays raw until decoded by type.
func Decode(data []byte) (*Frame, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFrame
	}
	if len(data) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("protocol: decode frame: %w", err)
	}
	return &f, nil
}

// DecodePayload decodes the frame payload into v.
func (f *Frame) DecodePayload(v any) error {
	if err := msgpack.Unmarshal(f.Payload, v); err != nil {
		return fmt.Errorf("protocol: decode %s payload: %w", f.Type, err)
	}
	return nil
}
