package protocol

import (
	"bytes"
	"errors"
	"fmt"
)

// FramePreamble is the first byte of every plaintext frame on the device link.
const FramePreamble = 0x00

// MaxFrameLen caps the declared payload length of a single frame. Messages on
// this link are small (the largest are audio chunks of a few kilobytes), so a
// length beyond this is treated as corruption rather than data.
const MaxFrameLen = 1 << 20

var (
	// ErrVarintOverflow is returned when a length or type varint exceeds
	// MaxVarintLen bytes.
	ErrVarintOverflow = errors.New("protocol: varint exceeds maximum length")

	// ErrFrameTooLarge is returned when a frame declares a payload longer
	// than MaxFrameLen.
	ErrFrameTooLarge = errors.New("protocol: declared frame length too large")
)

// Frame is one decoded message from the device link: a type identifier and
// its raw payload. Payload semantics are out of scope here; see messages.go.
type Frame struct {
	Type    uint32
	Payload []byte
}

// String returns a debug representation of the frame.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame{Type=%d, Len=%d}", f.Type, len(f.Payload))
}

// EncodeFrame wraps a message payload for the wire:
//
//	[0]  0x00       preamble
//	[1+] varint     payload length
//	[..] varint     message type
//	[..] payload    raw message bytes
func EncodeFrame(messageType uint32, payload []byte) []byte {
	buf := make([]byte, 0, len(payload)+1+2*MaxVarintLen)
	buf = append(buf, FramePreamble)
	buf = AppendUvarint(buf, uint64(len(payload)))
	buf = AppendUvarint(buf, uint64(messageType))
	return append(buf, payload...)
}

// Decoder accumulates bytes from a device connection and extracts complete
// frames. It owns its buffer exclusively: after every successful extraction
// the buffer holds exactly the unconsumed suffix of the stream.
//
// A Decoder is not safe for concurrent use; each connection's read loop owns
// one.
type Decoder struct {
	buf     []byte
	resyncs uint64
}

// Feed appends raw bytes received from the transport.
func (d *Decoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Resyncs reports how many times the decoder discarded garbage to find a
// preamble. A nonzero count means the peer sent something that was not this
// protocol, or bytes were lost in transit.
func (d *Decoder) Resyncs() uint64 {
	return d.resyncs
}

// Buffered reports the number of unconsumed bytes held by the decoder.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Next extracts one complete frame if the buffer holds one.
//
// A nil frame with a nil error means more bytes are needed; call Feed and try
// again. A non-nil error means the stream contained corruption that could not
// be resolved by waiting (an unbounded varint or an absurd length); the
// offending preamble is discarded so that subsequent calls resynchronize, and
// the connection may keep reading.
//
// One Feed can complete several frames, so callers should invoke Next in a
// loop until it returns nil.
func (d *Decoder) Next() (*Frame, error) {
	// Garbage before the preamble: drop everything up to the next 0x00,
	// or the whole buffer if there is none.
	if len(d.buf) > 0 && d.buf[0] != FramePreamble {
		if idx := bytes.IndexByte(d.buf, FramePreamble); idx >= 0 {
			d.buf = d.buf[idx:]
		} else {
			d.buf = d.buf[:0]
		}
		d.resyncs++
	}

	// Preamble plus at least one byte each of length and type.
	if len(d.buf) < 3 {
		return nil, nil
	}

	length, n := Uvarint(d.buf[1:])
	if n == 0 {
		return nil, nil
	}
	if n < 0 {
		d.dropPreamble()
		return nil, ErrVarintOverflow
	}
	offset := 1 + n

	msgType, n := Uvarint(d.buf[offset:])
	if n == 0 {
		return nil, nil
	}
	if n < 0 {
		d.dropPreamble()
		return nil, ErrVarintOverflow
	}
	offset += n

	if length > MaxFrameLen {
		d.dropPreamble()
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	end := offset + int(length)
	if end > len(d.buf) {
		return nil, nil
	}

	payload := make([]byte, length)
	copy(payload, d.buf[offset:end])
	d.buf = d.buf[end:]

	return &Frame{Type: uint32(msgType), Payload: payload}, nil
}

// dropPreamble discards the leading preamble byte so the next call scans for
// a fresh frame start instead of re-reading the same corrupt header.
func (d *Decoder) dropPreamble() {
	if len(d.buf) > 0 {
		d.buf = d.buf[1:]
	}
	d.resyncs++
}
