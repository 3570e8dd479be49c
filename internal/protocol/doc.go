// Package protocol implements the binary device link spoken between the
// gateway and the home-automation hub.
//
// The gateway impersonates a native voice-satellite device, so this package
// reproduces the device integration's plaintext wire format exactly: the hub
// must not be able to tell the difference.
//
// # Frame Format
//
// Every message travels in a plaintext frame:
//   - Preamble byte: 0x00
//   - Payload length: varint (little-endian base-128, MSB = continuation)
//   - Message type: varint
//   - Payload: protobuf-encoded message body
//
// # Decoding Model
//
// Decoder is a push-style accumulator: the connection's read loop calls Feed
// with whatever bytes arrived, then drains complete frames with Next. Partial
// frames simply wait for more input. Bytes that precede the next 0x00
// preamble are garbage and are discarded (a "resync"), which lets a
// connection survive a port scanner, a TLS probe, or a corrupted chunk
// without tearing down.
//
// # Message Payloads
//
// Payloads are protobuf messages, hand-encoded with protowire against the
// hub integration's published field numbering. Only the message types the
// gateway actually exchanges are modeled; unknown fields inside known
// messages are skipped so newer hub versions stay compatible.
//
// # Usage
//
//	dec := &protocol.Decoder{}
//	dec.Feed(chunk)
//	for {
//		frame, err := dec.Next()
//		if err != nil {
//			// corrupt varint or absurd length; stream already resynced
//			continue
//		}
//		if frame == nil {
//			break // need more bytes
//		}
//		handle(frame)
//	}
//
// Encoding is stateless:
//
//	data := protocol.EncodeFrame(msg.MessageType(), msg.MarshalPayload())
//	conn.Write(data)
//
// # Thread Safety
//
// EncodeFrame and all message marshalling are stateless and safe for
// concurrent use. A Decoder belongs to a single connection's read loop and
// is not synchronized.
package protocol
