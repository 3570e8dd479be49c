// Package api implements the TCP server for the hub-facing device link.
//
// The hub connects to this server believing it is talking to voice-assistant
// firmware. Each accepted connection becomes a Session that speaks the framed
// protobuf protocol from the protocol package: a required handshake first,
// then free-form message exchange in both directions.
//
// # Session State Machine
//
// Every session walks a fixed ladder:
//
//	awaiting_hello -> awaiting_connect -> ready -> closed
//
// The hello request is answered with a fixed server identity and protocol
// version pair (2.10). The connect request is always accepted; the password
// field is read but never verified, matching the firmware this gateway
// stands in for. Disconnect and ping are handled in any state. All other
// message types are forwarded to the Dispatcher once the session is ready,
// and logged and dropped before that.
//
// # Frame Handling
//
// Sessions feed raw reads into a protocol.Decoder, which recovers from
// garbage on the stream by scanning to the next preamble. Decode errors are
// logged and the connection keeps reading; a corrupt frame never tears down
// the session.
//
// # Writes
//
// Session.Send is safe for concurrent use. The handshake replies, entity
// state updates and voice traffic all funnel through the same write mutex,
// so frames are never interleaved on the wire.
//
// # Shutdown
//
// Server.Shutdown closes the listener, closes every live session and waits
// for the per-connection goroutines to drain, with a timeout. Signal
// handling belongs to the caller.
package api
