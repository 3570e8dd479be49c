// Package entities defines the virtual entities the gateway presents to the
// hub and tracks their mutable state.
//
// The catalogue is fixed at four entries: the browser speaker (a media
// player), the pipeline selector, the microphone mute switch, and an
// assist-in-progress binary sensor. Keys are stable because the hub tracks
// entities by key, not by discovery order. Key 3 is retired and never reused.
//
// # Discovery and State
//
// Registry.DiscoveryMessages answers a list-entities request with one
// discovery message per entry plus the done sentinel. StateMessages answers a
// subscribe-states request with a snapshot of every entity's current value.
// Mutators return the state message to publish, so callers never build state
// payloads by hand:
//
//	msg := reg.SetMicMuted(true)
//	session.Send(msg) // SwitchStateResponse{Key: 4, State: true}
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. The catalogue itself is
// immutable.
package entities
