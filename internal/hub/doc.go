// Package hub runs the browser-facing WebSocket side of the satellite.
//
// Browsers exchange two kinds of traffic on one socket: JSON control
// messages as text frames and raw PCM audio as binary frames. Microphone
// audio flows in and is handed to the voice pipeline; speaker audio and
// pipeline events fan out to every connected client.
//
// # Authentication
//
// When an auth token is configured, the first text frame must carry it
// within the auth window; the socket is closed with a policy-violation
// code otherwise. Without a token every connection is accepted
// immediately.
//
// # Fan-out
//
// Broadcasts are queued per client and never block. A client that stops
// draining its queue is dropped so the rest keep receiving. Queueing and
// queue teardown are serialized through the registry lock, which keeps a
// drop from racing an in-flight broadcast.
//
// # Keepalive
//
// Each client is pinged at pingPeriod and must answer within pongWait or
// its socket is torn down.
package hub
