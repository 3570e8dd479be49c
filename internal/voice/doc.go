// Package voice carries the pipeline semantics of the gateway: everything
// that happens between "a browser heard the wake word" and "the hub finished
// the conversation".
//
// The Orchestrator is the hub-facing application layer. The api package
// hands it every post-handshake message, and it answers with entity
// discovery, state updates, the device identity card and voice-assistant
// configuration. In the other direction it pushes pipeline events, TTS audio
// and configuration changes to the browser side through the Broadcaster
// interface.
//
// # One Hub At A Time
//
// The gateway models a single upstream hub. SessionSlot holds the current
// device session; a newer connection replaces an older one, and a stale
// close never evicts its replacement. Pipeline initiation and mic audio are
// dropped when the slot is empty, never queued.
//
// # Wake Word Namespaces
//
// Browsers name wake words by detection model ("okay_nabu_v0.1"); the hub
// uses canonical phrases ("okay_nabu"). MapToHub and MapToClient translate
// at the boundary, passing unknown identifiers through unchanged so new
// models degrade gracefully.
//
// # Pipeline Flags
//
// VoiceAssistantRequest always carries flags zero. Wake word detection and
// voice-activity detection already happened in the browser; a hub asked to
// redo them would wait on audio that never comes.
//
// # Media Playback
//
// Media commands with a URL are fetched over HTTP on a separate goroutine
// and broadcast to the browser speakers, with the media player entity
// reporting "playing" for a configured delay before returning to idle. The
// gateway never decodes the media; browsers receive the bytes as fetched.
package voice
