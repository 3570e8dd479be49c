package voice

import (
	"sync"

	"github.com/hybridsat/hybrid-satellite/internal/protocol"
)

// HubSession is the slice of a device-link session the orchestrator needs.
type HubSession interface {
	Send(msg protocol.Message) error
	Authenticated() bool
	RemoteAddr() string
}

// SessionSlot holds the single "current" hub session. The gateway models one
// upstream hub at a time: a second device connection replaces the first
// (last-attach-wins), and a stale detach is a no-op so a replaced session
// closing later cannot evict its replacement.
type SessionSlot struct {
	mu      sync.Mutex
	current HubSession
}

// Attach makes s the current session, replacing any previous one.
func (slot *SessionSlot) Attach(s HubSession) {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	slot.current = s
}

// Detach clears the slot only if s is still the current session.
func (slot *SessionSlot) Detach(s HubSession) {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.current == s {
		slot.current = nil
	}
}

// Current returns the current session, or nil when no hub is attached.
func (slot *SessionSlot) Current() HubSession {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.current
}
