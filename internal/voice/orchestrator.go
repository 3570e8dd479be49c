package voice

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hybridsat/hybrid-satellite/internal/api"
	"github.com/hybridsat/hybrid-satellite/internal/entities"
	"github.com/hybridsat/hybrid-satellite/internal/logging"
	"github.com/hybridsat/hybrid-satellite/internal/protocol"
	"github.com/hybridsat/hybrid-satellite/internal/store"
)

// Broadcaster is the browser-facing fan-out the orchestrator pushes to.
// Implementations must never block the caller on slow clients.
type Broadcaster interface {
	BroadcastAudio(data []byte)
	BroadcastEvent(eventType uint32, data map[string]string)
	BroadcastConfigUpdate(wakeWord string)
	NotifyStartListening()
}

// Settings is the persistence surface the orchestrator uses. A nil Settings
// keeps everything in memory.
type Settings interface {
	ActiveWakeWord(ctx context.Context) (string, error)
	SaveActiveWakeWord(ctx context.Context, id string) error
	MicMuted(ctx context.Context) (bool, error)
	SaveMicMuted(ctx context.Context, muted bool) error
}

// Orchestrator bridges voice-pipeline semantics between the hub and the
// browser clients. It owns the entity state, the current wake word selection,
// and the single-slot reference to the hub session.
type Orchestrator struct {
	entities  *entities.Registry
	settings  Settings
	playDelay time.Duration
	client    *http.Client

	slot SessionSlot

	mu             sync.Mutex
	broadcaster    Broadcaster
	activeWakeWord string
}

// NewOrchestrator creates an Orchestrator. settings may be nil (no
// persistence). playDelay is how long the media player reports "playing"
// after a broadcast; zero or negative selects two seconds.
func NewOrchestrator(reg *entities.Registry, settings Settings, playDelay time.Duration) *Orchestrator {
	if playDelay <= 0 {
		playDelay = 2 * time.Second
	}
	return &Orchestrator{
		entities:       reg,
		settings:       settings,
		playDelay:      playDelay,
		client:         &http.Client{Timeout: 30 * time.Second},
		activeWakeWord: DefaultWakeWord,
	}
}

// SetBroadcaster wires the browser-side fan-out. Called once at composition
// time; the orchestrator and the hub hold mutual references, so this cannot
// happen in the constructor.
func (o *Orchestrator) SetBroadcaster(b Broadcaster) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.broadcaster = b
}

func (o *Orchestrator) getBroadcaster() Broadcaster {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.broadcaster
}

// LoadSettings restores the persisted wake word selection and microphone
// mute state. Missing values keep their defaults; store failures log a
// warning and leave defaults in place.
func (o *Orchestrator) LoadSettings(ctx context.Context) {
	if o.settings == nil {
		return
	}

	wakeWord, err := o.settings.ActiveWakeWord(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// First run, default applies
	case err != nil:
		logging.Warn("Failed to load wake word setting", zap.Error(err))
	default:
		o.mu.Lock()
		o.activeWakeWord = wakeWord
		o.mu.Unlock()
	}

	muted, err := o.settings.MicMuted(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		logging.Warn("Failed to load mute setting", zap.Error(err))
	default:
		o.entities.SetMicMuted(muted)
	}
}

// ActiveWakeWord returns the current client-side wake word selection.
func (o *Orchestrator) ActiveWakeWord() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.activeWakeWord
}

func (o *Orchestrator) setActiveWakeWord(clientID string) {
	o.mu.Lock()
	o.activeWakeWord = clientID
	o.mu.Unlock()

	if o.settings == nil {
		return
	}
	if err := o.settings.SaveActiveWakeWord(context.Background(), clientID); err != nil {
		logging.Warn("Failed to persist wake word selection",
			zap.String("wake_word", clientID),
			zap.Error(err),
		)
	}
}

// MicMuted reports whether the microphone mute switch is on.
func (o *Orchestrator) MicMuted() bool {
	return o.entities.MicMuted()
}

// HubConnected reports whether a hub session currently occupies the slot.
func (o *Orchestrator) HubConnected() bool {
	return o.slot.Current() != nil
}

// InitiatePipeline asks the hub to start a voice pipeline run. The wake word
// arrives in client namespace and is translated; empty means the browser
// started listening without naming one, and no phrase is sent. Flags stay
// zero: wake word detection and voice-activity detection happen in the
// browser, the hub must not re-run them.
func (o *Orchestrator) InitiatePipeline(wakeWordClientID string) {
	s := o.slot.Current()
	if s == nil || !s.Authenticated() {
		logging.Warn("Cannot start pipeline: no authenticated hub session")
		return
	}

	phrase := ""
	if wakeWordClientID != "" {
		phrase = MapToHub(wakeWordClientID)
	}

	req := &protocol.VoiceAssistantRequest{
		Start:          true,
		Flags:          0,
		WakeWordPhrase: phrase,
		AudioSettings: protocol.VoiceAssistantAudioSettings{
			NoiseSuppressionLevel: 0,
			AutoGain:              0,
			VolumeMultiplier:      1.0,
		},
	}

	logging.Info("Initiating voice pipeline", zap.String("wake_word", phrase))
	o.send(s, req)
}

// SendAudioChunk forwards one microphone chunk to the hub. Chunks are dropped
// when no authenticated session holds the slot or the microphone is muted;
// audio is never queued.
func (o *Orchestrator) SendAudioChunk(chunk []byte) {
	s := o.slot.Current()
	if s == nil || !s.Authenticated() {
		return
	}
	if o.entities.MicMuted() {
		return
	}
	if err := s.Send(&protocol.VoiceAssistantAudio{Data: chunk}); err != nil {
		logging.Debug("Failed to forward mic audio to hub", zap.Error(err))
	}
}

func (o *Orchestrator) sessionReady(s HubSession) {
	o.slot.Attach(s)
	logging.LogConnection(s.RemoteAddr(), "hub_session_ready")
}

func (o *Orchestrator) sessionClosed(s HubSession) {
	o.slot.Detach(s)
	logging.LogConnection(s.RemoteAddr(), "hub_session_closed")
}

// send writes one message to the hub, logging failures instead of
// propagating them; a dead session is detected by its own read loop.
func (o *Orchestrator) send(s HubSession, msg protocol.Message) {
	if err := s.Send(msg); err != nil {
		logging.Warn("Failed to send message to hub",
			zap.Uint32("msg_type", msg.MessageType()),
			zap.Error(err),
		)
	}
}

// HandleMessage implements api.Dispatcher.
func (o *Orchestrator) HandleMessage(s *api.Session, messageType uint32, payload []byte) {
	o.handleMessage(s, messageType, payload)
}

// SessionReady implements api.Dispatcher.
func (o *Orchestrator) SessionReady(s *api.Session) {
	o.sessionReady(s)
}

// SessionClosed implements api.Dispatcher.
func (o *Orchestrator) SessionClosed(s *api.Session) {
	o.sessionClosed(s)
}
