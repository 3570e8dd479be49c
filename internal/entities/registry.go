package entities

import (
	"sync"

	"github.com/hybridsat/hybrid-satellite/internal/protocol"
)

// DefaultVolume is the speaker volume reported before any command changes it.
const DefaultVolume = 0.5

// Registry owns the mutable state behind the fixed entity catalogue. All
// methods are safe for concurrent use; mutators return the state message the
// caller should publish to the hub.
type Registry struct {
	mu sync.Mutex

	playerState  protocol.MediaPlayerState
	volume       float32
	playerMuted  bool
	pipeline     string
	micMuted     bool
	assistActive bool
}

// NewRegistry creates a Registry with every entity in its initial state:
// speaker idle at half volume, default pipeline, microphone live, assist
// inactive.
func NewRegistry() *Registry {
	return &Registry{
		playerState: protocol.MediaPlayerStateIdle,
		volume:      DefaultVolume,
		pipeline:    PipelineOptions[0],
	}
}

// DiscoveryMessages returns one discovery message per catalogue entry, in
// declaration order, followed by the done sentinel.
func (r *Registry) DiscoveryMessages() []protocol.Message {
	msgs := make([]protocol.Message, 0, len(catalogue)+1)
	for _, e := range catalogue {
		switch e.Kind {
		case KindMediaPlayer:
			msgs = append(msgs, &protocol.ListEntitiesMediaPlayerResponse{
				ObjectID:         e.ObjectID,
				Key:              e.Key,
				Name:             e.Name,
				EntityCategory:   e.Category,
				SupportsPause:    true,
				SupportedFormats: []protocol.MediaPlayerSupportedFormat{SpeakerFormat},
				FeatureFlags:     SpeakerFeatureFlags,
			})
		case KindSelect:
			msgs = append(msgs, &protocol.ListEntitiesSelectResponse{
				ObjectID:       e.ObjectID,
				Key:            e.Key,
				Name:           e.Name,
				Options:        PipelineOptions,
				EntityCategory: e.Category,
			})
		case KindSwitch:
			msgs = append(msgs, &protocol.ListEntitiesSwitchResponse{
				ObjectID:       e.ObjectID,
				Key:            e.Key,
				Name:           e.Name,
				EntityCategory: e.Category,
			})
		case KindBinarySensor:
			msgs = append(msgs, &protocol.ListEntitiesBinarySensorResponse{
				ObjectID:       e.ObjectID,
				Key:            e.Key,
				Name:           e.Name,
				EntityCategory: e.Category,
			})
		}
	}
	msgs = append(msgs, &protocol.ListEntitiesDoneResponse{})
	return msgs
}

// StateMessages returns the current state of every catalogue entry, one
// message per entity in declaration order.
func (r *Registry) StateMessages() []protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return []protocol.Message{
		r.playerStateLocked(),
		&protocol.SelectStateResponse{Key: KeyPipelineSelect, State: r.pipeline},
		&protocol.SwitchStateResponse{Key: KeyMuteSwitch, State: r.micMuted},
		&protocol.BinarySensorStateResponse{Key: KeyAssistSensor, State: r.assistActive},
	}
}

func (r *Registry) playerStateLocked() *protocol.MediaPlayerStateResponse {
	return &protocol.MediaPlayerStateResponse{
		Key:    KeySpeaker,
		State:  r.playerState,
		Volume: r.volume,
		Muted:  r.playerMuted,
	}
}

// SetPlayer replaces the whole media-player state.
func (r *Registry) SetPlayer(state protocol.MediaPlayerState, volume float32, muted bool) *protocol.MediaPlayerStateResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playerState = state
	r.volume = volume
	r.playerMuted = muted
	return r.playerStateLocked()
}

// SetPlayerState changes only the playback state, keeping volume and mute.
func (r *Registry) SetPlayerState(state protocol.MediaPlayerState) *protocol.MediaPlayerStateResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playerState = state
	return r.playerStateLocked()
}

// SetPlayerVolume changes only the speaker volume.
func (r *Registry) SetPlayerVolume(volume float32) *protocol.MediaPlayerStateResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = volume
	return r.playerStateLocked()
}

// SetPlayerMuted changes only the speaker mute flag.
func (r *Registry) SetPlayerMuted(muted bool) *protocol.MediaPlayerStateResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playerMuted = muted
	return r.playerStateLocked()
}

// Player returns the current media-player state.
func (r *Registry) Player() (protocol.MediaPlayerState, float32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerState, r.volume, r.playerMuted
}

// SetPipeline changes the selected pipeline option.
func (r *Registry) SetPipeline(option string) *protocol.SelectStateResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipeline = option
	return &protocol.SelectStateResponse{Key: KeyPipelineSelect, State: option}
}

// Pipeline returns the selected pipeline option.
func (r *Registry) Pipeline() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipeline
}

// SetMicMuted changes the microphone mute switch.
func (r *Registry) SetMicMuted(on bool) *protocol.SwitchStateResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.micMuted = on
	return &protocol.SwitchStateResponse{Key: KeyMuteSwitch, State: on}
}

// MicMuted reports whether the microphone mute switch is on.
func (r *Registry) MicMuted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.micMuted
}

// SetAssistActive changes the assist-in-progress sensor.
func (r *Registry) SetAssistActive(on bool) *protocol.BinarySensorStateResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assistActive = on
	return &protocol.BinarySensorStateResponse{Key: KeyAssistSensor, State: on}
}

// AssistActive reports whether an assist run is in progress.
func (r *Registry) AssistActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.assistActive
}
