package voice

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hybridsat/hybrid-satellite/internal/entities"
	"github.com/hybridsat/hybrid-satellite/internal/protocol"
)

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestHandleDeviceInfoRequest(t *testing.T) {
	o, s, _ := newTestOrchestrator(t, nil)

	o.handleMessage(s, protocol.MsgTypeDeviceInfoRequest, nil)

	sent := s.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	info, ok := sent[0].(*protocol.DeviceInfoResponse)
	if !ok {
		t.Fatalf("sent %T, want *protocol.DeviceInfoResponse", sent[0])
	}
	if info.Name != "Hybrid Voice Assistant" {
		t.Errorf("Name = %q, want %q", info.Name, "Hybrid Voice Assistant")
	}
	if info.MacAddress != "02:00:00:00:00:01" {
		t.Errorf("MacAddress = %q, want %q", info.MacAddress, "02:00:00:00:00:01")
	}
	if info.Manufacturer != "ESPHome" {
		t.Errorf("Manufacturer = %q, want %q", info.Manufacturer, "ESPHome")
	}
	if info.VoiceAssistantFlags != 63 {
		t.Errorf("VoiceAssistantFlags = %d, want 63 (all features)", info.VoiceAssistantFlags)
	}
}

func TestHandleListEntities(t *testing.T) {
	o, s, _ := newTestOrchestrator(t, nil)

	o.handleMessage(s, protocol.MsgTypeListEntitiesRequest, nil)

	sent := s.messages()
	if len(sent) != 5 {
		t.Fatalf("sent %d messages, want 4 entities + done", len(sent))
	}
	if _, ok := sent[4].(*protocol.ListEntitiesDoneResponse); !ok {
		t.Errorf("last message is %T, want *protocol.ListEntitiesDoneResponse", sent[4])
	}
}

func TestHandleSubscribeStates(t *testing.T) {
	o, s, _ := newTestOrchestrator(t, nil)

	o.handleMessage(s, protocol.MsgTypeSubscribeStates, nil)

	sent := s.messages()
	if len(sent) != 4 {
		t.Fatalf("sent %d messages, want 4", len(sent))
	}

	types := map[uint32]bool{}
	for _, msg := range sent {
		types[msg.MessageType()] = true
	}
	for _, want := range []uint32{
		protocol.MsgTypeMediaPlayerState,
		protocol.MsgTypeSelectState,
		protocol.MsgTypeSwitchState,
		protocol.MsgTypeBinarySensorState,
	} {
		if !types[want] {
			t.Errorf("no state message of type %d", want)
		}
	}
}

func TestHandleVoiceEventTracksAssistSensor(t *testing.T) {
	o, s, b := newTestOrchestrator(t, nil)

	start := (&protocol.VoiceAssistantEventResponse{EventType: protocol.VoiceEventRunStart}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeVoiceAssistantEvent, start)

	sent := s.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages after run start, want 1", len(sent))
	}
	state, ok := sent[0].(*protocol.BinarySensorStateResponse)
	if !ok {
		t.Fatalf("sent %T, want *protocol.BinarySensorStateResponse", sent[0])
	}
	if state.Key != entities.KeyAssistSensor || !state.State {
		t.Errorf("sensor state = {%d %v}, want {%d true}", state.Key, state.State, entities.KeyAssistSensor)
	}

	end := (&protocol.VoiceAssistantEventResponse{EventType: protocol.VoiceEventRunEnd}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeVoiceAssistantEvent, end)

	sent = s.messages()
	if len(sent) != 2 {
		t.Fatalf("sent %d messages after run end, want 2", len(sent))
	}
	state = sent[1].(*protocol.BinarySensorStateResponse)
	if state.State {
		t.Error("sensor still active after run end")
	}

	snap := b.snapshot()
	if len(snap.events) != 2 {
		t.Fatalf("broadcast %d events, want 2", len(snap.events))
	}
	if snap.events[0].eventType != protocol.VoiceEventRunStart || snap.events[1].eventType != protocol.VoiceEventRunEnd {
		t.Errorf("broadcast event types = [%d %d], want [%d %d]",
			snap.events[0].eventType, snap.events[1].eventType,
			protocol.VoiceEventRunStart, protocol.VoiceEventRunEnd)
	}
}

func TestHandleVoiceEventForwardsData(t *testing.T) {
	o, s, b := newTestOrchestrator(t, nil)

	payload := (&protocol.VoiceAssistantEventResponse{
		EventType: protocol.VoiceEventSTTEnd,
		Data: []protocol.VoiceAssistantEventData{
			{Name: "text", Value: "turn on the lights"},
		},
	}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeVoiceAssistantEvent, payload)

	// Intermediate events touch no entity state.
	if n := len(s.messages()); n != 0 {
		t.Errorf("sent %d messages, want 0", n)
	}

	snap := b.snapshot()
	if len(snap.events) != 1 {
		t.Fatalf("broadcast %d events, want 1", len(snap.events))
	}
	if got := snap.events[0].data["text"]; got != "turn on the lights" {
		t.Errorf("event data text = %q, want %q", got, "turn on the lights")
	}
}

func TestHandleVoiceAudio(t *testing.T) {
	o, s, b := newTestOrchestrator(t, nil)

	payload := (&protocol.VoiceAssistantAudio{Data: []byte{0xAA, 0xBB}}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeVoiceAssistantAudio, payload)

	snap := b.snapshot()
	if len(snap.audio) != 1 {
		t.Fatalf("broadcast %d audio chunks, want 1", len(snap.audio))
	}
	if string(snap.audio[0]) != string([]byte{0xAA, 0xBB}) {
		t.Errorf("broadcast audio = %v, want [170 187]", snap.audio[0])
	}
	if n := len(s.messages()); n != 0 {
		t.Errorf("sent %d messages back to hub, want 0", n)
	}
}

func TestHandleVoiceAudioEmptyIgnored(t *testing.T) {
	o, s, b := newTestOrchestrator(t, nil)

	payload := (&protocol.VoiceAssistantAudio{End: true}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeVoiceAssistantAudio, payload)

	if snap := b.snapshot(); len(snap.audio) != 0 {
		t.Errorf("broadcast %d audio chunks for empty payload, want 0", len(snap.audio))
	}
	if n := len(s.messages()); n != 0 {
		t.Errorf("sent %d messages, want 0", n)
	}
}

func TestHandleVoiceRequestStartsListening(t *testing.T) {
	o, s, b := newTestOrchestrator(t, nil)

	start := (&protocol.VoiceAssistantRequest{Start: true, ConversationID: "abc"}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeVoiceAssistantRequest, start)

	if snap := b.snapshot(); snap.startListens != 1 {
		t.Errorf("start-listening notifications = %d, want 1", snap.startListens)
	}

	stop := (&protocol.VoiceAssistantRequest{Start: false}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeVoiceAssistantRequest, stop)

	if snap := b.snapshot(); snap.startListens != 1 {
		t.Errorf("stop request changed notifications to %d, want 1", snap.startListens)
	}
}

func TestHandleConfigurationRequest(t *testing.T) {
	o, s, _ := newTestOrchestrator(t, nil)

	o.handleMessage(s, protocol.MsgTypeVoiceAssistantConfigReq, nil)

	sent := s.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	resp, ok := sent[0].(*protocol.VoiceAssistantConfigurationResponse)
	if !ok {
		t.Fatalf("sent %T, want *protocol.VoiceAssistantConfigurationResponse", sent[0])
	}
	if len(resp.AvailableWakeWords) != 2 {
		t.Errorf("available wake words = %d, want 2", len(resp.AvailableWakeWords))
	}
	if len(resp.ActiveWakeWords) != 1 || resp.ActiveWakeWords[0] != "okay_nabu" {
		t.Errorf("active wake words = %v, want [okay_nabu]", resp.ActiveWakeWords)
	}
	if resp.MaxActiveWakeWords != 1 {
		t.Errorf("MaxActiveWakeWords = %d, want 1", resp.MaxActiveWakeWords)
	}
}

func TestHandleSetConfiguration(t *testing.T) {
	settings := &fakeSettings{}
	o, s, b := newTestOrchestrator(t, settings)

	payload := (&protocol.VoiceAssistantSetConfiguration{ActiveWakeWords: []string{"alexa"}}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeVoiceAssistantSetConfig, payload)

	if got := o.ActiveWakeWord(); got != "alexa_v0.1" {
		t.Errorf("ActiveWakeWord() = %q, want %q", got, "alexa_v0.1")
	}

	// Exactly one browser notification, in client namespace.
	snap := b.snapshot()
	if len(snap.configUpdates) != 1 || snap.configUpdates[0] != "alexa_v0.1" {
		t.Errorf("config updates = %v, want [alexa_v0.1]", snap.configUpdates)
	}

	// Exactly one confirmation to the hub, in hub namespace.
	sent := s.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	resp := sent[0].(*protocol.VoiceAssistantConfigurationResponse)
	if len(resp.ActiveWakeWords) != 1 || resp.ActiveWakeWords[0] != "alexa" {
		t.Errorf("confirmed active = %v, want [alexa]", resp.ActiveWakeWords)
	}

	settings.mu.Lock()
	saved := append([]string(nil), settings.savedWake...)
	settings.mu.Unlock()
	if len(saved) != 1 || saved[0] != "alexa_v0.1" {
		t.Errorf("persisted selections = %v, want [alexa_v0.1]", saved)
	}
}

func TestHandleSetConfigurationLegacyField(t *testing.T) {
	o, s, _ := newTestOrchestrator(t, nil)

	payload := (&protocol.VoiceAssistantSetConfiguration{WakeWordID: "okay_nabu"}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeVoiceAssistantSetConfig, payload)

	if got := o.ActiveWakeWord(); got != "okay_nabu_v0.1" {
		t.Errorf("ActiveWakeWord() = %q, want %q", got, "okay_nabu_v0.1")
	}
}

func TestHandleSetConfigurationEmptyIgnored(t *testing.T) {
	o, s, b := newTestOrchestrator(t, nil)

	o.handleMessage(s, protocol.MsgTypeVoiceAssistantSetConfig, nil)

	if got := o.ActiveWakeWord(); got != DefaultWakeWord {
		t.Errorf("ActiveWakeWord() = %q, want unchanged default", got)
	}
	if n := len(s.messages()); n != 0 {
		t.Errorf("sent %d messages, want 0", n)
	}
	if snap := b.snapshot(); len(snap.configUpdates) != 0 {
		t.Errorf("config updates = %v, want none", snap.configUpdates)
	}
}

func TestHandleMediaCommandVolume(t *testing.T) {
	o, s, _ := newTestOrchestrator(t, nil)

	payload := (&protocol.MediaPlayerCommandRequest{
		Key:       entities.KeySpeaker,
		HasVolume: true,
		Volume:    0.25,
	}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeMediaPlayerCommand, payload)

	sent := s.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	state := sent[0].(*protocol.MediaPlayerStateResponse)
	if state.Volume != 0.25 {
		t.Errorf("Volume = %v, want 0.25", state.Volume)
	}
	if state.State != protocol.MediaPlayerStateIdle {
		t.Errorf("State = %v, want idle: volume alone must not change playback", state.State)
	}
}

func TestHandleMediaCommandTransport(t *testing.T) {
	tests := []struct {
		name      string
		command   protocol.MediaPlayerCommand
		wantState protocol.MediaPlayerState
		wantMuted bool
	}{
		{"play", protocol.MediaPlayerCommandPlay, protocol.MediaPlayerStatePlaying, false},
		{"pause", protocol.MediaPlayerCommandPause, protocol.MediaPlayerStatePaused, false},
		{"stop", protocol.MediaPlayerCommandStop, protocol.MediaPlayerStateIdle, false},
		{"mute", protocol.MediaPlayerCommandMute, protocol.MediaPlayerStateIdle, true},
		{"unmute", protocol.MediaPlayerCommandUnmute, protocol.MediaPlayerStateIdle, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, s, _ := newTestOrchestrator(t, nil)

			payload := (&protocol.MediaPlayerCommandRequest{
				Key:        entities.KeySpeaker,
				HasCommand: true,
				Command:    tt.command,
			}).MarshalPayload()
			o.handleMessage(s, protocol.MsgTypeMediaPlayerCommand, payload)

			sent := s.messages()
			if len(sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(sent))
			}
			state := sent[0].(*protocol.MediaPlayerStateResponse)
			if state.State != tt.wantState {
				t.Errorf("State = %v, want %v", state.State, tt.wantState)
			}
			if state.Muted != tt.wantMuted {
				t.Errorf("Muted = %v, want %v", state.Muted, tt.wantMuted)
			}
		})
	}
}

func TestHandleMediaCommandVolumeThenCommand(t *testing.T) {
	o, s, _ := newTestOrchestrator(t, nil)

	payload := (&protocol.MediaPlayerCommandRequest{
		Key:        entities.KeySpeaker,
		HasVolume:  true,
		Volume:     0.8,
		HasCommand: true,
		Command:    protocol.MediaPlayerCommandPlay,
	}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeMediaPlayerCommand, payload)

	sent := s.messages()
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2 (volume state, then play state)", len(sent))
	}
	first := sent[0].(*protocol.MediaPlayerStateResponse)
	if first.Volume != 0.8 || first.State != protocol.MediaPlayerStateIdle {
		t.Errorf("first state = {%v %v}, want volume 0.8 still idle", first.State, first.Volume)
	}
	second := sent[1].(*protocol.MediaPlayerStateResponse)
	if second.State != protocol.MediaPlayerStatePlaying || second.Volume != 0.8 {
		t.Errorf("second state = {%v %v}, want playing at 0.8", second.State, second.Volume)
	}
}

func TestHandleMediaCommandPlayURL(t *testing.T) {
	media := []byte("RIFF....WAVEfmt fake wav payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(media)
	}))
	defer srv.Close()

	o, s, b := newTestOrchestrator(t, nil)

	payload := (&protocol.MediaPlayerCommandRequest{
		Key:         entities.KeySpeaker,
		HasMediaURL: true,
		MediaURL:    srv.URL,
	}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeMediaPlayerCommand, payload)

	waitFor(t, func() bool {
		return len(s.messages()) == 2
	}, "player never reported playing then idle")

	snap := b.snapshot()
	if len(snap.audio) != 1 || string(snap.audio[0]) != string(media) {
		t.Fatalf("broadcast audio = %d chunks, want the fetched media", len(snap.audio))
	}

	sent := s.messages()
	playing := sent[0].(*protocol.MediaPlayerStateResponse)
	if playing.State != protocol.MediaPlayerStatePlaying {
		t.Errorf("first state = %v, want playing", playing.State)
	}
	if playing.Volume != entities.DefaultVolume || playing.Muted {
		t.Errorf("playing state = {vol %v muted %v}, want {vol %v muted false}",
			playing.Volume, playing.Muted, float32(entities.DefaultVolume))
	}
	idle := sent[1].(*protocol.MediaPlayerStateResponse)
	if idle.State != protocol.MediaPlayerStateIdle {
		t.Errorf("second state = %v, want idle", idle.State)
	}
}

func TestHandleMediaCommandPlayURLFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	o, s, b := newTestOrchestrator(t, nil)

	payload := (&protocol.MediaPlayerCommandRequest{
		Key:         entities.KeySpeaker,
		HasMediaURL: true,
		MediaURL:    srv.URL,
	}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeMediaPlayerCommand, payload)

	// The fetch runs on its own goroutine; give it time to fail.
	time.Sleep(100 * time.Millisecond)

	if snap := b.snapshot(); len(snap.audio) != 0 {
		t.Errorf("broadcast %d audio chunks for failed fetch, want 0", len(snap.audio))
	}
	if n := len(s.messages()); n != 0 {
		t.Errorf("sent %d state messages for failed fetch, want 0", n)
	}
}

func TestHandleSwitchCommand(t *testing.T) {
	settings := &fakeSettings{}
	o, s, _ := newTestOrchestrator(t, settings)

	payload := (&protocol.SwitchCommandRequest{Key: entities.KeyMuteSwitch, State: true}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeSwitchCommand, payload)

	if !o.MicMuted() {
		t.Error("MicMuted() = false after mute command")
	}

	sent := s.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	state := sent[0].(*protocol.SwitchStateResponse)
	if state.Key != entities.KeyMuteSwitch || !state.State {
		t.Errorf("switch state = {%d %v}, want {%d true}", state.Key, state.State, entities.KeyMuteSwitch)
	}

	settings.mu.Lock()
	saved := append([]bool(nil), settings.savedMuted...)
	settings.mu.Unlock()
	if len(saved) != 1 || !saved[0] {
		t.Errorf("persisted mute states = %v, want [true]", saved)
	}
}

func TestHandleSwitchCommandUnknownKey(t *testing.T) {
	o, s, _ := newTestOrchestrator(t, nil)

	payload := (&protocol.SwitchCommandRequest{Key: 99, State: true}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeSwitchCommand, payload)

	if o.MicMuted() {
		t.Error("unknown key muted the microphone")
	}
	if n := len(s.messages()); n != 0 {
		t.Errorf("sent %d messages, want 0", n)
	}
}

func TestHandleSelectCommand(t *testing.T) {
	o, s, _ := newTestOrchestrator(t, nil)

	payload := (&protocol.SelectCommandRequest{Key: entities.KeyPipelineSelect, State: "default"}).MarshalPayload()
	o.handleMessage(s, protocol.MsgTypeSelectCommand, payload)

	sent := s.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	state := sent[0].(*protocol.SelectStateResponse)
	if state.Key != entities.KeyPipelineSelect || state.State != "default" {
		t.Errorf("select state = {%d %q}, want {%d default}", state.Key, state.State, entities.KeyPipelineSelect)
	}
}

func TestHandleUnknownMessageType(t *testing.T) {
	o, s, b := newTestOrchestrator(t, nil)

	o.handleMessage(s, 999, []byte{0x01, 0x02})

	if n := len(s.messages()); n != 0 {
		t.Errorf("sent %d messages, want 0", n)
	}
	if snap := b.snapshot(); len(snap.events) != 0 || len(snap.audio) != 0 {
		t.Error("unknown message type reached the broadcaster")
	}
}

func TestHandleMalformedPayload(t *testing.T) {
	o, s, b := newTestOrchestrator(t, nil)

	// 0xff opens a field with an invalid wire type; every typed handler
	// must log and skip without sending anything.
	for _, msgType := range []uint32{
		protocol.MsgTypeVoiceAssistantRequest,
		protocol.MsgTypeVoiceAssistantEvent,
		protocol.MsgTypeVoiceAssistantAudio,
		protocol.MsgTypeVoiceAssistantSetConfig,
		protocol.MsgTypeMediaPlayerCommand,
		protocol.MsgTypeSwitchCommand,
		protocol.MsgTypeSelectCommand,
	} {
		o.handleMessage(s, msgType, []byte{0xff})
	}

	if n := len(s.messages()); n != 0 {
		t.Errorf("sent %d messages for malformed payloads, want 0", n)
	}
	if snap := b.snapshot(); len(snap.events) != 0 || len(snap.audio) != 0 || len(snap.configUpdates) != 0 {
		t.Error("malformed payload reached the broadcaster")
	}
	if got := o.ActiveWakeWord(); got != DefaultWakeWord {
		t.Errorf("ActiveWakeWord() = %q, want unchanged default", got)
	}
}
