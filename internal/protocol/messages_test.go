package protocol

import (
	"bytes"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestHelloResponseMarshal(t *testing.T) {
	m := &HelloResponse{
		APIVersionMajor: 1,
		APIVersionMinor: 10,
		ServerInfo:      "srv",
		Name:            "name",
	}

	want := []byte{
		0x08, 0x01, // api_version_major = 1
		0x10, 0x0a, // api_version_minor = 10
		0x1a, 0x03, 's', 'r', 'v', // server_info
		0x22, 0x04, 'n', 'a', 'm', 'e', // name
	}
	if got := m.MarshalPayload(); !bytes.Equal(got, want) {
		t.Errorf("MarshalPayload() = %x, want %x", got, want)
	}
}

func TestSwitchStateMarshal(t *testing.T) {
	tests := []struct {
		name string
		msg  SwitchStateResponse
		want []byte
	}{
		{
			name: "on",
			msg:  SwitchStateResponse{Key: 4, State: true},
			want: []byte{0x0d, 0x04, 0x00, 0x00, 0x00, 0x10, 0x01},
		},
		{
			name: "off omits state field",
			msg:  SwitchStateResponse{Key: 4},
			want: []byte{0x0d, 0x04, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.MarshalPayload(); !bytes.Equal(got, tt.want) {
				t.Errorf("MarshalPayload() = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestMediaPlayerStateMarshal(t *testing.T) {
	m := &MediaPlayerStateResponse{
		Key:    1,
		State:  MediaPlayerStatePlaying,
		Volume: 0.5,
	}

	want := []byte{
		0x0d, 0x01, 0x00, 0x00, 0x00, // key = 1 (fixed32)
		0x10, 0x02, // state = playing
		0x1d, 0x00, 0x00, 0x00, 0x3f, // volume = 0.5
	}
	if got := m.MarshalPayload(); !bytes.Equal(got, want) {
		t.Errorf("MarshalPayload() = %x, want %x", got, want)
	}

	var back MediaPlayerStateResponse
	if err := back.UnmarshalPayload(want); err != nil {
		t.Fatalf("UnmarshalPayload() error = %v", err)
	}
	if back.Key != 1 || back.State != MediaPlayerStatePlaying || back.Volume != 0.5 || back.Muted {
		t.Errorf("decoded = %+v", back)
	}
}

func TestVoiceAssistantRequestMarshal(t *testing.T) {
	m := &VoiceAssistantRequest{
		Start:          true,
		WakeWordPhrase: "okay_nabu",
		AudioSettings:  VoiceAssistantAudioSettings{VolumeMultiplier: 1.0},
	}

	want := []byte{
		0x08, 0x01, // start = true
		0x22, 0x05, 0x1d, 0x00, 0x00, 0x80, 0x3f, // audio_settings{volume_multiplier: 1.0}
		0x2a, 0x09, 'o', 'k', 'a', 'y', '_', 'n', 'a', 'b', 'u', // wake_word_phrase
	}
	if got := m.MarshalPayload(); !bytes.Equal(got, want) {
		t.Errorf("MarshalPayload() = %x, want %x", got, want)
	}
}

func TestMediaPlayerCommandDecode(t *testing.T) {
	tests := []struct {
		name string
		msg  MediaPlayerCommandRequest
	}{
		{
			name: "play url",
			msg: MediaPlayerCommandRequest{
				Key:             1,
				HasMediaURL:     true,
				MediaURL:        "http://hub.local/tts.wav",
				HasAnnouncement: true,
				Announcement:    true,
			},
		},
		{
			name: "volume only",
			msg:  MediaPlayerCommandRequest{Key: 1, HasVolume: true, Volume: 0.25},
		},
		{
			name: "mute command",
			msg: MediaPlayerCommandRequest{
				Key:        1,
				HasCommand: true,
				Command:    MediaPlayerCommandMute,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got MediaPlayerCommandRequest
			if err := got.UnmarshalPayload(tt.msg.MarshalPayload()); err != nil {
				t.Fatalf("UnmarshalPayload() error = %v", err)
			}
			if got != tt.msg {
				t.Errorf("decoded = %+v, want %+v", got, tt.msg)
			}
		})
	}
}

func TestSetConfigurationDecode(t *testing.T) {
	tests := []struct {
		name       string
		payload    []byte
		wantActive []string
		wantLegacy string
	}{
		{
			name:       "active list",
			payload:    (&VoiceAssistantSetConfiguration{ActiveWakeWords: []string{"alexa"}}).MarshalPayload(),
			wantActive: []string{"alexa"},
		},
		{
			name:       "legacy single field",
			payload:    (&VoiceAssistantSetConfiguration{WakeWordID: "okay_nabu"}).MarshalPayload(),
			wantLegacy: "okay_nabu",
		},
		{
			name:    "empty payload",
			payload: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got VoiceAssistantSetConfiguration
			if err := got.UnmarshalPayload(tt.payload); err != nil {
				t.Fatalf("UnmarshalPayload() error = %v", err)
			}
			if len(got.ActiveWakeWords) != len(tt.wantActive) {
				t.Fatalf("active = %v, want %v", got.ActiveWakeWords, tt.wantActive)
			}
			for i := range tt.wantActive {
				if got.ActiveWakeWords[i] != tt.wantActive[i] {
					t.Errorf("active[%d] = %q, want %q", i, got.ActiveWakeWords[i], tt.wantActive[i])
				}
			}
			if got.WakeWordID != tt.wantLegacy {
				t.Errorf("legacy id = %q, want %q", got.WakeWordID, tt.wantLegacy)
			}
		})
	}
}

func TestVoiceEventDataMap(t *testing.T) {
	m := &VoiceAssistantEventResponse{
		EventType: VoiceEventSTTEnd,
		Data: []VoiceAssistantEventData{
			{Name: "text", Value: "turn on the lights"},
			{Name: "conversation_id", Value: "abc"},
		},
	}

	var back VoiceAssistantEventResponse
	if err := back.UnmarshalPayload(m.MarshalPayload()); err != nil {
		t.Fatalf("UnmarshalPayload() error = %v", err)
	}
	if back.EventType != VoiceEventSTTEnd {
		t.Errorf("event type = %d, want %d", back.EventType, VoiceEventSTTEnd)
	}
	data := back.DataMap()
	if data["text"] != "turn on the lights" || data["conversation_id"] != "abc" {
		t.Errorf("data map = %v", data)
	}
}

func TestUnknownFieldsSkipped(t *testing.T) {
	// A payload carrying fields this gateway has never heard of must still
	// decode the fields it knows.
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 1) // start = true
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "from a newer hub")
	b = protowire.AppendTag(b, 98, protowire.VarintType)
	b = protowire.AppendVarint(b, 12345)

	var m VoiceAssistantRequest
	if err := m.UnmarshalPayload(b); err != nil {
		t.Fatalf("UnmarshalPayload() error = %v", err)
	}
	if !m.Start {
		t.Error("known field lost while skipping unknown fields")
	}
}

func TestConfigurationResponseRoundTrip(t *testing.T) {
	m := &VoiceAssistantConfigurationResponse{
		AvailableWakeWords: []VoiceAssistantWakeWord{
			{ID: "okay_nabu", WakeWord: "Okay Nabu", TrainedLanguages: []string{"en"}},
			{ID: "alexa", WakeWord: "Alexa", TrainedLanguages: []string{"en"}},
		},
		ActiveWakeWords:    []string{"okay_nabu"},
		MaxActiveWakeWords: 1,
	}

	var back VoiceAssistantConfigurationResponse
	if err := back.UnmarshalPayload(m.MarshalPayload()); err != nil {
		t.Fatalf("UnmarshalPayload() error = %v", err)
	}
	if len(back.AvailableWakeWords) != 2 {
		t.Fatalf("available = %d entries, want 2", len(back.AvailableWakeWords))
	}
	if back.AvailableWakeWords[1].ID != "alexa" {
		t.Errorf("second entry = %q, want alexa", back.AvailableWakeWords[1].ID)
	}
	if len(back.ActiveWakeWords) != 1 || back.ActiveWakeWords[0] != "okay_nabu" {
		t.Errorf("active = %v", back.ActiveWakeWords)
	}
	if back.MaxActiveWakeWords != 1 {
		t.Errorf("max active = %d, want 1", back.MaxActiveWakeWords)
	}
}
