package entities

import (
	"testing"

	"github.com/hybridsat/hybrid-satellite/internal/protocol"
)

func TestCatalogueKeys(t *testing.T) {
	cat := Catalogue()

	if len(cat) != 4 {
		t.Fatalf("Catalogue() returned %d entries, want 4", len(cat))
	}

	wantKeys := map[uint32]bool{1: false, 2: false, 4: false, 5: false}
	for _, e := range cat {
		seen, ok := wantKeys[e.Key]
		if !ok {
			t.Errorf("unexpected entity key %d (%s)", e.Key, e.ObjectID)
			continue
		}
		if seen {
			t.Errorf("duplicate entity key %d", e.Key)
		}
		wantKeys[e.Key] = true
	}
	for key, seen := range wantKeys {
		if !seen {
			t.Errorf("catalogue missing key %d", key)
		}
	}
}

func TestCatalogueOrder(t *testing.T) {
	cat := Catalogue()

	wantOrder := []uint32{KeySpeaker, KeyPipelineSelect, KeyMuteSwitch, KeyAssistSensor}
	for i, want := range wantOrder {
		if cat[i].Key != want {
			t.Errorf("catalogue[%d].Key = %d, want %d", i, cat[i].Key, want)
		}
	}
}

func TestDiscoveryMessages(t *testing.T) {
	r := NewRegistry()
	msgs := r.DiscoveryMessages()

	// One message per entity plus the done sentinel
	if len(msgs) != 5 {
		t.Fatalf("DiscoveryMessages() returned %d messages, want 5", len(msgs))
	}

	mp, ok := msgs[0].(*protocol.ListEntitiesMediaPlayerResponse)
	if !ok {
		t.Fatalf("msgs[0] = %T, want ListEntitiesMediaPlayerResponse", msgs[0])
	}
	if mp.Key != KeySpeaker {
		t.Errorf("media player key = %d, want %d", mp.Key, KeySpeaker)
	}
	if mp.ObjectID != "hybrid_voice_assistant_speaker" {
		t.Errorf("media player object_id = %q", mp.ObjectID)
	}
	if !mp.SupportsPause {
		t.Error("media player should advertise pause support")
	}
	if mp.FeatureFlags != SpeakerFeatureFlags {
		t.Errorf("media player feature_flags = %d, want %d", mp.FeatureFlags, SpeakerFeatureFlags)
	}
	if len(mp.SupportedFormats) != 1 {
		t.Fatalf("media player advertises %d formats, want 1", len(mp.SupportedFormats))
	}
	f := mp.SupportedFormats[0]
	if f.Format != "wav" || f.SampleRate != 16000 || f.NumChannels != 1 || f.SampleBytes != 2 {
		t.Errorf("supported format = %+v, want wav 16kHz mono 16-bit", f)
	}

	sel, ok := msgs[1].(*protocol.ListEntitiesSelectResponse)
	if !ok {
		t.Fatalf("msgs[1] = %T, want ListEntitiesSelectResponse", msgs[1])
	}
	if sel.Key != KeyPipelineSelect {
		t.Errorf("select key = %d, want %d", sel.Key, KeyPipelineSelect)
	}
	if len(sel.Options) != 1 || sel.Options[0] != "default" {
		t.Errorf("select options = %v, want [default]", sel.Options)
	}

	sw, ok := msgs[2].(*protocol.ListEntitiesSwitchResponse)
	if !ok {
		t.Fatalf("msgs[2] = %T, want ListEntitiesSwitchResponse", msgs[2])
	}
	if sw.Key != KeyMuteSwitch {
		t.Errorf("switch key = %d, want %d", sw.Key, KeyMuteSwitch)
	}
	if sw.Name != "Mute Microphone" {
		t.Errorf("switch name = %q, want Mute Microphone", sw.Name)
	}

	bs, ok := msgs[3].(*protocol.ListEntitiesBinarySensorResponse)
	if !ok {
		t.Fatalf("msgs[3] = %T, want ListEntitiesBinarySensorResponse", msgs[3])
	}
	if bs.Key != KeyAssistSensor {
		t.Errorf("binary sensor key = %d, want %d", bs.Key, KeyAssistSensor)
	}

	if _, ok := msgs[4].(*protocol.ListEntitiesDoneResponse); !ok {
		t.Fatalf("msgs[4] = %T, want ListEntitiesDoneResponse", msgs[4])
	}
}

func TestStateMessagesInitial(t *testing.T) {
	r := NewRegistry()
	msgs := r.StateMessages()

	if len(msgs) != 4 {
		t.Fatalf("StateMessages() returned %d messages, want 4", len(msgs))
	}

	mp, ok := msgs[0].(*protocol.MediaPlayerStateResponse)
	if !ok {
		t.Fatalf("msgs[0] = %T, want MediaPlayerStateResponse", msgs[0])
	}
	if mp.State != protocol.MediaPlayerStateIdle {
		t.Errorf("initial player state = %v, want idle", mp.State)
	}
	if mp.Volume != DefaultVolume {
		t.Errorf("initial volume = %v, want %v", mp.Volume, DefaultVolume)
	}
	if mp.Muted {
		t.Error("player should start unmuted")
	}

	sel := msgs[1].(*protocol.SelectStateResponse)
	if sel.State != "default" {
		t.Errorf("initial pipeline = %q, want default", sel.State)
	}

	sw := msgs[2].(*protocol.SwitchStateResponse)
	if sw.State {
		t.Error("mic mute should start off")
	}

	bs := msgs[3].(*protocol.BinarySensorStateResponse)
	if bs.State {
		t.Error("assist sensor should start inactive")
	}
}

func TestStateMessagesReflectMutations(t *testing.T) {
	r := NewRegistry()

	r.SetPlayer(protocol.MediaPlayerStatePlaying, 0.8, true)
	r.SetPipeline("custom")
	r.SetMicMuted(true)
	r.SetAssistActive(true)

	msgs := r.StateMessages()

	mp := msgs[0].(*protocol.MediaPlayerStateResponse)
	if mp.State != protocol.MediaPlayerStatePlaying || mp.Volume != 0.8 || !mp.Muted {
		t.Errorf("player state = %+v, want playing/0.8/muted", mp)
	}
	if sel := msgs[1].(*protocol.SelectStateResponse); sel.State != "custom" {
		t.Errorf("pipeline = %q, want custom", sel.State)
	}
	if sw := msgs[2].(*protocol.SwitchStateResponse); !sw.State {
		t.Error("mic mute should be on")
	}
	if bs := msgs[3].(*protocol.BinarySensorStateResponse); !bs.State {
		t.Error("assist sensor should be active")
	}
}

func TestSetPlayerStateKeepsVolume(t *testing.T) {
	r := NewRegistry()

	r.SetPlayerVolume(0.3)
	msg := r.SetPlayerState(protocol.MediaPlayerStatePlaying)

	if msg.State != protocol.MediaPlayerStatePlaying {
		t.Errorf("state = %v, want playing", msg.State)
	}
	if msg.Volume != 0.3 {
		t.Errorf("volume = %v, want 0.3 (unchanged)", msg.Volume)
	}
}

func TestSetterReturnValues(t *testing.T) {
	r := NewRegistry()

	sw := r.SetMicMuted(true)
	if sw.Key != KeyMuteSwitch || !sw.State {
		t.Errorf("SetMicMuted returned key=%d state=%v, want key=%d state=true", sw.Key, sw.State, KeyMuteSwitch)
	}
	if !r.MicMuted() {
		t.Error("MicMuted() should report true after SetMicMuted(true)")
	}

	bs := r.SetAssistActive(true)
	if bs.Key != KeyAssistSensor || !bs.State {
		t.Errorf("SetAssistActive returned key=%d state=%v", bs.Key, bs.State)
	}

	sel := r.SetPipeline("other")
	if sel.Key != KeyPipelineSelect || sel.State != "other" {
		t.Errorf("SetPipeline returned key=%d state=%q", sel.Key, sel.State)
	}
}
