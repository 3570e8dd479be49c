package entities

import "github.com/hybridsat/hybrid-satellite/internal/protocol"

// Kind identifies which discovery and state message schema an entity uses.
type Kind int

const (
	KindMediaPlayer Kind = iota
	KindSelect
	KindSwitch
	KindBinarySensor
)

func (k Kind) String() string {
	switch k {
	case KindMediaPlayer:
		return "media_player"
	case KindSelect:
		return "select"
	case KindSwitch:
		return "switch"
	case KindBinarySensor:
		return "binary_sensor"
	default:
		return "unknown"
	}
}

// Entity keys. The hub tracks entities by key, so these are stable across
// restarts and releases. Key 3 belonged to a wake-word selector that no
// longer exists; it must not be reused.
const (
	KeySpeaker        uint32 = 1
	KeyPipelineSelect uint32 = 2
	KeyMuteSwitch     uint32 = 4
	KeyAssistSensor   uint32 = 5
)

// Entity describes one virtual entity the gateway presents to the hub.
type Entity struct {
	Key      uint32
	ObjectID string
	Name     string
	Kind     Kind
	Category protocol.EntityCategory
}

// SpeakerFeatureFlags advertises the media-player capabilities the gateway
// honors: pause, volume set/mute, play media, stop, play, browse, announce.
const SpeakerFeatureFlags = protocol.MediaFeaturePause |
	protocol.MediaFeatureVolumeSet |
	protocol.MediaFeatureVolumeMute |
	protocol.MediaFeaturePlayMedia |
	protocol.MediaFeatureStop |
	protocol.MediaFeaturePlay |
	protocol.MediaFeatureBrowseMedia |
	protocol.MediaFeatureAnnounce

// SpeakerFormat is the only audio format the browser speaker path accepts.
var SpeakerFormat = protocol.MediaPlayerSupportedFormat{
	Format:      "wav",
	SampleRate:  16000,
	NumChannels: 1,
	SampleBytes: 2,
}

// PipelineOptions are the selectable pipeline names. The hub picks the
// actual assist pipeline; the gateway only exposes the default slot.
var PipelineOptions = []string{"default"}

var catalogue = []Entity{
	{
		Key:      KeySpeaker,
		ObjectID: "hybrid_voice_assistant_speaker",
		Name:     "Hybrid Voice Assistant Speaker",
		Kind:     KindMediaPlayer,
		Category: protocol.CategoryNone,
	},
	{
		Key:      KeyPipelineSelect,
		ObjectID: "pipeline",
		Name:     "Pipeline",
		Kind:     KindSelect,
		Category: protocol.CategoryConfig,
	},
	{
		Key:      KeyMuteSwitch,
		ObjectID: "mute",
		Name:     "Mute Microphone",
		Kind:     KindSwitch,
		Category: protocol.CategoryConfig,
	},
	{
		Key:      KeyAssistSensor,
		ObjectID: "assist_active",
		Name:     "Assist Active",
		Kind:     KindBinarySensor,
		Category: protocol.CategoryDiagnostic,
	},
}

// Catalogue returns the fixed entity catalogue in declaration order.
// The returned slice is a copy; callers may not mutate the catalogue.
func Catalogue() []Entity {
	out := make([]Entity, len(catalogue))
	copy(out, catalogue)
	return out
}
