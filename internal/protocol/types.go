package protocol

// Message type identifiers for the device link. The numbering is fixed by the
// upstream home-automation integration and must not be reassigned.
const (
	MsgTypeHelloRequest       uint32 = 1
	MsgTypeHelloResponse      uint32 = 2
	MsgTypeConnectRequest     uint32 = 3
	MsgTypeConnectResponse    uint32 = 4
	MsgTypeDisconnectRequest  uint32 = 5
	MsgTypeDisconnectResponse uint32 = 6
	MsgTypePingRequest        uint32 = 7
	MsgTypePingResponse       uint32 = 8
	MsgTypeDeviceInfoRequest  uint32 = 9
	MsgTypeDeviceInfoResponse uint32 = 10

	MsgTypeListEntitiesRequest      uint32 = 11
	MsgTypeListEntitiesBinarySensor uint32 = 12
	MsgTypeListEntitiesSwitch       uint32 = 17
	MsgTypeListEntitiesDone         uint32 = 19
	MsgTypeSubscribeStates          uint32 = 20
	MsgTypeBinarySensorState        uint32 = 21
	MsgTypeSwitchState              uint32 = 26
	MsgTypeSwitchCommand            uint32 = 33
	MsgTypeListEntitiesSelect       uint32 = 52
	MsgTypeSelectState              uint32 = 53
	MsgTypeSelectCommand            uint32 = 54
	MsgTypeListEntitiesMediaPlayer  uint32 = 63
	MsgTypeMediaPlayerState         uint32 = 64
	MsgTypeMediaPlayerCommand       uint32 = 65

	MsgTypeSubscribeVoiceAssistant    uint32 = 89
	MsgTypeVoiceAssistantRequest      uint32 = 90
	MsgTypeVoiceAssistantResponse     uint32 = 91
	MsgTypeVoiceAssistantEvent        uint32 = 92
	MsgTypeVoiceAssistantAudio        uint32 = 106
	MsgTypeVoiceAssistantConfigReq    uint32 = 121
	MsgTypeVoiceAssistantConfigResp   uint32 = 122
	MsgTypeVoiceAssistantSetConfig    uint32 = 123
)

// EntityCategory mirrors the hub's entity category enum.
type EntityCategory uint32

const (
	CategoryNone EntityCategory = iota
	CategoryConfig
	CategoryDiagnostic
)

// MediaPlayerState is the wire value for the media player state field.
type MediaPlayerState uint32

const (
	MediaPlayerStateNone MediaPlayerState = iota
	MediaPlayerStateIdle
	MediaPlayerStatePlaying
	MediaPlayerStatePaused
)

// String returns the lowercase state name used in logs.
func (s MediaPlayerState) String() string {
	switch s {
	case MediaPlayerStateIdle:
		return "idle"
	case MediaPlayerStatePlaying:
		return "playing"
	case MediaPlayerStatePaused:
		return "paused"
	default:
		return "none"
	}
}

// MediaPlayerCommand is the command code carried by MediaPlayerCommandRequest.
type MediaPlayerCommand uint32

const (
	MediaPlayerCommandPlay MediaPlayerCommand = iota
	MediaPlayerCommandPause
	MediaPlayerCommandStop
	MediaPlayerCommandMute
	MediaPlayerCommandUnmute
)

// Voice assistant pipeline event types, as emitted by the hub.
const (
	VoiceEventError          uint32 = 0
	VoiceEventRunStart       uint32 = 1
	VoiceEventRunEnd         uint32 = 2
	VoiceEventSTTStart       uint32 = 3
	VoiceEventSTTEnd         uint32 = 4
	VoiceEventIntentStart    uint32 = 5
	VoiceEventIntentEnd      uint32 = 6
	VoiceEventTTSStart       uint32 = 7
	VoiceEventTTSEnd         uint32 = 8
	VoiceEventWakeWordStart  uint32 = 9
	VoiceEventWakeWordEnd    uint32 = 10
	VoiceEventTTSStreamStart uint32 = 98
	VoiceEventTTSStreamEnd   uint32 = 99
)

// Voice assistant feature bits advertised in the device info response.
const (
	VoiceFeatureVoiceAssistant uint32 = 1 << 0
	VoiceFeatureSpeaker        uint32 = 1 << 1
	VoiceFeatureAPIAudio       uint32 = 1 << 2
	VoiceFeatureTimers         uint32 = 1 << 3
	VoiceFeatureAnnounce       uint32 = 1 << 4
	VoiceFeatureStartConvo     uint32 = 1 << 5
)

// Media player feature bits advertised during entity discovery. The values
// follow the hub's media player feature bitfield.
const (
	MediaFeaturePause       uint32 = 1 << 0
	MediaFeatureVolumeSet   uint32 = 1 << 2
	MediaFeatureVolumeMute  uint32 = 1 << 3
	MediaFeaturePlayMedia   uint32 = 1 << 9
	MediaFeatureStop        uint32 = 1 << 12
	MediaFeaturePlay        uint32 = 1 << 14
	MediaFeatureBrowseMedia uint32 = 1 << 17
	MediaFeatureAnnounce    uint32 = 1 << 20
)
