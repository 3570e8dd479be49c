package hub

import (
	"github.com/hybridsat/hybrid-satellite/internal/config"
)

// MessageType identifies a JSON control message on the browser socket.
type MessageType string

// Control messages browsers send.
const (
	MessageTypeAuth          MessageType = "auth"
	MessageTypeWakeDetected  MessageType = "wake_detected"
	MessageTypePing          MessageType = "ping"
	MessageTypeStatusRequest MessageType = "status_request"
)

// Control messages the hub sends.
const (
	MessageTypeAuthOK         MessageType = "auth_ok"
	MessageTypeAuthFailed     MessageType = "auth_failed"
	MessageTypeStartListening MessageType = "start_listening"
	MessageTypeVoiceEvent     MessageType = "voice_event"
	MessageTypeConfigUpdate   MessageType = "config_update"
	MessageTypePong           MessageType = "pong"
	MessageTypeStatus         MessageType = "status"
)

// ClientMessage is any control message a browser sends. Fields beyond Type
// are populated depending on the type; unknown fields are ignored.
type ClientMessage struct {
	Type     MessageType `json:"type"`
	Token    string      `json:"token,omitempty"`
	WakeWord string      `json:"wake_word,omitempty"`
}

// Ack is a control message carrying nothing but its type.
type Ack struct {
	Type MessageType `json:"type"`
}

// VoiceEventMessage forwards one voice pipeline event to browsers. EventType
// carries the device-protocol event number; Data carries the event's
// key/value pairs (transcripts, error descriptions, media URLs).
type VoiceEventMessage struct {
	Type      MessageType       `json:"type"`
	EventType uint32            `json:"event_type"`
	Data      map[string]string `json:"data"`
}

// ConfigUpdateMessage tells browsers which wake word model to run.
type ConfigUpdateMessage struct {
	Type     MessageType `json:"type"`
	WakeWord string      `json:"wake_word"`
}

// StatusMessage is the hub's answer to a status_request and the payload of
// the HTTP status endpoint.
type StatusMessage struct {
	Type        MessageType   `json:"type"`
	Clients     int           `json:"clients"`
	HAConnected bool          `json:"ha_connected"`
	Config      config.Client `json:"config"`
}

// CreateVoiceEventMessage builds a voice_event message. A nil data map is
// sent as an empty object so clients can index into it unconditionally.
func CreateVoiceEventMessage(eventType uint32, data map[string]string) *VoiceEventMessage {
	if data == nil {
		data = map[string]string{}
	}
	return &VoiceEventMessage{
		Type:      MessageTypeVoiceEvent,
		EventType: eventType,
		Data:      data,
	}
}

// CreateConfigUpdateMessage builds a config_update message.
func CreateConfigUpdateMessage(wakeWord string) *ConfigUpdateMessage {
	return &ConfigUpdateMessage{
		Type:     MessageTypeConfigUpdate,
		WakeWord: wakeWord,
	}
}

// CreateStatusMessage builds a status message.
func CreateStatusMessage(clients int, haConnected bool, clientCfg config.Client) *StatusMessage {
	return &StatusMessage{
		Type:        MessageTypeStatus,
		Clients:     clients,
		HAConnected: haConnected,
		Config:      clientCfg,
	}
}
