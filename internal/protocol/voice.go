package protocol

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// SubscribeVoiceAssistantRequest is how the hub announces it will drive the
// voice pipeline through this connection.
type SubscribeVoiceAssistantRequest struct {
	Subscribe bool
	Flags     uint32
}

func (*SubscribeVoiceAssistantRequest) MessageType() uint32 { return MsgTypeSubscribeVoiceAssistant }

func (m *SubscribeVoiceAssistantRequest) MarshalPayload() []byte {
	var b []byte
	b = appendBoolField(b, 1, m.Subscribe)
	b = appendUintField(b, 2, uint64(m.Flags))
	return b
}

func (m *SubscribeVoiceAssistantRequest) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Subscribe = protowire.DecodeBool(v)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Flags = uint32(v)
			b = b[n:]
		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// VoiceAssistantAudioSettings rides inside VoiceAssistantRequest. The gateway
// always sends zero suppression, no auto gain, unity multiplier: audio
// conditioning happens in the browser, not on the hub.
type VoiceAssistantAudioSettings struct {
	NoiseSuppressionLevel uint32
	AutoGain              uint32
	VolumeMultiplier      float32
}

func (s *VoiceAssistantAudioSettings) marshal() []byte {
	var b []byte
	b = appendUintField(b, 1, uint64(s.NoiseSuppressionLevel))
	b = appendUintField(b, 2, uint64(s.AutoGain))
	b = appendFloatField(b, 3, s.VolumeMultiplier)
	return b
}

func (s *VoiceAssistantAudioSettings) unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			s.NoiseSuppressionLevel = uint32(v)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			s.AutoGain = uint32(v)
			b = b[n:]
		case num == 3 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			s.VolumeMultiplier = math.Float32frombits(v)
			b = b[n:]
		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// VoiceAssistantRequest starts or stops a pipeline run. The gateway sends it
// with Start=true when a browser reports a wake word; the hub sends it to the
// gateway when a run is initiated from its side.
type VoiceAssistantRequest struct {
	Start          bool
	ConversationID string
	Flags          uint32
	AudioSettings  VoiceAssistantAudioSettings
	WakeWordPhrase string
}

func (*VoiceAssistantRequest) MessageType() uint32 { return MsgTypeVoiceAssistantRequest }

func (m *VoiceAssistantRequest) MarshalPayload() []byte {
	var b []byte
	b = appendBoolField(b, 1, m.Start)
	b = appendStringField(b, 2, m.ConversationID)
	b = appendUintField(b, 3, uint64(m.Flags))
	if settings := m.AudioSettings.marshal(); len(settings) > 0 {
		b = appendBytesField(b, 4, settings)
	}
	b = appendStringField(b, 5, m.WakeWordPhrase)
	return b
}

func (m *VoiceAssistantRequest) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Start = protowire.DecodeBool(v)
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ConversationID = string(v)
			b = b[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Flags = uint32(v)
			b = b[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := m.AudioSettings.unmarshal(v); err != nil {
				return err
			}
			b = b[n:]
		case num == 5 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.WakeWordPhrase = string(v)
			b = b[n:]
		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// VoiceAssistantResponse is the hub's reply to a pipeline request. Port is
// only meaningful for UDP audio transports, which this gateway does not use.
type VoiceAssistantResponse struct {
	Port  uint32
	Error bool
}

func (*VoiceAssistantResponse) MessageType() uint32 { return MsgTypeVoiceAssistantResponse }

func (m *VoiceAssistantResponse) MarshalPayload() []byte {
	var b []byte
	b = appendUintField(b, 1, uint64(m.Port))
	b = appendBoolField(b, 2, m.Error)
	return b
}

func (m *VoiceAssistantResponse) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Port = uint32(v)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Error = protowire.DecodeBool(v)
			b = b[n:]
		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// VoiceAssistantEventData is one name/value item attached to a pipeline
// event.
type VoiceAssistantEventData struct {
	Name  string
	Value string
}

func (d *VoiceAssistantEventData) marshal() []byte {
	var b []byte
	b = appendStringField(b, 1, d.Name)
	b = appendStringField(b, 2, d.Value)
	return b
}

func (d *VoiceAssistantEventData) unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			d.Name = string(v)
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			d.Value = string(v)
			b = b[n:]
		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// VoiceAssistantEventResponse reports pipeline progress (run start, STT text,
// TTS stream, errors) as an event type with named data items.
type VoiceAssistantEventResponse struct {
	EventType uint32
	Data      []VoiceAssistantEventData
}

func (*VoiceAssistantEventResponse) MessageType() uint32 { return MsgTypeVoiceAssistantEvent }

func (m *VoiceAssistantEventResponse) MarshalPayload() []byte {
	var b []byte
	b = appendUintField(b, 1, uint64(m.EventType))
	for i := range m.Data {
		b = appendBytesField(b, 2, m.Data[i].marshal())
	}
	return b
}

func (m *VoiceAssistantEventResponse) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.EventType = uint32(v)
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var item VoiceAssistantEventData
			if err := item.unmarshal(v); err != nil {
				return err
			}
			m.Data = append(m.Data, item)
			b = b[n:]
		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// DataMap flattens the event's name/value items for JSON forwarding.
func (m *VoiceAssistantEventResponse) DataMap() map[string]string {
	if len(m.Data) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.Data))
	for _, d := range m.Data {
		out[d.Name] = d.Value
	}
	return out
}

// VoiceAssistantAudio carries one chunk of PCM audio. The same message type
// flows in both directions: microphone chunks toward the hub, TTS chunks
// toward the gateway. End marks the final chunk of a hub-side stream.
type VoiceAssistantAudio struct {
	Data []byte
	End  bool
}

func (*VoiceAssistantAudio) MessageType() uint32 { return MsgTypeVoiceAssistantAudio }

func (m *VoiceAssistantAudio) MarshalPayload() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.Data)
	b = appendBoolField(b, 2, m.End)
	return b
}

func (m *VoiceAssistantAudio) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Data = append([]byte(nil), v...)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.End = protowire.DecodeBool(v)
			b = b[n:]
		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// VoiceAssistantWakeWord is one catalogue entry in the configuration
// response.
type VoiceAssistantWakeWord struct {
	ID               string
	WakeWord         string
	TrainedLanguages []string
}

func (w *VoiceAssistantWakeWord) marshal() []byte {
	var b []byte
	b = appendStringField(b, 1, w.ID)
	b = appendStringField(b, 2, w.WakeWord)
	for _, lang := range w.TrainedLanguages {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, lang)
	}
	return b
}

func (w *VoiceAssistantWakeWord) unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			w.ID = string(v)
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			w.WakeWord = string(v)
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			w.TrainedLanguages = append(w.TrainedLanguages, string(v))
			b = b[n:]
		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// VoiceAssistantConfigurationRequest asks for the wake-word catalogue. Empty
// payload.
type VoiceAssistantConfigurationRequest struct{}

func (*VoiceAssistantConfigurationRequest) MessageType() uint32 {
	return MsgTypeVoiceAssistantConfigReq
}

func (*VoiceAssistantConfigurationRequest) MarshalPayload() []byte { return nil }

// VoiceAssistantConfigurationResponse lists the available wake words and the
// active selection.
type VoiceAssistantConfigurationResponse struct {
	AvailableWakeWords []VoiceAssistantWakeWord
	ActiveWakeWords    []string
	MaxActiveWakeWords uint32
}

func (*VoiceAssistantConfigurationResponse) MessageType() uint32 {
	return MsgTypeVoiceAssistantConfigResp
}

func (m *VoiceAssistantConfigurationResponse) MarshalPayload() []byte {
	var b []byte
	for i := range m.AvailableWakeWords {
		b = appendBytesField(b, 1, m.AvailableWakeWords[i].marshal())
	}
	for _, id := range m.ActiveWakeWords {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, id)
	}
	b = appendUintField(b, 3, uint64(m.MaxActiveWakeWords))
	return b
}

func (m *VoiceAssistantConfigurationResponse) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var w VoiceAssistantWakeWord
			if err := w.unmarshal(v); err != nil {
				return err
			}
			m.AvailableWakeWords = append(m.AvailableWakeWords, w)
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ActiveWakeWords = append(m.ActiveWakeWords, string(v))
			b = b[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.MaxActiveWakeWords = uint32(v)
			b = b[n:]
		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// VoiceAssistantSetConfiguration changes the active wake word. Newer hubs
// send the ActiveWakeWords list; the single WakeWordID field is the older
// form and is honored when the list is empty.
type VoiceAssistantSetConfiguration struct {
	ActiveWakeWords []string
	WakeWordID      string
}

func (*VoiceAssistantSetConfiguration) MessageType() uint32 { return MsgTypeVoiceAssistantSetConfig }

func (m *VoiceAssistantSetConfiguration) MarshalPayload() []byte {
	var b []byte
	for _, id := range m.ActiveWakeWords {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, id)
	}
	b = appendStringField(b, 2, m.WakeWordID)
	return b
}

func (m *VoiceAssistantSetConfiguration) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ActiveWakeWords = append(m.ActiveWakeWords, string(v))
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.WakeWordID = string(v)
			b = b[n:]
		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}
