package protocol

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every typed payload that can travel over the
// device link. MarshalPayload renders the protobuf payload only; the frame
// header is added by EncodeFrame when the message is written out.
type Message interface {
	MessageType() uint32
	MarshalPayload() []byte
}

// Append helpers. Zero values are omitted, matching the hub's proto3
// serialization; absent fields decode back to their zero values.

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendUintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBoolField(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendFixed32Field(b []byte, num protowire.Number, v uint32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, v)
}

func appendFloatField(b []byte, num protowire.Number, v float32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

// skipField consumes one unknown field so decoding can continue past schema
// additions from newer hub versions.
func skipField(b []byte, num protowire.Number, typ protowire.Type) ([]byte, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	return b[n:], nil
}

// HelloRequest opens the handshake; the client identifies itself.
type HelloRequest struct {
	ClientInfo      string
	APIVersionMajor uint32
	APIVersionMinor uint32
}

func (*HelloRequest) MessageType() uint32 { return MsgTypeHelloRequest }

func (m *HelloRequest) MarshalPayload() []byte {
	var b []byte
	b = appendStringField(b, 1, m.ClientInfo)
	b = appendUintField(b, 2, uint64(m.APIVersionMajor))
	b = appendUintField(b, 3, uint64(m.APIVersionMinor))
	return b
}

func (m *HelloRequest) UnmarshalPayload(b []byte) error {
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
			m.ClientInfo = string(v)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.APIVersionMajor = uint32(v)
			b = b[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.APIVersionMinor = uint32(v)
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

// HelloResponse carries the fixed server identity and protocol version.
type HelloResponse struct {
	APIVersionMajor uint32
	APIVersionMinor uint32
	ServerInfo      string
	Name            string
}

func (*HelloResponse) MessageType() uint32 { return MsgTypeHelloResponse }

func (m *HelloResponse) MarshalPayload() []byte {
	var b []byte
	b = appendUintField(b, 1, uint64(m.APIVersionMajor))
	b = appendUintField(b, 2, uint64(m.APIVersionMinor))
	b = appendStringField(b, 3, m.ServerInfo)
	b = appendStringField(b, 4, m.Name)
	return b
}

func (m *HelloResponse) UnmarshalPayload(b []byte) error {
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
			m.APIVersionMajor = uint32(v)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.APIVersionMinor = uint32(v)
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ServerInfo = string(v)
			b = b[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Name = string(v)
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

// ConnectRequest carries the peer's password, which this gateway ignores.
type ConnectRequest struct {
	Password string
}

func (*ConnectRequest) MessageType() uint32 { return MsgTypeConnectRequest }

func (m *ConnectRequest) MarshalPayload() []byte {
	return appendStringField(nil, 1, m.Password)
}

func (m *ConnectRequest) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Password = string(v)
			b = b[n:]
			continue
		}
		var err error
		if b, err = skipField(b, num, typ); err != nil {
			return err
		}
	}
	return nil
}

// ConnectResponse acknowledges authentication. InvalidPassword is always
// false here: the handshake accepts any credential.
type ConnectResponse struct {
	InvalidPassword bool
}

func (*ConnectResponse) MessageType() uint32 { return MsgTypeConnectResponse }

func (m *ConnectResponse) MarshalPayload() []byte {
	return appendBoolField(nil, 1, m.InvalidPassword)
}

func (m *ConnectResponse) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if num == 1 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.InvalidPassword = protowire.DecodeBool(v)
			b = b[n:]
			continue
		}
		var err error
		if b, err = skipField(b, num, typ); err != nil {
			return err
		}
	}
	return nil
}

// Empty payloads. These exist so the write path can treat every outbound
// message uniformly.

type DisconnectRequest struct{}

func (*DisconnectRequest) MessageType() uint32    { return MsgTypeDisconnectRequest }
func (*DisconnectRequest) MarshalPayload() []byte { return nil }

type DisconnectResponse struct{}

func (*DisconnectResponse) MessageType() uint32    { return MsgTypeDisconnectResponse }
func (*DisconnectResponse) MarshalPayload() []byte { return nil }

type PingRequest struct{}

func (*PingRequest) MessageType() uint32    { return MsgTypePingRequest }
func (*PingRequest) MarshalPayload() []byte { return nil }

type PingResponse struct{}

func (*PingResponse) MessageType() uint32    { return MsgTypePingResponse }
func (*PingResponse) MarshalPayload() []byte { return nil }

type ListEntitiesDoneResponse struct{}

func (*ListEntitiesDoneResponse) MessageType() uint32    { return MsgTypeListEntitiesDone }
func (*ListEntitiesDoneResponse) MarshalPayload() []byte { return nil }

// DeviceInfoResponse is the gateway's fixed identity card.
type DeviceInfoResponse struct {
	UsesPassword        bool
	Name                string
	MacAddress          string
	EsphomeVersion      string
	CompilationTime     string
	Model               string
	ProjectName         string
	ProjectVersion      string
	Manufacturer        string
	FriendlyName        string
	LegacyVoiceVersion  uint32
	VoiceAssistantFlags uint32
}

func (*DeviceInfoResponse) MessageType() uint32 { return MsgTypeDeviceInfoResponse }

func (m *DeviceInfoResponse) MarshalPayload() []byte {
	var b []byte
	b = appendBoolField(b, 1, m.UsesPassword)
	b = appendStringField(b, 2, m.Name)
	b = appendStringField(b, 3, m.MacAddress)
	b = appendStringField(b, 4, m.EsphomeVersion)
	b = appendStringField(b, 5, m.CompilationTime)
	b = appendStringField(b, 6, m.Model)
	b = appendStringField(b, 8, m.ProjectName)
	b = appendStringField(b, 9, m.ProjectVersion)
	b = appendStringField(b, 12, m.Manufacturer)
	b = appendStringField(b, 13, m.FriendlyName)
	b = appendUintField(b, 14, uint64(m.LegacyVoiceVersion))
	b = appendUintField(b, 17, uint64(m.VoiceAssistantFlags))
	return b
}

// Entity discovery responses, one schema per entity kind. Key is the stable
// identifier state-tracking peers use; everything else is presentation.

type ListEntitiesBinarySensorResponse struct {
	ObjectID          string
	Key               uint32
	Name              string
	UniqueID          string
	DeviceClass       string
	DisabledByDefault bool
	Icon              string
	EntityCategory    EntityCategory
}

func (*ListEntitiesBinarySensorResponse) MessageType() uint32 {
	return MsgTypeListEntitiesBinarySensor
}

func (m *ListEntitiesBinarySensorResponse) MarshalPayload() []byte {
	var b []byte
	b = appendStringField(b, 1, m.ObjectID)
	b = appendFixed32Field(b, 2, m.Key)
	b = appendStringField(b, 3, m.Name)
	b = appendStringField(b, 4, m.UniqueID)
	b = appendStringField(b, 5, m.DeviceClass)
	b = appendBoolField(b, 7, m.DisabledByDefault)
	b = appendStringField(b, 8, m.Icon)
	b = appendUintField(b, 9, uint64(m.EntityCategory))
	return b
}

type ListEntitiesSwitchResponse struct {
	ObjectID          string
	Key               uint32
	Name              string
	UniqueID          string
	Icon              string
	AssumedState      bool
	DisabledByDefault bool
	EntityCategory    EntityCategory
	DeviceClass       string
}

func (*ListEntitiesSwitchResponse) MessageType() uint32 { return MsgTypeListEntitiesSwitch }

func (m *ListEntitiesSwitchResponse) MarshalPayload() []byte {
	var b []byte
	b = appendStringField(b, 1, m.ObjectID)
	b = appendFixed32Field(b, 2, m.Key)
	b = appendStringField(b, 3, m.Name)
	b = appendStringField(b, 4, m.UniqueID)
	b = appendStringField(b, 5, m.Icon)
	b = appendBoolField(b, 6, m.AssumedState)
	b = appendBoolField(b, 7, m.DisabledByDefault)
	b = appendUintField(b, 8, uint64(m.EntityCategory))
	b = appendStringField(b, 9, m.DeviceClass)
	return b
}

type ListEntitiesSelectResponse struct {
	ObjectID          string
	Key               uint32
	Name              string
	UniqueID          string
	Icon              string
	Options           []string
	DisabledByDefault bool
	EntityCategory    EntityCategory
}

func (*ListEntitiesSelectResponse) MessageType() uint32 { return MsgTypeListEntitiesSelect }

func (m *ListEntitiesSelectResponse) MarshalPayload() []byte {
	var b []byte
	b = appendStringField(b, 1, m.ObjectID)
	b = appendFixed32Field(b, 2, m.Key)
	b = appendStringField(b, 3, m.Name)
	b = appendStringField(b, 4, m.UniqueID)
	b = appendStringField(b, 5, m.Icon)
	for _, opt := range m.Options {
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendString(b, opt)
	}
	b = appendBoolField(b, 7, m.DisabledByDefault)
	b = appendUintField(b, 8, uint64(m.EntityCategory))
	return b
}

// MediaPlayerSupportedFormat describes one audio format the virtual speaker
// accepts.
type MediaPlayerSupportedFormat struct {
	Format      string
	SampleRate  uint32
	NumChannels uint32
	Purpose     uint32
	SampleBytes uint32
}

func (f *MediaPlayerSupportedFormat) marshal() []byte {
	var b []byte
	b = appendStringField(b, 1, f.Format)
	b = appendUintField(b, 2, uint64(f.SampleRate))
	b = appendUintField(b, 3, uint64(f.NumChannels))
	b = appendUintField(b, 4, uint64(f.Purpose))
	b = appendUintField(b, 5, uint64(f.SampleBytes))
	return b
}

type ListEntitiesMediaPlayerResponse struct {
	ObjectID          string
	Key               uint32
	Name              string
	UniqueID          string
	Icon              string
	DisabledByDefault bool
	EntityCategory    EntityCategory
	SupportsPause     bool
	SupportedFormats  []MediaPlayerSupportedFormat
	FeatureFlags      uint32
}

func (*ListEntitiesMediaPlayerResponse) MessageType() uint32 {
	return MsgTypeListEntitiesMediaPlayer
}

func (m *ListEntitiesMediaPlayerResponse) MarshalPayload() []byte {
	var b []byte
	b = appendStringField(b, 1, m.ObjectID)
	b = appendFixed32Field(b, 2, m.Key)
	b = appendStringField(b, 3, m.Name)
	b = appendStringField(b, 4, m.UniqueID)
	b = appendStringField(b, 5, m.Icon)
	b = appendBoolField(b, 6, m.DisabledByDefault)
	b = appendUintField(b, 7, uint64(m.EntityCategory))
	b = appendBoolField(b, 8, m.SupportsPause)
	for i := range m.SupportedFormats {
		b = appendBytesField(b, 9, m.SupportedFormats[i].marshal())
	}
	b = appendUintField(b, 10, uint64(m.FeatureFlags))
	return b
}

// Entity state responses.

type BinarySensorStateResponse struct {
	Key   uint32
	State bool
}

func (*BinarySensorStateResponse) MessageType() uint32 { return MsgTypeBinarySensorState }

func (m *BinarySensorStateResponse) MarshalPayload() []byte {
	var b []byte
	b = appendFixed32Field(b, 1, m.Key)
	b = appendBoolField(b, 2, m.State)
	return b
}

func (m *BinarySensorStateResponse) UnmarshalPayload(b []byte) error {
	return unmarshalKeyBool(b, &m.Key, &m.State)
}

type SwitchStateResponse struct {
	Key   uint32
	State bool
}

func (*SwitchStateResponse) MessageType() uint32 { return MsgTypeSwitchState }

func (m *SwitchStateResponse) MarshalPayload() []byte {
	var b []byte
	b = appendFixed32Field(b, 1, m.Key)
	b = appendBoolField(b, 2, m.State)
	return b
}

func (m *SwitchStateResponse) UnmarshalPayload(b []byte) error {
	return unmarshalKeyBool(b, &m.Key, &m.State)
}

type SelectStateResponse struct {
	Key   uint32
	State string
}

func (*SelectStateResponse) MessageType() uint32 { return MsgTypeSelectState }

func (m *SelectStateResponse) MarshalPayload() []byte {
	var b []byte
	b = appendFixed32Field(b, 1, m.Key)
	b = appendStringField(b, 2, m.State)
	return b
}

func (m *SelectStateResponse) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Key = v
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.State = string(v)
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

type MediaPlayerStateResponse struct {
	Key    uint32
	State  MediaPlayerState
	Volume float32
	Muted  bool
}

func (*MediaPlayerStateResponse) MessageType() uint32 { return MsgTypeMediaPlayerState }

func (m *MediaPlayerStateResponse) MarshalPayload() []byte {
	var b []byte
	b = appendFixed32Field(b, 1, m.Key)
	b = appendUintField(b, 2, uint64(m.State))
	b = appendFloatField(b, 3, m.Volume)
	b = appendBoolField(b, 4, m.Muted)
	return b
}

func (m *MediaPlayerStateResponse) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Key = v
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.State = MediaPlayerState(v)
			b = b[n:]
		case num == 3 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Volume = math.Float32frombits(v)
			b = b[n:]
		case num == 4 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Muted = protowire.DecodeBool(v)
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

// Entity commands sent by the hub.

type SwitchCommandRequest struct {
	Key   uint32
	State bool
}

func (*SwitchCommandRequest) MessageType() uint32 { return MsgTypeSwitchCommand }

func (m *SwitchCommandRequest) MarshalPayload() []byte {
	var b []byte
	b = appendFixed32Field(b, 1, m.Key)
	b = appendBoolField(b, 2, m.State)
	return b
}

func (m *SwitchCommandRequest) UnmarshalPayload(b []byte) error {
	return unmarshalKeyBool(b, &m.Key, &m.State)
}

type SelectCommandRequest struct {
	Key   uint32
	State string
}

func (*SelectCommandRequest) MessageType() uint32 { return MsgTypeSelectCommand }

func (m *SelectCommandRequest) MarshalPayload() []byte {
	var b []byte
	b = appendFixed32Field(b, 1, m.Key)
	b = appendStringField(b, 2, m.State)
	return b
}

func (m *SelectCommandRequest) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Key = v
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.State = string(v)
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

// MediaPlayerCommandRequest is the hub's play/pause/volume/url command. The
// Has* flags distinguish an absent field from a zero value.
type MediaPlayerCommandRequest struct {
	Key             uint32
	HasCommand      bool
	Command         MediaPlayerCommand
	HasVolume       bool
	Volume          float32
	HasMediaURL     bool
	MediaURL        string
	HasAnnouncement bool
	Announcement    bool
}

func (*MediaPlayerCommandRequest) MessageType() uint32 { return MsgTypeMediaPlayerCommand }

func (m *MediaPlayerCommandRequest) MarshalPayload() []byte {
	var b []byte
	b = appendFixed32Field(b, 1, m.Key)
	b = appendBoolField(b, 2, m.HasCommand)
	b = appendUintField(b, 3, uint64(m.Command))
	b = appendBoolField(b, 4, m.HasVolume)
	b = appendFloatField(b, 5, m.Volume)
	b = appendBoolField(b, 6, m.HasMediaURL)
	b = appendStringField(b, 7, m.MediaURL)
	b = appendBoolField(b, 8, m.HasAnnouncement)
	b = appendBoolField(b, 9, m.Announcement)
	return b
}

func (m *MediaPlayerCommandRequest) UnmarshalPayload(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Key = v
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.HasCommand = protowire.DecodeBool(v)
			b = b[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Command = MediaPlayerCommand(v)
			b = b[n:]
		case num == 4 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.HasVolume = protowire.DecodeBool(v)
			b = b[n:]
		case num == 5 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Volume = math.Float32frombits(v)
			b = b[n:]
		case num == 6 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.HasMediaURL = protowire.DecodeBool(v)
			b = b[n:]
		case num == 7 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.MediaURL = string(v)
			b = b[n:]
		case num == 8 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.HasAnnouncement = protowire.DecodeBool(v)
			b = b[n:]
		case num == 9 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Announcement = protowire.DecodeBool(v)
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

// unmarshalKeyBool decodes the {fixed32 key, bool state} shape shared by
// several small messages.
func unmarshalKeyBool(b []byte, key *uint32, state *bool) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			*key = v
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			*state = protowire.DecodeBool(v)
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
