package voice

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hybridsat/hybrid-satellite/internal/entities"
	"github.com/hybridsat/hybrid-satellite/internal/logging"
	"github.com/hybridsat/hybrid-satellite/internal/protocol"
)

// handleMessage routes one application-level message from a ready session.
// Decode failures are logged with the offending type and never tear the
// connection down.
func (o *Orchestrator) handleMessage(s HubSession, messageType uint32, payload []byte) {
	switch messageType {
	case protocol.MsgTypeDeviceInfoRequest:
		o.send(s, deviceInfo())

	case protocol.MsgTypeListEntitiesRequest:
		for _, msg := range o.entities.DiscoveryMessages() {
			o.send(s, msg)
		}

	case protocol.MsgTypeSubscribeStates:
		for _, msg := range o.entities.StateMessages() {
			o.send(s, msg)
		}

	case protocol.MsgTypeSubscribeVoiceAssistant:
		req := &protocol.SubscribeVoiceAssistantRequest{}
		if err := req.UnmarshalPayload(payload); err != nil {
			o.logDecodeError(messageType, err)
			return
		}
		logging.Info("Hub voice assistant subscription",
			zap.Bool("subscribe", req.Subscribe),
			zap.Uint32("flags", req.Flags),
		)

	case protocol.MsgTypeVoiceAssistantRequest:
		o.handleVoiceRequest(payload)

	case protocol.MsgTypeVoiceAssistantResponse:
		resp := &protocol.VoiceAssistantResponse{}
		if err := resp.UnmarshalPayload(payload); err != nil {
			o.logDecodeError(messageType, err)
			return
		}
		logging.Info("Pipeline response from hub",
			zap.Uint32("port", resp.Port),
			zap.Bool("error", resp.Error),
		)

	case protocol.MsgTypeVoiceAssistantEvent:
		o.handleVoiceEvent(s, payload)

	case protocol.MsgTypeVoiceAssistantAudio:
		o.handleVoiceAudio(payload)

	case protocol.MsgTypeVoiceAssistantConfigReq:
		o.send(s, o.configurationResponse())

	case protocol.MsgTypeVoiceAssistantSetConfig:
		o.handleSetConfiguration(s, payload)

	case protocol.MsgTypeMediaPlayerCommand:
		o.handleMediaCommand(s, payload)

	case protocol.MsgTypeSwitchCommand:
		o.handleSwitchCommand(s, payload)

	case protocol.MsgTypeSelectCommand:
		o.handleSelectCommand(s, payload)

	default:
		logging.Debug("Unhandled message type from hub",
			zap.Uint32("msg_type", messageType),
			zap.Int("length", len(payload)),
		)
	}
}

func (o *Orchestrator) logDecodeError(messageType uint32, err error) {
	logging.Warn("Failed to decode hub message",
		zap.Uint32("msg_type", messageType),
		zap.Error(err),
	)
}

// The fixed identity card the gateway presents. The values impersonate a
// native satellite firmware; the mac address is a locally administered one
// that never collides with real hardware. Shared with the mDNS advertisement
// via the composition root.
const (
	DeviceName         = "Hybrid Voice Assistant"
	DeviceMAC          = "02:00:00:00:00:01"
	DeviceModel        = "Generic"
	DeviceManufacturer = "ESPHome"
	FirmwareVersion    = "2024.10.2"
	ProjectName        = "hybrid.voice_assistant"
	ProjectVersion     = "1.0.0"
)

func deviceInfo() *protocol.DeviceInfoResponse {
	return &protocol.DeviceInfoResponse{
		Name:           DeviceName,
		MacAddress:     DeviceMAC,
		EsphomeVersion: FirmwareVersion,
		Model:          DeviceModel,
		ProjectName:    ProjectName,
		ProjectVersion: ProjectVersion,
		Manufacturer:   DeviceManufacturer,
		VoiceAssistantFlags: protocol.VoiceFeatureVoiceAssistant |
			protocol.VoiceFeatureSpeaker |
			protocol.VoiceFeatureAPIAudio |
			protocol.VoiceFeatureTimers |
			protocol.VoiceFeatureAnnounce |
			protocol.VoiceFeatureStartConvo,
	}
}

// handleVoiceRequest reacts to the hub starting or stopping a pipeline run
// on its own initiative (e.g. a conversation follow-up).
func (o *Orchestrator) handleVoiceRequest(payload []byte) {
	req := &protocol.VoiceAssistantRequest{}
	if err := req.UnmarshalPayload(payload); err != nil {
		o.logDecodeError(protocol.MsgTypeVoiceAssistantRequest, err)
		return
	}
	if !req.Start {
		logging.Debug("Hub requested pipeline stop")
		return
	}

	logging.Info("Hub requested listening start",
		zap.String("conversation_id", req.ConversationID),
	)
	if b := o.getBroadcaster(); b != nil {
		b.NotifyStartListening()
	}
}

// handleVoiceEvent forwards a pipeline event to the browsers and tracks the
// assist sensor across run boundaries.
func (o *Orchestrator) handleVoiceEvent(s HubSession, payload []byte) {
	event := &protocol.VoiceAssistantEventResponse{}
	if err := event.UnmarshalPayload(payload); err != nil {
		o.logDecodeError(protocol.MsgTypeVoiceAssistantEvent, err)
		return
	}

	switch event.EventType {
	case protocol.VoiceEventRunStart:
		o.send(s, o.entities.SetAssistActive(true))
	case protocol.VoiceEventRunEnd:
		o.send(s, o.entities.SetAssistActive(false))
	}

	if b := o.getBroadcaster(); b != nil {
		b.BroadcastEvent(event.EventType, event.DataMap())
	}
}

// handleVoiceAudio pushes hub audio (TTS output) to the browser speakers.
func (o *Orchestrator) handleVoiceAudio(payload []byte) {
	audio := &protocol.VoiceAssistantAudio{}
	if err := audio.UnmarshalPayload(payload); err != nil {
		o.logDecodeError(protocol.MsgTypeVoiceAssistantAudio, err)
		return
	}
	if len(audio.Data) == 0 {
		return
	}
	if b := o.getBroadcaster(); b != nil {
		b.BroadcastAudio(audio.Data)
	}
}

// configurationResponse reports the wake word catalogue, the active
// selection in hub namespace, and the single-active-word limit.
func (o *Orchestrator) configurationResponse() *protocol.VoiceAssistantConfigurationResponse {
	return &protocol.VoiceAssistantConfigurationResponse{
		AvailableWakeWords: AvailableWakeWords(),
		ActiveWakeWords:    []string{MapToHub(o.ActiveWakeWord())},
		MaxActiveWakeWords: 1,
	}
}

// handleSetConfiguration applies a wake word change from the hub: translate
// to client namespace, persist, tell the browsers, confirm to the hub.
func (o *Orchestrator) handleSetConfiguration(s HubSession, payload []byte) {
	req := &protocol.VoiceAssistantSetConfiguration{}
	if err := req.UnmarshalPayload(payload); err != nil {
		o.logDecodeError(protocol.MsgTypeVoiceAssistantSetConfig, err)
		return
	}

	chosen := ""
	if len(req.ActiveWakeWords) > 0 {
		chosen = req.ActiveWakeWords[0]
	} else {
		chosen = req.WakeWordID
	}
	if chosen == "" {
		logging.Warn("Set-configuration carried no wake word, ignoring")
		return
	}

	clientID := MapToClient(chosen)
	o.setActiveWakeWord(clientID)
	logging.Info("Wake word selection changed",
		zap.String("hub_id", chosen),
		zap.String("client_id", clientID),
	)

	if b := o.getBroadcaster(); b != nil {
		b.BroadcastConfigUpdate(clientID)
	}
	o.send(s, o.configurationResponse())
}

// handleMediaCommand applies a media-player command: an optional volume
// change, then either a URL playback or a transport command.
func (o *Orchestrator) handleMediaCommand(s HubSession, payload []byte) {
	cmd := &protocol.MediaPlayerCommandRequest{}
	if err := cmd.UnmarshalPayload(payload); err != nil {
		o.logDecodeError(protocol.MsgTypeMediaPlayerCommand, err)
		return
	}

	if cmd.HasVolume {
		o.send(s, o.entities.SetPlayerVolume(cmd.Volume))
	}

	switch {
	case cmd.HasMediaURL && cmd.MediaURL != "":
		logging.Info("Media playback requested",
			zap.String("url", cmd.MediaURL),
			zap.Bool("announcement", cmd.Announcement),
		)
		go o.playMedia(s, cmd.MediaURL)

	case cmd.HasCommand:
		o.applyPlayerCommand(s, cmd.Command)
	}
}

func (o *Orchestrator) applyPlayerCommand(s HubSession, command protocol.MediaPlayerCommand) {
	var msg protocol.Message
	switch command {
	case protocol.MediaPlayerCommandPlay:
		msg = o.entities.SetPlayerState(protocol.MediaPlayerStatePlaying)
	case protocol.MediaPlayerCommandPause:
		msg = o.entities.SetPlayerState(protocol.MediaPlayerStatePaused)
	case protocol.MediaPlayerCommandStop:
		msg = o.entities.SetPlayerState(protocol.MediaPlayerStateIdle)
	case protocol.MediaPlayerCommandMute:
		msg = o.entities.SetPlayerMuted(true)
	case protocol.MediaPlayerCommandUnmute:
		msg = o.entities.SetPlayerMuted(false)
	default:
		logging.Debug("Unknown media player command", zap.Int("command", int(command)))
		return
	}
	o.send(s, msg)
}

// playMedia fetches a media URL and pushes the bytes to the browser
// speakers, reporting a playing state for the configured delay. Fetch
// failures leave the player state untouched. Runs on its own goroutine.
func (o *Orchestrator) playMedia(s HubSession, url string) {
	resp, err := o.client.Get(url)
	if err != nil {
		logging.Warn("Media fetch failed", zap.String("url", url), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Warn("Media fetch returned non-OK status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logging.Warn("Media fetch read failed", zap.String("url", url), zap.Error(err))
		return
	}

	logging.Info("Media fetched, broadcasting to clients", zap.Int("bytes", len(data)))
	if b := o.getBroadcaster(); b != nil {
		b.BroadcastAudio(data)
	}

	o.send(s, o.entities.SetPlayer(protocol.MediaPlayerStatePlaying, entities.DefaultVolume, false))
	time.Sleep(o.playDelay)
	o.send(s, o.entities.SetPlayerState(protocol.MediaPlayerStateIdle))
}

// handleSwitchCommand toggles the microphone mute switch.
func (o *Orchestrator) handleSwitchCommand(s HubSession, payload []byte) {
	cmd := &protocol.SwitchCommandRequest{}
	if err := cmd.UnmarshalPayload(payload); err != nil {
		o.logDecodeError(protocol.MsgTypeSwitchCommand, err)
		return
	}
	if cmd.Key != entities.KeyMuteSwitch {
		logging.Debug("Switch command for unknown key", zap.Uint32("key", cmd.Key))
		return
	}

	msg := o.entities.SetMicMuted(cmd.State)
	logging.Info("Microphone mute switched", zap.Bool("muted", cmd.State))

	if o.settings != nil {
		if err := o.settings.SaveMicMuted(context.Background(), cmd.State); err != nil {
			logging.Warn("Failed to persist mute state", zap.Error(err))
		}
	}
	o.send(s, msg)
}

// handleSelectCommand changes the pipeline selection.
func (o *Orchestrator) handleSelectCommand(s HubSession, payload []byte) {
	cmd := &protocol.SelectCommandRequest{}
	if err := cmd.UnmarshalPayload(payload); err != nil {
		o.logDecodeError(protocol.MsgTypeSelectCommand, err)
		return
	}
	if cmd.Key != entities.KeyPipelineSelect {
		logging.Debug("Select command for unknown key", zap.Uint32("key", cmd.Key))
		return
	}

	logging.Info("Pipeline selection changed", zap.String("pipeline", cmd.State))
	o.send(s, o.entities.SetPipeline(cmd.State))
}
