//go:build ignore

// Decode-frames replays a captured device-link byte stream through the frame
// decoder and prints every frame it finds.
//
// The input is either a raw binary capture or a hex dump (whitespace is
// ignored); the format is detected automatically. Useful for checking what a
// hub actually sent when a session log shows resyncs or unknown types.
//
// Usage:
//
//	go run tools/decode-frames.go <capture-file>
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/hybridsat/hybrid-satellite/internal/protocol"
)

// messageTypeNames maps wire ids to readable names for the report. Unknown
// ids print numerically.
var messageTypeNames = map[uint32]string{
	protocol.MsgTypeHelloRequest:       "HelloRequest",
	protocol.MsgTypeHelloResponse:      "HelloResponse",
	protocol.MsgTypeConnectRequest:     "ConnectRequest",
	protocol.MsgTypeConnectResponse:    "ConnectResponse",
	protocol.MsgTypeDisconnectRequest:  "DisconnectRequest",
	protocol.MsgTypeDisconnectResponse: "DisconnectResponse",
	protocol.MsgTypePingRequest:        "PingRequest",
	protocol.MsgTypePingResponse:       "PingResponse",
	protocol.MsgTypeDeviceInfoRequest:  "DeviceInfoRequest",
	protocol.MsgTypeDeviceInfoResponse: "DeviceInfoResponse",

	protocol.MsgTypeListEntitiesRequest:      "ListEntitiesRequest",
	protocol.MsgTypeListEntitiesBinarySensor: "ListEntitiesBinarySensor",
	protocol.MsgTypeListEntitiesSwitch:       "ListEntitiesSwitch",
	protocol.MsgTypeListEntitiesDone:         "ListEntitiesDone",
	protocol.MsgTypeSubscribeStates:          "SubscribeStates",
	protocol.MsgTypeBinarySensorState:        "BinarySensorState",
	protocol.MsgTypeSwitchState:              "SwitchState",
	protocol.MsgTypeSwitchCommand:            "SwitchCommand",
	protocol.MsgTypeListEntitiesSelect:       "ListEntitiesSelect",
	protocol.MsgTypeSelectState:              "SelectState",
	protocol.MsgTypeSelectCommand:            "SelectCommand",
	protocol.MsgTypeListEntitiesMediaPlayer:  "ListEntitiesMediaPlayer",
	protocol.MsgTypeMediaPlayerState:         "MediaPlayerState",
	protocol.MsgTypeMediaPlayerCommand:       "MediaPlayerCommand",

	protocol.MsgTypeSubscribeVoiceAssistant:  "SubscribeVoiceAssistant",
	protocol.MsgTypeVoiceAssistantRequest:    "VoiceAssistantRequest",
	protocol.MsgTypeVoiceAssistantResponse:   "VoiceAssistantResponse",
	protocol.MsgTypeVoiceAssistantEvent:      "VoiceAssistantEvent",
	protocol.MsgTypeVoiceAssistantAudio:      "VoiceAssistantAudio",
	protocol.MsgTypeVoiceAssistantConfigReq:  "VoiceAssistantConfigurationRequest",
	protocol.MsgTypeVoiceAssistantConfigResp: "VoiceAssistantConfigurationResponse",
	protocol.MsgTypeVoiceAssistantSetConfig:  "VoiceAssistantSetConfiguration",
}

func typeName(t uint32) string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", t)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: decode-frames <capture-file>")
		fmt.Println("Example: decode-frames captures/hub-session.bin")
		fmt.Println("         decode-frames captures/hub-session.hex")
		os.Exit(1)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	data := normalize(raw)

	fmt.Printf("=== Device-Link Frame Decoder ===\n")
	fmt.Printf("Input: %s (%d bytes)\n\n", os.Args[1], len(data))

	dec := &protocol.Decoder{}
	dec.Feed(data)

	frames := 0
	decodeErrors := 0
	typeCounts := make(map[uint32]int)

	for {
		frame, err := dec.Next()
		if err != nil {
			decodeErrors++
			fmt.Printf("  !! decode error: %v\n", err)
			continue
		}
		if frame == nil {
			break
		}
		frames++
		typeCounts[frame.Type]++
		fmt.Printf("%4d. %-36s %5d bytes  %s\n",
			frames, typeName(frame.Type), len(frame.Payload), preview(frame.Payload))
	}

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Frames decoded:  %d\n", frames)
	fmt.Printf("Decode errors:   %d\n", decodeErrors)
	fmt.Printf("Resyncs:         %d\n", dec.Resyncs())
	fmt.Printf("Trailing bytes:  %d\n", dec.Buffered())

	if len(typeCounts) > 0 {
		fmt.Printf("\nBy message type:\n")
		ids := make([]uint32, 0, len(typeCounts))
		for id := range typeCounts {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Printf("  %3d %-36s %d\n", id, typeName(id), typeCounts[id])
		}
	}
}

// normalize returns the capture as raw bytes. A file that consists entirely
// of hex digits and whitespace is treated as a hex dump.
func normalize(raw []byte) []byte {
	text := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(raw))

	if len(text) == 0 || len(text)%2 != 0 {
		return raw
	}
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return raw
	}
	return decoded
}

// preview renders the first payload bytes as hex, with a marker when
// truncated.
func preview(payload []byte) string {
	const max = 24
	if len(payload) == 0 {
		return ""
	}
	if len(payload) <= max {
		return hex.EncodeToString(payload)
	}
	return hex.EncodeToString(payload[:max]) + "..."
}
