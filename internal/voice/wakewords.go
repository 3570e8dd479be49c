package voice

import "github.com/hybridsat/hybrid-satellite/internal/protocol"

// DefaultWakeWord is the client-side selection on first run.
const DefaultWakeWord = "okay_nabu_v0.1"

// Wake words live under two identifier namespaces: browser clients use
// versioned detection-model identifiers, the hub uses canonical phrases.
// The gateway translates at the boundary so neither side sees the other's
// namespace.
var wakeWordPairs = []struct {
	client string
	hub    string
}{
	{"okay_nabu_v0.1", "okay_nabu"},
	{"alexa_v0.1", "alexa"},
}

// MapToHub translates a client-side wake word identifier to its hub-canonical
// form. Unknown identifiers pass through unchanged.
func MapToHub(id string) string {
	for _, p := range wakeWordPairs {
		if p.client == id {
			return p.hub
		}
	}
	return id
}

// MapToClient translates a hub-canonical wake word identifier to its
// client-side form. Unknown identifiers pass through unchanged.
func MapToClient(id string) string {
	for _, p := range wakeWordPairs {
		if p.hub == id {
			return p.client
		}
	}
	return id
}

// AvailableWakeWords returns the configuration-response catalogue: every
// known wake word under its hub-canonical identifier, each trained for
// English.
func AvailableWakeWords() []protocol.VoiceAssistantWakeWord {
	words := make([]protocol.VoiceAssistantWakeWord, 0, len(wakeWordPairs))
	for _, p := range wakeWordPairs {
		words = append(words, protocol.VoiceAssistantWakeWord{
			ID:               p.hub,
			WakeWord:         p.hub,
			TrainedLanguages: []string{"en"},
		})
	}
	return words
}
