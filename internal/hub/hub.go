package hub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hybridsat/hybrid-satellite/internal/audio"
	"github.com/hybridsat/hybrid-satellite/internal/config"
	"github.com/hybridsat/hybrid-satellite/internal/logging"
)

// VoicePipeline is the device-side surface the hub feeds. Implemented by the
// voice orchestrator.
type VoicePipeline interface {
	// InitiatePipeline asks the hub controller to start a pipeline run for
	// the given client-side wake word model (empty for the active one).
	InitiatePipeline(wakeWordClientID string)
	// SendAudioChunk forwards one microphone chunk toward the controller.
	SendAudioChunk(chunk []byte)
	// HubConnected reports whether a controller session is attached.
	HubConnected() bool
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The client page may be served from any host on the LAN.
		return true
	},
}

// Hub fans control messages and speaker audio out to browser clients and
// feeds their microphone audio into the voice pipeline.
type Hub struct {
	pipeline  VoicePipeline
	mic       *audio.Buffer
	authToken string
	authWait  time.Duration
	clientCfg config.Client

	mu      sync.RWMutex
	clients map[string]*Client
}

// New creates a Hub. A nil mic buffer gets a default-sized one so callers
// that don't care about retention can pass nil.
func New(pipeline VoicePipeline, mic *audio.Buffer, cfg *config.Config) *Hub {
	if mic == nil {
		mic = audio.New(cfg.Client.SampleRate, 0)
	}
	return &Hub{
		pipeline:  pipeline,
		mic:       mic,
		authToken: cfg.Server.AuthToken,
		authWait:  cfg.AuthTimeout(),
		clientCfg: cfg.Client,
		clients:   make(map[string]*Client),
	}
}

// HandleWebSocket upgrades the request, runs the auth handshake, and starts
// the client's pumps. Registered directly as the echo route handler.
func (h *Hub) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", c.Request().RemoteAddr),
			zap.Error(err))
		return err
	}

	if !h.authenticate(conn) {
		conn.Close()
		return nil
	}

	client := newClient(h, conn)
	h.addClient(client)
	logging.LogClientEvent(client.ID, client.remoteAddr, "connected")

	go client.writePump()
	go client.readPump()
	return nil
}

// authenticate runs the pre-pump token handshake. Without a configured token
// every socket is accepted immediately. Otherwise the client's first text
// frame must be {"type": "auth", "token": ...} within the auth window;
// anything else gets a policy-violation close.
func (h *Hub) authenticate(conn *websocket.Conn) bool {
	if h.authToken == "" {
		return true
	}

	remoteAddr := conn.RemoteAddr().String()
	conn.SetReadDeadline(time.Now().Add(h.authWait))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		logging.Warn("Browser client did not authenticate in time",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err))
		closePolicyViolation(conn, "authentication timeout")
		return false
	}
	conn.SetReadDeadline(time.Time{})

	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != MessageTypeAuth || msg.Token != h.authToken {
		logging.Warn("Browser client failed authentication",
			zap.String("remote_addr", remoteAddr))
		writeJSON(conn, Ack{MessageTypeAuthFailed})
		closePolicyViolation(conn, "authentication failed")
		return false
	}

	if err := writeJSON(conn, Ack{MessageTypeAuthOK}); err != nil {
		logging.Warn("Failed to acknowledge authentication",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err))
		return false
	}
	return true
}

// handleControl dispatches one JSON control message from a browser.
func (h *Hub) handleControl(c *Client, raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logging.Warn("Discarding malformed control message",
			zap.String("client_id", c.ID),
			zap.Error(err))
		return
	}

	switch msg.Type {
	case MessageTypeWakeDetected:
		logging.Info("Wake word detected in browser",
			zap.String("client_id", c.ID),
			zap.String("wake_word", msg.WakeWord))
		h.pipeline.InitiatePipeline(msg.WakeWord)
	case MessageTypePing:
		h.sendJSON(c, Ack{MessageTypePong})
	case MessageTypeStatusRequest:
		h.sendJSON(c, h.Status())
	case MessageTypeAuth:
		// Late auth frames are harmless; the handshake already ran.
	default:
		logging.Debug("Ignoring unknown control message",
			zap.String("client_id", c.ID),
			zap.String("type", string(msg.Type)))
	}
}

// handleAudio relays one microphone chunk from a browser.
func (h *Hub) handleAudio(c *Client, chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	h.mic.Push(chunk)
	h.pipeline.SendAudioChunk(chunk)
}

// BroadcastAudio sends one speaker audio chunk to every browser as a binary
// frame.
func (h *Hub) BroadcastAudio(data []byte) {
	if len(data) == 0 {
		return
	}
	h.broadcast(outbound{websocket.BinaryMessage, data})
}

// BroadcastEvent forwards a voice pipeline event to every browser.
func (h *Hub) BroadcastEvent(eventType uint32, data map[string]string) {
	h.broadcastJSON(CreateVoiceEventMessage(eventType, data))
}

// BroadcastConfigUpdate tells every browser which wake word model to run.
func (h *Hub) BroadcastConfigUpdate(wakeWord string) {
	h.broadcastJSON(CreateConfigUpdateMessage(wakeWord))
}

// NotifyStartListening tells every browser the pipeline expects microphone
// audio now.
func (h *Hub) NotifyStartListening() {
	h.broadcastJSON(Ack{MessageTypeStartListening})
}

// Status assembles the hub's current status message.
func (h *Hub) Status() *StatusMessage {
	return CreateStatusMessage(h.ClientCount(), h.pipeline.HubConnected(), h.clientCfg)
}

// ClientCount returns the number of connected browsers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Mic exposes the retained microphone audio buffer.
func (h *Hub) Mic() *audio.Buffer {
	return h.mic
}

// Shutdown disconnects every client. The web server stops accepting new
// sockets before this runs.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
}

// removeClient unregisters a client and closes its send queue. Safe to call
// more than once; only the first call finds the client registered.
//
// Sends on c.send happen only under h.mu and the close only under the write
// lock after the membership check, so a close can never race a queued send.
func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		close(c.send)
	}
	h.mu.Unlock()
}

// broadcast queues a frame for every client. The queueing never blocks, so a
// stalled client cannot delay delivery to the rest; clients whose queues are
// full are dropped afterwards.
func (h *Hub) broadcast(msg outbound) {
	var stalled []*Client
	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		logging.Warn("Dropping stalled browser client",
			zap.String("client_id", c.ID),
			zap.String("remote_addr", c.remoteAddr))
		h.removeClient(c)
	}
}

func (h *Hub) broadcastJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		logging.Error("Failed to encode broadcast message", zap.Error(err))
		return
	}
	h.broadcast(outbound{websocket.TextMessage, payload})
}

// sendJSON queues one control message for a single client.
func (h *Hub) sendJSON(c *Client, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		logging.Error("Failed to encode control message", zap.Error(err))
		return
	}
	if !h.deliver(c, outbound{websocket.TextMessage, payload}) {
		logging.Warn("Dropping stalled browser client",
			zap.String("client_id", c.ID),
			zap.String("remote_addr", c.remoteAddr))
		h.removeClient(c)
	}
}

// deliver queues one frame for a still-registered client. Returns false when
// the client is gone or its queue is full.
func (h *Hub) deliver(c *Client, msg outbound) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.ID]; !ok {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func writeJSON(conn *websocket.Conn, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func closePolicyViolation(conn *websocket.Conn, reason string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason))
}
