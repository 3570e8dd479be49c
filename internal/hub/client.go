package hub

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hybridsat/hybrid-satellite/internal/logging"
)

const (
	// writeWait bounds a single websocket write.
	writeWait = 10 * time.Second

	// pongWait is how long a client may stay silent before its socket is
	// considered dead. Pings go out at pingPeriod so a healthy client
	// always answers in time.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound frames. Audio chunks are a few KB; this
	// leaves generous headroom without letting a client exhaust memory.
	maxMessageSize = 512 * 1024

	// sendQueueSize is the per-client outbound buffer. A client that falls
	// this far behind is dropped rather than allowed to stall broadcasts.
	sendQueueSize = 256
)

// outbound is one queued websocket write: a JSON control frame or a binary
// audio frame.
type outbound struct {
	messageType int
	payload     []byte
}

// Client is a single connected browser. All reads happen on readPump and all
// post-handshake writes on writePump, so the connection is never accessed
// concurrently.
type Client struct {
	ID         string
	hub        *Hub
	conn       *websocket.Conn
	send       chan outbound
	remoteAddr string
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:         uuid.NewString(),
		hub:        h,
		conn:       conn,
		send:       make(chan outbound, sendQueueSize),
		remoteAddr: conn.RemoteAddr().String(),
	}
}

// readPump relays inbound frames to the hub until the socket dies, then
// unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
		logging.LogClientEvent(c.ID, c.remoteAddr, "disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				logging.Warn("Browser socket read error",
					zap.String("client_id", c.ID),
					zap.Error(err))
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			c.hub.handleAudio(c, data)
		case websocket.TextMessage:
			c.hub.handleControl(c, data)
		}
	}
}

// writePump drains the send queue and keeps the connection alive with
// periodic pings. A closed send channel means the hub dropped the client;
// the pump says goodbye and lets readPump observe the closed socket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(msg.messageType, msg.payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
