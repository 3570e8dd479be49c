package api

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hybridsat/hybrid-satellite/internal/logging"
	"github.com/hybridsat/hybrid-satellite/internal/protocol"
)

// SessionState tracks the handshake progress of one device-link connection.
type SessionState int32

const (
	StateAwaitingHello SessionState = iota
	StateAwaitingConnect
	StateReady
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingHello:
		return "awaiting_hello"
	case StateAwaitingConnect:
		return "awaiting_connect"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Server identity presented in the hello response. The version pair is what
// the hub ecosystem negotiated against the source firmware; changing it
// breaks session setup.
const (
	APIVersionMajor = 2
	APIVersionMinor = 10
	ServerInfo      = "HybridSatellite"
	ServerName      = "hybrid-satellite"
)

// ErrSessionClosed is returned by Send after the session transport closed.
var ErrSessionClosed = errors.New("session closed")

// Dispatcher receives application-level traffic from sessions that completed
// the handshake. Implementations log their own decode failures; a dispatch
// never tears the session down.
type Dispatcher interface {
	HandleMessage(s *Session, messageType uint32, payload []byte)
	SessionReady(s *Session)
	SessionClosed(s *Session)
}

// Session is one device-link connection speaking the framed protocol. It
// owns the outbound write path; reads happen on a single goroutine driven by
// the server, so handshake state needs no locking beyond the atomics.
type Session struct {
	conn       net.Conn
	dispatcher Dispatcher

	decoder protocol.Decoder

	state          atomic.Int32
	authenticated  atomic.Bool
	connectedSince time.Time

	writeMu sync.Mutex
}

// NewSession wraps an accepted connection. The caller runs Serve.
func NewSession(conn net.Conn, dispatcher Dispatcher) *Session {
	s := &Session{
		conn:           conn,
		dispatcher:     dispatcher,
		connectedSince: time.Now(),
	}
	s.state.Store(int32(StateAwaitingHello))
	return s
}

// State returns the current handshake state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Authenticated reports whether the connect handshake completed.
func (s *Session) Authenticated() bool {
	return s.authenticated.Load()
}

// RemoteAddr returns the peer address.
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}

// ConnectedSince returns when the transport was accepted.
func (s *Session) ConnectedSince() time.Time {
	return s.connectedSince
}

// Send encodes one message and writes the frame to the transport.
func (s *Session) Send(msg protocol.Message) error {
	if s.State() == StateClosed {
		return ErrSessionClosed
	}

	payload := msg.MarshalPayload()
	frame := protocol.EncodeFrame(msg.MessageType(), payload)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.conn.Write(frame); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	logging.LogFrame(s.RemoteAddr(), "sent", msg.MessageType(), payload)
	return nil
}

// Close shuts the transport down. Safe to call more than once.
func (s *Session) Close() error {
	if s.state.Swap(int32(StateClosed)) == int32(StateClosed) {
		return nil
	}
	return s.conn.Close()
}

// Serve reads frames until the transport closes, dispatching each one. It
// always notifies the dispatcher of the close before returning.
func (s *Session) Serve() {
	defer func() {
		_ = s.Close()
		s.dispatcher.SessionClosed(s)
	}()

	buf := make([]byte, 4096)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			s.decoder.Feed(buf[:n])
			s.drainFrames()
		}
		if err != nil {
			if s.State() != StateClosed {
				logging.Debug("Device connection read ended",
					zap.String("remote_addr", s.RemoteAddr()),
					zap.Error(err),
				)
			}
			return
		}
		if s.State() == StateClosed {
			return
		}
	}
}

// drainFrames extracts every complete frame buffered so far. Decode errors
// are already recovered inside the decoder (resynchronization); they are
// logged and never close the connection.
func (s *Session) drainFrames() {
	for {
		frame, err := s.decoder.Next()
		if err != nil {
			logging.Warn("Recovered from corrupt device frame",
				zap.String("remote_addr", s.RemoteAddr()),
				zap.Error(err),
			)
			continue
		}
		if frame == nil {
			return
		}
		logging.LogFrame(s.RemoteAddr(), "received", frame.Type, frame.Payload)
		s.handleFrame(frame)
	}
}

// handleFrame executes the handshake locally and forwards everything else to
// the dispatcher once the session is ready. Out-of-state messages are logged
// and dropped, never fatal.
func (s *Session) handleFrame(frame *protocol.Frame) {
	switch frame.Type {
	case protocol.MsgTypeHelloRequest:
		s.handleHello(frame.Payload)

	case protocol.MsgTypeConnectRequest:
		s.handleConnect(frame.Payload)

	case protocol.MsgTypeDisconnectRequest:
		logging.LogConnection(s.RemoteAddr(), "disconnect_requested")
		s.sendOrLog(&protocol.DisconnectResponse{})
		_ = s.Close()

	case protocol.MsgTypePingRequest:
		s.sendOrLog(&protocol.PingResponse{})

	default:
		if s.State() != StateReady {
			logging.Warn("Dropping message received before handshake completed",
				zap.String("remote_addr", s.RemoteAddr()),
				zap.Uint32("msg_type", frame.Type),
				zap.String("state", s.State().String()),
			)
			return
		}
		s.dispatcher.HandleMessage(s, frame.Type, frame.Payload)
	}
}

func (s *Session) handleHello(payload []byte) {
	if s.State() != StateAwaitingHello {
		logging.Warn("Unexpected hello",
			zap.String("remote_addr", s.RemoteAddr()),
			zap.String("state", s.State().String()),
		)
		return
	}

	req := &protocol.HelloRequest{}
	if err := req.UnmarshalPayload(payload); err != nil {
		logging.Warn("Malformed hello payload", zap.Error(err))
		logging.LogRawBytes("Hello payload", payload)
		// The handshake proceeds anyway: client info is informational only
	}
	logging.Info("Hub hello",
		zap.String("remote_addr", s.RemoteAddr()),
		zap.String("client_info", req.ClientInfo),
	)

	s.sendOrLog(&protocol.HelloResponse{
		APIVersionMajor: APIVersionMajor,
		APIVersionMinor: APIVersionMinor,
		ServerInfo:      ServerInfo,
		Name:            ServerName,
	})
	s.state.Store(int32(StateAwaitingConnect))
}

// handleConnect accepts any credential: the source system never verified
// the password, and the surrounding ecosystem depends on that. This is not
// an authentication boundary.
func (s *Session) handleConnect(payload []byte) {
	if s.State() != StateAwaitingConnect {
		logging.Warn("Unexpected connect",
			zap.String("remote_addr", s.RemoteAddr()),
			zap.String("state", s.State().String()),
		)
		return
	}

	req := &protocol.ConnectRequest{}
	if err := req.UnmarshalPayload(payload); err != nil {
		logging.Warn("Malformed connect payload", zap.Error(err))
	}
	logging.Info("Hub connect",
		zap.String("remote_addr", s.RemoteAddr()),
		zap.Bool("password_supplied", req.Password != ""),
	)

	s.sendOrLog(&protocol.ConnectResponse{InvalidPassword: false})
	s.authenticated.Store(true)
	s.state.Store(int32(StateReady))
	s.dispatcher.SessionReady(s)
}

func (s *Session) sendOrLog(msg protocol.Message) {
	if err := s.Send(msg); err != nil {
		logging.Warn("Failed to send handshake reply",
			zap.String("remote_addr", s.RemoteAddr()),
			zap.Uint32("msg_type", msg.MessageType()),
			zap.Error(err),
		)
	}
}
