package api

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hybridsat/hybrid-satellite/internal/logging"
)

// Server accepts device-link connections from the hub and runs one Session
// per connection. It does not own process lifecycle: callers start it, then
// call Shutdown when the process is going away.
type Server struct {
	addr       string
	dispatcher Dispatcher

	listener net.Listener
	wg       sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewServer creates a device-link server bound to addr once Start is called.
func NewServer(addr string, dispatcher Dispatcher) *Server {
	return &Server{
		addr:       addr,
		dispatcher: dispatcher,
		sessions:   make(map[string]*Session),
	}
}

// Start binds the listener and begins accepting connections in the
// background. A failure to bind is returned synchronously; accept errors
// after that are logged and survived.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	logging.Info("Device link listening", zap.String("address", s.addr))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptConnections()
	}()

	return nil
}

// acceptConnections accepts and handles incoming connections until the
// listener closes.
func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Listener closed during shutdown
			if opErr, ok := err.(*net.OpError); ok && opErr.Err.Error() == "use of closed network connection" {
				return
			}
			logging.Error("Failed to accept connection", zap.Error(err))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection runs one session to completion.
func (s *Server) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()

	session := NewSession(conn, s.dispatcher)

	s.mu.Lock()
	s.sessions[remoteAddr] = session
	s.mu.Unlock()

	defer func() {
		_ = session.Close()
		s.mu.Lock()
		delete(s.sessions, remoteAddr)
		s.mu.Unlock()
		logging.LogConnection(remoteAddr, "connection_closed")
	}()

	logging.LogConnection(remoteAddr, "connection_accepted")

	session.Serve()
}

// Shutdown stops accepting connections, closes active sessions and waits
// for their goroutines to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down device link server...")

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			logging.Error("Error closing listener", zap.Error(err))
		}
	}

	s.mu.Lock()
	for addr, session := range s.sessions {
		logging.Info("Closing device session", zap.String("remote_addr", addr))
		_ = session.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All device sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	case <-time.After(10 * time.Second):
		logging.Warn("Shutdown timeout after 10 seconds, forcing close")
	}

	return nil
}

// ActiveSessions returns the number of connected device sessions.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
