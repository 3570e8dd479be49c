// Package web is the browser-facing HTTP server.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hybridsat/hybrid-satellite/internal/config"
	"github.com/hybridsat/hybrid-satellite/internal/hub"
	"github.com/hybridsat/hybrid-satellite/internal/version"
)

// Pipeline is the read-only view the status endpoint exposes. Implemented by
// the voice orchestrator.
type Pipeline interface {
	HubConnected() bool
	ActiveWakeWord() string
	MicMuted() bool
}

// DeviceCounter reports how many device-link sessions are open. Implemented
// by the device-link server.
type DeviceCounter interface {
	ActiveSessions() int
}

// Status is the /api/status payload. It extends the hub's client-facing
// status message with operational detail for dashboards.
type Status struct {
	Service        string        `json:"service"`
	Version        string        `json:"version"`
	UptimeSeconds  int64         `json:"uptime_seconds"`
	Clients        int           `json:"clients"`
	HAConnected    bool          `json:"ha_connected"`
	DeviceSessions int           `json:"device_sessions"`
	ActiveWakeWord string        `json:"active_wake_word"`
	MicMuted       bool          `json:"mic_muted"`
	Audio          AudioStatus   `json:"audio"`
	Config         config.Client `json:"config"`
}

// AudioStatus describes the retained microphone buffer.
type AudioStatus struct {
	BufferedBytes   int     `json:"buffered_bytes"`
	BufferedChunks  int     `json:"buffered_chunks"`
	BufferedSeconds float64 `json:"buffered_seconds"`
}

// Server is the browser-facing HTTP server: the WebSocket endpoint, the
// status and health APIs, and optionally the static client assets.
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	hub      *hub.Hub
	pipeline Pipeline
	devices  DeviceCounter
	started  time.Time
}

// New assembles the server and its routes.
func New(cfg *config.Config, h *hub.Hub, pipeline Pipeline, devices DeviceCounter) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:     e,
		cfg:      cfg,
		hub:      h,
		pipeline: pipeline,
		devices:  devices,
		started:  time.Now(),
	}

	e.GET("/health", s.handleHealth)
	e.GET("/api/status", s.handleStatus)
	e.GET("/ws", h.HandleWebSocket)
	if cfg.Server.StaticDir != "" {
		e.Static("/", cfg.Server.StaticDir)
	}

	return s
}

// Start serves until Shutdown or a listener error. Returns
// http.ErrServerClosed after a clean shutdown, like net/http.
func (s *Server) Start() error {
	addr := s.cfg.ListenAddr()
	if s.cfg.Server.SSL {
		return s.echo.StartTLS(addr, s.cfg.Server.CertFile, s.cfg.Server.KeyFile)
	}
	return s.echo.Start(addr)
}

// Shutdown stops the listener, waits for in-flight requests, then
// disconnects the remaining browser clients.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	s.hub.Shutdown()
	return err
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "hybrid-satellite",
	})
}

func (s *Server) handleStatus(c echo.Context) error {
	mic := s.hub.Mic()
	return c.JSON(http.StatusOK, Status{
		Service:        "hybrid-satellite",
		Version:        version.Version,
		UptimeSeconds:  int64(time.Since(s.started).Seconds()),
		Clients:        s.hub.ClientCount(),
		HAConnected:    s.pipeline.HubConnected(),
		DeviceSessions: s.devices.ActiveSessions(),
		ActiveWakeWord: s.pipeline.ActiveWakeWord(),
		MicMuted:       s.pipeline.MicMuted(),
		Audio: AudioStatus{
			BufferedBytes:   mic.Bytes(),
			BufferedChunks:  mic.Chunks(),
			BufferedSeconds: mic.Duration().Seconds(),
		},
		Config: s.cfg.Client,
	})
}
