package config

import (
	"fmt"
	"time"
)

// DevicePort is the TCP port the device-link server listens on. The hub
// ecosystem expects this exact port, so it is intentionally not configurable.
const DevicePort = 6053

// Config represents the entire configuration file.
type Config struct {
	Server   Server   `yaml:"server"`
	Client   Client   `yaml:"client"`
	Logging  Logging  `yaml:"logging"`
	Advanced Advanced `yaml:"advanced"`
}

// Server holds the WebSocket/HTTP listener settings.
type Server struct {
	Host      string `yaml:"host"`                 // Bind address for the WebSocket server
	Port      int    `yaml:"port"`                 // WebSocket server port
	SSL       bool   `yaml:"ssl"`                  // Serve browsers over TLS
	CertFile  string `yaml:"cert_file,omitempty"`  // TLS certificate (required when ssl is true)
	KeyFile   string `yaml:"key_file,omitempty"`   // TLS private key (required when ssl is true)
	AuthToken string `yaml:"auth_token,omitempty"` // Browser auth token; empty disables auth
	StaticDir string `yaml:"static_dir,omitempty"` // Directory of browser client assets to serve
}

// Client holds audio parameters echoed verbatim to browser clients.
// The server never inspects these values. The json tags are the wire
// names browsers see in status messages.
type Client struct {
	SampleRate  int `yaml:"sample_rate" json:"sample_rate"`
	Channels    int `yaml:"channels" json:"channels"`
	SampleWidth int `yaml:"sample_width" json:"sample_width"`
}

// Logging holds log output settings.
type Logging struct {
	Level string `yaml:"level"`          // debug, info, warn, error
	File  string `yaml:"file,omitempty"` // Optional log file (copy of stdout output)
}

// Advanced holds tuning knobs that rarely need changing.
type Advanced struct {
	MediaPlayDelay float64 `yaml:"media_play_delay"`  // Seconds to keep the player in "playing" after broadcast
	AuthTimeout    int     `yaml:"auth_timeout"`      // Seconds a browser gets to authenticate
	DBPath         string  `yaml:"db_path,omitempty"` // Settings database path; empty uses the config dir
	DisableMDNS    bool    `yaml:"disable_mdns"`      // Skip mDNS advertisement
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Server: Server{
			Host: "0.0.0.0",
			Port: 8765,
		},
		Client: Client{
			SampleRate:  16000,
			Channels:    1,
			SampleWidth: 2,
		},
		Logging: Logging{
			Level: "info",
		},
		Advanced: Advanced{
			MediaPlayDelay: 2.0,
			AuthTimeout:    10,
		},
	}
}

// ListenAddr returns the host:port the WebSocket server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DeviceListenAddr returns the host:port the device-link server binds to.
// It shares the configured host with the WebSocket server.
func (c *Config) DeviceListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, DevicePort)
}

// MediaPlayDelay returns the post-broadcast playing duration.
func (c *Config) MediaPlayDelay() time.Duration {
	return time.Duration(c.Advanced.MediaPlayDelay * float64(time.Second))
}

// AuthTimeout returns how long a browser client may remain unauthenticated.
func (c *Config) AuthTimeout() time.Duration {
	return time.Duration(c.Advanced.AuthTimeout) * time.Second
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.SSL && (c.Server.CertFile == "" || c.Server.KeyFile == "") {
		return fmt.Errorf("ssl enabled but cert_file or key_file not set")
	}
	if c.Client.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", c.Client.SampleRate)
	}
	if c.Client.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", c.Client.Channels)
	}
	if c.Client.SampleWidth <= 0 {
		return fmt.Errorf("invalid sample width: %d", c.Client.SampleWidth)
	}
	if c.Advanced.MediaPlayDelay < 0 {
		return fmt.Errorf("media_play_delay must not be negative: %v", c.Advanced.MediaPlayDelay)
	}
	if c.Advanced.AuthTimeout <= 0 {
		return fmt.Errorf("auth_timeout must be positive: %d", c.Advanced.AuthTimeout)
	}
	return nil
}
