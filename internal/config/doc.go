// Package config provides configuration management for the hybrid satellite.
//
// This package manages a YAML-based configuration file covering the WebSocket
// server, the audio parameters advertised to browser clients, logging, and a
// handful of advanced tuning knobs. The configuration follows OS-specific
// conventions for storage location, and every value has a working default: a
// missing config file is not an error.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/hybridsat/config.yaml or $HOME/.config/hybridsat/config.yaml
//   - macOS: $HOME/.config/hybridsat/config.yaml
//   - Windows: %LOCALAPPDATA%\hybridsat\config.yaml
//
// An explicit path (e.g. from a --config flag) bypasses the default location.
//
// # Environment Overrides
//
// After the file is read, HYBRIDSAT_HOST, HYBRIDSAT_PORT, HYBRIDSAT_AUTH_TOKEN
// and HYBRIDSAT_LOG_LEVEL replace the corresponding file values. A .env file
// in the working directory is loaded first when present.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(cfg.ListenAddr())       // e.g. 0.0.0.0:8765
//	fmt.Println(cfg.DeviceListenAddr()) // e.g. 0.0.0.0:6053
//
//	// Write a starter file for editing
//	path, err := config.WriteDefault("")
//
// # Thread Safety
//
// File operations are protected by a mutex to ensure atomic writes. A loaded
// Config is treated as read-only after startup.
package config
