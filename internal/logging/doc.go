// Package logging provides structured logging for the hybrid satellite.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the gateway. It provides both general logging
// functions and specialized functions for protocol-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, frame decoding, audio chunks)
//   - Info: Normal operations (connections, pipeline runs, state changes)
//   - Warn: Non-fatal issues (hub connection drops, rejected clients)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Hub connected",
//	    zap.String("remote_addr", "192.168.1.100"),
//	    zap.String("client_info", "Home Assistant 2024.10"),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
// Connection Logging:
//
//	logging.LogConnection(remoteAddr, "connection_accepted")
//	logging.LogConnection(remoteAddr, "handshake_complete")
//	logging.LogConnection(remoteAddr, "connection_closed")
//
// Device Frame Logging:
//
//	logging.LogFrame(remoteAddr, "received", msgType, payload)
//	logging.LogFrame(remoteAddr, "sent", msgType, payload)
//
// Browser Client Logging:
//
//	logging.LogClientEvent(clientID, remoteAddr, "authenticated")
//	logging.LogClientEvent(clientID, remoteAddr, "disconnected")
//
// # Configuration
//
// Initialize logging at server startup:
//
//	if err := logging.Initialize("debug", ""); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// The second argument names an optional log file that receives a copy of all
// output. The HYBRIDSAT_LOG_LEVEL environment variable overrides the
// configured level.
//
// # Output Format
//
// Logs are written to stdout in console format (human-readable):
//
//	2025-11-25T10:30:45.123-0800  INFO  Device connection event
//	  remote_addr=192.168.1.100
//	  event=connection_accepted
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
