// Package logging provides a structured logging system for the gateway with
// unified log handling and level filtering.
//
// The package is built on Go's standard slog package. Every log entry carries a
// subsystem identifier ("Gateway", "Relay", "Bootstrap", ...) so the origin of a
// message is visible without stack context.
//
// # Usage
//
//	import "github.com/hengjingzhu/remote-mcp-gateway/pkg/logging"
//
//	// Initialize with Info level logging to stdout
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//
//	// Log messages
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Relay", "Stored credential for session %s", logging.TruncateSessionID(id))
//	logging.Warn("Gateway", "Session mirror skipped")
//	logging.Error("RelayStore", err, "Failed to open database")
//
// Session IDs should always pass through TruncateSessionID before being logged;
// they key credential storage and must not appear in full in log output.
package logging
