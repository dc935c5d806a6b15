// Package logging provides structured logging for ledctl.
//
// This package wraps a global zap logger with convenience functions. The
// logger is silent (zap.NewNop) unless a level is passed to Initialize or the
// LEDCTL_LOG_LEVEL environment variable is set, so interactive output is never
// mixed with log lines. Output goes to stderr.
//
// # Log Levels
//
//   - Debug: HTTP request/response bodies, controller state transitions
//   - Info: startup, server lifecycle, accepted configuration pushes
//   - Warn: stale responses discarded, rejected submissions
//   - Error: failed fetch/push, server errors
//
// # Structured Logging
//
//	logging.Info("Configuration pushed",
//	    zap.String("endpoint", "http://192.168.100.12:5000/api"),
//	    zap.String("mode", "solid"),
//	)
//
// # Specialized Logging
//
//	logging.LogRequest("POST", url, body)
//	logging.LogResponse(url, 200, body)
//	logging.LogStateTransition("submit", seq, zap.Bool("loading", true))
//	logging.LogConnection(remoteAddr, "websocket_upgraded")
package logging
