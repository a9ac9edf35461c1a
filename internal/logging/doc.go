// Package logging provides structured logging for fabricctl.
//
// This package wraps a global zap logger. Logging is silent unless a level is
// set with --log-level, the configuration file, or the FABRIC_LOG_LEVEL
// environment variable, so normal command output is never interleaved with
// log lines. Logs go to stderr.
//
// # Log Levels
//
//   - Debug: every controller request and response, including payloads
//   - Info: task progress and per-device results
//   - Warn: recoverable oddities such as a DeviceInfo key fallback
//   - Error: failures that abort a run
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	logging.Info("Device committed",
//	    zap.String("host", "edge-1"),
//	    zap.Int("added", 3),
//	)
package logging
