// Package logging provides structured logging utilities for netpulse
// components.
//
// # Overview
//
// This package wraps the standard library slog package with netpulse-specific
// defaults and conventions for consistent logging across all commands. It
// supports environment-based log level configuration, module/version context
// injection, and automatic source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("netpulse", version)
//
//	    slog.Info("run starting", "batch", batchID)
//	    slog.Error("probe failed", "tool", tool, "error", err)
//	}
//
// Setting an explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("netpulse", version, "debug")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug netpulse run
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format so the scheduler's mail or
// journal capture stays machine-readable:
//
//	{
//	    "time": "2025-06-14T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "batch complete",
//	    "module": "netpulse",
//	    "version": "v0.3.0",
//	    "attempts": 4
//	}
package logging
