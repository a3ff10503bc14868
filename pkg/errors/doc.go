// Package errors provides structured error types with classification codes
// for netpulse.
//
// Errors carry a code for programmatic handling, a human-readable message,
// an optional wrapped cause, and optional key/value context:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeToolFailed,
//	    "speedtest exited non-zero",
//	    cause,
//	    map[string]any{"tool": "speedtest", "exit_code": 2},
//	)
//
// The failure policy keys off the code: CONFIG_PENDING is a user-action
// signal (exit 0), CONFIG_CORRUPT is fatal, and everything else is contained
// to its component and logged.
package errors
