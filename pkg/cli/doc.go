// Package cli implements the command-line interface for netpulse.
//
// # Overview
//
// netpulse measures internet connection speed on a schedule, keeps the
// history in a local SQLite database, and periodically posts a chart of the
// recent window to a social account. The CLI is the only entrypoint: a
// systemd timer or cron job invokes "netpulse run" on a fixed cadence and
// every other command exists to set up, inspect, or maintain that loop.
//
// # Commands
//
// run - the scheduler entrypoint:
//
//	netpulse run [--force-publish] [--measure-only] [--skip-measure] [--dry-run]
//
// Executes one unattended cycle: measure with every enabled tool in sequence,
// append the results, then publish a chart if enough new data accumulated
// since the last post. Contained failures (a tool timing out, a post not
// going through) are logged and exit zero so the schedule keeps ticking.
//
// setup - interactive account authorization:
//
//	netpulse setup [--force]
//
// Walks the PIN-based OAuth flow that connects netpulse to the posting
// account and completes the configuration bootstrap. The only interactive
// command.
//
// measure - one ad-hoc batch:
//
//	netpulse measure [--store] [--format yaml|json|table]
//
// Runs every enabled tool once and prints the batch. Nothing is persisted
// unless --store is given.
//
// history - query recorded measurements:
//
//	netpulse history [--since TIME | --window DUR] [--format yaml|json|table]
//
// publish - post now:
//
//	netpulse publish
//
// Bypasses the minimum publish interval. The new-data requirement still
// applies; without fresh successful measurements the command reports a skip.
//
// render - draw the chart without posting:
//
//	netpulse render [--window DUR] [--output FILE]
//
// doctor - environment checks:
//
//	netpulse doctor
//
// Verifies tool binaries, configuration state, store health, scheduler
// units, and credentials, in parallel.
//
// prune - apply the retention window:
//
//	netpulse prune [--keep DUR]
//
// # Global Flags
//
//	--config       Configuration file path (default: ~/.netpulse/config.yaml)
//	--log-level    Log verbosity: debug, info, warn, error
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output Formats
//
// Commands that print structured results accept --format yaml (default),
// json, or table, and --output to write to a file instead of stdout. When
// --format is omitted, an --output path with a recognizable extension
// selects the format, so "-o history.json" writes JSON.
//
// # Environment Variables
//
//	NETPULSE_CONFIG     Configuration file path
//	NETPULSE_LOG_LEVEL  Log verbosity (LOG_LEVEL is honored as a fallback)
//
// A .env file in the working directory is loaded at startup when present,
// which keeps development credentials out of the shell history.
//
// # Exit Codes
//
//	0  Success, pending bootstrap, and contained steady-state failures
//	1  Corrupt configuration, store open failure, or unexpected error
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/runner - sequential measurement execution
//   - pkg/store - SQLite measurement history
//   - pkg/report - publication gating
//   - pkg/render - chart drawing
//   - pkg/social - media upload and status posting
//   - pkg/serializer - output formatting
//   - pkg/logging - structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/netpulse/netpulse/pkg/cli.version=1.0.0'"
package cli
