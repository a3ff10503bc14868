/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	apperrors "github.com/netpulse/netpulse/pkg/errors"
	"github.com/netpulse/netpulse/pkg/logging"
)

const name = "netpulse"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Run executes the CLI and owns process exit. An incomplete bootstrap is
// an expected state, not a failure: CONFIG_PENDING surfaces as operator
// guidance and exits zero so schedulers do not flag the unit. Everything
// else that reaches this level exits one.
func Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeConfigPending) {
			fmt.Fprintf(os.Stderr, "\n%s\n", pendingGuidance(err))
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Scheduled internet speed measurements with periodic chart posts",
		Version: version,
		Description: fmt.Sprintf(`netpulse measures internet connection speed with several external
tools, keeps the history in a local SQLite database, and periodically
posts a chart of the last day to a social account.

Version: %s
Commit:  %s
Built:   %s

Designed to run unattended: schedule "netpulse run" from a systemd
timer or cron and it measures, records, and posts only when enough
new data has accumulated since the last post.`, version, commit, date),
		Flags: []cli.Flag{
			// Both flags must propagate to subcommands. cli
			// v3.0.0-beta1 has no Persistent field; flags propagate
			// by default unless Local is set.
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Configuration file path (default: ~/.netpulse/config.yaml)",
				Sources: cli.EnvVars("NETPULSE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("NETPULSE_LOG_LEVEL", "LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// Development setups keep credentials in a .env file; a
			// missing file is the normal production case.
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				return ctx, fmt.Errorf("failed to load .env: %w", err)
			}

			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Info("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"logLevel", cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			runCmd(),
			setupCmd(),
			measureCmd(),
			historyCmd(),
			publishCmd(),
			renderCmd(),
			doctorCmd(),
			pruneCmd(),
		},
	}
}

// pendingGuidance renders a CONFIG_PENDING error as next-step guidance
// for the operator.
func pendingGuidance(err error) string {
	var serr *apperrors.StructuredError
	if !errors.As(err, &serr) {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString("Setup required: ")
	b.WriteString(serr.Message)
	if path, ok := serr.Context["path"].(string); ok {
		fmt.Fprintf(&b, "\n  config: %s", path)
	}
	return b.String()
}
