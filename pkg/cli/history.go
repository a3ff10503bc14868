/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/netpulse/netpulse/pkg/defaults"
	"github.com/netpulse/netpulse/pkg/measurement"
	"github.com/netpulse/netpulse/pkg/serializer"
)

// historyResult is the serialized shape of the history command output.
type historyResult struct {
	Since   time.Time            `json:"since" yaml:"since"`
	Count   int                  `json:"count" yaml:"count"`
	Records []measurement.Record `json:"records" yaml:"records"`
}

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "history",
		EnableShellCompletion: true,
		Usage:                 "Print recorded measurements",
		Description: `Print the measurement records captured after a point in time, oldest
first. The lower bound is --since when given, otherwise now minus
--window.

# Examples

The last day (default window):
  netpulse history

Everything since a specific moment:
  netpulse history --since 2026-08-20T06:00:00Z

A whole calendar day:
  netpulse history --since 2026-08-20 --window 24h

Export as JSON:
  netpulse history --format json --output history.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "since",
				Usage: "Lower bound as RFC3339 or YYYY-MM-DD (overrides --window)",
			},
			&cli.DurationFlag{
				Name:  "window",
				Usage: "How far back to look when --since is not given",
				Value: defaults.ReportWindow,
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			since, err := sinceFromCmd(cmd, time.Now().UTC())
			if err != nil {
				return err
			}

			cfg, err := ensureConfig(cmd)
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			records, err := st.Recent(ctx, since)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)
			return ser.Serialize(ctx, historyResult{
				Since:   since,
				Count:   len(records),
				Records: records,
			})
		},
	}
}

// sinceFromCmd resolves the lower bound of the history query. --since
// wins over --window and accepts RFC3339 or a plain date.
func sinceFromCmd(cmd *cli.Command, now time.Time) (time.Time, error) {
	raw := cmd.String("since")
	if raw == "" {
		return now.Add(-cmd.Duration("window")), nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q (want RFC3339 or YYYY-MM-DD)", raw)
}
