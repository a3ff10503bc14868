/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/netpulse/netpulse/pkg/defaults"
	"github.com/netpulse/netpulse/pkg/serializer"
)

// pruneResult is the serialized shape of the prune command output.
type pruneResult struct {
	Keep    string    `json:"keep" yaml:"keep"`
	Cutoff  time.Time `json:"cutoff" yaml:"cutoff"`
	Deleted int64     `json:"deleted" yaml:"deleted"`
}

func pruneCmd() *cli.Command {
	return &cli.Command{
		Name:                  "prune",
		EnableShellCompletion: true,
		Usage:                 "Delete measurement records older than the retention window",
		Description: `Delete records older than now minus --keep and report how many rows
went away. The last-published watermark is untouched, so pruning never
causes a spurious post or suppresses a due one.

# Examples

Apply the default retention:
  netpulse prune

Keep only the last week:
  netpulse prune --keep 168h`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "keep",
				Usage: "Retention window; records older than this are deleted",
				Value: defaults.PruneKeep,
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			keep := cmd.Duration("keep")
			if keep <= 0 {
				return fmt.Errorf("--keep must be positive, got %s", keep)
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

			cutoff := time.Now().UTC().Add(-keep)
			deleted, err := st.Prune(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("failed to prune records: %w", err)
			}

			slog.Info("prune complete",
				"deleted", deleted,
				"cutoff", cutoff,
				"keep", keep)

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)
			return ser.Serialize(ctx, pruneResult{
				Keep:    keep.String(),
				Cutoff:  cutoff,
				Deleted: deleted,
			})
		},
	}
}
