/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/netpulse/netpulse/pkg/defaults"
	"github.com/netpulse/netpulse/pkg/runner"
	"github.com/netpulse/netpulse/pkg/serializer"
)

func measureCmd() *cli.Command {
	return &cli.Command{
		Name:                  "measure",
		EnableShellCompletion: true,
		Usage:                 "Run one measurement batch and print the results",
		Description: `Execute every enabled measurement tool once, strictly in sequence, and
print the batch. Nothing is persisted unless --store is given, which
also re-enables the cadence skips that depend on recorded history (the
NDT7 probe is rate limited against its last stored success).

Failed tools are reported in the batch and never abort it.

# Examples

Quick ad-hoc measurement:
  netpulse measure

Measure and append to the history:
  netpulse measure --store

Machine-readable output:
  netpulse measure --format json --output batch.json`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "store",
				Usage: "Append results to the measurement history",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Wall-clock bound for the whole batch",
				Value: defaults.RunTimeout,
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := ensureConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			r := &runner.Runner{Config: cfg}
			if cmd.Bool("store") {
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer closeStore(st)
				r.Store = st
			}

			batch, err := r.RunAll(ctx)
			if err != nil {
				return fmt.Errorf("measurement run aborted: %w", err)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)
			return ser.Serialize(ctx, batch)
		},
	}
}
