/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/netpulse/netpulse/pkg/render"
	"github.com/netpulse/netpulse/pkg/report"
	"github.com/netpulse/netpulse/pkg/serializer"
	"github.com/netpulse/netpulse/pkg/social"
)

func publishCmd() *cli.Command {
	return &cli.Command{
		Name:                  "publish",
		EnableShellCompletion: true,
		Usage:                 "Render the recent window and post it now",
		Description: `Evaluate publication immediately, bypassing the minimum interval since
the last post. The new-data requirement still applies: without at least
one successful measurement newer than the last post there is nothing to
say, and the command reports a skip instead of posting.

The printed result records the decision, including the skip reason when
nothing went out.

# Examples

Post the current window:
  netpulse publish

Inspect the decision as JSON:
  netpulse publish --format json`,
		Flags: []cli.Flag{
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

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			poster, err := social.NewClient(cfg)
			if err != nil {
				return err
			}

			trig := &report.Trigger{
				Store:       st,
				Renderer:    render.New(),
				Poster:      poster,
				ChartPath:   cfg.ChartPath,
				Window:      cfg.ReportWindow,
				MinInterval: cfg.PublishMinInterval,
			}
			res, err := trig.MaybePublish(ctx, true)
			if err != nil {
				return err
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)
			return ser.Serialize(ctx, res)
		},
	}
}
