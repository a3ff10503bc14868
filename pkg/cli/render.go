/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/netpulse/netpulse/pkg/defaults"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:                  "render",
		EnableShellCompletion: true,
		Usage:                 "Draw the history chart without posting",
		Description: `Render the measurement history chart to a file. Nothing is posted and
the publication watermark is untouched, so this is safe to run at any
time.

The chart shows per-tool download and upload scatter points plus
rolling-average lines over the selected window.

# Examples

Render to the configured chart path:
  netpulse render

Render three days into a specific file:
  netpulse render --window 72h --output /tmp/week.png`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Chart file path (default: the configured chart path)",
			},
			&cli.DurationFlag{
				Name:  "window",
				Usage: "How much history to chart",
				Value: defaults.ReportWindow,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := ensureConfig(cmd)
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			path := cmd.String("output")
			if path == "" {
				path = cfg.ChartPath
			}

			// An explicit --window wins over the configured report window.
			window := cfg.ReportWindow
			if cmd.IsSet("window") {
				window = cmd.Duration("window")
			}
			return renderPreview(ctx, st, window, path)
		},
	}
}
