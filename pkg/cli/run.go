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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/netpulse/netpulse/pkg/defaults"
	"github.com/netpulse/netpulse/pkg/render"
	"github.com/netpulse/netpulse/pkg/report"
	"github.com/netpulse/netpulse/pkg/runner"
	"github.com/netpulse/netpulse/pkg/social"
	"github.com/netpulse/netpulse/pkg/store"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:                  "run",
		EnableShellCompletion: true,
		Usage:                 "Measure, record, and publish when due (scheduler entrypoint)",
		Description: `Run one unattended cycle: execute every enabled measurement tool in
sequence, append the results to the local history, then publish a chart
of the recent window if enough new data has accumulated.

This is the command a systemd timer or cron job invokes. It is built to
be safe on a fixed cadence:
  - An incomplete bootstrap prints setup guidance and exits zero.
  - A tool that fails or times out is recorded as failed and never
    aborts the rest of the batch.
  - Publication failures are logged and retried on the next cycle.

Only a corrupt configuration, an unopenable store, or an unexpected
internal error exit non-zero.

# Examples

Scheduled invocation (what the timer runs):
  netpulse run

Publish even if the last post was recent (new data still required):
  netpulse run --force-publish

Measure and record without evaluating publication:
  netpulse run --measure-only

Render the chart a run would post, without posting:
  netpulse run --skip-measure --dry-run

Export metrics for the node-exporter textfile collector:
  netpulse run --metrics-textfile /var/lib/node_exporter/netpulse.prom`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force-publish",
				Usage: "Bypass the minimum publish interval (new data is still required)",
			},
			&cli.BoolFlag{
				Name:  "skip-measure",
				Usage: "Skip the measurement pass and only evaluate publication",
			},
			&cli.BoolFlag{
				Name:  "measure-only",
				Usage: "Run the measurement pass and skip publication",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Render the chart without posting; the artifact is kept for inspection",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Wall-clock bound for the whole cycle",
				Value: defaults.RunTimeout,
			},
			&cli.StringFlag{
				Name:    "metrics-textfile",
				Usage:   "Write Prometheus metrics to this file for the node-exporter textfile collector",
				Sources: cli.EnvVars("NETPULSE_METRICS_TEXTFILE"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("skip-measure") && cmd.Bool("measure-only") {
				return fmt.Errorf("--skip-measure and --measure-only are mutually exclusive")
			}

			// The textfile is written even on early exits so its mtime
			// doubles as a liveness signal for the scraper.
			if path := cmd.String("metrics-textfile"); path != "" {
				defer writeMetricsTextfile(path)
			}

			cfg, err := ensureConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			if !cmd.Bool("skip-measure") {
				r := &runner.Runner{Config: cfg, Store: st}
				batch, err := r.RunAll(ctx)
				if err != nil {
					return fmt.Errorf("measurement run aborted: %w", err)
				}
				slog.Info("measurement pass complete",
					"batch", batch.ID,
					"succeeded", batch.Succeeded(),
					"failed", batch.Failed(),
					"skipped", batch.Skipped())
			}

			if cmd.Bool("measure-only") {
				return nil
			}

			if cmd.Bool("dry-run") {
				if err := renderPreview(ctx, st, cfg.ReportWindow, cfg.ChartPath); err != nil {
					slog.Warn("dry-run render failed", "error", err)
				}
				return nil
			}

			poster, err := social.NewClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to build social client: %w", err)
			}

			trig := &report.Trigger{
				Store:       st,
				Renderer:    render.New(),
				Poster:      poster,
				ChartPath:   cfg.ChartPath,
				Window:      cfg.ReportWindow,
				MinInterval: cfg.PublishMinInterval,
			}
			res, err := trig.MaybePublish(ctx, cmd.Bool("force-publish"))
			if err != nil {
				return err
			}

			if res.Published {
				slog.Info("report published",
					"statusID", res.StatusID,
					"records", res.Records,
					"newest", res.Newest)
			} else {
				slog.Info("publication skipped", "reason", res.SkipReason)
			}
			return nil
		},
	}
}

// renderPreview draws the trailing history window to path without
// touching the publication gates or the last-published watermark, so
// operators can inspect exactly what a run would post.
func renderPreview(ctx context.Context, st *store.Store, window time.Duration, path string) error {
	since := time.Now().UTC().Add(-window)
	records, err := st.Recent(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to read history window: %w", err)
	}

	if err := render.New().Render(ctx, records, path); err != nil {
		return err
	}

	slog.Info("preview chart rendered", "path", path, "records", len(records))
	return nil
}

func writeMetricsTextfile(path string) {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		slog.Warn("failed to write metrics textfile", "path", path, "error", err)
		return
	}
	slog.Debug("metrics textfile written", "path", path)
}
