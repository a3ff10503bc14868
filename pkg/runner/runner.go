// Copyright (c) 2026, The netpulse authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/netpulse/netpulse/pkg/config"
	"github.com/netpulse/netpulse/pkg/defaults"
	apperrors "github.com/netpulse/netpulse/pkg/errors"
	"github.com/netpulse/netpulse/pkg/measurement"
	"github.com/netpulse/netpulse/pkg/probe"
)

// RecordStore is the slice of the store the runner needs: persisting
// attempts and consulting probe cadence.
type RecordStore interface {
	Append(ctx context.Context, rec *measurement.Record) error
	LastSuccess(ctx context.Context, tool measurement.Tool) (*measurement.Record, error)
}

// Runner executes the configured probes strictly in sequence. Probes are
// never run concurrently: parallel speed tests contend for the same uplink
// and would skew each other's numbers.
type Runner struct {
	// Config carries tool selection and timeouts.
	Config *config.Config

	// Factory creates probes. If nil, the default factory is used.
	Factory probe.Factory

	// Store receives one record per executed attempt. A nil Store runs the
	// batch without persisting (dry run) and disables cadence skips.
	Store RecordStore

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// RunAll invokes every enabled tool once, in canonical order, and returns
// the batch of attempts. A failing tool never aborts the batch; only a
// canceled context stops the run early, returning the partial batch
// together with the context error.
func (r *Runner) RunAll(ctx context.Context) (*measurement.Batch, error) {
	if r.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if r.Factory == nil {
		f := probe.NewDefaultFactory()
		if r.Config.DownloadProbeURL != "" {
			f.DownloadURL = r.Config.DownloadProbeURL
		}
		r.Factory = f
	}

	tools, err := r.Config.EnabledTools()
	if err != nil {
		return nil, err
	}

	batch := &measurement.Batch{
		ID:       uuid.NewString(),
		Started:  r.now().UTC(),
		Attempts: make([]measurement.Attempt, 0, len(tools)),
	}

	slog.Info("starting measurement batch",
		slog.String("batch_id", batch.ID),
		slog.Int("tools", len(tools)))

	start := time.Now()
	defer func() {
		runBatchDuration.Observe(time.Since(start).Seconds())
	}()

	for _, tool := range tools {
		if ctx.Err() != nil {
			runBatchesTotal.WithLabelValues("canceled").Inc()
			return batch, ctx.Err()
		}

		if skip, reason := r.shouldSkip(ctx, tool); skip {
			attempt := measurement.Attempt{
				Tool:    tool,
				Status:  measurement.StatusSkipped,
				Reason:  reason,
				Started: r.now().UTC(),
			}
			batch.Attempts = append(batch.Attempts, attempt)
			runAttemptsTotal.WithLabelValues(string(tool), string(attempt.Status)).Inc()
			slog.Info("skipping probe",
				slog.String("tool", string(tool)),
				slog.String("reason", reason))
			continue
		}

		attempt := r.measureOne(ctx, tool)
		batch.Attempts = append(batch.Attempts, *attempt)
		r.persist(ctx, batch.ID, attempt)
	}

	runBatchesTotal.WithLabelValues("complete").Inc()
	slog.Info("measurement batch complete",
		slog.String("batch_id", batch.ID),
		slog.Int("succeeded", batch.Succeeded()),
		slog.Int("failed", batch.Failed()),
		slog.Int("skipped", batch.Skipped()))
	return batch, nil
}

// measureOne runs a single tool bounded by the per-tool timeout.
func (r *Runner) measureOne(ctx context.Context, tool measurement.Tool) *measurement.Attempt {
	p, err := probe.ProbeFor(r.Factory, tool)
	if err != nil {
		return &measurement.Attempt{
			Tool:    tool,
			Status:  measurement.StatusFailed,
			Reason:  measurement.ReasonSpawn,
			Started: r.now().UTC(),
		}
	}

	timeout := r.Config.ToolTimeout
	if timeout <= 0 {
		timeout = defaults.ToolTimeout
	}
	toolCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slog.Debug("running probe", slog.String("tool", string(tool)))
	attempt, err := p.Measure(toolCtx)
	if err != nil || attempt == nil {
		slog.Error("probe returned no attempt",
			slog.String("tool", string(tool)),
			slog.Any("error", err))
		attempt = &measurement.Attempt{
			Tool:    tool,
			Status:  measurement.StatusFailed,
			Reason:  measurement.ReasonSpawn,
			Started: r.now().UTC(),
		}
	}

	runAttemptsTotal.WithLabelValues(string(tool), string(attempt.Status)).Inc()
	runToolDuration.WithLabelValues(string(tool)).Observe(attempt.Duration.Seconds())

	if attempt.Status == measurement.StatusSuccess {
		if attempt.Sample.DownloadMbps != nil {
			lastDownloadMbps.WithLabelValues(string(tool)).Set(*attempt.Sample.DownloadMbps)
		}
		if attempt.Sample.UploadMbps != nil {
			lastUploadMbps.WithLabelValues(string(tool)).Set(*attempt.Sample.UploadMbps)
		}
		slog.Info("probe succeeded",
			slog.String("tool", string(tool)),
			slog.Any("download_mbps", attempt.Sample.DownloadMbps),
			slog.Any("upload_mbps", attempt.Sample.UploadMbps),
			slog.Duration("took", attempt.Duration))
	} else {
		slog.Warn("probe failed",
			slog.String("tool", string(tool)),
			slog.String("reason", attempt.Reason),
			slog.Int("exit_code", attempt.ExitCode),
			slog.Duration("took", attempt.Duration))
	}
	return attempt
}

// shouldSkip applies per-tool cadence policy. Only the NDT7 probe has one:
// it runs at most once per NDTMinInterval, to keep a modest load on the
// shared M-Lab servers.
func (r *Runner) shouldSkip(ctx context.Context, tool measurement.Tool) (bool, string) {
	if tool != measurement.ToolNDT7 || r.Store == nil {
		return false, ""
	}

	last, err := r.Store.LastSuccess(ctx, tool)
	if err != nil {
		slog.Warn("failed to check probe cadence; running anyway",
			slog.String("tool", string(tool)),
			slog.String("error", err.Error()))
		return false, ""
	}
	if last == nil {
		return false, ""
	}

	minInterval := r.Config.NDTMinInterval
	if minInterval <= 0 {
		minInterval = defaults.NDTMinInterval
	}
	if r.now().Sub(last.Timestamp) < minInterval {
		return true, measurement.ReasonRateLimit
	}
	return false, ""
}

// persist stores one executed attempt. Skipped attempts are reported in the
// batch but never written. Storage failures are logged and do not abort the
// batch; in particular a same-second duplicate means another invocation
// already recorded this window.
func (r *Runner) persist(ctx context.Context, batchID string, a *measurement.Attempt) {
	if r.Store == nil || a.Status == measurement.StatusSkipped {
		return
	}

	rec := &measurement.Record{
		Timestamp: a.Started,
		BatchID:   batchID,
		Tool:      a.Tool,
		Status:    a.Status,
		Sample:    a.Sample,
		ExitCode:  a.ExitCode,
		Reason:    a.Reason,
	}
	if err := r.Store.Append(ctx, rec); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeDuplicateTimestamp) {
			slog.Warn("record for this second already exists; dropping attempt",
				slog.String("tool", string(a.Tool)),
				slog.Time("timestamp", a.Started))
			return
		}
		slog.Error("failed to store attempt",
			slog.String("tool", string(a.Tool)),
			slog.String("error", err.Error()))
	}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
