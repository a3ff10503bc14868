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

package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/netpulse/netpulse/pkg/defaults"
	apperrors "github.com/netpulse/netpulse/pkg/errors"
	"github.com/netpulse/netpulse/pkg/measurement"
)

// Skip reasons returned in Result when no post happened.
const (
	// SkipNoNewData means nothing chartable arrived since the last post.
	SkipNoNewData = "no_new_data"

	// SkipMinInterval means new data exists but the last post is too
	// recent. Force bypasses this gate and only this gate.
	SkipMinInterval = "min_interval"

	// SkipPublishFailed means rendering or posting failed; the next run
	// retries with the same data since last-published did not advance.
	SkipPublishFailed = "publish_failed"
)

// Store is the slice of the record store the trigger reads and advances.
type Store interface {
	Recent(ctx context.Context, since time.Time) ([]measurement.Record, error)
	LastPublished(ctx context.Context) (time.Time, error)
	SetLastPublished(ctx context.Context, ts time.Time) error
}

// Renderer draws an ordered history window to an image file.
type Renderer interface {
	Render(ctx context.Context, records []measurement.Record, path string) error
}

// Poster publishes a media file with a caption and returns the post ID.
type Poster interface {
	PostWithMedia(ctx context.Context, text, mediaPath string) (string, error)
}

// Result describes one publish decision.
type Result struct {
	// Published is true when a post went out.
	Published bool `json:"published"`

	// SkipReason is set when Published is false.
	SkipReason string `json:"skip_reason,omitempty"`

	// StatusID is the posted status ID when Published is true.
	StatusID string `json:"status_id,omitempty"`

	// Newest is the timestamp last-published advanced to.
	Newest time.Time `json:"newest,omitempty"`

	// Records is the number of rows in the charted window.
	Records int `json:"records"`
}

// Trigger decides when the measurement history warrants a new post and
// drives the render/post collaborators when it does. Posting is the
// durable completion signal: last-published advances only after the post
// succeeds, so failed attempts are retried by the next scheduled run.
type Trigger struct {
	// Store provides history and holds the last-published watermark.
	Store Store

	// Renderer and Poster are the external collaborators.
	Renderer Renderer
	Poster   Poster

	// ChartPath is where the rendered artifact is written.
	ChartPath string

	// Window bounds how much history is charted. Zero falls back to
	// defaults.ReportWindow.
	Window time.Duration

	// MinInterval is the cadence gate between posts. Zero falls back to
	// defaults.PublishMinInterval.
	MinInterval time.Duration

	// Now is overridable in tests. Nil means time.Now.
	Now func() time.Time
}

// MaybePublish evaluates the gates and, when both pass, renders the
// window and posts it. force bypasses the cadence gate; the new-data gate
// always applies, since a post without data has nothing to say.
//
// Collaborator failures are contained: they produce a skipped Result and
// a log line, not an error. The error return is reserved for store
// access failures.
func (t *Trigger) MaybePublish(ctx context.Context, force bool) (*Result, error) {
	if t.Store == nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "report trigger has no store")
	}
	if t.Renderer == nil || t.Poster == nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "report trigger has no collaborators")
	}

	now := t.now()
	window := t.Window
	if window <= 0 {
		window = defaults.ReportWindow
	}
	minInterval := t.MinInterval
	if minInterval <= 0 {
		minInterval = defaults.PublishMinInterval
	}

	lastPublished, err := t.Store.LastPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last published: %w", err)
	}

	records, err := t.Store.Recent(ctx, now.Add(-window))
	if err != nil {
		return nil, fmt.Errorf("failed to read history window: %w", err)
	}

	newest, successes := inspect(records)

	// New-data gate. A window of only failed rows is also "nothing to
	// publish": there is no sample to chart or summarize, and holding
	// the watermark keeps those rows in the next post.
	if len(records) == 0 || !newest.After(lastPublished) || successes == 0 {
		slog.Info("publish skipped",
			slog.String("reason", SkipNoNewData),
			slog.Int("records", len(records)),
			slog.Time("last_published", lastPublished))
		publishesTotal.WithLabelValues(SkipNoNewData).Inc()
		return &Result{SkipReason: SkipNoNewData, Records: len(records)}, nil
	}

	// Cadence gate, the only one force bypasses.
	if !force && now.Sub(lastPublished) < minInterval {
		slog.Info("publish skipped",
			slog.String("reason", SkipMinInterval),
			slog.Time("last_published", lastPublished),
			slog.Duration("min_interval", minInterval))
		publishesTotal.WithLabelValues(SkipMinInterval).Inc()
		return &Result{SkipReason: SkipMinInterval, Records: len(records)}, nil
	}

	statusID, skipped := t.renderAndPost(ctx, records)
	if skipped != nil {
		return skipped, nil
	}

	if err := t.Store.SetLastPublished(ctx, newest); err != nil {
		// The post is out but the watermark is stale; surface loudly so
		// the operator knows the next run may double-post.
		slog.Error("post succeeded but advancing last published failed",
			slog.Time("newest", newest),
			slog.Any("error", err))
		return &Result{Published: true, StatusID: statusID, Newest: newest, Records: len(records)},
			fmt.Errorf("failed to advance last published: %w", err)
	}

	publishesTotal.WithLabelValues("published").Inc()
	return &Result{Published: true, StatusID: statusID, Newest: newest, Records: len(records)}, nil
}

// renderAndPost runs the two collaborators. A non-nil skipped Result
// means a contained failure.
func (t *Trigger) renderAndPost(ctx context.Context, records []measurement.Record) (string, *Result) {
	started := t.now()
	if err := t.Renderer.Render(ctx, records, t.ChartPath); err != nil {
		slog.Error("chart render failed", slog.Any("error", err))
		t.discardArtifact()
		publishesTotal.WithLabelValues(SkipPublishFailed).Inc()
		return "", &Result{SkipReason: SkipPublishFailed, Records: len(records)}
	}
	renderDuration.Observe(t.now().Sub(started).Seconds())

	text := summaryText(records)

	postCtx, cancel := context.WithTimeout(ctx, defaults.PublishTimeout)
	defer cancel()

	started = t.now()
	statusID, err := t.Poster.PostWithMedia(postCtx, text, t.ChartPath)
	if err != nil {
		wrapped := apperrors.Wrap(apperrors.ErrCodePublishFailed, "post failed", err)
		slog.Error("publish failed", slog.Any("error", wrapped))
		// The artifact is only meaningful alongside its post; the retry
		// re-renders with whatever data the next run sees.
		t.discardArtifact()
		publishesTotal.WithLabelValues(SkipPublishFailed).Inc()
		return "", &Result{SkipReason: SkipPublishFailed, Records: len(records)}
	}
	publishDuration.Observe(t.now().Sub(started).Seconds())

	slog.Info("report published",
		slog.String("status_id", statusID),
		slog.Int("records", len(records)),
		slog.String("text", text))
	return statusID, nil
}

func (t *Trigger) discardArtifact() {
	if t.ChartPath == "" {
		return
	}
	if err := os.Remove(t.ChartPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove chart artifact",
			slog.String("path", t.ChartPath),
			slog.Any("error", err))
	}
}

func (t *Trigger) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// inspect returns the newest timestamp and the successful row count.
func inspect(records []measurement.Record) (time.Time, int) {
	var newest time.Time
	successes := 0
	for _, rec := range records {
		if rec.Timestamp.After(newest) {
			newest = rec.Timestamp
		}
		if rec.Status == measurement.StatusSuccess {
			successes++
		}
	}
	return newest, successes
}
