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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/netpulse/netpulse/pkg/measurement"
)

type fakeStore struct {
	records       []measurement.Record
	lastPublished time.Time
	setCalls      []time.Time
	recentErr     error
}

func (s *fakeStore) Recent(ctx context.Context, since time.Time) ([]measurement.Record, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	var out []measurement.Record
	for _, rec := range s.records {
		if rec.Timestamp.After(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *fakeStore) LastPublished(ctx context.Context) (time.Time, error) {
	return s.lastPublished, nil
}

func (s *fakeStore) SetLastPublished(ctx context.Context, ts time.Time) error {
	s.setCalls = append(s.setCalls, ts)
	s.lastPublished = ts
	return nil
}

type fakeRenderer struct {
	calls     int
	lastCount int
	err       error
}

func (r *fakeRenderer) Render(ctx context.Context, records []measurement.Record, path string) error {
	r.calls++
	r.lastCount = len(records)
	if r.err != nil {
		return r.err
	}
	return os.WriteFile(path, []byte("png bytes"), 0o644)
}

type fakePoster struct {
	calls    int
	err      error
	lastText string
	lastPath string
}

func (p *fakePoster) PostWithMedia(ctx context.Context, text, mediaPath string) (string, error) {
	p.calls++
	p.lastText = text
	p.lastPath = mediaPath
	if p.err != nil {
		return "", p.err
	}
	return "9001", nil
}

func successRecord(ts time.Time, tool measurement.Tool, down, up float64) measurement.Record {
	rec := measurement.Record{
		Timestamp: ts,
		BatchID:   ts.Format(time.RFC3339),
		Tool:      tool,
		Status:    measurement.StatusSuccess,
		Sample:    measurement.Sample{DownloadMbps: measurement.Float(down)},
	}
	if up > 0 {
		rec.Sample.UploadMbps = measurement.Float(up)
	}
	return rec
}

// threeRecordStore seeds T1 < T2 < T3 with lastPublished = T1.
func threeRecordStore(base time.Time) *fakeStore {
	return &fakeStore{
		records: []measurement.Record{
			successRecord(base.Add(-3*time.Hour), measurement.ToolSpeedtest, 100, 10),
			successRecord(base.Add(-2*time.Hour), measurement.ToolSpeedtest, 80, 20),
			successRecord(base.Add(-1*time.Hour), measurement.ToolSpeedtest, 60, 0),
		},
		lastPublished: base.Add(-3 * time.Hour),
	}
}

func testTrigger(t *testing.T, store *fakeStore, base time.Time) (*Trigger, *fakeRenderer, *fakePoster) {
	t.Helper()
	renderer := &fakeRenderer{}
	poster := &fakePoster{}
	trigger := &Trigger{
		Store:       store,
		Renderer:    renderer,
		Poster:      poster,
		ChartPath:   filepath.Join(t.TempDir(), "chart.png"),
		Window:      24 * time.Hour,
		MinInterval: time.Hour,
		Now:         func() time.Time { return base },
	}
	return trigger, renderer, poster
}

func TestMaybePublishSuccess(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := threeRecordStore(base)
	trigger, renderer, poster := testTrigger(t, store, base)

	result, err := trigger.MaybePublish(context.Background(), false)
	if err != nil {
		t.Fatalf("MaybePublish(): %v", err)
	}
	if !result.Published {
		t.Fatalf("result = %+v, want published", result)
	}
	if result.StatusID != "9001" {
		t.Errorf("status id = %q, want 9001", result.StatusID)
	}

	// The full window is rendered, already-published points included.
	if renderer.calls != 1 || renderer.lastCount != 3 {
		t.Errorf("renderer calls/records = %d/%d, want 1/3", renderer.calls, renderer.lastCount)
	}
	if poster.calls != 1 {
		t.Errorf("poster calls = %d, want 1", poster.calls)
	}

	// The watermark advances to the newest record's timestamp.
	wantNewest := base.Add(-1 * time.Hour)
	if len(store.setCalls) != 1 || !store.setCalls[0].Equal(wantNewest) {
		t.Errorf("SetLastPublished calls = %v, want [%v]", store.setCalls, wantNewest)
	}
	if !result.Newest.Equal(wantNewest) {
		t.Errorf("result.Newest = %v, want %v", result.Newest, wantNewest)
	}
}

func TestMaybePublishCaption(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := threeRecordStore(base)
	trigger, _, poster := testTrigger(t, store, base)

	if _, err := trigger.MaybePublish(context.Background(), false); err != nil {
		t.Fatalf("MaybePublish(): %v", err)
	}

	// Downloads 100/80/60 -> median 80; uploads 10/20 -> median 15.
	want := "Median speed: 80.0 Mbps down / 15.0 Mbps up"
	if poster.lastText != want {
		t.Errorf("caption = %q, want %q", poster.lastText, want)
	}
	if poster.lastPath != trigger.ChartPath {
		t.Errorf("posted media path = %q, want %q", poster.lastPath, trigger.ChartPath)
	}
}

func TestMaybePublishNoNewData(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := threeRecordStore(base)
	// Everything up to T3 is already published.
	store.lastPublished = base.Add(-1 * time.Hour)
	trigger, renderer, poster := testTrigger(t, store, base)

	result, err := trigger.MaybePublish(context.Background(), false)
	if err != nil {
		t.Fatalf("MaybePublish(): %v", err)
	}
	if result.Published || result.SkipReason != SkipNoNewData {
		t.Errorf("result = %+v, want skip %s", result, SkipNoNewData)
	}
	if renderer.calls != 0 || poster.calls != 0 {
		t.Errorf("collaborators invoked (%d renders, %d posts) on a skip", renderer.calls, poster.calls)
	}
}

func TestMaybePublishForceCannotBypassDataGate(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := threeRecordStore(base)
	store.lastPublished = base.Add(-1 * time.Hour)
	trigger, renderer, poster := testTrigger(t, store, base)

	result, err := trigger.MaybePublish(context.Background(), true)
	if err != nil {
		t.Fatalf("MaybePublish(): %v", err)
	}
	if result.Published || result.SkipReason != SkipNoNewData {
		t.Errorf("forced result = %+v, want skip %s", result, SkipNoNewData)
	}
	if renderer.calls != 0 || poster.calls != 0 {
		t.Error("force bypassed the new-data gate")
	}
}

func TestMaybePublishMinInterval(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := threeRecordStore(base)
	// Published 90 minutes ago; T3 is newer than the watermark but the
	// cadence gate holds.
	store.lastPublished = base.Add(-90 * time.Minute)
	trigger, renderer, poster := testTrigger(t, store, base)
	trigger.MinInterval = 8 * time.Hour

	result, err := trigger.MaybePublish(context.Background(), false)
	if err != nil {
		t.Fatalf("MaybePublish(): %v", err)
	}
	if result.Published || result.SkipReason != SkipMinInterval {
		t.Errorf("result = %+v, want skip %s", result, SkipMinInterval)
	}
	if renderer.calls != 0 || poster.calls != 0 {
		t.Error("collaborators invoked inside the cadence window")
	}
}

func TestMaybePublishForceBypassesCadence(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := threeRecordStore(base)
	store.lastPublished = base.Add(-90 * time.Minute)
	trigger, _, poster := testTrigger(t, store, base)
	trigger.MinInterval = 8 * time.Hour

	result, err := trigger.MaybePublish(context.Background(), true)
	if err != nil {
		t.Fatalf("MaybePublish(): %v", err)
	}
	if !result.Published {
		t.Fatalf("forced result = %+v, want published", result)
	}
	if poster.calls != 1 {
		t.Errorf("poster calls = %d, want 1", poster.calls)
	}
}

func TestMaybePublishPostFailure(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := threeRecordStore(base)
	trigger, _, poster := testTrigger(t, store, base)
	poster.err = fmt.Errorf("api returned status 401")

	result, err := trigger.MaybePublish(context.Background(), false)
	if err != nil {
		t.Fatalf("MaybePublish() with failing poster should contain the failure, got %v", err)
	}
	if result.Published || result.SkipReason != SkipPublishFailed {
		t.Errorf("result = %+v, want skip %s", result, SkipPublishFailed)
	}

	// Posting is the durable completion signal: the watermark holds and
	// the artifact is discarded so the next run re-renders.
	if len(store.setCalls) != 0 {
		t.Errorf("watermark advanced despite post failure: %v", store.setCalls)
	}
	if _, statErr := os.Stat(trigger.ChartPath); !os.IsNotExist(statErr) {
		t.Error("chart artifact survived a failed post")
	}
}

func TestMaybePublishRenderFailure(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := threeRecordStore(base)
	trigger, renderer, poster := testTrigger(t, store, base)
	renderer.err = fmt.Errorf("no successful samples to chart")

	result, err := trigger.MaybePublish(context.Background(), false)
	if err != nil {
		t.Fatalf("MaybePublish() with failing renderer should contain the failure, got %v", err)
	}
	if result.Published || result.SkipReason != SkipPublishFailed {
		t.Errorf("result = %+v, want skip %s", result, SkipPublishFailed)
	}
	if poster.calls != 0 {
		t.Error("poster invoked after a render failure")
	}
	if len(store.setCalls) != 0 {
		t.Error("watermark advanced despite render failure")
	}
}

func TestMaybePublishOnlyFailuresIsNoNewData(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		records: []measurement.Record{
			{
				Timestamp: base.Add(-time.Hour),
				BatchID:   "b",
				Tool:      measurement.ToolSpeedtest,
				Status:    measurement.StatusFailed,
				Reason:    measurement.ReasonTimeout,
			},
		},
	}
	trigger, renderer, _ := testTrigger(t, store, base)

	result, err := trigger.MaybePublish(context.Background(), false)
	if err != nil {
		t.Fatalf("MaybePublish(): %v", err)
	}
	if result.SkipReason != SkipNoNewData {
		t.Errorf("result = %+v, want skip %s (nothing chartable)", result, SkipNoNewData)
	}
	if renderer.calls != 0 {
		t.Error("renderer invoked with nothing to draw")
	}
}

func TestMaybePublishKeepsArtifactOnSuccess(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := threeRecordStore(base)
	trigger, _, _ := testTrigger(t, store, base)

	if _, err := trigger.MaybePublish(context.Background(), false); err != nil {
		t.Fatalf("MaybePublish(): %v", err)
	}
	if _, err := os.Stat(trigger.ChartPath); err != nil {
		t.Errorf("chart artifact missing after successful publish: %v", err)
	}
}

func TestMaybePublishStoreError(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := threeRecordStore(base)
	store.recentErr = fmt.Errorf("database is locked")
	trigger, _, _ := testTrigger(t, store, base)

	_, err := trigger.MaybePublish(context.Background(), false)
	if err == nil {
		t.Fatal("MaybePublish() with failing store = nil error")
	}
	if !strings.Contains(err.Error(), "history window") {
		t.Errorf("error %q does not name the failing read", err)
	}
}

func TestMaybePublishEmptyStore(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	trigger, renderer, poster := testTrigger(t, &fakeStore{}, base)

	result, err := trigger.MaybePublish(context.Background(), false)
	if err != nil {
		t.Fatalf("MaybePublish(): %v", err)
	}
	if result.SkipReason != SkipNoNewData {
		t.Errorf("result = %+v, want skip %s", result, SkipNoNewData)
	}
	if renderer.calls != 0 || poster.calls != 0 {
		t.Error("collaborators invoked on an empty store")
	}
}
