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

package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/netpulse/netpulse/pkg/measurement"
)

// writeScript drops an executable shell script into a temp dir so probes
// can be exercised end to end without the real tools installed.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

func TestProbeFor(t *testing.T) {
	t.Parallel()

	f := NewDefaultFactory()
	for _, tool := range measurement.Tools() {
		p, err := ProbeFor(f, tool)
		if err != nil {
			t.Fatalf("ProbeFor(%v): %v", tool, err)
		}
		if p.Tool() != tool {
			t.Errorf("ProbeFor(%v).Tool() = %v", tool, p.Tool())
		}
	}

	if _, err := ProbeFor(f, measurement.Tool("iperf3")); err == nil {
		t.Error("ProbeFor(unknown) = nil error, want error")
	}
}

func TestDefaultFactoryBinaries(t *testing.T) {
	t.Parallel()

	bins := NewDefaultFactory().Binaries()
	if len(bins) != len(measurement.Tools()) {
		t.Fatalf("Binaries() has %d entries, want %d", len(bins), len(measurement.Tools()))
	}
	if bins[measurement.ToolSpeedtest] != DefaultSpeedtestPath {
		t.Errorf("speedtest binary = %q", bins[measurement.ToolSpeedtest])
	}

	// A zero-value factory still resolves the defaults.
	empty := (&DefaultFactory{}).Binaries()
	if empty[measurement.ToolChromeDL] != DefaultCurlPath {
		t.Errorf("zero factory curl binary = %q", empty[measurement.ToolChromeDL])
	}
}

func TestAttemptFromExec(t *testing.T) {
	t.Parallel()

	started := time.Now().UTC()

	tests := []struct {
		name       string
		res        *execResult
		wantStatus measurement.Status
		wantReason string
	}{
		{
			name:       "clean run",
			res:        &execResult{ExitCode: 0},
			wantStatus: measurement.StatusSuccess,
		},
		{
			name:       "timeout",
			res:        &execResult{TimedOut: true, ExitCode: -1},
			wantStatus: measurement.StatusFailed,
			wantReason: measurement.ReasonTimeout,
		},
		{
			name:       "spawn failure",
			res:        &execResult{SpawnErr: os.ErrNotExist},
			wantStatus: measurement.StatusFailed,
			wantReason: measurement.ReasonSpawn,
		},
		{
			name:       "non-zero exit",
			res:        &execResult{ExitCode: 2},
			wantStatus: measurement.StatusFailed,
			wantReason: measurement.ReasonExitStatus,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := attemptFromExec(measurement.ToolSpeedtest, started, tt.res)
			if a.Status != tt.wantStatus {
				t.Errorf("status = %v, want %v", a.Status, tt.wantStatus)
			}
			if a.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", a.Reason, tt.wantReason)
			}
		})
	}
}

func TestSpeedtestMeasureScripted(t *testing.T) {
	t.Parallel()

	script := writeScript(t, `echo "Ping: 20.0 ms"
echo "Download: 50.5 Mbit/s"
echo "Upload: 10.1 Mbit/s"
`)
	p := &SpeedtestProbe{Path: script}

	a, err := p.Measure(context.Background())
	if err != nil {
		t.Fatalf("Measure(): %v", err)
	}
	if a.Status != measurement.StatusSuccess {
		t.Fatalf("status = %v (reason %q), want success", a.Status, a.Reason)
	}
	if a.Sample.DownloadMbps == nil || *a.Sample.DownloadMbps != 50.5 {
		t.Errorf("download = %v, want 50.5", a.Sample.DownloadMbps)
	}
	if a.Duration <= 0 {
		t.Error("duration not captured")
	}
}

func TestMeasureTimeout(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "sleep 30\n")
	p := &FastProbe{Path: script}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	a, err := p.Measure(ctx)
	if err != nil {
		t.Fatalf("Measure(): %v", err)
	}
	if a.Status != measurement.StatusFailed || a.Reason != measurement.ReasonTimeout {
		t.Fatalf("attempt = %v/%q, want failed/timeout", a.Status, a.Reason)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Measure took %v after a 200ms deadline", elapsed)
	}
}

func TestMeasureExitFailure(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "echo broken >&2\nexit 2\n")
	p := &NDT7Probe{Path: script}

	a, err := p.Measure(context.Background())
	if err != nil {
		t.Fatalf("Measure(): %v", err)
	}
	if a.Status != measurement.StatusFailed || a.Reason != measurement.ReasonExitStatus {
		t.Fatalf("attempt = %v/%q, want failed/exit_status", a.Status, a.Reason)
	}
	if a.ExitCode != 2 {
		t.Errorf("exit code = %d, want 2", a.ExitCode)
	}
}

func TestMeasureParseFailure(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "echo not-a-speed-report\n")
	p := &DownloadProbe{Path: script, URL: "http://example.invalid/file"}

	a, err := p.Measure(context.Background())
	if err != nil {
		t.Fatalf("Measure(): %v", err)
	}
	if a.Status != measurement.StatusFailed || a.Reason != measurement.ReasonParse {
		t.Fatalf("attempt = %v/%q, want failed/parse", a.Status, a.Reason)
	}
	if a.Sample.DownloadMbps != nil {
		t.Error("parse failure left a sample value behind")
	}
}
