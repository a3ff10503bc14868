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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/netpulse/netpulse/pkg/measurement"
)

// DownloadProbe measures sustained throughput by timing a real file fetch
// with curl. Unlike the dedicated speed tests it exercises a plain HTTP CDN
// path, which catches throttling the test endpoints do not see.
type DownloadProbe struct {
	// Path is the curl binary; DefaultCurlPath when empty.
	Path string

	// URL is the file to fetch; DefaultDownloadURL when empty.
	URL string
}

// Tool identifies this probe.
func (p *DownloadProbe) Tool() measurement.Tool {
	return measurement.ToolChromeDL
}

// Measure fetches the URL to /dev/null and reads curl's measured average
// download speed from the write-out format.
func (p *DownloadProbe) Measure(ctx context.Context) (*measurement.Attempt, error) {
	started := time.Now().UTC()
	res := runCommand(ctx, orDefault(p.Path, DefaultCurlPath),
		orDefault(p.URL, DefaultDownloadURL),
		"-o", "/dev/null", "-s", "-w", "%{speed_download}")

	a := attemptFromExec(p.Tool(), started, res)
	if a.Status != measurement.StatusSuccess {
		return a, nil
	}

	sample, err := parseCurlSpeed(res.Stdout)
	if err != nil {
		return failParse(a), nil
	}
	a.Sample = *sample
	return a, nil
}

// parseCurlSpeed converts curl's %{speed_download} (bytes per second) to
// Mbps.
func parseCurlSpeed(out string) (*measurement.Sample, error) {
	trimmed := strings.TrimSpace(out)
	// Some curl builds format the rate with a locale decimal comma.
	trimmed = strings.ReplaceAll(trimmed, ",", ".")

	bytesPerSec, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, fmt.Errorf("unexpected curl speed output %q: %w", out, err)
	}
	if bytesPerSec < 0 {
		return nil, fmt.Errorf("negative curl speed %q", out)
	}

	mbps := bytesPerSec * 8 / 1024 / 1024
	return &measurement.Sample{DownloadMbps: measurement.Float(mbps)}, nil
}
