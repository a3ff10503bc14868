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
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/netpulse/netpulse/pkg/measurement"
)

// NDT7Probe measures via the M-Lab ndt7-client tool. It is the only probe
// reporting retransmission, and the only one with a cadence policy: the
// runner skips it when a recent successful result exists, out of respect
// for the shared M-Lab infrastructure.
type NDT7Probe struct {
	// Path is the binary to execute; DefaultNDT7Path when empty.
	Path string
}

// Tool identifies this probe.
func (p *NDT7Probe) Tool() measurement.Tool {
	return measurement.ToolNDT7
}

// Measure runs ndt7-client in quiet JSON mode and parses the summary object.
func (p *NDT7Probe) Measure(ctx context.Context) (*measurement.Attempt, error) {
	started := time.Now().UTC()
	res := runCommand(ctx, orDefault(p.Path, DefaultNDT7Path), "-quiet", "-format=json")

	a := attemptFromExec(p.Tool(), started, res)
	if a.Status != measurement.StatusSuccess {
		return a, nil
	}

	sample, err := parseNDT7Output(res.Stdout)
	if err != nil {
		return failParse(a), nil
	}
	a.Sample = *sample
	return a, nil
}

type ndtValue struct {
	Value float64 `json:"Value"`
	Unit  string  `json:"Unit"`
}

type ndtSummary struct {
	Download        *ndtValue `json:"Download"`
	Upload          *ndtValue `json:"Upload"`
	MinRTT          *ndtValue `json:"MinRTT"`
	DownloadRetrans *ndtValue `json:"DownloadRetrans"`
}

// parseNDT7Output reads the -quiet -format=json summary, a single JSON
// object with Download/Upload in Mbit/s, MinRTT in ms and DownloadRetrans
// in percent. All four keys must be present.
func parseNDT7Output(out string) (*measurement.Sample, error) {
	var summary ndtSummary
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &summary); err != nil {
		return nil, fmt.Errorf("unparsable ndt7 summary: %w", err)
	}
	if summary.Download == nil || summary.Upload == nil ||
		summary.MinRTT == nil || summary.DownloadRetrans == nil {
		return nil, fmt.Errorf("incomplete ndt7 summary")
	}
	return &measurement.Sample{
		DownloadMbps: measurement.Float(summary.Download.Value),
		UploadMbps:   measurement.Float(summary.Upload.Value),
		LatencyMS:    measurement.Float(summary.MinRTT.Value),
		RetransPct:   measurement.Float(summary.DownloadRetrans.Value),
	}, nil
}
