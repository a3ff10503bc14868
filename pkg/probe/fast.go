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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/netpulse/netpulse/pkg/measurement"
)

// FastProbe measures download throughput via the Netflix fast-cli tool.
// fast.com reports download only, so upload and latency stay nil.
type FastProbe struct {
	// Path is the binary to execute; DefaultFastPath when empty.
	Path string
}

// Tool identifies this probe.
func (p *FastProbe) Tool() measurement.Tool {
	return measurement.ToolFastCom
}

// Measure runs fast-cli -s once. The tool occasionally reports "NaN bps"
// under load; that is a parse failure for this attempt, not a retry signal.
func (p *FastProbe) Measure(ctx context.Context) (*measurement.Attempt, error) {
	started := time.Now().UTC()
	res := runCommand(ctx, orDefault(p.Path, DefaultFastPath), "-s")

	a := attemptFromExec(p.Tool(), started, res)
	if a.Status != measurement.StatusSuccess {
		return a, nil
	}

	sample, err := parseFastOutput(res.Stdout)
	if err != nil {
		return failParse(a), nil
	}
	a.Sample = *sample
	return a, nil
}

// parseFastOutput reads output like "85.2 Mbps". The value is scaled by the
// unit token when one is present; a bare number is taken as Mbps.
func parseFastOutput(out string) (*measurement.Sample, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty fast output")
	}

	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("unexpected fast output %q: %w", fields[0], err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil, fmt.Errorf("no usable throughput in fast output (%q)", strings.TrimSpace(out))
	}

	if len(fields) > 1 {
		switch strings.ToLower(fields[1]) {
		case "bps":
			v /= 1e6
		case "kbps":
			v /= 1e3
		case "mbps":
		case "gbps":
			v *= 1e3
		default:
			return nil, fmt.Errorf("unexpected fast unit %q", fields[1])
		}
	}

	return &measurement.Sample{DownloadMbps: measurement.Float(v)}, nil
}
