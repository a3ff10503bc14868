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

// SpeedtestProbe measures via the Ookla speedtest-cli tool in simple mode.
type SpeedtestProbe struct {
	// Path is the binary to execute; DefaultSpeedtestPath when empty.
	Path string
}

// Tool identifies this probe.
func (p *SpeedtestProbe) Tool() measurement.Tool {
	return measurement.ToolSpeedtest
}

// Measure runs speedtest-cli --simple and parses the three metric lines.
func (p *SpeedtestProbe) Measure(ctx context.Context) (*measurement.Attempt, error) {
	started := time.Now().UTC()
	res := runCommand(ctx, orDefault(p.Path, DefaultSpeedtestPath), "--simple")

	a := attemptFromExec(p.Tool(), started, res)
	if a.Status != measurement.StatusSuccess {
		return a, nil
	}

	sample, err := parseSpeedtestOutput(res.Stdout)
	if err != nil {
		return failParse(a), nil
	}
	a.Sample = *sample
	return a, nil
}

// parseSpeedtestOutput reads the --simple format:
//
//	Ping: 23.859 ms
//	Download: 93.37 Mbit/s
//	Upload: 11.89 Mbit/s
//
// Download is required; ping and upload are taken when present.
func parseSpeedtestOutput(out string) (*measurement.Sample, error) {
	var s measurement.Sample
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "Download:":
			s.DownloadMbps = measurement.Float(v)
		case "Upload:":
			s.UploadMbps = measurement.Float(v)
		case "Ping:":
			s.LatencyMS = measurement.Float(v)
		}
	}
	if s.DownloadMbps == nil {
		return nil, fmt.Errorf("no download line in speedtest output")
	}
	return &s, nil
}
