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
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/netpulse/netpulse/pkg/measurement"
)

// summaryText builds the post caption from the window's medians.
func summaryText(records []measurement.Record) string {
	down, up := medians(records)
	return fmt.Sprintf("Median speed: %.1f Mbps down / %.1f Mbps up", down, up)
}

// medians computes the median download and upload throughput over all
// successful samples in the window. Zero readings are excluded; a
// degenerate zero is a measurement artifact, not a speed. An empty input
// for either direction yields 0 for that direction.
func medians(records []measurement.Record) (down, up float64) {
	var downs, ups []float64
	for _, rec := range records {
		if rec.Status != measurement.StatusSuccess {
			continue
		}
		if v := rec.Sample.DownloadMbps; v != nil && *v > 0 {
			downs = append(downs, *v)
		}
		if v := rec.Sample.UploadMbps; v != nil && *v > 0 {
			ups = append(ups, *v)
		}
	}

	if len(downs) > 0 {
		if m, err := stats.Median(downs); err == nil {
			down = m
		}
	}
	if len(ups) > 0 {
		if m, err := stats.Median(ups); err == nil {
			up = m
		}
	}
	return down, up
}
