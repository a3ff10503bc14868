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

package render

import (
	"sort"
	"time"

	"github.com/netpulse/netpulse/pkg/measurement"
)

// point is one time-stamped value on the chart.
type point struct {
	t time.Time
	v float64
}

// seriesSet holds chart-ready data derived from a history window: raw
// per-tool download and upload samples, plus the per-batch cross-tool
// means the average lines are drawn from.
type seriesSet struct {
	downloads map[measurement.Tool][]point
	uploads   map[measurement.Tool][]point
	meanDown  []point
	meanUp    []point
}

// buildSeries groups successful samples by tool and by batch. Failed rows
// carry no metrics and are excluded. Records are expected in ascending
// timestamp order, as the store returns them.
func buildSeries(records []measurement.Record) *seriesSet {
	set := &seriesSet{
		downloads: make(map[measurement.Tool][]point),
		uploads:   make(map[measurement.Tool][]point),
	}

	type batchAcc struct {
		start   time.Time
		downSum float64
		downN   int
		upSum   float64
		upN     int
	}
	batches := make(map[string]*batchAcc)
	order := make([]string, 0)

	for _, rec := range records {
		if rec.Status != measurement.StatusSuccess {
			continue
		}

		// Rows written outside a batch fall back to their own timestamp
		// as the grouping key.
		key := rec.BatchID
		if key == "" {
			key = rec.Timestamp.UTC().Format(time.RFC3339)
		}
		acc, ok := batches[key]
		if !ok {
			acc = &batchAcc{start: rec.Timestamp}
			batches[key] = acc
			order = append(order, key)
		}
		if rec.Timestamp.Before(acc.start) {
			acc.start = rec.Timestamp
		}

		if rec.Sample.DownloadMbps != nil {
			v := *rec.Sample.DownloadMbps
			set.downloads[rec.Tool] = append(set.downloads[rec.Tool], point{t: rec.Timestamp, v: v})
			acc.downSum += v
			acc.downN++
		}
		if rec.Sample.UploadMbps != nil {
			v := *rec.Sample.UploadMbps
			set.uploads[rec.Tool] = append(set.uploads[rec.Tool], point{t: rec.Timestamp, v: v})
			acc.upSum += v
			acc.upN++
		}
	}

	for _, key := range order {
		acc := batches[key]
		if acc.downN > 0 {
			set.meanDown = append(set.meanDown, point{t: acc.start, v: acc.downSum / float64(acc.downN)})
		}
		if acc.upN > 0 {
			set.meanUp = append(set.meanUp, point{t: acc.start, v: acc.upSum / float64(acc.upN)})
		}
	}
	sort.Slice(set.meanDown, func(i, j int) bool { return set.meanDown[i].t.Before(set.meanDown[j].t) })
	sort.Slice(set.meanUp, func(i, j int) bool { return set.meanUp[i].t.Before(set.meanUp[j].t) })

	return set
}

// rollingAverage replaces each point's value with the mean of all points
// inside the trailing window, the point itself included. A point ages out
// once it is a full window older than the current one. Input must be in
// ascending time order.
func rollingAverage(points []point, window time.Duration) []point {
	if window <= 0 {
		out := make([]point, len(points))
		copy(out, points)
		return out
	}

	out := make([]point, len(points))
	start := 0
	for i, p := range points {
		for p.t.Sub(points[start].t) >= window {
			start++
		}
		var sum float64
		for j := start; j <= i; j++ {
			sum += points[j].v
		}
		out[i] = point{t: p.t, v: sum / float64(i-start+1)}
	}
	return out
}
