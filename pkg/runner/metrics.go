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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Batch execution metrics
	runBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netpulse_run_batch_duration_seconds",
			Help:    "Time taken to run a complete measurement batch",
			Buckets: []float64{10, 30, 60, 120, 300, 600},
		},
	)

	runBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netpulse_run_batches_total",
			Help: "Total number of measurement batches",
		},
		[]string{"status"}, // complete or canceled
	)

	runAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netpulse_run_attempts_total",
			Help: "Total number of probe attempts",
		},
		[]string{"tool", "status"},
	)

	runToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netpulse_run_tool_duration_seconds",
			Help:    "Time taken by individual probes",
			Buckets: []float64{1, 5, 10, 30, 60, 120},
		},
		[]string{"tool"},
	)

	// Last observed throughput, for textfile export to node_exporter.
	lastDownloadMbps = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netpulse_last_download_mbps",
			Help: "Download throughput of the most recent successful attempt",
		},
		[]string{"tool"},
	)

	lastUploadMbps = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netpulse_last_upload_mbps",
			Help: "Upload throughput of the most recent successful attempt",
		},
		[]string{"tool"},
	)
)
