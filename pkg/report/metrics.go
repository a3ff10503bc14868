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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netpulse_report_publishes_total",
			Help: "Publish decisions by outcome",
		},
		[]string{"outcome"}, // published, no_new_data, min_interval, publish_failed
	)

	renderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netpulse_report_render_duration_seconds",
			Help:    "Time taken to render the chart",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
	)

	publishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netpulse_report_publish_duration_seconds",
			Help:    "Time taken to upload and post the chart",
			Buckets: []float64{0.5, 1, 2, 5, 15, 30, 90},
		},
	)
)
