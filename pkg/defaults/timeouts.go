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

package defaults

import "time"

// Probe timeouts for external measurement tool invocations.
const (
	// ToolTimeout is the default per-tool subprocess timeout. Speed tests
	// legitimately take a minute or more on slow links.
	ToolTimeout = 2 * time.Minute

	// ToolKillDelay is how long to wait after context cancellation before
	// the unresponsive process group is forcibly killed.
	ToolKillDelay = 5 * time.Second

	// RunTimeout bounds one whole sequential batch across all tools.
	RunTimeout = 10 * time.Minute

	// NDTMinInterval is the minimum spacing between NDT7 runs. M-Lab asks
	// clients to keep a modest cadence, so the probe is skipped when a
	// successful result younger than this exists.
	NDTMinInterval = time.Hour
)

// Report cadence and windowing.
const (
	// ReportWindow is the span of history rendered into the chart.
	ReportWindow = 24 * time.Hour

	// ReportRollingWindow is the span of the rolling-average lines.
	ReportRollingWindow = 3 * time.Hour

	// PublishMinInterval is the minimum spacing between published posts.
	PublishMinInterval = 8 * time.Hour

	// PublishTimeout bounds the render-upload-post pipeline.
	PublishTimeout = 90 * time.Second
)

// HTTP client timeouts for outbound requests to the social API.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Store settings for the SQLite record database.
const (
	// StoreBusyTimeout is how long SQLite waits on a locked database before
	// returning SQLITE_BUSY. Covers accidental overlap of scheduler ticks.
	StoreBusyTimeout = 5 * time.Second

	// PruneKeep is the default retention window for the prune command.
	PruneKeep = 30 * 24 * time.Hour
)

// Doctor timeouts for environment checks.
const (
	// DoctorCheckTimeout bounds each individual doctor check.
	DoctorCheckTimeout = 10 * time.Second
)
