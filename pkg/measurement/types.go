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

package measurement

import (
	"fmt"
	"strings"
	"time"
)

// Tool identifies one of the external measurement programs.
type Tool string

const (
	// ToolSpeedtest is the Ookla speedtest-cli probe.
	ToolSpeedtest Tool = "speedtest"

	// ToolFastCom is the Netflix fast-cli probe.
	ToolFastCom Tool = "fastcom"

	// ToolNDT7 is the M-Lab ndt7-client probe.
	ToolNDT7 Tool = "ndt7"

	// ToolChromeDL is the large-file download probe, timing a fetch of the
	// Chrome package over plain HTTP.
	ToolChromeDL Tool = "chromedl"
)

// Tools returns all known tools in canonical execution order.
func Tools() []Tool {
	return []Tool{ToolSpeedtest, ToolFastCom, ToolNDT7, ToolChromeDL}
}

// DisplayName returns the human-facing name used in chart legends and
// summaries.
func (t Tool) DisplayName() string {
	switch t {
	case ToolFastCom:
		return "fast.com"
	case ToolChromeDL:
		return "chrome dl"
	default:
		return string(t)
	}
}

// ParseTool converts a string to a Tool, case-insensitively.
func ParseTool(s string) (Tool, error) {
	switch Tool(strings.ToLower(strings.TrimSpace(s))) {
	case ToolSpeedtest:
		return ToolSpeedtest, nil
	case ToolFastCom:
		return ToolFastCom, nil
	case ToolNDT7:
		return ToolNDT7, nil
	case ToolChromeDL:
		return ToolChromeDL, nil
	default:
		return "", fmt.Errorf("unknown tool: %q (supported: %s)", s, joinTools())
	}
}

func joinTools() string {
	all := Tools()
	names := make([]string, 0, len(all))
	for _, t := range all {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// Status classifies the outcome of one probe attempt.
type Status string

const (
	// StatusSuccess means the tool ran and its output parsed cleanly.
	StatusSuccess Status = "success"

	// StatusFailed means the tool timed out, exited non-zero, or produced
	// output that could not be parsed.
	StatusFailed Status = "failed"

	// StatusSkipped means the probe was not run at all, for example when a
	// recent result makes another run unnecessary.
	StatusSkipped Status = "skipped"
)

// Failure reasons recorded on failed and skipped attempts.
const (
	// ReasonTimeout marks attempts cancelled by the per-tool deadline.
	ReasonTimeout = "timeout"

	// ReasonExitStatus marks attempts whose process exited non-zero.
	ReasonExitStatus = "exit_status"

	// ReasonParse marks attempts whose output could not be interpreted.
	ReasonParse = "parse"

	// ReasonSpawn marks attempts whose process could not be started.
	ReasonSpawn = "spawn"

	// ReasonRateLimit marks skipped attempts held back by probe cadence
	// policy rather than an error.
	ReasonRateLimit = "rate_limit"
)

// Sample holds the metrics one probe attempt produced. Fields are pointers
// because tools report different subsets: every successful attempt carries
// download throughput, the rest depend on the tool.
type Sample struct {
	// DownloadMbps is download throughput in megabits per second.
	DownloadMbps *float64 `json:"download_mbps,omitempty" yaml:"download_mbps,omitempty"`

	// UploadMbps is upload throughput in megabits per second.
	UploadMbps *float64 `json:"upload_mbps,omitempty" yaml:"upload_mbps,omitempty"`

	// LatencyMS is round-trip latency in milliseconds.
	LatencyMS *float64 `json:"latency_ms,omitempty" yaml:"latency_ms,omitempty"`

	// RetransPct is the download retransmission percentage, reported only
	// by ndt7.
	RetransPct *float64 `json:"retrans_pct,omitempty" yaml:"retrans_pct,omitempty"`
}

// Float returns a pointer to v, for building Sample literals.
func Float(v float64) *float64 {
	return &v
}

// Attempt is the outcome of invoking one tool once.
type Attempt struct {
	// Tool is the probe that produced this attempt.
	Tool Tool `json:"tool" yaml:"tool"`

	// Status is the attempt outcome.
	Status Status `json:"status" yaml:"status"`

	// Sample holds the parsed metrics. Empty unless Status is success.
	Sample Sample `json:"sample,omitempty" yaml:"sample,omitempty"`

	// ExitCode is the process exit code. Zero on success and on attempts
	// that never spawned.
	ExitCode int `json:"exit_code,omitempty" yaml:"exit_code,omitempty"`

	// Reason names why a failed or skipped attempt did not succeed.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Started is when the tool was launched, UTC.
	Started time.Time `json:"started" yaml:"started"`

	// Duration is how long the tool ran.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Record is one attempt as persisted in the store, keyed by its
// second-resolution timestamp.
type Record struct {
	// Timestamp is the record key, truncated to whole seconds, UTC.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// BatchID groups records captured by the same run.
	BatchID string `json:"batch_id" yaml:"batch_id"`

	// Tool is the probe that produced this record.
	Tool Tool `json:"tool" yaml:"tool"`

	// Status is the attempt outcome.
	Status Status `json:"status" yaml:"status"`

	// Sample holds the parsed metrics for successful attempts.
	Sample Sample `json:"sample,omitempty" yaml:"sample,omitempty"`

	// ExitCode is the process exit code for failed attempts.
	ExitCode int `json:"exit_code,omitempty" yaml:"exit_code,omitempty"`

	// Reason names why a failed attempt did not succeed.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Validate checks that the record is internally consistent.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("nil record")
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("record timestamp is zero")
	}
	if _, err := ParseTool(string(r.Tool)); err != nil {
		return err
	}
	switch r.Status {
	case StatusSuccess:
		if r.Sample.DownloadMbps == nil {
			return fmt.Errorf("successful record missing download throughput")
		}
	case StatusFailed:
		if r.Reason == "" {
			return fmt.Errorf("failed record missing reason")
		}
	default:
		return fmt.Errorf("unexpected record status: %q", r.Status)
	}
	return nil
}

// Batch is the result of one sequential run across all tools.
type Batch struct {
	// ID is the batch identifier shared by all records of the run.
	ID string `json:"id" yaml:"id"`

	// Started is when the run began, UTC.
	Started time.Time `json:"started" yaml:"started"`

	// Attempts holds one entry per tool, in execution order.
	Attempts []Attempt `json:"attempts" yaml:"attempts"`
}

// Succeeded returns the number of successful attempts in the batch.
func (b *Batch) Succeeded() int {
	return b.countStatus(StatusSuccess)
}

// Failed returns the number of failed attempts in the batch.
func (b *Batch) Failed() int {
	return b.countStatus(StatusFailed)
}

// Skipped returns the number of skipped attempts in the batch.
func (b *Batch) Skipped() int {
	return b.countStatus(StatusSkipped)
}

func (b *Batch) countStatus(s Status) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, a := range b.Attempts {
		if a.Status == s {
			n++
		}
	}
	return n
}
