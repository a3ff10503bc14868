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
	"time"

	"github.com/netpulse/netpulse/pkg/measurement"
)

// Probe measures the connection once using one external tool. Tool-level
// failures (timeout, bad exit, unparsable output) are reported inside the
// returned Attempt, never as the error value.
type Probe interface {
	Tool() measurement.Tool
	Measure(ctx context.Context) (*measurement.Attempt, error)
}

// Default binary names, resolved via PATH.
const (
	DefaultSpeedtestPath = "speedtest-cli"
	DefaultFastPath      = "fast-cli"
	DefaultNDT7Path      = "ndt7-client"
	DefaultCurlPath      = "curl"

	// DefaultDownloadURL is a large, well-mirrored file whose fetch time
	// approximates real-world download throughput.
	DefaultDownloadURL = "https://dl.google.com/linux/direct/google-chrome-stable_current_amd64.deb"
)

// Factory creates probes with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateSpeedtestProbe() Probe
	CreateFastProbe() Probe
	CreateNDT7Probe() Probe
	CreateDownloadProbe() Probe
}

// DefaultFactory creates probes that execute the real tools.
type DefaultFactory struct {
	SpeedtestPath string
	FastPath      string
	NDT7Path      string
	CurlPath      string
	DownloadURL   string
}

// NewDefaultFactory creates a factory with default binary names.
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{
		SpeedtestPath: DefaultSpeedtestPath,
		FastPath:      DefaultFastPath,
		NDT7Path:      DefaultNDT7Path,
		CurlPath:      DefaultCurlPath,
		DownloadURL:   DefaultDownloadURL,
	}
}

// CreateSpeedtestProbe creates the Ookla speedtest probe.
func (f *DefaultFactory) CreateSpeedtestProbe() Probe {
	return &SpeedtestProbe{Path: f.SpeedtestPath}
}

// CreateFastProbe creates the fast.com probe.
func (f *DefaultFactory) CreateFastProbe() Probe {
	return &FastProbe{Path: f.FastPath}
}

// CreateNDT7Probe creates the M-Lab NDT7 probe.
func (f *DefaultFactory) CreateNDT7Probe() Probe {
	return &NDT7Probe{Path: f.NDT7Path}
}

// CreateDownloadProbe creates the large-file download probe.
func (f *DefaultFactory) CreateDownloadProbe() Probe {
	return &DownloadProbe{Path: f.CurlPath, URL: f.DownloadURL}
}

// Binaries maps each tool to the binary the factory would execute, for
// environment checks.
func (f *DefaultFactory) Binaries() map[measurement.Tool]string {
	return map[measurement.Tool]string{
		measurement.ToolSpeedtest: orDefault(f.SpeedtestPath, DefaultSpeedtestPath),
		measurement.ToolFastCom:   orDefault(f.FastPath, DefaultFastPath),
		measurement.ToolNDT7:      orDefault(f.NDT7Path, DefaultNDT7Path),
		measurement.ToolChromeDL:  orDefault(f.CurlPath, DefaultCurlPath),
	}
}

// ProbeFor maps a tool to its probe.
func ProbeFor(f Factory, tool measurement.Tool) (Probe, error) {
	switch tool {
	case measurement.ToolSpeedtest:
		return f.CreateSpeedtestProbe(), nil
	case measurement.ToolFastCom:
		return f.CreateFastProbe(), nil
	case measurement.ToolNDT7:
		return f.CreateNDT7Probe(), nil
	case measurement.ToolChromeDL:
		return f.CreateDownloadProbe(), nil
	default:
		return nil, fmt.Errorf("no probe for tool %q", tool)
	}
}

// attemptFromExec classifies a finished invocation into an Attempt. Output
// parsing happens afterward; a StatusSuccess attempt here only means the
// process ran to completion with exit code zero.
func attemptFromExec(tool measurement.Tool, started time.Time, res *execResult) *measurement.Attempt {
	a := &measurement.Attempt{
		Tool:     tool,
		Status:   measurement.StatusSuccess,
		ExitCode: res.ExitCode,
		Started:  started,
		Duration: res.Duration,
	}
	switch {
	case res.TimedOut:
		a.Status = measurement.StatusFailed
		a.Reason = measurement.ReasonTimeout
	case res.SpawnErr != nil:
		a.Status = measurement.StatusFailed
		a.Reason = measurement.ReasonSpawn
	case res.ExitCode != 0:
		a.Status = measurement.StatusFailed
		a.Reason = measurement.ReasonExitStatus
	}
	return a
}

// failParse downgrades an attempt whose output could not be interpreted.
func failParse(a *measurement.Attempt) *measurement.Attempt {
	a.Status = measurement.StatusFailed
	a.Reason = measurement.ReasonParse
	a.Sample = measurement.Sample{}
	return a
}

func orDefault(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}
