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

// Package probe wraps the external speed-test tools behind a uniform
// measurement interface.
//
// # Core Interface
//
// Each tool adapter implements:
//
//	type Probe interface {
//	    Tool() measurement.Tool
//	    Measure(ctx context.Context) (*measurement.Attempt, error)
//	}
//
// Tool-level failures never surface as Go errors: a timeout, non-zero exit,
// or unparsable output produces an Attempt with StatusFailed and a reason,
// so one broken tool cannot abort a batch.
//
// # Subprocess handling
//
// Every tool runs in its own process group. When the per-tool context
// expires the whole group receives SIGKILL, which also reaps helpers the
// tool may have forked; the wait after the kill is bounded so a wedged
// child cannot hang the run.
//
// # Factory Pattern
//
// The Factory interface enables dependency injection for testing:
//
//	type Factory interface {
//	    CreateSpeedtestProbe() Probe
//	    CreateFastProbe() Probe
//	    CreateNDT7Probe() Probe
//	    CreateDownloadProbe() Probe
//	}
//
// DefaultFactory executes the real binaries; tests substitute scripted
// stand-ins.
package probe
