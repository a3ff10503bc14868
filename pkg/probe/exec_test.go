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
	"testing"
	"time"
)

func TestRunCommandCapturesOutput(t *testing.T) {
	t.Parallel()

	res := runCommand(context.Background(), "sh", "-c", "echo out; echo err >&2")
	if res.SpawnErr != nil {
		t.Fatalf("SpawnErr = %v", res.SpawnErr)
	}
	if res.ExitCode != 0 || res.TimedOut {
		t.Fatalf("exit=%d timedOut=%v, want clean exit", res.ExitCode, res.TimedOut)
	}
	if res.Stdout != "out\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "out\n")
	}
	if res.Stderr != "err\n" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "err\n")
	}
}

func TestRunCommandExitCode(t *testing.T) {
	t.Parallel()

	res := runCommand(context.Background(), "sh", "-c", "exit 3")
	if res.SpawnErr != nil {
		t.Fatalf("SpawnErr = %v", res.SpawnErr)
	}
	if res.TimedOut {
		t.Fatal("TimedOut = true for a plain non-zero exit")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestRunCommandTimeoutKillsProcessGroup(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// The backgrounded child inherits stdout; without a group kill it would
	// keep the pipe open and stall the wait long after the deadline.
	start := time.Now()
	res := runCommand(ctx, "sh", "-c", "sleep 30 & exec sleep 30")
	elapsed := time.Since(start)

	if !res.TimedOut {
		t.Fatalf("TimedOut = false, res = %+v", res)
	}
	if elapsed > 5*time.Second {
		t.Errorf("runCommand took %v after a 200ms deadline; group kill not effective", elapsed)
	}
}

func TestRunCommandSpawnError(t *testing.T) {
	t.Parallel()

	res := runCommand(context.Background(), "/nonexistent/netpulse-no-such-binary")
	if res.SpawnErr == nil {
		t.Fatalf("SpawnErr = nil, res = %+v", res)
	}
	if res.TimedOut {
		t.Error("TimedOut = true for a spawn failure")
	}
}
