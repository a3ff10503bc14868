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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/netpulse/netpulse/pkg/defaults"
)

// execResult captures one finished tool invocation.
type execResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	SpawnErr error
	Duration time.Duration
}

// runCommand executes one external tool bounded by ctx. The child is given
// its own process group so that cancellation kills the tool together with
// anything it spawned, not just the direct child.
func runCommand(ctx context.Context, name string, args ...string) *execResult {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// The kill syscall interprets a negated pid as the whole process group.
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
	cmd.WaitDelay = defaults.ToolKillDelay

	started := time.Now()
	err := cmd.Run()
	res := &execResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(started),
	}

	switch {
	case err == nil:
	case ctx.Err() != nil:
		res.TimedOut = true
		res.ExitCode = -1
	default:
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			res.ExitCode = ee.ExitCode()
		} else {
			res.SpawnErr = err
		}
	}

	if res.SpawnErr != nil || res.TimedOut || res.ExitCode != 0 {
		slog.Debug("tool invocation did not succeed",
			"name", name,
			"exit_code", res.ExitCode,
			"timed_out", res.TimedOut,
			"spawn_error", res.SpawnErr,
			"stderr", truncateOutput(res.Stderr))
	}
	return res
}

// truncateOutput bounds captured output for log lines.
func truncateOutput(s string) string {
	const max = 512
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
