/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/netpulse/netpulse/pkg/config"
	"github.com/netpulse/netpulse/pkg/defaults"
	"github.com/netpulse/netpulse/pkg/measurement"
	"github.com/netpulse/netpulse/pkg/probe"
	"github.com/netpulse/netpulse/pkg/serializer"
	"github.com/netpulse/netpulse/pkg/store"
)

// Check statuses. A warn degrades a run (a tool will be recorded as
// failed, a post will be skipped); a fail means runs cannot work at all.
const (
	checkOK   = "ok"
	checkWarn = "warn"
	checkFail = "fail"
)

// doctorCheck is one environment probe result.
type doctorCheck struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// doctorReport aggregates all checks.
type doctorReport struct {
	Healthy bool          `json:"healthy" yaml:"healthy"`
	Checks  []doctorCheck `json:"checks" yaml:"checks"`
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:                  "doctor",
		EnableShellCompletion: true,
		Usage:                 "Check the environment for scheduled runs",
		Description: `Probe everything an unattended run depends on and report each check:
  - the external measurement binaries resolve on PATH
  - the configuration file parses and the bootstrap is complete
  - the measurement store opens and reports its record counts
  - the systemd units that drive scheduled runs are installed
  - posting credentials are present

Checks run in parallel and each degrades gracefully: a host without
systemd gets a warning, not a failure. The command exits non-zero only
when a check fails outright (for example a corrupt configuration).

# Examples

Human-readable report:
  netpulse doctor --format table

Machine-readable, for a monitoring hook:
  netpulse doctor --format json`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			path, err := resolveConfigPath(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, defaults.DoctorCheckTimeout)
			defer cancel()

			var (
				mu     sync.Mutex
				checks []doctorCheck
			)
			add := func(cs ...doctorCheck) {
				mu.Lock()
				defer mu.Unlock()
				checks = append(checks, cs...)
			}

			// The config check runs first; the store and credential
			// checks interpret its result.
			cfg, cfgCheck := configCheck(path)
			add(cfgCheck)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				add(binaryChecks()...)
				return nil
			})
			g.Go(func() error {
				add(credentialCheck(cfg))
				return nil
			})
			g.Go(func() error {
				add(storeCheck(gctx, cfg))
				return nil
			})
			g.Go(func() error {
				add(schedulerCheck(gctx))
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			sort.Slice(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })

			rep := doctorReport{Healthy: true, Checks: checks}
			failed := 0
			for _, c := range checks {
				if c.Status == checkFail {
					rep.Healthy = false
					failed++
				}
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)
			if err := ser.Serialize(ctx, rep); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}

// binaryChecks verifies each measurement binary resolves on PATH. A
// missing binary is a warning: that tool's attempts will be recorded as
// failed, the rest of the batch still runs.
func binaryChecks() []doctorCheck {
	binaries := probe.NewDefaultFactory().Binaries()

	checks := make([]doctorCheck, 0, len(binaries))
	for _, tool := range measurement.Tools() {
		bin, ok := binaries[tool]
		if !ok {
			continue
		}

		c := doctorCheck{Name: "binary:" + string(tool)}
		if resolved, err := lookPath(bin); err != nil {
			c.Status = checkWarn
			c.Detail = fmt.Sprintf("%s not found on PATH; %s attempts will fail", bin, tool.DisplayName())
		} else {
			c.Status = checkOK
			c.Detail = resolved
		}
		checks = append(checks, c)
	}
	return checks
}

// configCheck classifies the configuration file without modifying it.
// The returned Config is nil when the file is missing or unreadable.
func configCheck(path string) (*config.Config, doctorCheck) {
	c := doctorCheck{Name: "config"}

	cfg, err := config.Load(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		c.Status = checkWarn
		c.Detail = fmt.Sprintf("%s does not exist; run \"netpulse run\" once to create the skeleton", path)
		return nil, c
	default:
		c.Status = checkFail
		c.Detail = err.Error()
		return nil, c
	}

	if state := config.StateOf(cfg); state != config.StateComplete {
		c.Status = checkWarn
		c.Detail = fmt.Sprintf("bootstrap incomplete (state: %s)", state)
		return cfg, c
	}

	cfg.Normalize(path)
	c.Status = checkOK
	c.Detail = fmt.Sprintf("complete (%s)", path)
	return cfg, c
}

// credentialCheck reports whether the posting credentials are in place.
func credentialCheck(cfg *config.Config) doctorCheck {
	c := doctorCheck{Name: "credentials"}

	switch config.StateOf(cfg) {
	case config.StateComplete, config.StateTokensPresent:
		c.Status = checkOK
		c.Detail = "consumer keys and access tokens present"
	case config.StateKeysPresent:
		c.Status = checkWarn
		c.Detail = "consumer keys present but account not authorized; run \"netpulse setup\""
	default:
		c.Status = checkWarn
		c.Detail = "no credentials configured"
	}
	return c
}

// storeCheck opens the history database and reports its contents.
func storeCheck(ctx context.Context, cfg *config.Config) doctorCheck {
	c := doctorCheck{Name: "store"}

	if cfg == nil || cfg.DatabasePath == "" {
		c.Status = checkWarn
		c.Detail = "no database path configured yet"
		return c
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		c.Status = checkFail
		c.Detail = err.Error()
		return c
	}
	defer st.Close()

	stats, err := st.Stats(ctx)
	if err != nil {
		c.Status = checkFail
		c.Detail = err.Error()
		return c
	}

	c.Status = checkOK
	c.Detail = fmt.Sprintf("%d records (%d failed)", stats.Total, stats.Failed)
	if !stats.Newest.IsZero() {
		c.Detail += fmt.Sprintf(", newest %s", stats.Newest.Format(time.RFC3339))
	}
	return c
}

// schedulerCheck reports whether the systemd units that drive scheduled
// runs are installed and active. Hosts without systemd warn rather than
// fail: cron and manual runs are legitimate setups.
func schedulerCheck(ctx context.Context) doctorCheck {
	c := doctorCheck{Name: "scheduler"}

	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		c.Status = checkWarn
		c.Detail = fmt.Sprintf("systemd unavailable: %v", err)
		return c
	}
	defer conn.Close()

	units, err := conn.ListUnitsByPatternsContext(ctx, nil, []string{"netpulse.timer", "netpulse.service"})
	if err != nil {
		c.Status = checkWarn
		c.Detail = fmt.Sprintf("failed to list units: %v", err)
		return c
	}
	if len(units) == 0 {
		c.Status = checkWarn
		c.Detail = "netpulse.timer not installed; schedule \"netpulse run\" with a timer or cron"
		return c
	}

	parts := make([]string, 0, len(units))
	for _, u := range units {
		parts = append(parts, fmt.Sprintf("%s %s(%s)", u.Name, u.ActiveState, u.SubState))
	}
	c.Status = checkOK
	c.Detail = strings.Join(parts, ", ")
	return c
}
