/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
)

func TestSinceFromCmd(t *testing.T) {
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		args      []string
		want      time.Time
		wantError bool
	}{
		{
			name: "window fallback",
			args: []string{"cmd"},
			want: now.Add(-24 * time.Hour),
		},
		{
			name: "explicit window",
			args: []string{"cmd", "--window", "6h"},
			want: now.Add(-6 * time.Hour),
		},
		{
			name: "rfc3339 since",
			args: []string{"cmd", "--since", "2026-08-20T06:30:00Z"},
			want: time.Date(2026, 8, 20, 6, 30, 0, 0, time.UTC),
		},
		{
			name: "date-only since",
			args: []string{"cmd", "--since", "2026-08-19"},
			want: time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "since wins over window",
			args: []string{"cmd", "--since", "2026-08-19", "--window", "1h"},
			want: time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "garbage since",
			args:      []string{"cmd", "--since", "yesterday"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "since"},
					&cli.DurationFlag{Name: "window", Value: 24 * time.Hour},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := sinceFromCmd(c, now)
					if (err != nil) != tt.wantError {
						t.Errorf("sinceFromCmd() error = %v, wantError %v", err, tt.wantError)
						return nil
					}
					if !tt.wantError && !got.Equal(tt.want) {
						t.Errorf("sinceFromCmd() = %v, want %v", got, tt.want)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestHistoryCmd_CommandStructure(t *testing.T) {
	cmd := historyCmd()

	if cmd.Name != "history" {
		t.Errorf("Name = %v, want history", cmd.Name)
	}
	if cmd.Usage == "" {
		t.Error("Usage should not be empty")
	}

	requiredFlags := []string{"since", "window", "output", "format"}
	for _, flagName := range requiredFlags {
		found := false
		for _, flag := range cmd.Flags {
			if hasName(flag, flagName) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("required flag %q not found", flagName)
		}
	}

	if cmd.Action == nil {
		t.Error("Action should not be nil")
	}
}
