/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"strings"
	"testing"
)

func TestPruneCmd_CommandStructure(t *testing.T) {
	cmd := pruneCmd()

	if cmd.Name != "prune" {
		t.Errorf("Name = %v, want prune", cmd.Name)
	}
	if cmd.Usage == "" {
		t.Error("Usage should not be empty")
	}

	requiredFlags := []string{"keep", "output", "format"}
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

func TestPruneCmd_RejectsNonPositiveKeep(t *testing.T) {
	cmd := pruneCmd()

	err := cmd.Run(context.Background(), []string{"prune", "--keep", "0s"})
	if err == nil {
		t.Fatal("expected an error for --keep 0s")
	}
	if !strings.Contains(err.Error(), "must be positive") {
		t.Errorf("error = %v, want must be positive", err)
	}
}
