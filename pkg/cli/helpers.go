/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/netpulse/netpulse/pkg/config"
	"github.com/netpulse/netpulse/pkg/serializer"
	"github.com/netpulse/netpulse/pkg/store"
)

// Flags shared by the commands that print structured results.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage: fmt.Sprintf("Output format (supported values: %s)",
			strings.Join(serializer.SupportedFormats(), ", ")),
	}
)

// parseOutputFormat reads and validates the --format flag. Without an
// explicit --format, an --output path with a file extension selects the
// format, so "-o history.json" writes JSON with no further flags.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			f, strings.Join(serializer.SupportedFormats(), ", "))
	}
	if !cmd.IsSet("format") {
		if path := strings.TrimSpace(cmd.String("output")); path != "" && filepath.Ext(path) != "" {
			return serializer.FormatFromPath(path), nil
		}
	}
	return f, nil
}

// resolveConfigPath returns the --config flag value when set, otherwise
// the per-user default location.
func resolveConfigPath(cmd *cli.Command) (string, error) {
	if path := cmd.String("config"); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

// ensureConfig resolves the configuration path and drives the bootstrap
// state machine. Pending states come back as CONFIG_PENDING errors that
// the top level reports as guidance, not failure.
func ensureConfig(cmd *cli.Command) (*config.Config, error) {
	path, err := resolveConfigPath(cmd)
	if err != nil {
		return nil, err
	}
	return config.Ensure(path)
}

// openStore opens the measurement history for a loaded configuration.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", cfg.DatabasePath, err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Warn("failed to close store", "error", err)
	}
}

func closeWriter(w *serializer.Writer) {
	if err := w.Close(); err != nil {
		slog.Warn("failed to close serializer", "error", err)
	}
}
