/*
Copyright © 2026 The netpulse authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/netpulse/netpulse/pkg/config"
	"github.com/netpulse/netpulse/pkg/social"
)

func setupCmd() *cli.Command {
	return &cli.Command{
		Name:                  "setup",
		EnableShellCompletion: true,
		Usage:                 "Authorize the posting account (interactive)",
		Description: `Walk the PIN-based OAuth authorization that connects netpulse to the
posting account. This is the only interactive command; everything else
is safe to run unattended.

The flow:
  1. Register an application with the social provider and paste its
     consumer key pair into the configuration file.
  2. Run "netpulse setup". It prints an authorization URL.
  3. Open the URL, approve access, and type the displayed PIN back in.
  4. The access tokens are saved and the configuration is completed.

# Examples

First-time authorization:
  netpulse setup

Replace existing tokens (for example after revoking access):
  netpulse setup --force`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Re-authorize even when access tokens are already present",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			path, err := resolveConfigPath(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.Load(path)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			state := config.StateOf(cfg)
			fmt.Printf("Configuration: %s (state: %s)\n", path, state)

			switch state {
			case config.StateNoConfig:
				// Write the skeleton if needed; the resulting pending
				// error explains where to paste the consumer keys.
				if _, err := config.Ensure(path); err != nil {
					return err
				}
				return nil
			case config.StateTokensPresent:
				// Tokens exist but the paths were never assigned; finish
				// the bootstrap without another OAuth round trip.
				if !cmd.Bool("force") {
					if _, err := config.Ensure(path); err != nil {
						return err
					}
					fmt.Println("Tokens already present; configuration completed.")
					return nil
				}
			case config.StateComplete:
				if !cmd.Bool("force") {
					fmt.Println("Account already authorized. Re-run with --force to replace the tokens.")
					return nil
				}
			}

			token, secret, err := authorize(cfg)
			if err != nil {
				return err
			}

			cfg.AccessToken = token
			cfg.AccessTokenSecret = secret
			if err := config.Save(path, cfg); err != nil {
				return err
			}

			// Drive the remaining bootstrap transition so the local
			// paths are defaulted and persisted alongside the tokens.
			if _, err := config.Ensure(path); err != nil {
				return err
			}

			fmt.Printf("\nAuthorization complete. %s is ready; schedule \"netpulse run\" to start measuring.\n", path)
			return nil
		},
	}
}

// authorize walks the PIN exchange on the terminal and returns the
// permanent access token pair.
func authorize(cfg *config.Config) (token, secret string, err error) {
	auth := social.NewAuthorizer(cfg.ConsumerKey, cfg.ConsumerSecret)

	grant, err := auth.Start()
	if err != nil {
		return "", "", fmt.Errorf("failed to start authorization: %w", err)
	}

	fmt.Printf("\nOpen this URL in a browser and authorize the application:\n\n  %s\n\n", grant.AuthorizeURL)

	verifier, err := readVerifier(os.Stdin, os.Stdout)
	if err != nil {
		return "", "", err
	}

	return auth.Exchange(grant, verifier)
}

// readVerifier prompts for the PIN the provider displays after approval.
func readVerifier(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter the PIN shown after authorizing: ")

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read verifier: %w", err)
		}
		return "", fmt.Errorf("no verifier entered")
	}

	verifier := strings.TrimSpace(scanner.Text())
	if verifier == "" {
		return "", fmt.Errorf("no verifier entered")
	}
	return verifier, nil
}
