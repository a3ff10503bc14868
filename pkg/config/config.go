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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/netpulse/netpulse/pkg/defaults"
	apperrors "github.com/netpulse/netpulse/pkg/errors"
	"github.com/netpulse/netpulse/pkg/measurement"
	"gopkg.in/yaml.v3"
)

// State classifies a configuration file by how far bootstrap has progressed.
// It is a pure function of file contents, never of process state.
type State string

const (
	// StateNoConfig means no file exists or the credential fields are empty.
	StateNoConfig State = "no_config"

	// StateKeysPresent means the application key pair is filled in but the
	// account has not been authorized yet.
	StateKeysPresent State = "keys_present"

	// StateTokensPresent means all four credentials are present but the
	// local paths have not been assigned.
	StateTokensPresent State = "tokens_present"

	// StateComplete means the configuration is ready for unattended runs.
	StateComplete State = "complete"
)

// DefaultFileName is the configuration file name under the netpulse home.
const DefaultFileName = "config.yaml"

// Config is the persisted configuration record. Unknown fields in the file
// are preserved-by-ignore so older binaries tolerate newer files.
type Config struct {
	// ConsumerKey and ConsumerSecret identify the registered application.
	ConsumerKey    string `yaml:"consumer_key" json:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret" json:"consumer_secret"`

	// AccessToken and AccessTokenSecret authorize the posting account.
	AccessToken       string `yaml:"access_token" json:"access_token"`
	AccessTokenSecret string `yaml:"access_token_secret" json:"access_token_secret"`

	// DatabasePath locates the SQLite measurement history.
	DatabasePath string `yaml:"database_path" json:"database_path"`

	// ChartPath is where rendered charts are written.
	ChartPath string `yaml:"chart_path" json:"chart_path"`

	// Tools restricts which probes run. Empty means all known tools.
	Tools []string `yaml:"tools,omitempty" json:"tools,omitempty"`

	// ToolTimeout bounds each probe subprocess.
	ToolTimeout time.Duration `yaml:"tool_timeout,omitempty" json:"tool_timeout,omitempty"`

	// NDTMinInterval is the minimum spacing between NDT7 runs.
	NDTMinInterval time.Duration `yaml:"ndt_min_interval,omitempty" json:"ndt_min_interval,omitempty"`

	// ReportWindow is the history span rendered into charts.
	ReportWindow time.Duration `yaml:"report_window,omitempty" json:"report_window,omitempty"`

	// PublishMinInterval is the minimum spacing between published posts.
	PublishMinInterval time.Duration `yaml:"publish_min_interval,omitempty" json:"publish_min_interval,omitempty"`

	// DownloadProbeURL overrides the URL fetched by the download probe.
	DownloadProbeURL string `yaml:"download_probe_url,omitempty" json:"download_probe_url,omitempty"`
}

// skeleton is the file written on first bootstrap. It parses back to a
// Config in StateNoConfig.
const skeleton = `# netpulse configuration.
#
# Register an application with your social provider, paste the consumer
# key pair below, then run "netpulse setup" to authorize the posting
# account. Everything else is filled in automatically.
consumer_key: ""
consumer_secret: ""
access_token: ""
access_token_secret: ""
database_path: ""
chart_path: ""
`

// DefaultPath returns the per-user configuration file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".netpulse", DefaultFileName), nil
}

// StateOf classifies cfg. A nil Config is StateNoConfig.
func StateOf(cfg *Config) State {
	switch {
	case cfg == nil || !cfg.hasKeys():
		return StateNoConfig
	case !cfg.hasTokens():
		return StateKeysPresent
	case cfg.DatabasePath == "":
		return StateTokensPresent
	default:
		return StateComplete
	}
}

func (c *Config) hasKeys() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != ""
}

func (c *Config) hasTokens() bool {
	return c.AccessToken != "" && c.AccessTokenSecret != ""
}

// Validate checks that the configuration supports unattended runs.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if state := StateOf(c); state != StateComplete {
		return fmt.Errorf("config is not complete (state: %s)", state)
	}
	if _, err := c.EnabledTools(); err != nil {
		return err
	}
	return nil
}

// EnabledTools returns the probes this configuration enables, in canonical
// execution order. An empty Tools list enables every known tool.
func (c *Config) EnabledTools() ([]measurement.Tool, error) {
	if c == nil || len(c.Tools) == 0 {
		return measurement.Tools(), nil
	}
	enabled := make(map[measurement.Tool]bool, len(c.Tools))
	for _, name := range c.Tools {
		tool, err := measurement.ParseTool(name)
		if err != nil {
			return nil, fmt.Errorf("invalid tools entry: %w", err)
		}
		enabled[tool] = true
	}
	ordered := make([]measurement.Tool, 0, len(enabled))
	for _, tool := range measurement.Tools() {
		if enabled[tool] {
			ordered = append(ordered, tool)
		}
	}
	return ordered, nil
}

// Normalize fills unset paths and tuning fields with defaults. Tuning
// defaults are applied in memory only; nothing here writes the file.
func (c *Config) Normalize(path string) {
	c.defaultPaths(path)
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = defaults.ToolTimeout
	}
	if c.NDTMinInterval <= 0 {
		c.NDTMinInterval = defaults.NDTMinInterval
	}
	if c.ReportWindow <= 0 {
		c.ReportWindow = defaults.ReportWindow
	}
	if c.PublishMinInterval <= 0 {
		c.PublishMinInterval = defaults.PublishMinInterval
	}
}

// defaultPaths assigns the local paths relative to the configuration file's
// directory, so the whole installation lives under one directory.
func (c *Config) defaultPaths(path string) {
	dir := filepath.Dir(path)
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(dir, "netpulse.db")
	}
	if c.ChartPath == "" {
		c.ChartPath = filepath.Join(dir, "chart.png")
	}
}

// Load reads and parses the configuration file at path. A missing file is
// reported with an error satisfying errors.Is(err, fs.ErrNotExist); any
// other failure is CONFIG_CORRUPT and fatal.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s: %w", path, fs.ErrNotExist)
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfigCorrupt,
			"configuration file exists but cannot be read", err,
			map[string]any{"path": path})
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfigCorrupt,
			"configuration file is not valid YAML; fix or remove it manually", err,
			map[string]any{"path": path})
	}
	return &cfg, nil
}

// Save persists cfg to path atomically: the content is written to a
// temporary file in the target directory and renamed into place, so readers
// never observe a partial file.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeFileAtomic(path, data)
}

// Ensure drives the bootstrap state machine for the file at path. It is
// idempotent: a Complete configuration is returned without touching the
// file, and pending states return a CONFIG_PENDING error whose message
// tells the operator what to do next.
func Ensure(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if werr := writeFileAtomic(path, []byte(skeleton)); werr != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal,
				"failed to write configuration skeleton", werr)
		}
		return nil, pending(StateNoConfig, path,
			"configuration skeleton written; fill in consumer_key and consumer_secret from your app registration")
	}

	switch state := StateOf(cfg); state {
	case StateNoConfig:
		return nil, pending(state, path,
			"configuration has no credentials; fill in consumer_key and consumer_secret from your app registration")

	case StateKeysPresent:
		return nil, pending(state, path,
			"application keys found but account not authorized; run \"netpulse setup\" to obtain access tokens")

	case StateTokensPresent:
		cfg.defaultPaths(path)
		if err := Save(path, cfg); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal,
				"failed to persist defaulted paths", err)
		}
		cfg.Normalize(path)
		return cfg, nil

	default:
		cfg.Normalize(path)
		return cfg, nil
	}
}

func pending(state State, path, message string) error {
	return apperrors.NewWithContext(apperrors.ErrCodeConfigPending, message,
		map[string]any{
			"state": string(state),
			"path":  path,
		})
}

func writeFileAtomic(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp config: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp config into place: %w", err)
	}
	return nil
}
