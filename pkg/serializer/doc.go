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

// Package serializer provides encoding of measurement data in multiple formats.
//
// # Overview
//
// The serializer package converts measurement batches and history records
// into the output formats the CLI exposes: JSON, YAML, and human-readable
// tables. Writers target stdout or a file, with the format inferable from
// the file extension.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, indented representation
//   - Suitable for piping into jq or other tooling
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable with preserved structure
//   - Suitable for configuration-style review and version control
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened FIELD/VALUE columns via text/tabwriter
//   - Suitable for terminal viewing
//   - Write-only (no deserialization support)
//
// # Usage
//
// Write to stdout:
//
//	w := serializer.NewStdoutWriter(serializer.FormatTable)
//	if err := w.Serialize(ctx, batch); err != nil {
//	    return err
//	}
//
// Write to a file, inferring the format from its extension:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatFromPath(path), path)
//	defer w.Close()
//	if err := w.Serialize(ctx, records); err != nil {
//	    return err
//	}
//
// # Format Detection
//
// File extension-based detection:
//   - .json → JSON
//   - .yaml, .yml → YAML
//   - .table, .txt → Table
//   - Other → JSON (default)
//
// # Table Format
//
// Nested structures are flattened into dotted keys and sorted, so a
// measurement attempt renders as:
//
//	FIELD                      VALUE
//	-----                      -----
//	Attempts.[0].Sample.DownloadMbps  92.4
//	Attempts.[0].Status        success
//	Attempts.[0].Tool          speedtest
//
// Timestamps are rendered as RFC 3339 and durations in Go's native
// duration notation.
//
// # Resource Management
//
// Always close writers that may hold a file handle:
//
//	w := serializer.NewFileWriterOrStdout(format, path)
//	defer w.Close()
//
// Stdout writers don't require closing but Close() is safe to call.
package serializer
