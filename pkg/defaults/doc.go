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

// Package defaults provides named constants used across the netpulse
// codebase, replacing magic numbers with well-documented values.
//
// The constants are organized into categories:
//
//   - Probe timeouts: subprocess deadlines for external measurement tools
//   - Report cadence: publish spacing and chart windowing
//   - HTTP timeouts: outbound client settings for the social API
//   - Store settings: SQLite busy handling and retention
//
// Usage:
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ToolTimeout)
//	defer cancel()
package defaults
