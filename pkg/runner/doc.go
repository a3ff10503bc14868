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

// Package runner orchestrates one measurement batch across the enabled
// probes.
//
// Probes run strictly one after another, each bounded by the per-tool
// timeout. A tool that times out, exits non-zero, or produces garbage is
// recorded as a failed attempt and the batch moves on; there are no
// retries within a batch, the external scheduler provides cadence. Every
// executed attempt is appended to the store; skipped attempts (probe
// cadence policy) appear in the batch result only.
package runner
