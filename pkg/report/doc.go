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

// Package report decides when measurement history warrants a published
// chart and coordinates the render and post collaborators.
//
// # Overview
//
// Trigger.MaybePublish applies two gates in order. The new-data gate
// requires at least one successful sample newer than the last-published
// watermark; it can never be bypassed. The cadence gate requires the
// watermark to be at least a minimum interval old; force bypasses it.
// When both pass, the trigger renders the configured history window to
// the chart path, computes the median down/up summary for the caption,
// and posts.
//
// # Durability
//
// Posting is the completion signal. The watermark advances to the newest
// record's timestamp only after the post succeeds; on render or post
// failure the chart artifact is discarded, the watermark stays put, and
// the next scheduled run retries with the same (plus any newer) data.
// Collaborator failures are therefore contained: they log and produce a
// skipped Result rather than an error.
//
// # Usage
//
//	trigger := &report.Trigger{
//	    Store:     store,
//	    Renderer:  render.New(),
//	    Poster:    client,
//	    ChartPath: cfg.ChartPath,
//	}
//	result, err := trigger.MaybePublish(ctx, force)
package report
