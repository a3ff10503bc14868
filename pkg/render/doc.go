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

// Package render draws measurement history as a publishable chart.
//
// # Overview
//
// The render package turns an ordered window of measurement records into a
// PNG using gonum.org/v1/plot. Each tool and direction gets a scatter
// series (triangles for downloads, rings for uploads), and two heavier
// lines trace the trailing average of the per-batch means, one per
// direction. The X axis is wall-clock time formatted HH:MM; the Y axis is
// megabits per second.
//
// # Data Derivation
//
// Only successful samples are drawn. Samples are grouped into batches by
// batch ID, each batch contributes one cross-tool mean per direction, and
// the average lines smooth those means over a trailing window (3h by
// default). Tools absent from the window simply do not appear.
//
// # Usage
//
//	chart := render.New()
//	if err := chart.Render(ctx, records, cfg.ChartPath); err != nil {
//	    return err
//	}
//
// The output encoding follows the file extension; the reporting pipeline
// always uses .png.
package render
