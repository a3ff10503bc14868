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

package render

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/netpulse/netpulse/pkg/defaults"
	"github.com/netpulse/netpulse/pkg/measurement"
)

// Average line colors, chosen to stand apart from the plotutil palette
// used for the per-tool scatter series.
var (
	avgDownColor = color.RGBA{R: 0xe3, G: 0x5f, B: 0x9e, A: 0xff}
	avgUpColor   = color.RGBA{R: 0x8e, G: 0x5f, B: 0xe3, A: 0xff}
)

// Chart renders a measurement history window as a PNG image with one
// scatter series per tool and direction plus trailing-average lines.
type Chart struct {
	// Width and Height are the image dimensions. Zero values fall back
	// to the defaults used by New.
	Width  vg.Length
	Height vg.Length

	// Title is drawn above the plot when non-empty.
	Title string

	// RollingWindow is the trailing window for the average lines.
	// Zero falls back to defaults.ReportRollingWindow.
	RollingWindow time.Duration
}

// New creates a Chart with the default dimensions and rolling window.
func New() *Chart {
	return &Chart{
		Width:         8 * vg.Inch,
		Height:        4.4 * vg.Inch,
		RollingWindow: defaults.ReportRollingWindow,
	}
}

// Render draws records to an image file at path; the extension selects the
// encoding (.png in normal operation). Only successful samples are drawn.
// Records are expected in ascending timestamp order. The context parameter
// is accepted for consistency with the reporting pipeline; rendering is
// local CPU work and is not cancelable once started.
func (c *Chart) Render(ctx context.Context, records []measurement.Record, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	set := buildSeries(records)
	if len(set.meanDown) == 0 && len(set.meanUp) == 0 {
		return fmt.Errorf("no successful samples to chart")
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.Y.Label.Text = "Mbps"
	p.X.Tick.Marker = plot.TimeTicks{Format: "15:04"}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = vg.Points(8)

	if err := c.addScatters(p, set.downloads, " down", draw.PyramidGlyph{}); err != nil {
		return err
	}
	if err := c.addScatters(p, set.uploads, " up", draw.RingGlyph{}); err != nil {
		return err
	}

	window := c.RollingWindow
	if window <= 0 {
		window = defaults.ReportRollingWindow
	}
	if err := addAverageLine(p, rollingAverage(set.meanDown, window), "avg down", avgDownColor); err != nil {
		return err
	}
	if err := addAverageLine(p, rollingAverage(set.meanUp, window), "avg up", avgUpColor); err != nil {
		return err
	}

	width, height := c.Width, c.Height
	if width <= 0 {
		width = 8 * vg.Inch
	}
	if height <= 0 {
		height = 4.4 * vg.Inch
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save chart to %s: %w", path, err)
	}
	return nil
}

// addScatters adds one scatter series per tool in canonical tool order,
// keyed by a shared glyph shape per direction. Tools with no samples in
// the window contribute neither points nor a legend entry.
func (c *Chart) addScatters(p *plot.Plot, series map[measurement.Tool][]point, suffix string, shape draw.GlyphDrawer) error {
	for i, tool := range measurement.Tools() {
		points := series[tool]
		if len(points) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(xys(points))
		if err != nil {
			return fmt.Errorf("failed to build %s%s series: %w", tool, suffix, err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Radius = vg.Points(2)
		scatter.GlyphStyle.Shape = shape
		p.Add(scatter)
		p.Legend.Add(tool.DisplayName()+suffix, scatter)
	}
	return nil
}

func addAverageLine(p *plot.Plot, points []point, name string, col color.Color) error {
	if len(points) == 0 {
		return nil
	}
	line, err := plotter.NewLine(xys(points))
	if err != nil {
		return fmt.Errorf("failed to build %s line: %w", name, err)
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = col
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func xys(points []point) plotter.XYs {
	out := make(plotter.XYs, len(points))
	for i, p := range points {
		out[i] = plotter.XY{X: float64(p.t.Unix()), Y: p.v}
	}
	return out
}
