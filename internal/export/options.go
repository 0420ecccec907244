/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a layout document to PNG, SVG, PDF or a zip bundle of all of them.
// One layout unit maps to one pixel (PNG, scaled by Options.Scale), one SVG user unit
// or one PDF point.
package export

import (
	"fmt"
	"image/color"
	"math"

	"formcanvas/internal/geom"
	"formcanvas/internal/layout"
)

// Options controls rendering. Zero colors, scale and grid spacing fall back to
// DefaultOptions; a zero Margin and MinSize crop the canvas to the panels.
//
//nolint:revive // keep options grouped and explicit for clarity
type Options struct {
	// Scale multiplies PNG pixel sizes; vector formats ignore it.
	Scale float64
	// Margin is the free space right of and below the outermost panel.
	Margin int
	// MinSize is the smallest canvas that is rendered.
	MinSize  geom.Size
	Grid     bool
	GridSize int
	Labels   bool

	Background  color.RGBA
	GridColor   color.RGBA
	PanelFill   color.RGBA
	PanelStroke color.RGBA
	LabelColor  color.RGBA
}

// DefaultOptions renders the canvas the way the editor shows it.
func DefaultOptions() Options {
	return Options{
		Scale:       1,
		Margin:      40,
		MinSize:     geom.Size{W: 1400, H: 900},
		Grid:        true,
		GridSize:    20,
		Labels:      true,
		Background:  color.RGBA{R: 0x1e, G: 0x1e, B: 0x1f, A: 255},
		GridColor:   color.RGBA{R: 255, G: 255, B: 255, A: 30},
		PanelFill:   color.RGBA{R: 0x2d, G: 0x2d, B: 0x30, A: 255},
		PanelStroke: color.RGBA{R: 0x5a, G: 0x5a, B: 0x5e, A: 255},
		LabelColor:  color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 255},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.GridSize <= 0 {
		o.GridSize = d.GridSize
	}
	if o.Background == (color.RGBA{}) {
		o.Background = d.Background
	}
	if o.GridColor == (color.RGBA{}) {
		o.GridColor = d.GridColor
	}
	if o.PanelFill == (color.RGBA{}) {
		o.PanelFill = d.PanelFill
	}
	if o.PanelStroke == (color.RGBA{}) {
		o.PanelStroke = d.PanelStroke
	}
	if o.LabelColor == (color.RGBA{}) {
		o.LabelColor = d.LabelColor
	}
	return o
}

// CanvasSize is the rendered area for doc in layout units, never smaller than 1x1.
func CanvasSize(doc layout.Document, opt Options) geom.Size {
	opt = opt.withDefaults()
	return doc.Bounds(opt.Margin, geom.Size{W: max(opt.MinSize.W, 1), H: max(opt.MinSize.H, 1)})
}

// label is the caption drawn in the top-left corner of panel i.
func label(i int, r geom.Rect) string {
	return fmt.Sprintf("form-%d  %dx%d", i+1, r.W, r.H)
}

func scaled(v int, scale float64) int { return int(math.Round(float64(v) * scale)) }

func hexColor(c color.RGBA) string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func opacity(c color.RGBA) float64 { return float64(c.A) / 255 }
