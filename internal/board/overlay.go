/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"slices"

	"formcanvas/internal/geom"
	"formcanvas/internal/snap"
)

// GridSource is anything that can report the spacing of its background grid.
type GridSource interface {
	GridSize() int
}

// EffectiveGridSize returns the source's grid spacing, or the default when the
// source is absent or reports a non-positive value.
func EffectiveGridSize(src GridSource) int {
	if src == nil {
		return snap.DefaultGridSize
	}
	if g := src.GridSize(); g > 0 {
		return g
	}
	return snap.DefaultGridSize
}

// Overlay is the model behind the canvas background: the grid spacing and the
// transient guide lines of the panel currently being dragged.
type Overlay struct {
	grid   int
	guides []geom.Line
	// redraw is called after the guide set actually changed.
	redraw func()
}

// NewOverlay returns an empty overlay; redraw may be nil.
func NewOverlay(grid int, redraw func()) *Overlay {
	return &Overlay{grid: grid, redraw: redraw}
}

// GridSize implements GridSource.
func (o *Overlay) GridSize() int {
	if o == nil || o.grid <= 0 {
		return snap.DefaultGridSize
	}
	return o.grid
}

// SetGuidelines replaces the displayed guides. It reports whether anything
// changed; the redraw hook only runs in that case.
func (o *Overlay) SetGuidelines(lines []geom.Line) bool {
	if slices.Equal(o.guides, lines) {
		return false
	}
	if len(lines) == 0 {
		o.guides = nil
	} else {
		o.guides = slices.Clone(lines)
	}
	if o.redraw != nil {
		o.redraw()
	}
	return true
}

// ClearGuidelines is SetGuidelines with the empty set.
func (o *Overlay) ClearGuidelines() bool { return o.SetGuidelines(nil) }

// Guidelines returns a copy of the current guides.
func (o *Overlay) Guidelines() []geom.Line { return slices.Clone(o.guides) }

// GridLines returns the background grid for a surface of the given size:
// vertical lines first, then horizontal ones, starting at 0.
func (o *Overlay) GridLines(size geom.Size) []geom.Line {
	g := o.GridSize()
	var out []geom.Line
	for x := 0; x <= size.W; x += g {
		out = append(out, geom.VLine(x, 0, size.H))
	}
	for y := 0; y <= size.H; y += g {
		out = append(out, geom.HLine(y, 0, size.W))
	}
	return out
}
