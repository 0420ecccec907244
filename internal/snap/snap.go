/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap aligns a dragged or resized rectangle to grid lines, the parent
// edges and sibling edges, and reports the guide lines to draw for each match.
// It is UI-agnostic and deterministic so it can be unit tested without a window.
package snap

import (
	"math"
	"slices"

	"formcanvas/internal/geom"
)

const (
	// DefaultThreshold is the maximum pixel distance at which an edge is pulled onto a candidate.
	DefaultThreshold = 8
	// DefaultGridSize is used whenever the surface reports no usable grid spacing.
	DefaultGridSize = 20
)

// Edges is a set of rectangle edges eligible for snapping.
type Edges uint8

const (
	Left Edges = 1 << iota
	Right
	Top
	Bottom

	// Translate marks a whole-rectangle move: all edges are evaluated but the
	// rectangle keeps its size and shifts by one offset per axis.
	Translate
)

// AllEdges is the edge set of a move.
const AllEdges = Left | Right | Top | Bottom | Translate

func (e Edges) Has(o Edges) bool { return e&o == o }

// Options controls the threshold and the size floor applied to resize snaps.
type Options struct {
	// Threshold in pixels; zero or negative selects DefaultThreshold.
	Threshold int
	// MinSize rejects resize snaps that would shrink the rectangle below it.
	MinSize geom.Size
	// Disabled skips candidate matching; only the bounds clamp runs.
	Disabled bool
}

// Candidates holds the scalar snap positions per axis, sorted ascending without duplicates.
// Vertical entries are x coordinates, Horizontal entries are y coordinates.
type Candidates struct {
	Vertical   []int
	Horizontal []int
}

// Result is the snapped rectangle plus the guide lines for the matches that took effect.
type Result struct {
	Rect   geom.Rect
	Guides []geom.Line
}

// CollectCandidates builds the candidate set from the parent bounds, the grid
// spacing and every sibling's edges. Callers must exclude the moving rectangle
// from siblings.
func CollectCandidates(bounds geom.Rect, grid int, siblings []geom.Rect) Candidates {
	if grid <= 0 {
		grid = DefaultGridSize
	}
	vs := []int{bounds.Left(), bounds.Right()}
	vs = appendMultiples(vs, bounds.Left(), bounds.Right(), grid)
	hs := []int{bounds.Top(), bounds.Bottom()}
	hs = appendMultiples(hs, bounds.Top(), bounds.Bottom(), grid)
	for _, s := range siblings {
		vs = append(vs, s.Left(), s.Right())
		hs = append(hs, s.Top(), s.Bottom())
	}
	slices.Sort(vs)
	slices.Sort(hs)
	return Candidates{Vertical: slices.Compact(vs), Horizontal: slices.Compact(hs)}
}

// appendMultiples adds every multiple of step within [lo, hi].
func appendMultiples(dst []int, lo, hi, step int) []int {
	start := lo / step * step
	if start < lo {
		start += step
	}
	for v := start; v <= hi; v += step {
		dst = append(dst, v)
	}
	return dst
}

// nearest returns the candidate closest to pos within threshold. Candidates are
// scanned in ascending order and only a strictly smaller distance replaces the
// current best, so equal distances resolve to the smallest coordinate.
func nearest(pos int, cands []int, threshold int) (int, bool) {
	best, bestDist := 0, math.MaxInt
	for _, c := range cands {
		d := geom.Abs(c - pos)
		if d <= threshold && d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist != math.MaxInt
}

// Apply snaps the candidate rectangle for the given edge set. See CollectCandidates
// for the candidate rules. The returned rectangle never leaves bounds unless it
// is larger than bounds.
//
// The rectangle is clamped before matching, so edges snap where they end up on
// screen and every guide lies on an edge of the returned rectangle. Bounds are
// themselves candidates, so no match can push an edge back out.
func Apply(r geom.Rect, edges Edges, bounds geom.Rect, grid int, siblings []geom.Rect, opts Options) Result {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	r = ClampInto(r, bounds)
	if opts.Disabled {
		return Result{Rect: r}
	}
	c := CollectCandidates(bounds, grid, siblings)
	if edges.Has(Translate) {
		return snapMove(r, c, bounds, threshold)
	}
	return snapResize(r, edges, c, bounds, threshold, opts.MinSize)
}

// snapMove picks at most one edge per axis and translates the whole rectangle onto it.
func snapMove(r geom.Rect, c Candidates, bounds geom.Rect, threshold int) Result {
	res := Result{Rect: r}
	if off, line, ok := pickOffset(r.Left(), r.Right(), c.Vertical, threshold); ok {
		res.Rect.X += off
		res.Guides = append(res.Guides, geom.VLine(line, bounds.Top(), bounds.Bottom()))
	}
	if off, line, ok := pickOffset(r.Top(), r.Bottom(), c.Horizontal, threshold); ok {
		res.Rect.Y += off
		res.Guides = append(res.Guides, geom.HLine(line, bounds.Left(), bounds.Right()))
	}
	return res
}

// pickOffset evaluates the leading and trailing edge independently and keeps
// the closer match; ties favor the leading edge.
func pickOffset(lead, trail int, cands []int, threshold int) (offset, line int, ok bool) {
	lc, lok := nearest(lead, cands, threshold)
	tc, tok := nearest(trail, cands, threshold)
	switch {
	case lok && tok:
		if geom.Abs(tc-trail) < geom.Abs(lc-lead) {
			return tc - trail, tc, true
		}
		return lc - lead, lc, true
	case lok:
		return lc - lead, lc, true
	case tok:
		return tc - trail, tc, true
	}
	return 0, 0, false
}

// snapResize moves each eligible edge onto its own nearest candidate while the
// opposite edge stays fixed.
func snapResize(r geom.Rect, edges Edges, c Candidates, bounds geom.Rect, threshold int, minSize geom.Size) Result {
	left, top, right, bottom := r.Left(), r.Top(), r.Right(), r.Bottom()
	var guides []geom.Line
	if edges.Has(Left) {
		if v, ok := nearest(left, c.Vertical, threshold); ok && right-v >= minSize.W {
			left = v
			guides = append(guides, geom.VLine(v, bounds.Top(), bounds.Bottom()))
		}
	}
	if edges.Has(Right) {
		if v, ok := nearest(right, c.Vertical, threshold); ok && v-left >= minSize.W {
			right = v
			guides = append(guides, geom.VLine(v, bounds.Top(), bounds.Bottom()))
		}
	}
	if edges.Has(Top) {
		if v, ok := nearest(top, c.Horizontal, threshold); ok && bottom-v >= minSize.H {
			top = v
			guides = append(guides, geom.HLine(v, bounds.Left(), bounds.Right()))
		}
	}
	if edges.Has(Bottom) {
		if v, ok := nearest(bottom, c.Horizontal, threshold); ok && v-top >= minSize.H {
			bottom = v
			guides = append(guides, geom.HLine(v, bounds.Left(), bounds.Right()))
		}
	}
	return Result{Rect: geom.FromEdges(left, top, right, bottom), Guides: guides}
}

// ClampInto shifts r so it lies inside bounds without changing its size. When r
// is larger than bounds the top-left corner stays inside.
func ClampInto(r geom.Rect, bounds geom.Rect) geom.Rect {
	if r.Right() > bounds.Right() {
		r.X = bounds.Right() - r.W
	}
	if r.Bottom() > bounds.Bottom() {
		r.Y = bounds.Bottom() - r.H
	}
	if r.X < bounds.Left() {
		r.X = bounds.Left()
	}
	if r.Y < bounds.Top() {
		r.Y = bounds.Top()
	}
	return r
}
