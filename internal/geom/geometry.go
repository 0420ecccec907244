/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom holds the integer 2D primitives shared by the drag, snap and layout code.
// All coordinates are parent-local pixels; Right and Bottom are edge coordinates (X+W, Y+H).
package geom

import "fmt"

// Point is a 2D integer point.
type Point struct{ X, Y int }

// Size is a width/height pair.
type Size struct{ W, H int }

// Rect is an axis-aligned rectangle defined by its top-left corner and size.
type Rect struct {
	X, Y int
	W, H int
}

// Line is a segment from (X1,Y1) to (X2,Y2), used for guide lines.
type Line struct{ X1, Y1, X2, Y2 int }

func Pt(x, y int) Point           { return Point{X: x, Y: y} }
func R(x, y, w, h int) Rect       { return Rect{X: x, Y: y, W: w, H: h} }
func VLine(x, y1, y2 int) Line    { return Line{X1: x, Y1: y1, X2: x, Y2: y2} }
func HLine(y, x1, x2 int) Line    { return Line{X1: x1, Y1: y, X2: x2, Y2: y} }
func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

func (r Rect) Left() int      { return r.X }
func (r Rect) Top() int       { return r.Y }
func (r Rect) Right() int     { return r.X + r.W }
func (r Rect) Bottom() int    { return r.Y + r.H }
func (r Rect) Size() Size     { return Size{r.W, r.H} }
func (r Rect) TopLeft() Point { return Point{r.X, r.Y} }

// Translate returns r shifted by dx,dy.
func (r Rect) Translate(dx, dy int) Rect { return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H} }

// MoveTo keeps the size and places the top-left corner at p.
func (r Rect) MoveTo(p Point) Rect { return Rect{X: p.X, Y: p.Y, W: r.W, H: r.H} }

// FromEdges builds a rectangle from its four edge coordinates. The result may
// have negative size; call Normalized before using it.
func FromEdges(left, top, right, bottom int) Rect {
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// Normalized returns a rectangle with non-negative width and height covering the same area.
func (r Rect) Normalized() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Contains reports whether p lies inside r (edges inclusive of the top-left, exclusive of the bottom-right).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.X+r.W && p.Y < r.Y+r.H
}

// ContainsRect reports whether o lies fully inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	return FromEdges(min(r.X, o.X), min(r.Y, o.Y), max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom()))
}

func (r Rect) String() string { return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H) }

// Clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Abs returns |v|.
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
