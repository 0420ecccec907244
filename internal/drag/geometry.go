/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drag

import "formcanvas/internal/geom"

// Env describes the surroundings of a panel during one event: the resize band
// width, the minimum panel size and the parent bounds in parent-local coordinates.
type Env struct {
	Margin  int
	MinSize geom.Size
	Parent  geom.Rect
}

// DefaultEnv returns an Env with the default margin and minimum size inside parent.
func DefaultEnv(parent geom.Rect) Env {
	return Env{
		Margin:  DefaultMargin,
		MinSize: geom.Size{W: DefaultMinWidth, H: DefaultMinHeight},
		Parent:  parent,
	}
}

// HitTest classifies a panel-local point. Points within margin of an edge map
// to that edge's resize mode, corners win over single edges, everything else is Move.
func HitTest(p geom.Point, size geom.Size, margin int) Mode {
	left := p.X < margin
	right := p.X > size.W-margin
	top := p.Y < margin
	bottom := p.Y > size.H-margin

	switch {
	case left && top:
		return ResizeTopLeft
	case right && top:
		return ResizeTopRight
	case left && bottom:
		return ResizeBottomLeft
	case right && bottom:
		return ResizeBottomRight
	case left:
		return ResizeLeft
	case right:
		return ResizeRight
	case top:
		return ResizeTop
	case bottom:
		return ResizeBottom
	}
	return Move
}

// Session is the state captured when the pointer goes down on a panel.
// Anchor is the press position in surface coordinates, Start the panel rectangle at that instant.
type Session struct {
	Mode   Mode
	Anchor geom.Point
	Start  geom.Rect
}

// Transform applies the pointer travel since the press to the session's start
// rectangle. The result is normalized and floored to env.MinSize; a Move is also
// kept inside env.Parent. Resizes are not clamped here, the snap pass does that.
func Transform(s Session, pointer geom.Point, env Env) geom.Rect {
	d := pointer.Sub(s.Anchor)
	g := s.Start
	left, top, right, bottom := g.Left(), g.Top(), g.Right(), g.Bottom()

	switch s.Mode {
	case Move:
		g = g.Translate(d.X, d.Y)
	case ResizeLeft:
		g = geom.FromEdges(left+d.X, top, right, bottom)
	case ResizeRight:
		g = geom.FromEdges(left, top, right+d.X, bottom)
	case ResizeTop:
		g = geom.FromEdges(left, top+d.Y, right, bottom)
	case ResizeBottom:
		g = geom.FromEdges(left, top, right, bottom+d.Y)
	case ResizeTopLeft:
		g = geom.FromEdges(left+d.X, top+d.Y, right, bottom)
	case ResizeTopRight:
		g = geom.FromEdges(left, top+d.Y, right+d.X, bottom)
	case ResizeBottomLeft:
		g = geom.FromEdges(left+d.X, top, right, bottom+d.Y)
	case ResizeBottomRight:
		g = geom.FromEdges(left, top, right+d.X, bottom+d.Y)
	default:
		return g
	}

	g = g.Normalized()
	g.W = max(g.W, env.MinSize.W)
	g.H = max(g.H, env.MinSize.H)

	// A zero parent means the panel is not hosted yet; there is nothing to stay inside.
	if p := env.Parent; s.Mode == Move && p.W > 0 && p.H > 0 {
		g.X = geom.Clamp(g.X, p.Left(), p.Right()-g.W)
		g.Y = geom.Clamp(g.Y, p.Top(), p.Bottom()-g.H)
	}
	return g
}
