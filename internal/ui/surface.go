//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"formcanvas/internal/board"
	"formcanvas/internal/export"
	"formcanvas/internal/geom"
)

var guideColor = color.RGBA{R: 66, G: 133, B: 244, A: 180}

const guideWidth = 2

// Surface draws the board: background, grid, panels and the guides of the
// panel being dragged. Put it in a container.NewScroll; its MinSize follows the
// board extents.
type Surface struct {
	widget.BaseWidget
	b      *board.Board
	panels map[string]*panelWidget
}

func NewSurface(b *board.Board) *Surface {
	s := &Surface{b: b, panels: map[string]*panelWidget{}}
	s.ExtendBaseWidget(s)
	return s
}

func (s *Surface) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(export.DefaultOptions().Background)
	r := &surfaceRenderer{s: s, bg: bg}
	r.sync()
	return r
}

// panelFor returns the widget of a panel id, creating it on first use.
func (s *Surface) panelFor(id string) *panelWidget {
	if w, ok := s.panels[id]; ok {
		return w
	}
	w := newPanelWidget(s.b, id)
	s.panels[id] = w
	return w
}

type surfaceRenderer struct {
	s       *Surface
	bg      *canvas.Rectangle
	grid    []*canvas.Line
	guides  []*canvas.Line
	objects []fyne.CanvasObject
}

func (r *surfaceRenderer) Destroy()                     {}
func (r *surfaceRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *surfaceRenderer) Refresh()                     { r.Layout(r.s.Size()); canvas.Refresh(r.s) }

func (r *surfaceRenderer) MinSize() fyne.Size {
	m := r.s.b.MinSize()
	return fyne.NewSize(float32(m.W), float32(m.H))
}

func (r *surfaceRenderer) Layout(size fyne.Size) {
	r.s.b.SetViewport(geom.Size{W: int(size.Width), H: int(size.Height)})
	r.bg.Move(fyne.NewPos(0, 0))
	r.bg.Resize(size)
	r.sync()
}

// sync rebuilds the object list from the board. Panel widgets are kept across
// calls so an active drag keeps its pointer capture.
func (r *surfaceRenderer) sync() {
	gridColor := export.DefaultOptions().GridColor
	r.grid = placeLines(r.grid, r.s.b.GridLines(), gridColor, 1)

	panels := r.s.b.Panels()
	live := make(map[string]bool, len(panels))
	objs := make([]fyne.CanvasObject, 0, 1+len(r.grid)+len(panels)+2)
	objs = append(objs, r.bg)
	for _, l := range r.grid {
		objs = append(objs, l)
	}
	for _, p := range panels {
		live[p.ID] = true
		w := r.s.panelFor(p.ID)
		w.Move(fyne.NewPos(float32(p.Rect.X), float32(p.Rect.Y)))
		w.Resize(fyne.NewSize(float32(p.Rect.W), float32(p.Rect.H)))
		objs = append(objs, w)
	}
	for id := range r.s.panels {
		if !live[id] {
			delete(r.s.panels, id)
		}
	}

	r.guides = placeLines(r.guides, r.s.b.Guidelines(), guideColor, guideWidth)
	for _, l := range r.guides {
		objs = append(objs, l)
	}
	r.objects = objs
}

// placeLines reuses the canvas lines in pool for ls and returns the used prefix.
func placeLines(pool []*canvas.Line, ls []geom.Line, col color.Color, width float32) []*canvas.Line {
	for len(pool) < len(ls) {
		pool = append(pool, canvas.NewLine(col))
	}
	pool = pool[:len(ls)]
	for i, l := range ls {
		c := pool[i]
		c.StrokeColor = col
		c.StrokeWidth = width
		c.Position1 = fyne.NewPos(float32(l.X1), float32(l.Y1))
		c.Position2 = fyne.NewPos(float32(l.X2), float32(l.Y2))
	}
	return pool
}
