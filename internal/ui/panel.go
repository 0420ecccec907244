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
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"formcanvas/internal/board"
	"formcanvas/internal/drag"
	"formcanvas/internal/export"
	"formcanvas/internal/geom"
)

// panelWidget is the on-screen face of one board panel. It only forwards
// pointer events; geometry lives in the board and is applied by the surface.
type panelWidget struct {
	widget.BaseWidget
	id string
	b  *board.Board
}

var (
	_ desktop.Mouseable      = (*panelWidget)(nil)
	_ desktop.Hoverable      = (*panelWidget)(nil)
	_ desktop.Cursorable     = (*panelWidget)(nil)
	_ fyne.Draggable         = (*panelWidget)(nil)
	_ fyne.SecondaryTappable = (*panelWidget)(nil)
)

func newPanelWidget(b *board.Board, id string) *panelWidget {
	p := &panelWidget{id: id, b: b}
	p.ExtendBaseWidget(p)
	return p
}

func (p *panelWidget) CreateRenderer() fyne.WidgetRenderer {
	opt := export.DefaultOptions()
	bg := canvas.NewRectangle(opt.PanelFill)
	bg.StrokeColor = opt.PanelStroke
	bg.StrokeWidth = 1
	title := canvas.NewText(p.id, opt.LabelColor)
	title.TextSize = 12
	return widget.NewSimpleRenderer(container.NewStack(bg, container.NewPadded(container.NewVBox(title))))
}

// event builds a drag event from a widget-local position. The surface point is
// the local point offset by where the widget currently sits.
func (p *panelWidget) event(btn desktop.MouseButton, local fyne.Position) drag.Event {
	pos := p.Position()
	l := toPoint(local)
	return drag.Event{
		Button:  toButton(btn),
		Local:   l,
		Surface: geom.Pt(l.X+int(math.Floor(float64(pos.X))), l.Y+int(math.Floor(float64(pos.Y)))),
	}
}

func (p *panelWidget) MouseDown(e *desktop.MouseEvent) { p.b.Press(p.id, p.event(e.Button, e.Position)) }
func (p *panelWidget) MouseUp(e *desktop.MouseEvent)   { p.b.Release(p.id, p.event(e.Button, e.Position)) }
func (p *panelWidget) MouseIn(e *desktop.MouseEvent)   { p.b.Enter(p.id, p.event(e.Button, e.Position)) }
func (p *panelWidget) MouseMoved(e *desktop.MouseEvent) {
	p.b.Move(p.id, p.event(e.Button, e.Position))
}
func (p *panelWidget) MouseOut() { p.b.Leave(p.id) }

// Dragged is delivered instead of MouseMoved while the primary button is held.
func (p *panelWidget) Dragged(e *fyne.DragEvent) {
	p.b.Move(p.id, p.event(desktop.MouseButtonPrimary, e.Position))
}

// DragEnd releases the session when the driver swallows the MouseUp.
func (p *panelWidget) DragEnd() { p.b.Release(p.id, drag.Event{Button: drag.ButtonPrimary}) }

func (p *panelWidget) Cursor() desktop.Cursor {
	panel, ok := p.b.Panel(p.id)
	if !ok {
		return desktop.DefaultCursor
	}
	return toDesktopCursor(panel.Cursor())
}

// TappedSecondary opens the panel's context menu.
func (p *panelWidget) TappedSecondary(e *fyne.PointEvent) {
	c := fyne.CurrentApp().Driver().CanvasForObject(p)
	if c == nil {
		return
	}
	menu := fyne.NewMenu("", fyne.NewMenuItem("Close", func() { p.b.RequestClose(p.id) }))
	widget.ShowPopUpMenuAtPosition(menu, c, e.AbsolutePosition)
}

func toPoint(pos fyne.Position) geom.Point {
	return geom.Pt(int(math.Floor(float64(pos.X))), int(math.Floor(float64(pos.Y))))
}

func toButton(b desktop.MouseButton) drag.Button {
	switch b {
	case desktop.MouseButtonSecondary:
		return drag.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return drag.ButtonTertiary
	}
	return drag.ButtonPrimary
}

// toDesktopCursor maps a panel cursor onto the shapes fyne offers. fyne has no
// diagonal resize cursors; corners show a crosshair.
func toDesktopCursor(c drag.Cursor) desktop.Cursor {
	switch c {
	case drag.CursorResizeHorizontal:
		return desktop.HResizeCursor
	case drag.CursorResizeVertical:
		return desktop.VResizeCursor
	case drag.CursorResizeNWSE, drag.CursorResizeNESW:
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}
