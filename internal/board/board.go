/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package board is the canvas container: it owns the live panels, routes pointer
// events to the panel they address, keeps the guide overlay and grows the
// canvas so every panel stays reachable.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"formcanvas/internal/drag"
	"formcanvas/internal/geom"
	applog "formcanvas/internal/log"
	"formcanvas/internal/snap"
)

// Options configures a Board. Zero fields fall back to DefaultOptions values.
type Options struct {
	GridSize      int
	Margin        int
	MinPanel      geom.Size
	SnapThreshold int
	SnapDisabled  bool
	// ExtentMargin is the free space kept right of and below the outermost panel.
	ExtentMargin int
	// MinCanvas is the initial minimum canvas size; the canvas never shrinks below it.
	MinCanvas    geom.Size
	DefaultPanel geom.Size
}

// DefaultOptions mirrors the editor defaults.
func DefaultOptions() Options {
	return Options{
		GridSize:      snap.DefaultGridSize,
		Margin:        drag.DefaultMargin,
		MinPanel:      geom.Size{W: drag.DefaultMinWidth, H: drag.DefaultMinHeight},
		SnapThreshold: snap.DefaultThreshold,
		ExtentMargin:  40,
		MinCanvas:     geom.Size{W: 1400, H: 900},
		DefaultPanel:  geom.Size{W: 420, H: 280},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.GridSize <= 0 {
		o.GridSize = d.GridSize
	}
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if o.MinPanel.W <= 0 || o.MinPanel.H <= 0 {
		o.MinPanel = d.MinPanel
	}
	if o.SnapThreshold <= 0 {
		o.SnapThreshold = d.SnapThreshold
	}
	if o.ExtentMargin <= 0 {
		o.ExtentMargin = d.ExtentMargin
	}
	if o.MinCanvas.W <= 0 || o.MinCanvas.H <= 0 {
		o.MinCanvas = d.MinCanvas
	}
	if o.DefaultPanel.W <= 0 || o.DefaultPanel.H <= 0 {
		o.DefaultPanel = d.DefaultPanel
	}
	return o
}

// Panel is one movable, resizable form on the canvas.
type Panel struct {
	ID   string
	Rect geom.Rect
	ctl  *drag.Controller
}

// Cursor is the cursor the panel currently asks for.
func (p *Panel) Cursor() drag.Cursor { return p.ctl.State.Cursor }

// Dragging reports whether the panel has an active drag session.
func (p *Panel) Dragging() bool { return p.ctl.State.Dragging() }

// Board holds the live panels in creation order.
// All methods are safe to call from the UI thread and from background reloads.
type Board struct {
	mu       sync.Mutex
	opts     Options
	overlay  *Overlay
	panels   []*Panel
	nextID   int
	minSize  geom.Size
	viewport geom.Size
	dirty    bool
	l        *slog.Logger

	// OnChange is called after geometry, the panel set or the guides changed.
	OnChange func()
	// OnCursor is called when a panel's requested cursor changes.
	OnCursor func(id string, c drag.Cursor)
}

// New returns an empty board.
func New(opts Options) *Board {
	opts = opts.withDefaults()
	b := &Board{
		opts:    opts,
		minSize: opts.MinCanvas,
		l:       applog.WithComponent("board"),
	}
	b.overlay = NewOverlay(opts.GridSize, func() { b.dirty = true })
	return b
}

// Overlay exposes the guide overlay. Readers outside the board should prefer
// Guidelines and GridLines, which take the board lock.
func (b *Board) Overlay() *Overlay { return b.overlay }

// Guidelines returns the guides of the panel currently being dragged.
func (b *Board) Guidelines() []geom.Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overlay.Guidelines()
}

// GridLines returns the background grid for the current canvas size.
func (b *Board) GridLines() []geom.Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overlay.GridLines(b.sizeLocked())
}

// Options returns the effective options.
func (b *Board) Options() Options { return b.opts }

// GridSize implements GridSource.
func (b *Board) GridSize() int { return b.overlay.GridSize() }

// SetViewport records the visible area; the canvas is at least that big.
func (b *Board) SetViewport(s geom.Size) {
	b.mu.Lock()
	b.viewport = s
	b.mu.Unlock()
}

// MinSize is the minimum canvas size: the initial minimum grown to contain
// every panel plus the extent margin. It never shrinks.
func (b *Board) MinSize() geom.Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.minSize
}

// Size is the current canvas size, the larger of MinSize and the viewport.
func (b *Board) Size() geom.Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sizeLocked()
}

func (b *Board) sizeLocked() geom.Size {
	return geom.Size{W: max(b.minSize.W, b.viewport.W), H: max(b.minSize.H, b.viewport.H)}
}

func (b *Board) boundsLocked() geom.Rect {
	s := b.sizeLocked()
	return geom.R(0, 0, s.W, s.H)
}

// Add creates a default-size panel, offset diagonally from the previous ones.
func (b *Board) Add() *Panel {
	b.mu.Lock()
	n := len(b.panels)
	r := geom.R(40+20*n, 40+20*n, b.opts.DefaultPanel.W, b.opts.DefaultPanel.H)
	b.mu.Unlock()
	return b.AddRect(r)
}

// AddWide creates the wide preset panel.
func (b *Board) AddWide() *Panel { return b.AddRect(geom.R(60, 360, 720, 300)) }

// AddRect creates a panel with the given geometry.
func (b *Board) AddRect(r geom.Rect) *Panel {
	b.mu.Lock()
	p := b.addLocked(r)
	b.expandLocked()
	b.mu.Unlock()
	b.l.DebugContext(applog.ContextWithPanel(context.Background(), p.ID), "panel added", slog.String("rect", r.String()))
	b.notify()
	return p
}

func (b *Board) addLocked(r geom.Rect) *Panel {
	b.nextID++
	env := drag.Env{Margin: b.opts.Margin, MinSize: b.opts.MinPanel}
	ctl := drag.NewController(env)
	ctl.Snap = snap.Options{Threshold: b.opts.SnapThreshold, Disabled: b.opts.SnapDisabled}
	p := &Panel{ID: fmt.Sprintf("form-%d", b.nextID), Rect: r, ctl: ctl}
	b.panels = append(b.panels, p)
	b.dirty = true
	return p
}

// Close destroys a panel. It reports false for unknown ids.
func (b *Board) Close(id string) bool {
	b.mu.Lock()
	i := b.indexLocked(id)
	if i < 0 {
		b.mu.Unlock()
		return false
	}
	if b.panels[i].Dragging() {
		b.overlay.ClearGuidelines()
	}
	b.panels = slices.Delete(b.panels, i, i+1)
	b.dirty = true
	b.expandLocked()
	b.mu.Unlock()
	b.l.DebugContext(applog.ContextWithPanel(context.Background(), id), "panel closed")
	b.notify()
	return true
}

// RequestClose is the close notification raised from a panel's context menu.
func (b *Board) RequestClose(id string) { b.Close(id) }

// Clear removes every panel and the guides.
func (b *Board) Clear() {
	b.mu.Lock()
	b.clearLocked()
	b.mu.Unlock()
	b.notify()
}

func (b *Board) clearLocked() {
	if len(b.panels) > 0 {
		b.dirty = true
	}
	b.panels = nil
	b.overlay.ClearGuidelines()
}

// Load replaces all panels with the rectangles of a layout document.
// Existing panels are always removed first.
func (b *Board) Load(rects []geom.Rect) []*Panel {
	b.mu.Lock()
	b.clearLocked()
	out := make([]*Panel, 0, len(rects))
	for _, r := range rects {
		out = append(out, b.addLocked(r))
	}
	b.dirty = true
	b.expandLocked()
	b.mu.Unlock()
	b.l.Info("layout loaded", slog.Int("panels", len(out)))
	b.notify()
	return out
}

// Rects returns the panel rectangles in creation order, ready for saving.
func (b *Board) Rects() []geom.Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]geom.Rect, len(b.panels))
	for i, p := range b.panels {
		out[i] = p.Rect
	}
	return out
}

// Panel returns a copy of the panel with the given id.
func (b *Board) Panel(id string) (Panel, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexLocked(id); i >= 0 {
		return *b.panels[i], true
	}
	return Panel{}, false
}

// Panels returns copies of all panels in creation order.
func (b *Board) Panels() []Panel {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Panel, len(b.panels))
	for i, p := range b.panels {
		out[i] = *p
	}
	return out
}

// Len is the number of live panels.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.panels)
}

func (b *Board) indexLocked(id string) int {
	return slices.IndexFunc(b.panels, func(p *Panel) bool { return p.ID == id })
}

// expandLocked grows minSize to contain every panel plus the extent margin.
func (b *Board) expandLocked() {
	maxRight, maxBottom := 0, 0
	for _, p := range b.panels {
		maxRight = max(maxRight, p.Rect.Right())
		maxBottom = max(maxBottom, p.Rect.Bottom())
	}
	need := geom.Size{
		W: max(maxRight+b.opts.ExtentMargin, b.minSize.W),
		H: max(maxBottom+b.opts.ExtentMargin, b.minSize.H),
	}
	if need != b.minSize {
		b.minSize = need
		b.dirty = true
	}
}

func (b *Board) notify() {
	b.mu.Lock()
	dirty := b.dirty
	b.dirty = false
	fn := b.OnChange
	b.mu.Unlock()
	if dirty && fn != nil {
		fn()
	}
}
