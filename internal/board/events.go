/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"context"
	"log/slog"

	"formcanvas/internal/drag"
	"formcanvas/internal/geom"
	applog "formcanvas/internal/log"
)

// Pointer events are routed here by the panel widgets. Each call affects only
// the addressed panel; siblings are read as values for snapping.

// Press starts a drag session on the panel.
func (b *Board) Press(id string, ev drag.Event) {
	b.dispatch(id, func(p *Panel) drag.Effects {
		fx := p.ctl.Press(ev, p.Rect)
		if p.Dragging() {
			b.l.DebugContext(dragContext(p), "drag start", slog.String("rect", p.Rect.String()))
		}
		return fx
	})
}

// Move is a pointer move over the panel, dragging or hovering.
func (b *Board) Move(id string, ev drag.Event) {
	b.dispatch(id, func(p *Panel) drag.Effects {
		if !p.Dragging() {
			return p.ctl.Move(ev, p.Rect, 0, nil)
		}
		return p.ctl.Move(ev, p.Rect, b.overlay.GridSize(), b.siblingsLocked(p))
	})
}

// Release ends the panel's drag session.
func (b *Board) Release(id string, ev drag.Event) {
	b.dispatch(id, func(p *Panel) drag.Effects {
		if !p.Dragging() {
			return p.ctl.Release(ev)
		}
		ctx := dragContext(p)
		fx := p.ctl.Release(ev)
		if !p.Dragging() {
			b.l.DebugContext(ctx, "drag end", slog.String("rect", p.Rect.String()))
		}
		return fx
	})
}

// Enter is the pointer entering the panel.
func (b *Board) Enter(id string, ev drag.Event) {
	b.dispatch(id, func(p *Panel) drag.Effects { return p.ctl.Enter(ev, p.Rect) })
}

// Leave is the pointer leaving the panel.
func (b *Board) Leave(id string) {
	b.dispatch(id, func(p *Panel) drag.Effects { return p.ctl.Leave() })
}

// dragContext tags log records with the panel and its current drag mode.
func dragContext(p *Panel) context.Context {
	return applog.ContextWithDrag(context.Background(), p.ID, p.ctl.State.Session.Mode.String())
}

func (b *Board) siblingsLocked(self *Panel) []geom.Rect {
	out := make([]geom.Rect, 0, len(b.panels))
	for _, p := range b.panels {
		if p != self {
			out = append(out, p.Rect)
		}
	}
	return out
}

// dispatch refreshes the panel's environment, runs fn and applies the effects.
// Callbacks run after the lock is released.
func (b *Board) dispatch(id string, fn func(p *Panel) drag.Effects) {
	b.mu.Lock()
	i := b.indexLocked(id)
	if i < 0 {
		b.mu.Unlock()
		return
	}
	p := b.panels[i]
	p.ctl.Env.Parent = b.boundsLocked()
	fx := fn(p)

	if fx.RectChanged && fx.Rect != p.Rect {
		p.Rect = fx.Rect
		b.dirty = true
	}
	if fx.GuidesChanged {
		b.overlay.SetGuidelines(fx.Guides)
	}
	if fx.Moved {
		b.expandLocked()
	}
	onCursor := b.OnCursor
	b.mu.Unlock()

	if fx.CursorChanged && onCursor != nil {
		onCursor(id, fx.Cursor)
	}
	b.notify()
}
