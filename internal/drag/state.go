/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drag

import (
	"formcanvas/internal/geom"
	"formcanvas/internal/snap"
)

// Button identifies the pointer button of a press or release.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

// Event is one pointer notification routed to a panel.
// Local is relative to the panel, Surface to the containing canvas.
type Event struct {
	Button  Button
	Local   geom.Point
	Surface geom.Point
}

// State is everything a panel remembers between pointer events.
type State struct {
	Session Session
	Cursor  Cursor
}

// Dragging reports whether a press started a session that has not been released.
func (s State) Dragging() bool { return s.Session.Mode != None }

// Effects are the side effects an event asks the host to perform.
type Effects struct {
	// Cursor is valid when CursorChanged is set.
	Cursor        Cursor
	CursorChanged bool
	// Rect is the new panel geometry when RectChanged is set.
	Rect        geom.Rect
	RectChanged bool
	// Guides replaces the overlay's guide set when GuidesChanged is set; nil clears it.
	Guides        []geom.Line
	GuidesChanged bool
	// Moved asks the host to recompute its extents.
	Moved bool
}

func setCursor(st *State, fx *Effects, c Cursor) {
	if st.Cursor != c {
		st.Cursor = c
		fx.Cursor = c
		fx.CursorChanged = true
	}
}

// Press starts a session for the primary button. The mode comes from HitTest at
// the press point; other buttons leave the state untouched.
func Press(st State, ev Event, rect geom.Rect, env Env) (State, Effects) {
	var fx Effects
	if ev.Button != ButtonPrimary {
		return st, fx
	}
	st.Session = Session{
		Mode:   HitTest(ev.Local, rect.Size(), env.Margin),
		Anchor: ev.Surface,
		Start:  rect,
	}
	return st, fx
}

// PointerMove either refreshes the hover cursor (no session) or reports the
// unsnapped candidate rectangle for the active session.
func PointerMove(st State, ev Event, rect geom.Rect, env Env) (State, Effects) {
	var fx Effects
	if !st.Dragging() {
		setCursor(&st, &fx, CursorFor(HitTest(ev.Local, rect.Size(), env.Margin)))
		return st, fx
	}
	fx.Rect = Transform(st.Session, ev.Surface, env)
	fx.RectChanged = true
	fx.Moved = true
	return st, fx
}

// Release ends the session, clears the guides and asks the host to recompute extents.
func Release(st State, ev Event) (State, Effects) {
	var fx Effects
	if ev.Button != ButtonPrimary {
		return st, fx
	}
	st.Session = Session{}
	setCursor(&st, &fx, CursorDefault)
	fx.Guides = nil
	fx.GuidesChanged = true
	fx.Moved = true
	return st, fx
}

// Enter shows the cursor for the entry point unless a session is active.
func Enter(st State, ev Event, rect geom.Rect, env Env) (State, Effects) {
	var fx Effects
	if !st.Dragging() {
		setCursor(&st, &fx, CursorFor(HitTest(ev.Local, rect.Size(), env.Margin)))
	}
	return st, fx
}

// Leave resets the panel's own cursor. A session in progress keeps running
// because the pointer stays captured until release.
func Leave(st State) (State, Effects) {
	var fx Effects
	if st.Dragging() {
		return st, fx
	}
	setCursor(&st, &fx, CursorDefault)
	return st, fx
}

// Controller couples a panel's State with the snap pass. Env and Snap are
// refreshed by the host before each event.
type Controller struct {
	State State
	Env   Env
	Snap  snap.Options
}

// NewController returns an idle controller using env and the default snap threshold.
func NewController(env Env) *Controller {
	return &Controller{
		Env:  env,
		Snap: snap.Options{Threshold: snap.DefaultThreshold, MinSize: env.MinSize},
	}
}

func (c *Controller) Press(ev Event, rect geom.Rect) Effects {
	var fx Effects
	c.State, fx = Press(c.State, ev, rect, c.Env)
	return fx
}

// Move runs the drag transform and then snaps the candidate against the grid and
// the siblings. siblings must not contain the panel itself.
func (c *Controller) Move(ev Event, rect geom.Rect, grid int, siblings []geom.Rect) Effects {
	var fx Effects
	c.State, fx = PointerMove(c.State, ev, rect, c.Env)
	if !fx.RectChanged {
		return fx
	}
	opts := c.Snap
	opts.MinSize = c.Env.MinSize
	res := snap.Apply(fx.Rect, c.State.Session.Mode.Edges(), c.Env.Parent, grid, siblings, opts)
	fx.Rect = res.Rect
	fx.Guides = res.Guides
	fx.GuidesChanged = true
	return fx
}

func (c *Controller) Release(ev Event) Effects {
	var fx Effects
	c.State, fx = Release(c.State, ev)
	return fx
}

func (c *Controller) Enter(ev Event, rect geom.Rect) Effects {
	var fx Effects
	c.State, fx = Enter(c.State, ev, rect, c.Env)
	return fx
}

func (c *Controller) Leave() Effects {
	var fx Effects
	c.State, fx = Leave(c.State)
	return fx
}
