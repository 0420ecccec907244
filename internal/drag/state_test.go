/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formcanvas/internal/geom"
)

func press(local, surface geom.Point) Event {
	return Event{Button: ButtonPrimary, Local: local, Surface: surface}
}

func TestPress_PrimaryStartsSession(t *testing.T) {
	rect := geom.R(100, 100, 300, 200)
	env := DefaultEnv(geom.R(0, 0, 1000, 800))

	st, fx := Press(State{}, press(geom.Pt(150, 100), geom.Pt(250, 200)), rect, env)
	require.True(t, st.Dragging())
	assert.Equal(t, Session{Mode: Move, Anchor: geom.Pt(250, 200), Start: rect}, st.Session)
	assert.Equal(t, Effects{}, fx)

	st, _ = Press(State{}, press(geom.Pt(299, 199), geom.Pt(399, 299)), rect, env)
	assert.Equal(t, ResizeBottomRight, st.Session.Mode)
}

func TestPress_OtherButtonsIgnored(t *testing.T) {
	ev := Event{Button: ButtonSecondary, Local: geom.Pt(150, 100)}
	st, fx := Press(State{}, ev, geom.R(0, 0, 300, 200), DefaultEnv(geom.Rect{}))
	assert.False(t, st.Dragging())
	assert.Equal(t, Effects{}, fx)
}

func TestPointerMove_DraggingReportsCandidate(t *testing.T) {
	rect := geom.R(100, 100, 300, 200)
	env := DefaultEnv(geom.R(0, 0, 1000, 800))
	st, _ := Press(State{}, press(geom.Pt(150, 100), geom.Pt(250, 200)), rect, env)

	st, fx := PointerMove(st, Event{Surface: geom.Pt(260, 215)}, rect, env)
	assert.True(t, fx.RectChanged)
	assert.True(t, fx.Moved)
	assert.Equal(t, geom.R(110, 115, 300, 200), fx.Rect)
	assert.False(t, fx.CursorChanged)
	assert.True(t, st.Dragging())
}

func TestPointerMove_IdleOnlyUpdatesCursor(t *testing.T) {
	rect := geom.R(0, 0, 300, 200)
	env := DefaultEnv(geom.Rect{})

	st, fx := PointerMove(State{}, Event{Local: geom.Pt(0, 0)}, rect, env)
	assert.False(t, st.Dragging())
	assert.False(t, fx.RectChanged)
	assert.True(t, fx.CursorChanged)
	assert.Equal(t, CursorResizeNWSE, fx.Cursor)

	// same zone: nothing to report
	st, fx = PointerMove(st, Event{Local: geom.Pt(2, 3)}, rect, env)
	assert.False(t, fx.CursorChanged)

	st, fx = PointerMove(st, Event{Local: geom.Pt(299, 0)}, rect, env)
	assert.Equal(t, CursorResizeNESW, fx.Cursor)

	_, fx = PointerMove(st, Event{Local: geom.Pt(150, 100)}, rect, env)
	assert.True(t, fx.CursorChanged)
	assert.Equal(t, CursorDefault, fx.Cursor)
}

func TestRelease_EndsSessionAndClearsGuides(t *testing.T) {
	rect := geom.R(100, 100, 300, 200)
	env := DefaultEnv(geom.R(0, 0, 1000, 800))
	st, _ := Enter(State{}, Event{Local: geom.Pt(0, 100)}, rect, env)
	require.Equal(t, CursorResizeHorizontal, st.Cursor)
	st, _ = Press(st, press(geom.Pt(0, 100), geom.Pt(100, 200)), rect, env)

	st, fx := Release(st, Event{Button: ButtonPrimary})
	assert.False(t, st.Dragging())
	assert.True(t, fx.GuidesChanged)
	assert.Nil(t, fx.Guides)
	assert.True(t, fx.Moved)
	assert.True(t, fx.CursorChanged)
	assert.Equal(t, CursorDefault, st.Cursor)
}

func TestRelease_OtherButtonKeepsSession(t *testing.T) {
	rect := geom.R(0, 0, 300, 200)
	st, _ := Press(State{}, press(geom.Pt(150, 100), geom.Pt(150, 100)), rect, DefaultEnv(geom.Rect{}))
	st, fx := Release(st, Event{Button: ButtonTertiary})
	assert.True(t, st.Dragging())
	assert.Equal(t, Effects{}, fx)
}

func TestLeave_ResetsCursorWhenIdle(t *testing.T) {
	rect := geom.R(0, 0, 300, 200)
	env := DefaultEnv(geom.Rect{})
	st, fx := Enter(State{}, Event{Local: geom.Pt(150, 0)}, rect, env)
	assert.Equal(t, CursorResizeVertical, fx.Cursor)

	st, fx = Leave(st)
	assert.True(t, fx.CursorChanged)
	assert.Equal(t, CursorDefault, st.Cursor)
}

func TestLeave_DuringDragKeepsSession(t *testing.T) {
	rect := geom.R(0, 0, 300, 200)
	env := DefaultEnv(geom.Rect{})
	st, _ := Enter(State{}, Event{Local: geom.Pt(0, 100)}, rect, env)
	st, _ = Press(st, press(geom.Pt(0, 100), geom.Pt(0, 100)), rect, env)

	st, fx := Leave(st)
	assert.True(t, st.Dragging())
	assert.Equal(t, CursorResizeHorizontal, st.Cursor)
	assert.Equal(t, Effects{}, fx)

	// entering again mid-drag does not replace the drag cursor
	st, fx = Enter(st, Event{Local: geom.Pt(150, 100)}, rect, env)
	assert.False(t, fx.CursorChanged)
	assert.Equal(t, CursorResizeHorizontal, st.Cursor)
}

func TestController_MoveSnapsToGrid(t *testing.T) {
	ctl := NewController(Env{Margin: DefaultMargin, MinSize: geom.Size{W: 50, H: 50}, Parent: geom.R(0, 0, 500, 500)})
	rect := geom.R(10, 10, 100, 100)
	ctl.Press(press(geom.Pt(50, 50), geom.Pt(60, 60)), rect)

	fx := ctl.Move(Event{Surface: geom.Pt(68, 60)}, rect, 20, nil)
	assert.Equal(t, geom.R(20, 10, 100, 100), fx.Rect)
	assert.True(t, fx.GuidesChanged)
	assert.Equal(t, []geom.Line{geom.VLine(20, 0, 500)}, fx.Guides)

	fx = ctl.Release(Event{Button: ButtonPrimary})
	assert.True(t, fx.GuidesChanged)
	assert.Empty(t, fx.Guides)
	assert.False(t, ctl.State.Dragging())
}

func TestController_ResizeSnapsToSibling(t *testing.T) {
	ctl := NewController(DefaultEnv(geom.R(0, 0, 1400, 900)))
	rect := geom.R(100, 100, 300, 200)
	sibling := geom.R(505, 100, 300, 200)
	ctl.Press(press(geom.Pt(299, 100), geom.Pt(399, 200)), rect)
	require.Equal(t, ResizeRight, ctl.State.Session.Mode)

	fx := ctl.Move(Event{Surface: geom.Pt(502, 200)}, rect, 20, []geom.Rect{sibling})
	assert.Equal(t, geom.FromEdges(100, 100, 505, 300), fx.Rect)
	assert.Equal(t, []geom.Line{geom.VLine(505, 0, 900)}, fx.Guides)
}

func TestController_IdleMoveHasNoGuides(t *testing.T) {
	ctl := NewController(DefaultEnv(geom.R(0, 0, 500, 500)))
	fx := ctl.Move(Event{Local: geom.Pt(1, 1)}, geom.R(0, 0, 300, 200), 20, nil)
	assert.False(t, fx.GuidesChanged)
	assert.Equal(t, CursorResizeNWSE, fx.Cursor)
}

func TestController_ClampedResizeGuideMatchesEdge(t *testing.T) {
	ctl := NewController(DefaultEnv(geom.R(0, 0, 1000, 900)))
	rect := geom.R(100, 700, 300, 180)
	ctl.Press(press(geom.Pt(150, 2), geom.Pt(250, 702)), rect)
	require.Equal(t, ResizeTop, ctl.State.Session.Mode)

	// the height floor pushes the bottom to 960, the parent pulls it back to 900
	fx := ctl.Move(Event{Surface: geom.Pt(250, 802)}, rect, 20, nil)
	assert.Equal(t, geom.R(100, 740, 300, 160), fx.Rect)
	assert.Equal(t, []geom.Line{geom.HLine(740, 0, 1000)}, fx.Guides)
}
