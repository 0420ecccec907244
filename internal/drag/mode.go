/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package drag implements the per-panel move/resize interaction: hit testing for
// the resize affordances, cursor feedback and the rectangle math applied while
// the pointer is held down. Event handlers are pure functions over State so the
// behavior does not depend on any toolkit's event dispatch.
package drag

import "formcanvas/internal/snap"

const (
	// DefaultMargin is the width of the resize band along each panel edge.
	DefaultMargin = 8
	// DefaultMinWidth and DefaultMinHeight are the smallest size a panel can be dragged to.
	DefaultMinWidth  = 260
	DefaultMinHeight = 160
)

// Mode is the active manipulation of a drag session.
type Mode int

const (
	None Mode = iota
	Move
	ResizeLeft
	ResizeRight
	ResizeTop
	ResizeBottom
	ResizeTopLeft
	ResizeTopRight
	ResizeBottomLeft
	ResizeBottomRight
)

var modeNames = [...]string{
	None:              "none",
	Move:              "move",
	ResizeLeft:        "resize-left",
	ResizeRight:       "resize-right",
	ResizeTop:         "resize-top",
	ResizeBottom:      "resize-bottom",
	ResizeTopLeft:     "resize-top-left",
	ResizeTopRight:    "resize-top-right",
	ResizeBottomLeft:  "resize-bottom-left",
	ResizeBottomRight: "resize-bottom-right",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Edges returns the rectangle edges the mode moves, in the form the snap engine expects.
func (m Mode) Edges() snap.Edges {
	switch m {
	case Move:
		return snap.AllEdges
	case ResizeLeft:
		return snap.Left
	case ResizeRight:
		return snap.Right
	case ResizeTop:
		return snap.Top
	case ResizeBottom:
		return snap.Bottom
	case ResizeTopLeft:
		return snap.Top | snap.Left
	case ResizeTopRight:
		return snap.Top | snap.Right
	case ResizeBottomLeft:
		return snap.Bottom | snap.Left
	case ResizeBottomRight:
		return snap.Bottom | snap.Right
	}
	return 0
}

// Cursor is the pointer shape a panel asks its host to show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorResizeHorizontal
	CursorResizeVertical
	// CursorResizeNWSE is the diagonal for the top-left/bottom-right corners.
	CursorResizeNWSE
	// CursorResizeNESW is the diagonal for the top-right/bottom-left corners.
	CursorResizeNESW
)

func (c Cursor) String() string {
	switch c {
	case CursorResizeHorizontal:
		return "resize-horizontal"
	case CursorResizeVertical:
		return "resize-vertical"
	case CursorResizeNWSE:
		return "resize-nwse"
	case CursorResizeNESW:
		return "resize-nesw"
	}
	return "default"
}

// CursorFor maps a hit-test result to its cursor.
func CursorFor(m Mode) Cursor {
	switch m {
	case ResizeTopLeft, ResizeBottomRight:
		return CursorResizeNWSE
	case ResizeTopRight, ResizeBottomLeft:
		return CursorResizeNESW
	case ResizeLeft, ResizeRight:
		return CursorResizeHorizontal
	case ResizeTop, ResizeBottom:
		return CursorResizeVertical
	}
	return CursorDefault
}
