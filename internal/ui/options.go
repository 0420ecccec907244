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
	"formcanvas/internal/board"
	"formcanvas/internal/config"
	"formcanvas/internal/export"
	"formcanvas/internal/geom"
)

// BoardOptions maps the editor section of the user config onto board options.
// Non-positive values keep the board defaults.
func BoardOptions(e config.EditorConfig) board.Options {
	return board.Options{
		GridSize:      e.GridSize,
		Margin:        e.HandleMargin,
		MinPanel:      geom.Size{W: e.MinWidth, H: e.MinHeight},
		SnapThreshold: e.SnapThreshold,
		SnapDisabled:  !e.SnapEnabled,
		ExtentMargin:  e.ExtentMargin,
		MinCanvas:     geom.Size{W: e.CanvasWidth, H: e.CanvasHeight},
	}
}

// ExportOptions renders a layout with the same grid and extents the editor uses.
func ExportOptions(e config.EditorConfig) export.Options {
	o := export.DefaultOptions()
	if e.GridSize > 0 {
		o.GridSize = e.GridSize
	}
	if e.ExtentMargin > 0 {
		o.Margin = e.ExtentMargin
	}
	if e.CanvasWidth > 0 && e.CanvasHeight > 0 {
		o.MinSize = geom.Size{W: e.CanvasWidth, H: e.CanvasHeight}
	}
	return o
}
