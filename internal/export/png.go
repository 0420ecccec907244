/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"formcanvas/internal/layout"
)

// RenderImage rasterizes doc onto a new RGBA image.
func RenderImage(doc layout.Document, opt Options) *image.RGBA {
	opt = opt.withDefaults()
	size := CanvasSize(doc, opt)
	s := opt.Scale
	pixW, pixH := scaled(size.W, s), scaled(size.H, s)

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opt.Background}, image.Point{}, draw.Src)

	if opt.Grid {
		gc := &image.Uniform{C: opt.GridColor}
		for x := 0; x <= size.W; x += opt.GridSize {
			px := scaled(x, s)
			draw.Draw(img, image.Rect(px, 0, px+1, pixH), gc, image.Point{}, draw.Over)
		}
		for y := 0; y <= size.H; y += opt.GridSize {
			py := scaled(y, s)
			draw.Draw(img, image.Rect(0, py, pixW, py+1), gc, image.Point{}, draw.Over)
		}
	}

	face := basicfont.Face7x13
	for i, r := range doc {
		x0, y0 := scaled(r.X, s), scaled(r.Y, s)
		x1, y1 := scaled(r.Right(), s)-1, scaled(r.Bottom(), s)-1
		draw.Draw(img, image.Rect(x0, y0, x1+1, y1+1), &image.Uniform{C: opt.PanelFill}, image.Point{}, draw.Over)
		strokeRect(img, x0, y0, x1, y1, opt.PanelStroke)
		if opt.Labels {
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(opt.LabelColor),
				Face: face,
				Dot:  fixed.P(x0+6, y0+6+face.Ascent),
			}
			d.DrawString(label(i, r))
		}
	}
	return img
}

// PNG writes doc as a PNG image.
func PNG(w io.Writer, doc layout.Document, opt Options) error {
	if err := png.Encode(w, RenderImage(doc, opt)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
// Pixels outside the image are dropped by SetRGBA.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	// top and bottom
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	// left and right
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}
