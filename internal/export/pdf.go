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
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"formcanvas/internal/layout"
	"formcanvas/internal/version"
)

// PDF writes doc as a single-page PDF. One layout unit is one point and the
// page origin is top-left, so coordinates map 1:1.
func PDF(w io.Writer, doc layout.Document, opt Options) error {
	opt = opt.withDefaults()
	size := CanvasSize(doc, opt)
	pw, ph := float64(size.W), float64(size.H)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pw, Ht: ph},
		// We'll set orientation automatically by size
		OrientationStr: "",
	})
	pdf.SetTitle("formcanvas layout", false)
	pdf.SetCreator("formcanvas "+version.String(), false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: pw, Ht: ph})

	setFillColor(pdf, opt.Background)
	pdf.Rect(0, 0, pw, ph, "F")

	if opt.Grid {
		setDrawColor(pdf, opt.GridColor)
		pdf.SetAlpha(opacity(opt.GridColor), "Normal")
		pdf.SetLineWidth(0.5)
		for x := 0; x <= size.W; x += opt.GridSize {
			pdf.Line(float64(x), 0, float64(x), ph)
		}
		for y := 0; y <= size.H; y += opt.GridSize {
			pdf.Line(0, float64(y), pw, float64(y))
		}
		pdf.SetAlpha(1, "Normal")
	}

	// Built-in Helvetica keeps text vector without embedding
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetLineWidth(1)
	for i, r := range doc {
		setFillColor(pdf, opt.PanelFill)
		setDrawColor(pdf, opt.PanelStroke)
		pdf.Rect(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), "FD")
		if opt.Labels {
			pdf.SetTextColor(int(opt.LabelColor.R), int(opt.LabelColor.G), int(opt.LabelColor.B))
			pdf.Text(float64(r.X+6), float64(r.Y+16), label(i, r))
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
