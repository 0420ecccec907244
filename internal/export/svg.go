/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"

	"formcanvas/internal/layout"
)

// SVG writes doc as a standalone SVG document. The viewBox uses layout units;
// width/height carry the scaled pixel size.
func SVG(w io.Writer, doc layout.Document, opt Options) error {
	opt = opt.withDefaults()
	size := CanvasSize(doc, opt)

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %d %d\">\n",
		scaled(size.W, opt.Scale), scaled(size.H, opt.Scale), size.W, size.H)
	wf("  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", size.W, size.H, hexColor(opt.Background))

	if opt.Grid {
		wf("  <g id=\"grid\" stroke=\"%s\" stroke-opacity=\"%.3f\" stroke-width=\"1\">\n", hexColor(opt.GridColor), opacity(opt.GridColor))
		for x := 0; x <= size.W; x += opt.GridSize {
			wf("    <line x1=\"%d\" y1=\"0\" x2=\"%d\" y2=\"%d\"/>\n", x, x, size.H)
		}
		for y := 0; y <= size.H; y += opt.GridSize {
			wf("    <line x1=\"0\" y1=\"%d\" x2=\"%d\" y2=\"%d\"/>\n", y, size.W, y)
		}
		wf("  </g>\n")
	}

	for i, r := range doc {
		wf("  <rect id=\"form-%d\" x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1\"/>\n",
			i+1, r.X, r.Y, r.W, r.H, hexColor(opt.PanelFill), hexColor(opt.PanelStroke))
		if opt.Labels {
			wf("  <text x=\"%d\" y=\"%d\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" fill=\"%s\">%s</text>\n",
				r.X+6, r.Y+18, hexColor(opt.LabelColor), escText(label(i, r)))
		}
	}
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
