/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"fmt"
	"io"
	"time"

	"formcanvas/internal/layout"
)

// Bundle writes a zip archive holding the layout JSON and its PNG, SVG and PDF renderings.
func Bundle(w io.Writer, doc layout.Document, opt Options) error {
	zw := zip.NewWriter(w)
	now := time.Now()

	data, err := layout.Encode(doc)
	if err != nil {
		return err
	}
	entries := []struct {
		name   string
		render func(io.Writer) error
	}{
		{"layout.json", func(w io.Writer) error { _, err := w.Write(data); return err }},
		{"layout.png", func(w io.Writer) error { return PNG(w, doc, opt) }},
		{"layout.svg", func(w io.Writer) error { return SVG(w, doc, opt) }},
		{"layout.pdf", func(w io.Writer) error { return PDF(w, doc, opt) }},
	}
	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			_ = zw.Close()
			return fmt.Errorf("zip add %s: %w", e.name, err)
		}
		if err := e.render(fw); err != nil {
			_ = zw.Close()
			return fmt.Errorf("zip write %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip close: %w", err)
	}
	return nil
}
