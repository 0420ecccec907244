/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"formcanvas/internal/layout"
	applog "formcanvas/internal/log"
)

// ErrUnknownFormat is returned for output paths whose extension has no renderer.
var ErrUnknownFormat = errors.New("unknown export format")

// Writer renders a document into w.
type Writer func(w io.Writer, doc layout.Document, opt Options) error

var writers = map[string]Writer{
	".png": PNG,
	".svg": SVG,
	".pdf": PDF,
	".zip": Bundle,
}

// WriterFor returns the renderer for a file extension such as ".png".
func WriterFor(ext string) (Writer, error) {
	wr, ok := writers[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return wr, nil
}

// File renders doc into path; the format follows the file extension.
func File(path string, doc layout.Document, opt Options) (err error) {
	wr, err := WriterFor(filepath.Ext(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", filepath.Base(path), cerr)
		}
	}()
	if err := wr(f, doc, opt); err != nil {
		return err
	}
	applog.WithComponent("export").Info("exported", slog.String("path", path), slog.Int("panels", len(doc)))
	return nil
}
