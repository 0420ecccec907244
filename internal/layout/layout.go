/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layout reads and writes layout documents: a JSON array of panel
// rectangles {x, y, w, h}. Loading repairs missing sizes instead of failing;
// only unreadable files and non-array documents are errors.
package layout

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"formcanvas/internal/geom"
)

const (
	// DefaultWidth and DefaultHeight replace a missing or zero w/h on load.
	DefaultWidth  = 420
	DefaultHeight = 280
)

var (
	// ErrIO means the layout file could not be read or written.
	ErrIO = errors.New("layout i/o failure")
	// ErrFormat means the content is not a JSON array.
	ErrFormat = errors.New("layout format failure")
)

//go:embed layout.schema.json
var schemaJSON []byte

var schema = gojsonschema.NewBytesLoader(schemaJSON)

// Document is the ordered list of panel rectangles.
type Document []geom.Rect

type entry struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Encode serializes doc as an indented JSON array with a trailing newline.
func Encode(doc Document) ([]byte, error) {
	out := make([]entry, len(doc))
	for i, r := range doc {
		out[i] = entry{X: r.X, Y: r.Y, W: r.W, H: r.H}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a layout document. Non-object elements are skipped and field
// values that are missing or not integers read as zero. A zero width or height
// takes the default, then both are floored at 1.
func Decode(data []byte) (Document, error) {
	res, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrFormat, strings.Join(msgs, "; "))
	}
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	doc := make(Document, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		r := geom.R(intField(obj, "x"), intField(obj, "y"), intField(obj, "w"), intField(obj, "h"))
		if r.W == 0 {
			r.W = DefaultWidth
		}
		if r.H == 0 {
			r.H = DefaultHeight
		}
		r.W = max(r.W, 1)
		r.H = max(r.H, 1)
		doc = append(doc, r)
	}
	return doc, nil
}

func intField(obj map[string]any, key string) int {
	f, ok := obj[key].(float64)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// Load reads and decodes the layout file at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	return Decode(data)
}

// Save writes doc to path. The file is replaced in one step: the data goes to a
// temp file in the same directory which is synced and renamed over path.
func Save(path string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("%w: write temp layout: %w", ErrIO, err)
	}
	// Rename replaces atomically everywhere but Windows, which refuses an existing target.
	if runtime.GOOS == "windows" {
		if _, err := os.Stat(path); err == nil {
			_ = os.Remove(path)
		}
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("%w: replace %s: %w", ErrIO, path, err)
	}
	return nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// Bounds returns the smallest rectangle anchored at the origin that contains every
// panel plus margin on the right and bottom, and is at least minSize.
func (d Document) Bounds(margin int, minSize geom.Size) geom.Size {
	s := minSize
	for _, r := range d {
		s.W = max(s.W, r.Right()+margin)
		s.H = max(s.H, r.Bottom()+margin)
	}
	return s
}
