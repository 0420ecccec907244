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
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formcanvas/internal/geom"
	"formcanvas/internal/layout"
)

var sample = layout.Document{geom.R(40, 40, 420, 280), geom.R(60, 360, 720, 300)}

func TestCanvasSize(t *testing.T) {
	assert.Equal(t, geom.Size{W: 1400, H: 900}, CanvasSize(sample, DefaultOptions()))
	wide := layout.Document{geom.R(1500, 10, 420, 280)}
	assert.Equal(t, geom.Size{W: 1960, H: 900}, CanvasSize(wide, DefaultOptions()))
	assert.Equal(t, geom.Size{W: 800, H: 680}, CanvasSize(sample, Options{Margin: 20}))
	assert.Equal(t, geom.Size{W: 1, H: 1}, CanvasSize(nil, Options{}))
}

func TestPNG_DrawsPanels(t *testing.T) {
	var buf bytes.Buffer
	opt := DefaultOptions()
	require.NoError(t, PNG(&buf, sample, opt))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1400, img.Bounds().Dx())
	assert.Equal(t, 900, img.Bounds().Dy())

	// border pixel of the first panel
	r, g, b, _ := img.At(40, 200).RGBA()
	assert.Equal(t, [3]uint32{uint32(opt.PanelStroke.R), uint32(opt.PanelStroke.G), uint32(opt.PanelStroke.B)}, [3]uint32{r >> 8, g >> 8, b >> 8})
	// interior pixel away from grid lines and labels
	r, g, b, _ = img.At(251, 251).RGBA()
	assert.Equal(t, [3]uint32{uint32(opt.PanelFill.R), uint32(opt.PanelFill.G), uint32(opt.PanelFill.B)}, [3]uint32{r >> 8, g >> 8, b >> 8})
	// background outside panels and grid
	r, g, b, _ = img.At(1301, 1).RGBA()
	assert.Equal(t, [3]uint32{uint32(opt.Background.R), uint32(opt.Background.G), uint32(opt.Background.B)}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestPNG_Scale(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, sample, Preset(PresetPrint)))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2*800, img.Bounds().Dx())
	assert.Equal(t, 2*680, img.Bounds().Dy())
}

func TestSVG_ContainsPanelsAndGrid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, sample, DefaultOptions()))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `viewBox="0 0 1400 900"`)
	assert.Contains(t, out, `<rect id="form-1" x="40" y="40" width="420" height="280"`)
	assert.Contains(t, out, `<rect id="form-2" x="60" y="360" width="720" height="300"`)
	assert.Contains(t, out, `id="grid"`)
	assert.Contains(t, out, "form-2  720x300")

	buf.Reset()
	require.NoError(t, SVG(&buf, sample, Options{}))
	assert.NotContains(t, buf.String(), `id="grid"`)
	assert.NotContains(t, buf.String(), "<text")
}

func TestPDF_WritesDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, sample, DefaultOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestBundle_HasAllEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Bundle(&buf, sample, DefaultOptions()))
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"layout.json", "layout.png", "layout.svg", "layout.pdf"}, names)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	var js bytes.Buffer
	_, err = js.ReadFrom(rc)
	require.NoError(t, err)
	doc, err := layout.Decode(js.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sample, doc)
}

func TestFile_PicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.SVG", "c.pdf", "nested/d.zip"} {
		path := filepath.Join(dir, name)
		require.NoError(t, File(path, sample, DefaultOptions()), name)
		st, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, st.Size())
	}
	err := File(filepath.Join(dir, "e.gif"), sample, DefaultOptions())
	require.ErrorIs(t, err, ErrUnknownFormat)
	_, statErr := os.Stat(filepath.Join(dir, "e.gif"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBatchExport_PresetDefaults(t *testing.T) {
	dir := t.TempDir()
	paths, err := BatchExport(sample, BatchOptions{Preset: PresetPrint, OutDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "layout.pdf"), filepath.Join(dir, "layout.svg")}, paths)

	grid := true
	paths, err = BatchExport(sample, BatchOptions{Formats: []string{" PNG ", "zip"}, OutDir: dir, BaseName: "main", Grid: &grid})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "main.png"), filepath.Join(dir, "main.zip")}, paths)

	_, err = BatchExport(sample, BatchOptions{Formats: []string{"bmp"}, OutDir: dir})
	require.ErrorIs(t, err, ErrUnknownFormat)
}
