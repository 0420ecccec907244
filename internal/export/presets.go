/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"formcanvas/internal/geom"
	"formcanvas/internal/layout"
)

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetScreen matches the editor: dark background, grid and labels.
	PresetScreen PresetName = "screen"
	// PresetPrint is white, without grid, cropped to the panels and rendered at double scale.
	PresetPrint PresetName = "print"
)

// Preset returns the options for a named preset. Unknown names yield DefaultOptions.
func Preset(name PresetName) Options {
	switch name {
	case PresetPrint:
		return Options{
			Scale:       2,
			Margin:      20,
			MinSize:     geom.Size{},
			Grid:        false,
			GridSize:    20,
			Labels:      true,
			Background:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
			GridColor:   color.RGBA{R: 0, G: 0, B: 0, A: 30},
			PanelFill:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
			PanelStroke: color.RGBA{R: 0, G: 0, B: 0, A: 255},
			LabelColor:  color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 255},
		}
	default:
		return DefaultOptions()
	}
}

// BatchOptions controls export of one layout into several formats at once.
//
// Path semantics: files are named <BaseName>.<format> inside OutDir, which is
// created when missing. An empty BaseName becomes "layout".
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset   PresetName
	Formats  []string // allowed: png, svg, pdf, zip; empty means preset defaults
	OutDir   string
	BaseName string
	// Grid, when set, overrides the preset's default for the background grid.
	Grid *bool
}

// BatchExport writes doc in every requested format and returns the written paths.
func BatchExport(doc layout.Document, opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	base := strings.TrimSpace(opt.BaseName)
	if base == "" {
		base = "layout"
	}
	if err := os.MkdirAll(opt.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}
	ro := Preset(opt.Preset)
	if opt.Grid != nil {
		ro.Grid = *opt.Grid
	}

	var written []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		out := filepath.Join(opt.OutDir, base+"."+f)
		if err := File(out, doc, ro); err != nil {
			return written, fmt.Errorf("%s: %w", f, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetPrint:
		return []string{"pdf", "svg"}
	default:
		return []string{"png"}
	}
}
