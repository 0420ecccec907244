//go:build fyne && cgo

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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"formcanvas/internal/board"
	"formcanvas/internal/config"
	"formcanvas/internal/crash"
	"formcanvas/internal/export"
	"formcanvas/internal/layout"
	applog "formcanvas/internal/log"
	"formcanvas/internal/version"
)

const appTitle = "Form Canvas"

// Run starts the canvas editor. Pass an optional layout file to open immediately.
func Run(layoutPath string) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	cfg, _, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	b := board.New(BoardOptions(cfg.Editor))
	rescue := &crash.Autosave{Snapshot: func() layout.Document { return b.Rects() }}
	defer crash.Recover(rescue)

	fyneApp := app.NewWithID("formcanvas")
	w := fyneApp.NewWindow(appTitle)
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 1200), 800)
	winH := max(prefs.IntWithFallback("window.height", 800), 600)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	surface := NewSurface(b)
	scroll := container.NewScroll(surface)
	b.OnChange = func() {
		fyne.Do(func() {
			surface.Refresh()
			scroll.Refresh()
		})
	}

	var (
		current     string
		stopWatch   context.CancelFunc
		lastDir     fyne.ListableURI
		rememberDir = func(path string) {
			if u, err := fstorage.ListerForURI(fstorage.NewFileURI(filepath.Dir(path))); err == nil {
				lastDir = u
			}
		}
	)

	// warn reports a non-fatal layout failure; the board is left untouched.
	warn := func(title string, err error) {
		l.Warn(title, slog.Any("err", err))
		msg := err.Error()
		switch {
		case errors.Is(err, layout.ErrFormat):
			msg = "The file is not a layout document.\n\n" + msg
		case errors.Is(err, layout.ErrIO):
			msg = "The file could not be read or written.\n\n" + msg
		}
		dialog.ShowInformation(title, msg, w)
	}

	setCurrent := func(path string) {
		current = path
		rescue.Path = path
		w.SetTitle(fmt.Sprintf("%s - %s", appTitle, filepath.Base(path)))
		rememberDir(path)
	}

	// watch reloads the open file when another program changes it. Our own
	// saves trigger it too; those are skipped because nothing differs.
	watch := func(path string) {
		if stopWatch != nil {
			stopWatch()
		}
		ctx, cancel := context.WithCancel(context.Background())
		stopWatch = cancel
		go func() {
			err := layout.Watch(ctx, path, func() {
				doc, err := layout.Load(path)
				if err != nil {
					l.Debug("reload skipped", slog.String("path", path), slog.Any("err", err))
					return
				}
				if slices.Equal(doc, b.Rects()) {
					return
				}
				fyne.Do(func() {
					b.Load(doc)
					status.SetText("Reloaded " + filepath.Base(path))
				})
			})
			if err != nil && ctx.Err() == nil {
				l.Warn("layout watch stopped", slog.String("path", path), slog.Any("err", err))
			}
		}()
	}

	openLayout := func(path string) bool {
		doc, err := layout.Load(path)
		if err != nil {
			warn("Open Layout", err)
			return false
		}
		b.Load(doc)
		setCurrent(path)
		watch(path)
		status.SetText(fmt.Sprintf("Opened %s (%d forms)", filepath.Base(path), len(doc)))
		return true
	}

	saveLayout := func(path string) error {
		if err := layout.Save(path, b.Rects()); err != nil {
			warn("Save Layout", err)
			return err
		}
		if path != current {
			setCurrent(path)
			watch(path)
		}
		status.SetText("Saved " + filepath.Base(path))
		return nil
	}

	jsonFilter := fstorage.NewExtensionFileFilter([]string{".json"})

	addForm := func() {
		p := b.Add()
		status.SetText("Added " + p.ID)
	}
	addWide := func() {
		p := b.AddWide()
		status.SetText("Added " + p.ID)
	}
	openAction := func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			openLayout(path)
		}, w)
		fd.SetFilter(jsonFilter)
		if lastDir != nil {
			fd.SetLocation(lastDir)
		}
		fd.Show()
	}
	saveAsAction := func() {
		fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			path := uc.URI().Path()
			_ = uc.Close()
			_ = writeChosen(path, saveLayout)
		}, w)
		fd.SetFileName("layout.json")
		fd.SetFilter(jsonFilter)
		if lastDir != nil {
			fd.SetLocation(lastDir)
		}
		fd.Show()
	}
	saveAction := func() {
		if current == "" {
			saveAsAction()
			return
		}
		_ = saveLayout(current)
	}
	exportAction := func() {
		fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			path := uc.URI().Path()
			_ = uc.Close()
			err = writeChosen(path, func(p string) error {
				return export.File(p, b.Rects(), ExportOptions(cfg.Editor))
			})
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Exported to " + path)
		}, w)
		fd.SetFileName("layout.png")
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".svg", ".pdf", ".zip"}))
		if lastDir != nil {
			fd.SetLocation(lastDir)
		}
		fd.Show()
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), addForm),
		widget.NewToolbarAction(theme.ViewFullScreenIcon(), addWide),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), openAction),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), saveAction),
		widget.NewToolbarAction(theme.DownloadIcon(), exportAction),
	)

	openItem := fyne.NewMenuItem("Open Layout…", openAction)
	saveItem := fyne.NewMenuItem("Save Layout", saveAction)
	saveAsItem := fyne.NewMenuItem("Save Layout As…", saveAsAction)
	exportItem := fyne.NewMenuItem("Export…", exportAction)
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	addItem := fyne.NewMenuItem("Add Form", addForm)
	addWideItem := fyne.NewMenuItem("Add Wide Form", addWide)
	addItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierControl}
	aboutItem := fyne.NewMenuItem("About", func() {
		dialog.ShowInformation("About", fmt.Sprintf("%s %s", appTitle, version.String()), w)
	})
	w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File", openItem, saveItem, saveAsItem, fyne.NewMenuItemSeparator(), exportItem),
		fyne.NewMenu("Forms", addItem, addWideItem),
		fyne.NewMenu("Help", aboutItem),
	))

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, scroll))

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		if stopWatch != nil {
			stopWatch()
		}
		w.Close()
	})

	if layoutPath != "" && !openLayout(layoutPath) {
		l.Error("auto-open layout failed", slog.String("path", layoutPath))
	}

	w.ShowAndRun()
	return nil
}
