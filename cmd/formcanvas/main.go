/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"formcanvas/internal/config"
	"formcanvas/internal/crash"
	"formcanvas/internal/export"
	"formcanvas/internal/geom"
	"formcanvas/internal/layout"
	applog "formcanvas/internal/log"
	"formcanvas/internal/store"
	"formcanvas/internal/ui"
	"formcanvas/internal/version"
)

func usage(out io.Writer) {
	_, _ = fmt.Fprintln(out, "Form Canvas - layout editor for movable forms")
	_, _ = fmt.Fprintf(out, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Usage:")
	_, _ = fmt.Fprintln(out, "  formcanvas version|-v|--version               Show version")
	_, _ = fmt.Fprintln(out, "  formcanvas check <layout.json>                Validate a layout and print its forms")
	_, _ = fmt.Fprintln(out, "  formcanvas export <layout.json> <out>         Render to .png, .svg, .pdf or .zip")
	_, _ = fmt.Fprintln(out, "  formcanvas batch <layout.json> <preset> <dir>  Render with a preset (screen|print)")
	_, _ = fmt.Fprintln(out, "  formcanvas store list                         List stored layouts")
	_, _ = fmt.Fprintln(out, "  formcanvas store save <name> <layout.json>    Store a layout file under <name>")
	_, _ = fmt.Fprintln(out, "  formcanvas store load <name> <layout.json>    Write a stored layout to a file")
	_, _ = fmt.Fprintln(out, "  formcanvas store delete <name>                Remove a stored layout")
	_, _ = fmt.Fprintln(out, "  formcanvas store password <secret>|--forget   Keep the database password in the OS keychain")
	_, _ = fmt.Fprintln(out, "  formcanvas ui [<layout.json>]                 Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	if code := run(os.Args[1:], os.Stdout); code != 0 {
		os.Exit(code)
	}
}

// run executes one command and returns the process exit code.
func run(args []string, out io.Writer) int {
	cfg, password, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}
	rescue := &crash.Autosave{}
	defer crash.Recover(rescue)

	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(out)
		return 0
	}
	fail := func(op string, err error) int {
		l.Error(op+" failed", slog.Any("err", err))
		_, _ = fmt.Fprintln(out, "Error:", err)
		return 1
	}
	need := func(n int, what string) bool {
		if len(args) < n {
			_, _ = fmt.Fprintf(out, "%s requires %s\n", args[0], what)
			usage(out)
			return false
		}
		return true
	}

	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(out, "Form Canvas")
		_, _ = fmt.Fprintln(out, version.String())
		return 0
	case "check":
		if !need(2, "<layout.json>") {
			return 2
		}
		rescue.Path = args[1]
		doc, err := layout.Load(args[1])
		if err != nil {
			return fail("check", err)
		}
		size := doc.Bounds(cfg.Editor.ExtentMargin, geom.Size{W: cfg.Editor.CanvasWidth, H: cfg.Editor.CanvasHeight})
		_, _ = fmt.Fprintf(out, "%d forms, canvas %dx%d\n", len(doc), size.W, size.H)
		for i, r := range doc {
			_, _ = fmt.Fprintf(out, "  form-%d  %s\n", i+1, r)
		}
		return 0
	case "export":
		if !need(3, "<layout.json> and <out>") {
			return 2
		}
		rescue.Path = args[1]
		doc, err := layout.Load(args[1])
		if err != nil {
			return fail("export", err)
		}
		if err := export.File(args[2], doc, ui.ExportOptions(cfg.Editor)); err != nil {
			return fail("export", err)
		}
		_, _ = fmt.Fprintln(out, "Exported to", args[2])
		return 0
	case "batch":
		if !need(4, "<layout.json>, <preset> and <dir>") {
			return 2
		}
		rescue.Path = args[1]
		doc, err := layout.Load(args[1])
		if err != nil {
			return fail("batch", err)
		}
		base := strings.TrimSuffix(filepath.Base(args[1]), filepath.Ext(args[1]))
		written, err := export.BatchExport(doc, export.BatchOptions{
			Preset:   export.PresetName(strings.ToLower(args[2])),
			OutDir:   args[3],
			BaseName: base,
		})
		for _, p := range written {
			_, _ = fmt.Fprintln(out, "Exported to", p)
		}
		if err != nil {
			return fail("batch", err)
		}
		return 0
	case "store":
		return runStore(args[1:], cfg, password, out, fail)
	case "ui":
		var path string
		if len(args) >= 2 {
			path = args[1]
		}
		if err := ui.Run(path); err != nil {
			_, _ = fmt.Fprintln(out, "Error:", err)
			return 1
		}
		return 0
	}

	usage(out)
	return 2
}

func runStore(args []string, cfg config.AppConfig, password string, out io.Writer, fail func(string, error) int) int {
	if len(args) == 0 {
		usage(out)
		return 2
	}
	if args[0] == "password" {
		if len(args) < 2 {
			usage(out)
			return 2
		}
		if args[1] == "--forget" {
			if err := config.ForgetPassword(); err != nil {
				return fail("forget password", err)
			}
			_, _ = fmt.Fprintln(out, "Password removed from the keychain.")
			return 0
		}
		if err := config.Save(cfg, args[1]); err != nil {
			return fail("save password", err)
		}
		_, _ = fmt.Fprintln(out, "Password stored in the keychain.")
		return 0
	}

	dsn, err := cfg.Store.StoreDSN()
	if err != nil {
		return fail("store", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s, err := store.Open(ctx, store.Config{Driver: cfg.Store.Driver, DSN: dsn, Password: password})
	if err != nil {
		return fail("open store", err)
	}
	defer func() { _ = s.Close() }()

	switch {
	case args[0] == "list":
		entries, err := s.List(ctx)
		if err != nil {
			return fail("list", err)
		}
		if len(entries) == 0 {
			_, _ = fmt.Fprintln(out, "(no stored layouts)")
			return 0
		}
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Name", "Forms", "Updated"})
		for _, e := range entries {
			t.AppendRow(table.Row{e.Name, e.Panels, e.UpdatedAt.Local().Format(time.DateTime)})
		}
		t.Render()
		return 0
	case args[0] == "save" && len(args) >= 3:
		doc, err := layout.Load(args[2])
		if err != nil {
			return fail("store save", err)
		}
		if err := s.Put(ctx, args[1], doc); err != nil {
			return fail("store save", err)
		}
		_, _ = fmt.Fprintf(out, "Stored %d forms as %q\n", len(doc), args[1])
		return 0
	case args[0] == "load" && len(args) >= 3:
		doc, err := s.Get(ctx, args[1])
		if err != nil {
			return fail("store load", err)
		}
		if err := layout.Save(args[2], doc); err != nil {
			return fail("store load", err)
		}
		_, _ = fmt.Fprintf(out, "Wrote %q to %s\n", args[1], args[2])
		return 0
	case args[0] == "delete" && len(args) >= 2:
		if err := s.Delete(ctx, args[1]); err != nil {
			return fail("store delete", err)
		}
		_, _ = fmt.Fprintf(out, "Deleted %q\n", args[1])
		return 0
	}
	usage(out)
	return 2
}
