/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report plus an autosave of the open layout.
package crash

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"formcanvas/internal/layout"
	applog "formcanvas/internal/log"
	"formcanvas/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// snapshotTimeout bounds the autosave snapshot; the panic may have left the
// board locked.
var snapshotTimeout = 2 * time.Second

// Autosave describes what to rescue when the process panics.
type Autosave struct {
	// Path is the layout file being edited. Reports and autosaves go next to it;
	// when empty they go to the temp dir.
	Path string
	// Snapshot returns the current panels. May be nil.
	Snapshot func() layout.Document
}

func (a *Autosave) dir() string {
	if a != nil && a.Path != "" {
		return filepath.Dir(a.Path)
	}
	return os.TempDir()
}

// Recover captures a panic, logs an error with stacktrace,
// writes an error report file, and attempts a crash-safe autosave
// of the current layout (if provided).
//
// Usage: defer crash.Recover(a)
func Recover(a *Autosave) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(a, r, stack)
		if err != nil {
			l.Error("write crash report failed", slog.Any("err", err))
		}
		if a != nil && a.Snapshot != nil {
			if path, err := autosave(a); err != nil {
				l.Error("autosave crash snapshot failed", slog.Any("err", err))
			} else {
				l.Info("autosave crash snapshot written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

// autosave writes the snapshot as <name>.crash-<stamp>.json next to the layout.
func autosave(a *Autosave) (string, error) {
	ch := make(chan layout.Document, 1)
	go func() {
		defer func() { _ = recover() }()
		ch <- a.Snapshot()
	}()
	var doc layout.Document
	select {
	case doc = <-ch:
	case <-time.After(snapshotTimeout):
		return "", errors.New("snapshot timed out")
	}

	base := "formcanvas"
	if a.Path != "" {
		base = strings.TrimSuffix(filepath.Base(a.Path), filepath.Ext(a.Path))
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(a.dir(), fmt.Sprintf("%s.crash-%s.json", base, stamp))
	if err := layout.Save(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

func writeReport(a *Autosave, panicVal any, stack []byte) (string, error) {
	dir := a.dir()
	_ = os.MkdirAll(dir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	fname := fmt.Sprintf("crash-%s.log", stamp)
	path := filepath.Join(dir, fname)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "FormCanvas Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if a != nil && a.Path != "" {
		_, _ = fmt.Fprintf(&buf, "Layout: %s\n", a.Path)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}
