/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log configures the editor's slog logger: one compact console line per
// record, an optional rotating JSON file, and attributes taken from the context
// so drag and layout records say which panel and file they concern.
package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"formcanvas/internal/version"
)

// Options controls logger initialization. FromEnv fills it from:
//   - FC_LOG_LEVEL=debug|info|warn|error
//   - FC_LOG_FORMAT=console|json
//   - FC_LOG_FILE=<path> (adds a rotated JSON file)
//   - FC_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string
	// Console receives the console stream; nil means stderr.
	Console io.Writer
}

const (
	EnvLevel  = "FC_LOG_LEVEL"
	EnvFormat = "FC_LOG_FORMAT"
	EnvSource = "FC_LOG_SOURCE"
	EnvFile   = "FC_LOG_FILE"
)

var current atomic.Pointer[slog.Logger]

// L returns the application logger, initializing it from the environment on first use.
func L() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return current.Load()
}

// Init replaces the application logger and slog's default. Loggers handed out
// earlier keep their old handlers.
func Init(opts Options) {
	level := ParseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}
	// JSON records are read by tools, not people; they carry the build.
	build := []slog.Attr{slog.String("app", "formcanvas"), slog.String("version", version.Version)}

	out := opts.Console
	if out == nil {
		out = os.Stderr
	}
	var hs fanout
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		hs = append(hs, slog.NewJSONHandler(out, hopts).WithAttrs(build))
	} else {
		hs = append(hs, newConsoleHandler(out, level, opts.AddSource))
	}
	if path := strings.TrimSpace(opts.File); path != "" {
		w := &lj.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		hs = append(hs, slog.NewJSONHandler(w, hopts).WithAttrs(build))
	}

	var h slog.Handler = hs
	if len(hs) == 1 {
		h = hs[0]
	}
	l := slog.New(tagger{next: h})
	current.Store(l)
	slog.SetDefault(l)
}

// FromEnv builds Options from the FC_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv(EnvLevel, "info"),
		Format:    getenv(EnvFormat, "console"),
		AddSource: strings.EqualFold(os.Getenv(EnvSource), "true"),
		File:      os.Getenv(EnvFile),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseLevel accepts slog level names in any case plus "warning"; anything
// else is info.
func ParseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		s = "warn"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// WithComponent returns a logger tagged with the subsystem name. The console
// shows it in brackets in front of the message.
func WithComponent(name string) *slog.Logger { return L().With(slog.String(componentKey, name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

const componentKey = "component"

type ctxKey int

const (
	layoutKey ctxKey = iota
	panelKey
	modeKey
)

// contextTags lists the context values copied onto records, in output order.
var contextTags = [...]struct {
	key  ctxKey
	attr string
}{
	{layoutKey, "layout"},
	{panelKey, "panel"},
	{modeKey, "mode"},
}

// ContextWithLayout tags ctx with the layout file being edited.
func ContextWithLayout(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, layoutKey, path)
}

// ContextWithPanel tags ctx with a panel id.
func ContextWithPanel(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, panelKey, id)
}

// ContextWithDrag tags ctx with the panel being dragged and the drag mode.
func ContextWithDrag(ctx context.Context, id, mode string) context.Context {
	return context.WithValue(ContextWithPanel(ctx, id), modeKey, mode)
}

// tagger copies the context tags onto each record before passing it on.
type tagger struct{ next slog.Handler }

func (t tagger) Enabled(ctx context.Context, level slog.Level) bool {
	return t.next.Enabled(ctx, level)
}

func (t tagger) Handle(ctx context.Context, r slog.Record) error {
	for _, tag := range contextTags {
		if v, ok := ctx.Value(tag.key).(string); ok && v != "" {
			r.AddAttrs(slog.String(tag.attr, v))
		}
	}
	return t.next.Handle(ctx, r)
}

func (t tagger) WithAttrs(as []slog.Attr) slog.Handler { return tagger{next: t.next.WithAttrs(as)} }
func (t tagger) WithGroup(name string) slog.Handler    { return tagger{next: t.next.WithGroup(name)} }

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(f, func(h slog.Handler) bool { return h.Enabled(ctx, level) })
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(as []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(as)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
