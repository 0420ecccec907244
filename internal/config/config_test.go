/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/zalando/go-keyring"
)

// memSecrets is an in-memory SecretStore.
type memSecrets map[string]string

func (m memSecrets) Get(service, key string) (string, error) {
	v, ok := m[service+"/"+key]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return v, nil
}
func (m memSecrets) Set(service, key, value string) error { m[service+"/"+key] = value; return nil }
func (m memSecrets) Delete(service, key string) error {
	if _, ok := m[service+"/"+key]; !ok {
		return keyring.ErrNotFound
	}
	delete(m, service+"/"+key)
	return nil
}

// isolate points the config directory into a temp dir and stubs the keyring.
func isolate(t *testing.T) memSecrets {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Setenv("AppData", t.TempDir())
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range []string{EnvGridSize, EnvSnapEnabled, EnvSnapThreshold, EnvStoreDriver, EnvStoreDSN, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(k, "")
	}
	mem := memSecrets{}
	old := secretStore
	secretStore = mem
	t.Cleanup(func() { secretStore = old })
	return mem
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	isolate(t)
	cfg, pw, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
	if pw != "" {
		t.Fatalf("expected no password, got %q", pw)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	mem := isolate(t)
	cfg := Defaults()
	cfg.Editor.GridSize = 25
	cfg.Editor.SnapEnabled = false
	cfg.Store = StoreConfig{Driver: "pgx", DSN: "postgres://forms@localhost/forms"}
	if err := Save(cfg, "s3cret"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if mem["FormCanvas/store_password"] != "s3cret" {
		t.Fatalf("password not stored in keyring: %v", mem)
	}
	got, pw, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, cfg)
	}
	if pw != "s3cret" {
		t.Fatalf("password = %q", pw)
	}
	if err := ForgetPassword(); err != nil {
		t.Fatalf("ForgetPassword() error: %v", err)
	}
	if err := ForgetPassword(); err != nil {
		t.Fatalf("second ForgetPassword() should ignore missing entry: %v", err)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	isolate(t)
	path, err := ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("editor:\n  grid_size: 10\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.GridSize != 10 {
		t.Fatalf("GridSize = %d, want 10", cfg.Editor.GridSize)
	}
	if !cfg.Editor.SnapEnabled || cfg.Editor.SnapThreshold != 8 || cfg.Editor.MinWidth != 260 {
		t.Fatalf("missing keys should keep defaults: %#v", cfg.Editor)
	}
}

func TestEnvOverridesEditor(t *testing.T) {
	isolate(t)
	t.Setenv(EnvGridSize, "32")
	t.Setenv(EnvSnapThreshold, "4")
	t.Setenv(EnvSnapEnabled, "off")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.GridSize != 32 || cfg.Editor.SnapThreshold != 4 || cfg.Editor.SnapEnabled {
		t.Fatalf("env overrides not applied: %#v", cfg.Editor)
	}
	if env, ok := EnvOverrideFor("editor.grid_size"); !ok || env != EnvGridSize {
		t.Fatalf("EnvOverrideFor grid_size = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("store.dsn"); ok {
		t.Fatalf("store.dsn is not overridden")
	}
}

func TestEnvOverrideIgnoresInvalidGrid(t *testing.T) {
	isolate(t)
	t.Setenv(EnvGridSize, "-5")
	cfg, _, _ := Load()
	if cfg.Editor.GridSize != 20 {
		t.Fatalf("GridSize = %d, want default 20", cfg.Editor.GridSize)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = " DEBUG "
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/formcanvas.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/formcanvas.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/formcanvas.log")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/formcanvas.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestStoreDSNDefaultsToConfigDir(t *testing.T) {
	isolate(t)
	dsn, err := StoreConfig{Driver: "sqlite"}.StoreDSN()
	if err != nil {
		t.Fatal(err)
	}
	dir, _ := Dir()
	if dsn != filepath.Join(dir, "layouts.sqlite") {
		t.Fatalf("dsn = %q", dsn)
	}
	if dsn, _ := (StoreConfig{Driver: "pgx", DSN: "postgres://x"}).StoreDSN(); dsn != "postgres://x" {
		t.Fatalf("explicit dsn not kept: %q", dsn)
	}
}
