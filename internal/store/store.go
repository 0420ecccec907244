/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package store keeps named layout documents in a SQL database: an embedded
// SQLite file by default, or a shared Postgres database through pgx.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"

	"formcanvas/internal/layout"
	applog "formcanvas/internal/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

var (
	ErrNotFound    = errors.New("layout not found")
	ErrInvalidName = errors.New("layout name is required")
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config selects the database. Password is merged into a Postgres DSN that
// does not carry one; it is ignored for SQLite.
type Config struct {
	Driver   string
	DSN      string
	Password string
}

// Entry describes a stored layout without its rectangles.
type Entry struct {
	Name      string
	Panels    int
	UpdatedAt time.Time
}

// Store is a handle to the layout database. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	driver string
	l      *slog.Logger
}

// Open connects to the database described by cfg and applies pending migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	l := applog.WithOperation(applog.WithComponent("store"), "open").With(slog.String("driver", driver))

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = openSQLite(ctx, cfg.DSN)
	case DriverPostgres, "postgres":
		driver = DriverPostgres
		db, err = openPostgres(ctx, cfg.DSN, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		return nil, err
	}

	s := &Store{db: db, driver: driver, l: applog.WithComponent("store")}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		l.Error("migrate failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("store ready")
	return s, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Set reasonable connection pool limits for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}
	return db, nil
}

func openPostgres(ctx context.Context, dsn, password string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", withPassword(dsn, password))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// withPassword adds password to a URL or key=value DSN that has none.
func withPassword(dsn, password string) string {
	if password == "" {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		if _, set := u.User.Password(); set {
			return dsn
		}
		user := ""
		if u.User != nil {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, password)
		return u.String()
	}
	if strings.Contains(dsn, "password=") {
		return dsn
	}
	return dsn + " password='" + strings.ReplaceAll(password, "'", `\'`) + "'"
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Driver reports the effective driver name.
func (s *Store) Driver() string { return s.driver }

// rebind rewrites ? placeholders to $n for Postgres.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// gooseMu serializes goose's package-level dialect and filesystem settings.
var gooseMu sync.Mutex

// migrate applies the embedded goose migrations for the store's dialect.
func (s *Store) migrate(ctx context.Context) error {
	dialect := "sqlite"
	if s.driver == DriverPostgres {
		dialect = "postgres"
	}
	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	v, err := goose.GetDBVersionContext(ctx, s.db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	s.l.Debug("schema up to date", slog.Int64("version", v))
	return nil
}

// Put stores doc under name, replacing any previous version.
func (s *Store) Put(ctx context.Context, name string, doc layout.Document) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	data, err := layout.Encode(doc)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	q := s.rebind(`INSERT INTO layouts(name, doc, panels, updated_at) VALUES(?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET doc = excluded.doc, panels = excluded.panels, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, q, name, string(data), len(doc), now); err != nil {
		return fmt.Errorf("put layout %q: %w", name, err)
	}
	s.l.Info("layout stored", slog.String("name", name), slog.Int("panels", len(doc)))
	return nil
}

// Get returns the layout stored under name or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (layout.Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT doc FROM layouts WHERE name = ?`), strings.TrimSpace(name)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get layout %q: %w", name, err)
	}
	return layout.Decode([]byte(raw))
}

// List returns all stored layouts ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, panels, updated_at FROM layouts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ts string
		)
		if err := rows.Scan(&e.Name, &e.Panels, &ts); err != nil {
			return nil, fmt.Errorf("scan layout row: %w", err)
		}
		// A foreign timestamp format must not hide the layout; it lists undated.
		if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			s.l.Warn("unreadable layout timestamp", slog.String("name", e.Name), slog.String("updated_at", ts), slog.Any("err", err))
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the layout stored under name or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM layouts WHERE name = ?`), strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete layout %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	s.l.Info("layout deleted", slog.String("name", name))
	return nil
}
