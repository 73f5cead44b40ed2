/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	applog "layoutsmith/internal/log"
	"layoutsmith/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// JournalDirName stores per-workspace ephemeral data under the root.
	JournalDirName  = ".lsm"
	JournalFileName = "journal.sqlite"

	// journalSchemaVersion tracks the local SQLite schema. Bump on breaking
	// changes and add a migration in ensureJournalSchema.
	journalSchemaVersion = 1
)

// JournalEntry is one recorded save or reset, newest first in listings.
type JournalEntry struct {
	ID        int64
	Kind      string // "save" or "reset"
	ItemCount int
	App       string
	At        time.Time
}

// JournalPath returns the full path to the workspace's journal database.
func JournalPath(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, JournalDirName, JournalFileName)
}

// OpenJournal ensures the per-workspace journal exists at .lsm/journal.sqlite,
// opens it in WAL mode, and ensures the schema. The journal records every
// save and reset for diagnostics; it is not an undo mechanism.
func OpenJournal(workspaceRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "journal_open").With(
		slog.String("root", workspaceRoot),
	)
	if strings.TrimSpace(workspaceRoot) == "" {
		return nil, errors.New("workspace root is required")
	}
	if err := os.MkdirAll(filepath.Join(workspaceRoot, JournalDirName), 0o755); err != nil {
		l.Error("create .lsm dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .lsm dir: %w", err)
	}

	path := JournalPath(workspaceRoot)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureJournalSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure journal schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("journal ready", slog.String("path", path))
	return db, nil
}

func ensureJournalSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id     INTEGER PRIMARY KEY CHECK(id=1),
			schema INTEGER NOT NULL,
			app    TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS entries (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			kind       TEXT NOT NULL,
			item_count INTEGER NOT NULL DEFAULT 0,
			app        TEXT,
			at         TEXT NOT NULL
		);`,
	}
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("journal ddl: %w", err)
		}
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO version (id, schema, app) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET schema=excluded.schema, app=excluded.app;`,
		journalSchemaVersion, version.String())
	if err != nil {
		return fmt.Errorf("journal version row: %w", err)
	}
	return nil
}

func recordEntry(db *sql.DB, kind string, itemCount int) error {
	if db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := db.ExecContext(ctx,
		`INSERT INTO entries (kind, item_count, app, at) VALUES (?, ?, ?, ?);`,
		kind, itemCount, version.String(), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// RecordSave appends a save entry with the persisted item count.
func RecordSave(db *sql.DB, itemCount int) error { return recordEntry(db, "save", itemCount) }

// RecordReset appends a reset entry.
func RecordReset(db *sql.DB) error { return recordEntry(db, "reset", 0) }

// JournalEntries lists recorded entries, newest first, up to limit (0 = all).
func JournalEntries(db *sql.DB, limit int) ([]JournalEntry, error) {
	if db == nil {
		return nil, errors.New("nil journal")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	q := `SELECT id, kind, item_count, COALESCE(app, ''), at FROM entries ORDER BY id DESC`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var at string
		if err := rows.Scan(&e.ID, &e.Kind, &e.ItemCount, &e.App, &at); err != nil {
			return nil, err
		}
		if ts, perr := time.Parse(time.RFC3339Nano, at); perr == nil {
			e.At = ts
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
