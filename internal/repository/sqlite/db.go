// Package sqlite is the embedded storage driver: assets and tags in one
// SQLite file, queried with parameterised SQL.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS assets (
	id            TEXT PRIMARY KEY,
	app_id        TEXT NOT NULL,
	file_name     TEXT NOT NULL,
	file_hash     TEXT NOT NULL DEFAULT '',
	mime_type     TEXT NOT NULL,
	file_size     INTEGER NOT NULL DEFAULT 0,
	file_version  INTEGER NOT NULL DEFAULT 0,
	slug          TEXT NOT NULL DEFAULT '',
	tags          TEXT NOT NULL DEFAULT '[]',
	is_image      INTEGER NOT NULL DEFAULT 0,
	pixel_width   INTEGER NOT NULL DEFAULT 0,
	pixel_height  INTEGER NOT NULL DEFAULT 0,
	created_by    TEXT NOT NULL DEFAULT '',
	created       INTEGER NOT NULL,
	last_modified INTEGER NOT NULL,
	version       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_assets_app_modified ON assets(app_id, last_modified);
CREATE INDEX IF NOT EXISTS idx_assets_app_hash ON assets(app_id, file_hash);

CREATE TABLE IF NOT EXISTS tags (
	app_id TEXT NOT NULL,
	id     TEXT NOT NULL,
	name   TEXT NOT NULL,
	PRIMARY KEY (app_id, id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_app_name ON tags(app_id, name);
`

// Store owns the database handle.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
// Parent directories are created if they do not exist.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Ping checks the database handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
