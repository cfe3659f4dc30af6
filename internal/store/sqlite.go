// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Current schema version
const SchemaVersion = "1"

// SQLite is a SQLite-backed store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	// Check/set schema version (use unlocked versions since we're in init)
	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}

	switch version {
	case "":
		if err := s.createV1(); err != nil {
			db.Close()
			return nil, err
		}
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// createV1 creates the recipe and history tables.
func (s *SQLite) createV1() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS recipes (
			title TEXT PRIMARY KEY,
			source TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS bakes (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			output TEXT NOT NULL,
			err TEXT NOT NULL,
			at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS bakes_title ON bakes (title, seq);
	`)
	return err
}

// SaveRecipe stores a recipe by title.
func (s *SQLite) SaveRecipe(title, source string) error {
	if title == "" {
		return ErrNoTitle
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO recipes (title, source) VALUES (?, ?)
		ON CONFLICT(title) DO UPDATE SET source = excluded.source
	`, title, source)
	return err
}

// Recipe retrieves a recipe by title.
func (s *SQLite) Recipe(title string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var source string
	err := s.db.QueryRow("SELECT source FROM recipes WHERE title = ?", title).Scan(&source)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return source, true, nil
}

// Recipes lists saved titles.
func (s *SQLite) Recipes() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT title FROM recipes ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// DeleteRecipe removes a recipe and its history.
func (s *SQLite) DeleteRecipe(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM recipes WHERE title = ?", title); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("DELETE FROM bakes WHERE title = ?", title); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// RecordBake appends a bake to the recipe's history.
func (s *SQLite) RecordBake(b Bake) error {
	if b.Title == "" {
		return ErrNoTitle
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO bakes (id, title, output, err, at) VALUES (?, ?, ?, ?, ?)",
		b.ID.String(), b.Title, b.Output, b.Err, b.At.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// History returns a recipe's bakes, newest first.
func (s *SQLite) History(title string, limit int) ([]Bake, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT id, title, output, err, at FROM bakes WHERE title = ? ORDER BY seq DESC"
	args := []any{title}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bake
	for rows.Next() {
		var b Bake
		var id, at string
		if err := rows.Scan(&id, &b.Title, &b.Output, &b.Err, &at); err != nil {
			return nil, err
		}
		if b.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bake %q: %w", id, err)
		}
		if b.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("bake %s: %w", id, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMetadataUnlocked(key)
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMetadata stores a metadata value by key.
func (s *SQLite) SetMetadata(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMetadataUnlocked(key, value)
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
