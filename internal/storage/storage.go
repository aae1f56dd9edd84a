// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local archive for garagehub.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

// ArchiveError represents an archive-related error.
// It implements the error interface and can be compared using errors.Is.
type ArchiveError struct {
	Message string
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing archive errors.
func (e *ArchiveError) Is(target error) bool {
	t, ok := target.(*ArchiveError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrNotFound is returned when an archive entry doesn't exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &ArchiveError{Message: "archive entry not found"}

// =============================================================================
// ARCHIVE
// =============================================================================

// Archive persists submission receipts, plate searches, and chat
// transcripts in a local SQLite database.
type Archive struct {
	db *sql.DB

	// MaxEntries caps receipts and searches; the oldest rows beyond the
	// cap are pruned on insert (0 = unlimited).
	MaxEntries int
}

// Open opens (or creates) the archive database at path.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Archive{db: db, MaxEntries: 500}, nil
}

// Close closes the archive and releases resources.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Clear removes everything from the archive.
func (a *Archive) Clear() error {
	for _, table := range []string{"receipts", "searches", "transcripts"} {
		if _, err := a.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// TIME ENCODING
// =============================================================================

// encodeTime stores times as UTC RFC3339 so text ordering is
// chronological ordering.
func encodeTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}

// decodeTime parses a stored timestamp; a zero time is returned for
// rows written by hand or damaged in place.
func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
