// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// Schema creates the archive tables. Times are stored as UTC RFC3339
// text, so lexicographic ORDER BY matches chronological order.
const Schema = `
CREATE TABLE IF NOT EXISTS receipts (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	complaint_id    INTEGER NOT NULL,
	license_plate   TEXT NOT NULL,
	category        TEXT NOT NULL,
	category_label  TEXT NOT NULL,
	confidence      REAL NOT NULL,
	crash           INTEGER NOT NULL DEFAULT 0,
	fire            INTEGER NOT NULL DEFAULT 0,
	complaint_text  TEXT NOT NULL,
	submitted_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_receipts_submitted_at ON receipts(submitted_at);
CREATE INDEX IF NOT EXISTS idx_receipts_plate ON receipts(license_plate);

CREATE TABLE IF NOT EXISTS searches (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	license_plate     TEXT NOT NULL,
	display_name      TEXT NOT NULL,
	total_complaints  INTEGER NOT NULL DEFAULT 0,
	searched_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_searches_searched_at ON searches(searched_at);

CREATE TABLE IF NOT EXISTS transcripts (
	session_id   INTEGER PRIMARY KEY,
	title        TEXT NOT NULL,
	car_display  TEXT NOT NULL,
	category     TEXT NOT NULL,
	messages     TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transcripts_updated_at ON transcripts(updated_at);
`
