// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"strings"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/util"
)

// =============================================================================
// VEHICLE SEARCH HISTORY
// =============================================================================

// Search is one past plate lookup, kept so the user can re-run recent
// searches without retyping.
type Search struct {
	ID              int64     `json:"id"`
	LicensePlate    string    `json:"license_plate"`
	DisplayName     string    `json:"display_name"`
	TotalComplaints int       `json:"total_complaints"`
	SearchedAt      time.Time `json:"searched_at"`
}

// RecordSearch saves a plate lookup. Repeated lookups of the same plate
// replace the older row so the recent list stays deduplicated.
func (a *Archive) RecordSearch(plate, displayName string, totalComplaints int) error {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return &ArchiveError{Message: "cannot record search with empty plate"}
	}

	_, err := a.db.Exec("DELETE FROM searches WHERE license_plate = ?", plate)
	if err != nil {
		return err
	}

	_, err = a.db.Exec(`
		INSERT INTO searches (license_plate, display_name, total_complaints, searched_at)
		VALUES (?, ?, ?, ?)`,
		plate, displayName, totalComplaints, encodeTime(time.Now()),
	)
	if err != nil {
		return err
	}

	a.pruneTable("searches", "searched_at")
	return nil
}

// RecentSearches returns past lookups, most recent first. limit <= 0
// lists all.
func (a *Archive) RecentSearches(limit int) ([]Search, error) {
	query := `
		SELECT id, license_plate, display_name, total_complaints, searched_at
		FROM searches ORDER BY searched_at DESC, id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []Search
	for rows.Next() {
		var s Search
		var searchedAt string
		if err := rows.Scan(&s.ID, &s.LicensePlate, &s.DisplayName,
			&s.TotalComplaints, &searchedAt); err != nil {
			return nil, err
		}
		s.SearchedAt = decodeTime(searchedAt)
		searches = append(searches, s)
	}
	return searches, rows.Err()
}

// FormatSearchList formats past lookups as a plain-text table.
func FormatSearchList(searches []Search) string {
	if len(searches) == 0 {
		return "No past searches."
	}

	var sb strings.Builder
	sb.WriteString("Recent searches:\n")
	sb.WriteString("------------------------------------------------------\n")

	for _, s := range searches {
		sb.WriteString(util.PadRight(s.LicensePlate, 10) + " " +
			util.PadRight(util.TruncateRunes(s.DisplayName, 28), 28) + " " +
			util.PadRight(util.IntToString(s.TotalComplaints)+" complaints", 15) + " " +
			s.SearchedAt.Local().Format("2006-01-02 15:04") + "\n")
	}
	return sb.String()
}
