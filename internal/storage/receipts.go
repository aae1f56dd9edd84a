// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"strings"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/util"
)

// =============================================================================
// SUBMISSION RECEIPTS
// =============================================================================

// Receipt is the local record of a submitted complaint: enough to show
// what was filed and how it was classified, without re-asking the backend.
type Receipt struct {
	ID            int64     `json:"id"`
	ComplaintID   int64     `json:"complaint_id"`
	LicensePlate  string    `json:"license_plate"`
	Category      string    `json:"category"`
	CategoryLabel string    `json:"category_label"`
	Confidence    float64   `json:"confidence"`
	Crash         bool      `json:"crash"`
	Fire          bool      `json:"fire"`
	ComplaintText string    `json:"complaint_text"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// Critical mirrors the backend's flag: a crash or fire complaint.
func (r *Receipt) Critical() bool {
	return r.Crash || r.Fire
}

// NewReceipt builds a receipt from a submitted complaint. The plate is
// passed separately because the submission payload carries the car beside
// the complaint, not nested inside it.
func NewReceipt(c *model.Complaint, plate string) *Receipt {
	return &Receipt{
		ComplaintID:   c.ID,
		LicensePlate:  plate,
		Category:      c.PredictedCategory,
		CategoryLabel: c.Category().Label,
		Confidence:    c.PredictionConfidence,
		Crash:         c.Crash,
		Fire:          c.Fire,
		ComplaintText: c.ComplaintText,
		SubmittedAt:   time.Now(),
	}
}

// SaveReceipt persists a receipt and returns its local row ID.
func (a *Archive) SaveReceipt(r *Receipt) (int64, error) {
	res, err := a.db.Exec(`
		INSERT INTO receipts (complaint_id, license_plate, category, category_label,
			confidence, crash, fire, complaint_text, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ComplaintID, r.LicensePlate, r.Category, r.CategoryLabel,
		r.Confidence, boolToInt(r.Crash), boolToInt(r.Fire), r.ComplaintText,
		encodeTime(r.SubmittedAt),
	)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	r.ID = id

	a.pruneTable("receipts", "submitted_at")
	return id, nil
}

// ListReceipts returns receipts, most recent first. limit <= 0 lists all.
func (a *Archive) ListReceipts(limit int) ([]Receipt, error) {
	query := `
		SELECT id, complaint_id, license_plate, category, category_label,
			confidence, crash, fire, complaint_text, submitted_at
		FROM receipts ORDER BY submitted_at DESC, id DESC`
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

	var receipts []Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// SearchReceipts finds receipts whose plate, category, or text contains
// the query (case-insensitive).
func (a *Archive) SearchReceipts(query string) ([]Receipt, error) {
	if strings.TrimSpace(query) == "" {
		return a.ListReceipts(0)
	}
	pattern := "%" + strings.ToLower(query) + "%"

	rows, err := a.db.Query(`
		SELECT id, complaint_id, license_plate, category, category_label,
			confidence, crash, fire, complaint_text, submitted_at
		FROM receipts
		WHERE lower(license_plate) LIKE ?
			OR lower(category) LIKE ?
			OR lower(category_label) LIKE ?
			OR lower(complaint_text) LIKE ?
		ORDER BY submitted_at DESC, id DESC`,
		pattern, pattern, pattern, pattern,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// DeleteReceipt removes a receipt by local row ID.
func (a *Archive) DeleteReceipt(id int64) error {
	res, err := a.db.Exec("DELETE FROM receipts WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanReceipt reads one receipts row.
func scanReceipt(rows *sql.Rows) (Receipt, error) {
	var r Receipt
	var crash, fire int
	var submittedAt string
	err := rows.Scan(&r.ID, &r.ComplaintID, &r.LicensePlate, &r.Category,
		&r.CategoryLabel, &r.Confidence, &crash, &fire, &r.ComplaintText,
		&submittedAt)
	if err != nil {
		return Receipt{}, err
	}
	r.Crash = crash != 0
	r.Fire = fire != 0
	r.SubmittedAt = decodeTime(submittedAt)
	return r, nil
}

// pruneTable deletes the oldest rows beyond MaxEntries.
func (a *Archive) pruneTable(table, orderCol string) {
	if a.MaxEntries <= 0 {
		return
	}
	// Errors here are non-fatal; the next insert retries the prune.
	a.db.Exec(`
		DELETE FROM `+table+` WHERE id NOT IN (
			SELECT id FROM `+table+` ORDER BY `+orderCol+` DESC, id DESC LIMIT ?
		)`, a.MaxEntries)
}

// boolToInt converts a bool for sqlite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// RECEIPT LIST FORMATTING
// =============================================================================

// FormatReceiptList formats receipts as a plain-text table for
// non-interactive output.
func FormatReceiptList(receipts []Receipt) string {
	if len(receipts) == 0 {
		return "No receipts found."
	}

	var sb strings.Builder
	sb.WriteString("Receipts:\n")
	sb.WriteString("--------------------------------------------------------------\n")
	sb.WriteString(util.PadRight("ID", 8) + " " + util.PadRight("Plate", 10) + " " +
		util.PadRight("Category", 22) + " " + util.PadRight("Submitted", 17) + " Text\n")
	sb.WriteString("--------------------------------------------------------------\n")

	for _, r := range receipts {
		text := util.TruncateRunes(strings.ReplaceAll(r.ComplaintText, "\n", " "), 30)
		flags := ""
		if r.Critical() {
			flags = " [critical]"
		}
		sb.WriteString(util.PadRight(util.Int64ToString(r.ComplaintID), 8) + " " +
			util.PadRight(r.LicensePlate, 10) + " " +
			util.PadRight(util.TruncateRunes(r.CategoryLabel, 22), 22) + " " +
			util.PadRight(r.SubmittedAt.Local().Format("2006-01-02 15:04"), 17) + " " +
			text + flags + "\n")
	}
	return sb.String()
}
