// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/util"
)

// =============================================================================
// STORED TRANSCRIPTS
// =============================================================================

// StoredMessage is the persisted form of a chat message. Delivery state
// and streaming buffers are runtime concerns and are not stored.
type StoredMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// StoredTranscript is the persisted form of a chat transcript, keyed by
// the backend session ID.
type StoredTranscript struct {
	SessionID  int64           `json:"session_id"`
	Title      string          `json:"title"`
	CarDisplay string          `json:"car_display"`
	Category   string          `json:"category"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Messages   []StoredMessage `json:"messages"`
}

// NewStoredTranscript converts a live transcript for persistence.
// Rolled-back messages are skipped: they never reached the backend, so
// archiving them would falsify the record. Empty placeholders are
// skipped for the same reason.
func NewStoredTranscript(t *model.Transcript) *StoredTranscript {
	st := &StoredTranscript{
		SessionID:  t.SessionID,
		Title:      t.GetTitle(),
		CarDisplay: t.CarDisplay,
		Category:   t.Category,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
	for _, msg := range t.Messages {
		if msg.State == model.StateRolledBack || msg.IsEmpty() {
			continue
		}
		st.Messages = append(st.Messages, StoredMessage{
			Role:      msg.Role.String(),
			Content:   msg.GetDisplayContent(),
			Timestamp: msg.Timestamp,
		})
	}
	return st
}

// ToTranscript rebuilds a live transcript from the stored form. All
// restored messages are committed.
func (st *StoredTranscript) ToTranscript() *model.Transcript {
	tr := model.NewTranscript(st.SessionID)
	tr.Title = st.Title
	tr.CarDisplay = st.CarDisplay
	tr.Category = st.Category
	tr.CreatedAt = st.CreatedAt

	for _, sm := range st.Messages {
		msg := model.NewMessage(model.Role(sm.Role), sm.Content)
		msg.Timestamp = sm.Timestamp
		tr.Messages = append(tr.Messages, msg)
	}
	tr.UpdatedAt = st.UpdatedAt
	return tr
}

// Meta returns listing metadata without rebuilding a full transcript.
func (st *StoredTranscript) Meta() model.TranscriptMeta {
	return st.ToTranscript().GetMeta()
}

// =============================================================================
// TRANSCRIPT CRUD
// =============================================================================

// SaveTranscript inserts or replaces the transcript for its session.
// Saving the same session again overwrites the previous archive row.
func (a *Archive) SaveTranscript(st *StoredTranscript) error {
	if st.SessionID == 0 {
		return &ArchiveError{Message: "cannot save transcript without session ID"}
	}

	messages, err := json.Marshal(st.Messages)
	if err != nil {
		return &ArchiveError{Message: "failed to encode messages: " + err.Error()}
	}

	// session_id is the primary key, so INSERT OR REPLACE is the upsert.
	_, err = a.db.Exec(`
		INSERT OR REPLACE INTO transcripts
			(session_id, title, car_display, category, messages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.SessionID, st.Title, st.CarDisplay, st.Category, string(messages),
		encodeTime(st.CreatedAt), encodeTime(st.UpdatedAt),
	)
	return err
}

// LoadTranscript returns the stored transcript for a session, or
// ErrNotFound if the session was never archived.
func (a *Archive) LoadTranscript(sessionID int64) (*StoredTranscript, error) {
	row := a.db.QueryRow(`
		SELECT session_id, title, car_display, category, messages, created_at, updated_at
		FROM transcripts WHERE session_id = ?`, sessionID)

	st, err := scanTranscript(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ListTranscripts returns archived transcripts, most recently updated
// first. limit <= 0 lists all.
func (a *Archive) ListTranscripts(limit int) ([]*StoredTranscript, error) {
	query := `
		SELECT session_id, title, car_display, category, messages, created_at, updated_at
		FROM transcripts ORDER BY updated_at DESC, session_id DESC`
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

	var transcripts []*StoredTranscript
	for rows.Next() {
		st, err := scanTranscript(rows.Scan)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, st)
	}
	return transcripts, rows.Err()
}

// SearchTranscripts finds archived transcripts whose title, car, or
// message text contains the query (case-insensitive).
func (a *Archive) SearchTranscripts(query string) ([]*StoredTranscript, error) {
	if strings.TrimSpace(query) == "" {
		return a.ListTranscripts(0)
	}
	pattern := "%" + strings.ToLower(query) + "%"

	rows, err := a.db.Query(`
		SELECT session_id, title, car_display, category, messages, created_at, updated_at
		FROM transcripts
		WHERE lower(title) LIKE ?
			OR lower(car_display) LIKE ?
			OR lower(category) LIKE ?
			OR lower(messages) LIKE ?
		ORDER BY updated_at DESC, session_id DESC`,
		pattern, pattern, pattern, pattern,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transcripts []*StoredTranscript
	for rows.Next() {
		st, err := scanTranscript(rows.Scan)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, st)
	}
	return transcripts, rows.Err()
}

// DeleteTranscript removes an archived transcript by session ID.
func (a *Archive) DeleteTranscript(sessionID int64) error {
	res, err := a.db.Exec("DELETE FROM transcripts WHERE session_id = ?", sessionID)
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

// scanTranscript reads one transcripts row via the given Scan func,
// which lets it serve both QueryRow and Rows iteration.
func scanTranscript(scan func(dest ...interface{}) error) (*StoredTranscript, error) {
	var st StoredTranscript
	var messages, createdAt, updatedAt string
	err := scan(&st.SessionID, &st.Title, &st.CarDisplay, &st.Category,
		&messages, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(messages), &st.Messages); err != nil {
		return nil, &ArchiveError{Message: "corrupt transcript row: " + err.Error()}
	}
	st.CreatedAt = decodeTime(createdAt)
	st.UpdatedAt = decodeTime(updatedAt)
	return &st, nil
}

// =============================================================================
// TRANSCRIPT LIST FORMATTING
// =============================================================================

// FormatTranscriptList formats archived transcripts as a plain-text
// table for non-interactive output.
func FormatTranscriptList(transcripts []*StoredTranscript) string {
	if len(transcripts) == 0 {
		return "No archived chats found."
	}

	var sb strings.Builder
	sb.WriteString("Archived chats:\n")
	sb.WriteString("--------------------------------------------------------------\n")
	sb.WriteString(util.PadRight("Session", 8) + " " + util.PadRight("Vehicle", 22) + " " +
		util.PadRight("Msgs", 5) + " " + util.PadRight("Updated", 17) + " Title\n")
	sb.WriteString("--------------------------------------------------------------\n")

	for _, st := range transcripts {
		sb.WriteString(util.PadRight(util.Int64ToString(st.SessionID), 8) + " " +
			util.PadRight(util.TruncateRunes(st.CarDisplay, 22), 22) + " " +
			util.PadRight(util.IntToString(len(st.Messages)), 5) + " " +
			util.PadRight(st.UpdatedAt.Local().Format("2006-01-02 15:04"), 17) + " " +
			util.TruncateRunes(st.Title, 34) + "\n")
	}
	return sb.String()
}
