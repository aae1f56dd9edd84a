// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// messages.go - Bubble Tea message types for the chat screen.
//
// Messages fall into four groups:
//   - Streaming: the request handed to the stream runner plus the
//     token/complete/error messages it sends back
//   - Session: session creation and best-effort close results
//   - Clipboard/export: results of local side effects
//   - Render: the coalescing tick used during streaming
package chat

import (
	"time"

	"github.com/jeranaias/garagehub-tui/internal/model"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamRequestMsg asks the application to run a streaming exchange.
// The chat model has already appended the optimistic user message and
// the assistant placeholder; the IDs identify both so the outcome can
// be committed or rolled back.
type StreamRequestMsg struct {
	SessionID     int64
	UserMsgID     string
	PlaceholderID string
	Content       string
}

// StreamTokenMsg delivers one decoded chunk from the reply stream.
type StreamTokenMsg struct {
	PlaceholderID string
	Chunk         string
	IsFirst       bool
}

// StreamCompleteMsg signals that the exchange finished successfully.
// Reply carries the full assistant message as the API layer returned
// it; the transcript text is already in place via the token stream.
type StreamCompleteMsg struct {
	UserMsgID     string
	PlaceholderID string
	Reply         *model.Message
}

// StreamErrorMsg signals that the exchange failed. Any partial reply
// text is discarded by the rollback.
type StreamErrorMsg struct {
	UserMsgID     string
	PlaceholderID string
	Err           error
}

// StreamTickMsg drives the coalesced streaming redraw (~30fps).
type StreamTickMsg struct {
	Time time.Time
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionStartedMsg carries the result of creating a chat session.
type SessionStartedMsg struct {
	Session   *model.ChatSession
	Complaint *model.Complaint
	Err       error
}

// SessionClosedMsg carries the result of a best-effort session close.
// The client-side state is already cleared by the time this arrives;
// Err is informational only.
type SessionClosedMsg struct {
	SessionID int64
	Err       error
}

// =============================================================================
// SIDE-EFFECT RESULTS
// =============================================================================

// ClipboardResultMsg reports the outcome of a clipboard write.
type ClipboardResultMsg struct {
	Err error
}

// ExportResultMsg reports the outcome of a transcript export.
type ExportResultMsg struct {
	Path   string
	Format string
	Err    error
}

// ArchiveSavedMsg reports the outcome of an auto-save to the archive.
type ArchiveSavedMsg struct {
	Err error
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewStreamTokenMsg wraps a chunk for delivery into the event loop.
func NewStreamTokenMsg(placeholderID, chunk string, isFirst bool) StreamTokenMsg {
	return StreamTokenMsg{PlaceholderID: placeholderID, Chunk: chunk, IsFirst: isFirst}
}

// NewStreamTickMsg creates a streaming tick message.
func NewStreamTickMsg() StreamTickMsg {
	return StreamTickMsg{Time: time.Now()}
}
