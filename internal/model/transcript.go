// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// transcript.go - Client-side view of one chat session's messages.
package model

import "time"

// MaxMessages is the maximum number of messages kept in a transcript.
// When exceeded, old messages are pruned to prevent unbounded memory growth.
const MaxMessages = 1000

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript holds the client-side message list for one chat session.
// The backend owns the authoritative history; the transcript additionally
// tracks optimistic messages that the server has not confirmed yet.
type Transcript struct {
	// Identity of the backing chat session
	SessionID  int64     `json:"session_id"`
	Title      string    `json:"title"`
	CarDisplay string    `json:"car_display"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Messages in arrival order
	Messages []*Message `json:"messages"`
}

// NewTranscript creates an empty transcript for a session.
func NewTranscript(sessionID int64) *Transcript {
	return &Transcript{
		SessionID: sessionID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// NewTranscriptFromSession seeds a transcript with a session's stored
// history. A session created moments ago may arrive without messages;
// in that case the documented assistant greeting is shown locally.
func NewTranscriptFromSession(session *ChatSession) *Transcript {
	tr := NewTranscript(session.ID)
	tr.Title = session.Title
	tr.CarDisplay = session.CarDisplay
	tr.Category = session.Complaint.PredictedCategory
	if session.CreatedAt != (time.Time{}) {
		tr.CreatedAt = session.CreatedAt
	}

	for _, m := range session.Messages {
		tr.addMessage(m.ToMessage())
	}
	if len(tr.Messages) == 0 {
		tr.addMessage(NewMessage(RoleAssistant, session.GreetingFallback()))
	}
	return tr
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// addMessage appends a message and maintains bookkeeping.
func (t *Transcript) addMessage(msg *Message) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = time.Now()
	t.pruneOldMessages()
}

// AddUserMessage appends a pending user message (optimistic send).
func (t *Transcript) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	t.addMessage(msg)
	return msg
}

// AddAssistantPlaceholder appends an empty streaming assistant message.
func (t *Transcript) AddAssistantPlaceholder() *Message {
	msg := NewAssistantMessage()
	t.addMessage(msg)
	return msg
}

// AddSystemMessage appends a system message.
func (t *Transcript) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	t.addMessage(msg)
	return msg
}

// GetLastMessage returns the most recent message, or nil if empty.
func (t *Transcript) GetLastMessage() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// AppendToLast appends a stream chunk to the last (streaming) message.
func (t *Transcript) AppendToLast(chunk string) {
	last := t.GetLastMessage()
	if last != nil && last.IsStreaming {
		last.AppendChunk(chunk)
	}
}

// FinalizeLast commits the last streaming message.
func (t *Transcript) FinalizeLast() {
	last := t.GetLastMessage()
	if last != nil && last.IsStreaming {
		last.FinalizeStream()
		t.UpdatedAt = time.Now()
	}
}

// Commit marks the message with the given ID as confirmed.
func (t *Transcript) Commit(id string) bool {
	msg := t.GetMessageByID(id)
	if msg == nil {
		return false
	}
	msg.Commit()
	return true
}

// RemoveMessage removes a message by ID. Used to roll an optimistic
// placeholder out of the transcript when its exchange fails.
func (t *Transcript) RemoveMessage(id string) bool {
	for i, msg := range t.Messages {
		if msg.ID == id {
			t.Messages = append(t.Messages[:i], t.Messages[i+1:]...)
			t.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// RollBackExchange undoes a failed send: the assistant placeholder is
// removed wholesale and the optimistic user message is marked rolled
// back (it stays visible so the user can see what failed to send).
func (t *Transcript) RollBackExchange(userID, placeholderID string) {
	t.RemoveMessage(placeholderID)
	if msg := t.GetMessageByID(userID); msg != nil {
		msg.RollBack()
	}
}

// GetMessageByID returns a message by its ID.
func (t *Transcript) GetMessageByID(id string) *Message {
	for _, msg := range t.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (t *Transcript) MessageCount() int {
	return len(t.Messages)
}

// IsEmpty returns true if there are no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.Messages) == 0
}

// ClearHistory removes all messages from the transcript.
func (t *Transcript) ClearHistory() {
	t.Messages = make([]*Message, 0)
	t.UpdatedAt = time.Now()
}

// GetHistory returns the message history for display.
func (t *Transcript) GetHistory() []*Message {
	return t.Messages
}

// =============================================================================
// SERIALIZATION HELPERS
// =============================================================================

// GetTitle returns the transcript title or a default.
func (t *Transcript) GetTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return "Chat session"
}

// Preview returns a short preview of the transcript.
func (t *Transcript) Preview() string {
	if len(t.Messages) == 0 {
		return "Empty chat"
	}
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RoleUser {
			return t.Messages[i].Preview(100)
		}
	}
	return t.Messages[0].Preview(100)
}

// GetMeta returns metadata about the transcript for listing.
func (t *Transcript) GetMeta() TranscriptMeta {
	return TranscriptMeta{
		SessionID:    t.SessionID,
		Title:        t.GetTitle(),
		CarDisplay:   t.CarDisplay,
		Category:     t.Category,
		MessageCount: len(t.Messages),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Preview:      t.Preview(),
	}
}

// TranscriptMeta holds lightweight metadata for listing.
type TranscriptMeta struct {
	SessionID    int64     `json:"session_id"`
	Title        string    `json:"title"`
	CarDisplay   string    `json:"car_display"`
	Category     string    `json:"category"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Preview      string    `json:"preview"`
}

// Clone creates a deep copy of the transcript.
func (t *Transcript) Clone() *Transcript {
	clone := &Transcript{
		SessionID:  t.SessionID,
		Title:      t.Title,
		CarDisplay: t.CarDisplay,
		Category:   t.Category,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		Messages:   make([]*Message, len(t.Messages)),
	}

	for i, msg := range t.Messages {
		msgCopy := &Message{
			ID:          msg.ID,
			Role:        msg.Role,
			Timestamp:   msg.Timestamp,
			Content:     msg.GetDisplayContent(),
			State:       msg.State,
			IsStreaming: false,
		}
		clone.Messages[i] = msgCopy
	}

	return clone
}

// pruneOldMessages removes old messages when the transcript exceeds
// MaxMessages. System messages are preserved.
func (t *Transcript) pruneOldMessages() {
	if len(t.Messages) <= MaxMessages {
		return
	}

	var systemMessages []*Message
	var otherMessages []*Message
	for _, msg := range t.Messages {
		if msg.Role == RoleSystem {
			systemMessages = append(systemMessages, msg)
		} else {
			otherMessages = append(otherMessages, msg)
		}
	}

	if len(otherMessages) > MaxMessages {
		otherMessages = otherMessages[len(otherMessages)-MaxMessages:]
	}

	t.Messages = make([]*Message, 0, len(systemMessages)+len(otherMessages))
	t.Messages = append(t.Messages, systemMessages...)
	t.Messages = append(t.Messages, otherMessages...)
}
