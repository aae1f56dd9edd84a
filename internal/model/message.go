// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// message.go - Client-side chat message with delivery state tracking.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Mechanic"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// DELIVERY STATE
// =============================================================================

// DeliveryState tracks an optimistically rendered message through its
// lifecycle. A message is shown as soon as the user sends it (pending),
// confirmed once the exchange completes (committed), or marked rolled
// back when the exchange fails and its optimistic effects are undone.
type DeliveryState int

const (
	// StatePending is an optimistic message awaiting server confirmation.
	StatePending DeliveryState = iota
	// StateCommitted is a message confirmed by a completed exchange.
	StateCommitted
	// StateRolledBack is a message whose exchange failed.
	StateRolledBack
)

// String returns the state name.
func (s DeliveryState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a transcript.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Delivery state for optimistic rendering
	State DeliveryState `json:"state"`

	// Streaming state (not persisted)
	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder // merged into Content when streaming finishes
}

// NewMessage creates a new committed message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		State:     StateCommitted,
	}
}

// NewUserMessage creates a pending user message for an optimistic send.
func NewUserMessage(content string) *Message {
	msg := NewMessage(RoleUser, content)
	msg.State = StatePending
	return msg
}

// NewAssistantMessage creates an empty streaming assistant placeholder.
func NewAssistantMessage() *Message {
	return &Message{
		ID:          generateID(),
		Role:        RoleAssistant,
		Timestamp:   time.Now(),
		State:       StatePending,
		IsStreaming: true,
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendChunk appends a decoded stream chunk to a streaming message.
func (m *Message) AppendChunk(chunk string) {
	if m.IsStreaming {
		m.streamContent.WriteString(chunk)
	}
}

// FinalizeStream completes streaming and commits the message.
func (m *Message) FinalizeStream() {
	if !m.IsStreaming {
		return
	}
	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false
	m.State = StateCommitted
}

// RollBack marks the message as rolled back and discards any partial
// streamed content. Failed exchanges never surface partial text.
func (m *Message) RollBack() {
	m.streamContent.Reset()
	m.IsStreaming = false
	m.State = StateRolledBack
}

// Commit marks a pending message as confirmed.
func (m *Message) Commit() {
	if m.State == StatePending && !m.IsStreaming {
		m.State = StateCommitted
	}
}

// GetDisplayContent returns the content to display (streaming or final).
func (m *Message) GetDisplayContent() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := m.GetDisplayContent()
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique client-side message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
