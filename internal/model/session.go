// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session.go - Chat session and chat message wire types.
package model

import "time"

// =============================================================================
// CHAT SESSION TYPE
// =============================================================================

// ChatSession is a server-side chat thread anchored to one complaint.
// The client never mutates it directly; every change round-trips through
// the backend.
type ChatSession struct {
	ID              int64         `json:"id"`
	Complaint       Complaint     `json:"complaint"`
	CustomerName    string        `json:"customer_name"`
	CarDisplay      string        `json:"car_display"`
	CarLicensePlate string        `json:"car_license_plate"`
	Title           string        `json:"title"`
	IsActive        bool          `json:"is_active"`
	TotalMessages   int           `json:"total_messages"`
	Messages        []ChatMessage `json:"messages"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	ClosedAt        *time.Time    `json:"closed_at"`
}

// GreetingFallback returns the assistant greeting the backend seeds new
// sessions with. Used when a freshly created session arrives without
// messages so the chat never opens on a blank panel.
func (s *ChatSession) GreetingFallback() string {
	name := s.CarDisplay
	if name == "" {
		name = "vehicle"
	}
	return "Hello! I'm your AI mechanic assistant. I'm here to help with your " +
		name + ". How can I assist you today?"
}

// =============================================================================
// CHAT MESSAGE TYPE
// =============================================================================

// ChatMessage is one stored message of a chat session as the backend
// returns it.
type ChatMessage struct {
	ID                 int64          `json:"id"`
	Session            int64          `json:"session"`
	Role               Role           `json:"role"`
	Text               string         `json:"message"`
	FormattedTimestamp string         `json:"formatted_timestamp"`
	IsFromUser         bool           `json:"is_from_user"`
	IsFromAssistant    bool           `json:"is_from_assistant"`
	Metadata           map[string]any `json:"metadata"`
	CreatedAt          time.Time      `json:"created_at"`
}

// ToMessage converts a stored chat message into the client-side Message
// form used by transcripts. Server-delivered messages are committed by
// definition.
func (m ChatMessage) ToMessage() *Message {
	msg := NewMessage(m.Role, m.Text)
	msg.Timestamp = m.CreatedAt
	msg.State = StateCommitted
	return msg
}
