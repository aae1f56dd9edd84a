// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for complaints, vehicles,
// chat sessions, and messages.
package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// CATEGORY TESTS
// =============================================================================

func TestCategoryByCode_Known(t *testing.T) {
	tests := []struct {
		code  string
		label string
	}{
		{"brakes_safety", "Brakes & Safety"},
		{"engine", "Engine"},
		{"wheels_tires", "Wheels & Tires"},
		{"airbags_seatbelts", "Airbags & Seatbelts"},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			cat := CategoryByCode(tc.code)
			if cat.Label != tc.label {
				t.Errorf("CategoryByCode(%q).Label = %q, want %q", tc.code, cat.Label, tc.label)
			}
			if cat.Icon == "" {
				t.Errorf("CategoryByCode(%q).Icon should not be empty", tc.code)
			}
		})
	}
}

func TestCategoryByCode_Unknown(t *testing.T) {
	cat := CategoryByCode("quantum_drive")
	if cat.Label != "quantum_drive" {
		t.Errorf("Unknown category label = %q, want raw code", cat.Label)
	}
	if cat.Icon != DefaultCategory.Icon {
		t.Errorf("Unknown category icon = %q, want default %q", cat.Icon, DefaultCategory.Icon)
	}
}

func TestCategories_HaveRequiredFields(t *testing.T) {
	for code, cat := range Categories {
		t.Run(code, func(t *testing.T) {
			if cat.Code != code {
				t.Errorf("Category key %q does not match Code %q", code, cat.Code)
			}
			if cat.Label == "" {
				t.Error("Category.Label should not be empty")
			}
			if cat.Icon == "" {
				t.Error("Category.Icon should not be empty")
			}
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		confidence float64
		want       ConfidenceTier
	}{
		{0.85, TierHigh},
		{0.65, TierMedium},
		{0.4, TierLow},
		// Boundaries are inclusive on the high side
		{0.8, TierHigh},
		{0.6, TierMedium},
		{0.7999, TierMedium},
		{0.5999, TierLow},
		{1.0, TierHigh},
		{0.0, TierLow},
	}

	for _, tc := range tests {
		t.Run(tc.want.String(), func(t *testing.T) {
			if got := TierFor(tc.confidence); got != tc.want {
				t.Errorf("TierFor(%v) = %v, want %v", tc.confidence, got, tc.want)
			}
		})
	}
}

func TestFormatConfidence(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.85, "85%"},
		{0.6, "60%"},
		{0.0, "0%"},
		{1.0, "100%"},
		{1.7, "100%"}, // clamped
	}

	for _, tc := range tests {
		if got := FormatConfidence(tc.confidence); got != tc.want {
			t.Errorf("FormatConfidence(%v) = %q, want %q", tc.confidence, got, tc.want)
		}
	}
}

// =============================================================================
// COMPLAINT TESTS
// =============================================================================

func TestComplaint_Critical(t *testing.T) {
	tests := []struct {
		name      string
		complaint Complaint
		want      bool
	}{
		{"crash only", Complaint{Crash: true}, true},
		{"fire only", Complaint{Fire: true}, true},
		{"flag from backend", Complaint{IsCritical: true}, true},
		{"neither", Complaint{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.complaint.Critical(); got != tc.want {
				t.Errorf("Critical() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComplaint_Category_DisplayWins(t *testing.T) {
	c := Complaint{PredictedCategory: "engine", CategoryDisplay: "Engine & Cooling"}
	if got := c.Category().Label; got != "Engine & Cooling" {
		t.Errorf("Category().Label = %q, want backend display label", got)
	}
	if got := c.Category().Icon; got != Categories["engine"].Icon {
		t.Errorf("Category().Icon = %q, want catalog icon", got)
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_StreamingLifecycle(t *testing.T) {
	msg := NewAssistantMessage()

	if !msg.IsStreaming {
		t.Fatal("New assistant message should be streaming")
	}
	if msg.State != StatePending {
		t.Errorf("New assistant message state = %v, want pending", msg.State)
	}

	msg.AppendChunk("Check the ")
	msg.AppendChunk("brake pads.")

	if got := msg.GetDisplayContent(); got != "Check the brake pads." {
		t.Errorf("GetDisplayContent() = %q during streaming", got)
	}

	msg.FinalizeStream()

	if msg.IsStreaming {
		t.Error("Message should not be streaming after finalize")
	}
	if msg.State != StateCommitted {
		t.Errorf("Finalized message state = %v, want committed", msg.State)
	}
	if msg.Content != "Check the brake pads." {
		t.Errorf("Content = %q after finalize", msg.Content)
	}

	// Appending after finalize is a no-op
	msg.AppendChunk("ignored")
	if msg.Content != "Check the brake pads." {
		t.Error("AppendChunk should be a no-op after finalize")
	}
}

func TestMessage_RollBackDiscardsPartialContent(t *testing.T) {
	msg := NewAssistantMessage()
	msg.AppendChunk("partial answer that must not surv")
	msg.RollBack()

	if msg.State != StateRolledBack {
		t.Errorf("State = %v, want rolled-back", msg.State)
	}
	if got := msg.GetDisplayContent(); got != "" {
		t.Errorf("Rolled back message still shows %q, want empty", got)
	}
}

func TestMessage_UserPendingThenCommit(t *testing.T) {
	msg := NewUserMessage("hello")
	if msg.State != StatePending {
		t.Fatalf("New user message state = %v, want pending", msg.State)
	}
	msg.Commit()
	if msg.State != StateCommitted {
		t.Errorf("State after Commit = %v, want committed", msg.State)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewMessage(RoleUser, strings.Repeat("é", 100))
	preview := msg.Preview(10)
	if got := len([]rune(preview)); got != 10 {
		t.Errorf("Preview rune length = %d, want 10", got)
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview = %q, want ... suffix", preview)
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_OptimisticSendAndRollback(t *testing.T) {
	tr := NewTranscript(42)

	user := tr.AddUserMessage("Why does the engine stall?")
	placeholder := tr.AddAssistantPlaceholder()
	placeholder.AppendChunk("It could be the fuel ")

	if tr.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", tr.MessageCount())
	}

	tr.RollBackExchange(user.ID, placeholder.ID)

	if tr.MessageCount() != 1 {
		t.Fatalf("MessageCount after rollback = %d, want 1 (placeholder removed)", tr.MessageCount())
	}
	if tr.GetMessageByID(placeholder.ID) != nil {
		t.Error("Placeholder should be removed wholesale on rollback")
	}
	if user.State != StateRolledBack {
		t.Errorf("User message state = %v, want rolled-back", user.State)
	}
}

func TestTranscript_StreamingAppendAndFinalize(t *testing.T) {
	tr := NewTranscript(7)
	tr.AddUserMessage("hi")
	tr.AddAssistantPlaceholder()

	tr.AppendToLast("first ")
	tr.AppendToLast("second")
	tr.FinalizeLast()

	last := tr.GetLastMessage()
	if last.Content != "first second" {
		t.Errorf("Finalized content = %q, want concatenation in order", last.Content)
	}
	if last.State != StateCommitted {
		t.Errorf("Finalized state = %v, want committed", last.State)
	}
}

func TestTranscript_FromSessionSeedsGreeting(t *testing.T) {
	session := &ChatSession{
		ID:         9,
		Title:      "Chat about engine",
		CarDisplay: "2019 Honda Civic",
	}
	tr := NewTranscriptFromSession(session)

	if tr.MessageCount() != 1 {
		t.Fatalf("MessageCount = %d, want 1 greeting", tr.MessageCount())
	}
	greeting := tr.GetLastMessage()
	if greeting.Role != RoleAssistant {
		t.Errorf("Greeting role = %v, want assistant", greeting.Role)
	}
	if !strings.Contains(greeting.Content, "2019 Honda Civic") {
		t.Errorf("Greeting %q should mention the vehicle", greeting.Content)
	}
}

func TestTranscript_FromSessionUsesStoredMessages(t *testing.T) {
	session := &ChatSession{
		ID: 9,
		Messages: []ChatMessage{
			{ID: 1, Role: RoleAssistant, Text: "Hello!", CreatedAt: time.Now()},
			{ID: 2, Role: RoleUser, Text: "The car shakes", CreatedAt: time.Now()},
		},
	}
	tr := NewTranscriptFromSession(session)

	if tr.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", tr.MessageCount())
	}
	for _, msg := range tr.GetHistory() {
		if msg.State != StateCommitted {
			t.Errorf("Stored message state = %v, want committed", msg.State)
		}
	}
}

func TestTranscript_PruneKeepsSystemMessages(t *testing.T) {
	tr := NewTranscript(1)
	tr.AddSystemMessage("connection notice")
	for i := 0; i <= MaxMessages; i++ {
		tr.addMessage(NewMessage(RoleUser, "m"))
	}

	if tr.MessageCount() != MaxMessages+1 {
		t.Fatalf("MessageCount = %d, want %d", tr.MessageCount(), MaxMessages+1)
	}
	if tr.Messages[0].Role != RoleSystem {
		t.Error("System message should survive pruning")
	}
}

func TestChatMessage_ToMessage(t *testing.T) {
	wire := ChatMessage{ID: 3, Role: RoleAssistant, Text: "Try the fuse box."}
	msg := wire.ToMessage()

	if msg.State != StateCommitted {
		t.Errorf("Server message state = %v, want committed", msg.State)
	}
	if msg.Content != wire.Text {
		t.Errorf("Content = %q, want %q", msg.Content, wire.Text)
	}
}
