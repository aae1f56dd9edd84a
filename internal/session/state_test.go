// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"testing"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/model"
)

func testSession() *model.ChatSession {
	return &model.ChatSession{
		ID:         5,
		CarDisplay: "2019 Honda Civic",
		IsActive:   true,
		Messages: []model.ChatMessage{
			{ID: 1, Role: "assistant", Text: "Hello! How can I help?"},
		},
	}
}

func testComplaint() *model.Complaint {
	return &model.Complaint{ID: 17, PredictedCategory: "brakes_safety"}
}

// TestState_Lifecycle walks the full none -> active -> closed -> active cycle.
func TestState_Lifecycle(t *testing.T) {
	st := NewState(DefaultConfig())

	if st.Phase() != PhaseNone {
		t.Fatalf("Phase = %v, want none", st.Phase())
	}

	if err := st.Start(testSession(), testComplaint()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !st.IsActive() {
		t.Error("IsActive should be true after Start")
	}

	// Double start is rejected
	if err := st.Start(testSession(), nil); !errors.Is(err, ErrSessionActive) {
		t.Errorf("Second Start = %v, want ErrSessionActive", err)
	}

	id, had := st.Close()
	if !had {
		t.Fatal("Close should report an existing session")
	}
	if id != 5 {
		t.Errorf("Close session ID = %d, want 5", id)
	}
	if st.Phase() != PhaseClosed {
		t.Errorf("Phase = %v after Close, want closed", st.Phase())
	}

	// Transcript stays readable after close
	if st.Transcript() == nil {
		t.Error("Transcript should survive Close")
	}

	// Reopen from closed
	if err := st.Start(testSession(), testComplaint()); err != nil {
		t.Errorf("Start after Close failed: %v", err)
	}

	st.Reset()
	if st.Phase() != PhaseNone {
		t.Errorf("Phase = %v after Reset, want none", st.Phase())
	}
	if st.Transcript() != nil {
		t.Error("Reset should drop the transcript")
	}
}

// TestState_CloseWithoutSession verifies Close is a safe no-op from PhaseNone.
func TestState_CloseWithoutSession(t *testing.T) {
	st := NewState(DefaultConfig())

	id, had := st.Close()
	if had {
		t.Error("Close from PhaseNone should report no session")
	}
	if id != 0 {
		t.Errorf("Close session ID = %d, want 0", id)
	}
}

// TestState_SendGuard verifies the single outstanding send invariant.
func TestState_SendGuard(t *testing.T) {
	st := NewState(DefaultConfig())

	if err := st.BeginSend(); !errors.Is(err, ErrNoSession) {
		t.Errorf("BeginSend without session = %v, want ErrNoSession", err)
	}

	if err := st.Start(testSession(), nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := st.BeginSend(); err != nil {
		t.Fatalf("BeginSend failed: %v", err)
	}
	if !st.SendInFlight() {
		t.Error("SendInFlight should be true after BeginSend")
	}

	if err := st.BeginSend(); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("Overlapping BeginSend = %v, want ErrSendInFlight", err)
	}

	st.EndSend()
	if st.SendInFlight() {
		t.Error("SendInFlight should be false after EndSend")
	}
	if err := st.BeginSend(); err != nil {
		t.Errorf("BeginSend after EndSend failed: %v", err)
	}
}

// TestState_CloseReleasesSendGuard verifies close drops any in-flight claim.
func TestState_CloseReleasesSendGuard(t *testing.T) {
	st := NewState(DefaultConfig())
	if err := st.Start(testSession(), nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := st.BeginSend(); err != nil {
		t.Fatalf("BeginSend failed: %v", err)
	}

	st.Close()
	if st.SendInFlight() {
		t.Error("Close should release the send guard")
	}

	if err := st.BeginSend(); !errors.Is(err, ErrNoSession) {
		t.Errorf("BeginSend on closed session = %v, want ErrNoSession", err)
	}
}

// TestState_TranscriptSeeding verifies transcripts start from stored
// messages, or the greeting when the session has none.
func TestState_TranscriptSeeding(t *testing.T) {
	st := NewState(DefaultConfig())
	if err := st.Start(testSession(), nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	tr := st.Transcript()
	if tr == nil {
		t.Fatal("Transcript should exist after Start")
	}
	if tr.MessageCount() != 1 {
		t.Errorf("MessageCount = %d, want seeded message", tr.MessageCount())
	}

	// Empty session falls back to the greeting
	st.Reset()
	empty := testSession()
	empty.Messages = nil
	if err := st.Start(empty, nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	tr = st.Transcript()
	if tr.MessageCount() != 1 {
		t.Errorf("MessageCount = %d, want greeting fallback", tr.MessageCount())
	}
}

// TestState_AutoSave verifies dirty tracking drives the archive trigger.
func TestState_AutoSave(t *testing.T) {
	st := NewState(Config{AutoSaveEnabled: true, AutoSaveInterval: time.Nanosecond})

	if st.ShouldAutoSave() {
		t.Error("ShouldAutoSave should be false with no transcript")
	}

	if err := st.Start(testSession(), nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(time.Millisecond)

	if !st.ShouldAutoSave() {
		t.Error("ShouldAutoSave should be true for a dirty transcript")
	}

	st.MarkClean()
	if st.ShouldAutoSave() {
		t.Error("ShouldAutoSave should be false after MarkClean")
	}

	st.MarkDirty()
	time.Sleep(time.Millisecond)
	if !st.ShouldAutoSave() {
		t.Error("ShouldAutoSave should be true after MarkDirty")
	}
}

// TestState_AutoSaveDisabled verifies the toggle wins over dirtiness.
func TestState_AutoSaveDisabled(t *testing.T) {
	st := NewState(Config{AutoSaveEnabled: false, AutoSaveInterval: time.Nanosecond})
	if err := st.Start(testSession(), nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(time.Millisecond)

	if st.ShouldAutoSave() {
		t.Error("ShouldAutoSave should be false when disabled")
	}
}

// TestState_GetStatus verifies the snapshot fields.
func TestState_GetStatus(t *testing.T) {
	st := NewState(DefaultConfig())
	if err := st.Start(testSession(), testComplaint()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := st.GetStatus()
	if status.Phase != PhaseActive {
		t.Errorf("Status.Phase = %v, want active", status.Phase)
	}
	if status.SessionID != 5 {
		t.Errorf("Status.SessionID = %d, want 5", status.SessionID)
	}
	if status.CarDisplay != "2019 Honda Civic" {
		t.Errorf("Status.CarDisplay = %q", status.CarDisplay)
	}
	if status.MessageCount != 1 {
		t.Errorf("Status.MessageCount = %d, want 1", status.MessageCount)
	}
}

// TestFormatDuration tests duration formatting for the status line.
func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{time.Minute, "1m"},
		{2 * time.Minute, "2m"},
		{150 * time.Second, "2m 30s"},
	}

	for _, tc := range tests {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
