// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/commands"
	"github.com/jeranaias/garagehub-tui/internal/config"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/session"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

// testModel builds a chat model with an active session. The backend
// client is never exercised: commands that would hit the network are
// returned, not run.
func testModel(t *testing.T) Model {
	t.Helper()

	sess := session.NewState(session.DefaultConfig())
	cs := &model.ChatSession{
		ID:              7,
		CarDisplay:      "2019 Honda Civic",
		CarLicensePlate: "ABC123",
		IsActive:        true,
	}
	if err := sess.Start(cs, &model.Complaint{ID: 3, PredictedCategory: "engine"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	m := New(config.Default(), api.NewClient(), nil, sess, styles.NewTheme())
	m.SetSize(80, 24)
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// TestSendMessage_Optimistic verifies the pending user message and the
// streaming placeholder land in the transcript before any network I/O.
func TestSendMessage_Optimistic(t *testing.T) {
	m := testModel(t)
	before := m.Transcript().MessageCount() // greeting fallback

	m.input.SetValue("My brakes squeal when stopping")
	m, cmd := m.submitInput()

	if cmd == nil {
		t.Fatal("send should produce a command batch")
	}
	if !m.Streaming() {
		t.Error("model should be streaming after send")
	}
	if !m.sess.SendInFlight() {
		t.Error("send guard should be held")
	}

	tr := m.Transcript()
	if got := tr.MessageCount(); got != before+2 {
		t.Fatalf("MessageCount = %d, want %d", got, before+2)
	}

	user := tr.GetMessageByID(m.pendingUserID)
	if user == nil || user.State != model.StatePending {
		t.Error("user message should be pending")
	}
	placeholder := tr.GetMessageByID(m.pendingPhID)
	if placeholder == nil || !placeholder.IsStreaming {
		t.Error("assistant placeholder should be streaming")
	}
}

// TestSendMessage_EmptyIsNoOp verifies whitespace input sends nothing.
func TestSendMessage_EmptyIsNoOp(t *testing.T) {
	m := testModel(t)
	before := m.Transcript().MessageCount()

	m.input.SetValue("   ")
	m, cmd := m.submitInput()

	if cmd != nil {
		t.Error("empty input should not produce a command")
	}
	if m.Transcript().MessageCount() != before {
		t.Error("empty input should not append messages")
	}
}

// TestSendMessage_InFlightGuard verifies a second Enter while streaming
// is ignored.
func TestSendMessage_InFlightGuard(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("first")
	m, _ = m.submitInput()
	count := m.Transcript().MessageCount()

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Transcript().MessageCount() != count {
		t.Error("Enter during streaming should be ignored")
	}
}

// TestStreamComplete_CommitsExchange walks token delivery through to a
// committed exchange.
func TestStreamComplete_CommitsExchange(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("My brakes squeal")
	m, _ = m.submitInput()

	userID, phID := m.pendingUserID, m.pendingPhID

	m, _ = m.Update(StreamTokenMsg{PlaceholderID: phID, Chunk: "Replace the ", IsFirst: true})
	m, _ = m.Update(StreamTokenMsg{PlaceholderID: phID, Chunk: "pads."})
	m, _ = m.Update(StreamCompleteMsg{UserMsgID: userID, PlaceholderID: phID})

	if m.Streaming() {
		t.Error("model should be ready after completion")
	}
	if m.sess.SendInFlight() {
		t.Error("send guard should be released")
	}

	tr := m.Transcript()
	reply := tr.GetMessageByID(phID)
	if reply == nil {
		t.Fatal("placeholder should survive completion")
	}
	if reply.IsStreaming {
		t.Error("reply should be finalized")
	}
	if reply.GetDisplayContent() != "Replace the pads." {
		t.Errorf("reply content = %q", reply.GetDisplayContent())
	}
	if user := tr.GetMessageByID(userID); user == nil || user.State != model.StateCommitted {
		t.Error("user message should be committed")
	}
}

// TestStreamError_RollsBack verifies the failure path: placeholder
// removed, user message rolled back, system error line appended.
func TestStreamError_RollsBack(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("hello")
	m, _ = m.submitInput()

	userID, phID := m.pendingUserID, m.pendingPhID
	m, _ = m.Update(StreamTokenMsg{PlaceholderID: phID, Chunk: "partial", IsFirst: true})
	m, _ = m.Update(StreamErrorMsg{UserMsgID: userID, PlaceholderID: phID, Err: errors.New("boom")})

	tr := m.Transcript()
	if tr.GetMessageByID(phID) != nil {
		t.Error("placeholder should be removed on failure")
	}
	user := tr.GetMessageByID(userID)
	if user == nil || user.State != model.StateRolledBack {
		t.Error("user message should be rolled back")
	}

	last := tr.GetLastMessage()
	if last == nil || last.Role != model.RoleSystem || last.Content != sendFailedText {
		t.Errorf("last message = %+v, want system error line", last)
	}
	if m.state != StateReady {
		t.Errorf("state = %v after generic error, want ready", m.state)
	}
	if m.sess.SendInFlight() {
		t.Error("send guard should be released on failure")
	}
}

// TestStreamError_SessionClosedShowsErrorBox verifies a closed-session
// failure surfaces the dedicated error overlay.
func TestStreamError_SessionClosedShowsErrorBox(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("hello")
	m, _ = m.submitInput()

	m, _ = m.Update(StreamErrorMsg{
		UserMsgID:     m.pendingUserID,
		PlaceholderID: m.pendingPhID,
		Err:           api.ErrSessionClosed,
	})

	if m.state != StateError {
		t.Errorf("state = %v, want error", m.state)
	}
}

// TestStaleStreamMessagesIgnored verifies chunks from an abandoned
// exchange cannot touch the current transcript.
func TestStaleStreamMessagesIgnored(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("hello")
	m, _ = m.submitInput()
	count := m.Transcript().MessageCount()

	m, _ = m.Update(StreamTokenMsg{PlaceholderID: "msg_stale", Chunk: "ghost"})
	m, _ = m.Update(StreamErrorMsg{UserMsgID: "msg_old", PlaceholderID: "msg_stale", Err: errors.New("old")})

	if m.Transcript().MessageCount() != count {
		t.Error("stale stream messages should not modify the transcript")
	}
	if !m.Streaming() {
		t.Error("stale error should not end the live exchange")
	}
}

// TestUnknownSlashCommand verifies unknown commands get a status line
// and no network call.
func TestUnknownSlashCommand(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("/bogus")
	m, _ = m.submitInput()

	last := m.Transcript().GetLastMessage()
	if last == nil || last.Role != model.RoleSystem {
		t.Fatal("unknown command should append a system line")
	}
	if !strings.Contains(last.Content, "Unknown command") {
		t.Errorf("system line = %q", last.Content)
	}
}

// TestClearTranscriptMsg verifies /clear empties the visible history.
func TestClearTranscriptMsg(t *testing.T) {
	m := testModel(t)
	m, _ = m.Update(commands.ClearTranscriptMsg{})

	if !m.Transcript().IsEmpty() {
		t.Error("transcript should be empty after clear")
	}
}

// TestConfirmClose_Flow walks decline then confirm.
func TestConfirmClose_Flow(t *testing.T) {
	m := testModel(t)

	m, _ = m.Update(commands.CloseSessionMsg{})
	if m.state != StateConfirmClose {
		t.Fatalf("state = %v, want confirm-close", m.state)
	}

	// Decline keeps the session.
	m, _ = m.handleKey(keyRunes("n"))
	if m.state != StateReady || !m.sess.IsActive() {
		t.Error("declining should keep the session active")
	}

	// Confirm closes client-side state unconditionally.
	m, _ = m.Update(commands.CloseSessionMsg{})
	m, cmd := m.handleKey(keyRunes("y"))
	if m.sess.IsActive() {
		t.Error("confirming should close the session")
	}
	if cmd == nil {
		t.Error("confirming should fire the best-effort close request")
	}
}

// TestSystemMessageMsg verifies command output lands in the transcript.
func TestSystemMessageMsg(t *testing.T) {
	m := testModel(t)
	m, _ = m.Update(commands.SystemMessageMsg{Content: "Session status"})

	last := m.Transcript().GetLastMessage()
	if last == nil || last.Role != model.RoleSystem || last.Content != "Session status" {
		t.Errorf("last message = %+v", last)
	}
}

// TestHelpOverlayToggle verifies /help shows the overlay and any key
// dismisses it.
func TestHelpOverlayToggle(t *testing.T) {
	m := testModel(t)

	m, _ = m.Update(commands.ShowHelpMsg{})
	if !m.showHelp {
		t.Fatal("help overlay should be visible")
	}
	if !strings.Contains(m.View(), "garagehub chat help") {
		t.Error("help view should render the help content")
	}

	m, _ = m.handleKey(keyRunes("x"))
	if m.showHelp {
		t.Error("any key should dismiss help")
	}
}

// TestSessionStarted_Error surfaces a start failure as an error box.
func TestSessionStarted_Error(t *testing.T) {
	sess := session.NewState(session.DefaultConfig())
	m := New(config.Default(), api.NewClient(), nil, sess, styles.NewTheme())
	m.SetSize(80, 24)

	m, _ = m.Update(SessionStartedMsg{Err: api.ErrBackendUnavailable})
	if m.state != StateError {
		t.Errorf("state = %v, want error", m.state)
	}
}
