// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - Event handling for the chat screen.
package chat

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/commands"
	"github.com/jeranaias/garagehub-tui/internal/export"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/session"
	"github.com/jeranaias/garagehub-tui/internal/storage"
	"github.com/jeranaias/garagehub-tui/internal/ui/components"
)

// sendFailedText is the system-role line appended when an exchange
// fails and is rolled back.
const sendFailedText = "Failed to get response from the mechanic. Please try again."

// closeTimeout bounds the best-effort close request.
const closeTimeout = 10 * time.Second

// Update handles all chat screen events.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case session.TickMsg:
		var cmds []tea.Cmd
		if m.sess != nil {
			if cmd := m.sess.HandleTick(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		cmds = append(cmds, session.TickCmd())
		return m, tea.Batch(cmds...)

	case session.AutoSaveMsg:
		return m, m.archiveCmd()

	case ArchiveSavedMsg:
		if msg.Err == nil && m.sess != nil {
			m.sess.MarkClean()
		}
		return m, nil

	// Streaming
	case StreamTokenMsg:
		return m.handleStreamToken(msg)
	case StreamTickMsg:
		return m.handleStreamTick()
	case StreamCompleteMsg:
		return m.handleStreamComplete(msg)
	case StreamErrorMsg:
		return m.handleStreamError(msg)

	// Session lifecycle
	case SessionStartedMsg:
		return m.handleSessionStarted(msg)
	case SessionClosedMsg:
		// Client-side state is already cleared; a failed close is
		// deliberately silent (best-effort semantics).
		return m, nil

	// Slash command results
	case commands.ErrorMsg:
		return m.showError(msg.Title, msg.Message, msg.Tip), nil
	case commands.SystemMessageMsg:
		m.appendSystem(msg.Content)
		return m, nil
	case commands.ShowHelpMsg:
		m.showHelp = true
		return m, nil
	case commands.CloseSessionMsg:
		m.state = StateConfirmClose
		m.input.Blur()
		return m, nil
	case commands.ClearTranscriptMsg:
		if tr := m.Transcript(); tr != nil {
			tr.ClearHistory()
			m.syncSession()
		}
		return m, nil
	case commands.CopyToClipboardMsg:
		return m, m.copyLastReplyCmd()
	case commands.ExportTranscriptMsg:
		return m, m.exportCmd(msg.Format)
	case commands.HistoryListMsg:
		m.appendSystem(formatHistory(msg))
		return m, nil
	case commands.ShowHistoryMsg:
		m.appendSystem("No local archive is available.")
		return m, nil

	// Side-effect results
	case ClipboardResultMsg:
		if msg.Err != nil {
			return m.showError("Copy failed", msg.Err.Error(), ""), nil
		}
		m.appendSystem("Copied the mechanic's last reply to the clipboard.")
		return m, nil
	case ExportResultMsg:
		if msg.Err != nil {
			return m.showError("Export failed", msg.Err.Error(), "Supported formats: markdown, html, json"), nil
		}
		m.appendSystem("Transcript exported to " + msg.Path)
		return m, nil
	}

	return m.updateComponents(msg)
}

// updateComponents forwards unhandled messages to the child widgets
// (spinner animation ticks, blink cursors, mouse wheel scrolling).
func (m Model) updateComponents(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	var cmd tea.Cmd
	m.thinking, cmd = m.thinking.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if m.state == StateReady {
		m.input, cmd = m.input.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey routes keys by UI state. While a reply is streaming only
// scrolling works: input is disabled and Enter is ignored.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Quit always works.
	if msg.String() == "ctrl+q" || msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key dismisses help.
		m.showHelp = false
		return m, nil
	}

	switch m.state {
	case StateError:
		switch msg.String() {
		case "esc", "enter", "q":
			m.errView.Hide()
			m.state = StateReady
			return m, m.input.Focus()
		}
		return m, nil

	case StateConfirmClose:
		switch msg.String() {
		case "y", "Y":
			return m.closeSession()
		case "n", "N", "esc", "enter":
			m.state = StateReady
			return m, m.input.Focus()
		}
		return m, nil

	case StateStreaming:
		return m.handleScrollKey(msg)
	}

	// StateReady
	switch {
	case msg.Type == tea.KeyEnter:
		return m.submitInput()
	case msg.String() == "ctrl+h":
		m.showHelp = true
		return m, nil
	case msg.String() == "ctrl+l":
		if tr := m.Transcript(); tr != nil {
			tr.ClearHistory()
			m.syncSession()
		}
		return m, nil
	case msg.String() == "ctrl+y":
		return m, m.copyLastReplyCmd()
	case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		return m.handleScrollKey(msg)
	case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
		return m.handleScrollKey(msg)
	case msg.Type == tea.KeyHome, msg.Type == tea.KeyEnd:
		return m.handleScrollKey(msg)
	}

	// Everything else is typing.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleScrollKey applies transcript navigation keys.
func (m Model) handleScrollKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.viewport.ScrollUp(1)
	case tea.KeyDown:
		m.viewport.ScrollDown(1)
	case tea.KeyPgUp:
		m.viewport.PageUp()
	case tea.KeyPgDown:
		m.viewport.PageDown()
	case tea.KeyHome:
		m.viewport.ScrollToTop()
	case tea.KeyEnd:
		m.viewport.ScrollToBottom()
	}
	return m, nil
}

// =============================================================================
// SEND FLOW
// =============================================================================

// submitInput handles Enter: a slash command goes to the registry,
// anything else is sent to the mechanic. Empty input is a no-op.
func (m Model) submitInput() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if commands.IsCommand(text) {
		m.input.Reset()
		return m.runCommand(text)
	}
	return m.sendMessage(text)
}

// runCommand parses and dispatches a slash command. Unknown commands
// get a status line, never a network call.
func (m Model) runCommand(input string) (Model, tea.Cmd) {
	result := m.parser.Parse(input)
	if result.Error != nil || result.Command == nil {
		m.appendSystem("Unknown command " + result.CommandName + ". Type /help for the list.")
		return m, nil
	}
	return m, result.Command.Handler(m.cmdCtx, result.Args)
}

// sendMessage starts an optimistic exchange: the user message and an
// assistant placeholder land in the transcript immediately, then the
// stream request is handed to the application.
func (m Model) sendMessage(text string) (Model, tea.Cmd) {
	if m.sess == nil || !m.sess.IsActive() {
		return m.showError(
			"Session closed",
			"This chat session is closed.",
			"Use /history to review archived chats, or start a new chat from a complaint.",
		), nil
	}
	if err := m.sess.BeginSend(); err != nil {
		// A send is already in flight; the input should have been
		// disabled, so just ignore the submit.
		return m, nil
	}

	tr := m.sess.Transcript()
	user := tr.AddUserMessage(text)
	placeholder := tr.AddAssistantPlaceholder()
	m.sess.MarkDirty()
	m.sess.RecordActivity()

	m.pendingUserID = user.ID
	m.pendingPhID = placeholder.ID
	m.streamBuf.Reset()

	m.state = StateStreaming
	m.statusBar.SetStatus(components.StatusStreaming)
	m.input.Reset()
	m.input.Blur()
	m.syncSession()
	m.viewport.ScrollToBottom()

	req := StreamRequestMsg{
		SessionID:     m.sess.SessionID(),
		UserMsgID:     user.ID,
		PlaceholderID: placeholder.ID,
		Content:       text,
	}
	return m, tea.Batch(
		func() tea.Msg { return req },
		m.thinking.Start(),
		streamTickCmd(),
	)
}

// =============================================================================
// STREAMING HANDLERS
// =============================================================================

// handleStreamToken parks a chunk for the next coalesced redraw.
func (m Model) handleStreamToken(msg StreamTokenMsg) (Model, tea.Cmd) {
	if msg.PlaceholderID != m.pendingPhID {
		return m, nil // stale chunk from an abandoned exchange
	}
	m.streamBuf.Write(msg.Chunk)
	if msg.IsFirst {
		m.thinking.Stop()
	}
	return m, nil
}

// handleStreamTick drains the buffer into the placeholder and, while
// the stream is still running, schedules the next tick.
func (m Model) handleStreamTick() (Model, tea.Cmd) {
	if chunk, ok := m.streamBuf.Flush(); ok {
		if tr := m.Transcript(); tr != nil {
			tr.AppendToLast(chunk)
			m.viewport.UpdateLastMessage()
		}
	}
	if m.state == StateStreaming {
		return m, streamTickCmd()
	}
	return m, nil
}

// handleStreamComplete commits the exchange.
func (m Model) handleStreamComplete(msg StreamCompleteMsg) (Model, tea.Cmd) {
	if msg.PlaceholderID != m.pendingPhID {
		return m, nil
	}

	tr := m.Transcript()
	if tr != nil {
		if chunk, ok := m.streamBuf.ForceFlush(); ok {
			tr.AppendToLast(chunk)
		}
		tr.FinalizeLast()
		tr.Commit(msg.UserMsgID)
	}

	m.finishExchange()
	m.statusBar.SetStatus(components.StatusReady)
	m.syncSession()
	m.viewport.ScrollToBottom()
	return m, m.input.Focus()
}

// handleStreamError rolls the exchange back: the placeholder is
// removed, the user message is marked undelivered, and a system-role
// error line is appended. A closed-session failure additionally
// surfaces the dedicated error box.
func (m Model) handleStreamError(msg StreamErrorMsg) (Model, tea.Cmd) {
	if msg.PlaceholderID != m.pendingPhID {
		return m, nil
	}

	m.streamBuf.Reset()
	if tr := m.Transcript(); tr != nil {
		tr.RollBackExchange(msg.UserMsgID, msg.PlaceholderID)
		tr.AddSystemMessage(sendFailedText)
	}

	m.finishExchange()
	m.statusBar.SetStatus(components.StatusReady)
	m.syncSession()
	m.viewport.ScrollToBottom()

	if api.IsSessionClosed(msg.Err) {
		m.errView = components.SessionClosedError()
		m.errView.SetSize(m.width, m.height)
		m.state = StateError
		return m, nil
	}
	return m, m.input.Focus()
}

// finishExchange clears the in-flight bookkeeping shared by the
// complete and error paths.
func (m *Model) finishExchange() {
	m.thinking.Stop()
	m.state = StateReady
	m.pendingUserID = ""
	m.pendingPhID = ""
	if m.sess != nil {
		m.sess.EndSend()
		m.sess.MarkDirty()
	}
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// handleSessionStarted installs a freshly created session.
func (m Model) handleSessionStarted(msg SessionStartedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m.showError(
			"Could not start chat",
			api.UserMessage(msg.Err),
			"Check that the garage backend is running, or try garagehub demo.",
		), nil
	}
	if m.sess != nil {
		if err := m.sess.Start(msg.Session, msg.Complaint); err != nil {
			return m.showError("Could not start chat", err.Error(), ""), nil
		}
	}
	m.state = StateReady
	m.statusBar.SetStatus(components.StatusReady)
	m.syncSession()
	m.viewport.ScrollToBottom()
	return m, m.input.Focus()
}

// closeSession performs the confirmed close: archive the transcript,
// clear client-side state, and fire the best-effort close request.
// The screen returns to ready with the session gone regardless of
// whether the request succeeds.
func (m Model) closeSession() (Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := m.archiveCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	sessionID, had := int64(0), false
	if m.sess != nil {
		sessionID, had = m.sess.Close()
	}

	m.state = StateReady
	m.appendSystem("Chat session closed.")
	m.syncSession()

	if had && m.client != nil {
		client := m.client
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			_, err := client.CloseChatSession(ctx, sessionID)
			return SessionClosedMsg{SessionID: sessionID, Err: err}
		})
	}

	cmds = append(cmds, m.input.Focus())
	return m, tea.Batch(cmds...)
}

// =============================================================================
// SIDE EFFECTS
// =============================================================================

// archiveCmd writes the current transcript to the local archive.
// Returns nil when there is nothing to save.
func (m Model) archiveCmd() tea.Cmd {
	tr := m.Transcript()
	if tr == nil || m.archive == nil || tr.IsEmpty() {
		return nil
	}
	stored := storage.NewStoredTranscript(tr.Clone())
	archive := m.archive
	return func() tea.Msg {
		return ArchiveSavedMsg{Err: archive.SaveTranscript(stored)}
	}
}

// copyLastReplyCmd copies the mechanic's most recent committed reply.
func (m Model) copyLastReplyCmd() tea.Cmd {
	tr := m.Transcript()
	if tr == nil {
		return nil
	}
	var last *model.Message
	for i := len(tr.Messages) - 1; i >= 0; i-- {
		if tr.Messages[i].Role == model.RoleAssistant && !tr.Messages[i].IsStreaming {
			last = tr.Messages[i]
			break
		}
	}
	if last == nil {
		return func() tea.Msg {
			return commands.SystemMessageMsg{Content: "Nothing to copy yet."}
		}
	}
	content := last.GetDisplayContent()
	return func() tea.Msg {
		return ClipboardResultMsg{Err: clipboard.WriteAll(content)}
	}
}

// exportCmd exports the live transcript in the given format.
func (m Model) exportCmd(format string) tea.Cmd {
	tr := m.Transcript()
	if tr == nil || tr.IsEmpty() {
		return func() tea.Msg {
			return commands.SystemMessageMsg{Content: "Nothing to export yet."}
		}
	}

	opts := export.DefaultOptions()
	if m.cfg != nil {
		if dir, err := m.cfg.ExportDir(); err == nil {
			opts.OutputDir = dir
		}
	}

	snapshot := tr.Clone()
	return func() tea.Msg {
		path, err := export.ExportTranscript(snapshot, format, opts)
		return ExportResultMsg{Path: path, Format: format, Err: err}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// appendSystem adds a system-role line to the transcript view.
func (m *Model) appendSystem(content string) {
	if tr := m.Transcript(); tr != nil {
		tr.AddSystemMessage(content)
		m.syncSession()
		m.viewport.ScrollToBottom()
	}
}

// showError switches to the error state with a populated error box.
func (m Model) showError(title, message, tip string) Model {
	var suggestions []string
	if tip != "" {
		suggestions = []string{tip}
	}
	m.errView = components.NewErrorWithSuggestions(title, message, suggestions)
	m.errView.SetSize(m.width, m.height)
	m.state = StateError
	m.input.Blur()
	return m
}

// formatHistory renders an archive listing as transcript text.
func formatHistory(msg commands.HistoryListMsg) string {
	if len(msg.Transcripts) == 0 {
		if msg.Query != "" {
			return "No archived chats match " + strconv.Quote(msg.Query) + "."
		}
		return "No archived chats yet."
	}
	return storage.FormatTranscriptList(msg.Transcripts)
}
