// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/session"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// ErrorMsg reports a command failure to the UI.
type ErrorMsg struct {
	Title   string
	Message string
	Tip     string
}

// SystemMessageMsg adds an informational line to the transcript view.
type SystemMessageMsg struct {
	Content string
}

// ShowHelpMsg requests the help overlay, optionally focused on a topic.
type ShowHelpMsg struct {
	Topic string
}

// CloseSessionMsg requests closing the active chat session.
type CloseSessionMsg struct{}

// ClearTranscriptMsg requests clearing the visible chat history.
type ClearTranscriptMsg struct{}

// CopyToClipboardMsg requests copying the last mechanic reply.
type CopyToClipboardMsg struct{}

// ExportTranscriptMsg requests a transcript export in the given format.
type ExportTranscriptMsg struct {
	Format string
}

// ShowHistoryMsg requests the archive browser when no local archive is
// wired into the command context.
type ShowHistoryMsg struct{}

// HistoryListMsg carries archived transcripts matching a history query.
type HistoryListMsg struct {
	Query       string
	Transcripts []*storage.StoredTranscript
}

// =============================================================================
// NAVIGATION HANDLERS
// =============================================================================

// HandleHelp shows the help overlay.
func HandleHelp(ctx *Context, args []string) tea.Cmd {
	ctx.RecordActivity()
	topic := ""
	if len(args) > 0 {
		topic = strings.ToLower(strings.TrimPrefix(args[0], "/"))
	}
	return func() tea.Msg {
		return ShowHelpMsg{Topic: topic}
	}
}

// HandleQuit exits the application.
func HandleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// HandleClose closes the active chat session.
func HandleClose(ctx *Context, args []string) tea.Cmd {
	ctx.RecordActivity()
	if ctx.Session == nil || !ctx.Session.IsActive() {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "No active session",
				Message: "There is no chat session to close.",
				Tip:     "Start a chat from a complaint submission or a vehicle lookup.",
			}
		}
	}
	return func() tea.Msg {
		return CloseSessionMsg{}
	}
}

// HandleStatus shows a snapshot of the current session.
func HandleStatus(ctx *Context, args []string) tea.Cmd {
	ctx.RecordActivity()
	if ctx.Session == nil {
		return func() tea.Msg {
			return SystemMessageMsg{Content: "No session state available."}
		}
	}
	status := ctx.Session.GetStatus()
	return func() tea.Msg {
		return SystemMessageMsg{Content: formatStatus(status)}
	}
}

// formatStatus renders a session status snapshot as display text.
func formatStatus(st session.Status) string {
	var b strings.Builder
	b.WriteString("Session status\n")
	b.WriteString(fmt.Sprintf("  Phase:    %s\n", st.Phase))
	if st.SessionID > 0 {
		b.WriteString(fmt.Sprintf("  Session:  #%d\n", st.SessionID))
	}
	if st.CarDisplay != "" {
		b.WriteString(fmt.Sprintf("  Vehicle:  %s\n", st.CarDisplay))
	}
	b.WriteString(fmt.Sprintf("  Messages: %d\n", st.MessageCount))
	b.WriteString(fmt.Sprintf("  Duration: %s\n", session.FormatDuration(st.Duration)))
	b.WriteString(fmt.Sprintf("  Idle:     %s", session.FormatDuration(st.IdleTime)))
	if st.SendInFlight {
		b.WriteString("\n  A message is currently being sent.")
	}
	return b.String()
}

// HandleClear clears the visible chat history.
func HandleClear(ctx *Context, args []string) tea.Cmd {
	ctx.RecordActivity()
	return func() tea.Msg {
		return ClearTranscriptMsg{}
	}
}

// HandleCopy copies the mechanic's last reply to the clipboard.
// The chat screen owns the actual clipboard write.
func HandleCopy(ctx *Context, args []string) tea.Cmd {
	ctx.RecordActivity()
	return func() tea.Msg {
		return CopyToClipboardMsg{}
	}
}

// =============================================================================
// ARCHIVE HANDLERS
// =============================================================================

// exportFormats maps accepted format arguments to canonical names.
var exportFormats = map[string]string{
	"markdown": "markdown",
	"md":       "markdown",
	"html":     "html",
	"htm":      "html",
	"json":     "json",
}

// HandleExport exports the chat transcript.
func HandleExport(ctx *Context, args []string) tea.Cmd {
	ctx.RecordActivity()

	format := ""
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	} else if ctx.Config != nil {
		format = strings.ToLower(ctx.Config.Chat.ExportFormat)
	}
	if format == "" {
		format = "markdown"
	}

	canonical, ok := exportFormats[format]
	if !ok {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Invalid export format",
				Message: fmt.Sprintf("Unknown format %q.", format),
				Tip:     "Supported formats: markdown, html, json",
			}
		}
	}
	return func() tea.Msg {
		return ExportTranscriptMsg{Format: canonical}
	}
}

// historyListLimit bounds how many archived chats a bare /history shows.
const historyListLimit = 20

// HandleHistory lists archived chats, optionally filtered by a query.
func HandleHistory(ctx *Context, args []string) tea.Cmd {
	ctx.RecordActivity()
	query := strings.TrimSpace(strings.Join(args, " "))

	if ctx.Archive == nil {
		return func() tea.Msg {
			return ShowHistoryMsg{}
		}
	}

	archive := ctx.Archive
	return func() tea.Msg {
		var (
			items []*storage.StoredTranscript
			err   error
		)
		if query == "" {
			items, err = archive.ListTranscripts(historyListLimit)
		} else {
			items, err = archive.SearchTranscripts(query)
		}
		if err != nil {
			return ErrorMsg{
				Title:   "Archive lookup failed",
				Message: err.Error(),
				Tip:     "Check the archive database under ~/.garagehub.",
			}
		}
		return HistoryListMsg{Query: query, Transcripts: items}
	}
}
