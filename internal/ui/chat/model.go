// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - Bubble Tea model for the chat screen.
package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/commands"
	"github.com/jeranaias/garagehub-tui/internal/config"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/session"
	"github.com/jeranaias/garagehub-tui/internal/storage"
	"github.com/jeranaias/garagehub-tui/internal/ui/components"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State is the chat screen's UI state. It tracks what the screen is
// showing, not the session lifecycle; that lives in session.State.
type State int

const (
	StateReady        State = iota // accepting input
	StateStreaming                 // a reply is streaming in
	StateConfirmClose              // close confirmation prompt
	StateError                     // error box on top of the chat
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int

	// Wiring
	cfg     *config.Config
	client  *api.Client
	archive *storage.Archive
	sess    *session.State

	// Slash commands
	registry *commands.Registry
	parser   *commands.Parser
	cmdCtx   *commands.Context

	// Components
	header    *components.Header
	viewport  *components.ChatViewport
	input     *components.InputArea
	statusBar *components.StatusBar
	thinking  components.ThinkingIndicator

	// Streaming
	streamBuf     *StreamingBuffer
	pendingUserID string
	pendingPhID   string

	// Overlays
	errView  components.ErrorDisplay
	showHelp bool

	quitting bool
}

// New creates the chat screen. The session state may be inactive; the
// screen shows whatever transcript the session currently holds and
// refuses sends until a session is active.
func New(cfg *config.Config, client *api.Client, archive *storage.Archive, sess *session.State, theme *styles.Theme) Model {
	registry := commands.NewRegistry()

	input := components.NewInputArea(theme)

	header := components.NewHeader(theme)
	if client != nil {
		header.SetBackendHost(client.BaseURL())
	}

	statusBar := components.NewStatusBar(theme)
	statusBar.SetScreen("chat")

	m := Model{
		state:     StateReady,
		theme:     theme,
		cfg:       cfg,
		client:    client,
		archive:   archive,
		sess:      sess,
		registry:  registry,
		parser:    commands.NewParser(registry),
		cmdCtx:    commands.NewContext(cfg, client, archive, sess),
		header:    header,
		viewport:  components.NewChatViewport(theme),
		input:     input,
		statusBar: statusBar,
		thinking:  components.NewThinkingIndicator(),
		streamBuf: NewStreamingBuffer(),
		errView:   components.NewErrorDisplay(),
	}
	m.syncSession()
	return m
}

// Init focuses the input and starts the session tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.input.Focus(), session.TickCmd())
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Transcript returns the live transcript, or nil before a session
// has been started.
func (m Model) Transcript() *model.Transcript {
	if m.sess == nil {
		return nil
	}
	return m.sess.Transcript()
}

// Streaming reports whether a reply is currently streaming in.
func (m Model) Streaming() bool {
	return m.state == StateStreaming
}

// SetConn updates the connection badge on the header and status bar.
func (m *Model) SetConn(state components.ConnState) {
	m.header.SetConn(state)
	m.statusBar.SetConn(state)
}

// SetSize lays the screen out for the given terminal dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.input.SetWidth(width)
	m.errView.SetSize(width, height)

	// Header, input box, and status bar flank the transcript.
	vpHeight := height - headerHeight - inputHeight - statusHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.SetSize(width, vpHeight)
}

// syncSession refreshes the widgets that mirror session state: the
// transcript viewport, the status bar session badge, and the vehicle
// line. Called after anything that can change the session.
func (m *Model) syncSession() {
	if m.sess == nil {
		return
	}
	if tr := m.sess.Transcript(); tr != nil {
		m.viewport.SetMessages(tr.GetHistory())
	} else {
		m.viewport.SetMessages(nil)
	}

	if sess, ok := m.sess.Session(); ok {
		m.statusBar.SetSession(sess.ID, m.sess.IsActive())
		m.statusBar.SetPlate(sess.CarLicensePlate)
	} else {
		m.statusBar.ClearSession()
	}
}
