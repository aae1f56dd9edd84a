// garagehub TUI - a terminal client for vehicle complaint intake and triage.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/cli"
	"github.com/jeranaias/garagehub-tui/internal/config"
	"github.com/jeranaias/garagehub-tui/internal/server"
	"github.com/jeranaias/garagehub-tui/internal/session"
	"github.com/jeranaias/garagehub-tui/internal/storage"
	"github.com/jeranaias/garagehub-tui/internal/ui/chat"
	"github.com/jeranaias/garagehub-tui/internal/ui/components"
	"github.com/jeranaias/garagehub-tui/internal/ui/search"
	"github.com/jeranaias/garagehub-tui/internal/ui/stats"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
	"github.com/jeranaias/garagehub-tui/internal/ui/submit"
)

// Version information (set at build time via -ldflags).
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async streaming. The stream runner's
// goroutine delivers tokens through p.Send because tea.Cmd can only
// return a single message.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(cli.ExitUsageError)
	}

	switch args.Command {
	case cli.CmdTUI:
		runTUI(args, false)
	case cli.CmdDemo:
		runDemo(args)
	case cli.CmdSubmit:
		cli.HandleErrorAndExit(cli.HandleSubmitCommand(args), args.JSON)
	case cli.CmdSearch:
		cli.HandleErrorAndExit(cli.HandleSearchCommand(args), args.JSON)
	case cli.CmdStats:
		cli.HandleErrorAndExit(cli.HandleStatsCommand(args), args.JSON)
	case cli.CmdChat:
		if args.Plain {
			cli.HandleErrorAndExit(cli.HandleChatCommand(args), args.JSON)
			return
		}
		runTUI(args, true)
	case cli.CmdHistory:
		cli.HandleErrorAndExit(cli.HandleHistoryCommand(args), args.JSON)
	case cli.CmdConfig:
		cli.HandleErrorAndExit(cli.HandleConfigCommand(args), args.JSON)
	case cli.CmdDoctor:
		cli.HandleErrorAndExit(cli.HandleDoctorCommand(args), args.JSON)
	case cli.CmdVersion:
		cli.HandleErrorAndExit(cli.PrintVersion(args.JSON), args.JSON)
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args, false)
	}
}

// =============================================================================
// STARTUP
// =============================================================================

// loadTUIConfig loads configuration for the TUI, falling back to
// defaults when the file is broken so the app still starts.
func loadTUIConfig(args *cli.Args) *config.Config {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: using default configuration: %v\n", err)
		cfg = config.Default()
	}
	if args.API != "" {
		cfg.API.BaseURL = args.API
	}
	return cfg
}

// runTUI starts the full-screen interface. startOnChat jumps straight
// to the chat screen ("garagehub chat" without --plain).
func runTUI(args *cli.Args, startOnChat bool) {
	cfg := loadTUIConfig(args)

	clientCfg := api.DefaultConfig()
	clientCfg.BaseURL = cfg.API.BaseURL
	if cfg.API.TimeoutSecs > 0 {
		clientCfg.Timeout = time.Duration(cfg.API.TimeoutSecs) * time.Second
	}
	client := api.NewClientWithConfig(clientCfg)

	var archive *storage.Archive
	if cfg.History.Enabled {
		dbPath, err := cfg.HistoryDBPath()
		if err == nil {
			archive, err = storage.Open(dbPath)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: local history unavailable: %v\n", err)
			archive = nil
		}
	}
	if archive != nil {
		defer archive.Close()
	}

	m := NewModel(cfg, client, archive)
	m.startOnChat = startOnChat
	m.pendingComplaintID = args.ComplaintID

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Live-reload the theme and backend URL when the config file is
	// edited while the TUI is running. Best effort; the TUI works fine
	// without the watcher.
	if args.ConfigPath == "" {
		if watcher, err := config.NewWatcher(func(fresh *config.Config) {
			programMu.Lock()
			ref := programRef
			programMu.Unlock()
			if ref != nil {
				ref.Send(ConfigReloadedMsg{Cfg: fresh})
			}
		}); err == nil {
			if err := watcher.Watch(); err == nil {
				defer watcher.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running garagehub: %v\n", err)
		os.Exit(1)
	}
}

// runDemo embeds the mock backend in-process and points the TUI at it.
// No network or real backend needed; the store is pre-seeded with the
// demo fleet.
func runDemo(args *cli.Args) {
	port := args.Parser.FlagIntOrDefault("port", server.DefaultPort)

	srv := server.NewServer(port).WithLogger(log.New(io.Discard, "", 0))
	if !args.Parser.BoolFlag("no-seed") {
		srv.Store().Seed()
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "demo backend failed: %v\n", err)
			os.Exit(1)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	args.API = fmt.Sprintf("http://127.0.0.1:%d", port)
	runTUI(args, false)
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Screen identifies the active full-screen view.
type Screen int

const (
	// ScreenWelcome is the landing menu.
	ScreenWelcome Screen = iota
	// ScreenSubmit is the complaint intake form.
	ScreenSubmit
	// ScreenSearch is the plate lookup.
	ScreenSearch
	// ScreenStats is the fleet statistics view.
	ScreenStats
	// ScreenChat is the mechanic chat.
	ScreenChat
)

// Model is the root Bubble Tea model: it owns the welcome menu, the
// four screens, and the shared session state, and runs the streaming
// exchanges the chat screen requests.
type Model struct {
	screen Screen
	theme  *styles.Theme
	width  int
	height int

	cfg     *config.Config
	client  *api.Client
	archive *storage.Archive
	sess    *session.State

	welcome     components.Welcome
	chatModel   chat.Model
	submitModel *submit.Model
	searchModel *search.Model
	statsModel  *stats.Model

	// Chat bootstrap
	startOnChat        bool
	pendingComplaintID int64

	// Cancels the in-flight streaming exchange, if any.
	cancelStream context.CancelFunc
}

// NewModel wires the screens together around one client, archive, and
// session state.
func NewModel(cfg *config.Config, client *api.Client, archive *storage.Archive) *Model {
	theme := styles.NewTheme()
	sess := session.NewState(session.Config{
		AutoSaveEnabled: cfg.History.Enabled && archive != nil,
	})

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(Version)
	if client != nil {
		welcome.SetBackendHost(client.BaseURL())
	}

	return &Model{
		screen:      ScreenWelcome,
		theme:       theme,
		cfg:         cfg,
		client:      client,
		archive:     archive,
		sess:        sess,
		welcome:     welcome,
		chatModel:   chat.New(cfg, client, archive, sess, theme),
		submitModel: submit.New(client, archive, theme),
		searchModel: search.New(client, archive, theme),
		statsModel:  stats.New(client, theme),
	}
}

// Init starts the backend health probe and the chat session tick.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.welcome.Init(),
		m.chatModel.Init(),
		m.checkBackend(),
	}
	if m.startOnChat {
		m.screen = ScreenChat
		cmds = append(cmds, m.startChatCmd())
	}
	return tea.Batch(cmds...)
}

// Update routes messages: app-level ones are handled here, the rest
// flow to the active screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.welcome.SetSize(msg.Width, msg.Height)
		m.submitModel.SetSize(msg.Width, msg.Height)
		m.searchModel.SetSize(msg.Width, msg.Height)
		m.statsModel.SetSize(msg.Width, msg.Height)
		newChat, cmd := m.chatModel.Update(msg)
		m.chatModel = newChat
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case BackendCheckMsg:
		state := components.ConnOnline
		if msg.Err != nil {
			state = components.ConnOffline
		}
		m.welcome.SetConn(state)
		m.chatModel.SetConn(state)
		return m, nil

	case ConfigReloadedMsg:
		if msg.Cfg == nil {
			return m, nil
		}
		m.cfg = msg.Cfg
		if msg.Cfg.API.BaseURL != "" && msg.Cfg.API.BaseURL != m.client.BaseURL() {
			m.client.SetBaseURL(msg.Cfg.API.BaseURL)
			m.welcome.SetBackendHost(m.client.BaseURL())
			m.welcome.SetConn(components.ConnChecking)
			return m, m.checkBackend()
		}
		return m, nil

	// Screens signal Esc with their own back message.
	case submit.BackMsg, search.BackMsg, stats.BackMsg:
		m.screen = ScreenWelcome
		return m, nil

	// A successful submission becomes the current complaint, so "chat
	// with a mechanic" picks it up without re-entering anything.
	case submit.SubmittedMsg:
		if msg.Err == nil && msg.Result != nil {
			m.sess.SetContext(&msg.Result.Car, &msg.Result.Complaint)
		}
		return m.forward(msg)

	// A found vehicle becomes the current car; its latest complaint
	// (when any are on file) becomes the chat context.
	case search.LookupDoneMsg:
		if msg.Err == nil && msg.Car != nil {
			complaint := m.sess.Complaint()
			if msg.History != nil && len(msg.History.Complaints) > 0 {
				complaint = &msg.History.Complaints[0]
			}
			m.sess.SetContext(msg.Car, complaint)
		}
		return m.forward(msg)

	case chat.StreamRequestMsg:
		return m.startStream(msg)

	case chat.StreamErrorMsg, chat.StreamCompleteMsg:
		m.cancelStream = nil
		return m.forward(msg)
	}

	return m.forward(msg)
}

// forward delivers a message to the active screen.
func (m *Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenSubmit:
		m.submitModel, cmd = m.submitModel.Update(msg)
	case ScreenSearch:
		m.searchModel, cmd = m.searchModel.Update(msg)
	case ScreenStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	case ScreenChat:
		m.chatModel, cmd = m.chatModel.Update(msg)
	}
	return m, cmd
}

// handleKey processes keys: the welcome menu here, everything else on
// the active screen.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen == ScreenWelcome {
		switch msg.String() {
		case "q", "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "s":
			m.screen = ScreenSubmit
			m.submitModel.SetSize(m.width, m.height)
			return m, m.submitModel.Init()
		case "f":
			m.screen = ScreenSearch
			m.searchModel.SetSize(m.width, m.height)
			return m, m.searchModel.Init()
		case "t":
			m.screen = ScreenStats
			m.statsModel.SetSize(m.width, m.height)
			return m, m.statsModel.Init()
		case "c":
			m.screen = ScreenChat
			return m, m.startChatCmd()
		}
		return m, nil
	}

	// First ctrl+c cancels an in-flight stream instead of quitting.
	if msg.String() == "ctrl+c" && m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
		return m, nil
	}

	return m.forward(msg)
}

// View renders the active screen.
func (m *Model) View() string {
	switch m.screen {
	case ScreenSubmit:
		return m.submitModel.View()
	case ScreenSearch:
		return m.searchModel.View()
	case ScreenStats:
		return m.statsModel.View()
	case ScreenChat:
		return m.chatModel.View()
	default:
		return m.welcome.View()
	}
}

// =============================================================================
// BACKEND HEALTH
// =============================================================================

// BackendCheckMsg carries the startup health probe result.
type BackendCheckMsg struct {
	Err error
}

// ConfigReloadedMsg carries a freshly loaded config after the file on
// disk changed.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}

// checkBackend probes the backend so the welcome screen and chat header
// can show the connection state.
func (m *Model) checkBackend() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if client == nil {
			return BackendCheckMsg{Err: api.ErrBackendUnavailable}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return BackendCheckMsg{Err: client.Health(ctx)}
	}
}

// =============================================================================
// CHAT SESSION BOOTSTRAP
// =============================================================================

// startChatCmd creates a backend chat session for the current
// complaint. Without one it falls back to the latest archived receipt;
// with nothing to anchor to, the chat screen shows an error overlay.
func (m *Model) startChatCmd() tea.Cmd {
	if m.sess.IsActive() {
		// Resuming the open session; nothing to create.
		return nil
	}

	client := m.client
	complaint := m.sess.Complaint()
	complaintID := m.pendingComplaintID
	if complaintID == 0 && complaint != nil {
		complaintID = complaint.ID
	}
	if complaintID == 0 && m.archive != nil {
		if receipts, err := m.archive.ListReceipts(1); err == nil && len(receipts) > 0 {
			complaintID = receipts[0].ComplaintID
		}
	}

	return func() tea.Msg {
		if complaintID == 0 {
			return chat.SessionStartedMsg{
				Err: errors.New("no complaint to chat about; submit one first (press s on the menu)"),
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		sess, err := client.CreateChatSession(ctx, complaintID)
		if err != nil {
			return chat.SessionStartedMsg{Err: err}
		}
		c := complaint
		if c == nil {
			c = &sess.Complaint
		}
		return chat.SessionStartedMsg{Session: sess, Complaint: c}
	}
}

// =============================================================================
// STREAM RUNNER
// =============================================================================

// startStream runs one streaming exchange for the chat screen. The
// tea.Cmd goroutine owns the HTTP call; tokens are delivered through
// programRef.Send because a command can only return its final message.
func (m *Model) startStream(req chat.StreamRequestMsg) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelStream = cancel
	client := m.client

	return m, func() tea.Msg {
		defer cancel()

		isFirst := true
		reply, err := client.SendMessage(ctx, req.SessionID, req.Content, func(chunk string) {
			programMu.Lock()
			p := programRef
			programMu.Unlock()
			if p != nil {
				p.Send(chat.NewStreamTokenMsg(req.PlaceholderID, chunk, isFirst))
			}
			isFirst = false
		})
		if err != nil {
			return chat.StreamErrorMsg{
				UserMsgID:     req.UserMsgID,
				PlaceholderID: req.PlaceholderID,
				Err:           err,
			}
		}
		return chat.StreamCompleteMsg{
			UserMsgID:     req.UserMsgID,
			PlaceholderID: req.PlaceholderID,
			Reply:         reply,
		}
	}
}
