// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain-terminal chat REPL for the garagehub CLI.
//
// Handles "garagehub chat --plain": a readline-style conversation with
// the mechanic assistant for terminals where the full-screen TUI is not
// wanted (ssh sessions, scripts, accessibility tooling).
//
// Command: chat --plain
//
// Examples:
//   garagehub chat --plain --complaint 42   Chat about complaint #42
//   garagehub chat --plain                  Chat about the latest receipt
//
// Interactive commands (during chat):
//   /help, /h      Show available commands
//   /status, /s    Show session info
//   /history       Show the conversation so far
//   /close         Close the session on the backend and exit
//   /quit, /q      Exit (session stays open for later)
//   Ctrl+C         Cancel the in-flight reply
//   Ctrl+D         Exit
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/config"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// sendFailedLine is printed when an exchange fails after the user
// message was already echoed.
const sendFailedLine = "Failed to get response from the mechanic. Please try again."

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders assistant replies when stdout is a TTY.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Plain text fallback when the renderer cannot initialize.
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, returning the
// original content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI wraps liner with persistent input history so arrow keys
// recall previous prompts across sessions.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads any existing input history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and releases the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// chatREPL holds the state of one plain-mode conversation.
type chatREPL struct {
	client     *api.Client
	archive    *storage.Archive
	session    *model.ChatSession
	transcript *model.Transcript
	input      *ChatCLI
	quiet      bool
	startTime  time.Time
	exchanges  int

	// cancels the in-flight stream; nil when idle
	cancelFunc context.CancelFunc
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles "garagehub chat --plain". The full-screen
// variant is dispatched in main before reaching here.
func HandleChatCommand(args *Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)
	archive := openArchive(cfg, args.Quiet)
	if archive != nil {
		defer archive.Close()
	}

	ctx, cancel := commandContext()
	if err := client.Health(ctx); err != nil {
		cancel()
		return err
	}
	cancel()

	complaintID, err := resolveComplaintID(args, archive)
	if err != nil {
		return err
	}

	ctx, cancel = commandContext()
	session, err := client.CreateChatSession(ctx, complaintID)
	cancel()
	if err != nil {
		return err
	}

	repl := &chatREPL{
		client:     client,
		archive:    archive,
		session:    session,
		transcript: model.NewTranscriptFromSession(session),
		input:      NewChatCLI(),
		quiet:      args.Quiet,
		startTime:  time.Now(),
	}
	defer repl.input.Close()
	defer repl.archiveTranscript()

	if !repl.quiet {
		repl.printWelcome()
	}

	// First Ctrl+C cancels the in-flight reply instead of killing the
	// process. Liner handles Ctrl+C at the prompt itself.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if repl.cancelFunc != nil {
				repl.cancelFunc()
				repl.cancelFunc = nil
				fmt.Fprintln(os.Stderr, "\n"+WarnStyle.Render("[Cancelled]"))
			}
		}
	}()

	for {
		input, err := repl.input.ReadInput(TitleStyle.Render("garagehub> "))
		if err != nil {
			// Ctrl+C at the prompt or EOF: exit gracefully.
			fmt.Println()
			repl.printExitSummary()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing, err := repl.handleSlashCommand(input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				repl.printExitSummary()
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			repl.printExitSummary()
			return nil
		}

		if err := repl.processMessage(input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("[Error]"), api.UserMessage(err))
		}
	}
}

// resolveComplaintID picks the complaint to chat about: the --complaint
// flag when given, otherwise the most recent archived receipt.
func resolveComplaintID(args *Args, archive *storage.Archive) (int64, error) {
	if args.ComplaintID > 0 {
		return args.ComplaintID, nil
	}
	if archive != nil {
		receipts, err := archive.ListReceipts(1)
		if err == nil && len(receipts) > 0 {
			if !args.Quiet {
				StderrPrintln(DimStyle.Render(fmt.Sprintf(
					"Using your latest complaint #%d (pass --complaint <id> to pick another).",
					receipts[0].ComplaintID)))
			}
			return receipts[0].ComplaintID, nil
		}
	}
	return 0, NewUsageError("no complaint to chat about: pass --complaint <id> or submit one first (garagehub submit)")
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// processMessage sends one user message and streams the reply.
func (r *chatREPL) processMessage(input string) error {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancelFunc = cancel
	defer func() {
		r.cancelFunc = nil
		cancel()
	}()

	userMsg := r.transcript.AddUserMessage(input)

	// Markdown needs the whole reply before rendering, so tokens are
	// only echoed live in plain mode.
	useMarkdown := IsStdoutTTY()

	fmt.Println()
	start := time.Now()

	reply, err := r.client.SendMessage(ctx, r.session.ID, input, func(chunk string) {
		if !useMarkdown {
			fmt.Print(chunk)
		}
	})
	if err != nil {
		r.transcript.RemoveMessage(userMsg.ID)
		fmt.Println(DimStyle.Render(sendFailedLine))
		return err
	}

	if useMarkdown {
		fmt.Print(renderMarkdown(reply.Content))
	}
	fmt.Println()
	fmt.Println()

	r.transcript.AddAssistantPlaceholder()
	r.transcript.AppendToLast(reply.Content)
	r.transcript.FinalizeLast()
	r.exchanges++

	if !r.quiet {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			DimStyle.Render("[Reply]"),
			DimStyle.Render(time.Since(start).Round(time.Millisecond).String()))
	}
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand dispatches a /command. Returns false to exit.
func (r *chatREPL) handleSlashCommand(cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	switch strings.ToLower(parts[0]) {
	case "/help", "/h", "/?", "/":
		r.printHelp()
		return true, nil

	case "/status", "/s":
		r.printStatus()
		return true, nil

	case "/history":
		r.printHistory()
		return true, nil

	case "/close":
		r.closeSession()
		return false, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", parts[0])
	}
}

// closeSession closes the backend session. Best-effort: the REPL exits
// either way.
func (r *chatREPL) closeSession() {
	ctx, cancel := commandContext()
	defer cancel()

	if _, err := r.client.CloseChatSession(ctx, r.session.ID); err != nil {
		fmt.Fprintf(os.Stderr, "%s could not close the session: %s\n",
			WarnStyle.Render("[Warning]"), api.UserMessage(err))
		return
	}
	fmt.Println(SuccessStyle.Render("[Session closed]"))
}

// archiveTranscript persists the conversation locally on exit.
func (r *chatREPL) archiveTranscript() {
	if r.archive == nil || r.exchanges == 0 {
		return
	}
	st := storage.NewStoredTranscript(r.transcript)
	if err := r.archive.SaveTranscript(st); err != nil {
		fmt.Fprintf(os.Stderr, "%s transcript not archived: %v\n",
			WarnStyle.Render("[Warning]"), err)
		return
	}
	if !r.quiet {
		StderrPrintln(DimStyle.Render("Transcript archived (garagehub history list)."))
	}
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

func (r *chatREPL) printWelcome() {
	fmt.Println()
	fmt.Println(TitleStyle.Render("garagehub mechanic chat"))
	fmt.Println(DimStyle.Render(strings.Repeat("─", 30)))
	if r.session.CarDisplay != "" {
		fmt.Println(RenderRow("Vehicle", r.session.CarDisplay))
	}
	if cat := r.session.Complaint.Category(); cat.Label != "" {
		fmt.Println(RenderRow("Category", cat.Icon+" "+cat.Label))
	}
	fmt.Println(RenderRow("Session", "#"+fmt.Sprint(r.session.ID)))
	fmt.Println()

	greeting := r.session.GreetingFallback()
	if last := r.transcript.GetLastMessage(); last != nil && last.Role == model.RoleAssistant {
		greeting = last.Content
	}
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(greeting))
	} else {
		fmt.Println(greeting)
	}
	fmt.Println()
	fmt.Println(DimStyle.Render("Type your message and press Enter. Commands: /help, /quit"))
	fmt.Println()
}

func (r *chatREPL) printHelp() {
	fmt.Println()
	fmt.Println(TitleStyle.Render("Available Commands"))
	fmt.Println(DimStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/status, /s", "Show session info"},
		{"/history", "Show the conversation so far"},
		{"/close", "Close the session and exit"},
		{"/quit, /q", "Exit (session stays open)"},
	}
	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			SuccessStyle.Render(fmt.Sprintf("%-14s", c.cmd)),
			DimStyle.Render(c.desc))
	}

	fmt.Println()
	fmt.Println(DimStyle.Render("Tip: Ctrl+C cancels the current reply, Ctrl+D exits"))
	fmt.Println()
}

func (r *chatREPL) printStatus() {
	fmt.Println()
	fmt.Println(TitleStyle.Render("Session Status"))
	fmt.Println(DimStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()
	fmt.Println(RenderRow("Session", "#"+fmt.Sprint(r.session.ID)))
	if r.session.CarDisplay != "" {
		fmt.Println(RenderRow("Vehicle", r.session.CarDisplay))
	}
	fmt.Println(RenderRow("Complaint", "#"+fmt.Sprint(r.session.Complaint.ID)))
	fmt.Println(RenderRow("Duration", time.Since(r.startTime).Round(time.Second).String()))
	fmt.Println(RenderRow("Messages", fmt.Sprint(r.transcript.MessageCount())))
	fmt.Println()
}

func (r *chatREPL) printHistory() {
	if r.transcript.IsEmpty() {
		fmt.Println(DimStyle.Render("[No messages yet]"))
		return
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("Conversation History"))
	fmt.Println(DimStyle.Render(strings.Repeat("─", 25)))
	fmt.Println()

	for i, msg := range r.transcript.Messages {
		var role string
		switch msg.Role {
		case model.RoleUser:
			role = TitleStyle.Render("You")
		case model.RoleAssistant:
			role = SuccessStyle.Render("Mechanic")
		default:
			role = WarnStyle.Render("System")
		}

		content := msg.Content
		runes := []rune(content)
		if len(runes) > 100 {
			content = string(runes[:100]) + "..."
		}
		content = strings.ReplaceAll(content, "\n", " ")
		fmt.Printf("  %d. %s: %s\n", i+1, role, content)
	}
	fmt.Println()
}

func (r *chatREPL) printExitSummary() {
	if r.exchanges == 0 {
		fmt.Println(DimStyle.Render("Goodbye!"))
		return
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("Session Summary"))
	fmt.Println(DimStyle.Render(strings.Repeat("─", 15)))
	fmt.Println(RenderRow("Exchanges", fmt.Sprint(r.exchanges)))
	fmt.Println(RenderRow("Duration", time.Since(r.startTime).Round(time.Second).String()))
	fmt.Println()
	fmt.Println(DimStyle.Render("Goodbye!"))
}
