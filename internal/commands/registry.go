// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/config"
	"github.com/jeranaias/garagehub-tui/internal/session"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help
	Description string

	// Usage shows argument syntax (e.g., "/export [format]")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines validation behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of argument this is.
type ArgType int

const (
	ArgTypeString ArgType = iota // Free-form string
	ArgTypeEnum                  // One of predefined values
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation commands
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Usage:       "/help [topic]",
		Args: []ArgDef{
			{Name: "topic", Required: false, Type: ArgTypeString, Description: "Command or category to describe"},
		},
		Category: "Navigation",
		Handler:  HandleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit garagehub",
		Category:    "Navigation",
		Handler:     HandleQuit,
	})

	// Session commands
	r.Register(&Command{
		Name:        "/close",
		Description: "Close the current chat session",
		Category:    "Session",
		Handler:     HandleClose,
	})

	r.Register(&Command{
		Name:        "/status",
		Description: "Show session status",
		Category:    "Session",
		Handler:     HandleStatus,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the visible chat history",
		Category:    "Session",
		Handler:     HandleClear,
	})

	r.Register(&Command{
		Name:        "/copy",
		Description: "Copy the mechanic's last reply to the clipboard",
		Category:    "Session",
		Handler:     HandleCopy,
	})

	// Archive commands
	r.Register(&Command{
		Name:        "/export",
		Description: "Export the chat transcript to a file",
		Usage:       "/export [format]",
		Args: []ArgDef{
			{Name: "format", Required: false, Type: ArgTypeEnum, Values: []string{"markdown", "md", "html", "htm", "json"}, Description: "Export format"},
		},
		Category: "Archive",
		Handler:  HandleExport,
	})

	r.Register(&Command{
		Name:        "/history",
		Aliases:     []string{"/past"},
		Description: "List archived chats",
		Usage:       "/history [query]",
		Args: []ArgDef{
			{Name: "query", Required: false, Type: ArgTypeString, Description: "Filter archived chats"},
		},
		Category: "Archive",
		Handler:  HandleHistory,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context provides access to application state for command handlers.
// All fields are optional and may be nil; handlers check before use.
type Context struct {
	// Config provides access to application configuration
	Config *config.Config

	// Client talks to the garage backend
	Client *api.Client

	// Archive handles local persistence
	Archive *storage.Archive

	// Session owns the current chat lifecycle
	Session *session.State
}

// NewContext creates a new command context with the given dependencies.
// All parameters are optional and can be nil.
func NewContext(cfg *config.Config, client *api.Client, archive *storage.Archive, sess *session.State) *Context {
	return &Context{
		Config:  cfg,
		Client:  client,
		Archive: archive,
		Session: sess,
	}
}

// RecordActivity records user activity in the session if available.
func (c *Context) RecordActivity() {
	if c.Session != nil {
		c.Session.RecordActivity()
	}
}
