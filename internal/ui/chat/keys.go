// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// keys.go - Keyboard bindings for the chat screen.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings for the chat screen. Each
// binding supports multiple keys and carries help text.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Clear    key.Binding
	Copy     key.Binding
}

// DefaultKeyMap returns the default chat bindings. Scrolling works
// with both arrow keys and the usual pager shortcuts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("Home", "oldest message"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("End", "latest message"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "dismiss / back"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("C-h", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("C-q", "quit"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear transcript"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy last reply"),
		),
	}
}

// ShortHelp returns the bindings shown in the one-line help strip.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Help, k.Quit}
}

// FullHelp returns bindings grouped for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Home, k.End},
		{k.Submit, k.Cancel, k.Clear, k.Copy},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// HELP TEXT
// =============================================================================

// HelpItem is one entry of the help overlay.
type HelpItem struct {
	Key  string
	Desc string
}

// HelpSection groups related help entries under a heading.
type HelpSection struct {
	Title string
	Items []HelpItem
}

// HelpSections returns the help overlay content: keyboard shortcuts
// followed by the slash commands the chat understands.
func HelpSections() []HelpSection {
	return []HelpSection{
		{
			Title: "Navigation",
			Items: []HelpItem{
				{"up/down", "Scroll one line"},
				{"PgUp/PgDn", "Scroll one page"},
				{"Home/End", "Jump to oldest / latest message"},
			},
		},
		{
			Title: "Actions",
			Items: []HelpItem{
				{"Enter", "Send message"},
				{"C-y", "Copy the mechanic's last reply"},
				{"C-l", "Clear the visible transcript"},
				{"Esc", "Dismiss error / cancel prompt"},
			},
		},
		{
			Title: "Commands",
			Items: []HelpItem{
				{"/help", "Show this help"},
				{"/status", "Session status snapshot"},
				{"/close", "Close the chat session"},
				{"/export [md|html|json]", "Export the transcript"},
				{"/history [query]", "List archived chats"},
				{"/copy", "Copy the last reply"},
				{"/clear", "Clear the transcript view"},
				{"/quit", "Exit garagehub"},
			},
		},
	}
}
