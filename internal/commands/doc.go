// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package commands implements the slash command system used by the chat
screen and the line-mode REPL.

Input lines beginning with "/" are parsed against a registry of named
commands. Each command carries argument definitions that are validated
before its handler runs, and every handler returns a bubbletea command
producing one of the typed messages in this package (ShowHelpMsg,
ExportTranscriptMsg, HistoryListMsg, ...). The UI layer consumes those
messages; handlers never touch the terminal directly.

# Key Types

  - Command: a named command with aliases, argument definitions, and a handler
  - Registry: lookup table for commands, populated by NewRegistry
  - Parser: resolves an input line to a command and validated arguments
  - Context: dependencies handlers may use (config, API client, archive, session)

# Usage

	registry := commands.NewRegistry()
	parser := commands.NewParser(registry)
	ctx := commands.NewContext(cfg, client, archive, sess)

	result := parser.Parse("/export html")
	if result.IsCommand {
		if result.Error != nil {
			// show the error to the user
		} else if cmd := result.Command.Handler(ctx, result.Args); cmd != nil {
			// hand the tea.Cmd to the runtime
		}
	}

Adding a command means registering a Command in registerBuiltins and
handling its message type in the chat screen's update loop.
*/
package commands
