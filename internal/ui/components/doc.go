// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the garagehub TUI.

This package contains a collection of styled, interactive components built on
top of the Bubble Tea and Lip Gloss libraries. Each component is designed to
be visually consistent with the garagehub design language.

# Core Components

## Input Components

InputArea (input.go) - Styled text input with character counter.
MultilineInputArea (input.go) - Multi-line input for complaint descriptions.

## Display Components

Header (header.go) - Application header with backend host and connection state.
StatusBar (statusbar.go) - Bottom status bar with session phase and shortcuts.
MessageBubble (message.go) - Styled bubbles for chat transcript messages,
including pending and rolled-back delivery markers for optimistic sends.
CodeBlock (codeblock.go) - Syntax-highlighted fenced blocks using Chroma,
used for diagnostic trouble code dumps in mechanic replies.
CategoryBarChart (barchart.go) - Horizontal bar chart for complaint statistics.
CriticalBanner (critical_banner.go) - Banner for critical complaint classifications.

## Progress and Feedback

Spinner (spinner.go) - Animated spinner with customizable styles, including
the thinking indicator shown while waiting on the mechanic's first chunk and
the boxed submit spinner shown while a complaint submission is in flight.
ErrorDisplay (error.go) - Error messages with category styling and suggestions.

## Specialized Views

Welcome (welcome.go) - Landing screen with backend status and screen shortcuts.
ChatViewport (viewport.go) - Scrollable transcript pane that stays pinned to
the bottom while a reply streams unless the user scrolls away.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	header := components.NewHeader(theme)
	header.SetWidth(80)
	header.SetBackendHost("localhost:8000")
	view := header.View()

# Bubble Tea Integration

Most components implement the Bubble Tea Model interface:

	type Component interface {
		Init() tea.Cmd
		Update(tea.Msg) (Component, tea.Cmd)
		View() string
	}

# Helper Functions

The package includes shared helper functions in helpers.go:
  - toStr() - Integer to string conversion without fmt
  - fmtNumber() - Thousand-separated number formatting
  - fmtPercent() - Percentage formatting with one decimal place
*/
package components
