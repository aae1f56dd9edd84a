// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for line-mode output.
//
// Colors degrade automatically: the init hook sets the lipgloss color
// profile from GetColorProfile, so piped output and NO_COLOR runs stay
// plain without per-call checks.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle heads command output.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// LabelStyle is the left column of label/value rows.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14)

	// ValueStyle renders row values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// SuccessStyle marks accepted submissions and passing checks.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// WarnStyle marks degraded-but-working states.
	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// DimStyle renders hints and secondary detail.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	// CriticalStyle marks crash/fire complaints.
	CriticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("160")).
			Bold(true)
)

// RenderStatus renders a bracketed status marker.
func RenderStatus(status string) string {
	switch strings.ToLower(status) {
	case "ok", "pass":
		return SuccessStyle.Render("[OK]")
	case "fail", "error":
		return ErrorStyle.Render("[FAIL]")
	case "warn", "warning":
		return WarnStyle.Render("[WARN]")
	default:
		return DimStyle.Render("[" + strings.ToUpper(status) + "]")
	}
}

// RenderRow renders a fixed-width label/value row.
func RenderRow(label, value string) string {
	return "  " + LabelStyle.Render(label) + ValueStyle.Render(value)
}

// RenderSeparator renders a dim horizontal rule.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 40
	}
	return DimStyle.Render(strings.Repeat("─", width))
}
