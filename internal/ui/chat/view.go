// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - Rendering for the chat screen.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
	"github.com/jeranaias/garagehub-tui/internal/util"
)

// Fixed chrome heights used by the layout in SetSize. The header is
// one bar plus the vehicle line, the input box carries its border and
// counter row, the status bar is a single line.
const (
	headerHeight = 4
	inputHeight  = 4
	statusHeight = 1
)

// View renders the chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.showHelp {
		return m.renderHelp()
	}

	sections := []string{
		m.header.View(),
		m.renderContextLine(),
		m.viewport.View(),
	}

	if m.thinking.IsActive() {
		sections = append(sections, m.thinking.View())
	}

	sections = append(sections, m.input.View(), m.statusBar.View())

	// Overlays take over the whole screen; lipgloss cannot composite
	// true layers.
	switch m.state {
	case StateError:
		return m.overlayBox(m.errView.View())
	case StateConfirmClose:
		return m.renderConfirmClose()
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderContextLine shows which complaint this chat is anchored to:
// vehicle display name plus the predicted category.
func (m Model) renderContextLine() string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)

	if m.sess == nil {
		return labelStyle.Render("  No active session")
	}
	sess, ok := m.sess.Session()
	if !ok {
		return labelStyle.Render("  No active session")
	}

	var parts []string
	if sess.CarDisplay != "" {
		parts = append(parts, labelStyle.Render("Vehicle: ")+valueStyle.Render(sess.CarDisplay))
	}
	if cat := sess.Complaint.Category(); cat.Code != "" {
		parts = append(parts, labelStyle.Render("Category: ")+valueStyle.Render(cat.Icon+" "+cat.Label))
	}
	if len(parts) == 0 {
		parts = append(parts, labelStyle.Render("Session #")+valueStyle.Render(util.Int64ToString(sess.ID)))
	}
	return "  " + strings.Join(parts, labelStyle.Render("  |  "))
}

// renderConfirmClose draws the close confirmation prompt.
func (m Model) renderConfirmClose() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Amber).
		Render("Close chat session?")

	body := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render("The transcript will be saved to your local archive.")

	keys := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("y: close    n/Esc: keep chatting")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Amber).
		Padding(1, 3).
		Render(title + "\n\n" + body + "\n\n" + keys)

	return m.overlayBox(box)
}

// renderHelp draws the full-screen help overlay.
func (m Model) renderHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Emerald).Width(26)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	footStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render("garagehub chat help"))
	b.WriteString("\n")
	for _, section := range HelpSections() {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(section.Title))
		b.WriteString("\n")
		for _, item := range section.Items {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(item.Key))
			b.WriteString(descStyle.Render(item.Desc))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(footStyle.Render("Press any key to return to the chat."))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Surface).
		Padding(1, 2).
		Render(b.String())

	return m.overlayBox(box)
}

// overlayBox centers a box in the terminal.
func (m Model) overlayBox(box string) string {
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
