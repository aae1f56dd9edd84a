// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN MODEL
// =============================================================================

// Welcome is the landing screen shown when the TUI starts. It displays the
// backend connection state and the keys for the main screens.
type Welcome struct {
	// Display info
	version     string
	backendHost string
	conn        ConnState

	// Dimensions
	width  int
	height int

	// Theme
	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		conn:    ConnChecking,
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetBackendHost sets the backend host shown in the info block.
func (w *Welcome) SetBackendHost(host string) {
	w.backendHost = host
}

// SetConn sets the backend connection state.
func (w *Welcome) SetConn(state ConnState) {
	w.conn = state
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

// View renders the welcome screen.
// Responsive: adapts to terminal size, minimum 80x24 supported.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	// Calculate box width - responsive to terminal width
	boxWidth := 62
	if width < 70 {
		boxWidth = width - 8
	}
	if boxWidth < 40 {
		boxWidth = 40
	}
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	// Adjust padding for narrow terminals
	horizontalPadding := 4
	verticalPadding := 1
	if width < 70 {
		horizontalPadding = 2
	}

	// Box overhead: 2 (border top/bottom) + 2*verticalPadding
	boxOverhead := 2 + 2*verticalPadding
	availableContentLines := height - boxOverhead

	var content string
	var contentLines int

	if availableContentLines >= 20 {
		// Full layout with double newlines
		content = w.renderLogo()
		content += "\n\n" + w.renderVersion()
		content += "\n\n" + w.renderBackendInfo()
		content += "\n\n" + w.renderMenu()
		content += "\n\n" + w.renderPressKey()
		contentLines = 6 + 2 + 1 + 2 + 2 + 2 + 5 + 2 + 1
	} else if availableContentLines >= 15 {
		// Compact: single newlines between sections
		content = w.renderLogo()
		content += "\n" + w.renderVersion()
		content += "\n" + w.renderBackendInfo()
		content += "\n" + w.renderMenu()
		content += "\n" + w.renderPressKey()
		contentLines = 6 + 1 + 1 + 1 + 2 + 1 + 5 + 1 + 1
	} else {
		// Very compact: compact logo, no menu list
		content = w.renderLogoCompact()
		content += "\n" + w.renderBackendInfoCompact()
		content += "\n" + w.renderPressKey()
		contentLines = 3 + 1 + 1 + 1 + 1
	}

	// If still too tight, remove vertical padding
	if contentLines+boxOverhead > height {
		verticalPadding = 0
		boxOverhead = 2
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Purple).
		Padding(verticalPadding, horizontalPadding).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	boxHeight := lipgloss.Height(box)

	// Align top when the box overflows so the logo is never cut off.
	if boxHeight >= height {
		return lipgloss.Place(
			width, height,
			lipgloss.Center, lipgloss.Top,
			box,
		)
	}

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// renderLogo renders the ASCII art logo (6 lines).
// Responsive: uses compact or simple logo for narrow terminals.
func (w Welcome) renderLogo() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	if w.width >= 60 {
		logo := `  ____    _    ____      _    ____ _____
 / ___|  / \  |  _ \    / \  / ___| ____|
| |  _  / _ \ | |_) |  / _ \| |  _|  _|
| |_| |/ ___ \|  _ <  / ___ \ |_| | |___
 \____/_/   \_\_| \_\/_/   \_\____|_____|
                              hub`
		return logoStyle.Render(logo)
	}

	// For narrow terminals, use compact logo
	return w.renderLogoCompact()
}

// renderLogoCompact renders a compact text-based logo (3 lines).
func (w Welcome) renderLogoCompact() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	if w.width >= 40 {
		return logoStyle.Render(`+--------------------+
|     garagehub      |
+--------------------+`)
	}

	// Simple text logo for very narrow terminals - 1 line
	return logoStyle.Render("garagehub - Vehicle Complaint Intake")
}

// renderVersion renders the version subtitle.
func (w Welcome) renderVersion() string {
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("Vehicle Complaint Intake v" + w.version)
}

// renderBackendInfo renders the backend host and connection status.
func (w Welcome) renderBackendInfo() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(10)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	host := w.backendHost
	if host == "" {
		host = "localhost:8000"
	}

	lines := []string{
		labelStyle.Render("Backend: ") + valueStyle.Render(host),
		labelStyle.Render("Status:  ") + w.renderConnIndicator(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderBackendInfoCompact renders a single-line backend info.
func (w Welcome) renderBackendInfoCompact() string {
	valueStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	host := w.backendHost
	if host == "" {
		host = "localhost:8000"
	}

	return valueStyle.Render(host) + " | " + w.renderConnIndicator()
}

// renderConnIndicator renders the connection state with appropriate color.
func (w Welcome) renderConnIndicator() string {
	var connStyle lipgloss.Style

	switch w.conn {
	case ConnOnline:
		connStyle = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	case ConnOffline:
		connStyle = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	default:
		connStyle = lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	}

	return connStyle.Render(w.conn.String())
}

// renderMenu renders the screen shortcuts.
func (w Welcome) renderMenu() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Width(4)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	entries := []struct {
		key  string
		desc string
	}{
		{"s", "Submit a complaint"},
		{"f", "Find vehicle by plate"},
		{"t", "Complaint statistics"},
		{"c", "Chat with a mechanic"},
		{"q", "Quit"},
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = keyStyle.Render(e.key) + descStyle.Render(e.desc)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderPressKey renders the key prompt.
func (w Welcome) renderPressKey() string {
	return lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("Press a key to choose a screen...")
}

// =============================================================================
// ALTERNATE LOGO STYLES
// =============================================================================

// CompactLogo returns a smaller logo for narrow terminals (3 lines).
func CompactLogo() string {
	return lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render(`+--------------------+
|     garagehub      |
+--------------------+`)
}

// SimpleLogo returns a minimal text logo.
func SimpleLogo() string {
	return lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render("garagehub - Vehicle Complaint Intake")
}

// =============================================================================
// KEYBOARD SHORTCUT HELP
// =============================================================================

// KeyboardShortcuts returns a formatted list of keyboard shortcuts.
func KeyboardShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send message"},
		{"Ctrl+C", "Quit"},
		{"Ctrl+L", "Clear screen"},
		{"Up/Down", "Scroll messages"},
		{"Tab", "Next form field"},
		{"Esc", "Back to menu"},
		{"PgUp/PgDn", "Page scroll"},
	}

	lines := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		lines[i] = keyStyle.Render(s.key) + descStyle.Render(s.desc)
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Bold(true)

	return titleStyle.Render("Keyboard Shortcuts") + "\n" +
		lipgloss.JoinVertical(lipgloss.Left, lines...)
}
