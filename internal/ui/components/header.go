// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the GarageHub TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Title bar with GarageHub branding
// =============================================================================

// ConnState represents the backend connection state shown in the header.
type ConnState int

const (
	ConnChecking ConnState = iota
	ConnOnline
	ConnOffline
)

// String returns the display string for the connection state
func (c ConnState) String() string {
	switch c {
	case ConnOnline:
		return "ONLINE"
	case ConnOffline:
		return "OFFLINE"
	case ConnChecking:
		return "CHECKING"
	default:
		return "UNKNOWN"
	}
}

// Header represents the title bar component
type Header struct {
	Title       string    // Main title (default: "garagehub")
	BackendHost string    // Backend host shown in the subtitle
	Conn        ConnState // Backend connection state
	Width       int       // Available width
	theme       *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:       "garagehub",
		BackendHost: "",
		Conn:        ConnChecking,
		Width:       80,
		theme:       theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetBackendHost updates the backend host shown in the subtitle
func (h *Header) SetBackendHost(host string) {
	h.BackendHost = host
}

// SetConn updates the backend connection state
func (h *Header) SetConn(state ConnState) {
	h.Conn = state
}

// View renders the header component
func (h *Header) View() string {
	// Ensure minimum width
	width := h.Width
	if width < 40 {
		width = 40
	}

	// Calculate inner width (accounting for borders and padding)
	innerWidth := width - 6

	// Brand title
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	// Subtitle line with backend host and connection state
	subtitleParts := []string{}

	if h.BackendHost != "" {
		hostStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, hostStyle.Render(h.BackendHost))
	}

	connStyle := h.getConnStyle()
	connIndicator := connStyle.Render("[" + h.Conn.String() + "]")
	subtitleParts = append(subtitleParts, connIndicator)

	// Prominent badge when the backend is unreachable
	if h.Conn == ConnOffline {
		offlineBadge := lipgloss.NewStyle().
			Background(styles.CriticalBg).
			Foreground(styles.CriticalFg).
			Bold(true).
			Padding(0, 1).
			Render("BACKEND UNREACHABLE")
		subtitleParts = append(subtitleParts, offlineBadge)
	}

	subtitle := strings.Join(subtitleParts, " ")

	// Center the content
	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a compact single-line header for narrow terminals
func (h *Header) ViewCompact() string {
	// Compact format: <garagehub> | host | [ONLINE]
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}

	if h.BackendHost != "" {
		hostStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, hostStyle.Render(h.BackendHost))
	}

	connStyle := h.getConnStyle()
	parts = append(parts, connStyle.Render("["+h.Conn.String()+"]"))

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

// ViewFancy renders an extra fancy header with ASCII art flourishes
func (h *Header) ViewFancy() string {
	width := h.Width
	if width < 60 {
		return h.View()
	}

	innerWidth := width - 6

	topDeco := h.createDecorativeLine(innerWidth)

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	sparkleStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := sparkleStyle.Render("* ") +
		brandStyle.Render(h.Title) +
		sparkleStyle.Render(" *")

	taglineStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	tagline := taglineStyle.Render("Vehicle Complaint Intake")

	hostLine := ""
	if h.BackendHost != "" {
		hostStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		hostLine = hostStyle.Render("Backend: " + h.BackendHost)
	}

	connStyle := h.getConnStyle()
	connBadge := connStyle.Render(" " + h.Conn.String() + " ")

	bottomDeco := h.createDecorativeLine(innerWidth)

	centerStyle := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center)

	lines := []string{
		centerStyle.Render(topDeco),
		centerStyle.Render(brand),
		centerStyle.Render(tagline),
	}

	if hostLine != "" {
		lines = append(lines, centerStyle.Render(hostLine))
	}

	lines = append(lines, centerStyle.Render(connBadge))
	lines = append(lines, centerStyle.Render(bottomDeco))

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// getConnStyle returns the appropriate style for the connection state
func (h *Header) getConnStyle() lipgloss.Style {
	switch h.Conn {
	case ConnOnline:
		return lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)
	case ConnOffline:
		return lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
	case ConnChecking:
		return lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)
	default:
		return lipgloss.NewStyle().
			Foreground(styles.TextMuted)
	}
}

// createDecorativeLine creates a decorative line with gradual fade
func (h *Header) createDecorativeLine(width int) string {
	if width < 10 {
		return ""
	}

	// Format: -----< * >-----
	sideLen := (width - 7) / 2
	if sideLen < 3 {
		sideLen = 3
	}

	lineStyle := lipgloss.NewStyle().
		Foreground(styles.Overlay)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	side := strings.Repeat("-", sideLen)

	return lineStyle.Render(side) +
		accentStyle.Render("< * >") +
		lineStyle.Render(side)
}

// =============================================================================
// GRADIENT TITLE (for terminals with true color support)
// =============================================================================

// GradientTitle creates a gradient text effect
// Note: This works best in terminals with true color support
func GradientTitle(text string, startColor, endColor lipgloss.Color) string {
	if len(text) == 0 {
		return ""
	}

	// For short text, just use the start color
	if len(text) < 3 {
		return lipgloss.NewStyle().Foreground(startColor).Render(text)
	}

	// Build gradient character by character
	var result strings.Builder
	chars := []rune(text)
	n := len(chars)

	for i, char := range chars {
		t := float64(i) / float64(n-1)
		color := interpolateColor(startColor, endColor, t)

		style := lipgloss.NewStyle().Foreground(color)
		result.WriteString(style.Render(string(char)))
	}

	return result.String()
}

// interpolateColor interpolates between two colors
func interpolateColor(start, end lipgloss.Color, t float64) lipgloss.Color {
	startHex := string(start)
	endHex := string(end)

	if len(startHex) > 0 && startHex[0] == '#' {
		startHex = startHex[1:]
	}
	if len(endHex) > 0 && endHex[0] == '#' {
		endHex = endHex[1:]
	}

	sr, sg, sb := parseHexColor(startHex)
	er, eg, eb := parseHexColor(endHex)

	r := uint8(float64(sr) + t*(float64(er)-float64(sr)))
	g := uint8(float64(sg) + t*(float64(eg)-float64(sg)))
	b := uint8(float64(sb) + t*(float64(eb)-float64(sb)))

	return lipgloss.Color(formatHexColor(r, g, b))
}

// parseHexColor parses a hex color string into RGB components
func parseHexColor(hex string) (r, g, b uint8) {
	if len(hex) < 6 {
		return 255, 255, 255 // Default to white
	}

	r = parseHexByte(hex[0:2])
	g = parseHexByte(hex[2:4])
	b = parseHexByte(hex[4:6])
	return
}

// parseHexByte parses a two-character hex string into a byte
func parseHexByte(s string) uint8 {
	if len(s) != 2 {
		return 255
	}

	var result uint8
	for _, c := range s {
		result *= 16
		switch {
		case c >= '0' && c <= '9':
			result += uint8(c - '0')
		case c >= 'a' && c <= 'f':
			result += uint8(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			result += uint8(c - 'A' + 10)
		default:
			return 255
		}
	}
	return result
}

// formatHexColor formats RGB values as a hex color string
func formatHexColor(r, g, b uint8) string {
	const hexChars = "0123456789ABCDEF"
	return "#" +
		string(hexChars[r>>4]) + string(hexChars[r&0xF]) +
		string(hexChars[g>>4]) + string(hexChars[g&0xF]) +
		string(hexChars[b>>4]) + string(hexChars[b&0xF])
}
