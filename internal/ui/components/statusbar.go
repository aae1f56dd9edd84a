// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the GarageHub TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status represents the current application status
type Status int

const (
	StatusReady Status = iota
	StatusStreaming
	StatusThinking
	StatusLoading
	StatusError
	StatusIdle
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusStreaming:
		return "Streaming..."
	case StatusThinking:
		return "Thinking..."
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	case StatusIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusStreaming:
		return "~"
	case StatusThinking:
		return styles.StatusIndicators.Pending
	case StatusLoading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusIdle:
		return "-"
	default:
		return "?"
	}
}

// StatusBar represents the bottom status bar
type StatusBar struct {
	Conn          ConnState // Backend connection state
	Screen        string    // Active screen name (INTAKE/SEARCH/CHAT/STATS)
	Plate         string    // Normalized plate of the loaded vehicle, if any
	SessionID     int64     // Active chat session id
	SessionActive bool      // Whether the chat session is open
	HasSession    bool      // Whether a chat session exists at all
	CharCount     int       // Characters typed into the complaint field
	MinChars      int       // Minimum complaint length accepted by the backend
	OnFile        int       // Prior complaints on file for the loaded vehicle
	Status        Status    // Current status
	Width         int       // Available width
	ShowShortcuts bool      // Show keyboard shortcuts
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Conn:          ConnChecking,
		Screen:        "",
		Plate:         "",
		CharCount:     0,
		MinChars:      10,
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetConn updates the backend connection state
func (s *StatusBar) SetConn(state ConnState) {
	s.Conn = state
}

// SetScreen updates the active screen label
func (s *StatusBar) SetScreen(name string) {
	s.Screen = name
}

// SetPlate updates the loaded vehicle plate
func (s *StatusBar) SetPlate(plate string) {
	s.Plate = plate
}

// SetOnFile updates the prior-complaint count for the loaded vehicle
func (s *StatusBar) SetOnFile(n int) {
	s.OnFile = n
}

// SetSession records the chat session shown in the bar
func (s *StatusBar) SetSession(id int64, active bool) {
	s.SessionID = id
	s.SessionActive = active
	s.HasSession = true
}

// ClearSession removes the chat session from the bar
func (s *StatusBar) ClearSession() {
	s.SessionID = 0
	s.SessionActive = false
	s.HasSession = false
}

// SetCharProgress updates the complaint-length progress display
func (s *StatusBar) SetCharProgress(count, min int) {
	s.CharCount = count
	if min > 0 {
		s.MinChars = min
	}
}

// SetStatus updates the current status
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// View renders the status bar
func (s *StatusBar) View() string {
	// Choose layout based on width
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals
// Format: [O|#12] LenBar Status
func (s *StatusBar) viewNarrow() string {
	parts := []string{}

	// Connection indicator (first letter only)
	connStyle := s.getConnStyle()
	connChar := string([]rune(s.Conn.String())[0])
	parts = append(parts, connStyle.Render(connChar))

	// Session indicator
	if s.HasSession {
		sessStyle := s.getSessionStyle()
		parts = append(parts, sessStyle.Render("#"+formatNumber(int(s.SessionID))))
	}

	connSection := "[" + strings.Join(parts, "|") + "]"

	// Complaint length bar (smaller)
	lengthBar := s.renderLengthBarSmall()

	// Status
	statusStyle := s.getStatusStyle()
	statusText := statusStyle.Render(s.Status.Icon())

	separator := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" ")

	result := connSection + separator + lengthBar + separator + statusText

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width).
		Render(result)
}

// viewMedium renders a medium-width status bar
// Format: ONLINE | INTAKE | ABC-1234 | Len: bar | Status
func (s *StatusBar) viewMedium() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	parts := []string{}

	// Connection state
	connStyle := s.getConnStyle()
	parts = append(parts, connStyle.Render(s.Conn.String()))

	// Screen label
	if s.Screen != "" {
		screenStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		parts = append(parts, screenStyle.Render(s.Screen))
	}

	// Plate (truncated if needed)
	if s.Plate != "" {
		plate := s.Plate
		plateRunes := []rune(plate)
		if len(plateRunes) > 15 {
			plate = string(plateRunes[:12]) + "..."
		}
		plateStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
		parts = append(parts, plateStyle.Render(plate))
	}

	// Complaint length bar with label
	lengthLabel := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("Len:")
	lengthBar := s.renderLengthBar()
	parts = append(parts, lengthLabel+" "+lengthBar)

	// Status
	statusStyle := s.getStatusStyle()
	parts = append(parts, statusStyle.Render(s.Status.String()))

	result := strings.Join(parts, separator)

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// viewWide renders a full-featured status bar for wide terminals
// Format: ONLINE | INTAKE | ABC-1234 | 3 on file | session #12 (active) ... Len: [#####] ... Ready ^C quit
func (s *StatusBar) viewWide() string {
	// Left section: connection, screen, vehicle, session
	leftParts := []string{}

	connStyle := s.getConnStyle()
	connIcon := s.getConnIcon()
	leftParts = append(leftParts, connStyle.Render(connIcon+" "+s.Conn.String()))

	if s.Screen != "" {
		screenStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true)
		leftParts = append(leftParts, screenStyle.Render(s.Screen))
	}

	if s.Plate != "" {
		plateStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
		leftParts = append(leftParts, plateStyle.Render(s.Plate))

		if s.OnFile > 0 {
			onFileStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
			leftParts = append(leftParts, onFileStyle.Render(formatNumber(s.OnFile)+" on file"))
		}
	}

	if s.HasSession {
		sessStyle := s.getSessionStyle()
		state := "active"
		if !s.SessionActive {
			state = "closed"
		}
		leftParts = append(leftParts, sessStyle.Render(
			fmt.Sprintf("session #%d (%s)", s.SessionID, state)))
	}

	leftSep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")
	leftSection := strings.Join(leftParts, leftSep)

	// Center section: complaint length bar
	lengthLabel := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("Len: ")
	lengthBar := s.renderLengthBar()
	lengthCount := s.renderLengthCount()
	centerSection := lengthLabel + lengthBar + " " + lengthCount

	// Right section: status and shortcuts
	rightParts := []string{}

	statusStyle := s.getStatusStyle()
	rightParts = append(rightParts, statusStyle.Render(s.Status.String()))

	if s.ShowShortcuts {
		rightParts = append(rightParts, s.renderShortcuts())
	}

	rightSection := strings.Join(rightParts, " ")

	// Calculate spacing
	leftWidth := lipgloss.Width(leftSection)
	centerWidth := lipgloss.Width(centerSection)
	rightWidth := lipgloss.Width(rightSection)
	totalContent := leftWidth + centerWidth + rightWidth

	spacing := s.Width - totalContent - 4 // Account for padding
	if spacing < 4 {
		spacing = 4
	}

	leftSpace := strings.Repeat(" ", spacing/2)
	rightSpace := strings.Repeat(" ", spacing-spacing/2)

	result := leftSection + leftSpace + centerSection + rightSpace + rightSection

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(styles.Overlay).
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// ==========================================================================
// HELPER RENDER METHODS
// ==========================================================================

// lengthPercent returns progress toward the minimum complaint length.
// 100 means the text is long enough to submit.
func (s *StatusBar) lengthPercent() float64 {
	if s.MinChars <= 0 {
		return 100
	}
	percent := float64(s.CharCount) / float64(s.MinChars) * 100
	if percent > 100 {
		percent = 100
	}
	return percent
}

// renderLengthBar renders the complaint-length progress bar
// Format: [##########] (10 blocks)
func (s *StatusBar) renderLengthBar() string {
	percent := s.lengthPercent()

	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	empty := 10 - filled

	// Under the minimum the bar warns; at or over it turns green
	barColor := styles.Amber
	if percent >= 100 {
		barColor = styles.Emerald
	} else if percent < 50 {
		barColor = styles.Rose
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor)
	emptyStyle := lipgloss.NewStyle().Foreground(styles.Overlay)

	filledPart := filledStyle.Render(strings.Repeat("#", filled))
	emptyPart := emptyStyle.Render(strings.Repeat("-", empty))

	return "[" + filledPart + emptyPart + "]"
}

// renderLengthBarSmall renders a smaller length bar for narrow view
// Format: ####-- (6 blocks)
func (s *StatusBar) renderLengthBarSmall() string {
	percent := s.lengthPercent()

	filled := int(percent / 100 * 6)
	if filled > 6 {
		filled = 6
	}
	empty := 6 - filled

	barColor := styles.Amber
	if percent >= 100 {
		barColor = styles.Emerald
	} else if percent < 50 {
		barColor = styles.Rose
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor)
	emptyStyle := lipgloss.NewStyle().Foreground(styles.Overlay)

	return filledStyle.Render(strings.Repeat("#", filled)) +
		emptyStyle.Render(strings.Repeat("-", empty))
}

// renderLengthCount renders the character count with the minimum
func (s *StatusBar) renderLengthCount() string {
	percent := s.lengthPercent()

	color := styles.TextMuted
	if percent >= 100 {
		color = styles.Emerald
	} else if percent < 50 {
		color = styles.Rose
	}

	countStyle := lipgloss.NewStyle().Foreground(color)

	// Format: 48/10+
	return countStyle.Render(
		formatNumber(s.CharCount) + "/" + formatNumber(s.MinChars) + "+")
}

// renderShortcuts renders keyboard shortcut hints
func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	shortcuts := []string{
		keyStyle.Render("Tab") + descStyle.Render("screen"),
		keyStyle.Render("^C") + descStyle.Render("quit"),
	}

	return strings.Join(shortcuts, " ")
}

// getConnStyle returns the style for the connection state
// ACCESSIBILITY: Uses high contrast colors with bold for colorblind users
func (s *StatusBar) getConnStyle() lipgloss.Style {
	switch s.Conn {
	case ConnOnline:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	case ConnOffline:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	case ConnChecking:
		return lipgloss.NewStyle().Foreground(styles.WarningHighContrast).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// getConnIcon returns an icon for the connection state
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s *StatusBar) getConnIcon() string {
	switch s.Conn {
	case ConnOnline:
		return styles.AnimationStatusIndicators.Connected
	case ConnOffline:
		return styles.AnimationStatusIndicators.Offline
	default:
		return styles.StatusIndicators.Pending
	}
}

// getSessionStyle returns the style for the session indicator
func (s *StatusBar) getSessionStyle() lipgloss.Style {
	if s.SessionActive {
		return lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(styles.TextMuted)
}

// getStatusStyle returns the style for the current status
// ACCESSIBILITY: Uses high contrast colors with bold for colorblind users
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	case StatusStreaming, StatusThinking:
		return lipgloss.NewStyle().Foreground(styles.InfoHighContrast).Bold(true)
	case StatusLoading:
		return lipgloss.NewStyle().Foreground(styles.WarningHighContrast).Bold(true)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	case StatusIdle:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// ==========================================================================
// HELPER FUNCTIONS (using shared helpers from helpers.go)
// ==========================================================================

// formatNumber formats a number with thousand separators
func formatNumber(n int) string {
	return fmtNumber(n)
}

// formatPercent formats a percentage with one decimal place
func formatPercent(p float64) string {
	return fmtPercent(p)
}
