// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the GarageHub TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

// =============================================================================
// CRITICAL BANNER COMPONENT - Full-width alert for crash/fire complaints
// =============================================================================

// CriticalBanner displays a full-width alert line when a complaint involves
// a crash or a fire. Service advisors triage those first, so the banner has
// to be impossible to miss.
type CriticalBanner struct {
	crash bool
	fire  bool
	width int
}

// NewCriticalBanner creates a banner with no flags raised.
func NewCriticalBanner() *CriticalBanner {
	return &CriticalBanner{width: 80}
}

// NewCriticalBannerFromComplaint creates a banner populated from a complaint.
func NewCriticalBannerFromComplaint(c model.Complaint) *CriticalBanner {
	return &CriticalBanner{
		crash: c.Crash,
		fire:  c.Fire,
		width: 80,
	}
}

// SetWidth updates the banner width for full-width rendering.
func (b *CriticalBanner) SetWidth(width int) {
	b.width = width
}

// SetFlags updates the crash/fire flags.
func (b *CriticalBanner) SetFlags(crash, fire bool) {
	b.crash = crash
	b.fire = fire
}

// IsCritical reports whether the banner has anything to show.
func (b *CriticalBanner) IsCritical() bool {
	return b.crash || b.fire
}

// label builds the banner text from the raised flags.
func (b *CriticalBanner) label() string {
	parts := []string{}
	if b.crash {
		parts = append(parts, "CRASH REPORTED")
	}
	if b.fire {
		parts = append(parts, "FIRE REPORTED")
	}
	if len(parts) == 0 {
		return ""
	}
	return "CRITICAL // " + strings.Join(parts, " // ")
}

// View renders the banner as a single full-width line.
// Format with decorative blocks:
//
//	(block chars) CRITICAL // CRASH REPORTED (block chars)
func (b *CriticalBanner) View() string {
	if !b.IsCritical() {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(styles.CriticalFg).
		Background(styles.CriticalBg).
		Bold(true)

	text := b.label()
	blockChar := "█"

	// Minimum 4 blocks on each side, text, and spaces around text
	textWidth := len(text) + 2
	availableForBlocks := b.width - textWidth
	if availableForBlocks < 8 {
		availableForBlocks = 8
	}
	blocksPerSide := availableForBlocks / 2

	leftBlocks := strings.Repeat(blockChar, blocksPerSide)
	rightBlocks := strings.Repeat(blockChar, blocksPerSide)

	content := leftBlocks + " " + text + " " + rightBlocks

	// Ensure exact width
	contentLen := lipgloss.Width(content)
	if contentLen < b.width {
		extra := b.width - contentLen
		extraLeft := extra / 2
		extraRight := extra - extraLeft
		content = strings.Repeat(blockChar, extraLeft) + content + strings.Repeat(blockChar, extraRight)
	} else if contentLen > b.width {
		// Too wide for the terminal; drop the blocks and keep the text
		content = text
	}

	return style.
		Width(b.width).
		MaxWidth(b.width).
		Align(lipgloss.Center).
		Render(content)
}

// ViewCompact renders a compact version for narrower terminals.
// Format: === CRITICAL // FIRE REPORTED ===
func (b *CriticalBanner) ViewCompact() string {
	if !b.IsCritical() {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(styles.CriticalFg).
		Background(styles.CriticalBg).
		Bold(true)

	text := b.label()

	textWidth := len(text) + 2
	availableForDashes := b.width - textWidth
	if availableForDashes < 4 {
		availableForDashes = 4
	}
	dashesPerSide := availableForDashes / 2

	leftDashes := strings.Repeat("=", dashesPerSide)
	rightDashes := strings.Repeat("=", dashesPerSide)

	content := leftDashes + " " + text + " " + rightDashes

	return style.
		Width(b.width).
		MaxWidth(b.width).
		Align(lipgloss.Center).
		Render(content)
}

// Height returns the height of the banner (one line, or zero when clear).
func (b *CriticalBanner) Height() int {
	if !b.IsCritical() {
		return 0
	}
	return 1
}
