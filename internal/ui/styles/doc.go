// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the GarageHub TUI.

This package defines the complete color palette, theme, and animation
system used throughout the application. All colors use Lip Gloss
AdaptiveColor for automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Purple - Primary accent for mechanic replies and selections
  - Cyan - Brand color for info, license plates, and user highlights
  - Emerald - Success states and the connected-backend indicator
  - Amber - Warnings and pending states
  - Rose - Errors and critical complaints

## Semantic Colors

Message bubbles, classification badges, and UI elements use semantic
color tokens:

	UserBubbleBg      - Background for user messages
	AssistantBubbleBg - Background for mechanic replies
	TierHighBg        - Badge background for high-confidence predictions
	TierLowBg         - Badge background for low-confidence predictions
	CriticalBg        - Badge background for crash or fire complaints

## Surface Colors

Layered surface system for depth:

	Surface    - Main background
	SurfaceDim - Subtle backgrounds (headers, status bars)
	Overlay    - Borders and separators

## Text Colors

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}
	badge := theme.TierBadge(complaint.ConfidenceTier())

# Animation System (animations.go)

Pre-defined spinner styles:

	BrailleSpinner - Smooth 10-frame spinner
	DotsSpinner    - Classic three-dot animation
	LineSpinner    - Simple line rotation

ASCII status indicators for colorblind accessibility:

	StatusIndicators.Success - [OK]
	StatusIndicators.Error   - [X]
	StatusIndicators.Warning - [!]
	StatusIndicators.Info    - [i]

# Usage Example

	import "github.com/jeranaias/garagehub-tui/internal/ui/styles"

	headerStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)

	theme := styles.NewTheme()
	fmt.Println(theme.TierBadge("high").Render("92% brakes_safety"))
*/
package styles
