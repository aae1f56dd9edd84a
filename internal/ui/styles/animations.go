// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the GarageHub TUI.
package styles

import (
	"strings"
	"time"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// BrailleSpinner - Smooth ASCII spinner
var BrailleSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\", "|", "/", "-", "\\", "|", "/"},
	FPS:    12,
}

// DotsSpinner - Classic three-dot animation
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// LineSpinner - Simple line rotation
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// PulseSpinner - Pulsing indicator
var PulseSpinner = SpinnerConfig{
	Frames: []string{"( )", "(.)", "(o)", "(O)", "(o)", "(.)", "( )", "   "},
	FPS:    8,
}

// ProgressSpinner - Progress dots (used while waiting on the backend)
var ProgressSpinner = SpinnerConfig{
	Frames: []string{"[    ]", "[=   ]", "[==  ]", "[=== ]", "[====]", "[ ===]", "[  ==]", "[   =]"},
	FPS:    4,
}

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// =============================================================================
// PROGRESS INDICATORS
// =============================================================================

// ProgressBar characters for the statistics bar charts.
var (
	ProgressFull    = "#"
	ProgressEmpty   = "-"
	ProgressPartial = []string{".", ":", "+", "#", "#", "#", "#"}
)

// RenderProgressBar creates a progress bar string.
// width: total width of the bar in characters
// percent: 0-100 percentage complete
func RenderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filledWidth := float64(width) * percent / 100
	fullBlocks := int(filledWidth)
	partialIndex := int((filledWidth - float64(fullBlocks)) * float64(len(ProgressPartial)))

	var sb strings.Builder
	sb.Grow(width * 3)

	for i := 0; i < fullBlocks && i < width; i++ {
		sb.WriteString(ProgressFull)
	}

	if fullBlocks < width && partialIndex > 0 {
		sb.WriteString(ProgressPartial[partialIndex-1])
		fullBlocks++
	}

	for i := fullBlocks; i < width; i++ {
		sb.WriteString(ProgressEmpty)
	}

	return sb.String()
}

// =============================================================================
// TYPING ANIMATION
// =============================================================================

// TypingCursor characters for the streaming-reply cursor
var TypingCursor = []string{"_", " "}

// CursorBlinkRate is the rate at which the cursor blinks
var CursorBlinkRate = 530 * time.Millisecond

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// AnimationStatusIndicators for transient states (ASCII-only for compatibility).
// StatusIndicators in colors.go provides the primary shape indicators.
var AnimationStatusIndicators = struct {
	Success   string
	Error     string
	Warning   string
	Info      string
	Loading   string
	Connected string
	Offline   string
}{
	Success:   "[OK]",
	Error:     "[X]",
	Warning:   "[!]",
	Info:      "[i]",
	Loading:   "[.]",
	Connected: "(+)",
	Offline:   "(-)",
}

// =============================================================================
// TREE CONNECTORS
// =============================================================================

// TreeChars for rendering tree structures (like complaint history lists)
var TreeChars = struct {
	Pipe   string
	Tee    string
	Corner string
	Dash   string
}{
	Pipe:   "|",
	Tee:    "+",
	Corner: "`",
	Dash:   "-",
}

// RenderTreeLine creates a tree line prefix.
// isLast: true if this is the last item in the list
func RenderTreeLine(isLast bool) string {
	if isLast {
		return TreeChars.Corner + TreeChars.Dash + " "
	}
	return TreeChars.Tee + TreeChars.Dash + " "
}
