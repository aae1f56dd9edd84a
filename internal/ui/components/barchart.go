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
// CATEGORY BAR CHART COMPONENT - Complaint statistics as horizontal bars
// =============================================================================

// CategoryBarChart renders fleet statistics as a horizontal bar chart.
// Categories arrive pre-sorted by count from the backend; the chart keeps
// that order.
type CategoryBarChart struct {
	stats    *model.Statistics
	width    int
	barWidth int
}

// NewCategoryBarChart creates a chart for the given statistics snapshot.
func NewCategoryBarChart(stats *model.Statistics) *CategoryBarChart {
	return &CategoryBarChart{
		stats:    stats,
		width:    80,
		barWidth: 20,
	}
}

// SetWidth updates the chart width and scales the bars to fit.
func (c *CategoryBarChart) SetWidth(width int) {
	c.width = width
	// Label column plus count column leave roughly a third for bars
	c.barWidth = width / 3
	if c.barWidth < 10 {
		c.barWidth = 10
	}
	if c.barWidth > 40 {
		c.barWidth = 40
	}
}

// SetStats replaces the statistics snapshot.
func (c *CategoryBarChart) SetStats(stats *model.Statistics) {
	c.stats = stats
}

// View renders the chart.
func (c *CategoryBarChart) View() string {
	if c.stats == nil {
		return lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("No statistics loaded")
	}

	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(styles.Purple).Bold(true)
	b.WriteString(headerStyle.Render("Complaints by category"))
	b.WriteString("\n\n")

	if len(c.stats.ByCategory) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("  No complaints on file yet"))
		return b.String()
	}

	// Longest label decides the label column width
	labelWidth := 0
	for _, cat := range c.stats.ByCategory {
		label := c.categoryLabel(cat.PredictedCategory)
		if len(label) > labelWidth {
			labelWidth = len(label)
		}
	}

	maxCount := 0
	for _, cat := range c.stats.ByCategory {
		if cat.Count > maxCount {
			maxCount = cat.Count
		}
	}

	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	countStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true)
	pctStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	for _, cat := range c.stats.ByCategory {
		label := c.categoryLabel(cat.PredictedCategory)
		padded := label + strings.Repeat(" ", labelWidth-len(label))

		percent := 0.0
		if maxCount > 0 {
			percent = float64(cat.Count) / float64(maxCount) * 100
		}
		bar := styles.RenderProgressBar(c.barWidth, percent)

		share := 0.0
		if c.stats.TotalComplaints > 0 {
			share = float64(cat.Count) / float64(c.stats.TotalComplaints) * 100
		}

		b.WriteString("  ")
		b.WriteString(labelStyle.Render(padded))
		b.WriteString("  ")
		b.WriteString(c.barStyle(cat.PredictedCategory).Render(bar))
		b.WriteString("  ")
		b.WriteString(countStyle.Render(formatNumber(cat.Count)))
		b.WriteString(" ")
		b.WriteString(pctStyle.Render("(" + formatPercent(share) + ")"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(c.renderTotals())

	return b.String()
}

// renderTotals renders the summary line under the chart.
func (c *CategoryBarChart) renderTotals() string {
	totalStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	parts := []string{
		totalStyle.Render(formatNumber(c.stats.TotalComplaints)) + mutedStyle.Render(" total"),
		mutedStyle.Render(formatNumber(c.stats.RecentLast7Days) + " in the last 7 days"),
	}

	if c.stats.CriticalCount > 0 {
		criticalStyle := lipgloss.NewStyle().
			Foreground(styles.CriticalFg).
			Background(styles.CriticalBg).
			Bold(true).
			Padding(0, 1)
		parts = append(parts, criticalStyle.Render(
			formatNumber(c.stats.CriticalCount)+" critical"))
	}

	if c.stats.CrashCount > 0 {
		parts = append(parts, mutedStyle.Render(
			formatNumber(c.stats.CrashCount)+" crash"))
	}

	if c.stats.FireCount > 0 {
		parts = append(parts, mutedStyle.Render(
			formatNumber(c.stats.FireCount)+" fire"))
	}

	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render("  |  ")
	return "  " + strings.Join(parts, sep)
}

// categoryLabel resolves a category code to its display label.
func (c *CategoryBarChart) categoryLabel(code string) string {
	if info, ok := model.Categories[code]; ok {
		return info.Label
	}
	return code
}

// barStyle picks a bar color per category; safety categories stand out.
func (c *CategoryBarChart) barStyle(code string) lipgloss.Style {
	switch code {
	case "brakes_safety", "fuel_system":
		return lipgloss.NewStyle().Foreground(styles.Rose)
	case "engine", "transmission":
		return lipgloss.NewStyle().Foreground(styles.Amber)
	default:
		return lipgloss.NewStyle().Foreground(styles.Cyan)
	}
}
