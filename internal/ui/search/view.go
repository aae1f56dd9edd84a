// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - Rendering for the vehicle lookup screen.
package search

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
	"github.com/jeranaias/garagehub-tui/internal/util"
)

// visibleCards caps how many complaint cards render at once; the rest
// scroll with j/k.
const visibleCards = 4

// View renders the lookup screen.
func (m *Model) View() string {
	switch m.state {
	case StateLoading:
		return m.center(m.spinner.View())
	case StateError, StateNotFound:
		return m.center(m.errView.View())
	case StateResults:
		return m.renderResults()
	}
	return m.renderPrompt()
}

func (m *Model) renderPrompt() string {
	title := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render("Find vehicle by plate")

	help := m.theme.FormHelp.Render("Enter: search    Esc: back")

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Cyan).
		Padding(1, 3).
		Render(title + "\n\n" + m.input.View() + "\n\n" + help)

	return m.center(box)
}

func (m *Model) renderResults() string {
	var b strings.Builder

	b.WriteString(m.renderCarCard())
	b.WriteString("\n")

	if m.history == nil || len(m.history.Complaints) == 0 {
		b.WriteString(m.theme.FormHelp.Render("No complaints on file for this vehicle."))
	} else {
		b.WriteString(m.renderComplaintCards())
	}

	b.WriteString("\n\n")
	b.WriteString(m.theme.FormHelp.Render("j/k: scroll    Esc: new search"))

	return lipgloss.NewStyle().Padding(1, 3).Render(b.String())
}

func (m *Model) renderCarCard() string {
	car := m.car
	total := car.TotalComplaints
	if m.history != nil {
		total = m.history.TotalComplaints
	}

	rows := []string{
		m.cardRow("Vehicle", car.DisplayName),
		m.cardRow("Plate", car.LicensePlate),
		m.cardRow("Owner", car.Customer.Name),
		m.cardRow("Mileage", util.IntToString(car.Mileage)+" mi"),
		m.cardRow("On file", util.IntToString(total)+" complaint(s)"),
	}
	return m.theme.CardBox.Render(strings.Join(rows, "\n"))
}

func (m *Model) renderComplaintCards() string {
	complaints := m.history.Complaints
	start := m.scroll
	if start > len(complaints)-1 {
		start = len(complaints) - 1
	}
	end := start + visibleCards
	if end > len(complaints) {
		end = len(complaints)
	}

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, m.renderComplaintCard(&complaints[i]))
	}

	header := m.theme.CardTitle.Render("Complaint history")
	if len(complaints) > visibleCards {
		header += m.theme.FormHelp.Render(
			"  (" + util.IntToString(start+1) + "-" + util.IntToString(end) +
				" of " + util.IntToString(len(complaints)) + ")")
	}

	return header + "\n" + strings.Join(cards, "\n")
}

func (m *Model) renderComplaintCard(c *model.Complaint) string {
	cat := c.Category()
	tier := c.ConfidenceTier()

	tierStyle := m.theme.TierLow
	switch tier {
	case model.TierHigh:
		tierStyle = m.theme.TierHigh
	case model.TierMedium:
		tierStyle = m.theme.TierMedium
	}

	head := m.theme.CategoryBadge.Render(cat.Icon+" "+cat.Label) +
		" " + tierStyle.Render(model.FormatConfidence(c.PredictionConfidence))
	if c.Critical() {
		head += " " + m.theme.CriticalBadge.Render(" CRITICAL ")
	}

	text := util.TruncateRunes(strings.TrimSpace(c.ComplaintText), 120)
	date := c.FormattedDate
	if date == "" {
		date = c.CreatedAt.Format("2006-01-02")
	}

	body := head + "\n" +
		lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(text) + "\n" +
		m.theme.FormHelp.Render("#"+util.Int64ToString(c.ID)+"  "+date)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayDim).
		Padding(0, 1).
		Render(body)
}

func (m *Model) cardRow(label, value string) string {
	return m.theme.CardLabel.Width(10).Render(label) + m.theme.CardValue.Render(value)
}

func (m *Model) center(box string) string {
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
