// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - Rendering for the intake form and the classification card.
package submit

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
	"github.com/jeranaias/garagehub-tui/internal/util"
)

var fieldLabels = [...]string{
	"Name",
	"Email",
	"Phone",
	"License plate",
	"Make",
	"Model",
	"Year",
	"Mileage",
}

// View renders the submission screen.
func (m *Model) View() string {
	switch m.state {
	case StateSubmitting:
		return m.center(m.spinner.View())
	case StateResult:
		return m.center(m.renderResult())
	case StateError:
		return m.center(m.errView.View())
	}
	return m.renderForm()
}

func (m *Model) renderForm() string {
	title := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render("Submit a complaint")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	for i, input := range m.inputs {
		b.WriteString(m.label(fieldLabels[i], m.focus == i))
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	b.WriteString(m.label("Complaint", m.focus == fieldComplaint))
	b.WriteString("\n")
	b.WriteString(m.complaint.View())
	b.WriteString("\n")

	b.WriteString(m.renderToggle("Crash involved", m.crash, m.focus == fieldCrash))
	b.WriteString("\n")
	b.WriteString(m.renderToggle("Fire involved", m.fire, m.focus == fieldFire))
	b.WriteString("\n\n")

	if m.banner.IsCritical() {
		b.WriteString(m.banner.ViewCompact())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderSubmitButton())
	b.WriteString("\n\n")
	b.WriteString(m.theme.FormHelp.Render(
		"Tab/Shift+Tab: move    Space: toggle    Ctrl+S: submit    Esc: back"))

	box := lipgloss.NewStyle().
		Padding(1, 3).
		Render(b.String())

	return box
}

func (m *Model) label(text string, focused bool) string {
	style := m.theme.FormLabel
	if focused {
		style = m.theme.FormLabelFocused
	}
	return style.Width(16).Render(text)
}

func (m *Model) renderToggle(text string, on, focused bool) string {
	mark := "[ ]"
	if on {
		mark = "[x]"
	}
	style := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	if focused {
		style = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	}
	if on {
		style = style.Foreground(styles.Rose)
	}
	return m.label(text, focused) + style.Render(mark)
}

func (m *Model) renderSubmitButton() string {
	style := m.theme.SubmitButton
	if m.focus == fieldSubmit {
		style = m.theme.SubmitFocused
	}
	if len(strings.TrimSpace(m.complaint.Value())) < 10 {
		style = m.theme.SubmitDisabled
	}
	return style.Render("  Submit  ")
}

// renderResult shows the classification card the backend returned.
func (m *Model) renderResult() string {
	r := m.result
	if r == nil {
		return ""
	}

	cat := r.Complaint.Category()
	tier := r.Complaint.ConfidenceTier()

	tierStyle := m.theme.TierLow
	switch tier {
	case model.TierHigh:
		tierStyle = m.theme.TierHigh
	case model.TierMedium:
		tierStyle = m.theme.TierMedium
	}

	rows := []string{
		m.cardRow("Ticket", "#"+util.Int64ToString(r.Complaint.ID)),
		m.cardRow("Customer", r.Customer.Name),
		m.cardRow("Vehicle", r.Car.DisplayName),
		m.cardRow("Plate", r.Car.LicensePlate),
		m.cardRow("Category", cat.Icon+" "+cat.Label),
		m.cardRow("Confidence", tierStyle.Render(model.FormatConfidence(r.Complaint.PredictionConfidence))),
	}

	var b strings.Builder
	b.WriteString(m.theme.CardTitle.Render("Complaint received"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(rows, "\n"))

	if r.Complaint.Critical() {
		b.WriteString("\n\n")
		b.WriteString(m.banner.ViewCompact())
	}

	b.WriteString("\n\n")
	b.WriteString(m.theme.FormHelp.Render("n: submit another    Enter/Esc: back to menu"))

	return m.theme.CardBox.Render(b.String())
}

func (m *Model) cardRow(label, value string) string {
	return m.theme.CardLabel.Width(12).Render(label) + m.theme.CardValue.Render(value)
}

func (m *Model) center(box string) string {
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
