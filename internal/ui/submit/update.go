// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - Event handling for the intake form.
package submit

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/storage"
	"github.com/jeranaias/garagehub-tui/internal/ui/components"
)

const submitTimeout = 30 * time.Second

// SubmittedMsg carries the backend's answer to a quick submit.
type SubmittedMsg struct {
	Result *api.SubmissionResult
	Err    error
}

// ReceiptSavedMsg reports the local receipt write. Failures are
// ignored; the submission itself already succeeded.
type ReceiptSavedMsg struct {
	Err error
}

// BackMsg asks the root app to return to the welcome screen.
type BackMsg struct{}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SubmittedMsg:
		return m.handleSubmitted(msg)

	case ReceiptSavedMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch m.state {
	case StateSubmitting:
		// Form is frozen while the request is in flight.
		return m, nil

	case StateError:
		switch msg.String() {
		case "esc", "enter", "q":
			m.errView.Hide()
			m.state = StateForm
		}
		return m, nil

	case StateResult:
		switch msg.String() {
		case "n":
			m.resetForm()
			return m, textinput.Blink
		case "esc", "q", "enter":
			return m, func() tea.Msg { return BackMsg{} }
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return BackMsg{} }
	case "tab", "down":
		if m.focus == fieldComplaint && msg.String() == "down" {
			break // down moves the cursor inside the text area
		}
		m.setFocus((m.focus + 1) % fieldCount)
		return m, textinput.Blink
	case "shift+tab", "up":
		if m.focus == fieldComplaint && msg.String() == "up" {
			break
		}
		m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
		return m, textinput.Blink
	case "enter":
		switch m.focus {
		case fieldSubmit:
			return m.submit()
		case fieldComplaint:
			// Plain Enter advances; Shift+Enter adds a line below.
			m.setFocus(m.focus + 1)
			return m, nil
		default:
			m.setFocus(m.focus + 1)
			return m, textinput.Blink
		}
	case "shift+enter":
		if m.focus == fieldComplaint {
			m.complaint.InsertNewLine()
			return m, nil
		}
	case " ":
		switch m.focus {
		case fieldCrash:
			m.crash = !m.crash
			m.banner.SetFlags(m.crash, m.fire)
			return m, nil
		case fieldFire:
			m.fire = !m.fire
			m.banner.SetFlags(m.crash, m.fire)
			return m, nil
		}
	case "ctrl+s":
		return m.submit()
	}

	return m.updateFocused(msg)
}

// updateFocused routes a key to whichever widget holds focus.
func (m *Model) updateFocused(msg tea.KeyMsg) (*Model, tea.Cmd) {
	if m.focus < fieldComplaint {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	if m.focus == fieldComplaint {
		switch msg.Type {
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				m.complaint.InsertChar(r)
			}
		case tea.KeySpace:
			m.complaint.InsertChar(' ')
		case tea.KeyBackspace:
			m.complaint.Backspace()
		}
	}
	return m, nil
}

func (m *Model) setFocus(idx int) {
	if idx < 0 {
		idx = 0
	}
	if idx >= fieldCount {
		idx = fieldCount - 1
	}
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	if idx == fieldComplaint {
		m.complaint.Focus()
	} else {
		m.complaint.Blur()
	}
}

// submit validates locally, then fires the request. Validation errors
// never leave the terminal.
func (m *Model) submit() (*Model, tea.Cmd) {
	req := m.request()
	if err := req.Validate(); err != nil {
		m.showError("Cannot submit yet", api.UserMessage(err))
		return m, nil
	}

	m.state = StateSubmitting
	client := m.client
	return m, tea.Batch(
		m.spinner.Start(),
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
			defer cancel()
			result, err := client.SubmitComplaint(ctx, req)
			return SubmittedMsg{Result: result, Err: err}
		},
	)
}

func (m *Model) handleSubmitted(msg SubmittedMsg) (*Model, tea.Cmd) {
	m.spinner.Stop()
	if msg.Err != nil {
		m.state = StateForm
		m.showError("Submission failed", api.UserMessage(msg.Err))
		return m, nil
	}

	m.result = msg.Result
	m.state = StateResult
	m.banner.SetFlags(msg.Result.Complaint.Crash, msg.Result.Complaint.Fire)
	return m, m.saveReceiptCmd()
}

// saveReceiptCmd records the submission in the local archive.
func (m *Model) saveReceiptCmd() tea.Cmd {
	if m.archive == nil || m.result == nil {
		return nil
	}
	archive := m.archive
	receipt := storage.NewReceipt(&m.result.Complaint, m.result.Car.LicensePlate)
	return func() tea.Msg {
		_, err := archive.SaveReceipt(receipt)
		return ReceiptSavedMsg{Err: err}
	}
}

func (m *Model) showError(title, message string) {
	m.errView = components.NewErrorWithSuggestions(title, message, nil)
	m.errView.SetSize(m.width, m.height)
	m.state = StateError
}
