// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - Intake form state for the complaint submission screen.
package submit

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/storage"
	"github.com/jeranaias/garagehub-tui/internal/ui/components"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

// State is the submission screen lifecycle.
type State int

const (
	// StateForm is the editable intake form.
	StateForm State = iota
	// StateSubmitting disables the form while the request is in flight.
	StateSubmitting
	// StateResult shows the classification card for an accepted complaint.
	StateResult
	// StateError shows a dismissible error box over the form.
	StateError
)

// Field indices, in tab order. The complaint text area and the two
// hazard toggles come after the text inputs, the submit button last.
const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldPlate
	fieldMake
	fieldModel
	fieldYear
	fieldMileage
	fieldComplaint
	fieldCrash
	fieldFire
	fieldSubmit
	fieldCount
)

// Model is the complaint intake screen.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int

	client  *api.Client
	archive *storage.Archive

	inputs    []textinput.Model
	complaint *components.MultilineInputArea
	crash     bool
	fire      bool
	focus     int

	spinner components.SubmitSpinner
	banner  *components.CriticalBanner
	errView components.ErrorDisplay

	// result holds the accepted submission while in StateResult.
	result *api.SubmissionResult
}

// New creates the intake form wired to the given backend client. The
// archive may be nil; receipts are then simply not recorded.
func New(client *api.Client, archive *storage.Archive, theme *styles.Theme) *Model {
	labels := []struct {
		placeholder string
		limit       int
	}{
		{"Jane Driver", 80},
		{"jane@example.com", 120},
		{"555-0123", 32},
		{"ABC123", 16},
		{"Honda", 40},
		{"Civic", 40},
		{"2019", 4},
		{"42000", 7},
	}

	inputs := make([]textinput.Model, len(labels))
	for i, l := range labels {
		ti := textinput.New()
		ti.Placeholder = l.placeholder
		ti.CharLimit = l.limit
		ti.Width = 40
		ti.Prompt = ""
		inputs[i] = ti
	}
	inputs[fieldName].Focus()

	return &Model{
		state:     StateForm,
		theme:     theme,
		client:    client,
		archive:   archive,
		inputs:    inputs,
		complaint: components.NewMultilineInputArea(theme),
		spinner:   components.NewSubmitSpinner(),
		banner:    components.NewCriticalBanner(),
	}
}

// Init starts the screen.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize resizes the screen.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.banner.SetWidth(width - 8)
	m.errView.SetSize(width, height)
}

// Submitting reports whether a request is in flight.
func (m *Model) Submitting() bool {
	return m.state == StateSubmitting
}

// Result returns the accepted submission, or nil before one lands.
func (m *Model) Result() *api.SubmissionResult {
	return m.result
}

// request assembles the wire payload from the current field values.
func (m *Model) request() api.QuickSubmitRequest {
	return api.QuickSubmitRequest{
		CustomerName:  m.inputs[fieldName].Value(),
		CustomerEmail: m.inputs[fieldEmail].Value(),
		CustomerPhone: m.inputs[fieldPhone].Value(),
		LicensePlate:  api.NormalizePlate(m.inputs[fieldPlate].Value()),
		CarMake:       m.inputs[fieldMake].Value(),
		CarModel:      m.inputs[fieldModel].Value(),
		CarYear:       atoiOrZero(m.inputs[fieldYear].Value()),
		CarMileage:    atoiOrZero(m.inputs[fieldMileage].Value()),
		ComplaintText: m.complaint.Value(),
		Crash:         m.crash,
		Fire:          m.fire,
	}
}

// resetForm clears every field for the next submission.
func (m *Model) resetForm() {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	m.complaint.Reset()
	m.crash = false
	m.fire = false
	m.focus = fieldName
	m.inputs[fieldName].Focus()
	m.result = nil
	m.state = StateForm
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
