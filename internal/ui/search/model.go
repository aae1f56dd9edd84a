// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - Vehicle lookup screen: plate in, complaint history out.
package search

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/storage"
	"github.com/jeranaias/garagehub-tui/internal/ui/components"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

const lookupTimeout = 15 * time.Second

// State is the lookup screen lifecycle.
type State int

const (
	// StateInput waits for a plate.
	StateInput State = iota
	// StateLoading has a lookup in flight.
	StateLoading
	// StateResults shows the vehicle and its complaint history.
	StateResults
	// StateNotFound shows the no-such-vehicle box.
	StateNotFound
	// StateError shows a dismissible backend error.
	StateError
)

// LookupDoneMsg carries the result of a plate lookup. History is nil
// when the vehicle has no complaints on file yet.
type LookupDoneMsg struct {
	Plate   string
	Car     *model.Car
	History *model.ComplaintHistory
	Err     error
}

// SearchRecordedMsg reports the archive write of a successful lookup.
type SearchRecordedMsg struct {
	Err error
}

// BackMsg asks the root app to return to the welcome screen.
type BackMsg struct{}

// Model is the vehicle lookup screen.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int

	client  *api.Client
	archive *storage.Archive

	input   textinput.Model
	spinner components.Spinner
	errView components.ErrorDisplay

	plate   string
	car     *model.Car
	history *model.ComplaintHistory
	scroll  int
}

// New creates the lookup screen. The archive may be nil.
func New(client *api.Client, archive *storage.Archive, theme *styles.Theme) *Model {
	ti := textinput.New()
	ti.Placeholder = "ABC123"
	ti.CharLimit = 16
	ti.Width = 24
	ti.Prompt = "Plate: "
	ti.Focus()

	spinner := components.NewSpinner()
	spinner.SetMessage("Looking up vehicle")
	spinner.SetShowTimer(false)

	return &Model{
		state:   StateInput,
		theme:   theme,
		client:  client,
		archive: archive,
		input:   ti,
		spinner: spinner,
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
	m.errView.SetSize(width, height)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case LookupDoneMsg:
		return m.handleLookupDone(msg)

	case SearchRecordedMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch m.state {
	case StateLoading:
		return m, nil

	case StateError, StateNotFound:
		switch msg.String() {
		case "esc", "enter", "q":
			m.errView.Hide()
			m.state = StateInput
			return m, m.input.Focus()
		}
		return m, nil

	case StateResults:
		switch msg.String() {
		case "esc", "q":
			m.state = StateInput
			m.input.Reset()
			m.scroll = 0
			return m, m.input.Focus()
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
			return m, nil
		case "down", "j":
			if m.history != nil && m.scroll < len(m.history.Complaints)-1 {
				m.scroll++
			}
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return BackMsg{} }
	case "enter":
		return m.lookup()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// lookup fires the plate search. An empty plate is rejected locally.
func (m *Model) lookup() (*Model, tea.Cmd) {
	plate := api.NormalizePlate(m.input.Value())
	if plate == "" {
		m.showError("Missing plate", "Please enter a license plate.")
		return m, nil
	}

	m.state = StateLoading
	m.plate = plate
	client := m.client
	return m, tea.Batch(
		m.spinner.Start(),
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
			defer cancel()

			car, err := client.CarByPlate(ctx, plate)
			if err != nil {
				return LookupDoneMsg{Plate: plate, Err: err}
			}
			history, err := client.ComplaintHistory(ctx, car.ID)
			if err != nil {
				// The car exists; show it without history.
				return LookupDoneMsg{Plate: plate, Car: car}
			}
			return LookupDoneMsg{Plate: plate, Car: car, History: history}
		},
	)
}

func (m *Model) handleLookupDone(msg LookupDoneMsg) (*Model, tea.Cmd) {
	m.spinner.Stop()

	if msg.Err != nil {
		if api.IsNotFound(msg.Err) {
			m.errView = components.VehicleNotFoundError(msg.Plate)
			m.errView.SetSize(m.width, m.height)
			m.state = StateNotFound
			return m, nil
		}
		m.showError("Lookup failed", api.UserMessage(msg.Err))
		return m, nil
	}

	m.car = msg.Car
	m.history = msg.History
	m.scroll = 0
	m.state = StateResults
	m.input.Blur()
	return m, m.recordSearchCmd()
}

// recordSearchCmd stores the successful lookup in the local archive so
// the history command can replay recent searches.
func (m *Model) recordSearchCmd() tea.Cmd {
	if m.archive == nil || m.car == nil {
		return nil
	}
	archive := m.archive
	plate := m.car.LicensePlate
	display := m.car.DisplayName
	total := m.car.TotalComplaints
	if m.history != nil {
		total = m.history.TotalComplaints
	}
	return func() tea.Msg {
		return SearchRecordedMsg{Err: archive.RecordSearch(plate, display, total)}
	}
}

func (m *Model) showError(title, message string) {
	m.errView = components.NewErrorWithSuggestions(title, message, nil)
	m.errView.SetSize(m.width, m.height)
	m.state = StateError
}
