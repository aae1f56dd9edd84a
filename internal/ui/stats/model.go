// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - Fleet statistics screen: totals and per-category bars.
package stats

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/ui/components"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

const fetchTimeout = 15 * time.Second

// State is the statistics screen lifecycle.
type State int

const (
	// StateLoading has a fetch in flight.
	StateLoading State = iota
	// StateLoaded shows the chart.
	StateLoaded
	// StateError shows a dismissible fetch error.
	StateError
)

// StatsLoadedMsg carries the fetched statistics.
type StatsLoadedMsg struct {
	Stats *model.Statistics
	Err   error
}

// BackMsg asks the root app to return to the welcome screen.
type BackMsg struct{}

// Model is the statistics screen.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int

	client  *api.Client
	chart   *components.CategoryBarChart
	spinner components.Spinner
	errView components.ErrorDisplay
}

// New creates the statistics screen.
func New(client *api.Client, theme *styles.Theme) *Model {
	spinner := components.NewSpinner()
	spinner.SetMessage("Fetching statistics")
	spinner.SetShowTimer(false)

	return &Model{
		state:   StateLoading,
		theme:   theme,
		client:  client,
		chart:   components.NewCategoryBarChart(nil),
		spinner: spinner,
	}
}

// Init kicks off the first fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Start(), m.fetchCmd())
}

// SetSize resizes the screen.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.chart.SetWidth(width - 10)
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

	case StatsLoadedMsg:
		m.spinner.Stop()
		if msg.Err != nil {
			m.errView = components.NewErrorWithSuggestions(
				"Could not fetch statistics", api.UserMessage(msg.Err), nil)
			m.errView.SetSize(m.width, m.height)
			m.state = StateError
			return m, nil
		}
		m.chart.SetStats(msg.Stats)
		m.state = StateLoaded
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return BackMsg{} }
	case "r":
		if m.state != StateLoading {
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Start(), m.fetchCmd())
		}
	case "enter":
		if m.state == StateError {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}
	return m, nil
}

func (m *Model) fetchCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		stats, err := client.Statistics(ctx)
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// View renders the statistics screen.
func (m *Model) View() string {
	switch m.state {
	case StateLoading:
		return m.center(m.spinner.View())
	case StateError:
		return m.center(m.errView.View())
	}

	title := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render("Complaint statistics")

	help := m.theme.FormHelp.Render("r: refresh    Esc: back")

	return lipgloss.NewStyle().
		Padding(1, 3).
		Render(title + "\n\n" + m.chart.View() + "\n\n" + help)
}

func (m *Model) center(box string) string {
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
