// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stats

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	m := New(api.NewClient(), styles.NewTheme())
	m.SetSize(100, 32)
	return m
}

func TestInitStartsLoading(t *testing.T) {
	m := testModel(t)
	if m.state != StateLoading {
		t.Fatalf("state = %d, want StateLoading", m.state)
	}
	if m.Init() == nil {
		t.Error("Init should start a fetch")
	}
}

func TestLoadedStatsRender(t *testing.T) {
	m := testModel(t)
	m.Update(StatsLoadedMsg{Stats: &model.Statistics{
		TotalComplaints: 12,
		ByCategory: []model.CategoryCount{
			{PredictedCategory: "brakes", Count: 7},
			{PredictedCategory: "engine", Count: 5},
		},
		CriticalCount:   2,
		RecentLast7Days: 3,
	}})
	if m.state != StateLoaded {
		t.Fatalf("state = %d, want StateLoaded", m.state)
	}
	view := m.View()
	if !strings.Contains(view, "Complaint statistics") {
		t.Error("view missing title")
	}
}

func TestFetchErrorShowsBox(t *testing.T) {
	m := testModel(t)
	m.Update(StatsLoadedMsg{Err: api.ErrBackendUnavailable})
	if m.state != StateError {
		t.Fatalf("state = %d, want StateError", m.state)
	}
}

func TestRefreshRestartsFetch(t *testing.T) {
	m := testModel(t)
	m.Update(StatsLoadedMsg{Stats: &model.Statistics{}})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("r should start a refresh")
	}
	if m.state != StateLoading {
		t.Fatalf("state = %d, want StateLoading", m.state)
	}
}

func TestEscapeSendsBack(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc should produce a command")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Error("esc should yield BackMsg")
	}
}
