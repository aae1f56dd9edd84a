// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/garagehub-tui/internal/ui/styles"
)

func TestConnStateString(t *testing.T) {
	tests := []struct {
		state ConnState
		want  string
	}{
		{ConnOnline, "ONLINE"},
		{ConnOffline, "OFFLINE"},
		{ConnChecking, "CHECKING"},
		{ConnState(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("ConnState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestNewHeader(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)

	if h.Title != "garagehub" {
		t.Errorf("NewHeader() Title = %q, want %q", h.Title, "garagehub")
	}
	if h.BackendHost != "" {
		t.Errorf("NewHeader() BackendHost = %q, want empty", h.BackendHost)
	}
	if h.Conn != ConnChecking {
		t.Errorf("NewHeader() Conn = %v, want ConnChecking", h.Conn)
	}
	if h.Width != 80 {
		t.Errorf("NewHeader() Width = %d, want 80", h.Width)
	}
}

func TestHeaderSetWidth(t *testing.T) {
	h := NewHeader(styles.NewTheme())

	h.SetWidth(120)
	if h.Width != 120 {
		t.Errorf("SetWidth(120) Width = %d, want 120", h.Width)
	}
}

func TestHeaderSetBackendHost(t *testing.T) {
	h := NewHeader(styles.NewTheme())

	h.SetBackendHost("localhost:8000")
	if h.BackendHost != "localhost:8000" {
		t.Errorf("SetBackendHost() BackendHost = %q, want %q", h.BackendHost, "localhost:8000")
	}
}

func TestHeaderSetConn(t *testing.T) {
	h := NewHeader(styles.NewTheme())

	h.SetConn(ConnOnline)
	if h.Conn != ConnOnline {
		t.Errorf("SetConn(ConnOnline) Conn = %v, want ConnOnline", h.Conn)
	}
}

func TestHeaderView(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(80)
	h.SetBackendHost("localhost:8000")
	h.SetConn(ConnOnline)

	view := h.View()
	if view == "" {
		t.Fatal("View() returned empty string")
	}
	if !strings.Contains(view, "garagehub") {
		t.Error("View() should contain the title")
	}
	if !strings.Contains(view, "ONLINE") {
		t.Error("View() should contain the connection state")
	}
}

func TestHeaderViewOfflineBadge(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(100)
	h.SetConn(ConnOffline)

	view := h.View()
	if !strings.Contains(view, "OFFLINE") {
		t.Error("View() should show offline state")
	}
	if !strings.Contains(view, "BACKEND UNREACHABLE") {
		t.Error("View() should show the unreachable badge when offline")
	}
}

func TestHeaderViewMinimumWidth(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(10) // Below the 40-column floor

	view := h.View()
	if view == "" {
		t.Fatal("View() at tiny width returned empty string")
	}
}

func TestHeaderViewCompact(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetBackendHost("api.example.com")
	h.SetConn(ConnChecking)

	view := h.ViewCompact()
	if !strings.Contains(view, "garagehub") {
		t.Error("ViewCompact() should contain the title")
	}
	if !strings.Contains(view, "api.example.com") {
		t.Error("ViewCompact() should contain the backend host")
	}
	if !strings.Contains(view, "CHECKING") {
		t.Error("ViewCompact() should contain the connection state")
	}
}

func TestHeaderViewFancy(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(100)
	h.SetBackendHost("localhost:8000")
	h.SetConn(ConnOnline)

	view := h.ViewFancy()
	if !strings.Contains(view, "garagehub") {
		t.Error("ViewFancy() should contain the title")
	}
	if !strings.Contains(view, "Vehicle Complaint Intake") {
		t.Error("ViewFancy() should contain the tagline")
	}
}

func TestHeaderViewFancyNarrowFallback(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(50) // Below the fancy threshold

	fancy := h.ViewFancy()
	plain := h.View()
	if fancy != plain {
		t.Error("ViewFancy() below 60 columns should fall back to View()")
	}
}

func TestHeaderCreateDecorativeLine(t *testing.T) {
	h := NewHeader(styles.NewTheme())

	if line := h.createDecorativeLine(5); line != "" {
		t.Errorf("createDecorativeLine(5) = %q, want empty for tiny width", line)
	}
	if line := h.createDecorativeLine(40); line == "" {
		t.Error("createDecorativeLine(40) should not be empty")
	}
}

func TestGradientTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"short", "ab"},
		{"normal", "garagehub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GradientTitle(tt.text, lipgloss.Color("#7C3AED"), lipgloss.Color("#22D3EE"))
			if tt.text == "" && got != "" {
				t.Errorf("GradientTitle(%q) = %q, want empty", tt.text, got)
			}
			if tt.text != "" && got == "" {
				t.Errorf("GradientTitle(%q) returned empty", tt.text)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b uint8
	}{
		{"7C3AED", 0x7C, 0x3A, 0xED},
		{"000000", 0, 0, 0},
		{"FFFFFF", 255, 255, 255},
		{"xyz", 255, 255, 255}, // Too short falls back to white
	}

	for _, tt := range tests {
		r, g, b := parseHexColor(tt.hex)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("parseHexColor(%q) = (%d,%d,%d), want (%d,%d,%d)",
				tt.hex, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestParseHexByte(t *testing.T) {
	tests := []struct {
		in   string
		want uint8
	}{
		{"00", 0},
		{"ff", 255},
		{"FF", 255},
		{"7c", 0x7C},
		{"zz", 255}, // Invalid digit
		{"f", 255},  // Wrong length
	}

	for _, tt := range tests {
		if got := parseHexByte(tt.in); got != tt.want {
			t.Errorf("parseHexByte(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatHexColor(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    string
	}{
		{0, 0, 0, "#000000"},
		{255, 255, 255, "#FFFFFF"},
		{0x7C, 0x3A, 0xED, "#7C3AED"},
	}

	for _, tt := range tests {
		if got := formatHexColor(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("formatHexColor(%d,%d,%d) = %q, want %q", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestInterpolateColorEndpoints(t *testing.T) {
	start := lipgloss.Color("#000000")
	end := lipgloss.Color("#FFFFFF")

	if got := interpolateColor(start, end, 0); got != lipgloss.Color("#000000") {
		t.Errorf("interpolateColor(t=0) = %v, want start color", got)
	}
	if got := interpolateColor(start, end, 1); got != lipgloss.Color("#FFFFFF") {
		t.Errorf("interpolateColor(t=1) = %v, want end color", got)
	}
}
