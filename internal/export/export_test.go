// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// testStored builds a transcript in the stored form with one exchange.
func testStored() *storage.StoredTranscript {
	created := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	return &storage.StoredTranscript{
		SessionID:  5,
		Title:      "Brakes grinding",
		CarDisplay: "2019 Honda Civic",
		Category:   "brakes_safety",
		CreatedAt:  created,
		UpdatedAt:  created.Add(2 * time.Minute),
		Messages: []storage.StoredMessage{
			{
				Role:      "user",
				Content:   "My brakes grind when stopping downhill",
				Timestamp: created,
			},
			{
				Role:      "assistant",
				Content:   "**Worn pads** are the usual cause.\n### Next steps\n- Inspect the rotors\n- Replace the pads",
				Timestamp: created.Add(time.Minute),
			},
		},
	}
}

// =============================================================================
// MARKDOWN EXPORT TESTS
// =============================================================================

func TestMarkdownExport_IncludesMetadata(t *testing.T) {
	exporter := NewMarkdownExporter(nil)
	output, err := exporter.Export(testStored())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	for _, want := range []string{
		"title: Brakes grinding",
		"vehicle: 2019 Honda Civic",
		`category: "Brakes & Safety"`,
		"session: 5",
		"generator: garagehub-tui",
		"# Brakes grinding",
		"## Session Information",
		"- **Vehicle**: 2019 Honda Civic",
		"## Conversation",
		"### [You]",
		"### [Mechanic]",
		"**Worn pads** are the usual cause.",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Markdown export missing %q", want)
		}
	}
}

func TestMarkdownExport_WithoutMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	exporter := NewMarkdownExporter(opts)
	output, err := exporter.Export(testStored())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	if strings.HasPrefix(result, "---\n") {
		t.Error("Export should not start with YAML frontmatter when metadata is disabled")
	}
	if strings.Contains(result, "## Session Information") {
		t.Error("Export should not contain the metadata section when disabled")
	}
	if strings.Contains(result, "<sub>") {
		t.Error("Export should not contain timestamps when disabled")
	}
}

func TestMarkdownExport_YAMLEscaping(t *testing.T) {
	tr := testStored()
	tr.Title = "Brakes: grinding\nInjection: attempt"

	exporter := NewMarkdownExporter(nil)
	output, err := exporter.Export(tr)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	if strings.Contains(result, "title: Brakes: grinding\nInjection") {
		t.Error("Newline not escaped in YAML value")
	}
	if !strings.Contains(result, `title: "Brakes: grinding\nInjection: attempt"`) {
		t.Error("Expected quoted, escaped YAML title")
	}
}

// =============================================================================
// HTML EXPORT TESTS
// =============================================================================

func TestHTMLExport_RendersAssistantMarkdown(t *testing.T) {
	exporter := NewHTMLExporter(nil)
	output, err := exporter.Export(testStored())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<body class=\"dark-theme\">",
		"<strong>Worn pads</strong>",
		"<h3>Next steps</h3>",
		"<li>Inspect the rotors</li>",
		"[Mechanic]",
		"2019 Honda Civic",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("HTML export missing %q", want)
		}
	}
}

func TestHTMLExport_EscapesUserContent(t *testing.T) {
	tr := testStored()
	tr.Messages[0].Content = "<script>alert('xss')</script> grinding noise"

	exporter := NewHTMLExporter(nil)
	output, err := exporter.Export(tr)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	if strings.Contains(result, "<script>alert('xss')</script>") {
		t.Error("User content not escaped in HTML export")
	}
	if !strings.Contains(result, "&lt;script&gt;") {
		t.Error("Expected escaped script tag in output")
	}
}

func TestHTMLExport_LightTheme(t *testing.T) {
	opts := DefaultOptions()
	opts.Theme = "light"

	exporter := NewHTMLExporter(opts)
	output, err := exporter.Export(testStored())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.Contains(string(output), "<body class=\"light-theme\">") {
		t.Error("Expected light theme body class")
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestEmptyTranscriptValidation(t *testing.T) {
	noMessages := testStored()
	noMessages.Messages = nil

	noCreated := testStored()
	noCreated.CreatedAt = time.Time{}

	tests := []struct {
		name string
		tr   *storage.StoredTranscript
		want string
	}{
		{name: "nil transcript", tr: nil, want: "transcript is nil"},
		{name: "no messages", tr: noMessages, want: "transcript has no messages"},
		{name: "invalid timestamp", tr: noCreated, want: "invalid creation timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			htmlExporter := NewHTMLExporter(nil)
			_, err := htmlExporter.Export(tt.tr)
			if err == nil {
				t.Errorf("Expected error containing %q, got nil", tt.want)
			} else if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, err.Error())
			}

			mdExporter := NewMarkdownExporter(nil)
			_, err = mdExporter.Export(tt.tr)
			if err == nil {
				t.Errorf("Expected error containing %q, got nil", tt.want)
			} else if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestJSONExporterValidation(t *testing.T) {
	exporter := NewJSONExporter(nil)

	_, err := exporter.Export(nil)
	if err == nil {
		t.Error("Expected error for nil transcript")
	}
	if err != nil && !strings.Contains(err.Error(), "transcript is nil") {
		t.Errorf("Expected 'transcript is nil' error, got %q", err.Error())
	}
}

// =============================================================================
// JSON ROUND TRIP
// =============================================================================

func TestJSONExport_RoundTrip(t *testing.T) {
	original := testStored()

	exporter := NewJSONExporter(nil)
	output, err := exporter.Export(original)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var restored storage.StoredTranscript
	if err := json.Unmarshal(output, &restored); err != nil {
		t.Fatalf("Exported JSON did not parse: %v", err)
	}

	if restored.SessionID != original.SessionID {
		t.Errorf("SessionID = %d, want %d", restored.SessionID, original.SessionID)
	}
	if restored.Title != original.Title {
		t.Errorf("Title = %q, want %q", restored.Title, original.Title)
	}
	if len(restored.Messages) != len(original.Messages) {
		t.Fatalf("Messages = %d, want %d", len(restored.Messages), len(original.Messages))
	}
	if restored.Messages[1].Content != original.Messages[1].Content {
		t.Errorf("Message content did not survive the round trip")
	}
}

// =============================================================================
// FILE OUTPUT TESTS
// =============================================================================

func TestExportToFile_WritesFile(t *testing.T) {
	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()

	path, err := ExportMarkdown(testStored(), opts)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	if filepath.Ext(path) != ".md" {
		t.Errorf("Expected .md extension, got %q", path)
	}
	if !strings.HasPrefix(filepath.Base(path), "chat_Brakes_grinding_") {
		t.Errorf("Unexpected export filename %q", filepath.Base(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Could not read exported file: %v", err)
	}
	if !strings.Contains(string(content), "# Brakes grinding") {
		t.Error("Exported file missing transcript title")
	}
}

func TestExportTranscript_FormatDispatch(t *testing.T) {
	tr := model.NewTranscript(5)
	tr.Title = "Brakes grinding"
	tr.CarDisplay = "2019 Honda Civic"
	user := tr.AddUserMessage("brakes grind")
	tr.Commit(user.ID)

	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()

	for _, format := range []string{"markdown", "md", "html", "json"} {
		if _, err := ExportTranscript(tr, format, opts); err != nil {
			t.Errorf("ExportTranscript(%q) failed: %v", format, err)
		}
	}

	if _, err := ExportTranscript(tr, "docx", opts); err == nil {
		t.Error("Expected error for unsupported format")
	}
	if _, err := ExportTranscript(nil, "markdown", opts); err == nil {
		t.Error("Expected error for nil transcript")
	}
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestFilenameSanitization(t *testing.T) {
	tests := []struct {
		input    string
		mustNot  []string
		mustHave []string
	}{
		{
			input:    "Test/Path\\Name:With*Special?Chars",
			mustNot:  []string{"/", "\\", ":", "*", "?"},
			mustHave: []string{"-"},
		},
		{
			input:    "Test<HTML>Tags|Pipe",
			mustNot:  []string{"<", ">", "|"},
			mustHave: []string{"-"},
		},
		{
			input:    "Test With Spaces\tAnd\nNewlines\r",
			mustNot:  []string{" ", "\t", "\n", "\r"},
			mustHave: []string{"_"},
		},
		{
			input:    "Test\x00\x01\x1fControl\x7fChars",
			mustNot:  []string{"\x00", "\x01", "\x1f", "\x7f"},
			mustHave: []string{"-"},
		},
	}

	for _, tt := range tests {
		result := sanitizeFilename(tt.input)
		for _, char := range tt.mustNot {
			if strings.Contains(result, char) {
				t.Errorf("sanitizeFilename(%q) contains forbidden character %q, got %q", tt.input, char, result)
			}
		}
		for _, char := range tt.mustHave {
			if !strings.Contains(result, char) {
				t.Errorf("sanitizeFilename(%q) should contain %q, got %q", tt.input, char, result)
			}
		}
	}

	if sanitizeFilename("") != "chat" {
		t.Errorf("sanitizeFilename(\"\") = %q, want \"chat\"", sanitizeFilename(""))
	}
}

func TestRoleLabel(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"user", "[You]"},
		{"assistant", "[Mechanic]"},
		{"system", "[System]"},
		{"", "Unknown"},
		{"advisor", "Advisor"},
	}

	for _, tt := range tests {
		if got := roleLabel(tt.role); got != tt.want {
			t.Errorf("roleLabel(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}
