// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides chat transcript export functionality for garagehub.
// Supports exporting transcripts to various formats with styling and metadata.
package export

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/storage"
	"github.com/jeranaias/garagehub-tui/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a transcript to the target format and returns the content.
	Export(tr *storage.StoredTranscript) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".html").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	// Off by default: exports are usually triggered from inside the
	// full-screen TUI, which should stay in the foreground.
	OpenAfterExport bool

	// IncludeMetadata includes the session header (vehicle, category, stats).
	IncludeMetadata bool

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool

	// Theme for HTML export ("light" or "dark").
	// Default: "dark"
	Theme string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		OpenAfterExport:   false,
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		Theme:             "dark",
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a transcript to a file using the specified exporter.
// Returns the output file path or an error.
//
// The filename is derived from the transcript title plus a timestamp, so
// repeated exports of the same session never overwrite each other.
func ExportToFile(tr *storage.StoredTranscript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(tr)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("chat_%s_%s%s",
		sanitizeFilename(tr.Title),
		timestamp,
		exporter.FileExtension(),
	)

	// AtomicWriteFile creates the output directory and guarantees the
	// file is never observed partially written.
	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal - file was still created successfully
			fmt.Printf("Warning: Could not open file: %v\n", err)
		}
	}

	return outputPath, nil
}

// ExportMarkdown exports to Markdown format.
func ExportMarkdown(tr *storage.StoredTranscript, opts *Options) (string, error) {
	exporter := NewMarkdownExporter(opts)
	return ExportToFile(tr, exporter, opts)
}

// ExportHTML exports to HTML format.
func ExportHTML(tr *storage.StoredTranscript, opts *Options) (string, error) {
	exporter := NewHTMLExporter(opts)
	return ExportToFile(tr, exporter, opts)
}

// ExportJSON exports to JSON format.
func ExportJSON(tr *storage.StoredTranscript, opts *Options) (string, error) {
	exporter := NewJSONExporter(opts)
	return ExportToFile(tr, exporter, opts)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	// Limit length
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	// Replace problematic characters (Windows and Unix)
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			// Replace control characters
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "chat"
	}

	return string(result)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// Properly quote path for Windows cmd - use quoted empty string for window title
		// and the path should be the last argument
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// validateTranscript rejects transcripts that cannot produce a useful export.
func validateTranscript(tr *storage.StoredTranscript) error {
	if tr == nil {
		return fmt.Errorf("transcript is nil")
	}
	if len(tr.Messages) == 0 {
		return fmt.Errorf("transcript has no messages")
	}
	if tr.CreatedAt.IsZero() {
		return fmt.Errorf("transcript has invalid creation timestamp")
	}
	return nil
}

// roleLabel returns the display label for a message role. The chat pairs
// a customer with the shop's virtual mechanic, so exports use those
// names instead of raw role strings.
func roleLabel(role string) string {
	switch role {
	case "user":
		return "[You]"
	case "assistant":
		return "[Mechanic]"
	case "system":
		return "[System]"
	case "":
		return "Unknown"
	default:
		runes := []rune(role)
		return strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
