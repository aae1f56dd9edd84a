// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a transcript to Markdown format.
func (e *MarkdownExporter) Export(tr *storage.StoredTranscript) ([]byte, error) {
	if err := validateTranscript(tr); err != nil {
		return nil, err
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(tr.Title)))
		sb.WriteString(fmt.Sprintf("vehicle: %s\n", escapeYAML(tr.CarDisplay)))
		if tr.Category != "" {
			sb.WriteString(fmt.Sprintf("category: %s\n", escapeYAML(categoryLabel(tr.Category))))
		}
		sb.WriteString(fmt.Sprintf("session: %d\n", tr.SessionID))
		sb.WriteString(fmt.Sprintf("date: %s\n", tr.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("updated: %s\n", tr.UpdatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(tr.Messages)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: garagehub-tui\n")
		sb.WriteString("---\n\n")
	}

	// Title
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(tr.Title)))

	// Metadata section
	if e.options.IncludeMetadata {
		sb.WriteString("## Session Information\n\n")
		if tr.CarDisplay != "" {
			sb.WriteString(fmt.Sprintf("- **Vehicle**: %s\n", tr.CarDisplay))
		}
		if tr.Category != "" {
			sb.WriteString(fmt.Sprintf("- **Category**: %s\n", categoryLabel(tr.Category)))
		}
		sb.WriteString(fmt.Sprintf("- **Session**: #%d\n", tr.SessionID))
		sb.WriteString(fmt.Sprintf("- **Created**: %s\n", formatTimestamp(tr.CreatedAt)))
		sb.WriteString(fmt.Sprintf("- **Last Updated**: %s\n", formatTimestamp(tr.UpdatedAt)))
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", len(tr.Messages)))
		sb.WriteString("\n---\n\n")
	}

	// Conversation messages
	sb.WriteString("## Conversation\n\n")

	for i, msg := range tr.Messages {
		// Role label with timestamp
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n",
				roleLabel(msg.Role),
				formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", roleLabel(msg.Role)))
		}

		// The assistant already replies in the markdown-lite dialect, so
		// content passes through unchanged.
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		// Add separator between messages (except last)
		if i < len(tr.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	// Footer
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from garagehub on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// categoryLabel resolves a category code to its display label.
func categoryLabel(code string) string {
	return model.CategoryByCode(code).Label
}

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	// Quote if contains special characters (including backslash)
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		// Escape special characters including newlines and backslashes
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
